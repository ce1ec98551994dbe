package server

import (
	"github.com/kataras/iris/v12"

	"github.com/example/shopbackend/internal/auth"
	"github.com/example/shopbackend/internal/config"
	"github.com/example/shopbackend/internal/infra/mq"
	"github.com/example/shopbackend/internal/infra/redis"
	"github.com/example/shopbackend/internal/infra/storage"
	"github.com/example/shopbackend/internal/middleware"
	"github.com/example/shopbackend/internal/repository/mysql"
	"github.com/example/shopbackend/internal/service"
)

// RegisterRoutes 注册前台 HTTP 路由
func RegisterRoutes(app *iris.Application, cfg *config.Config) {
	// 初始化基础设施
	db := mysql.Init(&cfg.MySQL)
	redisClient := redis.Init(&cfg.Redis)
	mqConn := mq.Init(&cfg.RabbitMQ)
	imageStorage := storage.NewLocalImageStorage(cfg.Image.Dir)

	// 仓储与服务
	productRepo := mysql.NewProductRepository(db)
	productSvc := service.NewProductService(productRepo, redisClient, imageStorage, cfg.Image.MaxBytes)
	orderSvc := service.NewOrderService(db, mqConn)

	api := app.Party("/api")

	// 健康检查
	api.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{
			"code": 0,
			"msg":  "ok",
		})
	})

	// 需要登录的接口：JWT 解析出的用户 ID 显式放入上下文，再传给服务层
	authAPI := api.Party("/", func(ctx iris.Context) {
		token := ctx.GetHeader("Authorization")
		if token == "" {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "missing token"})
			return
		}
		claims, err := auth.ParseToken(&cfg.JWT, token)
		if err != nil {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "invalid token"})
			return
		}
		ctx.Values().Set("user_id", claims.UserID)
		ctx.Next()
	})

	// 商品列表：支持名称模糊搜索
	authAPI.Get("/products", func(ctx iris.Context) {
		keyword := ctx.URLParam("q")
		if keyword != "" {
			list, err := productSvc.SearchByName(ctx.Request().Context(), keyword)
			if err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(iris.Map{"code": 0, "data": list})
			return
		}
		list, err := productSvc.ListAll(ctx.Request().Context())
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	// 商品详情（走缓存）
	authAPI.Get("/products/{id:uint64}", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetUint64("id")
		p, err := productSvc.GetDetail(ctx.Request().Context(), int64(pid))
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": p})
	})

	// 创建订单
	authAPI.Post("/orders", middleware.CreateOrderRateLimit(), func(ctx iris.Context) {
		var req struct {
			Items []service.CreateOrderItem `json:"items"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		userID := ctx.Values().GetInt64Default("user_id", 0)
		o, err := orderSvc.Create(ctx.Request().Context(), userID, req.Items)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(iris.Map{"code": 0, "data": toOrderDTO(o)})
	})

	// 我的订单
	authAPI.Get("/orders", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		list, err := orderSvc.ListMine(ctx.Request().Context(), userID)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": toOrderSummaries(list)})
	})

	// 订单详情
	authAPI.Get("/orders/{id:uint64}", func(ctx iris.Context) {
		oid, _ := ctx.Params().GetUint64("id")
		o, err := orderSvc.GetByID(ctx.Request().Context(), int64(oid))
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": toOrderDTO(o)})
	})

	// 取消订单：归还全部行项目的库存
	authAPI.Post("/orders/{id:uint64}/cancel", func(ctx iris.Context) {
		oid, _ := ctx.Params().GetUint64("id")
		o, err := orderSvc.Cancel(ctx.Request().Context(), int64(oid))
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": toOrderDTO(o)})
	})
}
