package server

import (
	"io"
	"time"

	"github.com/kataras/iris/v12"

	"github.com/example/shopbackend/internal/config"
	"github.com/example/shopbackend/internal/infra/mq"
	"github.com/example/shopbackend/internal/infra/redis"
	"github.com/example/shopbackend/internal/infra/storage"
	"github.com/example/shopbackend/internal/repository/mysql"
	"github.com/example/shopbackend/internal/service"
)

// RegisterAdminRoutes 注册后台管理端的 HTTP 路由
// 端口通常是 8081，与前台 Web 服务分离。
func RegisterAdminRoutes(app *iris.Application, cfg *config.Config) {
	// 初始化基础设施
	db := mysql.Init(&cfg.MySQL)
	redisClient := redis.Init(&cfg.Redis)
	mqConn := mq.Init(&cfg.RabbitMQ)
	imageStorage := storage.NewLocalImageStorage(cfg.Image.Dir)

	// 仓储与服务
	productRepo := mysql.NewProductRepository(db)
	productSvc := service.NewProductService(productRepo, redisClient, imageStorage, cfg.Image.MaxBytes)
	orderSvc := service.NewOrderService(db, mqConn)

	api := app.Party("/api/admin")

	// ---------- 商品管理 ----------

	// 商品列表：支持名称搜索、库存过滤、价格区间
	api.Get("/products", func(ctx iris.Context) {
		rctx := ctx.Request().Context()

		if keyword := ctx.URLParam("q"); keyword != "" {
			list, err := productSvc.SearchByName(rctx, keyword)
			if err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(iris.Map{"code": 0, "data": list})
			return
		}

		if ctx.URLParamExists("in_stock") {
			inStock, err := ctx.URLParamBool("in_stock")
			if err != nil {
				ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "in_stock 参数必须是布尔值"})
				return
			}
			list, err := productSvc.ListInStock(rctx, inStock)
			if err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(iris.Map{"code": 0, "data": list})
			return
		}

		if ctx.URLParamExists("price_from") || ctx.URLParamExists("price_to") {
			from := ctx.URLParamInt64Default("price_from", 0)
			to := ctx.URLParamInt64Default("price_to", 0)
			list, err := productSvc.ListPriceBetween(rctx, from, to)
			if err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(iris.Map{"code": 0, "data": list})
			return
		}

		list, err := productSvc.ListAll(rctx)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	api.Get("/products/{id:uint64}", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetUint64("id")
		p, err := productSvc.GetByID(ctx.Request().Context(), int64(pid))
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": p})
	})

	api.Post("/products", func(ctx iris.Context) {
		var req struct {
			Name  string `json:"name"`
			Price int64  `json:"price"`
			Stock int64  `json:"stock"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		p, err := productSvc.Create(ctx.Request().Context(), req.Name, req.Price, req.Stock)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(iris.Map{"code": 0, "data": p})
	})

	api.Put("/products/{id:uint64}", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetUint64("id")
		var req struct {
			Name  string `json:"name"`
			Price int64  `json:"price"`
			Stock int64  `json:"stock"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		p, err := productSvc.Update(ctx.Request().Context(), int64(pid), req.Name, req.Price, req.Stock)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": p})
	})

	api.Delete("/products/{id:uint64}", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetUint64("id")
		if err := productSvc.Delete(ctx.Request().Context(), int64(pid)); err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "deleted"})
	})

	// 上传商品主图（multipart 字段名 image）
	api.Post("/products/{id:uint64}/image", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetUint64("id")

		file, header, err := ctx.FormFile("image")
		if err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "missing image file"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}

		contentType := header.Header.Get("Content-Type")
		p, err := productSvc.UploadImage(ctx.Request().Context(), int64(pid), contentType, data)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": p})
	})

	api.Delete("/products/{id:uint64}/image", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetUint64("id")
		p, err := productSvc.DeleteImage(ctx.Request().Context(), int64(pid))
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": p})
	})

	// ---------- 订单管理 ----------

	// 订单列表：支持状态过滤与创建时间区间过滤
	api.Get("/orders", func(ctx iris.Context) {
		rctx := ctx.Request().Context()

		if raw := ctx.URLParam("status"); raw != "" {
			list, err := orderSvc.ListByStatus(rctx, raw)
			if err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(iris.Map{"code": 0, "data": toOrderSummaries(list)})
			return
		}

		if ctx.URLParamExists("from") || ctx.URLParamExists("to") {
			from, err := time.Parse(time.RFC3339, ctx.URLParam("from"))
			if err != nil {
				ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "from 参数必须是 RFC3339 时间"})
				return
			}
			to, err := time.Parse(time.RFC3339, ctx.URLParam("to"))
			if err != nil {
				ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "to 参数必须是 RFC3339 时间"})
				return
			}
			list, err := orderSvc.ListCreatedBetween(rctx, from, to)
			if err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(iris.Map{"code": 0, "data": toOrderSummaries(list)})
			return
		}

		list, err := orderSvc.ListAll(rctx)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": toOrderSummaries(list)})
	})

	api.Get("/orders/{id:uint64}", func(ctx iris.Context) {
		oid, _ := ctx.Params().GetUint64("id")
		o, err := orderSvc.GetByID(ctx.Request().Context(), int64(oid))
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": toOrderDTO(o)})
	})

	// 订单状态迁移（取消会同时归还库存）
	api.Put("/orders/{id:uint64}/status", func(ctx iris.Context) {
		oid, _ := ctx.Params().GetUint64("id")
		var req struct {
			Status string `json:"status"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		o, err := orderSvc.ChangeStatus(ctx.Request().Context(), int64(oid), req.Status)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": toOrderDTO(o)})
	})

	api.Delete("/orders/{id:uint64}", func(ctx iris.Context) {
		oid, _ := ctx.Params().GetUint64("id")
		if err := orderSvc.Delete(ctx.Request().Context(), int64(oid)); err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "deleted"})
	})

	// ---------- 监控 ----------

	api.Get("/stats", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "data": service.GetMonitor().GetStats()})
	})
}
