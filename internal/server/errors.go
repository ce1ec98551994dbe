package server

import (
	"errors"

	"github.com/kataras/iris/v12"

	"github.com/example/shopbackend/internal/common"
)

// writeError 按业务错误类型映射 HTTP 状态码
func writeError(ctx iris.Context, err error) {
	var (
		notFound      *common.NotFoundError
		outOfStock    *common.OutOfStockError
		badStatus     *common.InvalidStatusError
		badTransition *common.InvalidStatusTransitionError
		badRange      *common.InvalidRangeError
		imageTooBig   *common.ImageTooLargeError
		badImageType  *common.InvalidImageTypeError
	)

	switch {
	case errors.As(err, &notFound):
		ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": err.Error()})
	case errors.As(err, &outOfStock):
		ctx.StopWithJSON(409, iris.Map{
			"code": 409,
			"msg":  err.Error(),
			"data": iris.Map{
				"product_id": outOfStock.ProductID,
				"requested":  outOfStock.Requested,
				"available":  outOfStock.Available,
			},
		})
	case errors.As(err, &badStatus):
		ctx.StopWithJSON(400, iris.Map{
			"code": 400,
			"msg":  err.Error(),
			"data": iris.Map{"allowed": badStatus.Allowed},
		})
	case errors.As(err, &badTransition):
		ctx.StopWithJSON(409, iris.Map{
			"code": 409,
			"msg":  err.Error(),
			"data": iris.Map{"allowed_next": badTransition.AllowedNext},
		})
	case errors.As(err, &badRange):
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
	case errors.As(err, &imageTooBig):
		ctx.StopWithJSON(413, iris.Map{"code": 413, "msg": err.Error()})
	case errors.As(err, &badImageType):
		ctx.StopWithJSON(415, iris.Map{"code": 415, "msg": err.Error()})
	default:
		ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
	}
}
