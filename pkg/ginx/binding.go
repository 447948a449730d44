package ginx

import (
	"github.com/gin-gonic/gin"

	"github.com/jimyag/lexid/pkg/apierror"
)

// bindArgs 绑定请求参数到 args 结构体
// 有 body 时按 JSON 解析，同时绑定 Query 参数；没有 body 时只绑定 Query 参数
func bindArgs(ctx *gin.Context, args any) error {
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(args); err != nil {
			return apierror.WrapError(apierror.ErrInvalidParameter, "invalid JSON body: "+err.Error(), err)
		}
		_ = ctx.ShouldBindQuery(args)
		return nil
	}

	if err := ctx.ShouldBindQuery(args); err != nil {
		return apierror.WrapError(apierror.ErrInvalidParameter, "invalid query: "+err.Error(), err)
	}
	return nil
}
