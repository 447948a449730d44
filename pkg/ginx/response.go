package ginx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jimyag/lexid/pkg/apierror"
)

// renderResponse 渲染 JSON 响应，nil 返回 204
func renderResponse(ctx *gin.Context, response any) {
	if response == nil {
		ctx.Status(http.StatusNoContent)
		return
	}
	ctx.JSON(http.StatusOK, response)
}

// renderError 渲染错误响应
// 错误链中有 *apierror.Error 或 *apierror.ErrorResponse 时直接序列化，否则使用 InternalError
func renderError(ctx *gin.Context, statusCode int, err error) {
	var errorResp *apierror.ErrorResponse
	if errors.As(err, &errorResp) {
		if len(errorResp.Errors) > 0 && errorResp.Errors[0].HTTPStatus > 0 {
			statusCode = errorResp.Errors[0].HTTPStatus
		}
		ctx.JSON(statusCode, errorResp)
		return
	}

	var apiErr *apierror.Error
	if !errors.As(err, &apiErr) {
		apiErr = apierror.WrapError(apierror.ErrInternal, err.Error(), err)
		if statusCode != http.StatusInternalServerError {
			apiErr = apierror.WrapError(apierror.ErrInvalidParameter, err.Error(), err)
		}
	}
	if apiErr.HTTPStatus > 0 {
		statusCode = apiErr.HTTPStatus
	}

	if statusCode >= http.StatusInternalServerError {
		zerolog.Ctx(ctx.Request.Context()).Error().Err(err).
			Str("path", ctx.FullPath()).
			Msg("Request failed")
	}

	ctx.JSON(statusCode, apierror.NewErrorResponse(ctx.GetHeader("X-Request-Id"), apiErr))
}
