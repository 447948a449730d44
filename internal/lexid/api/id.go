package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jimyag/lexid/internal/lexid/entity"
	"github.com/jimyag/lexid/internal/lexid/service"
	"github.com/jimyag/lexid/pkg/ginx"
)

// IDServiceInterface 定义 ID 服务的接口
type IDServiceInterface interface {
	GenerateULIDs(ctx context.Context, req *entity.GenerateULIDsRequest) (*entity.GenerateULIDsResponse, error)
	GenerateSLIDs(ctx context.Context, req *entity.GenerateSLIDsRequest) (*entity.GenerateSLIDsResponse, error)
	DescribeULID(ctx context.Context, req *entity.DescribeULIDRequest) (*entity.DescribeULIDResponse, error)
	SystemCheck(ctx context.Context) (*entity.SystemCheckResponse, error)
}

type ID struct {
	idService IDServiceInterface
}

func NewID(idService *service.IDService) *ID {
	return &ID{
		idService: idService,
	}
}

func (i *ID) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/generate-ulids", ginx.Adapt5(i.GenerateULIDs))
	router.POST("/generate-slids", ginx.Adapt5(i.GenerateSLIDs))
	router.POST("/describe-ulid", ginx.Adapt5(i.DescribeULID))
	router.GET("/system-check", ginx.Adapt3(i.SystemCheck))
}

func (i *ID) GenerateULIDs(ctx *gin.Context, req *entity.GenerateULIDsRequest) (*entity.GenerateULIDsResponse, error) {
	logger := zerolog.Ctx(ctx.Request.Context())

	response, err := i.idService.GenerateULIDs(ctx.Request.Context(), req)
	if err != nil {
		logger.Error().
			Err(err).
			Str("kind", req.Kind).
			Msg("Failed to generate ULIDs")
		return nil, err
	}
	return response, nil
}

func (i *ID) GenerateSLIDs(ctx *gin.Context, req *entity.GenerateSLIDsRequest) (*entity.GenerateSLIDsResponse, error) {
	logger := zerolog.Ctx(ctx.Request.Context())

	response, err := i.idService.GenerateSLIDs(ctx.Request.Context(), req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to generate SLIDs")
		return nil, err
	}
	return response, nil
}

func (i *ID) DescribeULID(ctx *gin.Context, req *entity.DescribeULIDRequest) (*entity.DescribeULIDResponse, error) {
	return i.idService.DescribeULID(ctx.Request.Context(), req)
}

func (i *ID) SystemCheck(ctx *gin.Context) (*entity.SystemCheckResponse, error) {
	return i.idService.SystemCheck(ctx.Request.Context())
}
