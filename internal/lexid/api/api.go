package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jimyag/lexid/internal/lexid/service"
)

type API struct {
	engine *gin.Engine
	server *http.Server

	id *ID
}

func New(address string, idService *service.IDService) (*API, error) {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	api := &API{
		engine: engine,
		id:     NewID(idService),
	}
	api.id.RegisterRoutes(engine.Group("/api"))
	api.server = &http.Server{
		Addr:    address,
		Handler: engine,
	}
	return api, nil
}

// Handler 返回 HTTP handler，便于测试
func (a *API) Handler() http.Handler {
	return a.engine
}

func (a *API) Run(ctx context.Context) error {
	zerolog.Ctx(ctx).Info().Str("address", a.server.Addr).Msg("HTTP server listening")
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *API) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// Name 实现 grace.Grace 接口
func (a *API) Name() string {
	return "lexid API"
}

// requestLogger 把默认 logger 注入请求的 context
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := zerolog.Ctx(c.Request.Context()).With().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
		c.Next()
	}
}
