// Package lexid 提供 lexid 服务器的主入口和初始化逻辑
package lexid

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jimmicro/grace"
	"github.com/rs/zerolog"

	"github.com/jimyag/lexid/internal/lexid/api"
	"github.com/jimyag/lexid/internal/lexid/config"
	"github.com/jimyag/lexid/internal/lexid/service"
	"github.com/jimyag/lexid/pkg/counterstore"
	"github.com/jimyag/lexid/pkg/idgen"
)

type Server struct {
	cfg       *config.Config
	api       *api.API
	generator *generatorService
}

func New(cfg *config.Config) (*Server, error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	// 1. 打开计数器存储
	store, err := counterstore.Open(cfg.Store, cfg.DataDir, cfg.LockTimeout)
	if err != nil {
		return nil, fmt.Errorf("open counter store: %w", err)
	}
	logger.Info().
		Str("store", string(cfg.Store)).
		Str("data_dir", cfg.DataDir).
		Dur("lock_timeout", cfg.LockTimeout).
		Msg("Counter store opened")

	// 2. 创建生成器
	opts := []idgen.Option{idgen.WithStore(store)}
	if cfg.SystemChecks {
		opts = append(opts, idgen.WithSystemCheck())
	}
	gen := idgen.New(opts...)

	// 3. 创建 API
	apiInstance, err := api.New(cfg.Address, service.NewIDService(gen))
	if err != nil {
		gen.Close(context.Background())
		return nil, err
	}

	return &Server{
		cfg:       cfg,
		api:       apiInstance,
		generator: newGeneratorService(gen),
	}, nil
}

func (s *Server) Run(ctx context.Context) error {
	// 使用 grace.Shepherd 管理服务生命周期
	services := []grace.Grace{
		s.api,
		s.generator,
	}

	shepherd := grace.NewShepherd(
		services,
		grace.WithTimeout(30*time.Second),
		grace.WithLogger(&zerologLogger{}),
	)

	shepherd.Start(ctx)
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	apiErr := s.api.Shutdown(ctx)
	if err := s.generator.Shutdown(ctx); err != nil {
		return err
	}
	return apiErr
}

// Name 实现 grace.Grace 接口
func (s *Server) Name() string {
	return "lexid Server"
}

// generatorService 让生成器随服务一起退出，退出时写回 local 计数器
type generatorService struct {
	gen       *idgen.Generator
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

func newGeneratorService(gen *idgen.Generator) *generatorService {
	return &generatorService{gen: gen, done: make(chan struct{})}
}

func (g *generatorService) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
	case <-g.done:
	}
	return nil
}

func (g *generatorService) Shutdown(ctx context.Context) error {
	g.closeOnce.Do(func() {
		g.closeErr = g.gen.Close(ctx)
		close(g.done)
		zerolog.Ctx(ctx).Info().Err(g.closeErr).Msg("Generator closed")
	})
	return g.closeErr
}

// Name 实现 grace.Grace 接口
func (g *generatorService) Name() string {
	return "id generator"
}

// zerologLogger 实现 grace.Logger 接口
type zerologLogger struct{}

func (l *zerologLogger) Info(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Info()
	// 如果有参数，使用 Msgf 格式化消息
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}

func (l *zerologLogger) Error(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Error()
	// 如果有参数，使用 Msgf 格式化消息
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}
