package idgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jimyag/lexid/pkg/apierror"
	"github.com/jimyag/lexid/pkg/counterstore"
	"github.com/jimyag/lexid/pkg/entropy"
	"github.com/jimyag/lexid/pkg/lexical"
	"github.com/jimyag/lexid/pkg/syscheck"
	"github.com/jimyag/lexid/pkg/ulid"
)

// Generator ULID / SLID 生成器
type Generator struct {
	clock    entropy.Clock
	random   io.Reader
	store    counterstore.Store
	registry *lexical.Registry
	report   *syscheck.Report
	check    bool
}

var (
	defaultGenerator     *Generator
	defaultGeneratorOnce sync.Once
)

// initDefaultGenerator 初始化默认生成器
func initDefaultGenerator() {
	defaultGenerator = New()
}

// DefaultGenerator 返回默认的 ID 生成器
// 计数器保存在 counterstore.DefaultDir()，同一用户的进程之间分配到不同的环境 ID
func DefaultGenerator() *Generator {
	defaultGeneratorOnce.Do(initDefaultGenerator)
	return defaultGenerator
}

// Option 生成器选项
type Option func(*Generator)

// WithClock 替换时钟
func WithClock(c entropy.Clock) Option {
	return func(g *Generator) { g.clock = c }
}

// WithRandom 替换随机源
func WithRandom(r io.Reader) Option {
	return func(g *Generator) { g.random = r }
}

// WithStore 指定计数器存储，Close 时一并关闭
// counterstore.MemoryStore 只适用于单进程，多个进程会拿到相同的环境 ID
func WithStore(s counterstore.Store) Option {
	return func(g *Generator) { g.store = s }
}

// WithDataDir 计数器文件放在 dir 下
func WithDataDir(dir string) Option {
	return func(g *Generator) {
		g.store = counterstore.NewFileStore(dir, counterstore.DefaultLockTimeout)
	}
}

// WithSystemCheck 创建时执行一次环境自检并输出告警
func WithSystemCheck() Option {
	return func(g *Generator) { g.check = true }
}

// New 创建新的 ID 生成器
func New(opts ...Option) *Generator {
	g := &Generator{
		clock:  entropy.SystemClock,
		random: entropy.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.store == nil {
		g.store = counterstore.NewFileStore(counterstore.DefaultDir(), counterstore.DefaultLockTimeout)
	}
	g.registry = lexical.NewRegistry(g.store, lexical.WithWarningHandler(func(err error) {
		log.Warn().Err(err).Msg("Counter persistence warning")
	}))

	if g.check {
		report := g.SystemCheck()
		report.Log()
		g.report = &report
	}
	return g
}

// Registry 计数器注册表
func (g *Generator) Registry() *lexical.Registry {
	return g.registry
}

// Report 自检结果，没有启用自检时为 nil
func (g *Generator) Report() *syscheck.Report {
	return g.report
}

// SystemCheck 立即执行一次环境自检
func (g *Generator) SystemCheck() syscheck.Report {
	return syscheck.Run(g.clock, syscheck.WithRandom(g.random))
}

// Warnings 计数器持久化告警，随机源降级时也会出现在这里
func (g *Generator) Warnings() []error {
	warnings := g.registry.Warnings()
	if src, ok := g.random.(interface{ Warning() error }); ok {
		if err := src.Warning(); err != nil {
			warnings = append(warnings, err)
		}
	}
	return warnings
}

// ULID 当前时间 + 随机字节
func (g *Generator) ULID() (ulid.ULID, error) {
	id, err := ulid.New(g.clock, g.random)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("generate ULID: %w", err)
	}
	return id, nil
}

// Lexical 当前时间 + 计数器，KindThreadEnv 需要使用 ThreadLexical
func (g *Generator) Lexical(ctx context.Context, kind lexical.Kind) (ulid.ULID, error) {
	if kind == lexical.KindThreadEnv {
		return ulid.ULID{}, apierror.Errorf(apierror.ErrInvalidParameter, "counter kind %q requires an identity", kind)
	}
	return g.lexical(ctx, kind, "")
}

// ThreadLexical 按调用方身份分配计数器
func (g *Generator) ThreadLexical(ctx context.Context, identity string) (ulid.ULID, error) {
	return g.lexical(ctx, lexical.KindThreadEnv, identity)
}

func (g *Generator) lexical(ctx context.Context, kind lexical.Kind, identity string) (ulid.ULID, error) {
	c, err := g.registry.Generator(ctx, kind, identity)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("get %s counter: %w", kind, err)
	}
	id, err := ulid.NewLexical(g.clock, c)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("generate lexical ULID: %w", err)
	}
	return id, nil
}

// SLID 当前时间 + SLID 计数器
func (g *Generator) SLID(ctx context.Context) (ulid.SLID, error) {
	c, err := g.registry.SLID(ctx)
	if err != nil {
		return ulid.SLID{}, fmt.Errorf("get slid counter: %w", err)
	}
	id, err := ulid.NewSLID(g.clock, c)
	if err != nil {
		return ulid.SLID{}, fmt.Errorf("generate SLID: %w", err)
	}
	return id, nil
}

// RandomSLID 当前时间 + 2 个随机字节
func (g *Generator) RandomSLID() (ulid.SLID, error) {
	id, err := ulid.NewRandomSLID(g.clock, g.random)
	if err != nil {
		return ulid.SLID{}, fmt.Errorf("generate SLID: %w", err)
	}
	return id, nil
}

// GenerateID 生成带前缀的 ID（格式：{prefix}-{ULID}）
func (g *Generator) GenerateID(prefix string) (string, error) {
	id, err := g.ULID()
	if err != nil {
		return "", err
	}
	if prefix == "" {
		return id.String(), nil
	}
	return prefix + "-" + id.String(), nil
}

// Close 写回 local 计数器并关闭存储
func (g *Generator) Close(ctx context.Context) error {
	return errors.Join(g.registry.Close(ctx), g.store.Close())
}

// 包级别的便捷函数，使用默认生成器

// ULID 使用默认生成器生成随机 ULID
func ULID() (ulid.ULID, error) {
	return DefaultGenerator().ULID()
}

// Lexical 使用默认生成器生成 lexical ULID
func Lexical(ctx context.Context, kind lexical.Kind) (ulid.ULID, error) {
	return DefaultGenerator().Lexical(ctx, kind)
}

// SLID 使用默认生成器生成 SLID
func SLID(ctx context.Context) (ulid.SLID, error) {
	return DefaultGenerator().SLID(ctx)
}

// GenerateID 使用默认生成器生成带前缀的 ID
func GenerateID(prefix string) (string, error) {
	return DefaultGenerator().GenerateID(prefix)
}
