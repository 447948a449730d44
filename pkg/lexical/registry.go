package lexical

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jimyag/lexid/pkg/apierror"
	"github.com/jimyag/lexid/pkg/counterstore"
)

// ErrRegistryClosed Registry 已关闭
var ErrRegistryClosed = apierror.Errorf(apierror.ErrInternal, "counter registry is closed")

// Option Registry 选项
type Option func(*Registry)

// WithWarningHandler 每产生一个持久化警告就回调一次
func WithWarningHandler(fn func(error)) Option {
	return func(r *Registry) {
		r.onWarning = fn
	}
}

// slot 懒创建的生成器，创建时只锁住自己
type slot struct {
	mu  sync.Mutex
	gen *Locked
}

// Registry 进程内的计数器注册表
//
// 进程启动时创建，退出前调用 Close。各种计数器在第一次使用时创建，
// 返回的生成器都是并发安全的。分配环境 ID 可能要等待跨进程锁，
// 等待期间只阻塞同一种计数器的调用方。
type Registry struct {
	store     counterstore.Store
	onWarning func(error)

	// mu 保护 closed、runtime、threads、warnings
	mu       sync.Mutex
	closed   bool
	runtime  *Locked
	threads  map[string]*slot
	warnings []error

	local    slot
	localCtr *Counter // 由 local.mu 保护
	env      slot
	shortEnv slot
	slid     slot
}

// NewRegistry 创建注册表
func NewRegistry(store counterstore.Store, opts ...Option) *Registry {
	r := &Registry{
		store:   store,
		threads: make(map[string]*slot),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store 底层存储
func (r *Registry) Store() counterstore.Store {
	return r.store
}

func (r *Registry) checkOpen() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRegistryClosed
	}
	return nil
}

func (r *Registry) warn(err error) {
	r.mu.Lock()
	r.warnings = append(r.warnings, err)
	r.mu.Unlock()

	if r.onWarning != nil {
		r.onWarning(err)
	}
}

// Warnings 目前为止产生的持久化警告
func (r *Registry) Warnings() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.warnings...)
}

// Runtime 进程内计数器
func (r *Registry) Runtime() (Generator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRegistryClosed
	}
	if r.runtime == nil {
		r.runtime = NewLocked(NewRuntime())
	}
	return r.runtime, nil
}

// Local 持久化的 80 bit 计数器，从上次写回的值之后继续
// 没有记录时当作上次写回了 0，第一个值是 1
func (r *Registry) Local(ctx context.Context) (Generator, error) {
	r.local.mu.Lock()
	defer r.local.mu.Unlock()
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	if r.local.gen != nil {
		return r.local.gen, nil
	}

	last, found, err := r.store.Load(ctx, counterstore.KeyLocal)
	if err != nil {
		return nil, fmt.Errorf("load local counter: %w", err)
	}
	if !found {
		last = new(big.Int)
		r.warn(apierror.Errorf(apierror.ErrPersistence, "counter %q not found, starting at 1", counterstore.KeyLocal))
		log.Warn().Str("key", counterstore.KeyLocal).Msg("Local counter not found, starting at 1")
	}

	r.localCtr = NewCounter(new(big.Int).Add(last, big.NewInt(1)), MaxRuntime, 0, 0)
	r.local.gen = NewLocked(r.localCtr)
	log.Debug().Str("start", r.localCtr.Current().String()).Msg("Local counter loaded")
	return r.local.gen, nil
}

func (r *Registry) envGenerator(ctx context.Context, layout Layout) (*Locked, error) {
	a, err := AssignEnv(ctx, r.store, layout.Key, layout.MaxEnv())
	if err != nil {
		return nil, err
	}
	if a.Warning != nil {
		r.warn(a.Warning)
	}
	log.Debug().Str("key", layout.Key).Uint64("env", a.Env).Msg("Environment counter created")
	return NewLocked(NewEnv(layout, a.Env)), nil
}

// Env 8 bit 环境 ID + 72 bit 自由计数
func (r *Registry) Env(ctx context.Context) (Generator, error) {
	return r.shared(ctx, &r.env, LayoutEnv)
}

// ShortEnv 4 bit 环境 ID + 4 bit 自由计数
func (r *Registry) ShortEnv(ctx context.Context) (Generator, error) {
	return r.shared(ctx, &r.shortEnv, LayoutShortEnv)
}

// SLID 8 bit 环境 ID + 8 bit 自由计数
func (r *Registry) SLID(ctx context.Context) (Generator, error) {
	return r.shared(ctx, &r.slid, LayoutSLID)
}

func (r *Registry) shared(ctx context.Context, s *slot, layout Layout) (Generator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	if s.gen == nil {
		g, err := r.envGenerator(ctx, layout)
		if err != nil {
			return nil, err
		}
		s.gen = g
	}
	return s.gen, nil
}

// ThreadEnv 按身份分配环境 ID 的计数器，同一身份总是拿到同一个生成器
func (r *Registry) ThreadEnv(ctx context.Context, identity string) (Generator, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRegistryClosed
	}
	s, ok := r.threads[identity]
	if !ok {
		s = &slot{}
		r.threads[identity] = s
	}
	r.mu.Unlock()

	return r.shared(ctx, s, LayoutThreadEnv)
}

// Generator 按种类取生成器，identity 只对 KindThreadEnv 有意义
func (r *Registry) Generator(ctx context.Context, kind Kind, identity string) (Generator, error) {
	switch kind {
	case KindRuntime:
		return r.Runtime()
	case KindLocal:
		return r.Local(ctx)
	case KindEnv:
		return r.Env(ctx)
	case KindThreadEnv:
		return r.ThreadEnv(ctx, identity)
	case KindShortEnv:
		return r.ShortEnv(ctx)
	case KindSLID:
		return r.SLID(ctx)
	default:
		return nil, apierror.Errorf(apierror.ErrInvalidParameter, "unknown counter kind %q", kind)
	}
}

// Close 写回 local 计数器最后产生的值，之后不能再取生成器
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	r.local.mu.Lock()
	defer r.local.mu.Unlock()
	if r.local.gen == nil {
		return nil
	}

	var last *big.Int
	var ok bool
	r.local.gen.Do(func(Generator) {
		last, ok = r.localCtr.Last()
	})
	if !ok {
		return nil
	}

	if err := r.store.Save(ctx, counterstore.KeyLocal, last); err != nil {
		return fmt.Errorf("persist local counter: %w", err)
	}
	log.Debug().Str("value", last.String()).Msg("Local counter persisted")
	return nil
}
