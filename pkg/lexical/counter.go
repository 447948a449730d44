package lexical

import (
	"math/big"
	"sync"

	"github.com/jimyag/lexid/pkg/counterstore"
)

// Generator 产生下一个计数值
type Generator interface {
	Next() *big.Int
}

// Layout 环境计数器的位布局
type Layout struct {
	// Key 环境 ID 在 counterstore 中的键
	Key      string
	EnvBits  uint
	FreeBits uint
}

// 各种计数器的位布局
var (
	LayoutEnv       = Layout{Key: counterstore.KeyEnv, EnvBits: 8, FreeBits: 72}
	LayoutThreadEnv = Layout{Key: counterstore.KeyThreadEnv, EnvBits: 8, FreeBits: 72}
	LayoutShortEnv  = Layout{Key: counterstore.KeyShortEnv, EnvBits: 4, FreeBits: 4}
	LayoutSLID      = Layout{Key: counterstore.KeySLID, EnvBits: 8, FreeBits: 8}
)

// MaxEnv 最大环境 ID
func (l Layout) MaxEnv() uint64 {
	return 1<<l.EnvBits - 1
}

// MaxFree 自由计数的最大值
func (l Layout) MaxFree() *big.Int {
	return maxOfBits(l.FreeBits)
}

// RuntimeBits runtime 和 local 计数器的位数
const RuntimeBits = 80

// MaxRuntime runtime 和 local 计数器的最大值 2^80-1
var MaxRuntime = maxOfBits(RuntimeBits)

func maxOfBits(bits uint) *big.Int {
	one := big.NewInt(1)
	return new(big.Int).Sub(new(big.Int).Lsh(one, bits), one)
}

// Counter 计数器状态机
//
// Next 返回 (current << shift) | env，然后 current = (current + 1) mod (max + 1)。
// Counter 不是并发安全的，需要共享时用 Locked 包装。
type Counter struct {
	current *big.Int
	max     *big.Int
	shift   uint
	env     *big.Int
	last    *big.Int
}

// NewCounter 创建计数器，start 大于 maxValue 时按 max+1 取模
func NewCounter(start, maxValue *big.Int, shift uint, env uint64) *Counter {
	modulus := new(big.Int).Add(maxValue, big.NewInt(1))
	return &Counter{
		current: new(big.Int).Mod(start, modulus),
		max:     new(big.Int).Set(maxValue),
		shift:   shift,
		env:     new(big.Int).SetUint64(env),
	}
}

// NewRuntime 从 0 开始的 80 bit 计数器
func NewRuntime() *Counter {
	return NewCounter(new(big.Int), MaxRuntime, 0, 0)
}

// NewEnv 按布局创建带环境 ID 的计数器
func NewEnv(layout Layout, env uint64) *Counter {
	return NewCounter(new(big.Int), layout.MaxFree(), layout.EnvBits, env&layout.MaxEnv())
}

// Next 返回当前值并前进一步
func (c *Counter) Next() *big.Int {
	v := new(big.Int).Lsh(c.current, c.shift)
	v.Or(v, c.env)

	c.last = new(big.Int).Set(c.current)
	if c.current.Cmp(c.max) >= 0 {
		c.current.SetInt64(0)
	} else {
		c.current.Add(c.current, big.NewInt(1))
	}
	return v
}

// Env 环境 ID
func (c *Counter) Env() uint64 {
	return c.env.Uint64()
}

// Current 下一次 Next 使用的自由计数
func (c *Counter) Current() *big.Int {
	return new(big.Int).Set(c.current)
}

// Last 最后一次 Next 使用的自由计数，还没调用过 Next 时 ok 为 false
func (c *Counter) Last() (last *big.Int, ok bool) {
	if c.last == nil {
		return nil, false
	}
	return new(big.Int).Set(c.last), true
}

// Locked 加锁的生成器
type Locked struct {
	mu sync.Mutex
	g  Generator
}

// NewLocked 包装生成器
func NewLocked(g Generator) *Locked {
	return &Locked{g: g}
}

// Next 并发安全的 Next
func (l *Locked) Next() *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.g.Next()
}

// Do 持锁访问内部生成器
func (l *Locked) Do(fn func(g Generator)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.g)
}
