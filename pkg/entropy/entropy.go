// Package entropy 提供注入式的毫秒时钟和随机字节源
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	mrand "math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jimyag/lexid/pkg/apierror"
)

// Clock 毫秒时间戳来源
type Clock interface {
	NowMilli() uint64
}

// ClockFunc 函数适配 Clock
type ClockFunc func() uint64

func (f ClockFunc) NowMilli() uint64 { return f() }

// SystemClock 系统时钟，Unix 纪元起的毫秒数
var SystemClock Clock = ClockFunc(func() uint64 {
	return uint64(time.Now().UnixMilli())
})

// FixedClock 固定时间的时钟，用于测试
func FixedClock(ms uint64) Clock {
	return ClockFunc(func() uint64 { return ms })
}

// Source 随机字节源
// 默认读取 crypto/rand，读取失败时切换到 ChaCha8 伪随机源并记录告警
// 降级后的数据不具备密码学安全性，Degraded 会一直返回 true
type Source struct {
	primary  io.Reader
	degraded atomic.Bool

	mu       sync.Mutex
	fallback *mrand.ChaCha8
	warning  error
}

// NewSource 创建随机字节源，primary 为 nil 时使用 crypto/rand
func NewSource(primary io.Reader) *Source {
	if primary == nil {
		primary = rand.Reader
	}
	return &Source{primary: primary}
}

var defaultSource = NewSource(nil)

// Default 进程级默认随机源
func Default() *Source {
	return defaultSource
}

// Read 实现 io.Reader
func (s *Source) Read(p []byte) (int, error) {
	if !s.degraded.Load() {
		n, err := io.ReadFull(s.primary, p)
		if err == nil {
			return n, nil
		}
		s.degrade(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.fallback.Read(p)
	return len(p), nil
}

// Bytes 读取 n 个随机字节
func (s *Source) Bytes(n int) []byte {
	b := make([]byte, n)
	_, _ = s.Read(b)
	return b
}

// Degraded 是否已经切换到非密码学随机源
func (s *Source) Degraded() bool {
	return s.degraded.Load()
}

// Warning 切换到备用随机源之后返回 ErrPersistence 告警，否则为 nil
func (s *Source) Warning() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warning
}

func (s *Source) degrade(cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fallback != nil {
		return
	}

	var seed [32]byte
	binary.BigEndian.PutUint64(seed[:], uint64(time.Now().UnixNano()))
	binary.BigEndian.PutUint64(seed[8:], mrand.Uint64())
	binary.BigEndian.PutUint64(seed[16:], mrand.Uint64())
	binary.BigEndian.PutUint64(seed[24:], mrand.Uint64())
	s.fallback = mrand.NewChaCha8(seed)
	s.warning = apierror.WrapError(apierror.ErrPersistence, "cryptographic random source unavailable, using ChaCha8 fallback", cause)
	s.degraded.Store(true)

	log.Warn().
		Err(cause).
		Msg("Cryptographic random source unavailable, falling back to non-cryptographic ChaCha8")
}
