// Package syscheck 启动时的环境自检
//
// 检查项只产生告警，不会阻止生成 ID：
//   - 时钟分辨率粗于 1ms
//   - Unix 纪元不是 1970-01-01T00:00:00Z
//   - 随机源不可用或已经降级
//   - 当前时间明显不合理（早于 MinYear，或超出 48 bit 毫秒时间戳）
package syscheck

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jimyag/lexid/pkg/entropy"
)

// MinYear 早于该年份的当前时间视为时钟错误
const MinYear = 2025

// maxMilliseconds 48 bit 时间戳能表示的最大毫秒数
const maxMilliseconds = 1<<48 - 1

// Report 自检结果
type Report struct {
	ClockResolution time.Duration
	EpochOK         bool
	RandomOK        bool
	TimeSane        bool
	Warnings        []string
}

// OK 没有任何告警
func (r Report) OK() bool {
	return len(r.Warnings) == 0
}

// Log 逐条输出告警
func (r Report) Log() {
	for _, w := range r.Warnings {
		log.Warn().Str("check", "system").Msg(w)
	}
	log.Info().
		Dur("clock_resolution", r.ClockResolution).
		Bool("epoch_ok", r.EpochOK).
		Bool("random_ok", r.RandomOK).
		Bool("time_sane", r.TimeSane).
		Msg("System check finished")
}

type options struct {
	nanos   func() int64
	random  io.Reader
	samples int
}

// Option 自检选项
type Option func(*options)

// WithNanoClock 替换用于测量分辨率的纳秒时钟
func WithNanoClock(fn func() int64) Option {
	return func(o *options) { o.nanos = fn }
}

// WithRandom 替换被检查的随机源
func WithRandom(r io.Reader) Option {
	return func(o *options) { o.random = r }
}

// Run 执行全部检查
func Run(clock entropy.Clock, opts ...Option) Report {
	o := options{
		nanos:   func() int64 { return time.Now().UnixNano() },
		random:  entropy.Default(),
		samples: 5,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var r Report

	r.ClockResolution = clockResolution(o.nanos, o.samples)
	switch {
	case r.ClockResolution == 0:
		r.Warnings = append(r.Warnings, "clock did not advance while measuring its resolution")
	case r.ClockResolution > time.Millisecond:
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("clock resolution %v is coarser than 1ms, identifiers in the same tick share a timestamp", r.ClockResolution))
	}

	r.EpochOK = time.Unix(0, 0).UTC().Equal(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC))
	if !r.EpochOK {
		r.Warnings = append(r.Warnings, "system epoch is not 1970-01-01T00:00:00Z")
	}

	r.RandomOK = randomOK(o.random)
	if !r.RandomOK {
		r.Warnings = append(r.Warnings, "random source unavailable or degraded to a non-cryptographic fallback")
	}

	ms := clock.NowMilli()
	now := time.UnixMilli(int64(ms)).UTC()
	r.TimeSane = ms <= maxMilliseconds && now.Year() >= MinYear
	if !r.TimeSane {
		r.Warnings = append(r.Warnings, fmt.Sprintf("current time %s looks wrong", now.Format(time.RFC3339)))
	}

	return r
}

// clockResolution 连续读时钟直到数值变化，取多次采样中的最小步长
func clockResolution(nanos func() int64, samples int) time.Duration {
	const maxSpins = 1_000_000

	best := time.Duration(0)
	for i := 0; i < samples; i++ {
		start := nanos()
		next := start
		for spin := 0; next == start && spin < maxSpins; spin++ {
			next = nanos()
		}
		if next == start {
			continue
		}
		d := time.Duration(next - start)
		if best == 0 || d < best {
			best = d
		}
	}
	return best
}

func randomOK(r io.Reader) bool {
	if s, ok := r.(interface{ Degraded() bool }); ok && s.Degraded() {
		return false
	}

	a := make([]byte, 16)
	b := make([]byte, 16)
	if _, err := io.ReadFull(r, a); err != nil {
		return false
	}
	if _, err := io.ReadFull(r, b); err != nil {
		return false
	}
	if s, ok := r.(interface{ Degraded() bool }); ok && s.Degraded() {
		return false
	}
	return !bytes.Equal(a, b)
}
