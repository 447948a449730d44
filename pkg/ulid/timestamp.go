package ulid

import (
	"math/big"
	"time"

	"github.com/jimyag/lexid/pkg/apierror"
	"github.com/jimyag/lexid/pkg/entropy"
	"github.com/jimyag/lexid/pkg/value"
)

// MaxMilliseconds 48 bit 时间戳能表示的最大毫秒数
const MaxMilliseconds uint64 = 1<<48 - 1

// Timestamp 48 bit 毫秒时间戳，亚毫秒精度被截断
type Timestamp struct {
	value.Value
}

// Now 时钟当前时间
func Now(clock entropy.Clock) (Timestamp, error) {
	return TimestampFromMilliseconds(clock.NowMilli())
}

// TimestampFromMilliseconds 从毫秒构造
func TimestampFromMilliseconds(ms uint64) (Timestamp, error) {
	v, err := TimestampKind.FromUint64(ms)
	return Timestamp{v}, err
}

// TimestampFromNanoseconds 从纳秒构造
func TimestampFromNanoseconds(ns uint64) (Timestamp, error) {
	return TimestampFromMilliseconds(ns / uint64(time.Millisecond))
}

// TimestampFromSeconds 从秒构造
func TimestampFromSeconds(s float64) (Timestamp, error) {
	if s < 0 {
		return Timestamp{}, apierror.Errorf(apierror.ErrRange, "negative seconds %v", s)
	}
	return TimestampFromMilliseconds(uint64(s * 1000))
}

// TimestampFromTime 从 time.Time 构造，与时区无关
func TimestampFromTime(t time.Time) (Timestamp, error) {
	ms := t.UnixMilli()
	if ms < 0 {
		return Timestamp{}, apierror.Errorf(apierror.ErrRange, "time %s is before the epoch", t)
	}
	return TimestampFromMilliseconds(uint64(ms))
}

// TimestampFromBytes 从 6 个字节构造
func TimestampFromBytes(b []byte) (Timestamp, error) {
	v, err := TimestampKind.FromBytes(b)
	return Timestamp{v}, err
}

// TimestampFromInt 从整数构造
func TimestampFromInt(n *big.Int) (Timestamp, error) {
	v, err := TimestampKind.FromInt(n)
	return Timestamp{v}, err
}

// ParseTimestamp 解析文本、0x/0o/0b 或调试形式
func ParseTimestamp(s string) (Timestamp, error) {
	v, err := TimestampKind.Parse(s)
	return Timestamp{v}, err
}

// Milliseconds 毫秒数
func (t Timestamp) Milliseconds() uint64 {
	ms, _ := t.Uint64()
	return ms
}

// Nanoseconds 纳秒数
func (t Timestamp) Nanoseconds() uint64 {
	return t.Milliseconds() * uint64(time.Millisecond)
}

// Seconds 秒数
func (t Timestamp) Seconds() float64 {
	return float64(t.Milliseconds()) / 1000
}

// Time UTC 时间
func (t Timestamp) Time() time.Time {
	return time.UnixMilli(int64(t.Milliseconds())).UTC()
}

// LocalTime 本地时间
func (t Timestamp) LocalTime() time.Time {
	return time.UnixMilli(int64(t.Milliseconds())).Local()
}
