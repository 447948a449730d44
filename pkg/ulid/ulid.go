package ulid

import (
	"io"
	"math/big"

	"github.com/jimyag/lexid/pkg/entropy"
	"github.com/jimyag/lexid/pkg/value"
)

// ULID 时间戳 + 80 bit 随机部分
type ULID struct {
	value.Value
}

// New 当前时间 + 随机字节
func New(clock entropy.Clock, src io.Reader) (ULID, error) {
	ts, err := Now(clock)
	if err != nil {
		return ULID{}, err
	}
	rnd, err := NewRandomness(src)
	if err != nil {
		return ULID{}, err
	}
	return Compose(ts, rnd), nil
}

// Make 系统时钟 + 默认随机源，失败时 panic
func Make() ULID {
	id, err := New(entropy.SystemClock, entropy.Default())
	if err != nil {
		panic(err)
	}
	return id
}

// NewLexical 当前时间 + 计数器的下一个值
// 同一个计数器产生的 ULID 严格递增（回绕前），代价是随机部分可预测
func NewLexical(clock entropy.Clock, c Counter) (ULID, error) {
	ts, err := Now(clock)
	if err != nil {
		return ULID{}, err
	}
	rnd, err := RandomnessFromCounter(c)
	if err != nil {
		return ULID{}, err
	}
	return Compose(ts, rnd), nil
}

// Compose 拼接时间戳和随机部分
func Compose(ts Timestamp, rnd Randomness) ULID {
	v, err := ULIDKind.FromBytes(append(ts.Bytes(), rnd.Bytes()...))
	if err != nil {
		panic(err)
	}
	return ULID{v}
}

// FromBytes 从 16 个字节构造
func FromBytes(b []byte) (ULID, error) {
	v, err := ULIDKind.FromBytes(b)
	return ULID{v}, err
}

// FromInt 从整数构造
func FromInt(n *big.Int) (ULID, error) {
	v, err := ULIDKind.FromInt(n)
	return ULID{v}, err
}

// Parse 解析 26 个字符的文本、0x/0o/0b 或调试形式
func Parse(s string) (ULID, error) {
	v, err := ULIDKind.Parse(s)
	return ULID{v}, err
}

// MustParse 同 Parse，失败时 panic
func MustParse(s string) ULID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Timestamp 前 6 个字节
func (u ULID) Timestamp() Timestamp {
	ts, _ := TimestampFromBytes(u.Bytes()[:TimestampWidth])
	return ts
}

// Randomness 后 10 个字节
func (u ULID) Randomness() Randomness {
	rnd, _ := RandomnessFromBytes(u.Bytes()[TimestampWidth:])
	return rnd
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (u *ULID) UnmarshalText(text []byte) error {
	id, err := Parse(string(text))
	if err != nil {
		return err
	}
	*u = id
	return nil
}

// SLID 时间戳 + 16 bit 随机部分
type SLID struct {
	value.Value
}

// NewSLID 当前时间 + 计数器的下一个值
func NewSLID(clock entropy.Clock, c Counter) (SLID, error) {
	ts, err := Now(clock)
	if err != nil {
		return SLID{}, err
	}
	rnd, err := SLIDRandomnessFromCounter(c)
	if err != nil {
		return SLID{}, err
	}
	return ComposeSLID(ts, rnd), nil
}

// NewRandomSLID 当前时间 + 随机字节
func NewRandomSLID(clock entropy.Clock, src io.Reader) (SLID, error) {
	ts, err := Now(clock)
	if err != nil {
		return SLID{}, err
	}
	rnd, err := NewSLIDRandomness(src)
	if err != nil {
		return SLID{}, err
	}
	return ComposeSLID(ts, rnd), nil
}

// ComposeSLID 拼接时间戳和随机部分
func ComposeSLID(ts Timestamp, rnd SLIDRandomness) SLID {
	v, err := SLIDKind.FromBytes(append(ts.Bytes(), rnd.Bytes()...))
	if err != nil {
		panic(err)
	}
	return SLID{v}
}

// SLIDFromBytes 从 8 个字节构造
func SLIDFromBytes(b []byte) (SLID, error) {
	v, err := SLIDKind.FromBytes(b)
	return SLID{v}, err
}

// SLIDFromInt 从整数构造
func SLIDFromInt(n *big.Int) (SLID, error) {
	v, err := SLIDKind.FromInt(n)
	return SLID{v}, err
}

// ParseSLID 解析 14 个字符的文本、0x/0o/0b 或调试形式
func ParseSLID(s string) (SLID, error) {
	v, err := SLIDKind.Parse(s)
	return SLID{v}, err
}

// Timestamp 前 6 个字节
func (s SLID) Timestamp() Timestamp {
	ts, _ := TimestampFromBytes(s.Bytes()[:TimestampWidth])
	return ts
}

// Randomness 后 2 个字节
func (s SLID) Randomness() SLIDRandomness {
	rnd, _ := SLIDRandomnessFromBytes(s.Bytes()[TimestampWidth:])
	return rnd
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (s *SLID) UnmarshalText(text []byte) error {
	id, err := ParseSLID(string(text))
	if err != nil {
		return err
	}
	*s = id
	return nil
}

var (
	MinTimestamp      = Timestamp{TimestampKind.Min()}      // 0
	MaxTimestamp      = Timestamp{TimestampKind.Max()}      // 281,474,976,710,655
	MinRandomness     = Randomness{RandomnessKind.Min()}    // 0
	MaxRandomness     = Randomness{RandomnessKind.Max()}    // 1,208,925,819,614,629,174,706,175
	MinSLIDRandomness = SLIDRandomness{SLIDRandomnessKind.Min()}
	MaxSLIDRandomness = SLIDRandomness{SLIDRandomnessKind.Max()}
	MinULID           = ULID{ULIDKind.Min()}
	MaxULID           = ULID{ULIDKind.Max()} // 2^128 - 1
	MinSLID           = SLID{SLIDKind.Min()}
	MaxSLID           = SLID{SLIDKind.Max()}
)
