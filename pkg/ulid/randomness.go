package ulid

import (
	"io"
	"math/big"

	"github.com/jimyag/lexid/pkg/apierror"
	"github.com/jimyag/lexid/pkg/value"
)

// Counter 单调计数器，lexical 包中的生成器都满足该接口
type Counter interface {
	Next() *big.Int
}

// Randomness ULID 的 80 bit 随机部分
type Randomness struct {
	value.Value
}

// NewRandomness 从随机源读取 10 个字节
func NewRandomness(src io.Reader) (Randomness, error) {
	b := make([]byte, RandomnessWidth)
	if _, err := io.ReadFull(src, b); err != nil {
		return Randomness{}, apierror.WrapError(apierror.ErrInternal, "read randomness", err)
	}
	return RandomnessFromBytes(b)
}

// RandomnessFromCounter 用计数器的下一个值作为随机部分
func RandomnessFromCounter(c Counter) (Randomness, error) {
	return RandomnessFromInt(c.Next())
}

// RandomnessFromBytes 从 10 个字节构造
func RandomnessFromBytes(b []byte) (Randomness, error) {
	v, err := RandomnessKind.FromBytes(b)
	return Randomness{v}, err
}

// RandomnessFromInt 从整数构造
func RandomnessFromInt(n *big.Int) (Randomness, error) {
	v, err := RandomnessKind.FromInt(n)
	return Randomness{v}, err
}

// ParseRandomness 解析文本、0x/0o/0b 或调试形式
func ParseRandomness(s string) (Randomness, error) {
	v, err := RandomnessKind.Parse(s)
	return Randomness{v}, err
}

// SLIDRandomness SLID 的 16 bit 随机部分，文本为 4 位大写十六进制
type SLIDRandomness struct {
	value.Value
}

// NewSLIDRandomness 从随机源读取 2 个字节
func NewSLIDRandomness(src io.Reader) (SLIDRandomness, error) {
	b := make([]byte, SLIDRandomnessWidth)
	if _, err := io.ReadFull(src, b); err != nil {
		return SLIDRandomness{}, apierror.WrapError(apierror.ErrInternal, "read randomness", err)
	}
	return SLIDRandomnessFromBytes(b)
}

// SLIDRandomnessFromCounter 用计数器的下一个值作为随机部分
func SLIDRandomnessFromCounter(c Counter) (SLIDRandomness, error) {
	return SLIDRandomnessFromInt(c.Next())
}

// SLIDRandomnessFromBytes 从 2 个字节构造
func SLIDRandomnessFromBytes(b []byte) (SLIDRandomness, error) {
	v, err := SLIDRandomnessKind.FromBytes(b)
	return SLIDRandomness{v}, err
}

// SLIDRandomnessFromInt 从整数构造
func SLIDRandomnessFromInt(n *big.Int) (SLIDRandomness, error) {
	v, err := SLIDRandomnessKind.FromInt(n)
	return SLIDRandomness{v}, err
}

// ParseSLIDRandomness 解析文本、0x/0o/0b 或调试形式
func ParseSLIDRandomness(s string) (SLIDRandomness, error) {
	v, err := SLIDRandomnessKind.Parse(s)
	return SLIDRandomness{v}, err
}
