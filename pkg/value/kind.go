package value

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/jimyag/lexid/pkg/apierror"
)

// Codec 文本编解码
// Encode 对定宽输入不会失败；Decode 需要返回恰好 width 个字节
type Codec interface {
	Encode(b []byte) string
	Decode(text string, width int) ([]byte, error)
}

// Kind 一类定宽值
type Kind struct {
	// Name 用于调试形式 "<Name TEXT>" 和错误信息
	Name string
	// Width 字节宽度
	Width int
	// Codec 文本形式使用的编解码
	Codec Codec
}

// Bits 位宽
func (k *Kind) Bits() int {
	return k.Width * 8
}

// Min 全 0 值
func (k *Kind) Min() Value {
	return Value{kind: k, prime: strings.Repeat("\x00", k.Width)}
}

// Max 全 1 值
func (k *Kind) Max() Value {
	return Value{kind: k, prime: strings.Repeat("\xff", k.Width)}
}

// MaxInt 最大整数值 2^bits - 1
func (k *Kind) MaxInt() *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(k.Bits())), big.NewInt(1))
}

// FromBytes 从规范字节构造，长度必须等于 Width
func (k *Kind) FromBytes(b []byte) (Value, error) {
	if len(b) != k.Width {
		return Value{}, apierror.Errorf(apierror.ErrFormat, "%s: want %d bytes, got %d", k.Name, k.Width, len(b))
	}
	return Value{kind: k, prime: string(b)}, nil
}

// FromInt 从非负整数构造
func (k *Kind) FromInt(n *big.Int) (Value, error) {
	if n == nil || n.Sign() < 0 || n.BitLen() > k.Bits() {
		return Value{}, apierror.Errorf(apierror.ErrRange, "%s: %v does not fit into %d bits", k.Name, n, k.Bits())
	}
	buf := make([]byte, k.Width)
	n.FillBytes(buf)
	return Value{kind: k, prime: string(buf)}, nil
}

// FromUint64 从 uint64 构造
func (k *Kind) FromUint64(n uint64) (Value, error) {
	return k.FromInt(new(big.Int).SetUint64(n))
}

// FromText 从编解码文本构造
func (k *Kind) FromText(text string) (Value, error) {
	if k.Codec == nil {
		return Value{}, apierror.Errorf(apierror.ErrInternal, "%s: no text codec", k.Name)
	}
	b, err := k.Codec.Decode(text, k.Width)
	if err != nil {
		return Value{}, fmt.Errorf("decode %s %q: %w", k.Name, text, err)
	}
	return k.FromBytes(b)
}

// FromHex 从十六进制文本构造，"0x" 前缀可选
func (k *Kind) FromHex(s string) (Value, error) {
	return k.fromRadix(s, 16, "0x")
}

// FromOct 从八进制文本构造，"0o" 前缀可选
func (k *Kind) FromOct(s string) (Value, error) {
	return k.fromRadix(s, 8, "0o")
}

// FromBin 从二进制文本构造，"0b" 前缀可选
func (k *Kind) FromBin(s string) (Value, error) {
	return k.fromRadix(s, 2, "0b")
}

func (k *Kind) fromRadix(s string, base int, prefix string) (Value, error) {
	digits := s
	if len(digits) >= 2 && strings.EqualFold(digits[:2], prefix) {
		digits = digits[2:]
	}
	if digits == "" || strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") || strings.Contains(digits, "_") {
		return Value{}, apierror.Errorf(apierror.ErrFormat, "%s: invalid base %d literal %q", k.Name, base, s)
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return Value{}, apierror.Errorf(apierror.ErrFormat, "%s: invalid base %d literal %q", k.Name, base, s)
	}
	return k.FromInt(n)
}

// FromDebug 从调试形式 "<Name TEXT>" 构造
func (k *Kind) FromDebug(s string) (Value, error) {
	prefix := "<" + k.Name + " "
	if !strings.HasPrefix(s, prefix) || !strings.HasSuffix(s, ">") {
		return Value{}, apierror.Errorf(apierror.ErrFormat, "%s: invalid debug form %q", k.Name, s)
	}
	return k.FromText(s[len(prefix) : len(s)-1])
}

// Parse 按前缀识别文本形式：0x、0o、0b、< 或编解码文本
func (k *Kind) Parse(s string) (Value, error) {
	switch {
	case strings.HasPrefix(s, "0x"):
		return k.FromHex(s)
	case strings.HasPrefix(s, "0o"):
		return k.FromOct(s)
	case strings.HasPrefix(s, "0b"):
		return k.FromBin(s)
	case strings.HasPrefix(s, "<"):
		return k.FromDebug(s)
	default:
		return k.FromText(s)
	}
}
