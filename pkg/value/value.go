package value

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"

	"github.com/jimyag/lexid/pkg/apierror"
)

// Value 不可变的定宽值
// 零值没有 Kind，不能使用
type Value struct {
	kind  *Kind
	prime string
}

// Representable 能给出规范表示的类型
// 嵌入 Value 的类型自动满足该接口
type Representable interface {
	Canonical() Value
}

// Canonical 返回自身，实现 Representable
func (v Value) Canonical() Value {
	return v
}

// Kind 所属的 Kind
func (v Value) Kind() *Kind {
	return v.kind
}

// IsZero 是否为未初始化的零值
func (v Value) IsZero() bool {
	return v.kind == nil
}

// Bytes 规范字节的副本
func (v Value) Bytes() []byte {
	return []byte(v.prime)
}

// Int 大端整数
func (v Value) Int() *big.Int {
	return new(big.Int).SetBytes([]byte(v.prime))
}

// Uint64 整数值，超过 64 位时返回 ErrRange
func (v Value) Uint64() (uint64, error) {
	n := v.Int()
	if !n.IsUint64() {
		return 0, apierror.Errorf(apierror.ErrRange, "%s: %v does not fit into uint64", v.kind.Name, n)
	}
	return n.Uint64(), nil
}

// Text 编解码文本
func (v Value) Text() string {
	if v.kind == nil || v.kind.Codec == nil {
		return ""
	}
	return v.kind.Codec.Encode([]byte(v.prime))
}

func (v Value) String() string {
	return v.Text()
}

// Hex 形如 0x1f，不补前导零
func (v Value) Hex() string {
	return "0x" + v.Int().Text(16)
}

// Oct 形如 0o17
func (v Value) Oct() string {
	return "0o" + v.Int().Text(8)
}

// Bin 形如 0b1111
func (v Value) Bin() string {
	return "0b" + v.Int().Text(2)
}

// GoString 调试形式 "<Name TEXT>"
func (v Value) GoString() string {
	if v.kind == nil {
		return "<nil>"
	}
	return fmt.Sprintf("<%s %s>", v.kind.Name, v.Text())
}

// MarshalText 实现 encoding.TextMarshaler
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.Text()), nil
}

// Clone 返回同样字节的独立值
func (v Value) Clone() Value {
	return Value{kind: v.kind, prime: strings.Clone(v.prime)}
}

// Compare 按整数值比较
func (v Value) Compare(o Value) int {
	if len(v.prime) == len(o.prime) {
		return strings.Compare(v.prime, o.prime)
	}
	return v.Int().Cmp(o.Int())
}

// Equal 整数值相等
func (v Value) Equal(o Value) bool {
	return v.Compare(o) == 0
}

// Less v < o
func (v Value) Less(o Value) bool {
	return v.Compare(o) < 0
}

// CompareAny 与其他形式比较
// 整数、*big.Int 按整数比较；[]byte 按字节比较；
// 字符串按前缀识别 0x/0o/0b/< 或编解码文本，解析后按整数比较
func (v Value) CompareAny(other any) (int, error) {
	switch o := other.(type) {
	case Representable:
		return v.Compare(o.Canonical()), nil
	case *big.Int:
		return v.Int().Cmp(o), nil
	case int:
		return v.Int().Cmp(big.NewInt(int64(o))), nil
	case int64:
		return v.Int().Cmp(big.NewInt(o)), nil
	case int32:
		return v.Int().Cmp(big.NewInt(int64(o))), nil
	case uint:
		return v.Int().Cmp(new(big.Int).SetUint64(uint64(o))), nil
	case uint64:
		return v.Int().Cmp(new(big.Int).SetUint64(o)), nil
	case uint32:
		return v.Int().Cmp(new(big.Int).SetUint64(uint64(o))), nil
	case []byte:
		return bytes.Compare([]byte(v.prime), o), nil
	case string:
		return v.compareString(o)
	default:
		return 0, apierror.Errorf(apierror.ErrFormat, "%s: cannot compare with %T", v.kind.Name, other)
	}
}

func (v Value) compareString(s string) (int, error) {
	var base int
	switch {
	case strings.HasPrefix(s, "0x"):
		base = 16
	case strings.HasPrefix(s, "0o"):
		base = 8
	case strings.HasPrefix(s, "0b"):
		base = 2
	default:
		o, err := v.kind.Parse(s)
		if err != nil {
			return 0, err
		}
		return v.Compare(o), nil
	}

	n, ok := new(big.Int).SetString(s[2:], base)
	if !ok || n.Sign() < 0 {
		return 0, apierror.Errorf(apierror.ErrFormat, "%s: invalid base %d literal %q", v.kind.Name, base, s)
	}
	return v.Int().Cmp(n), nil
}

// EqualAny 与其他形式相等，无法比较时返回 false
func (v Value) EqualAny(other any) bool {
	c, err := v.CompareAny(other)
	return err == nil && c == 0
}

// AddBig 返回 v + n，超出位宽返回 ErrRange，不做回绕
func (v Value) AddBig(n *big.Int) (Value, error) {
	return v.kind.FromInt(new(big.Int).Add(v.Int(), n))
}

// Add 返回 v + n
func (v Value) Add(n int64) (Value, error) {
	return v.AddBig(big.NewInt(n))
}

// Sub 返回 v - n
func (v Value) Sub(n int64) (Value, error) {
	return v.AddBig(big.NewInt(-n))
}

// Next v + 1
func (v Value) Next() (Value, error) {
	return v.Add(1)
}

// Prev v - 1
func (v Value) Prev() (Value, error) {
	return v.Sub(1)
}
