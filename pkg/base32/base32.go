// Package base32 实现按 5 bit 分组的 base32 编解码
//
// 与标准库 encoding/base32 的区别：
//   - 字母表可以任意指定（Std、Hex、Crockford）
//   - 填充从编码中拆出来，EncodeNoPad 直接丢弃只包含填充位的尾部字符
//   - Decode 支持大小写折叠和 RFC 4648 2.4 节的 0/1 映射
//
// 每个字母表的编解码表在第一次使用时构建，之后复用。
package base32

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jimyag/lexid/pkg/apierror"
)

// Alphabet 由 32 个不重复的 ASCII 字符组成
type Alphabet string

const (
	Std       Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"
	Hex       Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUV"
	Crockford Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"
)

// PadChar 填充字符
const PadChar = '='

// Encoding 某个字母表的编解码表
type Encoding struct {
	alphabet Alphabet
	encode   [32]byte
	decode   [256]int16
}

var encodings sync.Map // Alphabet -> *Encoding

// For 返回字母表对应的 Encoding，首次调用时构建
func For(alphabet Alphabet) (*Encoding, error) {
	if enc, ok := encodings.Load(alphabet); ok {
		return enc.(*Encoding), nil
	}

	if len(alphabet) != 32 {
		return nil, apierror.Errorf(apierror.ErrFormat, "alphabet must have 32 symbols, got %d", len(alphabet))
	}

	enc := &Encoding{alphabet: alphabet}
	for i := range enc.decode {
		enc.decode[i] = -1
	}
	for i := 0; i < 32; i++ {
		c := alphabet[i]
		if c == PadChar || enc.decode[c] != -1 {
			return nil, apierror.Errorf(apierror.ErrFormat, "alphabet symbol %q is reserved or repeated", c)
		}
		enc.encode[i] = c
		enc.decode[c] = int16(i)
	}

	actual, _ := encodings.LoadOrStore(alphabet, enc)
	return actual.(*Encoding), nil
}

// MustFor 同 For，字母表非法时 panic
func MustFor(alphabet Alphabet) *Encoding {
	enc, err := For(alphabet)
	if err != nil {
		panic(err)
	}
	return enc
}

// Alphabet 返回字母表
func (e *Encoding) Alphabet() Alphabet {
	return e.alphabet
}

// trailingPadCodes 最后一个分组剩余 leftover 个字节时，只携带填充位的字符数
func trailingPadCodes(leftover int) (int, error) {
	switch leftover {
	case 0:
		return 0, nil
	case 1:
		return 6, nil
	case 2:
		return 4, nil
	case 3:
		return 3, nil
	case 4:
		return 1, nil
	default:
		return 0, apierror.Errorf(apierror.ErrInternal, "invalid leftover=%d", leftover)
	}
}

// encodeQuanta 按 40 bit 分组编码，最后一组右侧补零
func (e *Encoding) encodeQuanta(data []byte) ([]byte, int) {
	leftover := len(data) % 5
	quanta := (len(data) + 4) / 5
	out := make([]byte, quanta*8)

	for i := 0; i < quanta; i++ {
		var q [5]byte
		copy(q[:], data[i*5:])
		c := uint64(q[0])<<32 | uint64(q[1])<<24 | uint64(q[2])<<16 | uint64(q[3])<<8 | uint64(q[4])
		for j := 0; j < 8; j++ {
			out[i*8+j] = e.encode[(c>>(35-5*uint(j)))&0x1f]
		}
	}
	return out, leftover
}

// Encode 编码并用 '=' 替换只包含填充位的尾部字符
func (e *Encoding) Encode(data []byte) (string, error) {
	out, leftover := e.encodeQuanta(data)
	n, err := trailingPadCodes(leftover)
	if err != nil {
		return "", err
	}
	for i := len(out) - n; i < len(out); i++ {
		out[i] = PadChar
	}
	return string(out), nil
}

// EncodeNoPad 编码并直接丢弃只包含填充位的尾部字符
// 结果不携带原始长度，调用方需要自己知道字节宽度
func (e *Encoding) EncodeNoPad(data []byte) (string, error) {
	out, leftover := e.encodeQuanta(data)
	n, err := trailingPadCodes(leftover)
	if err != nil {
		return "", err
	}
	return string(out[:len(out)-n]), nil
}

type decodeOptions struct {
	casefold bool
	map01    byte
	strict   bool
}

// DecodeOption 解码选项
type DecodeOption func(*decodeOptions)

// WithCasefold 解码前转为大写
func WithCasefold() DecodeOption {
	return func(o *decodeOptions) { o.casefold = true }
}

// WithMap01 把 '0' 映射为 'O'，把 '1' 映射为 c（'I' 或 'L'）
func WithMap01(c byte) DecodeOption {
	return func(o *decodeOptions) { o.map01 = c }
}

// WithStrict 要求最后一个分组中被丢弃的填充位全部为 0
func WithStrict() DecodeOption {
	return func(o *decodeOptions) { o.strict = true }
}

// Decode 解码 base32 文本，尾部的 '=' 可有可无
func (e *Encoding) Decode(text string, opts ...DecodeOption) ([]byte, error) {
	var o decodeOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.map01 != 0 {
		text = strings.NewReplacer("0", "O", "1", string(o.map01)).Replace(text)
	}
	if o.casefold {
		text = strings.ToUpper(text)
	}
	if len(text) < 2 {
		return nil, apierror.Errorf(apierror.ErrDecode, "input too short: %q", text)
	}

	dataLen := len(text)
	text = strings.TrimRight(text, string(PadChar))
	if dataLen != len(text) && dataLen%8 != 0 {
		return nil, apierror.Errorf(apierror.ErrDecode, "incorrect padding: padded length %d", dataLen)
	}

	decoded := make([]byte, 0, (len(text)+7)/8*5)
	var acc uint64
	for i := 0; i < len(text); i += 8 {
		end := min(i+8, len(text))
		acc = 0
		for j := i; j < end; j++ {
			v := e.decode[text[j]]
			if v < 0 {
				return nil, apierror.Errorf(apierror.ErrDecode, "invalid symbol %q", text[j])
			}
			acc = acc<<5 | uint64(v)
		}
		decoded = append(decoded, byte(acc>>32), byte(acc>>24), byte(acc>>16), byte(acc>>8), byte(acc))
	}

	// 最后一个不完整的分组
	if r := len(text) % 8; r != 0 {
		padchars := 8 - r
		switch padchars {
		case 1, 3, 4, 6:
		default:
			return nil, apierror.Errorf(apierror.ErrDecode, "incorrect padding: padchars=%d", padchars)
		}
		acc <<= 5 * uint(padchars)
		last := []byte{byte(acc >> 32), byte(acc >> 24), byte(acc >> 16), byte(acc >> 8), byte(acc)}
		leftover := (43 - 5*padchars) / 8
		if o.strict {
			for _, b := range last[leftover:] {
				if b != 0 {
					return nil, apierror.Errorf(apierror.ErrDecode, "non-zero trailing bits in %q", text[len(text)-r:])
				}
			}
		}
		decoded = append(decoded[:len(decoded)-5], last[:leftover]...)
	}

	return decoded, nil
}

func (e *Encoding) String() string {
	return fmt.Sprintf("base32(%s)", string(e.alphabet))
}
