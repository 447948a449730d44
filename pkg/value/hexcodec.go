package value

import (
	"encoding/hex"
	"strings"

	"github.com/jimyag/lexid/pkg/apierror"
)

// HexCodec 定宽大写十六进制，没有前缀
type HexCodec struct{}

func (HexCodec) Encode(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

func (HexCodec) Decode(text string, width int) ([]byte, error) {
	if len(text) != 2*width {
		return nil, apierror.Errorf(apierror.ErrFormat, "want %d hex digits, got %d", 2*width, len(text))
	}
	b, err := hex.DecodeString(text)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrFormat, "invalid hex digits", err)
	}
	return b, nil
}

// ConcatCodec 把值拆成头尾两段分别编码后拼接
type ConcatCodec struct {
	// HeadWidth 头部字节数
	HeadWidth int
	// HeadLen 头部文本长度
	HeadLen int
	Head    Codec
	Tail    Codec
}

func (c ConcatCodec) Encode(b []byte) string {
	return c.Head.Encode(b[:c.HeadWidth]) + c.Tail.Encode(b[c.HeadWidth:])
}

func (c ConcatCodec) Decode(text string, width int) ([]byte, error) {
	if len(text) < c.HeadLen {
		return nil, apierror.Errorf(apierror.ErrFormat, "text too short: %d", len(text))
	}
	head, err := c.Head.Decode(text[:c.HeadLen], c.HeadWidth)
	if err != nil {
		return nil, err
	}
	tail, err := c.Tail.Decode(text[c.HeadLen:], width-c.HeadWidth)
	if err != nil {
		return nil, err
	}
	return append(head, tail...), nil
}
