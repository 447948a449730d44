package ulid

import (
	"github.com/jimyag/lexid/pkg/apierror"
	"github.com/jimyag/lexid/pkg/base32"
	"github.com/jimyag/lexid/pkg/value"
)

// crockfordCodec 定宽字段的 Crockford nopad 编码
type crockfordCodec struct{}

func (crockfordCodec) Encode(b []byte) string {
	s, err := base32.MustFor(base32.Crockford).EncodeNoPad(b)
	if err != nil {
		panic(err)
	}
	return s
}

func (crockfordCodec) Decode(text string, width int) ([]byte, error) {
	if want := textLen(width); len(text) != want {
		return nil, apierror.Errorf(apierror.ErrFormat, "want %d base32 symbols, got %d", want, len(text))
	}
	b, err := base32.MustFor(base32.Crockford).Decode(text, base32.WithCasefold(), base32.WithStrict())
	if err != nil {
		return nil, err
	}
	if len(b) != width {
		return nil, apierror.Errorf(apierror.ErrFormat, "want %d bytes, got %d", width, len(b))
	}
	return b, nil
}

// textLen nopad 编码 width 个字节得到的字符数
func textLen(width int) int {
	return (width*8 + 4) / 5
}

const (
	TimestampWidth      = 6
	RandomnessWidth     = 10
	ULIDWidth           = TimestampWidth + RandomnessWidth
	SLIDRandomnessWidth = 2
	SLIDWidth           = TimestampWidth + SLIDRandomnessWidth

	TimestampLen      = 10
	RandomnessLen     = 16
	ULIDLen           = TimestampLen + RandomnessLen
	SLIDRandomnessLen = 4
	SLIDLen           = TimestampLen + SLIDRandomnessLen
)

var (
	TimestampKind = &value.Kind{Name: "ULIDTimestamp", Width: TimestampWidth, Codec: crockfordCodec{}}

	RandomnessKind = &value.Kind{Name: "ULIDRandomness", Width: RandomnessWidth, Codec: crockfordCodec{}}

	ULIDKind = &value.Kind{
		Name:  "ULID",
		Width: ULIDWidth,
		Codec: value.ConcatCodec{
			HeadWidth: TimestampWidth,
			HeadLen:   TimestampLen,
			Head:      crockfordCodec{},
			Tail:      crockfordCodec{},
		},
	}

	SLIDRandomnessKind = &value.Kind{Name: "SLIDRandomness", Width: SLIDRandomnessWidth, Codec: value.HexCodec{}}

	SLIDKind = &value.Kind{
		Name:  "SLID",
		Width: SLIDWidth,
		Codec: value.ConcatCodec{
			HeadWidth: TimestampWidth,
			HeadLen:   TimestampLen,
			Head:      crockfordCodec{},
			Tail:      value.HexCodec{},
		},
	}
)
