package base32

// 常用字母表的便捷函数

func EncodeStd(data []byte) (string, error)      { return MustFor(Std).Encode(data) }
func EncodeStdNoPad(data []byte) (string, error) { return MustFor(Std).EncodeNoPad(data) }

func DecodeStd(text string, opts ...DecodeOption) ([]byte, error) {
	return MustFor(Std).Decode(text, opts...)
}

func EncodeHex(data []byte) (string, error)      { return MustFor(Hex).Encode(data) }
func EncodeHexNoPad(data []byte) (string, error) { return MustFor(Hex).EncodeNoPad(data) }

// DecodeHex base32hex 没有 0/1 映射
func DecodeHex(text string, casefold bool) ([]byte, error) {
	if casefold {
		return MustFor(Hex).Decode(text, WithCasefold())
	}
	return MustFor(Hex).Decode(text)
}

func EncodeCrockford(data []byte) (string, error)      { return MustFor(Crockford).Encode(data) }
func EncodeCrockfordNoPad(data []byte) (string, error) { return MustFor(Crockford).EncodeNoPad(data) }

// DecodeCrockford Crockford 字母表同样不做 0/1 映射
func DecodeCrockford(text string, casefold bool) ([]byte, error) {
	if casefold {
		return MustFor(Crockford).Decode(text, WithCasefold())
	}
	return MustFor(Crockford).Decode(text)
}
