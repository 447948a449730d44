package ulid

import (
	"encoding/binary"

	"github.com/jimyag/lexid/pkg/base32"
	"github.com/jimyag/lexid/pkg/entropy"
)

// MillisecondToBytes 毫秒数的 6 字节大端表示，高 16 bit 被丢弃
func MillisecondToBytes(ms uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], ms)
	return buf[2:]
}

// MillisecondFromBytes 6 字节大端表示转毫秒数
func MillisecondFromBytes(b []byte) uint64 {
	var buf [8]byte
	copy(buf[8-len(b):], b)
	return binary.BigEndian.Uint64(buf[:])
}

func ValidTimestampLen(s string) bool  { return len(s) == TimestampLen }
func ValidRandomnessLen(s string) bool { return len(s) == RandomnessLen }
func ValidULIDLen(s string) bool       { return len(s) == ULIDLen }

// Build 时间戳字节和随机字节分别编码后拼接
func Build(t, r []byte) (string, error) {
	ts, err := base32.EncodeCrockfordNoPad(t)
	if err != nil {
		return "", err
	}
	rnd, err := base32.EncodeCrockfordNoPad(r)
	if err != nil {
		return "", err
	}
	return ts + rnd, nil
}

// Plain 当前时间的 ULID 文本
func Plain() string {
	return PlainFromMilliseconds(entropy.SystemClock.NowMilli())
}

// PlainFromSeconds 指定秒数的 ULID 文本
func PlainFromSeconds(s float64) string {
	return PlainFromMilliseconds(uint64(s * 1000))
}

// PlainFromMilliseconds 指定毫秒数的 ULID 文本
func PlainFromMilliseconds(ms uint64) string {
	s, err := Build(MillisecondToBytes(ms), entropy.Default().Bytes(RandomnessWidth))
	if err != nil {
		panic(err)
	}
	return s
}

// Split 拆成时间戳文本和随机部分文本
func Split(s string) (string, string) {
	if len(s) < TimestampLen {
		return s, ""
	}
	return s[:TimestampLen], s[TimestampLen:]
}

// Reverse 把 ULID 文本解码回时间戳字节和随机字节
func Reverse(s string) ([]byte, []byte, error) {
	t, r := Split(s)
	ts, err := base32.DecodeCrockford(t, false)
	if err != nil {
		return nil, nil, err
	}
	rnd, err := base32.DecodeCrockford(r, false)
	if err != nil {
		return nil, nil, err
	}
	return ts, rnd, nil
}
