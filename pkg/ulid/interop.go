package ulid

import (
	"github.com/google/uuid"
	oklog "github.com/oklog/ulid/v2"

	"github.com/jimyag/lexid/pkg/apierror"
)

// 字节布局与 github.com/oklog/ulid/v2 一致，只有时间戳的文本编码不同

// Oklog 转为 oklog ULID
func (u ULID) Oklog() oklog.ULID {
	var id oklog.ULID
	copy(id[:], u.Bytes())
	return id
}

// FromOklog 从 oklog ULID 构造
func FromOklog(id oklog.ULID) ULID {
	u, err := FromBytes(id[:])
	if err != nil {
		panic(err)
	}
	return u
}

// CanonicalString ULID 规范中的 26 字符文本（时间戳右对齐）
func (u ULID) CanonicalString() string {
	return u.Oklog().String()
}

// ParseCanonical 解析 ULID 规范中的文本
func ParseCanonical(s string) (ULID, error) {
	id, err := oklog.ParseStrict(s)
	if err != nil {
		return ULID{}, apierror.WrapError(apierror.ErrFormat, "parse canonical ulid", err)
	}
	return FromOklog(id), nil
}

// UUID 同样的 16 个字节作为 UUID
func (u ULID) UUID() uuid.UUID {
	id, _ := uuid.FromBytes(u.Bytes())
	return id
}

// FromUUID 从 UUID 构造
func FromUUID(id uuid.UUID) ULID {
	u, err := FromBytes(id[:])
	if err != nil {
		panic(err)
	}
	return u
}
