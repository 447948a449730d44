// Package entity 定义请求和响应结构
package entity

import (
	"github.com/jimyag/lexid/pkg/apierror"
	"github.com/jimyag/lexid/pkg/lexical"
)

// MaxBatch 单次请求最多生成的 ID 数量
const MaxBatch = 1000

// KindRandom 随机模式，不使用计数器
const KindRandom = "random"

// GenerateULIDsRequest 生成 ULID 请求
type GenerateULIDsRequest struct {
	Kind     string `json:"kind" form:"kind"`         // random（默认）或计数器种类：runtime, local, env, thread-env, short-env, slid
	Count    int    `json:"count" form:"count"`       // 数量，默认 1，最多 MaxBatch
	Identity string `json:"identity" form:"identity"` // thread-env 使用的调用方身份
	Prefix   string `json:"prefix" form:"prefix"`     // 非空时返回 {prefix}-{ULID}
}

// IsValid 校验请求并填充默认值
func (r *GenerateULIDsRequest) IsValid() error {
	if r.Kind == "" {
		r.Kind = KindRandom
	}
	if r.Kind != KindRandom {
		kind, err := lexical.ParseKind(r.Kind)
		if err != nil {
			return err
		}
		if kind == lexical.KindThreadEnv && r.Identity == "" {
			return apierror.Errorf(apierror.ErrInvalidParameter, "kind %q requires identity", r.Kind)
		}
	}
	return validCount(&r.Count)
}

// GenerateULIDsResponse 生成 ULID 响应
type GenerateULIDsResponse struct {
	Kind string   `json:"kind"`
	IDs  []string `json:"ids"`
}

// GenerateSLIDsRequest 生成 SLID 请求
type GenerateSLIDsRequest struct {
	Count  int  `json:"count" form:"count"`   // 数量，默认 1，最多 MaxBatch
	Random bool `json:"random" form:"random"` // true 时随机部分取随机字节，否则使用 slid 计数器
}

// IsValid 校验请求并填充默认值
func (r *GenerateSLIDsRequest) IsValid() error {
	return validCount(&r.Count)
}

// GenerateSLIDsResponse 生成 SLID 响应
type GenerateSLIDsResponse struct {
	IDs []string `json:"ids"`
}

// ID 文本格式
const (
	FormatLexid     = "lexid"     // 时间戳左对齐编码，本服务生成的格式
	FormatCanonical = "canonical" // 标准 ULID 文本，首字符不超过 7
)

// DescribeULIDRequest 解析 ULID 请求
type DescribeULIDRequest struct {
	ID     string `json:"id" form:"id" binding:"required"`
	Format string `json:"format" form:"format"` // lexid（默认）或 canonical
}

// IsValid 校验请求并填充默认值
func (r *DescribeULIDRequest) IsValid() error {
	if r.Format == "" {
		r.Format = FormatLexid
	}
	if r.Format != FormatLexid && r.Format != FormatCanonical {
		return apierror.Errorf(apierror.ErrInvalidParameter, "unknown format %q", r.Format)
	}
	return nil
}

// DescribeULIDResponse ULID 的各个字段
type DescribeULIDResponse struct {
	ID            string `json:"id"`             // lexid 文本
	Canonical     string `json:"canonical"`      // 标准 ULID 文本
	UUID          string `json:"uuid"`           // 同样 16 字节的 UUID 形式
	Timestamp     uint64 `json:"timestamp"`      // 毫秒时间戳
	Time          string `json:"time"`           // RFC3339 UTC 时间
	Randomness    string `json:"randomness"`     // 随机部分的 16 个 base32 字符
	RandomnessHex string `json:"randomness_hex"` // 随机部分的十六进制
}

// SystemCheckResponse 环境自检结果
type SystemCheckResponse struct {
	ClockResolution string   `json:"clock_resolution"`
	EpochOK         bool     `json:"epoch_ok"`
	RandomOK        bool     `json:"random_ok"`
	TimeSane        bool     `json:"time_sane"`
	Warnings        []string `json:"warnings"`
	// PersistenceWarnings 计数器持久化告警，例如计数文件缺失
	PersistenceWarnings []string `json:"persistence_warnings"`
}

func validCount(count *int) error {
	if *count == 0 {
		*count = 1
	}
	if *count < 0 || *count > MaxBatch {
		return apierror.Errorf(apierror.ErrInvalidParameter, "count must be between 1 and %d, got %d", MaxBatch, *count)
	}
	return nil
}
