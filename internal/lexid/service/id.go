// Package service 实现 ID 服务的业务逻辑
package service

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/rs/zerolog"

	"github.com/jimyag/lexid/internal/lexid/entity"
	"github.com/jimyag/lexid/pkg/apierror"
	"github.com/jimyag/lexid/pkg/idgen"
	"github.com/jimyag/lexid/pkg/lexical"
	"github.com/jimyag/lexid/pkg/ulid"
)

// IDService ID 服务
type IDService struct {
	gen *idgen.Generator
}

// NewIDService 创建 ID 服务
func NewIDService(gen *idgen.Generator) *IDService {
	return &IDService{gen: gen}
}

// GenerateULIDs 批量生成 ULID
func (s *IDService) GenerateULIDs(ctx context.Context, req *entity.GenerateULIDsRequest) (*entity.GenerateULIDsResponse, error) {
	next := func() (ulid.ULID, error) { return s.gen.ULID() }
	if req.Kind != entity.KindRandom && req.Kind != "" {
		kind, err := lexical.ParseKind(req.Kind)
		if err != nil {
			return nil, err
		}
		if kind == lexical.KindThreadEnv {
			next = func() (ulid.ULID, error) { return s.gen.ThreadLexical(ctx, req.Identity) }
		} else {
			next = func() (ulid.ULID, error) { return s.gen.Lexical(ctx, kind) }
		}
	}

	ids := make([]string, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		id, err := next()
		if err != nil {
			return nil, err
		}
		text := id.String()
		if req.Prefix != "" {
			text = req.Prefix + "-" + text
		}
		ids = append(ids, text)
	}

	zerolog.Ctx(ctx).Debug().Str("kind", req.Kind).Int("count", len(ids)).Msg("ULIDs generated")
	return &entity.GenerateULIDsResponse{Kind: req.Kind, IDs: ids}, nil
}

// GenerateSLIDs 批量生成 SLID
func (s *IDService) GenerateSLIDs(ctx context.Context, req *entity.GenerateSLIDsRequest) (*entity.GenerateSLIDsResponse, error) {
	ids := make([]string, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		var (
			id  ulid.SLID
			err error
		)
		if req.Random {
			id, err = s.gen.RandomSLID()
		} else {
			id, err = s.gen.SLID(ctx)
		}
		if err != nil {
			return nil, err
		}
		ids = append(ids, id.String())
	}

	zerolog.Ctx(ctx).Debug().Bool("random", req.Random).Int("count", len(ids)).Msg("SLIDs generated")
	return &entity.GenerateSLIDsResponse{IDs: ids}, nil
}

// DescribeULID 解析 ULID 并返回各个字段
func (s *IDService) DescribeULID(_ context.Context, req *entity.DescribeULIDRequest) (*entity.DescribeULIDResponse, error) {
	var (
		id  ulid.ULID
		err error
	)
	switch req.Format {
	case entity.FormatCanonical:
		id, err = ulid.ParseCanonical(req.ID)
	case entity.FormatLexid, "":
		id, err = ulid.Parse(req.ID)
	default:
		return nil, apierror.Errorf(apierror.ErrInvalidParameter, "unknown format %q", req.Format)
	}
	if err != nil {
		return nil, err
	}

	ts := id.Timestamp()
	rnd := id.Randomness()
	return &entity.DescribeULIDResponse{
		ID:            id.String(),
		Canonical:     id.CanonicalString(),
		UUID:          id.UUID().String(),
		Timestamp:     ts.Milliseconds(),
		Time:          ts.Time().Format(time.RFC3339Nano),
		Randomness:    rnd.String(),
		RandomnessHex: hex.EncodeToString(rnd.Bytes()),
	}, nil
}

// SystemCheck 执行环境自检
func (s *IDService) SystemCheck(_ context.Context) (*entity.SystemCheckResponse, error) {
	report := s.gen.SystemCheck()

	resp := &entity.SystemCheckResponse{
		ClockResolution:     report.ClockResolution.String(),
		EpochOK:             report.EpochOK,
		RandomOK:            report.RandomOK,
		TimeSane:            report.TimeSane,
		Warnings:            append([]string{}, report.Warnings...),
		PersistenceWarnings: []string{},
	}
	for _, w := range s.gen.Warnings() {
		resp.PersistenceWarnings = append(resp.PersistenceWarnings, w.Error())
	}
	return resp, nil
}
