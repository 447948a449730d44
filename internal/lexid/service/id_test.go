package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/lexid/internal/lexid/entity"
	"github.com/jimyag/lexid/pkg/apierror"
	"github.com/jimyag/lexid/pkg/entropy"
	"github.com/jimyag/lexid/pkg/idgen"
)

func newTestService(t *testing.T) *IDService {
	t.Helper()
	return NewIDService(idgen.New(idgen.WithClock(entropy.FixedClock(15)), idgen.WithDataDir(t.TempDir())))
}

func TestIDService_GenerateULIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testcases := []struct {
		name  string
		req   *entity.GenerateULIDsRequest
		check func(t *testing.T, resp *entity.GenerateULIDsResponse)
	}{
		{
			name: "random",
			req:  &entity.GenerateULIDsRequest{Kind: entity.KindRandom, Count: 5},
			check: func(t *testing.T, resp *entity.GenerateULIDsResponse) {
				assert.Len(t, resp.IDs, 5)
				for _, id := range resp.IDs {
					assert.True(t, strings.HasPrefix(id, "000000001W"))
				}
			},
		},
		{
			name: "runtime",
			req:  &entity.GenerateULIDsRequest{Kind: "runtime", Count: 3},
			check: func(t *testing.T, resp *entity.GenerateULIDsResponse) {
				assert.Equal(t, []string{
					"000000001W0000000000000000",
					"000000001W0000000000000001",
					"000000001W0000000000000002",
				}, resp.IDs)
			},
		},
		{
			name: "thread env with prefix",
			req:  &entity.GenerateULIDsRequest{Kind: "thread-env", Count: 2, Identity: "w1", Prefix: "evt"},
			check: func(t *testing.T, resp *entity.GenerateULIDsResponse) {
				require.Len(t, resp.IDs, 2)
				assert.Equal(t, "evt-000000001W0000000000000000", resp.IDs[0])
				assert.Equal(t, "evt-000000001W0000000000000080", resp.IDs[1])
			},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			resp, err := newTestService(t).GenerateULIDs(ctx, tc.req)
			require.NoError(t, err)
			tc.check(t, resp)
		})
	}
}

func TestIDService_GenerateSLIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	resp, err := svc.GenerateSLIDs(ctx, &entity.GenerateSLIDsRequest{Count: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"000000001W0000", "000000001W0100"}, resp.IDs)

	resp, err = svc.GenerateSLIDs(ctx, &entity.GenerateSLIDsRequest{Count: 1, Random: true})
	require.NoError(t, err)
	require.Len(t, resp.IDs, 1)
	assert.Len(t, resp.IDs[0], 14)
}

func TestIDService_DescribeULID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	resp, err := svc.DescribeULID(ctx, &entity.DescribeULIDRequest{ID: "000000001W0000000000000001", Format: entity.FormatLexid})
	require.NoError(t, err)
	assert.Equal(t, uint64(15), resp.Timestamp)
	assert.Equal(t, "1970-01-01T00:00:00.015Z", resp.Time)
	assert.Equal(t, "0000000000000001", resp.Randomness)
	assert.Equal(t, "00000000000000000001", resp.RandomnessHex)
	assert.Equal(t, "000000000F0000000000000001", resp.Canonical)
	assert.Equal(t, "00000000-000f-0000-0000-000000000001", resp.UUID)

	back, err := svc.DescribeULID(ctx, &entity.DescribeULIDRequest{ID: resp.Canonical, Format: entity.FormatCanonical})
	require.NoError(t, err)
	assert.Equal(t, resp.ID, back.ID)

	_, err = svc.DescribeULID(ctx, &entity.DescribeULIDRequest{ID: "000000001W000000000000000O", Format: entity.FormatLexid})
	assert.ErrorIs(t, err, apierror.ErrDecode)

	_, err = svc.DescribeULID(ctx, &entity.DescribeULIDRequest{ID: "short", Format: entity.FormatLexid})
	assert.ErrorIs(t, err, apierror.ErrFormat)
}

func TestIDService_SystemCheck(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.GenerateSLIDs(ctx, &entity.GenerateSLIDsRequest{Count: 1})
	require.NoError(t, err)

	resp, err := svc.SystemCheck(ctx)
	require.NoError(t, err)
	// 15ms 的固定时钟早于 MinYear
	assert.False(t, resp.TimeSane)
	assert.True(t, resp.EpochOK)
	require.Len(t, resp.PersistenceWarnings, 1)
	assert.Contains(t, resp.PersistenceWarnings[0], "PersistenceWarning")
}
