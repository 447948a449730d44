package idgen

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/lexid/pkg/apierror"
	"github.com/jimyag/lexid/pkg/counterstore"
	"github.com/jimyag/lexid/pkg/entropy"
	"github.com/jimyag/lexid/pkg/lexical"
	"github.com/jimyag/lexid/pkg/ulid"
)

var fixedMillis = uint64(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli())

func TestNew(t *testing.T) {
	t.Parallel()

	gen := New()
	assert.NotNil(t, gen)
	assert.NotNil(t, gen.Registry())
	assert.Nil(t, gen.Report())

	// 默认使用用户目录下的文件存储，进程之间共享环境 ID
	store, ok := gen.Registry().Store().(*counterstore.FileStore)
	require.True(t, ok)
	assert.Equal(t, counterstore.DefaultDir(), store.Dir())
}

func TestDefaultGenerator(t *testing.T) {
	t.Parallel()

	assert.Same(t, DefaultGenerator(), DefaultGenerator())
}

func TestGenerator_ULID(t *testing.T) {
	t.Parallel()

	gen := New(WithDataDir(t.TempDir()), WithClock(entropy.FixedClock(fixedMillis)))

	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := gen.ULID()
		require.NoError(t, err)
		assert.Len(t, id.String(), ulid.ULIDLen)
		assert.Equal(t, fixedMillis, id.Timestamp().Milliseconds())
		assert.False(t, ids[id.String()], "ID should be unique: %s", id)
		ids[id.String()] = true
	}
}

func TestGenerator_Lexical(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testcases := []struct {
		name string
		kind lexical.Kind
	}{
		{name: "runtime", kind: lexical.KindRuntime},
		{name: "local", kind: lexical.KindLocal},
		{name: "env", kind: lexical.KindEnv},
		{name: "short env", kind: lexical.KindShortEnv},
		{name: "slid", kind: lexical.KindSLID},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gen := New(WithDataDir(t.TempDir()), WithClock(entropy.FixedClock(fixedMillis)))
			prev, err := gen.Lexical(ctx, tc.kind)
			require.NoError(t, err)
			for i := 0; i < 10; i++ {
				next, err := gen.Lexical(ctx, tc.kind)
				require.NoError(t, err)
				assert.True(t, prev.Less(next.Value))
				assert.True(t, prev.String() < next.String())
				prev = next
			}
		})
	}
}

func TestGenerator_LexicalThreadEnvNeedsIdentity(t *testing.T) {
	t.Parallel()

	_, err := New(WithDataDir(t.TempDir())).Lexical(context.Background(), lexical.KindThreadEnv)
	assert.ErrorIs(t, err, apierror.ErrInvalidParameter)
}

func TestGenerator_ThreadLexical(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	gen := New(WithDataDir(t.TempDir()), WithClock(entropy.FixedClock(fixedMillis)))

	var wg sync.WaitGroup
	results := make([][]ulid.ULID, 4)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			identity := "worker-" + string(rune('a'+i))
			for j := 0; j < 20; j++ {
				id, err := gen.ThreadLexical(ctx, identity)
				if !assert.NoError(t, err) {
					return
				}
				results[i] = append(results[i], id)
			}
		}()
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, ids := range results {
		for j := 1; j < len(ids); j++ {
			assert.True(t, ids[j-1].Less(ids[j].Value))
		}
		for _, id := range ids {
			assert.False(t, seen[id.String()])
			seen[id.String()] = true
		}
	}
	assert.Len(t, seen, 80)
}

func TestGenerator_SLID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	gen := New(WithDataDir(t.TempDir()), WithClock(entropy.FixedClock(15)))

	first, err := gen.SLID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "000000001W0000", first.String())

	second, err := gen.SLID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "000000001W0100", second.String())

	random, err := gen.RandomSLID()
	require.NoError(t, err)
	assert.Len(t, random.String(), ulid.SLIDLen)
}

func TestGenerator_GenerateID(t *testing.T) {
	t.Parallel()

	gen := New(WithDataDir(t.TempDir()))

	testcases := []struct {
		name   string
		prefix string
		check  func(t *testing.T, id string)
	}{
		{
			name:   "with prefix",
			prefix: "req",
			check: func(t *testing.T, id string) {
				assert.True(t, strings.HasPrefix(id, "req-"))
				_, err := ulid.Parse(strings.TrimPrefix(id, "req-"))
				assert.NoError(t, err)
			},
		},
		{
			name:   "without prefix",
			prefix: "",
			check: func(t *testing.T, id string) {
				assert.Len(t, id, ulid.ULIDLen)
			},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			id, err := gen.GenerateID(tc.prefix)
			require.NoError(t, err)
			tc.check(t, id)
		})
	}
}

func TestGenerator_EnvAcrossProcesses(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	clock := entropy.FixedClock(fixedMillis)

	// 两个生成器共用一个目录，相当于同一台机器上的两个进程
	for _, kind := range []lexical.Kind{lexical.KindEnv, lexical.KindShortEnv, lexical.KindSLID} {
		g1 := New(WithClock(clock), WithDataDir(dir))
		g2 := New(WithClock(clock), WithDataDir(dir))

		id1, err := g1.Lexical(ctx, kind)
		require.NoError(t, err, kind)
		id2, err := g2.Lexical(ctx, kind)
		require.NoError(t, err, kind)
		assert.NotEqual(t, id1.String(), id2.String(), kind)

		require.NoError(t, g1.Close(ctx))
		require.NoError(t, g2.Close(ctx))
	}

	s1 := New(WithClock(clock), WithDataDir(dir))
	s2 := New(WithClock(clock), WithDataDir(dir))
	defer s1.Close(ctx)
	defer s2.Close(ctx)
	a, err := s1.SLID(ctx)
	require.NoError(t, err)
	b, err := s2.SLID(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a.String(), b.String())
}

func TestGenerator_CloseResumesLocal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	clock := entropy.FixedClock(fixedMillis)

	gen := New(WithClock(clock), WithStore(counterstore.NewFileStore(dir, time.Second)))
	var last ulid.ULID
	for i := 0; i < 3; i++ {
		id, err := gen.Lexical(ctx, lexical.KindLocal)
		require.NoError(t, err)
		last = id
	}
	assert.Len(t, gen.Warnings(), 1)
	require.NoError(t, gen.Close(ctx))

	gen = New(WithClock(clock), WithStore(counterstore.NewFileStore(dir, time.Second)))
	defer gen.Close(ctx)
	next, err := gen.Lexical(ctx, lexical.KindLocal)
	require.NoError(t, err)

	want, err := last.Next()
	require.NoError(t, err)
	assert.True(t, next.Equal(want.Value))
	assert.Empty(t, gen.Warnings())
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) {
	return 0, errors.New("no entropy device")
}

func TestGenerator_RandomFallbackWarning(t *testing.T) {
	t.Parallel()

	gen := New(WithDataDir(t.TempDir()), WithRandom(entropy.NewSource(brokenReader{})))
	assert.Empty(t, gen.Warnings())

	_, err := gen.ULID()
	require.NoError(t, err)
	warnings := gen.Warnings()
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], apierror.ErrPersistence)
}

func TestGenerator_SystemCheck(t *testing.T) {
	t.Parallel()

	gen := New(WithDataDir(t.TempDir()), WithClock(entropy.FixedClock(fixedMillis)), WithSystemCheck())
	require.NotNil(t, gen.Report())
	assert.True(t, gen.Report().TimeSane)
}

func TestPackageLevel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := ULID()
	assert.NoError(t, err)
	_, err = Lexical(ctx, lexical.KindRuntime)
	assert.NoError(t, err)
	id, err := GenerateID("evt")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "evt-"))
}
