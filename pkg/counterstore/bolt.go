package counterstore

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"

	"github.com/jimyag/lexid/pkg/apierror"
)

var bucketCounters = []byte("counters")

// BoltStore 基于 bbolt 的存储
//
// 每次操作单独打开数据库，bbolt 在打开期间持有文件锁，
// 所以一次 Update 就是一次完整的跨进程临界区。
type BoltStore struct {
	path        string
	lockTimeout time.Duration
}

// NewBoltStore 创建 bbolt 存储
func NewBoltStore(path string, lockTimeout time.Duration) *BoltStore {
	return &BoltStore{path: path, lockTimeout: lockTimeout}
}

// Path 数据库文件路径
func (s *BoltStore) Path() string {
	return s.path
}

func (s *BoltStore) open(ctx context.Context, readOnly bool) (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return nil, apierror.WrapError(apierror.ErrStorage, "create bolt directory", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 只读模式要求文件已存在
	if readOnly {
		if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
	}

	db, err := bolt.Open(s.path, 0600, &bolt.Options{Timeout: s.lockTimeout, ReadOnly: readOnly})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, apierror.WrapError(apierror.ErrLockTimeout, "open bolt database "+s.path, err)
		}
		return nil, apierror.WrapError(apierror.ErrStorage, "open bolt database "+s.path, err)
	}
	return db, nil
}

func (s *BoltStore) Load(ctx context.Context, key string) (*big.Int, bool, error) {
	db, err := s.open(ctx, true)
	if err != nil || db == nil {
		return nil, false, err
	}
	defer db.Close()

	var raw []byte
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCounters)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, apierror.WrapError(apierror.ErrStorage, "read counter "+key, err)
	}
	if raw == nil {
		return nil, false, nil
	}
	v, err := parseValue(key, string(raw))
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *BoltStore) Save(ctx context.Context, key string, v *big.Int) error {
	if err := checkValue(key, v); err != nil {
		return err
	}
	_, err := s.Update(ctx, key, func(*big.Int, bool) *big.Int { return v })
	return err
}

func (s *BoltStore) Update(ctx context.Context, key string, fn UpdateFunc) (*big.Int, error) {
	db, err := s.open(ctx, false)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var next *big.Int
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketCounters)
		if err != nil {
			return apierror.WrapError(apierror.ErrStorage, "create bucket", err)
		}

		var cur *big.Int
		found := false
		if raw := b.Get([]byte(key)); raw != nil {
			cur, err = parseValue(key, string(raw))
			if err != nil {
				return err
			}
			found = true
		}

		next = fn(cur, found)
		if err := checkValue(key, next); err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(formatValue(next)))
	})
	if err != nil {
		var apiErr *apierror.Error
		if errors.As(err, &apiErr) {
			return nil, err
		}
		return nil, apierror.WrapError(apierror.ErrStorage, "update counter "+key, err)
	}

	zerolog.Ctx(ctx).Debug().Str("key", key).Str("value", next.String()).Msg("Counter updated in bolt")
	return next, nil
}

func (s *BoltStore) Close() error {
	return nil
}
