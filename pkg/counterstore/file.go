package counterstore

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/jimyag/lexid/pkg/apierror"
	"github.com/jimyag/lexid/pkg/filelock"
)

// LockFileName 所有环境计数器共用的锁文件
const LockFileName = ".lexical_env.lock"

var fileNames = map[string]string{
	KeyLocal:     ".lexical_rand.cache",
	KeyEnv:       ".lexical_env.cache",
	KeyThreadEnv: ".lexical_thread_env.cache",
	KeyShortEnv:  ".lexical_short_env.cache",
	KeySLID:      ".lexical_slid_env.cache",
}

// FileName 计数器对应的文件名
func FileName(key string) string {
	if name, ok := fileNames[key]; ok {
		return name
	}
	return ".lexical_" + key + ".cache"
}

// FileStore 每个计数器一个十进制文本文件
type FileStore struct {
	dir         string
	lockTimeout time.Duration
}

// NewFileStore 创建文件存储
// lockTimeout 为 0 时 Update 一直等待锁
func NewFileStore(dir string, lockTimeout time.Duration) *FileStore {
	return &FileStore{dir: dir, lockTimeout: lockTimeout}
}

// Dir 存储目录
func (s *FileStore) Dir() string {
	return s.dir
}

// Path 计数器文件路径
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, FileName(key))
}

// LockPath 锁文件路径
func (s *FileStore) LockPath() string {
	return filepath.Join(s.dir, LockFileName)
}

func (s *FileStore) Load(_ context.Context, key string) (*big.Int, bool, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, apierror.WrapError(apierror.ErrStorage, "read counter "+key, err)
	}
	v, err := parseValue(key, string(data))
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *FileStore) Save(ctx context.Context, key string, v *big.Int) error {
	if err := checkValue(key, v); err != nil {
		return err
	}
	if err := s.write(key, v); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().Str("key", key).Str("path", s.Path(key)).Msg("Counter saved")
	return nil
}

func (s *FileStore) Update(ctx context.Context, key string, fn UpdateFunc) (*big.Int, error) {
	var next *big.Int
	err := filelock.WithLock(ctx, s.LockPath(), s.lockTimeout, func() error {
		cur, found, err := s.Load(ctx, key)
		if err != nil {
			return err
		}
		next = fn(cur, found)
		if err := checkValue(key, next); err != nil {
			return err
		}
		return s.write(key, next)
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

func (s *FileStore) Close() error {
	return nil
}

// write 先写临时文件再 rename，读者不会看到写了一半的内容
func (s *FileStore) write(key string, v *big.Int) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return apierror.WrapError(apierror.ErrStorage, "create counter directory", err)
	}

	path := s.Path(key)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return apierror.WrapError(apierror.ErrStorage, "create temp file", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(formatValue(v)); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return apierror.WrapError(apierror.ErrStorage, "write temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return apierror.WrapError(apierror.ErrStorage, "close temp file", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return apierror.WrapError(apierror.ErrStorage, "chmod temp file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return apierror.WrapError(apierror.ErrStorage, fmt.Sprintf("rename counter file %s", path), err)
	}
	return nil
}
