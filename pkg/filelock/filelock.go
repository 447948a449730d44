// Package filelock 提供基于 flock 的跨进程排他锁
package filelock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"

	"github.com/jimyag/lexid/pkg/apierror"
)

// DefaultPollInterval 获取锁失败后的重试间隔
const DefaultPollInterval = 10 * time.Millisecond

// FileLock 文件锁
type FileLock struct {
	path         string
	file         *os.File
	timeout      time.Duration
	pollInterval time.Duration
}

// New 创建文件锁
// timeout 为 0 时一直等待，直到拿到锁或 ctx 取消
func New(path string, timeout time.Duration) *FileLock {
	return &FileLock{
		path:         path,
		timeout:      timeout,
		pollInterval: DefaultPollInterval,
	}
}

// Path 锁文件路径
func (fl *FileLock) Path() string {
	return fl.path
}

func (fl *FileLock) open() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(fl.path), 0755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	file, err := os.OpenFile(fl.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	return file, nil
}

// Lock 获取锁，超时返回 apierror.ErrLockTimeout
func (fl *FileLock) Lock(ctx context.Context) error {
	file, err := fl.open()
	if err != nil {
		return err
	}

	var deadline time.Time
	if fl.timeout > 0 {
		deadline = time.Now().Add(fl.timeout)
	}

	for {
		err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			fl.file = file
			log.Debug().Str("lock_path", fl.path).Msg("Lock acquired")
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			file.Close()
			return fmt.Errorf("flock %s: %w", fl.path, err)
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			file.Close()
			return apierror.WrapError(apierror.ErrLockTimeout,
				fmt.Sprintf("lock %s not acquired after %v", fl.path, fl.timeout), err)
		}

		select {
		case <-ctx.Done():
			file.Close()
			return ctx.Err()
		case <-time.After(fl.pollInterval):
		}
	}
}

// TryLock 尝试获取锁(非阻塞)
func (fl *FileLock) TryLock() error {
	file, err := fl.open()
	if err != nil {
		return err
	}

	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		file.Close()
		return apierror.WrapError(apierror.ErrLockTimeout, "lock busy: "+fl.path, err)
	}

	fl.file = file
	log.Debug().Str("lock_path", fl.path).Msg("Lock acquired (non-blocking)")
	return nil
}

// Unlock 释放锁
func (fl *FileLock) Unlock() error {
	if fl.file == nil {
		return nil
	}

	if err := unix.Flock(int(fl.file.Fd()), unix.LOCK_UN); err != nil {
		log.Warn().Err(err).Str("lock_path", fl.path).Msg("Failed to unlock file")
	}
	if err := fl.file.Close(); err != nil {
		log.Warn().Err(err).Str("lock_path", fl.path).Msg("Failed to close lock file")
	}
	fl.file = nil

	log.Debug().Str("lock_path", fl.path).Msg("Lock released")
	return nil
}

// WithLock 持有锁执行函数
func WithLock(ctx context.Context, path string, timeout time.Duration, fn func() error) error {
	lock := New(path, timeout)
	if err := lock.Lock(ctx); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer lock.Unlock()

	return fn()
}
