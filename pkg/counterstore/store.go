// Package counterstore 持久化计数器的存储
//
// 每个计数器以一个十进制整数保存。Update 在排他锁内完成“读取-修改-写入”，
// 用于跨进程分配环境 ID；Save 不加锁，只用于单进程独占的本地计数器。
//
// 可选实现：
//   - FileStore   每个计数器一个纯文本文件，共用一个 flock 锁文件
//   - BoltStore   bbolt 数据库，每次操作打开并关闭数据库，bbolt 的文件锁即跨进程锁
//   - SQLStore    SQLite（gorm + modernc.org/sqlite），IMMEDIATE 事务
//   - MemoryStore 进程内存，不跨进程
package counterstore

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jimyag/lexid/pkg/apierror"
)

// 计数器的键
const (
	KeyLocal     = "local"
	KeyEnv       = "env"
	KeyThreadEnv = "thread-env"
	KeyShortEnv  = "short-env"
	KeySLID      = "slid"
)

// DefaultLockTimeout 默认的跨进程锁等待时间
const DefaultLockTimeout = 5 * time.Second

// DefaultDir 默认的计数器目录：用户主目录下的 .local/share/lexid
// 同一用户的所有进程共用这个目录，环境 ID 才不会重复
func DefaultDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "lexid")
	}

	// 如果无法获取主目录，使用当前目录下的 data
	return filepath.Join(".", "data")
}

// UpdateFunc 根据当前值计算新值，found 为 false 表示还没有持久化过
type UpdateFunc func(current *big.Int, found bool) *big.Int

// Store 计数器存储
type Store interface {
	// Load 读取计数器，不存在时 found 为 false
	Load(ctx context.Context, key string) (value *big.Int, found bool, err error)
	// Save 覆盖写入计数器
	Save(ctx context.Context, key string, value *big.Int) error
	// Update 在排他锁内读取、计算并写回，返回写入的新值
	Update(ctx context.Context, key string, fn UpdateFunc) (*big.Int, error)
	// Close 释放资源
	Close() error
}

// Backend 存储类型
type Backend string

const (
	BackendFile   Backend = "file"
	BackendBolt   Backend = "bolt"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Open 按类型打开 dir 下的存储
func Open(backend Backend, dir string, lockTimeout time.Duration) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(dir, lockTimeout), nil
	case BackendBolt:
		return NewBoltStore(filepath.Join(dir, "lexical.db"), lockTimeout), nil
	case BackendSQLite:
		return NewSQLStore(filepath.Join(dir, "lexical.sqlite"), lockTimeout)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, apierror.Errorf(apierror.ErrInvalidParameter, "unknown counter store backend %q", backend)
	}
}

// formatValue 十进制文本
func formatValue(v *big.Int) string {
	return v.String()
}

// parseValue 解析十进制文本，允许首尾空白
func parseValue(key, s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, apierror.Errorf(apierror.ErrFormat, "counter %q: invalid persisted value %q", key, s)
	}
	return n, nil
}

func checkValue(key string, v *big.Int) error {
	if v == nil || v.Sign() < 0 {
		return fmt.Errorf("counter %q: %w", key, apierror.Errorf(apierror.ErrRange, "negative or nil value %v", v))
	}
	return nil
}
