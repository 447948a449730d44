package counterstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // 纯 Go SQLite 驱动，不需要 CGO

	"github.com/jimyag/lexid/pkg/apierror"
)

// Counter 计数器表
type Counter struct {
	Name      string `gorm:"primaryKey;type:text"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName 表名
func (Counter) TableName() string {
	return "counters"
}

// SQLStore 基于 SQLite 的存储
// 写事务以 BEGIN IMMEDIATE 开始，锁等待由 busy_timeout 控制
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore 打开 SQLite 数据库
// lockTimeout 为 0 时一直等待写锁，直到 ctx 取消
func NewSQLStore(dbPath string, lockTimeout time.Duration) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_txlock=immediate", dbPath, busyTimeout(lockTimeout))
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dsn,
		Conn:       sqlDB,
	}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open gorm database: %w", err)
	}

	if err := db.AutoMigrate(&Counter{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Load(ctx context.Context, key string) (*big.Int, bool, error) {
	var rows []Counter
	if err := s.db.WithContext(ctx).Where("name = ?", key).Limit(1).Find(&rows).Error; err != nil {
		return nil, false, wrapSQLError("read counter "+key, err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	v, err := parseValue(key, rows[0].Value)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *SQLStore) Save(ctx context.Context, key string, v *big.Int) error {
	if err := checkValue(key, v); err != nil {
		return err
	}
	return wrapSQLError("save counter "+key, upsert(s.db.WithContext(ctx), key, v))
}

func (s *SQLStore) Update(ctx context.Context, key string, fn UpdateFunc) (*big.Int, error) {
	var next *big.Int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []Counter
		if err := tx.Where("name = ?", key).Limit(1).Find(&rows).Error; err != nil {
			return err
		}

		var cur *big.Int
		found := len(rows) > 0
		if found {
			v, err := parseValue(key, rows[0].Value)
			if err != nil {
				return err
			}
			cur = v
		}

		next = fn(cur, found)
		if err := checkValue(key, next); err != nil {
			return err
		}
		return upsert(tx, key, next)
	})
	if err != nil {
		var apiErr *apierror.Error
		if errors.As(err, &apiErr) {
			return nil, err
		}
		return nil, wrapSQLError("update counter "+key, err)
	}

	zerolog.Ctx(ctx).Debug().Str("key", key).Str("value", next.String()).Msg("Counter updated in sqlite")
	return next, nil
}

// Close 关闭数据库连接
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// busyTimeout SQLite 的 busy_timeout 毫秒数，0 表示不等待，所以无限等待用 int32 上限代替
func busyTimeout(lockTimeout time.Duration) int64 {
	if lockTimeout <= 0 {
		return math.MaxInt32
	}
	return min(lockTimeout.Milliseconds(), math.MaxInt32)
}

func upsert(db *gorm.DB, key string, v *big.Int) error {
	row := Counter{Name: key, Value: formatValue(v), UpdatedAt: time.Now()}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func wrapSQLError(msg string, err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "database is locked") || strings.Contains(err.Error(), "SQLITE_BUSY") {
		return apierror.WrapError(apierror.ErrLockTimeout, msg, err)
	}
	return apierror.WrapError(apierror.ErrStorage, msg, err)
}
