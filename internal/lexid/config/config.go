package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jimyag/lexid/pkg/counterstore"
)

// 默认值
const (
	DefaultAddress     = "0.0.0.0:7777"
	DefaultLockTimeout = counterstore.DefaultLockTimeout
)

type Config struct {
	// DataDir 计数器文件所在目录
	// 可以通过环境变量 LEXID_DATA_DIR 配置
	// 默认：~/.local/share/lexid
	DataDir string `yaml:"data_dir"`

	// Address HTTP 监听地址，环境变量 LEXID_ADDRESS
	Address string `yaml:"address"`

	// Store 计数器存储类型：file、bolt、sqlite、memory
	// 环境变量 LEXID_STORE
	Store counterstore.Backend `yaml:"store"`

	// LockTimeout 分配环境 ID 时等待跨进程锁的时长，0 表示一直等待
	// 环境变量 LEXID_LOCK_TIMEOUT，格式同 time.ParseDuration
	LockTimeout time.Duration `yaml:"lock_timeout"`

	// SystemChecks 启动时是否执行环境自检，环境变量 LEXID_SYSTEM_CHECKS
	SystemChecks bool `yaml:"system_checks"`
}

// New 依次应用默认值、LEXID_CONFIG 指定的 YAML 文件和环境变量
func New() (*Config, error) {
	cfg := &Config{
		DataDir:      counterstore.DefaultDir(),
		Address:      DefaultAddress,
		Store:        counterstore.BackendFile,
		LockTimeout:  DefaultLockTimeout,
		SystemChecks: true,
	}

	if path := os.Getenv("LEXID_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile 读取 YAML 配置，文件中没有出现的字段保持原值
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	if dir := os.Getenv("LEXID_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if addr := os.Getenv("LEXID_ADDRESS"); addr != "" {
		c.Address = addr
	}
	if store := os.Getenv("LEXID_STORE"); store != "" {
		c.Store = counterstore.Backend(store)
	}
	if v := os.Getenv("LEXID_LOCK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse LEXID_LOCK_TIMEOUT: %w", err)
		}
		c.LockTimeout = d
	}
	if v := os.Getenv("LEXID_SYSTEM_CHECKS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse LEXID_SYSTEM_CHECKS: %w", err)
		}
		c.SystemChecks = b
	}
	return nil
}

// Validate 检查配置
func (c *Config) Validate() error {
	switch c.Store {
	case counterstore.BackendFile, counterstore.BackendBolt, counterstore.BackendSQLite, counterstore.BackendMemory:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.LockTimeout < 0 {
		return fmt.Errorf("lock timeout must not be negative, got %v", c.LockTimeout)
	}
	if c.Address == "" {
		return fmt.Errorf("address must not be empty")
	}
	return nil
}
