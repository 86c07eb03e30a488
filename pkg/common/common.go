package common

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"wampcore/pkg/common/compress"
	"wampcore/pkg/common/config"
	"wampcore/pkg/common/fs"
	"wampcore/pkg/common/logger"
)

var (
	fsMu       sync.Mutex
	fileSystem *fs.FileSystem
)

// InitLogger initializes the logger with default configuration
func InitLogger() error {
	return logger.Init(logger.DefaultConfig())
}

// InitLoggerWithConfig initializes the logger with custom configuration
func InitLoggerWithConfig(config *logger.Config) error {
	return logger.Init(config)
}

// GetLogger returns the global logger instance
func GetLogger() *zerolog.Logger {
	return logger.GetLogger()
}

// Init loads config.json from configPath (created with defaults when
// missing), configures logging from it and prepares the runtime object store.
func Init(configPath string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	level := cfg.Log.Level
	if cfg.Debug {
		level = "debug"
	}
	if err := logger.Setup(level, cfg.Log.Format); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if _, err := GetFileSystem(); err != nil {
		return nil, err
	}
	logger.GetLogger().Debug().Str("runtime_dir", cfg.RuntimeDir).Strs("roles", cfg.Roles).Msg("common initialized")
	return cfg, nil
}

// IsDebug reports whether the loaded config enables debug mode.
func IsDebug() bool {
	return config.IsDebug()
}

// GetFileSystem returns the runtime object store, creating it from the
// current config on first use.
func GetFileSystem() (*fs.FileSystem, error) {
	fsMu.Lock()
	defer fsMu.Unlock()
	if fileSystem != nil {
		return fileSystem, nil
	}
	cfg := config.Get()
	ct, err := compress.ParseType(cfg.Compression)
	if err != nil {
		return nil, err
	}
	fsys, err := fs.New(fs.WithRuntimePath(cfg.RuntimeDir), fs.WithCompressor(compress.NewCompressor(ct)))
	if err != nil {
		return nil, fmt.Errorf("init filesystem: %w", err)
	}
	fileSystem = fsys
	return fileSystem, nil
}

// SetFileSystem replaces the runtime object store, e.g. with an in-memory
// one in tests.
func SetFileSystem(fsys *fs.FileSystem) {
	fsMu.Lock()
	fileSystem = fsys
	fsMu.Unlock()
}
