package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/viper"
)

func reset() {
	viper.Reset()
	appConfig = nil
}

func TestLoad(t *testing.T) {
	t.Run("CreateDefaultConfig", func(t *testing.T) {
		tempDir := t.TempDir()
		reset()

		config, err := Load(tempDir)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !reflect.DeepEqual(config, Default()) {
			t.Errorf("Expected defaults, got %+v", config)
		}
		if _, err := os.Stat(filepath.Join(tempDir, "config.json")); os.IsNotExist(err) {
			t.Error("Expected config.json to be created")
		}
	})

	t.Run("LoadExistingConfig", func(t *testing.T) {
		tempDir := t.TempDir()
		content := `{"debug": true, "addr": ":9000", "roles": ["dealer"], "workers": 2, "log": {"level": "debug"}, "compression": "zstd"}`
		if err := os.WriteFile(filepath.Join(tempDir, "config.json"), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create test config file: %v", err)
		}
		reset()

		config, err := Load(tempDir)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !config.Debug || config.Addr != ":9000" || config.Workers != 2 || config.Compression != "zstd" {
			t.Errorf("Unexpected config %+v", config)
		}
		if len(config.Roles) != 1 || config.Roles[0] != "dealer" {
			t.Errorf("Expected roles [dealer], got %v", config.Roles)
		}
		if config.Log.Level != "debug" || config.Log.Format != "console" {
			t.Errorf("Expected log level debug with default format, got %+v", config.Log)
		}
		if config.DBName != "wampcore.db" {
			t.Errorf("Expected default db name, got %s", config.DBName)
		}
	})

	t.Run("EnvOverride", func(t *testing.T) {
		tempDir := t.TempDir()
		if err := os.WriteFile(filepath.Join(tempDir, "config.json"), []byte(`{"addr": ":9000"}`), 0644); err != nil {
			t.Fatalf("Failed to create test config file: %v", err)
		}
		t.Setenv("WAMPCORE_ADDR", ":7000")
		t.Setenv("WAMPCORE_LOG_LEVEL", "warn")
		reset()

		config, err := Load(tempDir)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if config.Addr != ":7000" {
			t.Errorf("Expected env addr :7000, got %s", config.Addr)
		}
		if config.Log.Level != "warn" {
			t.Errorf("Expected env log level warn, got %s", config.Log.Level)
		}
	})

	t.Run("InvalidValues", func(t *testing.T) {
		tempDir := t.TempDir()
		if err := os.WriteFile(filepath.Join(tempDir, "config.json"), []byte(`{"compression": "lzma"}`), 0644); err != nil {
			t.Fatalf("Failed to create test config file: %v", err)
		}
		reset()

		if _, err := Load(tempDir); err == nil {
			t.Error("Expected error for unknown compression")
		}
	})

	t.Run("MalformedFile", func(t *testing.T) {
		tempDir := t.TempDir()
		if err := os.WriteFile(filepath.Join(tempDir, "config.json"), []byte(`{"debug": `), 0644); err != nil {
			t.Fatalf("Failed to create test config file: %v", err)
		}
		reset()

		if _, err := Load(tempDir); err == nil {
			t.Error("Expected error for malformed config")
		}
	})
}

func TestGet(t *testing.T) {
	t.Run("GetWithoutLoad", func(t *testing.T) {
		appConfig = nil
		config := Get()
		if config.Debug || config.Workers != 8 {
			t.Errorf("Expected defaults, got %+v", config)
		}
	})

	t.Run("GetAfterLoad", func(t *testing.T) {
		appConfig = &Config{Debug: true}
		if !Get().Debug {
			t.Error("Expected debug to be true")
		}
		appConfig = nil
	})
}

func TestIsDebug(t *testing.T) {
	appConfig = &Config{Debug: false}
	if IsDebug() {
		t.Error("Expected IsDebug() to return false")
	}
	appConfig = &Config{Debug: true}
	if !IsDebug() {
		t.Error("Expected IsDebug() to return true")
	}
	appConfig = nil
	if IsDebug() {
		t.Error("Expected IsDebug() to return false when config is nil")
	}
}

func TestValidate(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	c.Workers = 0
	if err := c.Validate(); err == nil {
		t.Error("Expected error for zero workers")
	}
	c = Default()
	c.DBName = ""
	if err := c.Validate(); err == nil {
		t.Error("Expected error for empty db name")
	}
}

func TestReload(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.json")

	t.Run("ReloadSuccess", func(t *testing.T) {
		if err := os.WriteFile(configPath, []byte(`{"debug": false}`), 0644); err != nil {
			t.Fatalf("Failed to create initial config: %v", err)
		}
		reset()

		config, err := Load(tempDir)
		if err != nil {
			t.Fatalf("Failed to load initial config: %v", err)
		}
		if config.Debug {
			t.Error("Expected initial debug to be false")
		}

		if err := os.WriteFile(configPath, []byte(`{"debug": true}`), 0644); err != nil {
			t.Fatalf("Failed to update config file: %v", err)
		}
		if err := Reload(); err != nil {
			t.Fatalf("Failed to reload config: %v", err)
		}
		if !Get().Debug {
			t.Error("Expected debug to be true after reload")
		}
	})

	t.Run("ReloadWithoutInitialLoad", func(t *testing.T) {
		reset()
		if err := Reload(); err == nil {
			t.Error("Expected error when reloading without initial config")
		}
	})
}

func BenchmarkGet(b *testing.B) {
	appConfig = &Config{Debug: true}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Get()
	}
}
