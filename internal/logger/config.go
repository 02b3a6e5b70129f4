package logger

import (
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// LogConfig chứa cấu hình cho hệ thống logging
type LogConfig struct {
	// Log Level: trace, debug, info, warn, error, fatal
	Level string `env:"LOG_LEVEL"`

	// Log Format: json, text
	Format string `env:"LOG_FORMAT"`

	// Log Output: file, stdout, both
	Output string `env:"LOG_OUTPUT" envDefault:"both"`

	// Log Rotation
	MaxSize    int  `env:"LOG_MAX_SIZE" envDefault:"100"`  // MB
	MaxBackups int  `env:"LOG_MAX_BACKUPS" envDefault:"7"` // Số file cũ giữ lại
	MaxAge     int  `env:"LOG_MAX_AGE" envDefault:"7"`     // Số ngày giữ lại
	Compress   bool `env:"LOG_COMPRESS" envDefault:"true"` // Nén file cũ

	// Log Paths
	LogPath   string `env:"LOG_PATH" envDefault:"./logs"`
	AppFile   string `env:"LOG_APP_FILE" envDefault:"app.log"`
	ErrorFile string `env:"LOG_ERROR_FILE" envDefault:"error.log"`

	// Filters, phân cách bởi dấu phẩy; rỗng hoặc "*" = cho phép tất cả
	FilterModules string `env:"LOG_FILTER_MODULES" envDefault:"*"`
	FilterLevels  string `env:"LOG_FILTER_LEVELS" envDefault:"*"`

	// Kích thước buffer của AsyncHook
	BufferSize int `env:"LOG_BUFFER_SIZE" envDefault:"1000"`
}

// DefaultConfig trả về cấu hình mặc định, đã áp biến môi trường
func DefaultConfig() *LogConfig {
	config := &LogConfig{}
	if err := env.Parse(config); err != nil {
		// Giá trị env sai kiểu: giữ các default đã parse được
		config.Output = "both"
	}

	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	// Điều chỉnh theo môi trường nếu chưa cấu hình rõ
	if config.Level == "" {
		if goEnv == "development" {
			config.Level = "debug"
		} else {
			config.Level = "info"
		}
	}
	if config.Format == "" {
		if goEnv == "development" {
			config.Format = "text"
		} else {
			config.Format = "json"
		}
	}

	config.Level = strings.ToLower(config.Level)
	config.Format = strings.ToLower(config.Format)
	config.Output = strings.ToLower(config.Output)
	if config.BufferSize <= 0 {
		config.BufferSize = 1000
	}
	return config
}
