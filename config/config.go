package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Các storage driver được hỗ trợ
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
type Configuration struct {
	Address        string        `env:"ADDRESS" envDefault:"8080"`                          // Cổng server
	StorageDriver  string        `env:"STORAGE_DRIVER" envDefault:"mongo"`                  // mongo | memory
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`                   // Timeout cho mỗi thao tác với storage
	SeedFile       string        `env:"SEED_FILE" envDefault:"config/seed.yaml"`            // File dữ liệu mặc định (permissions, roles)
	SeedOnStart    bool          `env:"SEED_ON_START" envDefault:"true"`                    // Tạo dữ liệu mặc định khi khởi động
	MetricsEnabled bool          `env:"METRICS_ENABLED" envDefault:"true"`                  // Bật /metrics
	UsercodeSync   time.Duration `env:"USERCODE_SYNC_INTERVAL" envDefault:"0s"`             // Chu kỳ đồng bộ bộ đếm usercode (0 = tắt)

	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI" envDefault:"mongodb://localhost:27017"` // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"rbac_admin"`                        // Tên cơ sở dữ liệu
	MongoDB_ColPermission string `env:"MONGODB_COLLECTION_PERMISSIONS" envDefault:"permissions"`
	MongoDB_ColRole       string `env:"MONGODB_COLLECTION_ROLES" envDefault:"roles"`
	MongoDB_ColUser       string `env:"MONGODB_COLLECTION_USERS" envDefault:"users"`
	MongoDB_ColCounter    string `env:"MONGODB_COLLECTION_COUNTERS" envDefault:"counters"`

	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window (0 = tắt)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting

	// TLS/HTTPS Configuration
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"`
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`
}

// Validate kiểm tra các giá trị cấu hình không hợp lệ
func (c *Configuration) Validate() error {
	switch c.StorageDriver {
	case StorageMongo:
		if c.MongoDB_ConnectionURI == "" || c.MongoDB_DBName == "" {
			return fmt.Errorf("storage driver %q requires MONGODB_CONNECTION_URI and MONGODB_DBNAME", c.StorageDriver)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường (GO_ENV, mặc định development)
func getEnvPath() string {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// Dùng fmt vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Đi ngược lên cho tới khi gặp thư mục config/env
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", env))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig đọc cấu hình từ file env (nếu có) rồi từ biến môi trường.
// files cho phép chỉ định trực tiếp các file env, bỏ qua việc dò tìm config/env.
func NewConfig(files ...string) (*Configuration, error) {
	if len(files) == 0 {
		if envPath := getEnvPath(); envPath != "" {
			files = []string{envPath}
		}
	}

	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			fmt.Printf("Bỏ qua file env %s: %v\n", file, err)
			continue
		}
		// godotenv.Load không ghi đè biến môi trường đã có
		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", file, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
