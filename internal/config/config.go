package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all static configuration for the service. Sync behavior
// (API key, direction, field mapping) lives in the persisted sync settings,
// not here.
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Admin   AdminConfig
	Didar   DidarConfig
	Audit   AuditConfig
	Debug   bool
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// MongoDBConfig holds MongoDB configuration.
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig holds the optional redis connection used for the full-run lock.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT signing configuration.
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// AdminConfig holds the admin credential for the login endpoint. The
// password is stored as a bcrypt hash.
type AdminConfig struct {
	Email        string
	PasswordHash string
}

// DidarConfig holds Didar API configuration. SyncToken is the shared
// anti-forgery token required on manual sync requests.
type DidarConfig struct {
	BaseURL   string
	SyncToken string
}

// AuditConfig holds audit log configuration.
type AuditConfig struct {
	Path string
}

// Load loads configuration from config.yaml and environment variables.
func Load(path string) (*Config, error) {
	// A missing .env file is fine; env vars may be set directly.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedOrigins", []string{"http://localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "didar-crm")
	viper.SetDefault("Redis.Enabled", false)
	viper.SetDefault("Redis.Addr", "localhost:6379")
	viper.SetDefault("Redis.DB", 0)
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Didar.BaseURL", "")       // empty selects the production API
	viper.SetDefault("Audit.Path", "didar-sync.log")
	viper.SetDefault("Debug", false)
}
