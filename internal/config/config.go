package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	APIPort  int `yaml:"apiPort"`
	Database struct {
		Type       string `yaml:"type"` // "sqlite" or "postgres"
		Path       string `yaml:"path"`
		Host       string `yaml:"host"`
		Port       string `yaml:"port"`
		Name       string `yaml:"name"`
		User       string `yaml:"user"`
		Password   string `yaml:"password"`
		SSLMode    string `yaml:"sslMode"`
		WALMode    bool   `yaml:"walMode"`
		MaxRetries int    `yaml:"maxRetries"`
		RetryDelay int    `yaml:"retryDelay"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret     string        `yaml:"jwtSecret"`
		TokenDuration time.Duration `yaml:"tokenDuration"`
	} `yaml:"auth"`
	Backup struct {
		Enabled         bool   `yaml:"enabled"`
		S3Endpoint      string `yaml:"s3Endpoint"`
		S3Region        string `yaml:"s3Region"`
		S3Bucket        string `yaml:"s3Bucket"`
		S3AccessKey     string `yaml:"s3AccessKey"`
		S3SecretKey     string `yaml:"s3SecretKey"`
		IntervalMinutes int    `yaml:"intervalMinutes"`
	} `yaml:"backup"`
	CORSOrigins []string `yaml:"corsOrigins"`
}

// LoadConfig loads the configuration from file and environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Could not read config file: %s. Using defaults or environment variables.", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.APIPort == 0 {
		cfg.APIPort = 4000
		log.Println("APIPort not specified, using default 4000")
	}

	if cfg.Database.Type == "" {
		cfg.Database.Type = v.GetString("database.type")
	}
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = v.GetString("database.path")
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "/data/ledgertrack.db"
		log.Println("Database path not specified, using default /data/ledgertrack.db")
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if !v.IsSet("database.walMode") {
		cfg.Database.WALMode = true
	}
	if cfg.Database.MaxRetries == 0 {
		cfg.Database.MaxRetries = 5
	}
	if cfg.Database.RetryDelay == 0 {
		cfg.Database.RetryDelay = 5
	}

	// The signing secret should come from the environment in production.
	if secret := v.GetString("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = "dev-secret"
		log.Println("JWT secret not specified, using insecure development default")
	}
	if cfg.Auth.TokenDuration == 0 {
		cfg.Auth.TokenDuration = 7 * 24 * time.Hour
	}

	if cfg.Backup.Enabled && cfg.Backup.S3Bucket == "" {
		log.Println("Backup enabled without an S3 bucket, disabling")
		cfg.Backup.Enabled = false
	}
	if cfg.Backup.IntervalMinutes == 0 {
		cfg.Backup.IntervalMinutes = 60
	}

	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}

	return &cfg, nil
}
