package config

import (
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config carries every runtime setting. Secrets come from the environment
// only; the yaml file is optional and holds non-sensitive defaults.
type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	} `mapstructure:"server"`

	Database struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Auth struct {
		SessionSecret   string `mapstructure:"session_secret"`
		SessionTTLHours int    `mapstructure:"session_ttl_hours"`
		ServiceSecret   string `mapstructure:"service_secret"`
		SecurityToken   string `mapstructure:"security_token"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"auth"`

	Crypto struct {
		TINKey string `mapstructure:"tin_key"`
	} `mapstructure:"crypto"`

	Bootstrap struct {
		SysadminEmail    string `mapstructure:"sysadmin_email"`
		SysadminPassword string `mapstructure:"sysadmin_password"`
	} `mapstructure:"bootstrap"`
}

// Load reads configs/config.yaml if present, then applies environment
// overrides. It fails only on malformed values; missing secrets are
// validated later by the components that need them.
func Load() (*Config, error) {
	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")
	v.AutomaticEnv()

	v.SetDefault("server.port", 5000)
	v.SetDefault("auth.session_ttl_hours", 24)
	v.SetDefault("auth.issuer", "systemaide")
	v.SetDefault("bootstrap.sysadmin_email", "sysadmin.systemaide@gmail.com")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("config: no config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyEnv(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if dsn := os.Getenv("SYSTEMAIDE_PG_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}
	if s := os.Getenv("JWT_SECRET"); s != "" {
		cfg.Auth.SessionSecret = s
	}
	if s := os.Getenv("API_BEARER_SECRET"); s != "" {
		cfg.Auth.ServiceSecret = s
	}
	if s := os.Getenv("API_SECURITY_TOKEN"); s != "" {
		cfg.Auth.SecurityToken = s
	}
	if s := os.Getenv("CRYPTO_SECRET"); s != "" {
		cfg.Crypto.TINKey = s
	}
	if s := os.Getenv("DEFAULT_SYSADMIN_EMAIL"); s != "" {
		cfg.Bootstrap.SysadminEmail = s
	}
	if s := os.Getenv("DEFAULT_SYSADMIN_PASSWORD"); s != "" {
		cfg.Bootstrap.SysadminPassword = s
	}
}

// ValidateSecrets checks the settings a serving process cannot run without.
func (c *Config) ValidateSecrets() error {
	if c.Auth.SessionSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.Auth.ServiceSecret == "" {
		return errors.New("config: API_BEARER_SECRET is required")
	}
	if c.Auth.SecurityToken == "" {
		return errors.New("config: API_SECURITY_TOKEN is required")
	}
	if c.Crypto.TINKey == "" {
		return errors.New("config: CRYPTO_SECRET is required")
	}
	return nil
}
