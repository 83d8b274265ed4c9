// Package config loads server settings from an optional YAML file merged with
// environment variables (env wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"Clubhouse_Hub/internal/repository"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`
	// PublicURL 登录邮件里链接的站点根地址
	PublicURL    string `koanf:"public_url"`
	CookieSecure bool   `koanf:"cookie_secure"`

	// DemoMode 启动时读取一次，决定整个进程使用哪个存储后端
	DemoMode    bool   `koanf:"demo_mode"`
	DatabaseDSN string `koanf:"database_dsn"`
	AutoMigrate bool   `koanf:"auto_migrate"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	JWTSecret        string `koanf:"jwt_secret"`
	JWTRefreshSecret string `koanf:"jwt_refresh_secret"`
	LoginLinkTTL     time.Duration

	ShopifyStoreDomain string `koanf:"shopify_store_domain"`
	ShopifyAccessToken string `koanf:"shopify_admin_access_token"`

	SMTPHost     string `koanf:"smtp_host"`
	SMTPPort     int    `koanf:"smtp_port"`
	SMTPUsername string `koanf:"smtp_username"`
	SMTPPassword string `koanf:"smtp_password"`
	SMTPFrom     string `koanf:"smtp_from"`

	KafkaBrokers []string `koanf:"kafka_brokers"`
	KafkaTopic   string   `koanf:"kafka_topic"`
}

var (
	ErrMissingDatabaseDSN = errors.New("DATABASE_DSN is required when demo mode is off")
	ErrMissingRedisAddr   = errors.New("REDIS_ADDR is required when demo mode is off")
	ErrMissingJWTSecret   = errors.New("JWT_SECRET is required when demo mode is off")
	ErrMissingSMTPHost    = errors.New("SMTP_HOST is required when demo mode is off")
	ErrInvalidDemoMode    = errors.New("HUB_DEMO_MODE must be a boolean, mock or relational")
	ErrInvalidBool        = errors.New("must be a boolean")
	ErrInvalidPort        = errors.New("PORT must be between 1 and 65535")
	ErrInvalidSMTPPort    = errors.New("SMTP_PORT must be between 1 and 65535")
	ErrInvalidLinkTTL     = errors.New("LOGIN_LINK_TTL must be a positive duration")
)

const (
	DefaultPort         = 8080
	DefaultEnv          = "development"
	DefaultPublicURL    = "http://localhost:8080"
	DefaultSMTPPort     = 587
	DefaultKafkaTopic   = "clubhouse.events"
	DefaultLoginLinkTTL = 15 * time.Minute
	demoJWTSecret       = "clubhouse-demo-secret"
)

// Load reads configuration from an optional YAML file and the environment.
// It returns the config and every validation error found (empty when valid).
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	port, err := getEnvIntOrDefault([]string{"HUB_PORT", "PORT"}, k.Int("port"), DefaultPort)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}
	redisDB, err := getEnvIntOrDefault([]string{"REDIS_DB"}, k.Int("redis_db"), 0)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}
	smtpPort, err := getEnvIntOrDefault([]string{"SMTP_PORT"}, k.Int("smtp_port"), DefaultSMTPPort)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}
	linkTTL, err := getEnvDurationOrDefault("LOGIN_LINK_TTL", k.String("login_link_ttl"), DefaultLoginLinkTTL)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}
	mode, err := getEnvMode("HUB_DEMO_MODE", k, "demo_mode")
	if err != nil {
		loadErrs = append(loadErrs, err)
	}
	cookieSecure, err := getEnvBool("COOKIE_SECURE", k, "cookie_secure", false)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}
	autoMigrate, err := getEnvBool("AUTO_MIGRATE", k, "auto_migrate", false)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}

	cfg := &Config{
		Port:               port,
		Env:                getEnvOrDefault([]string{"HUB_ENV", "ENV"}, k.String("env"), DefaultEnv),
		PublicURL:          strings.TrimRight(getEnvOrDefault([]string{"PUBLIC_URL"}, k.String("public_url"), DefaultPublicURL), "/"),
		CookieSecure:       cookieSecure,
		DemoMode:           mode == repository.ModeMock,
		DatabaseDSN:        getEnvOrKoanf("DATABASE_DSN", k, "database_dsn"),
		AutoMigrate:        autoMigrate,
		RedisAddr:          getEnvOrKoanf("REDIS_ADDR", k, "redis_addr"),
		RedisPassword:      getEnvOrKoanf("REDIS_PASSWORD", k, "redis_password"),
		RedisDB:            redisDB,
		JWTSecret:          getEnvOrKoanf("JWT_SECRET", k, "jwt_secret"),
		JWTRefreshSecret:   getEnvOrKoanf("JWT_REFRESH_SECRET", k, "jwt_refresh_secret"),
		LoginLinkTTL:       linkTTL,
		ShopifyStoreDomain: getEnvOrKoanf("SHOPIFY_STORE_DOMAIN", k, "shopify_store_domain"),
		ShopifyAccessToken: getEnvOrKoanf("SHOPIFY_ADMIN_ACCESS_TOKEN", k, "shopify_admin_access_token"),
		SMTPHost:           getEnvOrKoanf("SMTP_HOST", k, "smtp_host"),
		SMTPPort:           smtpPort,
		SMTPUsername:       getEnvOrKoanf("SMTP_USERNAME", k, "smtp_username"),
		SMTPPassword:       getEnvOrKoanf("SMTP_PASSWORD", k, "smtp_password"),
		SMTPFrom:           getEnvOrKoanf("SMTP_FROM", k, "smtp_from"),
		KafkaBrokers:       getEnvList("KAFKA_BROKERS", k, "kafka_brokers"),
		KafkaTopic:         getEnvOrDefault([]string{"KAFKA_TOPIC"}, k.String("kafka_topic"), DefaultKafkaTopic),
	}

	// 演示模式允许使用内置密钥
	if cfg.DemoMode && cfg.JWTSecret == "" {
		cfg.JWTSecret = demoJWTSecret
	}
	if cfg.JWTRefreshSecret == "" && cfg.JWTSecret != "" {
		cfg.JWTRefreshSecret = cfg.JWTSecret + ":refresh"
	}
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUsername
	}

	errs := cfg.Validate()
	return cfg, append(loadErrs, errs...)
}

// Validate checks the cross-field rules and returns every violation.
func (c *Config) Validate() []error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, ErrInvalidPort)
	}
	if c.SMTPHost != "" && (c.SMTPPort < 1 || c.SMTPPort > 65535) {
		errs = append(errs, ErrInvalidSMTPPort)
	}
	if c.LoginLinkTTL <= 0 {
		errs = append(errs, ErrInvalidLinkTTL)
	}
	if !c.DemoMode {
		if c.DatabaseDSN == "" {
			errs = append(errs, ErrMissingDatabaseDSN)
		}
		if c.RedisAddr == "" {
			errs = append(errs, ErrMissingRedisAddr)
		}
		if c.JWTSecret == "" {
			errs = append(errs, ErrMissingJWTSecret)
		}
		// 没有 SMTP 时登录邮件无处可发
		if c.SMTPHost == "" {
			errs = append(errs, ErrMissingSMTPHost)
		}
	}
	return errs
}

// StoreMode maps the demo toggle to the data backend.
func (c *Config) StoreMode() repository.Mode {
	return repository.ModeFromDemoFlag(c.DemoMode)
}

func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

func getEnvOrDefault(envKeys []string, koanfVal, defaultVal string) string {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

func getEnvIntOrDefault(envKeys []string, koanfVal, defaultVal int) (int, error) {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			n, err := strconv.Atoi(val)
			if err != nil {
				return defaultVal, fmt.Errorf("%s must be an integer: %w", key, err)
			}
			return n, nil
		}
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

func getEnvDurationOrDefault(envKey, koanfVal string, defaultVal time.Duration) (time.Duration, error) {
	raw := os.Getenv(envKey)
	if raw == "" {
		raw = koanfVal
	}
	if raw == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultVal, fmt.Errorf("%w: %v", ErrInvalidLinkTTL, err)
	}
	return d, nil
}

// getEnvBool 环境变量优先，其次文件，最后默认值；无法识别的值报错
func getEnvBool(envKey string, k *koanf.Koanf, koanfKey string, defaultVal bool) (bool, error) {
	raw := os.Getenv(envKey)
	if raw == "" {
		raw = k.String(koanfKey)
	}
	if raw == "" {
		return defaultVal, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return defaultVal, fmt.Errorf("%s %w, got %q", envKey, ErrInvalidBool, raw)
}

// getEnvMode 演示开关也接受 mock / relational
func getEnvMode(envKey string, k *koanf.Koanf, koanfKey string) (repository.Mode, error) {
	raw := os.Getenv(envKey)
	if raw == "" {
		raw = k.String(koanfKey)
	}
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return repository.ModeRelational, nil
	}
	mode, err := repository.ParseMode(raw)
	if err != nil {
		return repository.ModeRelational, fmt.Errorf("%w: %v", ErrInvalidDemoMode, err)
	}
	return mode, nil
}

func getEnvList(envKey string, k *koanf.Koanf, koanfKey string) []string {
	if val := os.Getenv(envKey); val != "" {
		var out []string
		for _, part := range strings.Split(val, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return k.Strings(koanfKey)
}
