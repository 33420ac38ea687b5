package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port        int    `yaml:"port"`
	GinMode     string `yaml:"gin_mode"`
	Environment string `yaml:"environment"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	AccessSecret    string `yaml:"access_secret"`
	RefreshSecret   string `yaml:"refresh_secret"`
	Issuer          string `yaml:"issuer"`
	UserAccessTTL   string `yaml:"user_access_ttl"`
	UserRefreshTTL  string `yaml:"user_refresh_ttl"`
	AdminAccessTTL  string `yaml:"admin_access_ttl"`
	AdminRefreshTTL string `yaml:"admin_refresh_ttl"`
}

type OTPConfig struct {
	TTL          string `yaml:"ttl"`
	ResendWindow string `yaml:"resend_window"`
	SendTimeout  string `yaml:"send_timeout"`
}

type TwilioConfig struct {
	AccountSID  string   `yaml:"account_sid"`
	AuthToken   string   `yaml:"auth_token"`
	FromNumber  string   `yaml:"from_number"`
	DemoNumbers []string `yaml:"demo_numbers"`
}

type ReferralConfig struct {
	QueueKey string `yaml:"queue_key"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	OTP      OTPConfig      `yaml:"otp"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	Referral ReferralConfig `yaml:"referral"`
	Casbin   CasbinConfig   `yaml:"casbin"`
}

type Config struct {
	Port        string
	GinMode     string
	Environment string

	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AccessSecret    string
	RefreshSecret   string
	JWTIssuer       string
	UserAccessTTL   time.Duration
	UserRefreshTTL  time.Duration
	AdminAccessTTL  time.Duration
	AdminRefreshTTL time.Duration

	OTP_TTL          time.Duration
	OTP_ResendWindow time.Duration
	SMSSendTimeout   time.Duration

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string
	DemoNumbers []string

	ReferralQueueKey string
	CasbinModelPath  string

	// InsecureSecretFallback is set when a hardcoded development signing
	// secret is in use; the app logs a warning at startup.
	InsecureSecretFallback bool
}

// Development fallbacks. Load refuses to use them in production.
const (
	devAccessSecret  = "driveon-dev-access-secret"
	devRefreshSecret = "driveon-dev-refresh-secret"
)

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func Load() (*Config, error) {
	return LoadFrom(env("CONFIG_PATH", "config/config.yml"))
}

func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	cfg := &Config{
		Port:        fmt.Sprintf("%d", configFile.App.Port),
		GinMode:     configFile.App.GinMode,
		Environment: env("APP_ENV", configFile.App.Environment),

		DSN: env("DATABASE_DSN", configFile.Database.DSN),

		RedisAddr:     env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:       configFile.Redis.DB,

		AccessSecret:  env("JWT_ACCESS_SECRET", configFile.JWT.AccessSecret),
		RefreshSecret: env("JWT_REFRESH_SECRET", configFile.JWT.RefreshSecret),
		JWTIssuer:     configFile.JWT.Issuer,

		TwilioSID:   env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken: env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:  env("TWILIO_FROM_NUMBER", configFile.Twilio.FromNumber),
		DemoNumbers: configFile.Twilio.DemoNumbers,

		ReferralQueueKey: configFile.Referral.QueueKey,
		CasbinModelPath:  configFile.Casbin.ModelPath,
	}

	if cfg.ReferralQueueKey == "" {
		cfg.ReferralQueueKey = "referral:events"
	}

	if cfg.UserAccessTTL, err = parseDuration(configFile.JWT.UserAccessTTL, 168*time.Hour); err != nil {
		return nil, fmt.Errorf("invalid user access TTL: %w", err)
	}
	if cfg.UserRefreshTTL, err = parseDuration(configFile.JWT.UserRefreshTTL, 720*time.Hour); err != nil {
		return nil, fmt.Errorf("invalid user refresh TTL: %w", err)
	}
	if cfg.AdminAccessTTL, err = parseDuration(configFile.JWT.AdminAccessTTL, 720*time.Hour); err != nil {
		return nil, fmt.Errorf("invalid admin access TTL: %w", err)
	}
	if cfg.AdminRefreshTTL, err = parseDuration(configFile.JWT.AdminRefreshTTL, 2160*time.Hour); err != nil {
		return nil, fmt.Errorf("invalid admin refresh TTL: %w", err)
	}
	if cfg.OTP_TTL, err = parseDuration(configFile.OTP.TTL, 10*time.Minute); err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}
	if cfg.OTP_ResendWindow, err = parseDuration(configFile.OTP.ResendWindow, 0); err != nil {
		return nil, fmt.Errorf("invalid OTP resend window: %w", err)
	}
	if cfg.SMSSendTimeout, err = parseDuration(configFile.OTP.SendTimeout, 15*time.Second); err != nil {
		return nil, fmt.Errorf("invalid SMS send timeout: %w", err)
	}

	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT signing secrets must be configured in production")
		}
		if cfg.AccessSecret == "" {
			cfg.AccessSecret = devAccessSecret
		}
		if cfg.RefreshSecret == "" {
			cfg.RefreshSecret = devRefreshSecret
		}
		cfg.InsecureSecretFallback = true
	}

	return cfg, nil
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
