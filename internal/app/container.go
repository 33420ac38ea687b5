package app

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ajaypanchal761/driveon-auth/domain"
	"github.com/ajaypanchal761/driveon-auth/internal/config"
	"github.com/ajaypanchal761/driveon-auth/internal/infrastructure/auth"
	"github.com/ajaypanchal761/driveon-auth/internal/infrastructure/database"
	"github.com/ajaypanchal761/driveon-auth/internal/infrastructure/notifications"
	"github.com/ajaypanchal761/driveon-auth/internal/infrastructure/referrals"
	"github.com/ajaypanchal761/driveon-auth/internal/infrastructure/repositories"
	"github.com/ajaypanchal761/driveon-auth/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Logger zerolog.Logger

	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService

	UserRepo domain.UserRepository
	OTPRepo  domain.OTPRepository

	TokenSvc    domain.TokenService
	SMSGateway  domain.SMSGateway
	ReferralSvc domain.ReferralDispatcher
	OTPSvc      domain.OTPService
	AuthSvc     domain.AuthService
	PolicySvc   domain.PolicyService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, logger zerolog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	db, err := database.Open(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	c.DB = db

	c.RedisClient = database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB).Client

	c.Casbin, err = auth.NewCasbinService(db, cfg.CasbinModelPath)
	if err != nil {
		return nil, err
	}

	c.UserRepo = repositories.NewUserRepository(db)
	c.OTPRepo = repositories.NewOTPRepository(db)

	c.TokenSvc = auth.NewJWTService(
		cfg.AccessSecret,
		cfg.RefreshSecret,
		cfg.JWTIssuer,
		auth.TokenTTL{Access: cfg.UserAccessTTL, Refresh: cfg.UserRefreshTTL},
		auth.TokenTTL{Access: cfg.AdminAccessTTL, Refresh: cfg.AdminRefreshTTL},
	)
	c.SMSGateway = notifications.NewTwilioService(
		cfg.TwilioSID,
		cfg.TwilioToken,
		cfg.TwilioFrom,
		cfg.DemoNumbers,
		cfg.SMSSendTimeout,
		logger,
	)
	c.ReferralSvc = referrals.NewRedisDispatcher(c.RedisClient, cfg.ReferralQueueKey)

	c.OTPSvc = services.NewOTPService(c.OTPRepo, c.SMSGateway, c.RedisClient, services.OTPConfig{
		TTL:          cfg.OTP_TTL,
		ResendWindow: cfg.OTP_ResendWindow,
		SendTimeout:  cfg.SMSSendTimeout,
		DemoNumbers:  cfg.DemoNumbers,
		Production:   cfg.IsProduction(),
	}, logger)

	c.AuthSvc = services.NewAuthService(c.UserRepo, c.OTPRepo, c.OTPSvc, c.TokenSvc, c.ReferralSvc, logger)
	c.PolicySvc = services.NewPolicyService(c.Casbin.E)

	return c, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
