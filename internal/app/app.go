package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ajaypanchal761/driveon-auth/internal/config"
	httpx "github.com/ajaypanchal761/driveon-auth/internal/http"
	"github.com/ajaypanchal761/driveon-auth/internal/http/handlers"
	"github.com/ajaypanchal761/driveon-auth/internal/http/middleware"
)

func Run(cfg *config.Config, logger zerolog.Logger) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if cfg.InsecureSecretFallback {
		logger.Warn().Msg("using insecure development JWT secrets, do not deploy like this")
	}

	container, err := NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	if err := container.RedisClient.Ping(context.Background()).Err(); err != nil {
		return err
	}

	authH := handlers.NewAuthHandlers(container.AuthSvc, cfg.IsProduction(), logger)
	polH := &handlers.PolicyHandlers{PolicySvc: container.PolicySvc}

	jwtMW := middleware.NewAuthMW(container.TokenSvc)
	casbinMW := middleware.NewCasbinMW(container.Casbin.E)

	r := httpx.BuildRouter(authH, polH, jwtMW, casbinMW)

	seedPolicies(container, logger)

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Msg("listening")
	return http.ListenAndServe(addr, r)
}

func seedPolicies(c *Container, logger zerolog.Logger) {
	if len(c.PolicySvc.GetPolicies()) > 0 {
		return
	}
	_ = c.PolicySvc.AddPolicy("role_admin", "/admin/*", "(GET|POST|PUT|DELETE)")
	_ = c.PolicySvc.AddPolicy("role_admin", "/auth/me", "GET")
	_ = c.PolicySvc.AddPolicy("role_admin", "/auth/logout", "POST")
	_ = c.PolicySvc.AddPolicy("role_user", "/auth/me", "GET")
	_ = c.PolicySvc.AddPolicy("role_user", "/auth/logout", "POST")
	logger.Info().Msg("casbin: seeded default policies")
}
