package controller

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"redunap/config"
	"redunap/internal/modules/user/auth"
)

type AuthController struct {
	log      *slog.Logger
	uc       auth.UseCase
	validate *validator.Validate
	oauthCfg config.OAuthConfig
	jwtCfg   config.JWTConfig
}

func NewAuthController(log *slog.Logger, uc auth.UseCase, oauthCfg config.OAuthConfig, jwtCfg config.JWTConfig) *AuthController {
	return &AuthController{
		log:      log,
		uc:       uc,
		validate: validator.New(),
		oauthCfg: oauthCfg,
		jwtCfg:   jwtCfg,
	}
}

func (c *AuthController) setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(c.jwtCfg.RefreshExpire),
		HttpOnly: true,
		Path:     "/",
		Domain:   c.jwtCfg.CookieDomain,
		Secure:   c.jwtCfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *AuthController) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
		Domain:   c.jwtCfg.CookieDomain,
		Secure:   c.jwtCfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
