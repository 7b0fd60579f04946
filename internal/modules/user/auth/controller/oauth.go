package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	u "redunap/internal/modules/user"
)

// Oauth
// @Summary Initiate OAuth flow
// @Description Redirects the user to the OAuth provider's authorization page.
// @Tags auth
// @Param provider path string true "OAuth provider (google)"
// @Success 307 "Temporary Redirect to OAuth provider"
// @Failure 400 "Unsupported provider or provider not configured"
// @Failure 500 "Internal Server Error"
// @Router /auth/{provider} [get]
func (c *AuthController) Oauth(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	log := c.log.With(slog.String("op", "OauthHandler"), slog.String("provider", provider))

	authURL, err := c.uc.GetAuthURL(provider)
	if err != nil {
		log.Warn("failed to get auth URL", slog.Any("err", err))
		if errors.Is(err, u.ErrUnsupportedProvider) || errors.Is(err, u.ErrAuthProviderNotConfigured) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, "failed to initiate oauth flow", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

// OauthCallback
// @Summary OAuth Callback
// @Description Handles the callback from the OAuth provider. Sets an httpOnly refresh_token cookie
// @Description and redirects the browser to the configured frontend URL.
// @Tags auth
// @Param provider path string true "OAuth provider (google)"
// @Param code query string true "Authorization code from OAuth provider"
// @Param state query string true "State parameter from OAuth provider"
// @Success 307 "Temporary Redirect to frontend"
// @Failure 400 "Missing code/state or invalid state"
// @Router /auth/{provider}/callback [get]
func (c *AuthController) OauthCallback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	log := c.log.With(slog.String("op", "OauthCallbackHandler"), slog.String("provider", provider))

	if state == "" || code == "" {
		log.Warn("missing state or code in oauth callback")
		c.redirectWithError(w, r, provider, "missing_oauth_params")
		return
	}

	isNewUser, accessToken, refreshToken, err := c.uc.Callback(provider, state, code)
	if err != nil {
		log.Error("oauth callback processing failed", slog.Any("err", err))

		errorCode := "oauth_processing_failed"
		switch {
		case errors.Is(err, u.ErrUnsupportedProvider), errors.Is(err, u.ErrInvalidState):
			errorCode = "invalid_oauth_request"
		case errors.Is(err, u.ErrUsernameExists), errors.Is(err, u.ErrEmailExists):
			errorCode = "user_conflict_oauth"
		case errors.Is(err, u.ErrUserInactive):
			errorCode = "account_deactivated"
		}
		c.redirectWithError(w, r, provider, errorCode)
		return
	}

	c.setRefreshCookie(w, refreshToken)

	successURL, _ := url.Parse(c.oauthCfg.FrontendRedirectSuccessURL)
	q := successURL.Query()
	q.Set("provider", provider)
	q.Set("access_token", accessToken)
	if isNewUser {
		q.Set("new_user", "true")
	}
	successURL.RawQuery = q.Encode()

	http.Redirect(w, r, successURL.String(), http.StatusTemporaryRedirect)
}

func (c *AuthController) redirectWithError(w http.ResponseWriter, r *http.Request, provider, errorCode string) {
	errorURL, _ := url.Parse(c.oauthCfg.FrontendRedirectErrorURL)
	q := errorURL.Query()
	q.Set("error", errorCode)
	q.Set("provider", provider)
	errorURL.RawQuery = q.Encode()
	http.Redirect(w, r, errorURL.String(), http.StatusTemporaryRedirect)
}
