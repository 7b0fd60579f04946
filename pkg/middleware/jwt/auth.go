package jwt

import (
	"context"
	"log/slog"
	"net/http"

	u "redunap/internal/modules/user"
	"redunap/pkg/lib/jwt"
	resp "redunap/pkg/lib/response"
)

// NewUserAuth требует валидный access token. Гостевые токены не проходят.
func NewUserAuth(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log = log.With(slog.String("op", "middlewareAuth"))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := extractClaims(r)
			if err != nil {
				handleAuthError(w, r, log, err)
				return
			}

			if claims.Role == u.RoleGuest {
				resp.SendError(w, r, http.StatusForbidden, "guests cannot perform this action")
				return
			}

			ctx := context.WithValue(r.Context(), "userId", claims.UserID)
			ctx = context.WithValue(ctx, "role", claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewRoleAuth требует одну из перечисленных ролей.
func NewRoleAuth(log *slog.Logger, roles ...string) func(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		log = log.With(slog.String("op", "middlewareRoleAuth"))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := extractClaims(r)
			if err != nil {
				handleAuthError(w, r, log, err)
				return
			}

			if _, ok := allowed[claims.Role]; !ok {
				log.Info("access denied", slog.String("role", claims.Role))
				resp.SendError(w, r, http.StatusForbidden, "access forbidden")
				return
			}

			ctx := context.WithValue(r.Context(), "userId", claims.UserID)
			ctx = context.WithValue(ctx, "role", claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewOptionalAuth пропускает запрос в любом случае. При валидном токене кладет
// userId и role в контекст, иначе запрос считается гостевым.
func NewOptionalAuth(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := extractClaims(r)
			if err != nil {
				ctx := context.WithValue(r.Context(), "role", u.RoleGuest)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			ctx := context.WithValue(r.Context(), "userId", claims.UserID)
			ctx = context.WithValue(ctx, "role", claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractClaims(r *http.Request) (*jwt.CustomClaims, error) {
	tokenStr, err := jwt.ExtractJWTFromHeader(r)
	if err != nil {
		return nil, err
	}
	return jwt.ValidateJWT(tokenStr)
}

func handleAuthError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	log.Info("auth error", slog.String("error", err.Error()))
	resp.SendError(w, r, http.StatusUnauthorized, err.Error())
}
