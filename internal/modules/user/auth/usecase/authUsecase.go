package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"redunap/config"
	"redunap/internal/modules/notification"
	u "redunap/internal/modules/user"
	"redunap/internal/modules/whatsapp"
	"redunap/internal/modules/user/auth"
	"redunap/pkg/lib/jwt"
)

// Mailer отправляет приветственное письмо. Отправка выполняется асинхронно
// и не блокирует регистрацию.
type Mailer interface {
	SendWelcomeEmail(email, username string) error
}

// Notifier рассылает WhatsApp-уведомление подписчикам типа.
type Notifier interface {
	SendToSubscribers(ctx context.Context, typeName string, message string, excludeUserID uint) (sent int, failed int)
}

// WhatsappRegistry проверяет наличие и статус WhatsApp-регистрации
// пользователя.
type WhatsappRegistry interface {
	GetRegistration(userId uint) (*whatsapp.UserWhatsapp, error)
}

type AuthUseCase struct {
	log         *slog.Logger
	rp          auth.Repo
	mailer      Mailer
	notifier    Notifier
	whatsappReg WhatsappRegistry
	googleOAuth *oauth2.Config
}

func NewAuthUseCase(log *slog.Logger, rp auth.Repo, mailer Mailer, notifier Notifier, whatsappReg WhatsappRegistry, oauthCfg config.OAuthConfig) *AuthUseCase {
	var googleOAuth *oauth2.Config
	if os.Getenv("GOOGLE_KEY") != "" && os.Getenv("GOOGLE_SECRET") != "" {
		googleOAuth = &oauth2.Config{
			ClientID:     os.Getenv("GOOGLE_KEY"),
			ClientSecret: os.Getenv("GOOGLE_SECRET"),
			RedirectURL:  oauthCfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		}
	}

	return &AuthUseCase{
		log:         log,
		rp:          rp,
		mailer:      mailer,
		notifier:    notifier,
		whatsappReg: whatsappReg,
		googleOAuth: googleOAuth,
	}
}

// maxUsernameAttempts - число попыток подобрать свободный сгенерированный username.
const maxUsernameAttempts = 5

func (uc *AuthUseCase) SignUp(email string, password string) (*auth.UserAuth, error) {
	log := uc.log.With(slog.String("op", "SignUp"))

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, u.ErrInternal
	}
	hashPassword := string(hashedPassword)

	var user *auth.UserAuth
	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		user = &auth.UserAuth{
			Email:        email,
			Username:     fmt.Sprintf("Anónimo#%05d", rand.Intn(100000)),
			PasswordHash: &hashPassword,
			Role:         u.RoleUser,
			IsActive:     true,
		}

		userId, err := uc.rp.CreateUser(user)
		if err != nil {
			if errors.Is(err, u.ErrUsernameExists) {
				continue
			}
			return nil, err
		}
		user.UserId = userId
		break
	}
	if user.UserId == 0 {
		log.Error("failed to generate unique username", slog.String("email", email))
		return nil, u.ErrInternal
	}
	username := user.Username

	if uc.mailer != nil {
		go func() {
			if err := uc.mailer.SendWelcomeEmail(email, username); err != nil {
				log.Warn("failed to send welcome email", slog.String("email", email), slog.Any("err", err))
			}
		}()
	}

	// Приветственная рассылка уходит только если у нового пользователя
	// уже есть подтверждённый WhatsApp.
	if uc.notifier != nil && uc.whatsappReg != nil {
		if reg, regErr := uc.whatsappReg.GetRegistration(user.UserId); regErr == nil && reg.IsVerified {
			go func() {
				msg := fmt.Sprintf("🎉 *RED UNAP*\n\n¡%s se ha unido a la comunidad!", username)
				uc.notifier.SendToSubscribers(context.Background(), notification.TypeWelcome, msg, user.UserId)
			}()
		}
	}

	return user, nil
}

func (uc *AuthUseCase) SignIn(email string, username string, password string) (string, string, *auth.UserAuth, error) {
	var user *auth.UserAuth
	var err error
	if email != "" {
		user, err = uc.rp.GetUserByEmail(email)
	} else {
		user, err = uc.rp.GetUserByUsername(username)
	}
	if err != nil {
		return "", "", nil, err
	}

	if user.PasswordHash == nil {
		return "", "", nil, u.ErrUserAuthWithOauth2
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, u.ErrUserNotFound
	}

	if !user.IsActive {
		return "", "", nil, u.ErrUserInactive
	}

	// Отметка last_login некритична, вход не блокируем.
	if err := uc.rp.UpdateLastLogin(user.UserId); err != nil {
		uc.log.Warn("failed to update last_login", slog.Uint64("user_id", uint64(user.UserId)), slog.Any("err", err))
	}

	accessToken, err := jwt.GenerateAccessToken(user.UserId, user.Role)
	if err != nil {
		return "", "", nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(user.UserId, user.Role)
	if err != nil {
		return "", "", nil, err
	}

	return accessToken, refreshToken, user, nil
}

// GuestSession выпускает короткоживущий access token для анонимного читателя.
// Гость не сохраняется в БД, личность существует только внутри токена.
func (uc *AuthUseCase) GuestSession() (string, *auth.UserAuth, error) {
	username := fmt.Sprintf("Anónimo#%05d", rand.Intn(100000))

	accessToken, err := jwt.GenerateAccessToken(0, u.RoleGuest)
	if err != nil {
		return "", nil, u.ErrInternal
	}

	guest := &auth.UserAuth{
		Username: username,
		Role:     u.RoleGuest,
		IsActive: true,
	}
	return accessToken, guest, nil
}

func (uc *AuthUseCase) RefreshToken(r *http.Request) (string, error) {
	refreshToken, err := r.Cookie("refresh_token")
	if err != nil {
		return "", u.ErrNoRefreshToken
	}

	claims, err := jwt.ValidateJWT(refreshToken.Value)
	if err != nil {
		return "", err
	}

	user, err := uc.rp.GetUserById(claims.UserID)
	if err != nil {
		return "", err
	}

	if !user.IsActive {
		return "", u.ErrUserInactive
	}

	return jwt.GenerateAccessToken(user.UserId, user.Role)
}

type GoogleUserData struct {
	Email     string  `json:"email"`
	Username  string  `json:"given_name"`
	AvatarUrl *string `json:"picture"`
}

func (uc *AuthUseCase) GetAuthURL(provider string) (string, error) {
	if provider != "google" {
		return "", u.ErrUnsupportedProvider
	}
	if uc.googleOAuth == nil {
		return "", u.ErrAuthProviderNotConfigured
	}

	state := uuid.NewString()
	if err := uc.rp.SaveStateCode(state); err != nil {
		return "", err
	}

	return uc.googleOAuth.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

func (uc *AuthUseCase) Callback(provider, state, code string) (bool, string, string, error) {
	if provider != "google" {
		return false, "", "", u.ErrUnsupportedProvider
	}
	if uc.googleOAuth == nil {
		return false, "", "", u.ErrAuthProviderNotConfigured
	}

	isValid, err := uc.rp.VerifyStateCode(state)
	if err != nil {
		return false, "", "", err
	}
	if !isValid {
		return false, "", "", u.ErrInvalidState
	}

	token, err := uc.googleOAuth.Exchange(context.Background(), code)
	if err != nil {
		return false, "", "", err
	}

	client := uc.googleOAuth.Client(context.Background(), token)
	oauthUser, err := fetchGoogleUser(client)
	if err != nil {
		return false, "", "", err
	}

	existingUser, err := uc.rp.GetUserByEmail(oauthUser.Email)
	if errors.Is(err, u.ErrUserNotFound) {
		userId, createErr := uc.rp.CreateUser(oauthUser)
		if createErr != nil {
			if errors.Is(createErr, u.ErrUsernameExists) {
				// Имя из Google занято, дополняем случайным суффиксом.
				oauthUser.Username = fmt.Sprintf("%s%04d", oauthUser.Username, rand.Intn(10000))
				userId, createErr = uc.rp.CreateUser(oauthUser)
			}
			if createErr != nil {
				return false, "", "", createErr
			}
		}

		accessToken, refreshToken, tokenErr := uc.issueTokens(userId, oauthUser.Role)
		if tokenErr != nil {
			return false, "", "", tokenErr
		}

		if uc.mailer != nil {
			email, username := oauthUser.Email, oauthUser.Username
			go func() {
				if mailErr := uc.mailer.SendWelcomeEmail(email, username); mailErr != nil {
					uc.log.Warn("failed to send welcome email", slog.String("email", email), slog.Any("err", mailErr))
				}
			}()
		}

		return true, accessToken, refreshToken, nil
	} else if err != nil {
		return false, "", "", err
	}

	if !existingUser.IsActive {
		return false, "", "", u.ErrUserInactive
	}

	if err := uc.rp.UpdateLastLogin(existingUser.UserId); err != nil {
		uc.log.Warn("failed to update last_login", slog.Uint64("user_id", uint64(existingUser.UserId)), slog.Any("err", err))
	}

	accessToken, refreshToken, err := uc.issueTokens(existingUser.UserId, existingUser.Role)
	if err != nil {
		return false, "", "", err
	}
	return false, accessToken, refreshToken, nil
}

func (uc *AuthUseCase) issueTokens(userId uint, role string) (string, string, error) {
	accessToken, err := jwt.GenerateAccessToken(userId, role)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := jwt.GenerateRefreshToken(userId, role)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func fetchGoogleUser(client *http.Client) (*auth.UserAuth, error) {
	resp, err := client.Get("https://www.googleapis.com/oauth2/v3/userinfo")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var data GoogleUserData
	if err := render.DecodeJSON(resp.Body, &data); err != nil {
		return nil, err
	}

	return &auth.UserAuth{
		Email:        data.Email,
		Username:     data.Username,
		AvatarUrl:    data.AvatarUrl,
		Role:         u.RoleUser,
		VerifiedUser: true,
		IsActive:     true,
	}, nil
}
