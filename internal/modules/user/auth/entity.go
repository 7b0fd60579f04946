package auth

import "net/http"

// UserAuth - DTO для данных аутентификации. Содержит только поля таблицы users,
// нужные для идентификации и выпуска токенов.
type UserAuth struct {
	UserId       uint    `json:"user_id"`
	PasswordHash *string `json:"-"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	AvatarUrl    *string `json:"avatar_url,omitempty"`
	VerifiedUser bool    `json:"verified_user"`
	IsActive     bool    `json:"is_active"`
}

type Controller interface {
	SignUp(w http.ResponseWriter, r *http.Request)
	SignIn(w http.ResponseWriter, r *http.Request)
	GuestSession(w http.ResponseWriter, r *http.Request)
	Oauth(w http.ResponseWriter, r *http.Request)
	OauthCallback(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type UseCase interface {
	SignUp(email string, password string) (*UserAuth, error)
	SignIn(email string, username string, password string) (accessToken string, refreshToken string, user *UserAuth, err error)
	GuestSession() (accessToken string, user *UserAuth, err error)
	GetAuthURL(provider string) (url string, err error)
	Callback(provider, state, code string) (isNewUser bool, accessToken string, refreshToken string, err error)
	RefreshToken(r *http.Request) (accessToken string, err error)
}

// Repo объединяет БД и кэш для модуля auth.
type Repo interface {
	CreateUser(user *UserAuth) (userID uint, err error)
	GetUserByEmail(email string) (*UserAuth, error)
	GetUserByUsername(username string) (*UserAuth, error)
	GetUserById(id uint) (*UserAuth, error)
	UpdateLastLogin(userId uint) error
	SaveStateCode(state string) error
	VerifyStateCode(state string) (isValid bool, err error)
}
