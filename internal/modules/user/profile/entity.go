package profile

import (
	"mime/multipart"
	"net/http"
	"time"
)

// UserProfile - DTO публичного профиля пользователя.
type UserProfile struct {
	UserId    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	AvatarUrl *string   `json:"avatar_url,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`

	// StoriesCount заполняется только при запросе собственного профиля.
	StoriesCount int64 `json:"stories_count,omitempty"`
}

type UpdateUserProfileRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
}

type UserListResponse struct {
	Users  []*UserProfile `json:"users"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type Controller interface {
	GetMe(w http.ResponseWriter, r *http.Request)
	UpdateMe(w http.ResponseWriter, r *http.Request)
	UploadAvatar(w http.ResponseWriter, r *http.Request)
	ListUsers(w http.ResponseWriter, r *http.Request)
	SetUserActive(w http.ResponseWriter, r *http.Request)
}

type UseCase interface {
	GetUser(userId uint) (*UserProfile, error)
	UpdateUser(userId uint, req *UpdateUserProfileRequest) (*UserProfile, error)
	UploadAvatar(userId uint, file *multipart.File) (*UserProfile, error)
	ListUsers(limit, offset int) (*UserListResponse, error)
	SetUserActive(userId uint, isActive bool) error
}

type Repo interface {
	GetUserById(userId uint) (*UserProfile, error)
	CountUserStories(userId uint) (int64, error)
	UpdateUsername(userId uint, username string) error
	UpdateEmail(userId uint, email string) error
	UpdatePasswordHash(userId uint, passwordHash string) error
	UpdateAvatarUrl(userId uint, avatarUrl *string) error
	ListUsers(limit, offset int) ([]*UserProfile, int64, error)
	SetUserActive(userId uint, isActive bool) error
	UploadAvatar(avatarSmall []byte, avatarLarge []byte, username string, userId uint) (*string, error)
	DeleteAvatar(username string, userId uint) error
}
