package user

import (
	"time"

	"redunap/internal/modules/user/auth"
	"redunap/internal/modules/user/profile"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
	RoleGuest     = "guest"
)

type User struct {
	UserId       uint       `gorm:"primaryKey;column:user_id"`
	Username     string     `gorm:"unique;size:50;not null;column:username"`
	Email        string     `gorm:"unique;size:100;not null;column:email"`
	PasswordHash *string    `gorm:"size:255;column:password_hash"`
	Role         string     `gorm:"size:20;default:'user';column:role"`
	AvatarURL    *string    `gorm:"column:avatar_url"`
	VerifiedUser bool       `gorm:"default:false;column:verified_user"`
	IsActive     bool       `gorm:"default:true;column:is_active"`
	LastLogin    *time.Time `gorm:"column:last_login"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

func ToAuthUser(user *User) *auth.UserAuth {
	if user == nil {
		return nil
	}
	return &auth.UserAuth{
		UserId:       user.UserId,
		PasswordHash: user.PasswordHash,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		AvatarUrl:    user.AvatarURL,
		VerifiedUser: user.VerifiedUser,
		IsActive:     user.IsActive,
	}
}

func FromAuthUser(authUser *auth.UserAuth) *User {
	if authUser == nil {
		return nil
	}
	return &User{
		UserId:       authUser.UserId,
		Username:     authUser.Username,
		Email:        authUser.Email,
		PasswordHash: authUser.PasswordHash,
		Role:         authUser.Role,
		AvatarURL:    authUser.AvatarUrl,
		VerifiedUser: authUser.VerifiedUser,
		IsActive:     authUser.IsActive,
	}
}

func ToProfileUser(user *User) *profile.UserProfile {
	if user == nil {
		return nil
	}
	return &profile.UserProfile{
		UserId:    user.UserId,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		AvatarUrl: user.AvatarURL,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}
