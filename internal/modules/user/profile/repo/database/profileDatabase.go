package database

import (
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"redunap/internal/modules/user"
	"redunap/internal/modules/user/profile"
)

type ProfileDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewProfileDatabase(db *gorm.DB, log *slog.Logger) *ProfileDatabase {
	return &ProfileDatabase{
		db:  db,
		log: log.With("op", "db"),
	}
}

func (db *ProfileDatabase) GetUserById(userId uint) (*profile.UserProfile, error) {
	var userModel user.User

	if err := db.db.Where("user_id = ?", userId).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		db.log.Error(err.Error())
		return nil, user.ErrInternal
	}

	return user.ToProfileUser(&userModel), nil
}

func (db *ProfileDatabase) CountUserStories(userId uint) (int64, error) {
	var count int64
	if err := db.db.Table("stories").Where("author_id = ? AND is_active = ?", userId, true).Count(&count).Error; err != nil {
		db.log.Error(err.Error())
		return 0, user.ErrInternal
	}
	return count, nil
}

func (db *ProfileDatabase) UpdateUsername(userId uint, username string) error {
	result := db.db.Model(&user.User{}).Where("user_id = ?", userId).Update("username", username)
	if result.Error != nil {
		if strings.Contains(result.Error.Error(), "username") {
			return user.ErrUsernameExists
		}
		db.log.Error(result.Error.Error())
		return user.ErrInternal
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (db *ProfileDatabase) UpdateEmail(userId uint, email string) error {
	result := db.db.Model(&user.User{}).Where("user_id = ?", userId).Update("email", email)
	if result.Error != nil {
		if strings.Contains(result.Error.Error(), "email") {
			return user.ErrEmailExists
		}
		db.log.Error(result.Error.Error())
		return user.ErrInternal
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (db *ProfileDatabase) UpdatePasswordHash(userId uint, passwordHash string) error {
	result := db.db.Model(&user.User{}).Where("user_id = ?", userId).Update("password_hash", passwordHash)
	if result.Error != nil {
		db.log.Error(result.Error.Error())
		return user.ErrInternal
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (db *ProfileDatabase) UpdateAvatarUrl(userId uint, avatarUrl *string) error {
	result := db.db.Model(&user.User{}).Where("user_id = ?", userId).Update("avatar_url", avatarUrl)
	if result.Error != nil {
		db.log.Error(result.Error.Error())
		return user.ErrInternal
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (db *ProfileDatabase) ListUsers(limit, offset int) ([]*profile.UserProfile, int64, error) {
	var userModels []user.User
	var total int64

	if err := db.db.Model(&user.User{}).Count(&total).Error; err != nil {
		db.log.Error(err.Error())
		return nil, 0, user.ErrInternal
	}

	if err := db.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&userModels).Error; err != nil {
		db.log.Error(err.Error())
		return nil, 0, user.ErrInternal
	}

	profiles := make([]*profile.UserProfile, 0, len(userModels))
	for i := range userModels {
		profiles = append(profiles, user.ToProfileUser(&userModels[i]))
	}

	return profiles, total, nil
}

func (db *ProfileDatabase) SetUserActive(userId uint, isActive bool) error {
	result := db.db.Model(&user.User{}).Where("user_id = ?", userId).Update("is_active", isActive)
	if result.Error != nil {
		db.log.Error(result.Error.Error())
		return user.ErrInternal
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
