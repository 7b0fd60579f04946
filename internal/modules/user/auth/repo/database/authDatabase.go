package database

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"redunap/internal/modules/user"
	"redunap/internal/modules/user/auth"
)

type AuthDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewAuthDatabase(db *gorm.DB, log *slog.Logger) *AuthDatabase {
	return &AuthDatabase{
		db:  db,
		log: log.With("op", "db"),
	}
}

func (db *AuthDatabase) CreateUser(authUser *auth.UserAuth) (uint, error) {
	userModel := user.FromAuthUser(authUser)

	if err := db.db.Create(userModel).Error; err != nil {
		// Уникальные индексы users: username и email. Различаем их по
		// тексту ошибки драйвера.
		switch {
		case strings.Contains(err.Error(), "username"):
			return 0, user.ErrUsernameExists
		case strings.Contains(err.Error(), "email"):
			return 0, user.ErrEmailExists
		}
		db.log.Error(err.Error())
		return 0, user.ErrInternal
	}

	return userModel.UserId, nil
}

func (db *AuthDatabase) getUserBy(column string, value interface{}) (*auth.UserAuth, error) {
	var userModel user.User

	if err := db.db.Where(column+" = ?", value).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		db.log.Error(err.Error())
		return nil, user.ErrInternal
	}

	return user.ToAuthUser(&userModel), nil
}

func (db *AuthDatabase) GetUserByEmail(email string) (*auth.UserAuth, error) {
	return db.getUserBy("email", email)
}

func (db *AuthDatabase) GetUserByUsername(username string) (*auth.UserAuth, error) {
	return db.getUserBy("username", username)
}

func (db *AuthDatabase) GetUserById(id uint) (*auth.UserAuth, error) {
	return db.getUserBy("user_id", id)
}

func (db *AuthDatabase) UpdateLastLogin(userId uint) error {
	if err := db.db.Model(&user.User{}).Where("user_id = ?", userId).Update("last_login", time.Now()).Error; err != nil {
		db.log.Error(err.Error())
		return user.ErrInternal
	}
	return nil
}
