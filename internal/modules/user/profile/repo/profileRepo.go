package repo

import "redunap/internal/modules/user/profile"

// ProfileDb работает с таблицей users.
type ProfileDb interface {
	GetUserById(userId uint) (*profile.UserProfile, error)
	CountUserStories(userId uint) (int64, error)
	UpdateUsername(userId uint, username string) error
	UpdateEmail(userId uint, email string) error
	UpdatePasswordHash(userId uint, passwordHash string) error
	UpdateAvatarUrl(userId uint, avatarUrl *string) error
	ListUsers(limit, offset int) ([]*profile.UserProfile, int64, error)
	SetUserActive(userId uint, isActive bool) error
}

// ProfileS3 хранит файлы аватаров.
type ProfileS3 interface {
	UploadAvatar(avatarSmall []byte, avatarLarge []byte, username string, userId uint) (*string, error)
	DeleteAvatar(username string, userId uint) error
}

type Repo struct {
	db ProfileDb
	s3 ProfileS3
}

func NewRepo(db ProfileDb, s3 ProfileS3) *Repo {
	return &Repo{
		db: db,
		s3: s3,
	}
}

func (r *Repo) GetUserById(userId uint) (*profile.UserProfile, error) {
	return r.db.GetUserById(userId)
}

func (r *Repo) CountUserStories(userId uint) (int64, error) {
	return r.db.CountUserStories(userId)
}

func (r *Repo) UpdateUsername(userId uint, username string) error {
	return r.db.UpdateUsername(userId, username)
}

func (r *Repo) UpdateEmail(userId uint, email string) error {
	return r.db.UpdateEmail(userId, email)
}

func (r *Repo) UpdatePasswordHash(userId uint, passwordHash string) error {
	return r.db.UpdatePasswordHash(userId, passwordHash)
}

func (r *Repo) UpdateAvatarUrl(userId uint, avatarUrl *string) error {
	return r.db.UpdateAvatarUrl(userId, avatarUrl)
}

func (r *Repo) ListUsers(limit, offset int) ([]*profile.UserProfile, int64, error) {
	return r.db.ListUsers(limit, offset)
}

func (r *Repo) SetUserActive(userId uint, isActive bool) error {
	return r.db.SetUserActive(userId, isActive)
}

func (r *Repo) UploadAvatar(avatarSmall []byte, avatarLarge []byte, username string, userId uint) (*string, error) {
	return r.s3.UploadAvatar(avatarSmall, avatarLarge, username, userId)
}

func (r *Repo) DeleteAvatar(username string, userId uint) error {
	return r.s3.DeleteAvatar(username, userId)
}
