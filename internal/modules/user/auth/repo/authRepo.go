package repo

import "redunap/internal/modules/user/auth"

// AuthCache хранит одноразовые OAuth state коды.
type AuthCache interface {
	SaveStateCode(state string) error
	VerifyStateCode(state string) (isValid bool, err error)
}

// AuthDb работает с таблицей users.
type AuthDb interface {
	CreateUser(user *auth.UserAuth) (userID uint, err error)
	GetUserByEmail(email string) (*auth.UserAuth, error)
	GetUserByUsername(username string) (*auth.UserAuth, error)
	GetUserById(id uint) (*auth.UserAuth, error)
	UpdateLastLogin(userId uint) error
}

// Repo реализует auth.Repo, комбинируя AuthDb и AuthCache.
type Repo struct {
	db AuthDb
	ch AuthCache
}

func NewRepo(db AuthDb, ch AuthCache) *Repo {
	return &Repo{
		db: db,
		ch: ch,
	}
}

func (r *Repo) CreateUser(user *auth.UserAuth) (uint, error) {
	return r.db.CreateUser(user)
}

func (r *Repo) GetUserByEmail(email string) (*auth.UserAuth, error) {
	return r.db.GetUserByEmail(email)
}

func (r *Repo) GetUserByUsername(username string) (*auth.UserAuth, error) {
	return r.db.GetUserByUsername(username)
}

func (r *Repo) GetUserById(id uint) (*auth.UserAuth, error) {
	return r.db.GetUserById(id)
}

func (r *Repo) UpdateLastLogin(userId uint) error {
	return r.db.UpdateLastLogin(userId)
}

func (r *Repo) SaveStateCode(state string) error {
	return r.ch.SaveStateCode(state)
}

func (r *Repo) VerifyStateCode(state string) (bool, error) {
	return r.ch.VerifyStateCode(state)
}
