package repo

import "redunap/internal/modules/home"

type HomeDb interface {
	GetDashboardData() (*home.DashboardData, error)
}

type HomeCh interface {
	GetCachedDashboard() (*home.DashboardData, error)
	SaveDashboardToCache(data *home.DashboardData) error
}

type Repo struct {
	db HomeDb
	ch HomeCh
}

func NewRepo(db HomeDb, ch HomeCh) *Repo {
	return &Repo{
		db: db,
		ch: ch,
	}
}

func (r *Repo) GetDashboardData() (*home.DashboardData, error) {
	return r.db.GetDashboardData()
}

func (r *Repo) GetCachedDashboard() (*home.DashboardData, error) {
	return r.ch.GetCachedDashboard()
}

func (r *Repo) SaveDashboardToCache(data *home.DashboardData) error {
	return r.ch.SaveDashboardToCache(data)
}
