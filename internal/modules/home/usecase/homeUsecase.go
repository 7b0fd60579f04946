package usecase

import (
	"errors"
	"log/slog"

	"redunap/internal/modules/home"
	u "redunap/internal/modules/user"
	"redunap/pkg/lib/JobService"
)

type HomeUseCase struct {
	log  *slog.Logger
	rp   home.Repo
	jobs home.JobsStatusProvider
}

func NewHomeUseCase(log *slog.Logger, rp home.Repo, jobs home.JobsStatusProvider) *HomeUseCase {
	return &HomeUseCase{
		log:  log,
		rp:   rp,
		jobs: jobs,
	}
}

// GetDashboard отдает общую часть дашборда из кэша, флаги навигации
// вычисляются по роли на каждый запрос.
func (uc *HomeUseCase) GetDashboard(role string) (*home.DashboardResponse, error) {
	data, err := uc.rp.GetCachedDashboard()
	if err != nil {
		if !errors.Is(err, home.ErrCacheMiss) {
			uc.log.Warn("dashboard cache read failed", slog.String("error", err.Error()))
		}
		data, err = uc.rp.GetDashboardData()
		if err != nil {
			return nil, err
		}
		if cacheErr := uc.rp.SaveDashboardToCache(data); cacheErr != nil {
			uc.log.Warn("dashboard cache write failed", slog.String("error", cacheErr.Error()))
		}
	}

	return &home.DashboardResponse{
		Stats:         data.Stats,
		RecentStories: data.RecentStories,
		Navigation:    navigationFor(role),
	}, nil
}

func (uc *HomeUseCase) GetJobsStatus() []JobService.JobStatus {
	return uc.jobs.Status()
}

func navigationFor(role string) home.NavigationFlags {
	switch role {
	case u.RoleAdmin:
		return home.NavigationFlags{CanCreateStory: true, CanModerate: true, CanAdmin: true}
	case u.RoleModerator:
		return home.NavigationFlags{CanCreateStory: true, CanModerate: true}
	case u.RoleUser:
		return home.NavigationFlags{CanCreateStory: true}
	default:
		return home.NavigationFlags{}
	}
}
