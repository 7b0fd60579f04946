package usecase

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redunap/internal/modules/home"
	u "redunap/internal/modules/user"
	"redunap/pkg/lib/JobService"
)

type fakeRepo struct {
	cached  *home.DashboardData
	data    *home.DashboardData
	dbCalls int
	saved   *home.DashboardData
}

func (f *fakeRepo) GetDashboardData() (*home.DashboardData, error) {
	f.dbCalls++
	return f.data, nil
}

func (f *fakeRepo) GetCachedDashboard() (*home.DashboardData, error) {
	if f.cached == nil {
		return nil, home.ErrCacheMiss
	}
	return f.cached, nil
}

func (f *fakeRepo) SaveDashboardToCache(data *home.DashboardData) error {
	f.saved = data
	return nil
}

type fakeJobs struct{}

func (fakeJobs) Status() []JobService.JobStatus {
	return []JobService.JobStatus{{Name: JobService.JobDailyDigest}}
}

func newTestUseCase(rp *fakeRepo) *HomeUseCase {
	return NewHomeUseCase(slog.New(slog.NewTextHandler(io.Discard, nil)), rp, fakeJobs{})
}

func TestGetDashboard_CacheMissFallsBackToDb(t *testing.T) {
	rp := &fakeRepo{data: &home.DashboardData{Stats: home.DashboardStats{PublishedStories: 7}}}
	uc := newTestUseCase(rp)

	dash, err := uc.GetDashboard(u.RoleUser)

	require.NoError(t, err)
	assert.Equal(t, int64(7), dash.Stats.PublishedStories)
	assert.Equal(t, 1, rp.dbCalls)
	assert.NotNil(t, rp.saved)
}

func TestGetDashboard_CacheHitSkipsDb(t *testing.T) {
	rp := &fakeRepo{cached: &home.DashboardData{Stats: home.DashboardStats{ActiveUsers: 3}}}
	uc := newTestUseCase(rp)

	dash, err := uc.GetDashboard(u.RoleGuest)

	require.NoError(t, err)
	assert.Equal(t, int64(3), dash.Stats.ActiveUsers)
	assert.Equal(t, 0, rp.dbCalls)
}

func TestGetDashboard_NavigationByRole(t *testing.T) {
	tests := []struct {
		role string
		want home.NavigationFlags
	}{
		{u.RoleAdmin, home.NavigationFlags{CanCreateStory: true, CanModerate: true, CanAdmin: true}},
		{u.RoleModerator, home.NavigationFlags{CanCreateStory: true, CanModerate: true}},
		{u.RoleUser, home.NavigationFlags{CanCreateStory: true}},
		{u.RoleGuest, home.NavigationFlags{}},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			rp := &fakeRepo{data: &home.DashboardData{}}
			uc := newTestUseCase(rp)

			dash, err := uc.GetDashboard(tt.role)
			require.NoError(t, err)
			assert.Equal(t, tt.want, dash.Navigation)
		})
	}
}
