package home

import (
	"net/http"
	"time"

	"redunap/pkg/lib/JobService"
)

// DashboardStats - агрегаты по платформе.
type DashboardStats struct {
	PublishedStories int64 `json:"published_stories"`
	ActiveUsers      int64 `json:"active_users"`
}

// RecentStory - укороченная карточка истории для дашборда.
type RecentStory struct {
	StoryId        uint      `json:"story_id"`
	Title          string    `json:"title"`
	AuthorUsername string    `json:"author_username"`
	CategoryName   *string   `json:"category_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// DashboardData - кэшируемая часть дашборда, общая для всех ролей.
type DashboardData struct {
	Stats         DashboardStats `json:"stats"`
	RecentStories []RecentStory  `json:"recent_stories"`
}

type NavigationFlags struct {
	CanCreateStory bool `json:"can_create_story"`
	CanModerate    bool `json:"can_moderate"`
	CanAdmin       bool `json:"can_admin"`
}

type DashboardResponse struct {
	Stats         DashboardStats  `json:"stats"`
	RecentStories []RecentStory   `json:"recent_stories"`
	Navigation    NavigationFlags `json:"navigation"`
}

// JobsStatusProvider отдает состояние фоновых задач для админского эндпоинта.
type JobsStatusProvider interface {
	Status() []JobService.JobStatus
}

type Controller interface {
	GetDashboard(w http.ResponseWriter, r *http.Request)
	GetGuestDashboard(w http.ResponseWriter, r *http.Request)
	GetJobsStatus(w http.ResponseWriter, r *http.Request)
}

type UseCase interface {
	GetDashboard(role string) (*DashboardResponse, error)
	GetJobsStatus() []JobService.JobStatus
}

type Repo interface {
	GetDashboardData() (*DashboardData, error)
	GetCachedDashboard() (*DashboardData, error)
	SaveDashboardToCache(data *DashboardData) error
}
