package database

import (
	"log/slog"

	"gorm.io/gorm"

	"redunap/internal/modules/home"
)

const recentStoriesLimit = 5

type HomeDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewHomeDatabase(db *gorm.DB, log *slog.Logger) *HomeDatabase {
	return &HomeDatabase{
		db:  db,
		log: log.With("op", "db"),
	}
}

func (db *HomeDatabase) GetDashboardData() (*home.DashboardData, error) {
	var data home.DashboardData

	err := db.db.Table("stories").Where("is_active = ?", true).Count(&data.Stats.PublishedStories).Error
	if err != nil {
		db.log.Error(err.Error())
		return nil, home.ErrInternal
	}

	err = db.db.Table("users").Where("is_active = ?", true).Count(&data.Stats.ActiveUsers).Error
	if err != nil {
		db.log.Error(err.Error())
		return nil, home.ErrInternal
	}

	err = db.db.Table("stories").
		Select(`stories.story_id, stories.title, stories.created_at,
			users.username AS author_username, categories.name AS category_name`).
		Joins("JOIN users ON users.user_id = stories.author_id").
		Joins("LEFT JOIN categories ON categories.category_id = stories.category_id").
		Where("stories.is_active = ?", true).
		Order("stories.created_at DESC").
		Limit(recentStoriesLimit).
		Scan(&data.RecentStories).Error
	if err != nil {
		db.log.Error(err.Error())
		return nil, home.ErrInternal
	}

	if data.RecentStories == nil {
		data.RecentStories = []home.RecentStory{}
	}

	return &data, nil
}
