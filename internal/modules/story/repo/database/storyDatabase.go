package database

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"redunap/internal/modules/story"
)

type StoryDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewStoryDatabase(db *gorm.DB, log *slog.Logger) *StoryDatabase {
	return &StoryDatabase{
		db:  db,
		log: log.With("op", "db"),
	}
}

const storySelect = `stories.story_id, stories.title, stories.content, stories.image_url,
	stories.author_id, users.username AS author_username, users.avatar_url AS author_avatar,
	stories.category_id, categories.name AS category_name, categories.color AS category_color,
	stories.likes_count, stories.dislikes_count, stories.comments_count,
	stories.created_at, stories.updated_at`

func (db *StoryDatabase) baseQuery(viewerId uint) *gorm.DB {
	query := db.db.Table("stories").
		Select(storySelect+", story_reactions.reaction_type AS user_reaction").
		Joins("JOIN users ON users.user_id = stories.author_id").
		Joins("LEFT JOIN categories ON categories.category_id = stories.category_id").
		Joins("LEFT JOIN story_reactions ON story_reactions.story_id = stories.story_id AND story_reactions.user_id = ?", viewerId).
		Where("stories.is_active = ?", true)
	return query
}

func (db *StoryDatabase) ListStories(filter story.ListFilter, viewerId uint) ([]*story.StoryResponse, int64, error) {
	countQuery := db.db.Table("stories").Where("stories.is_active = ?", true)
	query := db.baseQuery(viewerId)

	if filter.CategoryId != nil {
		query = query.Where("stories.category_id = ?", *filter.CategoryId)
		countQuery = countQuery.Where("stories.category_id = ?", *filter.CategoryId)
	}
	if filter.AuthorId != nil {
		query = query.Where("stories.author_id = ?", *filter.AuthorId)
		countQuery = countQuery.Where("stories.author_id = ?", *filter.AuthorId)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("stories.title ILIKE ? OR stories.content ILIKE ?", pattern, pattern)
		countQuery = countQuery.Where("stories.title ILIKE ? OR stories.content ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		db.log.Error(err.Error())
		return nil, 0, story.ErrInternal
	}

	var stories []*story.StoryResponse
	err := query.Order("stories.created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Scan(&stories).Error
	if err != nil {
		db.log.Error(err.Error())
		return nil, 0, story.ErrInternal
	}

	return stories, total, nil
}

func (db *StoryDatabase) GetStoryById(storyId uint, viewerId uint) (*story.StoryResponse, error) {
	var st story.StoryResponse

	err := db.baseQuery(viewerId).
		Where("stories.story_id = ?", storyId).
		Take(&st).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, story.ErrStoryNotFound
		}
		db.log.Error(err.Error())
		return nil, story.ErrInternal
	}

	return &st, nil
}

func (db *StoryDatabase) GetRawStory(storyId uint) (*story.Story, error) {
	var st story.Story

	if err := db.db.Where("story_id = ? AND is_active = ?", storyId, true).First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, story.ErrStoryNotFound
		}
		db.log.Error(err.Error())
		return nil, story.ErrInternal
	}

	return &st, nil
}

func (db *StoryDatabase) CreateStory(st *story.Story) (uint, error) {
	if err := db.db.Create(st).Error; err != nil {
		db.log.Error(err.Error())
		return 0, story.ErrInternal
	}
	return st.StoryId, nil
}

func (db *StoryDatabase) UpdateStory(st *story.Story) error {
	result := db.db.Model(&story.Story{}).
		Where("story_id = ?", st.StoryId).
		Updates(map[string]interface{}{
			"title":       st.Title,
			"content":     st.Content,
			"image_url":   st.ImageUrl,
			"category_id": st.CategoryId,
		})
	if result.Error != nil {
		db.log.Error(result.Error.Error())
		return story.ErrInternal
	}
	if result.RowsAffected == 0 {
		return story.ErrStoryNotFound
	}
	return nil
}

func (db *StoryDatabase) DeactivateStory(storyId uint) error {
	result := db.db.Model(&story.Story{}).Where("story_id = ?", storyId).Update("is_active", false)
	if result.Error != nil {
		db.log.Error(result.Error.Error())
		return story.ErrInternal
	}
	if result.RowsAffected == 0 {
		return story.ErrStoryNotFound
	}
	return nil
}
