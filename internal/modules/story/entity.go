package story

import (
	"net/http"
	"time"
)

// Story - GORM модель истории (новости кампуса).
type Story struct {
	StoryId       uint      `gorm:"primaryKey;column:story_id"`
	Title         string    `gorm:"size:200;not null;column:title"`
	Content       string    `gorm:"not null;column:content"`
	ImageUrl      *string   `gorm:"column:image_url"`
	AuthorId      uint      `gorm:"not null;column:author_id"`
	CategoryId    *uint     `gorm:"column:category_id"`
	LikesCount    int       `gorm:"default:0;column:likes_count"`
	DislikesCount int       `gorm:"default:0;column:dislikes_count"`
	CommentsCount int       `gorm:"default:0;column:comments_count"`
	IsActive      bool      `gorm:"default:true;column:is_active"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (Story) TableName() string {
	return "stories"
}

// StoryResponse - DTO истории с данными автора и категории.
type StoryResponse struct {
	StoryId        uint      `json:"story_id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	ImageUrl       *string   `json:"image_url,omitempty"`
	AuthorId       uint      `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	AuthorAvatar   *string   `json:"author_avatar,omitempty"`
	CategoryId     *uint     `json:"category_id,omitempty"`
	CategoryName   *string   `json:"category_name,omitempty"`
	CategoryColor  *string   `json:"category_color,omitempty"`
	LikesCount     int       `json:"likes_count"`
	DislikesCount  int       `json:"dislikes_count"`
	CommentsCount  int       `json:"comments_count"`
	UserReaction   *string   `json:"user_reaction,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreateStoryRequest struct {
	Title      string  `json:"title" validate:"required,min=3,max=200"`
	Content    string  `json:"content" validate:"required,min=10"`
	ImageUrl   *string `json:"image_url,omitempty" validate:"omitempty,url"`
	CategoryId *uint   `json:"category_id,omitempty"`
}

type UpdateStoryRequest struct {
	Title      *string `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Content    *string `json:"content,omitempty" validate:"omitempty,min=10"`
	ImageUrl   *string `json:"image_url,omitempty" validate:"omitempty,url"`
	CategoryId *uint   `json:"category_id,omitempty"`
}

// ListFilter описывает параметры выборки ленты.
type ListFilter struct {
	CategoryId *uint
	AuthorId   *uint
	Search     string
	Limit      int
	Offset     int
}

type StoryListResponse struct {
	Stories []*StoryResponse `json:"stories"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

type Controller interface {
	ListStories(w http.ResponseWriter, r *http.Request)
	GetStory(w http.ResponseWriter, r *http.Request)
	CreateStory(w http.ResponseWriter, r *http.Request)
	UpdateStory(w http.ResponseWriter, r *http.Request)
	DeleteStory(w http.ResponseWriter, r *http.Request)
}

type UseCase interface {
	ListStories(filter ListFilter, viewerId uint) (*StoryListResponse, error)
	GetStory(storyId uint, viewerId uint) (*StoryResponse, error)
	CreateStory(authorId uint, req *CreateStoryRequest) (*StoryResponse, error)
	UpdateStory(storyId uint, actorId uint, actorRole string, req *UpdateStoryRequest) (*StoryResponse, error)
	DeleteStory(storyId uint, actorId uint, actorRole string) error
}

type Repo interface {
	ListStories(filter ListFilter, viewerId uint) ([]*StoryResponse, int64, error)
	GetStoryById(storyId uint, viewerId uint) (*StoryResponse, error)
	GetRawStory(storyId uint) (*Story, error)
	CreateStory(story *Story) (uint, error)
	UpdateStory(story *Story) error
	DeactivateStory(storyId uint) error
	GetCachedFrontPage() (*StoryListResponse, error)
	SaveFrontPageToCache(list *StoryListResponse) error
	InvalidateFrontPageCache() error
}
