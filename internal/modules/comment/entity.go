package comment

import (
	"net/http"
	"time"
)

// StoryComment - GORM модель комментария к истории.
type StoryComment struct {
	CommentId       uint      `gorm:"primaryKey;column:comment_id"`
	StoryId         uint      `gorm:"not null;column:story_id"`
	UserId          uint      `gorm:"not null;column:user_id"`
	ParentCommentId *uint     `gorm:"column:parent_comment_id"`
	Content         string    `gorm:"not null;column:content"`
	LikesCount      int       `gorm:"default:0;column:likes_count"`
	DislikesCount   int       `gorm:"default:0;column:dislikes_count"`
	IsActive        bool      `gorm:"default:true;column:is_active"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (StoryComment) TableName() string {
	return "story_comments"
}

// CommentResponse - DTO комментария с данными автора. У корневых комментариев
// поле Replies содержит до трех последних ответов как превью.
type CommentResponse struct {
	CommentId       uint               `json:"comment_id"`
	StoryId         uint               `json:"story_id"`
	UserId          uint               `json:"user_id"`
	Username        string             `json:"username"`
	UserAvatar      *string            `json:"user_avatar,omitempty"`
	ParentCommentId *uint              `json:"parent_comment_id,omitempty"`
	Content         string             `json:"content"`
	LikesCount      int                `json:"likes_count"`
	DislikesCount   int                `json:"dislikes_count"`
	RepliesCount    int64              `json:"replies_count"`
	Replies         []*CommentResponse `json:"replies,omitempty"`
	UserReaction    *string            `json:"user_reaction,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

type CreateCommentRequest struct {
	Content         string `json:"content" validate:"required,min=1,max=2000"`
	ParentCommentId *uint  `json:"parent_comment_id,omitempty"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortMostLiked = "most_liked"
)

type CommentListResponse struct {
	Comments []*CommentResponse `json:"comments"`
	Total    int64              `json:"total"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

type Controller interface {
	ListComments(w http.ResponseWriter, r *http.Request)
	ListReplies(w http.ResponseWriter, r *http.Request)
	CreateComment(w http.ResponseWriter, r *http.Request)
	UpdateComment(w http.ResponseWriter, r *http.Request)
	DeleteComment(w http.ResponseWriter, r *http.Request)
}

type UseCase interface {
	ListComments(storyId uint, sort string, limit, offset int, viewerId uint) (*CommentListResponse, error)
	ListReplies(commentId uint, limit, offset int, viewerId uint) (*CommentListResponse, error)
	CreateComment(storyId uint, userId uint, req *CreateCommentRequest) (*CommentResponse, error)
	UpdateComment(commentId uint, actorId uint, actorRole string, req *UpdateCommentRequest) (*CommentResponse, error)
	DeleteComment(commentId uint, actorId uint, actorRole string) error
}

type Repo interface {
	ListRootComments(storyId uint, sort string, limit, offset int, viewerId uint) ([]*CommentResponse, int64, error)
	ListReplies(commentId uint, limit, offset int, viewerId uint) ([]*CommentResponse, int64, error)
	GetCommentById(commentId uint, viewerId uint) (*CommentResponse, error)
	GetRawComment(commentId uint) (*StoryComment, error)
	CreateComment(comment *StoryComment) (uint, error)
	UpdateCommentContent(commentId uint, content string) error
	DeactivateComment(commentId uint) error
	StoryExists(storyId uint) (bool, error)
}
