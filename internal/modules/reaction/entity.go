package reaction

import (
	"net/http"
	"time"
)

const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// StoryReaction - GORM модель реакции на историю. Пара (story_id, user_id)
// уникальна: у пользователя не больше одной реакции на историю.
type StoryReaction struct {
	ReactionId   uint      `gorm:"primaryKey;column:reaction_id"`
	StoryId      uint      `gorm:"not null;column:story_id"`
	UserId       uint      `gorm:"not null;column:user_id"`
	ReactionType string    `gorm:"size:10;not null;column:reaction_type"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (StoryReaction) TableName() string {
	return "story_reactions"
}

type CommentReaction struct {
	ReactionId   uint      `gorm:"primaryKey;column:reaction_id"`
	CommentId    uint      `gorm:"not null;column:comment_id"`
	UserId       uint      `gorm:"not null;column:user_id"`
	ReactionType string    `gorm:"size:10;not null;column:reaction_type"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (CommentReaction) TableName() string {
	return "comment_reactions"
}

type ReactRequest struct {
	ReactionType string `json:"reaction_type" validate:"required,oneof=like dislike"`
}

// ReactionResult - итог переключения реакции: актуальные счетчики и реакция
// пользователя (null, если реакция снята).
type ReactionResult struct {
	LikesCount    int     `json:"likes_count"`
	DislikesCount int     `json:"dislikes_count"`
	UserReaction  *string `json:"user_reaction"`
}

type Controller interface {
	ReactToStory(w http.ResponseWriter, r *http.Request)
	ReactToComment(w http.ResponseWriter, r *http.Request)
	GetStoryReactions(w http.ResponseWriter, r *http.Request)
}

type UseCase interface {
	ToggleStoryReaction(storyId uint, userId uint, reactionType string) (*ReactionResult, error)
	ToggleCommentReaction(commentId uint, userId uint, reactionType string) (*ReactionResult, error)
	GetStoryReactions(storyId uint, viewerId uint) (*ReactionResult, error)
}

type Repo interface {
	ToggleStoryReaction(storyId uint, userId uint, reactionType string) (*ReactionResult, error)
	ToggleCommentReaction(commentId uint, userId uint, reactionType string) (*ReactionResult, error)
	GetStoryReactions(storyId uint, viewerId uint) (*ReactionResult, error)
}
