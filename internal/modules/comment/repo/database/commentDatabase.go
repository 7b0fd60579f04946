package database

import (
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"redunap/internal/modules/comment"
)

const replyPreviewSize = 3

type CommentDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewCommentDatabase(db *gorm.DB, log *slog.Logger) *CommentDatabase {
	return &CommentDatabase{
		db:  db,
		log: log.With("op", "db"),
	}
}

const commentSelect = `story_comments.comment_id, story_comments.story_id, story_comments.user_id,
	users.username, users.avatar_url AS user_avatar, story_comments.parent_comment_id,
	story_comments.content, story_comments.likes_count, story_comments.dislikes_count,
	story_comments.created_at`

func (db *CommentDatabase) baseQuery(viewerId uint) *gorm.DB {
	return db.db.Table("story_comments").
		Select(commentSelect+", comment_reactions.reaction_type AS user_reaction").
		Joins("JOIN users ON users.user_id = story_comments.user_id").
		Joins("LEFT JOIN comment_reactions ON comment_reactions.comment_id = story_comments.comment_id AND comment_reactions.user_id = ?", viewerId).
		Where("story_comments.is_active = ?", true)
}

func orderFor(sort string) string {
	switch sort {
	case comment.SortOldest:
		return "story_comments.created_at ASC"
	case comment.SortMostLiked:
		return "story_comments.likes_count DESC, story_comments.created_at DESC"
	default:
		return "story_comments.created_at DESC"
	}
}

func (db *CommentDatabase) ListRootComments(storyId uint, sort string, limit, offset int, viewerId uint) ([]*comment.CommentResponse, int64, error) {
	var total int64
	err := db.db.Model(&comment.StoryComment{}).
		Where("story_id = ? AND parent_comment_id IS NULL AND is_active = ?", storyId, true).
		Count(&total).Error
	if err != nil {
		db.log.Error(err.Error())
		return nil, 0, comment.ErrInternal
	}

	var comments []*comment.CommentResponse
	err = db.baseQuery(viewerId).
		Where("story_comments.story_id = ? AND story_comments.parent_comment_id IS NULL", storyId).
		Order(orderFor(sort)).
		Limit(limit).
		Offset(offset).
		Scan(&comments).Error
	if err != nil {
		db.log.Error(err.Error())
		return nil, 0, comment.ErrInternal
	}

	for _, cm := range comments {
		if err := db.attachReplyPreview(cm, viewerId); err != nil {
			return nil, 0, err
		}
	}

	return comments, total, nil
}

// attachReplyPreview добавляет счетчик ответов и до трех последних ответов.
func (db *CommentDatabase) attachReplyPreview(cm *comment.CommentResponse, viewerId uint) error {
	err := db.db.Model(&comment.StoryComment{}).
		Where("parent_comment_id = ? AND is_active = ?", cm.CommentId, true).
		Count(&cm.RepliesCount).Error
	if err != nil {
		db.log.Error(err.Error())
		return comment.ErrInternal
	}

	if cm.RepliesCount == 0 {
		return nil
	}

	err = db.baseQuery(viewerId).
		Where("story_comments.parent_comment_id = ?", cm.CommentId).
		Order("story_comments.created_at DESC").
		Limit(replyPreviewSize).
		Scan(&cm.Replies).Error
	if err != nil {
		db.log.Error(err.Error())
		return comment.ErrInternal
	}

	return nil
}

func (db *CommentDatabase) ListReplies(commentId uint, limit, offset int, viewerId uint) ([]*comment.CommentResponse, int64, error) {
	var total int64
	err := db.db.Model(&comment.StoryComment{}).
		Where("parent_comment_id = ? AND is_active = ?", commentId, true).
		Count(&total).Error
	if err != nil {
		db.log.Error(err.Error())
		return nil, 0, comment.ErrInternal
	}

	var replies []*comment.CommentResponse
	err = db.baseQuery(viewerId).
		Where("story_comments.parent_comment_id = ?", commentId).
		Order("story_comments.created_at ASC").
		Limit(limit).
		Offset(offset).
		Scan(&replies).Error
	if err != nil {
		db.log.Error(err.Error())
		return nil, 0, comment.ErrInternal
	}

	return replies, total, nil
}

func (db *CommentDatabase) GetCommentById(commentId uint, viewerId uint) (*comment.CommentResponse, error) {
	var cm comment.CommentResponse

	err := db.baseQuery(viewerId).
		Where("story_comments.comment_id = ?", commentId).
		Take(&cm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, comment.ErrCommentNotFound
		}
		db.log.Error(err.Error())
		return nil, comment.ErrInternal
	}

	return &cm, nil
}

func (db *CommentDatabase) GetRawComment(commentId uint) (*comment.StoryComment, error) {
	var cm comment.StoryComment

	if err := db.db.Where("comment_id = ? AND is_active = ?", commentId, true).First(&cm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, comment.ErrCommentNotFound
		}
		db.log.Error(err.Error())
		return nil, comment.ErrInternal
	}

	return &cm, nil
}

// CreateComment вставляет комментарий и инкрементирует счетчик истории
// в одной транзакции.
func (db *CommentDatabase) CreateComment(cm *comment.StoryComment) (uint, error) {
	err := db.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cm).Error; err != nil {
			return err
		}
		return tx.Table("stories").
			Where("story_id = ?", cm.StoryId).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err != nil {
		db.log.Error(err.Error())
		return 0, comment.ErrInternal
	}

	return cm.CommentId, nil
}

func (db *CommentDatabase) UpdateCommentContent(commentId uint, content string) error {
	result := db.db.Model(&comment.StoryComment{}).
		Where("comment_id = ? AND is_active = ?", commentId, true).
		Updates(map[string]interface{}{"content": content, "updated_at": time.Now()})
	if result.Error != nil {
		db.log.Error(result.Error.Error())
		return comment.ErrInternal
	}
	if result.RowsAffected == 0 {
		return comment.ErrCommentNotFound
	}
	return nil
}

// DeactivateComment прячет комментарий вместе с ответами и корректирует
// счетчик истории на количество скрытых записей.
func (db *CommentDatabase) DeactivateComment(commentId uint) error {
	err := db.db.Transaction(func(tx *gorm.DB) error {
		var cm comment.StoryComment
		if err := tx.Where("comment_id = ? AND is_active = ?", commentId, true).First(&cm).Error; err != nil {
			return err
		}

		hidden := tx.Model(&comment.StoryComment{}).
			Where("(comment_id = ? OR parent_comment_id = ?) AND is_active = ?", commentId, commentId, true).
			Update("is_active", false)
		if hidden.Error != nil {
			return hidden.Error
		}

		return tx.Table("stories").
			Where("story_id = ?", cm.StoryId).
			UpdateColumn("comments_count", gorm.Expr("GREATEST(comments_count - ?, 0)", hidden.RowsAffected)).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return comment.ErrCommentNotFound
		}
		db.log.Error(err.Error())
		return comment.ErrInternal
	}

	return nil
}

func (db *CommentDatabase) StoryExists(storyId uint) (bool, error) {
	var count int64
	err := db.db.Table("stories").
		Where("story_id = ? AND is_active = ?", storyId, true).
		Count(&count).Error
	if err != nil {
		db.log.Error(err.Error())
		return false, comment.ErrInternal
	}
	return count > 0, nil
}
