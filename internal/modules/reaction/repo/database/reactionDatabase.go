package database

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"redunap/internal/modules/reaction"
)

type ReactionDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewReactionDatabase(db *gorm.DB, log *slog.Logger) *ReactionDatabase {
	return &ReactionDatabase{
		db:  db,
		log: log.With("op", "db"),
	}
}

func counterColumn(reactionType string) string {
	if reactionType == reaction.ReactionLike {
		return "likes_count"
	}
	return "dislikes_count"
}

// ToggleStoryReaction переключает реакцию пользователя: повторная реакция
// снимается, противоположная заменяется. Счетчики истории корректируются
// в той же транзакции.
func (db *ReactionDatabase) ToggleStoryReaction(storyId uint, userId uint, reactionType string) (*reaction.ReactionResult, error) {
	var result reaction.ReactionResult

	err := db.db.Transaction(func(tx *gorm.DB) error {
		var storyCount int64
		if err := tx.Table("stories").Where("story_id = ? AND is_active = ?", storyId, true).Count(&storyCount).Error; err != nil {
			return err
		}
		if storyCount == 0 {
			return reaction.ErrStoryNotFound
		}

		var existing reaction.StoryReaction
		err := tx.Where("story_id = ? AND user_id = ?", storyId, userId).First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&reaction.StoryReaction{
				StoryId:      storyId,
				UserId:       userId,
				ReactionType: reactionType,
			}).Error; err != nil {
				return err
			}
			if err := incrStoryCounter(tx, storyId, counterColumn(reactionType), 1); err != nil {
				return err
			}
			result.UserReaction = &reactionType

		case err != nil:
			return err

		case existing.ReactionType == reactionType:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if err := incrStoryCounter(tx, storyId, counterColumn(reactionType), -1); err != nil {
				return err
			}
			result.UserReaction = nil

		default:
			if err := tx.Model(&existing).Update("reaction_type", reactionType).Error; err != nil {
				return err
			}
			if err := incrStoryCounter(tx, storyId, counterColumn(existing.ReactionType), -1); err != nil {
				return err
			}
			if err := incrStoryCounter(tx, storyId, counterColumn(reactionType), 1); err != nil {
				return err
			}
			result.UserReaction = &reactionType
		}

		return tx.Table("stories").
			Select("likes_count, dislikes_count").
			Where("story_id = ?", storyId).
			Take(&result).Error
	})
	if err != nil {
		if errors.Is(err, reaction.ErrStoryNotFound) {
			return nil, err
		}
		db.log.Error(err.Error())
		return nil, reaction.ErrInternal
	}

	return &result, nil
}

func (db *ReactionDatabase) ToggleCommentReaction(commentId uint, userId uint, reactionType string) (*reaction.ReactionResult, error) {
	var result reaction.ReactionResult

	err := db.db.Transaction(func(tx *gorm.DB) error {
		var commentCount int64
		if err := tx.Table("story_comments").Where("comment_id = ? AND is_active = ?", commentId, true).Count(&commentCount).Error; err != nil {
			return err
		}
		if commentCount == 0 {
			return reaction.ErrCommentNotFound
		}

		var existing reaction.CommentReaction
		err := tx.Where("comment_id = ? AND user_id = ?", commentId, userId).First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&reaction.CommentReaction{
				CommentId:    commentId,
				UserId:       userId,
				ReactionType: reactionType,
			}).Error; err != nil {
				return err
			}
			if err := incrCommentCounter(tx, commentId, counterColumn(reactionType), 1); err != nil {
				return err
			}
			result.UserReaction = &reactionType

		case err != nil:
			return err

		case existing.ReactionType == reactionType:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if err := incrCommentCounter(tx, commentId, counterColumn(reactionType), -1); err != nil {
				return err
			}
			result.UserReaction = nil

		default:
			if err := tx.Model(&existing).Update("reaction_type", reactionType).Error; err != nil {
				return err
			}
			if err := incrCommentCounter(tx, commentId, counterColumn(existing.ReactionType), -1); err != nil {
				return err
			}
			if err := incrCommentCounter(tx, commentId, counterColumn(reactionType), 1); err != nil {
				return err
			}
			result.UserReaction = &reactionType
		}

		return tx.Table("story_comments").
			Select("likes_count, dislikes_count").
			Where("comment_id = ?", commentId).
			Take(&result).Error
	})
	if err != nil {
		if errors.Is(err, reaction.ErrCommentNotFound) {
			return nil, err
		}
		db.log.Error(err.Error())
		return nil, reaction.ErrInternal
	}

	return &result, nil
}

func (db *ReactionDatabase) GetStoryReactions(storyId uint, viewerId uint) (*reaction.ReactionResult, error) {
	var result reaction.ReactionResult

	err := db.db.Table("stories").
		Select("likes_count, dislikes_count").
		Where("story_id = ? AND is_active = ?", storyId, true).
		Take(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reaction.ErrStoryNotFound
		}
		db.log.Error(err.Error())
		return nil, reaction.ErrInternal
	}

	if viewerId != 0 {
		var existing reaction.StoryReaction
		err := db.db.Where("story_id = ? AND user_id = ?", storyId, viewerId).First(&existing).Error
		switch {
		case err == nil:
			result.UserReaction = &existing.ReactionType
		case !errors.Is(err, gorm.ErrRecordNotFound):
			db.log.Error(err.Error())
			return nil, reaction.ErrInternal
		}
	}

	return &result, nil
}

func incrStoryCounter(tx *gorm.DB, storyId uint, column string, delta int) error {
	return tx.Table("stories").
		Where("story_id = ?", storyId).
		UpdateColumn(column, gorm.Expr("GREATEST("+column+" + ?, 0)", delta)).Error
}

func incrCommentCounter(tx *gorm.DB, commentId uint, column string, delta int) error {
	return tx.Table("story_comments").
		Where("comment_id = ?", commentId).
		UpdateColumn(column, gorm.Expr("GREATEST("+column+" + ?, 0)", delta)).Error
}
