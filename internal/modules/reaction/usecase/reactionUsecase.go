package usecase

import (
	"log/slog"

	"redunap/internal/modules/reaction"
)

type ReactionUseCase struct {
	log  *slog.Logger
	repo reaction.Repo
}

func NewReactionUseCase(log *slog.Logger, repo reaction.Repo) *ReactionUseCase {
	return &ReactionUseCase{
		log:  log,
		repo: repo,
	}
}

func (uc *ReactionUseCase) ToggleStoryReaction(storyId uint, userId uint, reactionType string) (*reaction.ReactionResult, error) {
	if reactionType != reaction.ReactionLike && reactionType != reaction.ReactionDislike {
		return nil, reaction.ErrInvalidReactionType
	}
	return uc.repo.ToggleStoryReaction(storyId, userId, reactionType)
}

func (uc *ReactionUseCase) ToggleCommentReaction(commentId uint, userId uint, reactionType string) (*reaction.ReactionResult, error) {
	if reactionType != reaction.ReactionLike && reactionType != reaction.ReactionDislike {
		return nil, reaction.ErrInvalidReactionType
	}
	return uc.repo.ToggleCommentReaction(commentId, userId, reactionType)
}

func (uc *ReactionUseCase) GetStoryReactions(storyId uint, viewerId uint) (*reaction.ReactionResult, error) {
	return uc.repo.GetStoryReactions(storyId, viewerId)
}
