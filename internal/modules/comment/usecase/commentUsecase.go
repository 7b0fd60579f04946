package usecase

import (
	"log/slog"

	"redunap/internal/modules/comment"
	u "redunap/internal/modules/user"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

type CommentUseCase struct {
	log  *slog.Logger
	repo comment.Repo
}

func NewCommentUseCase(log *slog.Logger, repo comment.Repo) *CommentUseCase {
	return &CommentUseCase{
		log:  log,
		repo: repo,
	}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (uc *CommentUseCase) ListComments(storyId uint, sort string, limit, offset int, viewerId uint) (*comment.CommentListResponse, error) {
	limit, offset = clampPage(limit, offset)

	exists, err := uc.repo.StoryExists(storyId)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, comment.ErrStoryNotFound
	}

	comments, total, err := uc.repo.ListRootComments(storyId, sort, limit, offset, viewerId)
	if err != nil {
		return nil, err
	}

	return &comment.CommentListResponse{
		Comments: comments,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

func (uc *CommentUseCase) ListReplies(commentId uint, limit, offset int, viewerId uint) (*comment.CommentListResponse, error) {
	limit, offset = clampPage(limit, offset)

	if _, err := uc.repo.GetRawComment(commentId); err != nil {
		return nil, err
	}

	replies, total, err := uc.repo.ListReplies(commentId, limit, offset, viewerId)
	if err != nil {
		return nil, err
	}

	return &comment.CommentListResponse{
		Comments: replies,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

func (uc *CommentUseCase) CreateComment(storyId uint, userId uint, req *comment.CreateCommentRequest) (*comment.CommentResponse, error) {
	exists, err := uc.repo.StoryExists(storyId)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, comment.ErrStoryNotFound
	}

	if req.ParentCommentId != nil {
		parent, err := uc.repo.GetRawComment(*req.ParentCommentId)
		if err != nil {
			return nil, comment.ErrParentNotFound
		}
		if parent.StoryId != storyId {
			return nil, comment.ErrParentNotFound
		}
		// Только один уровень вложенности.
		if parent.ParentCommentId != nil {
			return nil, comment.ErrNestedReply
		}
	}

	cm := &comment.StoryComment{
		StoryId:         storyId,
		UserId:          userId,
		ParentCommentId: req.ParentCommentId,
		Content:         req.Content,
		IsActive:        true,
	}

	commentId, err := uc.repo.CreateComment(cm)
	if err != nil {
		return nil, err
	}

	return uc.repo.GetCommentById(commentId, userId)
}

func (uc *CommentUseCase) UpdateComment(commentId uint, actorId uint, actorRole string, req *comment.UpdateCommentRequest) (*comment.CommentResponse, error) {
	cm, err := uc.repo.GetRawComment(commentId)
	if err != nil {
		return nil, err
	}

	if cm.UserId != actorId && actorRole != u.RoleAdmin && actorRole != u.RoleModerator {
		return nil, comment.ErrForbidden
	}

	if err := uc.repo.UpdateCommentContent(commentId, req.Content); err != nil {
		return nil, err
	}

	return uc.repo.GetCommentById(commentId, actorId)
}

func (uc *CommentUseCase) DeleteComment(commentId uint, actorId uint, actorRole string) error {
	cm, err := uc.repo.GetRawComment(commentId)
	if err != nil {
		return err
	}

	if cm.UserId != actorId && actorRole != u.RoleAdmin && actorRole != u.RoleModerator {
		return comment.ErrForbidden
	}

	return uc.repo.DeactivateComment(commentId)
}
