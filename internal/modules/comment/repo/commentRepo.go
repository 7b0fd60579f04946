package repo

import "redunap/internal/modules/comment"

type CommentDb interface {
	ListRootComments(storyId uint, sort string, limit, offset int, viewerId uint) ([]*comment.CommentResponse, int64, error)
	ListReplies(commentId uint, limit, offset int, viewerId uint) ([]*comment.CommentResponse, int64, error)
	GetCommentById(commentId uint, viewerId uint) (*comment.CommentResponse, error)
	GetRawComment(commentId uint) (*comment.StoryComment, error)
	CreateComment(cm *comment.StoryComment) (uint, error)
	UpdateCommentContent(commentId uint, content string) error
	DeactivateComment(commentId uint) error
	StoryExists(storyId uint) (bool, error)
}

type Repo struct {
	db CommentDb
}

func NewRepo(db CommentDb) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) ListRootComments(storyId uint, sort string, limit, offset int, viewerId uint) ([]*comment.CommentResponse, int64, error) {
	return r.db.ListRootComments(storyId, sort, limit, offset, viewerId)
}

func (r *Repo) ListReplies(commentId uint, limit, offset int, viewerId uint) ([]*comment.CommentResponse, int64, error) {
	return r.db.ListReplies(commentId, limit, offset, viewerId)
}

func (r *Repo) GetCommentById(commentId uint, viewerId uint) (*comment.CommentResponse, error) {
	return r.db.GetCommentById(commentId, viewerId)
}

func (r *Repo) GetRawComment(commentId uint) (*comment.StoryComment, error) {
	return r.db.GetRawComment(commentId)
}

func (r *Repo) CreateComment(cm *comment.StoryComment) (uint, error) {
	return r.db.CreateComment(cm)
}

func (r *Repo) UpdateCommentContent(commentId uint, content string) error {
	return r.db.UpdateCommentContent(commentId, content)
}

func (r *Repo) DeactivateComment(commentId uint) error {
	return r.db.DeactivateComment(commentId)
}

func (r *Repo) StoryExists(storyId uint) (bool, error) {
	return r.db.StoryExists(storyId)
}
