package usecase

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redunap/internal/modules/comment"
	u "redunap/internal/modules/user"
)

type fakeRepo struct {
	stories     map[uint]bool
	comments    map[uint]*comment.StoryComment
	created     []*comment.StoryComment
	deactivated []uint
	updated     map[uint]string
	nextId      uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		stories:  map[uint]bool{},
		comments: map[uint]*comment.StoryComment{},
		updated:  map[uint]string{},
		nextId:   100,
	}
}

func (f *fakeRepo) ListRootComments(storyId uint, sort string, limit, offset int, viewerId uint) ([]*comment.CommentResponse, int64, error) {
	return []*comment.CommentResponse{}, 0, nil
}

func (f *fakeRepo) ListReplies(commentId uint, limit, offset int, viewerId uint) ([]*comment.CommentResponse, int64, error) {
	return []*comment.CommentResponse{}, 0, nil
}

func (f *fakeRepo) GetCommentById(commentId uint, viewerId uint) (*comment.CommentResponse, error) {
	cm, ok := f.comments[commentId]
	if !ok {
		return nil, comment.ErrCommentNotFound
	}
	return &comment.CommentResponse{CommentId: cm.CommentId, StoryId: cm.StoryId, UserId: cm.UserId, Content: cm.Content}, nil
}

func (f *fakeRepo) GetRawComment(commentId uint) (*comment.StoryComment, error) {
	cm, ok := f.comments[commentId]
	if !ok {
		return nil, comment.ErrCommentNotFound
	}
	return cm, nil
}

func (f *fakeRepo) CreateComment(cm *comment.StoryComment) (uint, error) {
	f.nextId++
	cm.CommentId = f.nextId
	f.comments[cm.CommentId] = cm
	f.created = append(f.created, cm)
	return cm.CommentId, nil
}

func (f *fakeRepo) UpdateCommentContent(commentId uint, content string) error {
	cm, ok := f.comments[commentId]
	if !ok {
		return comment.ErrCommentNotFound
	}
	cm.Content = content
	f.updated[commentId] = content
	return nil
}

func (f *fakeRepo) DeactivateComment(commentId uint) error {
	f.deactivated = append(f.deactivated, commentId)
	return nil
}

func (f *fakeRepo) StoryExists(storyId uint) (bool, error) {
	return f.stories[storyId], nil
}

func newTestUseCase(rp *fakeRepo) *CommentUseCase {
	return NewCommentUseCase(slog.New(slog.NewTextHandler(io.Discard, nil)), rp)
}

func uintPtr(v uint) *uint { return &v }

func TestCreateComment_StoryMustExist(t *testing.T) {
	rp := newFakeRepo()
	uc := newTestUseCase(rp)

	_, err := uc.CreateComment(42, 1, &comment.CreateCommentRequest{Content: "hola"})

	assert.ErrorIs(t, err, comment.ErrStoryNotFound)
}

func TestCreateComment_ReplyToRootComment(t *testing.T) {
	rp := newFakeRepo()
	rp.stories[1] = true
	rp.comments[10] = &comment.StoryComment{CommentId: 10, StoryId: 1, UserId: 2}
	uc := newTestUseCase(rp)

	cm, err := uc.CreateComment(1, 3, &comment.CreateCommentRequest{
		Content:         "de acuerdo",
		ParentCommentId: uintPtr(10),
	})

	require.NoError(t, err)
	assert.Equal(t, uint(1), cm.StoryId)
	require.Len(t, rp.created, 1)
	assert.Equal(t, uintPtr(10), rp.created[0].ParentCommentId)
}

func TestCreateComment_RejectsNestedReply(t *testing.T) {
	rp := newFakeRepo()
	rp.stories[1] = true
	rp.comments[10] = &comment.StoryComment{CommentId: 10, StoryId: 1}
	rp.comments[11] = &comment.StoryComment{CommentId: 11, StoryId: 1, ParentCommentId: uintPtr(10)}
	uc := newTestUseCase(rp)

	// Ответ на ответ запрещен.
	_, err := uc.CreateComment(1, 3, &comment.CreateCommentRequest{
		Content:         "no",
		ParentCommentId: uintPtr(11),
	})

	assert.ErrorIs(t, err, comment.ErrNestedReply)
	assert.Empty(t, rp.created)
}

func TestCreateComment_ParentMustBelongToStory(t *testing.T) {
	rp := newFakeRepo()
	rp.stories[1] = true
	rp.stories[2] = true
	rp.comments[10] = &comment.StoryComment{CommentId: 10, StoryId: 2}
	uc := newTestUseCase(rp)

	_, err := uc.CreateComment(1, 3, &comment.CreateCommentRequest{
		Content:         "hola",
		ParentCommentId: uintPtr(10),
	})

	assert.ErrorIs(t, err, comment.ErrParentNotFound)
}

func TestUpdateComment_Authorization(t *testing.T) {
	tests := []struct {
		name      string
		actorId   uint
		actorRole string
		wantErr   error
	}{
		{name: "author can edit", actorId: 2, actorRole: u.RoleUser},
		{name: "moderator can edit", actorId: 9, actorRole: u.RoleModerator},
		{name: "admin can edit", actorId: 9, actorRole: u.RoleAdmin},
		{name: "stranger cannot edit", actorId: 9, actorRole: u.RoleUser, wantErr: comment.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rp := newFakeRepo()
			rp.comments[10] = &comment.StoryComment{CommentId: 10, StoryId: 1, UserId: 2, Content: "original"}
			uc := newTestUseCase(rp)

			_, err := uc.UpdateComment(10, tt.actorId, tt.actorRole, &comment.UpdateCommentRequest{Content: "edited"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, rp.updated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "edited", rp.updated[10])
		})
	}
}

func TestDeleteComment_OnlyAuthorOrStaff(t *testing.T) {
	rp := newFakeRepo()
	rp.comments[10] = &comment.StoryComment{CommentId: 10, StoryId: 1, UserId: 2}
	uc := newTestUseCase(rp)

	err := uc.DeleteComment(10, 5, u.RoleUser)
	assert.ErrorIs(t, err, comment.ErrForbidden)

	err = uc.DeleteComment(10, 2, u.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, []uint{10}, rp.deactivated)
}

func TestListComments_ClampsPageSize(t *testing.T) {
	rp := newFakeRepo()
	rp.stories[1] = true
	uc := newTestUseCase(rp)

	list, err := uc.ListComments(1, comment.SortNewest, 500, -3, 0)

	require.NoError(t, err)
	assert.Equal(t, maxPageSize, list.Limit)
	assert.Equal(t, 0, list.Offset)
}
