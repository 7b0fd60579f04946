package reaction

import "errors"

var (
	ErrInternal            = errors.New("internal server error")
	ErrStoryNotFound       = errors.New("story not found")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrInvalidReactionType = errors.New("reaction type must be like or dislike")
)
