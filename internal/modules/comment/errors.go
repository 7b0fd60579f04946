package comment

import "errors"

var (
	ErrInternal        = errors.New("internal server error")
	ErrCommentNotFound = errors.New("comment not found")
	ErrStoryNotFound   = errors.New("story not found")
	ErrParentNotFound  = errors.New("parent comment not found")
	ErrNestedReply     = errors.New("replies to replies are not allowed")
	ErrForbidden       = errors.New("you are not allowed to delete this comment")
)
