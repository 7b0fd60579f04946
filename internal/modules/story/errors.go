package story

import "errors"

var (
	ErrInternal         = errors.New("internal server error")
	ErrStoryNotFound    = errors.New("story not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrForbidden        = errors.New("you are not allowed to modify this story")
	ErrCacheMiss        = errors.New("cache miss")
)
