package category

import "errors"

var (
	ErrInternal           = errors.New("internal server error")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryNameExists = errors.New("category with this name already exists")
	ErrCacheMiss          = errors.New("cache miss")
)
