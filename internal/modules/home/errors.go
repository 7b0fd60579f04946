package home

import "errors"

var (
	ErrInternal  = errors.New("internal server error")
	ErrCacheMiss = errors.New("dashboard not found in cache")
)
