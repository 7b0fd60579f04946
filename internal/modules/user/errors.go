package user

import "errors"

var (
	ErrNotFound                  = errors.New("not found")
	ErrInternal                  = errors.New("internal server error")
	ErrInvalidState              = errors.New("invalid state for oauth")
	ErrNoAccessToken             = errors.New("no access token provided")
	ErrNoRefreshToken            = errors.New("no refresh token provided or found in cookies")
	ErrExpiredToken              = errors.New("token has expired")
	ErrInvalidToken              = errors.New("invalid token")
	ErrUnsupportedProvider       = errors.New("unsupported oauth provider")
	ErrAuthProviderNotConfigured = errors.New("auth provider not configured")
	ErrEmailExists               = errors.New("user with this email already exists")
	ErrUsernameExists            = errors.New("user with this username already exists")
	ErrUserNotFound              = errors.New("user not found")
	ErrUserInactive              = errors.New("user account is deactivated")
	ErrUserAuthWithOauth2        = errors.New("user was registered via OAuth, please sign in with OAuth provider")
	ErrInvalidSizeAvatar         = errors.New("file size exceeds allowed limit")
	ErrInvalidTypeAvatar         = errors.New("invalid avatar file type. Supported: jpg, jpeg, png, webp (non-animated gif)")
	ErrInvalidResolutionAvatar   = errors.New("invalid avatar resolution. Must be 1:1 aspect ratio")
	ErrInvalidAvatarFile         = errors.New("invalid or corrupted avatar file")
	ErrBadRequest                = errors.New("bad request")
	ErrForbidden                 = errors.New("forbidden")
)
