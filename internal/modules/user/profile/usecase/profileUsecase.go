package usecase

import (
	"log/slog"
	"mime/multipart"

	"golang.org/x/crypto/bcrypt"

	u "redunap/internal/modules/user"
	"redunap/internal/modules/user/profile"
	"redunap/pkg/lib/avatarManager"
)

type ProfileUseCase struct {
	log  *slog.Logger
	repo profile.Repo
}

func NewProfileUseCase(log *slog.Logger, repo profile.Repo) *ProfileUseCase {
	return &ProfileUseCase{
		log:  log,
		repo: repo,
	}
}

func (uc *ProfileUseCase) GetUser(userId uint) (*profile.UserProfile, error) {
	user, err := uc.repo.GetUserById(userId)
	if err != nil {
		return nil, err
	}

	count, err := uc.repo.CountUserStories(userId)
	if err != nil {
		uc.log.Warn("failed to count user stories", slog.Uint64("user_id", uint64(userId)), slog.Any("err", err))
	} else {
		user.StoriesCount = count
	}

	return user, nil
}

func (uc *ProfileUseCase) UpdateUser(userId uint, req *profile.UpdateUserProfileRequest) (*profile.UserProfile, error) {
	if req.Username != nil {
		if err := uc.repo.UpdateUsername(userId, *req.Username); err != nil {
			return nil, err
		}
	}
	if req.Email != nil {
		if err := uc.repo.UpdateEmail(userId, *req.Email); err != nil {
			return nil, err
		}
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, u.ErrInternal
		}
		if err := uc.repo.UpdatePasswordHash(userId, string(hash)); err != nil {
			return nil, err
		}
	}
	return uc.repo.GetUserById(userId)
}

func (uc *ProfileUseCase) UploadAvatar(userId uint, file *multipart.File) (*profile.UserProfile, error) {
	log := uc.log.With(slog.String("op", "UploadAvatar"))

	user, err := uc.repo.GetUserById(userId)
	if err != nil {
		return nil, err
	}

	avatarSmall, avatarLarge, err := avatarManager.ParsingAvatarImage(file)
	if err != nil {
		switch err {
		case avatarManager.ErrInvalidTypeAvatar:
			return nil, u.ErrInvalidTypeAvatar
		case avatarManager.ErrInvalidResolutionAvatar:
			return nil, u.ErrInvalidResolutionAvatar
		default:
			return nil, u.ErrInternal
		}
	}

	avatarUrl, err := uc.repo.UploadAvatar(avatarSmall, avatarLarge, user.Username, userId)
	if err != nil {
		log.Error("failed to upload avatar", slog.Any("err", err))
		return nil, u.ErrInternal
	}

	if err := uc.repo.UpdateAvatarUrl(userId, avatarUrl); err != nil {
		return nil, err
	}

	user.AvatarUrl = avatarUrl
	return user, nil
}

func (uc *ProfileUseCase) ListUsers(limit, offset int) (*profile.UserListResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	users, total, err := uc.repo.ListUsers(limit, offset)
	if err != nil {
		return nil, err
	}

	return &profile.UserListResponse{
		Users:  users,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

func (uc *ProfileUseCase) SetUserActive(userId uint, isActive bool) error {
	return uc.repo.SetUserActive(userId, isActive)
}
