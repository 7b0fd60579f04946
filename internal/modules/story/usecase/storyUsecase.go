package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"redunap/internal/modules/notification"
	"redunap/internal/modules/story"
	u "redunap/internal/modules/user"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
	excerptLength   = 120
)

// Notifier рассылает WhatsApp-уведомления подписчикам типа.
type Notifier interface {
	SendToSubscribers(ctx context.Context, typeName string, message string, excludeUserID uint) (sent int, failed int)
}

// Broadcaster доставляет событие о публикации подключенным websocket-клиентам.
type Broadcaster interface {
	BroadcastStoryPublished(st *story.StoryResponse)
}

type StoryUseCase struct {
	log         *slog.Logger
	repo        story.Repo
	notifier    Notifier
	broadcaster Broadcaster
}

func NewStoryUseCase(log *slog.Logger, repo story.Repo, notifier Notifier, broadcaster Broadcaster) *StoryUseCase {
	return &StoryUseCase{
		log:         log,
		repo:        repo,
		notifier:    notifier,
		broadcaster: broadcaster,
	}
}

func clampFilter(filter *story.ListFilter) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
}

func (uc *StoryUseCase) ListStories(filter story.ListFilter, viewerId uint) (*story.StoryListResponse, error) {
	clampFilter(&filter)

	// Кэшируем только первую страницу без фильтров для анонимных запросов.
	cacheable := viewerId == 0 && filter.CategoryId == nil && filter.AuthorId == nil &&
		filter.Search == "" && filter.Offset == 0 && filter.Limit == defaultPageSize

	if cacheable {
		cached, err := uc.repo.GetCachedFrontPage()
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, story.ErrCacheMiss) {
			uc.log.Warn("front page cache read failed", slog.Any("err", err))
		}
	}

	stories, total, err := uc.repo.ListStories(filter, viewerId)
	if err != nil {
		return nil, err
	}

	list := &story.StoryListResponse{
		Stories: stories,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}

	if cacheable {
		if err := uc.repo.SaveFrontPageToCache(list); err != nil {
			uc.log.Warn("failed to cache front page", slog.Any("err", err))
		}
	}

	return list, nil
}

func (uc *StoryUseCase) GetStory(storyId uint, viewerId uint) (*story.StoryResponse, error) {
	return uc.repo.GetStoryById(storyId, viewerId)
}

func (uc *StoryUseCase) CreateStory(authorId uint, req *story.CreateStoryRequest) (*story.StoryResponse, error) {
	log := uc.log.With(slog.String("op", "CreateStory"))

	st := &story.Story{
		Title:      req.Title,
		Content:    req.Content,
		ImageUrl:   req.ImageUrl,
		AuthorId:   authorId,
		CategoryId: req.CategoryId,
		IsActive:   true,
	}

	storyId, err := uc.repo.CreateStory(st)
	if err != nil {
		return nil, err
	}

	created, err := uc.repo.GetStoryById(storyId, authorId)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.InvalidateFrontPageCache(); err != nil {
		log.Warn("failed to invalidate front page cache", slog.Any("err", err))
	}

	if uc.broadcaster != nil {
		uc.broadcaster.BroadcastStoryPublished(created)
	}

	if uc.notifier != nil {
		message := fmt.Sprintf(
			"📰 *Nueva historia en RED UNAP*\n\n*%s*\n\n%s\n\nEntra a la plataforma para leerla completa.",
			created.Title, excerpt(created.Content),
		)
		go func() {
			sent, failed := uc.notifier.SendToSubscribers(context.Background(), notification.TypeNewStory, message, authorId)
			log.Info("new story fan-out finished",
				slog.Uint64("story_id", uint64(storyId)),
				slog.Int("sent", sent),
				slog.Int("failed", failed),
			)
		}()
	}

	return created, nil
}

func (uc *StoryUseCase) UpdateStory(storyId uint, actorId uint, actorRole string, req *story.UpdateStoryRequest) (*story.StoryResponse, error) {
	log := uc.log.With(slog.String("op", "UpdateStory"))

	st, err := uc.repo.GetRawStory(storyId)
	if err != nil {
		return nil, err
	}

	if !canModify(st, actorId, actorRole) {
		return nil, story.ErrForbidden
	}

	if req.Title != nil {
		st.Title = *req.Title
	}
	if req.Content != nil {
		st.Content = *req.Content
	}
	if req.ImageUrl != nil {
		st.ImageUrl = req.ImageUrl
	}
	if req.CategoryId != nil {
		st.CategoryId = req.CategoryId
	}

	if err := uc.repo.UpdateStory(st); err != nil {
		return nil, err
	}

	updated, err := uc.repo.GetStoryById(storyId, actorId)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.InvalidateFrontPageCache(); err != nil {
		log.Warn("failed to invalidate front page cache", slog.Any("err", err))
	}

	if uc.notifier != nil {
		message := fmt.Sprintf(
			"✏️ *Historia actualizada en RED UNAP*\n\n*%s*\n\nRevisa los cambios en la plataforma.",
			updated.Title,
		)
		go func() {
			sent, failed := uc.notifier.SendToSubscribers(context.Background(), notification.TypeStoryUpdate, message, actorId)
			log.Info("story update fan-out finished",
				slog.Uint64("story_id", uint64(storyId)),
				slog.Int("sent", sent),
				slog.Int("failed", failed),
			)
		}()
	}

	return updated, nil
}

func (uc *StoryUseCase) DeleteStory(storyId uint, actorId uint, actorRole string) error {
	st, err := uc.repo.GetRawStory(storyId)
	if err != nil {
		return err
	}

	if !canModify(st, actorId, actorRole) {
		return story.ErrForbidden
	}

	if err := uc.repo.DeactivateStory(storyId); err != nil {
		return err
	}

	if err := uc.repo.InvalidateFrontPageCache(); err != nil {
		uc.log.Warn("failed to invalidate front page cache", slog.Any("err", err))
	}

	return nil
}

func canModify(st *story.Story, actorId uint, actorRole string) bool {
	if actorRole == u.RoleAdmin || actorRole == u.RoleModerator {
		return true
	}
	return st.AuthorId == actorId
}

func excerpt(content string) string {
	if utf8.RuneCountInString(content) <= excerptLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:excerptLength]) + "..."
}
