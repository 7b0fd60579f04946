package repo

import "redunap/internal/modules/story"

type StoryDb interface {
	ListStories(filter story.ListFilter, viewerId uint) ([]*story.StoryResponse, int64, error)
	GetStoryById(storyId uint, viewerId uint) (*story.StoryResponse, error)
	GetRawStory(storyId uint) (*story.Story, error)
	CreateStory(st *story.Story) (uint, error)
	UpdateStory(st *story.Story) error
	DeactivateStory(storyId uint) error
}

type StoryCache interface {
	GetCachedFrontPage() (*story.StoryListResponse, error)
	SaveFrontPageToCache(list *story.StoryListResponse) error
	InvalidateFrontPageCache() error
}

type Repo struct {
	db StoryDb
	ch StoryCache
}

func NewRepo(db StoryDb, ch StoryCache) *Repo {
	return &Repo{
		db: db,
		ch: ch,
	}
}

func (r *Repo) ListStories(filter story.ListFilter, viewerId uint) ([]*story.StoryResponse, int64, error) {
	return r.db.ListStories(filter, viewerId)
}

func (r *Repo) GetStoryById(storyId uint, viewerId uint) (*story.StoryResponse, error) {
	return r.db.GetStoryById(storyId, viewerId)
}

func (r *Repo) GetRawStory(storyId uint) (*story.Story, error) {
	return r.db.GetRawStory(storyId)
}

func (r *Repo) CreateStory(st *story.Story) (uint, error) {
	return r.db.CreateStory(st)
}

func (r *Repo) UpdateStory(st *story.Story) error {
	return r.db.UpdateStory(st)
}

func (r *Repo) DeactivateStory(storyId uint) error {
	return r.db.DeactivateStory(storyId)
}

func (r *Repo) GetCachedFrontPage() (*story.StoryListResponse, error) {
	return r.ch.GetCachedFrontPage()
}

func (r *Repo) SaveFrontPageToCache(list *story.StoryListResponse) error {
	return r.ch.SaveFrontPageToCache(list)
}

func (r *Repo) InvalidateFrontPageCache() error {
	return r.ch.InvalidateFrontPageCache()
}
