package repo

import "redunap/internal/modules/category"

type CategoryDb interface {
	ListCategories() ([]*category.Category, error)
	GetCategoryById(categoryId uint) (*category.Category, error)
	CreateCategory(cat *category.Category) (uint, error)
	UpdateCategory(cat *category.Category) error
	DeactivateCategory(categoryId uint) error
}

type CategoryCache interface {
	GetCachedCategoryList() ([]*category.Category, error)
	SaveCategoryListToCache(categories []*category.Category) error
	InvalidateCategoryListCache() error
}

type Repo struct {
	db CategoryDb
	ch CategoryCache
}

func NewRepo(db CategoryDb, ch CategoryCache) *Repo {
	return &Repo{
		db: db,
		ch: ch,
	}
}

func (r *Repo) ListCategories() ([]*category.Category, error) {
	return r.db.ListCategories()
}

func (r *Repo) GetCategoryById(categoryId uint) (*category.Category, error) {
	return r.db.GetCategoryById(categoryId)
}

func (r *Repo) CreateCategory(cat *category.Category) (uint, error) {
	return r.db.CreateCategory(cat)
}

func (r *Repo) UpdateCategory(cat *category.Category) error {
	return r.db.UpdateCategory(cat)
}

func (r *Repo) DeactivateCategory(categoryId uint) error {
	return r.db.DeactivateCategory(categoryId)
}

func (r *Repo) GetCachedCategoryList() ([]*category.Category, error) {
	return r.ch.GetCachedCategoryList()
}

func (r *Repo) SaveCategoryListToCache(categories []*category.Category) error {
	return r.ch.SaveCategoryListToCache(categories)
}

func (r *Repo) InvalidateCategoryListCache() error {
	return r.ch.InvalidateCategoryListCache()
}
