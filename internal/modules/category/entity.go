package category

import (
	"net/http"
	"time"
)

// Category - GORM модель и DTO категории новостей.
type Category struct {
	CategoryId  uint      `gorm:"primaryKey;column:category_id" json:"category_id"`
	Name        string    `gorm:"unique;size:50;not null;column:name" json:"name"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	Color       *string   `gorm:"size:7;column:color" json:"color,omitempty"`
	IsActive    bool      `gorm:"default:true;column:is_active" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=50"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type Controller interface {
	ListCategories(w http.ResponseWriter, r *http.Request)
	GetCategory(w http.ResponseWriter, r *http.Request)
	CreateCategory(w http.ResponseWriter, r *http.Request)
	UpdateCategory(w http.ResponseWriter, r *http.Request)
	DeleteCategory(w http.ResponseWriter, r *http.Request)
}

type UseCase interface {
	ListCategories() ([]*Category, error)
	GetCategory(categoryId uint) (*Category, error)
	CreateCategory(req *CreateCategoryRequest) (*Category, error)
	UpdateCategory(categoryId uint, req *UpdateCategoryRequest) (*Category, error)
	DeleteCategory(categoryId uint) error
}

type Repo interface {
	ListCategories() ([]*Category, error)
	GetCategoryById(categoryId uint) (*Category, error)
	CreateCategory(category *Category) (uint, error)
	UpdateCategory(category *Category) error
	DeactivateCategory(categoryId uint) error
	GetCachedCategoryList() ([]*Category, error)
	SaveCategoryListToCache(categories []*Category) error
	InvalidateCategoryListCache() error
}
