package database

import (
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"redunap/internal/modules/category"
)

type CategoryDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewCategoryDatabase(db *gorm.DB, log *slog.Logger) *CategoryDatabase {
	return &CategoryDatabase{
		db:  db,
		log: log.With("op", "db"),
	}
}

func (db *CategoryDatabase) ListCategories() ([]*category.Category, error) {
	var categories []*category.Category

	if err := db.db.Where("is_active = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
		db.log.Error(err.Error())
		return nil, category.ErrInternal
	}

	return categories, nil
}

func (db *CategoryDatabase) GetCategoryById(categoryId uint) (*category.Category, error) {
	var cat category.Category

	if err := db.db.Where("category_id = ?", categoryId).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		db.log.Error(err.Error())
		return nil, category.ErrInternal
	}

	return &cat, nil
}

func (db *CategoryDatabase) CreateCategory(cat *category.Category) (uint, error) {
	if err := db.db.Create(cat).Error; err != nil {
		if strings.Contains(err.Error(), "name") {
			return 0, category.ErrCategoryNameExists
		}
		db.log.Error(err.Error())
		return 0, category.ErrInternal
	}

	return cat.CategoryId, nil
}

func (db *CategoryDatabase) UpdateCategory(cat *category.Category) error {
	result := db.db.Model(&category.Category{}).Where("category_id = ?", cat.CategoryId).Updates(cat)
	if result.Error != nil {
		if strings.Contains(result.Error.Error(), "name") {
			return category.ErrCategoryNameExists
		}
		db.log.Error(result.Error.Error())
		return category.ErrInternal
	}
	if result.RowsAffected == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}

// DeactivateCategory выполняет мягкое удаление. Истории категории не трогаем.
func (db *CategoryDatabase) DeactivateCategory(categoryId uint) error {
	result := db.db.Model(&category.Category{}).Where("category_id = ?", categoryId).Update("is_active", false)
	if result.Error != nil {
		db.log.Error(result.Error.Error())
		return category.ErrInternal
	}
	if result.RowsAffected == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}
