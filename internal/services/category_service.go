package services

import (
	"context"
	"errors"

	"networth/internal/core"
	"networth/internal/log"
	"networth/internal/storage"
)

// CategoryService manages the category and sub-category reference data entries point at.
type CategoryService struct {
	repo   *storage.SQLiteRepository
	logger *log.Logger
}

func NewCategoryService(repo *storage.SQLiteRepository, logger *log.Logger) *CategoryService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &CategoryService{
		repo:   repo,
		logger: logger.WithComponent(log.ComponentCategories),
	}
}

func (s *CategoryService) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, core.BadRequest(err.Error())
	}
	id, err := s.repo.Queries().InsertCategory(ctx, c)
	if err != nil {
		return core.Category{}, core.StorageFailure("create category", err)
	}
	c.ID = id
	s.logger.InfoContext(ctx, "Category created", log.FieldCategoryID, id, "category", c.Category)
	return c, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, core.BadRequest(err.Error(), c.ID)
	}
	n, err := s.repo.Queries().UpdateCategory(ctx, c)
	if err != nil {
		return core.Category{}, core.StorageFailure("update category", err)
	}
	if n == 0 {
		return core.Category{}, core.NotFound("category does not exist", c.ID)
	}
	return c, nil
}

// DeleteCategory removes a category together with its sub-categories and every value
// recorded against them.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	n, err := s.repo.Queries().DeleteCategory(ctx, id)
	if err != nil {
		return core.StorageFailure("delete category", err)
	}
	if n == 0 {
		return core.NotFound("category does not exist", id)
	}
	s.logger.InfoContext(ctx, "Category deleted", log.FieldCategoryID, id)
	return nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	c, err := s.repo.Queries().GetCategory(ctx, id)
	if errors.Is(err, storage.ErrNoRows) {
		return core.Category{}, core.NotFound("category does not exist", id)
	}
	if err != nil {
		return core.Category{}, core.StorageFailure("get category", err)
	}
	return c, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]core.Category, error) {
	categories, err := s.repo.Queries().ListCategories(ctx)
	if err != nil {
		return nil, core.StorageFailure("list categories", err)
	}
	return categories, nil
}

func (s *CategoryService) CreateSubcategory(ctx context.Context, sub core.Subcategory) (core.Subcategory, error) {
	if err := s.validateSubcategory(ctx, sub); err != nil {
		return core.Subcategory{}, err
	}
	id, err := s.repo.Queries().InsertSubcategory(ctx, sub)
	if err != nil {
		return core.Subcategory{}, core.StorageFailure("create subcategory", err)
	}
	sub.ID = id
	s.logger.InfoContext(ctx, "Subcategory created",
		log.FieldSubcategory, id, log.FieldCategoryID, sub.CategoryID)
	return sub, nil
}

func (s *CategoryService) UpdateSubcategory(ctx context.Context, sub core.Subcategory) (core.Subcategory, error) {
	if err := s.validateSubcategory(ctx, sub); err != nil {
		return core.Subcategory{}, err
	}
	n, err := s.repo.Queries().UpdateSubcategory(ctx, sub)
	if err != nil {
		return core.Subcategory{}, core.StorageFailure("update subcategory", err)
	}
	if n == 0 {
		return core.Subcategory{}, core.NotFound("subcategory does not exist", sub.ID)
	}
	return sub, nil
}

func (s *CategoryService) DeleteSubcategory(ctx context.Context, id int64) error {
	n, err := s.repo.Queries().DeleteSubcategory(ctx, id)
	if err != nil {
		return core.StorageFailure("delete subcategory", err)
	}
	if n == 0 {
		return core.NotFound("subcategory does not exist", id)
	}
	return nil
}

// ListSubcategories lists the sub-categories of one category, or of all when categoryID
// is zero.
func (s *CategoryService) ListSubcategories(ctx context.Context, categoryID int64) ([]core.Subcategory, error) {
	subs, err := s.repo.Queries().ListSubcategories(ctx, categoryID)
	if err != nil {
		return nil, core.StorageFailure("list subcategories", err)
	}
	return subs, nil
}

func (s *CategoryService) validateSubcategory(ctx context.Context, sub core.Subcategory) error {
	if err := sub.Validate(); err != nil {
		return core.BadRequest(err.Error())
	}
	parent, err := s.repo.Queries().GetCategory(ctx, sub.CategoryID)
	if errors.Is(err, storage.ErrNoRows) {
		return ValidateSubcategoryParent(nil, sub)
	}
	if err != nil {
		return core.StorageFailure("load parent category", err)
	}
	return ValidateSubcategoryParent(&parent, sub)
}
