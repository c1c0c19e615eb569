package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/classflow/core/category"
)

type categoryRepository struct {
	db *categoryTable
}

func NewCategoryRepository(db *DB) category.Repository {
	return &categoryRepository{db: db.category}
}

func (repo *categoryRepository) query(userID string) []category.Category {
	cats := make([]category.Category, 0, len(repo.db.table))
	for _, cat := range repo.db.table {
		if cat.UserID == userID {
			cats = append(cats, *cat)
		}
	}
	return cats
}

func (repo *categoryRepository) CheckNameUniqueness(_ context.Context, userID, name string, excluded ...category.Category) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, cat := range repo.query(userID) {
		if cat.Name == name && !isExcludedCategory(cat, excluded) {
			return category.ErrNameExists
		}
	}
	return nil
}

func (repo *categoryRepository) CreateCategory(_ context.Context, cat category.Category) (category.Category, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.table {
		if existing.UserID == cat.UserID && existing.Name == cat.Name {
			return category.Category{}, category.ErrNameExists
		}
	}

	cat.ID = uuid.NewString()
	repo.db.table[cat.ID] = &cat
	return cat, nil
}

func (repo *categoryRepository) QueryCategories(_ context.Context, userID string) ([]category.Category, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	cats := repo.query(userID)
	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	return cats, nil
}

func (repo *categoryRepository) GetCategory(_ context.Context, id, userID string) (category.Category, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cat, ok := repo.db.table[id]; ok && cat.UserID == userID {
		return *cat, nil
	}
	return category.Category{}, category.ErrNotFound
}

func (repo *categoryRepository) GetCategoryRefs(_ context.Context, userID string, ids []string) (map[string]*category.Ref, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	refs := make(map[string]*category.Ref, len(ids))
	for _, id := range ids {
		if cat, ok := repo.db.table[id]; ok && cat.UserID == userID {
			refs[id] = cat.Ref()
		}
	}
	return refs, nil
}

func (repo *categoryRepository) UpdateCategory(_ context.Context, cat category.Category) (category.Category, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[cat.ID]
	if !ok || orig.UserID != cat.UserID {
		return category.Category{}, category.ErrNotFound
	}
	for _, existing := range repo.db.table {
		if existing.ID != cat.ID && existing.UserID == cat.UserID && existing.Name == cat.Name {
			return category.Category{}, category.ErrNameExists
		}
	}

	repo.db.table[cat.ID] = &cat
	return cat, nil
}

func (repo *categoryRepository) DeleteCategory(_ context.Context, id, userID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if cat, ok := repo.db.table[id]; ok && cat.UserID == userID {
		delete(repo.db.table, id)
		return nil
	}
	return category.ErrNotFound
}

func isExcludedCategory(cat category.Category, excluded []category.Category) bool {
	for _, excl := range excluded {
		if excl.ID == cat.ID {
			return true
		}
	}
	return false
}
