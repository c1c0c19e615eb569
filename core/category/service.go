package category

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/classflow/core"
)

var (
	// errors
	ErrNotFound   = core.NewNotFoundError("category not found")
	ErrNameExists = errors.New("a category with this name already exists")
)

type (
	Repository interface {
		CheckNameUniqueness(ctx context.Context, userID, name string, excluded ...Category) error
		CreateCategory(ctx context.Context, cat Category) (Category, error)
		// QueryCategories returns all of userID's categories sorted by name.
		QueryCategories(ctx context.Context, userID string) ([]Category, error)
		GetCategory(ctx context.Context, id, userID string) (Category, error)
		// GetCategoryRefs resolves the given ids to Refs, skipping dangling ones.
		GetCategoryRefs(ctx context.Context, userID string, ids []string) (map[string]*Ref, error)
		UpdateCategory(ctx context.Context, cat Category) (Category, error)
		DeleteCategory(ctx context.Context, id, userID string) error
	}

	Service interface {
		CheckNameUniqueness(ctx context.Context, userID, name string, excluded ...Category) error
		Create(ctx context.Context, userID string, nc NewCategory) (Category, error)
		QueryAll(ctx context.Context, userID string) ([]Category, error)
		GetByID(ctx context.Context, id, userID string) (Category, error)
		Update(ctx context.Context, orig Category, uc UpdateCategory) (Category, error)
		Delete(ctx context.Context, id, userID string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckNameUniqueness(ctx context.Context, userID, name string, excluded ...Category) error {
	if err := svc.repo.CheckNameUniqueness(ctx, userID, name, excluded...); err != nil {
		if errors.Cause(err) == ErrNameExists {
			return core.NewConflictError("name", err.Error())
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, userID string, nc NewCategory) (Category, error) {
	now := time.Now().UTC()
	cat := Category{
		UserID:    userID,
		Name:      nc.Name,
		Color:     nc.Color,
		Icon:      nc.Icon,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateCategory(ctx, cat)
}

func (svc *service) QueryAll(ctx context.Context, userID string) ([]Category, error) {
	return svc.repo.QueryCategories(ctx, userID)
}

func (svc *service) GetByID(ctx context.Context, id, userID string) (Category, error) {
	return svc.repo.GetCategory(ctx, id, userID)
}

func (svc *service) Update(ctx context.Context, orig Category, uc UpdateCategory) (Category, error) {
	orig.Name = uc.Name
	orig.Color = uc.Color
	orig.Icon = uc.Icon
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCategory(ctx, orig)
}

func (svc *service) Delete(ctx context.Context, id, userID string) error {
	return svc.repo.DeleteCategory(ctx, id, userID)
}
