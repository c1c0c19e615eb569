package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/classflow/core/category"
)

type categoryRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	Color     string    `db:"color"`
	Icon      string    `db:"icon"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row categoryRow) toCategory() category.Category {
	return category.Category{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      row.Name,
		Color:     row.Color,
		Icon:      row.Icon,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type categoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) category.Repository {
	return &categoryRepository{db: db}
}

func (repo *categoryRepository) CheckNameUniqueness(ctx context.Context, userID, name string, excluded ...category.Category) error {
	q := `SELECT COUNT(*) FROM category WHERE user_id = $1 AND name = $2`
	args := []interface{}{userID, name}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, cat := range excluded {
			ids = append(ids, cat.ID)
		}
		q += ` AND NOT (id = ANY($3))`
		args = append(args, pq.Array(ids))
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, q, args...); err != nil {
		return errors.Wrap(err, "checking category name uniqueness")
	}
	if count > 0 {
		return category.ErrNameExists
	}
	return nil
}

func (repo *categoryRepository) CreateCategory(ctx context.Context, cat category.Category) (category.Category, error) {
	cat.ID = uuid.NewString()
	q := `INSERT INTO category (id, user_id, name, color, icon, created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(ctx, q, cat.ID, cat.UserID, cat.Name, cat.Color, cat.Icon, cat.CreatedAt, cat.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return category.Category{}, category.ErrNameExists
		}
		return category.Category{}, errors.Wrap(err, "creating category")
	}
	return cat, nil
}

func (repo *categoryRepository) QueryCategories(ctx context.Context, userID string) ([]category.Category, error) {
	var rows []categoryRow
	q := `SELECT * FROM category WHERE user_id = $1 ORDER BY name`
	if err := repo.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying categories")
	}

	cats := make([]category.Category, 0, len(rows))
	for _, row := range rows {
		cats = append(cats, row.toCategory())
	}
	return cats, nil
}

func (repo *categoryRepository) GetCategory(ctx context.Context, id, userID string) (category.Category, error) {
	var row categoryRow
	q := `SELECT * FROM category WHERE id = $1 AND user_id = $2`
	if err := repo.db.GetContext(ctx, &row, q, id, userID); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return category.Category{}, category.ErrNotFound
		}
		return category.Category{}, errors.Wrap(err, "getting category")
	}
	return row.toCategory(), nil
}

func (repo *categoryRepository) GetCategoryRefs(ctx context.Context, userID string, ids []string) (map[string]*category.Ref, error) {
	var rows []categoryRow
	q := `SELECT * FROM category WHERE user_id = $1 AND id = ANY($2)`
	if err := repo.db.SelectContext(ctx, &rows, q, userID, pq.Array(ids)); err != nil {
		return nil, errors.Wrap(err, "getting category refs")
	}

	refs := make(map[string]*category.Ref, len(rows))
	for _, row := range rows {
		cat := row.toCategory()
		refs[cat.ID] = cat.Ref()
	}
	return refs, nil
}

func (repo *categoryRepository) UpdateCategory(ctx context.Context, cat category.Category) (category.Category, error) {
	q := `UPDATE category SET name = $3, color = $4, icon = $5, updated_at = $6 WHERE id = $1 AND user_id = $2`
	res, err := repo.db.ExecContext(ctx, q, cat.ID, cat.UserID, cat.Name, cat.Color, cat.Icon, cat.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return category.Category{}, category.ErrNameExists
		}
		return category.Category{}, errors.Wrap(err, "updating category")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return category.Category{}, category.ErrNotFound
	}
	return cat, nil
}

func (repo *categoryRepository) DeleteCategory(ctx context.Context, id, userID string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM category WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return errors.Wrap(err, "deleting category")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return category.ErrNotFound
	}
	return nil
}
