package category

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classflow/core"
)

type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

// Ref is the reduced shape attached to Events and TimetableEntries
// referencing this Category.
type Ref struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

func (c Category) Ref() *Ref {
	return &Ref{ID: c.ID, Name: c.Name, Color: c.Color, Icon: c.Icon}
}

// NewCategory contains information needed to create a new Category.
type NewCategory struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

func (nc *NewCategory) Validate(ctx context.Context, userID string, validate *validator.Validate, svc Service) error {
	nc.Name = core.CleanString(nc.Name)
	if err := validate.Struct(nc); err != nil {
		return err
	}
	return svc.CheckNameUniqueness(ctx, userID, nc.Name)
}

// UpdateCategory defines what information may be provided to modify an existing Category.
// Empty fields leave the original values untouched.
type UpdateCategory struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

func (uc *UpdateCategory) Validate(ctx context.Context, orig Category, validate *validator.Validate, svc Service) error {
	name := core.CleanString(uc.Name)
	if name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if uc.Color == "" {
		uc.Color = orig.Color
	}
	if uc.Icon == "" {
		uc.Icon = orig.Icon
	}

	if err := validate.Struct(uc); err != nil {
		return err
	}
	return svc.CheckNameUniqueness(ctx, orig.UserID, uc.Name, orig)
}
