package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"karrah/internal/model"
)

// FormRepository handles forms and their assignments.
type FormRepository struct {
	db *gorm.DB
}

func NewFormRepository(db *gorm.DB) *FormRepository {
	return &FormRepository{db: db}
}

func (r *FormRepository) CreateForm(ctx context.Context, form *model.Form) error {
	if err := r.db.WithContext(ctx).Create(form).Error; err != nil {
		return fmt.Errorf("create form: %w", err)
	}
	return nil
}

func (r *FormRepository) GetForm(ctx context.Context, id uint) (*model.Form, error) {
	var form model.Form
	if err := r.db.WithContext(ctx).First(&form, id).Error; err != nil {
		return nil, fmt.Errorf("find form %d: %w", id, err)
	}
	return &form, nil
}

func (r *FormRepository) CreateAssignment(ctx context.Context, a *model.FormAssignment) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create form assignment: %w", err)
	}
	return nil
}

// ListPendingDueBefore returns pending assignments whose due time has passed.
func (r *FormRepository) ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]model.FormAssignment, error) {
	var items []model.FormAssignment
	if err := r.db.WithContext(ctx).
		Where("status = ? AND due_at IS NOT NULL AND due_at < ?", model.FormStatusPending, cutoff).
		Order("due_at ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list overdue form assignments: %w", err)
	}
	return items, nil
}

// ListPendingDueBetween returns pending assignments due inside [start, end].
func (r *FormRepository) ListPendingDueBetween(ctx context.Context, start, end time.Time) ([]model.FormAssignment, error) {
	var items []model.FormAssignment
	if err := r.db.WithContext(ctx).
		Where("status = ? AND due_at IS NOT NULL AND due_at >= ? AND due_at <= ?", model.FormStatusPending, start, end).
		Order("due_at ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list upcoming form assignments: %w", err)
	}
	return items, nil
}
