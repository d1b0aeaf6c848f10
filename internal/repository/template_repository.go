package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"karrah/internal/model"
)

// TemplateRepository handles CRUD for recurring task templates.
type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(ctx context.Context, tpl *model.TaskTemplate) error {
	if err := r.db.WithContext(ctx).Create(tpl).Error; err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

func (r *TemplateRepository) FindByID(ctx context.Context, id uint) (*model.TaskTemplate, error) {
	var tpl model.TaskTemplate
	if err := r.db.WithContext(ctx).First(&tpl, id).Error; err != nil {
		return nil, fmt.Errorf("find template %d: %w", id, err)
	}
	return &tpl, nil
}

func (r *TemplateRepository) ListByTeam(ctx context.Context, teamID uint) ([]model.TaskTemplate, error) {
	var tpls []model.TaskTemplate
	if err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("created_at DESC").
		Find(&tpls).Error; err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return tpls, nil
}

func (r *TemplateRepository) ListActiveByTeam(ctx context.Context, teamID uint) ([]model.TaskTemplate, error) {
	var tpls []model.TaskTemplate
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND is_active = ?", teamID, true).
		Order("id ASC").
		Find(&tpls).Error; err != nil {
		return nil, fmt.Errorf("list active templates: %w", err)
	}
	return tpls, nil
}

// AdvanceLastSpawned moves the spawn anchor forward. Only the spawner
// calls this, immediately after creating the task for an occurrence.
func (r *TemplateRepository) AdvanceLastSpawned(ctx context.Context, id uint, t time.Time) error {
	if err := r.db.WithContext(ctx).Model(&model.TaskTemplate{}).
		Where("id = ?", id).
		Update("last_spawned_at", t).Error; err != nil {
		return fmt.Errorf("advance last_spawned_at: %w", err)
	}
	return nil
}

func (r *TemplateRepository) SetActive(ctx context.Context, id uint, active bool) error {
	if err := r.db.WithContext(ctx).Model(&model.TaskTemplate{}).
		Where("id = ?", id).
		Update("is_active", active).Error; err != nil {
		return fmt.Errorf("toggle template: %w", err)
	}
	return nil
}

// Delete removes a template. Tasks spawned from it keep their weak
// back-reference and are never touched.
func (r *TemplateRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.TaskTemplate{}, id).Error; err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}
