package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"karrah/internal/model"
)

// NotificationRepository stores in-app notification records. Existence
// of a (user, type, related) row doubles as the idempotency ledger for
// the periodic sweeps.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ExistsFor reports whether a notification of the given kind was ever
// created for the item. Used as a pre-write check before notifying.
func (r *NotificationRepository) ExistsFor(ctx context.Context, userID uint, noticeType string, relatedID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND type = ? AND related_id = ?", userID, noticeType, relatedID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check notification ledger: %w", err)
	}
	return count > 0, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]model.Notification, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var items []model.Notification
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error; err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}
