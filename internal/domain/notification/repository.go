package notification

import (
	"context"
	"time"

	"gorm.io/gorm"

	"laborhub/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByRecipient(ctx context.Context, recipientID int64, role string, limit, offset int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, recipientID int64, role string) (int64, error)
	MarkAsRead(ctx context.Context, id, recipientID int64, role string) error
	MarkAllAsRead(ctx context.Context, recipientID int64, role string) (int64, error)
	DeleteReadOlderThan(ctx context.Context, before time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) ListByRecipient(ctx context.Context, recipientID int64, role string, limit, offset int) ([]domain.Notification, error) {
	var list []domain.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND recipient_role = ?", recipientID, role).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *repository) CountUnread(ctx context.Context, recipientID int64, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("recipient_id = ? AND recipient_role = ? AND is_read = ?", recipientID, role, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead only touches the recipient's own notification.
func (r *repository) MarkAsRead(ctx context.Context, id, recipientID int64, role string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND recipient_id = ? AND recipient_role = ?", id, recipientID, role).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *repository) MarkAllAsRead(ctx context.Context, recipientID int64, role string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("recipient_id = ? AND recipient_role = ? AND is_read = ?", recipientID, role, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteReadOlderThan(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, before).
		Delete(&domain.Notification{})
	return res.RowsAffected, res.Error
}
