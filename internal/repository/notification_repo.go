package repository

import (
	"backend/internal/model"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRepository defines data access for workflow notifications.
type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []model.Notification) error
	ListForUser(ctx context.Context, username string, limit int) ([]model.Notification, error)
	FindForUser(ctx context.Context, id uuid.UUID, username string) (*model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, username string) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&notifications).Error
}

func (r *notificationRepository) ListForUser(ctx context.Context, username string, limit int) ([]model.Notification, error) {
	var notifications []model.Notification
	err := GetDB(ctx, r.db).
		Where("recipient_username = ?", username).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) FindForUser(ctx context.Context, id uuid.UUID, username string) (*model.Notification, error) {
	var n model.Notification
	if err := GetDB(ctx, r.db).
		First(&n, "id = ? AND recipient_username = ?", id, username).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, username string) error {
	return GetDB(ctx, r.db).Model(&model.Notification{}).
		Where("recipient_username = ? AND is_read = ?", username, false).
		Update("is_read", true).Error
}
