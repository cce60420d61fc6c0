package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/farmtrack/farmtrack/internal/models"
	apperrors "github.com/farmtrack/farmtrack/pkg/errors"
)

// NotificationService manages a user's notification feed. Rows are immutable
// after creation apart from the one-way unread-to-read transition.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(db *gorm.DB) (*NotificationService, error) {
	if db == nil {
		return nil, errors.New("notification service: db is required")
	}
	return &NotificationService{db: db}, nil
}

// ListForUser returns all notifications for the user, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, uid string) ([]models.Notification, error) {
	ctx = ensureContext(ctx)

	var rows []models.Notification
	if err := s.db.WithContext(ctx).
		Where("user_uid = ?", uid).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("notification service: list notifications: %w", err)
	}
	return rows, nil
}

// ListUnread returns the user's unread notifications, newest first.
func (s *NotificationService) ListUnread(ctx context.Context, uid string) ([]models.Notification, error) {
	ctx = ensureContext(ctx)

	var rows []models.Notification
	if err := s.db.WithContext(ctx).
		Where("user_uid = ? AND is_read = ?", uid, false).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("notification service: list unread: %w", err)
	}
	return rows, nil
}

// Get loads one notification. A row owned by a different user is reported as
// not found, exactly like a missing row, so callers cannot probe for existence.
func (s *NotificationService) Get(ctx context.Context, uid, id string) (*models.Notification, error) {
	ctx = ensureContext(ctx)

	var notification models.Notification
	if err := s.db.WithContext(ctx).First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("notification service: load notification: %w", err)
	}

	if notification.UserUID != uid {
		return nil, apperrors.ErrNotFound
	}

	return &notification, nil
}

// Create persists a new notification.
func (s *NotificationService) Create(ctx context.Context, notification *models.Notification) error {
	ctx = ensureContext(ctx)

	if notification.UserUID == "" {
		return errors.New("notification service: owner uid is required")
	}

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("notification service: create notification: %w", err)
	}
	return nil
}

// MarkRead flips a notification to read. Missing or foreign-owned rows are a
// silent no-op, which also makes repeated calls idempotent.
func (s *NotificationService) MarkRead(ctx context.Context, uid, id string) error {
	ctx = ensureContext(ctx)

	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_uid = ?", id, uid).
		Update("is_read", true).Error; err != nil {
		return fmt.Errorf("notification service: mark read: %w", err)
	}
	return nil
}

// MarkAllRead flips every currently-unread notification for the user to read.
// The unread set is snapshotted first and then updated as one batched write;
// rows created in between are deliberately left untouched.
func (s *NotificationService) MarkAllRead(ctx context.Context, uid string) error {
	ctx = ensureContext(ctx)

	var ids []string
	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_uid = ? AND is_read = ?", uid, false).
		Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("notification service: snapshot unread: %w", err)
	}

	if len(ids) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.Notification{}).
			Where("id IN ?", ids).
			Update("is_read", true).Error
	})
	if err != nil {
		return fmt.Errorf("notification service: mark all read: %w", err)
	}
	return nil
}

// Delete removes a notification. Missing or foreign-owned rows are a silent no-op.
func (s *NotificationService) Delete(ctx context.Context, uid, id string) error {
	ctx = ensureContext(ctx)

	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_uid = ?", id, uid).
		Delete(&models.Notification{}).Error; err != nil {
		return fmt.Errorf("notification service: delete notification: %w", err)
	}
	return nil
}
