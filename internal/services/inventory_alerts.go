package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/farmtrack/farmtrack/internal/models"
	"github.com/farmtrack/farmtrack/pkg/logger"
	"github.com/farmtrack/farmtrack/pkg/metrics"
)

// DefaultLowStockRealertWindow is how long an existing low-stock alert
// suppresses a new one for the same drug.
const DefaultLowStockRealertWindow = 7 * 24 * time.Hour

// InventoryAlertConfig customises the alert engine.
type InventoryAlertConfig struct {
	// LowStockRealertWindow overrides the low-stock suppression window.
	LowStockRealertWindow time.Duration
	// Clock overrides the time source, primarily for tests.
	Clock func() time.Time
}

// InventoryAlertService scans a user's drug inventory and emits deduplicated
// near-expiration and low-stock notifications.
//
// The dedup check reads the store immediately before each insert, so a sweep
// can be re-run at any time without piling up duplicates. The check and the
// insert are not one transaction: a concurrent manual trigger racing the
// background sweep can still produce a duplicate. That window is accepted.
type InventoryAlertService struct {
	db             *gorm.DB
	now            func() time.Time
	log            *zap.Logger
	lowStockWindow time.Duration
}

// NewInventoryAlertService constructs the alert engine.
func NewInventoryAlertService(db *gorm.DB, cfg InventoryAlertConfig) (*InventoryAlertService, error) {
	if db == nil {
		return nil, errors.New("inventory alerts: db is required")
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	window := cfg.LowStockRealertWindow
	if window <= 0 {
		window = DefaultLowStockRealertWindow
	}

	return &InventoryAlertService{
		db:             db,
		now:            now,
		log:            logger.WithModule("inventory-alerts"),
		lowStockWindow: window,
	}, nil
}

// CheckUser sweeps one user's inventory. A failure on a single drug or alert
// type is logged and skipped so the rest of the cabinet is still processed;
// only a failure to load the inventory itself is returned.
func (s *InventoryAlertService) CheckUser(ctx context.Context, uid string) error {
	ctx = ensureContext(ctx)

	var drugs []models.Drug
	if err := s.db.WithContext(ctx).
		Where("user_uid = ?", uid).
		Find(&drugs).Error; err != nil {
		return fmt.Errorf("inventory alerts: load inventory for %s: %w", uid, err)
	}

	now := s.now()
	for i := range drugs {
		drug := &drugs[i]

		if drug.IsNearExpiration(now) {
			if err := s.emitExpirationAlert(ctx, drug, now); err != nil {
				s.log.Warn("expiration alert failed",
					zap.String("user_uid", uid),
					zap.String("drug_id", drug.ID),
					zap.Error(err),
				)
			}
		}

		if drug.IsLowStock() {
			if err := s.emitLowStockAlert(ctx, drug, now); err != nil {
				s.log.Warn("low stock alert failed",
					zap.String("user_uid", uid),
					zap.String("drug_id", drug.ID),
					zap.Error(err),
				)
			}
		}
	}

	return nil
}

// emitExpirationAlert creates a near-expiration notification unless one for
// this drug already exists. Expiration alerts have no re-alert window: any
// previous alert for the drug suppresses new ones.
func (s *InventoryAlertService) emitExpirationAlert(ctx context.Context, drug *models.Drug, now time.Time) error {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_uid = ? AND type = ? AND related_item_id = ?",
			drug.UserUID, models.NotificationTypeDrugExpiration, drug.ID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("dedup query: %w", err)
	}
	if count > 0 {
		return nil
	}

	notification := models.Notification{
		Title: "Drug expiring soon",
		Message: fmt.Sprintf("%s expires in %d days (%s).",
			drug.Name, drug.DaysUntilExpiration(now), drug.ExpirationDate.Format("2006-01-02")),
		Type:          models.NotificationTypeDrugExpiration,
		RelatedItemID: drug.ID,
		UserUID:       drug.UserUID,
	}

	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	metrics.AlertsEmitted.WithLabelValues(models.NotificationTypeDrugExpiration).Inc()
	return nil
}

// emitLowStockAlert creates a low-stock notification unless one for this drug
// was already created within the re-alert window.
func (s *InventoryAlertService) emitLowStockAlert(ctx context.Context, drug *models.Drug, now time.Time) error {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_uid = ? AND type = ? AND related_item_id = ? AND created_at > ?",
			drug.UserUID, models.NotificationTypeLowStock, drug.ID, now.Add(-s.lowStockWindow)).
		Count(&count).Error; err != nil {
		return fmt.Errorf("dedup query: %w", err)
	}
	if count > 0 {
		return nil
	}

	notification := models.Notification{
		Title: "Low stock",
		Message: fmt.Sprintf("%s is running low (quantity: %d, minimum: %d).",
			drug.Name, drug.Quantity, drug.MinimumStockLevel),
		Type:          models.NotificationTypeLowStock,
		RelatedItemID: drug.ID,
		UserUID:       drug.UserUID,
	}

	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	metrics.AlertsEmitted.WithLabelValues(models.NotificationTypeLowStock).Inc()
	return nil
}
