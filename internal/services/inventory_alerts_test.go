package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/farmtrack/farmtrack/internal/models"
)

func newAlertEngine(t *testing.T, db *gorm.DB, now time.Time) *InventoryAlertService {
	t.Helper()

	svc, err := NewInventoryAlertService(db, InventoryAlertConfig{
		Clock: func() time.Time { return now },
	})
	require.NoError(t, err)
	return svc
}

func userNotifications(t *testing.T, db *gorm.DB, uid string) []models.Notification {
	t.Helper()

	var out []models.Notification
	require.NoError(t, db.Where("user_uid = ?", uid).Order("created_at ASC").Find(&out).Error)
	return out
}

func TestCheckUserEmitsBothAlertsForOneDrug(t *testing.T) {
	db := openServicesDB(t)
	owner := seedUser(t, db, "sweep@farm.example")

	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	drug := models.Drug{
		Name:              "Amoxicillin",
		Quantity:          2,
		MinimumStockLevel: 5,
		ExpirationDate:    now.AddDate(0, 0, 10),
		UserUID:           owner.ID,
	}
	require.NoError(t, db.Create(&drug).Error)

	engine := newAlertEngine(t, db, now)
	require.NoError(t, engine.CheckUser(context.Background(), owner.ID))

	notifications := userNotifications(t, db, owner.ID)
	require.Len(t, notifications, 2)

	byType := map[string]models.Notification{}
	for _, n := range notifications {
		byType[n.Type] = n
	}

	exp, ok := byType[models.NotificationTypeDrugExpiration]
	require.True(t, ok)
	require.Equal(t, drug.ID, exp.RelatedItemID)
	require.Contains(t, exp.Message, "Amoxicillin")
	require.Contains(t, exp.Message, "10 days")
	require.False(t, exp.IsRead)

	low, ok := byType[models.NotificationTypeLowStock]
	require.True(t, ok)
	require.Equal(t, drug.ID, low.RelatedItemID)
	require.Contains(t, low.Message, "quantity: 2")
	require.Contains(t, low.Message, "minimum: 5")
}

func TestCheckUserIsIdempotent(t *testing.T) {
	db := openServicesDB(t)
	owner := seedUser(t, db, "idempotent@farm.example")

	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	drug := models.Drug{
		Name:              "Flunixin",
		Quantity:          1,
		MinimumStockLevel: 5,
		ExpirationDate:    now.AddDate(0, 0, 5),
		UserUID:           owner.ID,
	}
	require.NoError(t, db.Create(&drug).Error)

	engine := newAlertEngine(t, db, now)
	require.NoError(t, engine.CheckUser(context.Background(), owner.ID))
	require.NoError(t, engine.CheckUser(context.Background(), owner.ID))
	require.NoError(t, engine.CheckUser(context.Background(), owner.ID))

	require.Len(t, userNotifications(t, db, owner.ID), 2)
}

func TestCheckUserIgnoresHealthyInventory(t *testing.T) {
	db := openServicesDB(t)
	owner := seedUser(t, db, "healthy@farm.example")

	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	drug := models.Drug{
		Name:              "Plentiful",
		Quantity:          100,
		MinimumStockLevel: 5,
		ExpirationDate:    now.AddDate(1, 0, 0),
		UserUID:           owner.ID,
	}
	require.NoError(t, db.Create(&drug).Error)

	engine := newAlertEngine(t, db, now)
	require.NoError(t, engine.CheckUser(context.Background(), owner.ID))

	require.Empty(t, userNotifications(t, db, owner.ID))
}

func TestCheckUserSkipsExpiredDrugs(t *testing.T) {
	db := openServicesDB(t)
	owner := seedUser(t, db, "expired@farm.example")

	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	drug := models.Drug{
		Name:              "Stale",
		Quantity:          100,
		MinimumStockLevel: 5,
		ExpirationDate:    now.AddDate(0, 0, -3),
		UserUID:           owner.ID,
	}
	require.NoError(t, db.Create(&drug).Error)

	engine := newAlertEngine(t, db, now)
	require.NoError(t, engine.CheckUser(context.Background(), owner.ID))

	// Already-expired stock never produces a near-expiration alert.
	require.Empty(t, userNotifications(t, db, owner.ID))
}

func TestLowStockRealertsAfterWindow(t *testing.T) {
	db := openServicesDB(t)
	owner := seedUser(t, db, "window@farm.example")

	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	drug := models.Drug{
		Name:              "Dwindling",
		Quantity:          2,
		MinimumStockLevel: 5,
		ExpirationDate:    now.AddDate(2, 0, 0),
		UserUID:           owner.ID,
	}
	require.NoError(t, db.Create(&drug).Error)

	engine := newAlertEngine(t, db, now)
	require.NoError(t, engine.CheckUser(context.Background(), owner.ID))
	require.Len(t, userNotifications(t, db, owner.ID), 1)

	// Within the window the existing alert suppresses a new one.
	require.NoError(t, engine.CheckUser(context.Background(), owner.ID))
	require.Len(t, userNotifications(t, db, owner.ID), 1)

	// Push the existing alert outside the window and sweep again.
	staleCreatedAt := now.Add(-8 * 24 * time.Hour)
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_uid = ?", owner.ID).
		Update("created_at", staleCreatedAt).Error)

	require.NoError(t, engine.CheckUser(context.Background(), owner.ID))
	require.Len(t, userNotifications(t, db, owner.ID), 2)
}

func TestExpirationAlertNeverRealerts(t *testing.T) {
	db := openServicesDB(t)
	owner := seedUser(t, db, "forever@farm.example")

	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	drug := models.Drug{
		Name:              "Closing",
		Quantity:          50,
		MinimumStockLevel: 5,
		ExpirationDate:    now.AddDate(0, 0, 20),
		UserUID:           owner.ID,
	}
	require.NoError(t, db.Create(&drug).Error)

	engine := newAlertEngine(t, db, now)
	require.NoError(t, engine.CheckUser(context.Background(), owner.ID))
	require.Len(t, userNotifications(t, db, owner.ID), 1)

	// Even a long-stale expiration alert keeps suppressing new ones.
	staleCreatedAt := now.Add(-90 * 24 * time.Hour)
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_uid = ?", owner.ID).
		Update("created_at", staleCreatedAt).Error)

	later := newAlertEngine(t, db, now.AddDate(0, 0, 3))
	require.NoError(t, later.CheckUser(context.Background(), owner.ID))
	require.Len(t, userNotifications(t, db, owner.ID), 1)
}

func TestCheckUserSwallowsEmissionFailures(t *testing.T) {
	db := openServicesDB(t)
	owner := seedUser(t, db, "degraded@farm.example")

	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	drug := models.Drug{
		Name:              "Unstorable",
		Quantity:          1,
		MinimumStockLevel: 5,
		ExpirationDate:    now.AddDate(0, 0, 10),
		UserUID:           owner.ID,
	}
	require.NoError(t, db.Create(&drug).Error)

	// Break alert storage: the dedup query and the insert both fail,
	// but a per-item failure is logged and skipped, not surfaced.
	require.NoError(t, db.Exec("DROP TABLE notifications").Error)

	engine := newAlertEngine(t, db, now)
	require.NoError(t, engine.CheckUser(context.Background(), owner.ID))
}

func TestCheckUserPropagatesInventoryLoadFailure(t *testing.T) {
	db := openServicesDB(t)
	owner := seedUser(t, db, "unreadable@farm.example")

	require.NoError(t, db.Exec("DROP TABLE drugs").Error)

	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	engine := newAlertEngine(t, db, now)
	require.Error(t, engine.CheckUser(context.Background(), owner.ID))
}

func TestCheckUserScopedToOneUser(t *testing.T) {
	db := openServicesDB(t)
	owner := seedUser(t, db, "scoped@farm.example")
	other := seedUser(t, db, "untouched@farm.example")

	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	for _, uid := range []string{owner.ID, other.ID} {
		drug := models.Drug{
			Name:              "Shared name",
			Quantity:          1,
			MinimumStockLevel: 5,
			ExpirationDate:    now.AddDate(1, 0, 0),
			UserUID:           uid,
		}
		require.NoError(t, db.Create(&drug).Error)
	}

	engine := newAlertEngine(t, db, now)
	require.NoError(t, engine.CheckUser(context.Background(), owner.ID))

	require.Len(t, userNotifications(t, db, owner.ID), 1)
	require.Empty(t, userNotifications(t, db, other.ID))
}
