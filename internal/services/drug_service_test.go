package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/farmtrack/farmtrack/internal/models"
	apperrors "github.com/farmtrack/farmtrack/pkg/errors"
)

func TestDrugServiceCreateAppliesDefaultThreshold(t *testing.T) {
	db := openServicesDB(t)
	owner := seedUser(t, db, "cabinet@farm.example")

	svc, err := NewDrugService(db)
	require.NoError(t, err)

	drug := models.Drug{Name: "Penicillin", Quantity: 12, ExpirationDate: time.Now().AddDate(1, 0, 0)}
	require.NoError(t, svc.Create(context.Background(), owner.ID, &drug))
	require.Equal(t, models.DefaultMinimumStockLevel, drug.MinimumStockLevel)
	require.Equal(t, owner.ID, drug.UserUID)

	explicit := models.Drug{Name: "Ivermectin", Quantity: 3, MinimumStockLevel: 10}
	require.NoError(t, svc.Create(context.Background(), owner.ID, &explicit))
	require.Equal(t, 10, explicit.MinimumStockLevel)
}

func TestDrugServiceUpdateQuantity(t *testing.T) {
	db := openServicesDB(t)
	owner := seedUser(t, db, "qty@farm.example")

	svc, err := NewDrugService(db)
	require.NoError(t, err)

	drug := models.Drug{Name: "Oxytetracycline", Quantity: 8}
	require.NoError(t, svc.Create(context.Background(), owner.ID, &drug))

	require.NoError(t, svc.UpdateQuantity(context.Background(), owner.ID, drug.ID, 3))

	got, err := svc.Get(context.Background(), owner.ID, drug.ID)
	require.NoError(t, err)
	require.Equal(t, 3, got.Quantity)

	err = svc.UpdateQuantity(context.Background(), owner.ID, drug.ID, -1)
	require.Error(t, err)

	err = svc.UpdateQuantity(context.Background(), owner.ID, "missing-id", 5)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDrugServiceInventoryFilters(t *testing.T) {
	db := openServicesDB(t)
	owner := seedUser(t, db, "filters@farm.example")

	checkTime := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	svc, err := NewDrugService(db)
	require.NoError(t, err)
	svc = svc.WithClock(func() time.Time { return checkTime })

	healthy := models.Drug{Name: "Plenty", Quantity: 50, MinimumStockLevel: 5, ExpirationDate: checkTime.AddDate(1, 0, 0)}
	low := models.Drug{Name: "Scarce", Quantity: 2, MinimumStockLevel: 5, ExpirationDate: checkTime.AddDate(1, 0, 0)}
	expiring := models.Drug{Name: "Soon", Quantity: 40, MinimumStockLevel: 5, ExpirationDate: checkTime.AddDate(0, 0, 10)}
	expired := models.Drug{Name: "Gone", Quantity: 40, MinimumStockLevel: 5, ExpirationDate: checkTime.AddDate(0, 0, -2)}

	for _, d := range []*models.Drug{&healthy, &low, &expiring, &expired} {
		require.NoError(t, svc.Create(context.Background(), owner.ID, d))
	}

	lowStock, err := svc.ListLowStock(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, lowStock, 1)
	require.Equal(t, "Scarce", lowStock[0].Name)

	expSoon, err := svc.ListExpiring(context.Background(), owner.ID, 0)
	require.NoError(t, err)
	require.Len(t, expSoon, 1)
	require.Equal(t, "Soon", expSoon[0].Name)

	expList, err := svc.ListExpired(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, expList, 1)
	require.Equal(t, "Gone", expList[0].Name)

	// A wider window picks up everything not yet expired.
	wide, err := svc.ListExpiring(context.Background(), owner.ID, 400)
	require.NoError(t, err)
	require.Len(t, wide, 3)
}

func TestDrugServiceOwnershipIsolation(t *testing.T) {
	db := openServicesDB(t)
	owner := seedUser(t, db, "mine@farm.example")
	stranger := seedUser(t, db, "theirs@farm.example")

	svc, err := NewDrugService(db)
	require.NoError(t, err)

	drug := models.Drug{Name: "Private", Quantity: 10}
	require.NoError(t, svc.Create(context.Background(), owner.ID, &drug))

	_, err = svc.Get(context.Background(), stranger.ID, drug.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	err = svc.UpdateQuantity(context.Background(), stranger.ID, drug.ID, 1)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	err = svc.Delete(context.Background(), stranger.ID, drug.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
