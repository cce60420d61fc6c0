package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/farmtrack/farmtrack/internal/models"
)

func TestOpenSQLiteInMemoryAndMigrate(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite"})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	drug := models.Drug{
		Name:              "Penicillin",
		Quantity:          12,
		MinimumStockLevel: 5,
		ExpirationDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		UserUID:           "user-1",
	}
	require.NoError(t, db.Create(&drug).Error)
	require.NotEmpty(t, drug.ID, "BeforeCreate should assign a uuid")

	var loaded models.Drug
	require.NoError(t, db.First(&loaded, "user_uid = ?", "user-1").Error)
	require.Equal(t, "Penicillin", loaded.Name)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
}
