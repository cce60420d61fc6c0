package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/farmtrack/farmtrack/internal/database/testutil"
	"github.com/farmtrack/farmtrack/internal/models"
)

func openServicesDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	svc, err := NewUserService(db)
	require.NoError(t, err)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    email,
		Password: "hunter2!",
		Name:     "Test",
		Surname:  "Farmer",
	})
	require.NoError(t, err)
	return user
}
