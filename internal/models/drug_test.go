package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var checkTime = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func TestIsLowStockBoundary(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		minimum  int
		want     bool
	}{
		{"above threshold", 6, 5, false},
		{"at threshold", 5, 5, true},
		{"below threshold", 2, 5, true},
		{"zero stock", 0, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drug := Drug{Quantity: tt.quantity, MinimumStockLevel: tt.minimum}
			require.Equal(t, tt.want, drug.IsLowStock())
		})
	}
}

func TestIsExpiredIsDateOnly(t *testing.T) {
	expiresToday := Drug{ExpirationDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)}
	require.False(t, expiresToday.IsExpired(checkTime), "expiring today is not expired")

	expiredYesterday := Drug{ExpirationDate: time.Date(2024, 3, 14, 23, 59, 0, 0, time.UTC)}
	require.True(t, expiredYesterday.IsExpired(checkTime))

	expiresTomorrow := Drug{ExpirationDate: time.Date(2024, 3, 16, 0, 0, 1, 0, time.UTC)}
	require.False(t, expiresTomorrow.IsExpired(checkTime))
}

func TestDaysUntilExpiration(t *testing.T) {
	tenDaysOut := Drug{ExpirationDate: checkTime.AddDate(0, 0, 10)}
	require.Equal(t, 10, tenDaysOut.DaysUntilExpiration(checkTime))

	expired := Drug{ExpirationDate: checkTime.AddDate(0, 0, -3)}
	require.Equal(t, 0, expired.DaysUntilExpiration(checkTime))

	sameInstant := Drug{ExpirationDate: checkTime}
	require.Equal(t, 0, sameInstant.DaysUntilExpiration(checkTime))
}

func TestIsNearExpirationWindowBoundary(t *testing.T) {
	at30 := Drug{ExpirationDate: checkTime.AddDate(0, 0, 30)}
	require.True(t, at30.IsNearExpiration(checkTime))

	at31 := Drug{ExpirationDate: checkTime.AddDate(0, 0, 31)}
	require.False(t, at31.IsNearExpiration(checkTime))

	expired := Drug{ExpirationDate: checkTime.AddDate(0, 0, -1)}
	require.False(t, expired.IsNearExpiration(checkTime), "expired drugs are not near-expiration")
}

func TestTotalValueRounding(t *testing.T) {
	drug := Drug{Price: 3.333, Quantity: 3}
	require.Equal(t, 10.0, drug.TotalValue())
	require.Equal(t, "3.33 EUR", drug.FormattedPrice())
}
