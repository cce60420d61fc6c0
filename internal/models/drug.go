package models

import (
	"fmt"
	"math"
	"time"
)

// DefaultMinimumStockLevel is applied when a drug is created without an
// explicit reorder threshold.
const DefaultMinimumStockLevel = 5

// NearExpirationWindowDays is the number of days before its expiration date
// during which a drug counts as near-expiration.
const NearExpirationWindowDays = 30

// Drug is a single inventory item in a user's medicine cabinet.
type Drug struct {
	BaseModel

	Name                string    `gorm:"not null" json:"name"`
	Type                string    `json:"type"`
	Description         string    `json:"description"`
	Quantity            int       `gorm:"not null;default:0" json:"quantity"`
	Price               float64   `json:"price"`
	Currency            string    `gorm:"default:'EUR'" json:"currency"`
	ExpirationDate      time.Time `gorm:"column:expiration_date" json:"expiration_date"`
	AdministrationRoute string    `gorm:"column:administration_route" json:"administration_route"`
	MinimumStockLevel   int       `gorm:"column:minimum_stock_level;default:5" json:"minimum_stock_level"`
	PurchaseDate        time.Time `gorm:"column:purchase_date" json:"purchase_date"`

	UserUID string `gorm:"column:user_uid;index;not null" json:"user_uid"`
}

// IsLowStock reports whether the quantity has fallen to or below the
// reorder threshold. The boundary itself counts as low.
func (d *Drug) IsLowStock() bool {
	return d.Quantity <= d.MinimumStockLevel
}

// IsExpired reports whether the expiration date is strictly before today.
// The comparison is date-only: a drug expiring today is not yet expired.
func (d *Drug) IsExpired(now time.Time) bool {
	return dateOnly(d.ExpirationDate).Before(dateOnly(now))
}

// DaysUntilExpiration returns the number of whole days left before the
// expiration date, and 0 once the drug is expired or expires today.
func (d *Drug) DaysUntilExpiration(now time.Time) int {
	if !d.ExpirationDate.After(now) {
		return 0
	}
	return int(d.ExpirationDate.Sub(now).Hours() / 24)
}

// IsNearExpiration reports whether the drug is still usable but expires
// within the near-expiration window.
func (d *Drug) IsNearExpiration(now time.Time) bool {
	return !d.IsExpired(now) && d.DaysUntilExpiration(now) <= NearExpirationWindowDays
}

// TotalValue is the stock quantity priced at the unit price, rounded to cents.
func (d *Drug) TotalValue() float64 {
	return math.Round(d.Price*float64(d.Quantity)*100) / 100
}

// FormattedPrice renders the unit price with its currency.
func (d *Drug) FormattedPrice() string {
	return fmt.Sprintf("%.2f %s", d.Price, d.currency())
}

// FormattedTotalValue renders the total stock value with its currency.
func (d *Drug) FormattedTotalValue() string {
	return fmt.Sprintf("%.2f %s", d.TotalValue(), d.currency())
}

func (d *Drug) currency() string {
	if d.Currency == "" {
		return "EUR"
	}
	return d.Currency
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
