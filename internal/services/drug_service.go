package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/farmtrack/farmtrack/internal/models"
	apperrors "github.com/farmtrack/farmtrack/pkg/errors"
)

// DrugService provides ownership-scoped CRUD over the drug inventory.
type DrugService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDrugService constructs a DrugService.
func NewDrugService(db *gorm.DB) (*DrugService, error) {
	if db == nil {
		return nil, errors.New("drug service: db is required")
	}
	return &DrugService{db: db, now: time.Now}, nil
}

// WithClock overrides the time source, primarily for tests.
func (s *DrugService) WithClock(now func() time.Time) *DrugService {
	if now != nil {
		s.now = now
	}
	return s
}

// ListForUser returns every drug in the user's inventory.
func (s *DrugService) ListForUser(ctx context.Context, uid string) ([]models.Drug, error) {
	ctx = ensureContext(ctx)

	var drugs []models.Drug
	if err := s.db.WithContext(ctx).
		Where("user_uid = ?", uid).
		Find(&drugs).Error; err != nil {
		return nil, fmt.Errorf("drug service: list drugs: %w", err)
	}
	return drugs, nil
}

// Get loads one drug, collapsing foreign-owned rows into not-found.
func (s *DrugService) Get(ctx context.Context, uid, id string) (*models.Drug, error) {
	ctx = ensureContext(ctx)

	var drug models.Drug
	if err := s.db.WithContext(ctx).First(&drug, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("drug service: load drug: %w", err)
	}

	if drug.UserUID != uid {
		return nil, apperrors.ErrNotFound
	}

	return &drug, nil
}

// Create persists a new inventory item for the given owner, applying the
// default reorder threshold when none is supplied.
func (s *DrugService) Create(ctx context.Context, uid string, drug *models.Drug) error {
	ctx = ensureContext(ctx)

	drug.ID = ""
	drug.UserUID = uid
	if drug.MinimumStockLevel <= 0 {
		drug.MinimumStockLevel = models.DefaultMinimumStockLevel
	}

	if err := s.db.WithContext(ctx).Create(drug).Error; err != nil {
		return fmt.Errorf("drug service: create drug: %w", err)
	}
	return nil
}

// Update replaces an existing drug after an ownership check.
func (s *DrugService) Update(ctx context.Context, uid, id string, drug *models.Drug) error {
	ctx = ensureContext(ctx)

	if _, err := s.Get(ctx, uid, id); err != nil {
		return err
	}

	drug.ID = id
	drug.UserUID = uid
	if drug.MinimumStockLevel <= 0 {
		drug.MinimumStockLevel = models.DefaultMinimumStockLevel
	}

	if err := s.db.WithContext(ctx).Save(drug).Error; err != nil {
		return fmt.Errorf("drug service: update drug: %w", err)
	}
	return nil
}

// UpdateQuantity patches only the stock quantity.
func (s *DrugService) UpdateQuantity(ctx context.Context, uid, id string, quantity int) error {
	ctx = ensureContext(ctx)

	if quantity < 0 {
		return apperrors.NewBadRequest("quantity cannot be negative")
	}

	result := s.db.WithContext(ctx).
		Model(&models.Drug{}).
		Where("id = ? AND user_uid = ?", id, uid).
		Update("quantity", quantity)
	if result.Error != nil {
		return fmt.Errorf("drug service: update quantity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes a drug owned by the given user.
func (s *DrugService) Delete(ctx context.Context, uid, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("id = ? AND user_uid = ?", id, uid).
		Delete(&models.Drug{})
	if result.Error != nil {
		return fmt.Errorf("drug service: delete drug: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListLowStock returns the drugs at or below their reorder threshold.
func (s *DrugService) ListLowStock(ctx context.Context, uid string) ([]models.Drug, error) {
	return s.filter(ctx, uid, func(d *models.Drug, _ time.Time) bool {
		return d.IsLowStock()
	})
}

// ListExpiring returns unexpired drugs that expire within the given number of days.
func (s *DrugService) ListExpiring(ctx context.Context, uid string, days int) ([]models.Drug, error) {
	if days <= 0 {
		days = models.NearExpirationWindowDays
	}
	return s.filter(ctx, uid, func(d *models.Drug, now time.Time) bool {
		return !d.IsExpired(now) && d.DaysUntilExpiration(now) <= days
	})
}

// ListExpired returns the drugs whose expiration date has passed.
func (s *DrugService) ListExpired(ctx context.Context, uid string) ([]models.Drug, error) {
	return s.filter(ctx, uid, func(d *models.Drug, now time.Time) bool {
		return d.IsExpired(now)
	})
}

func (s *DrugService) filter(ctx context.Context, uid string, keep func(*models.Drug, time.Time) bool) ([]models.Drug, error) {
	drugs, err := s.ListForUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]models.Drug, 0, len(drugs))
	for i := range drugs {
		if keep(&drugs[i], now) {
			out = append(out, drugs[i])
		}
	}
	return out, nil
}
