package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/farmtrack/farmtrack/internal/models"
	apperrors "github.com/farmtrack/farmtrack/pkg/errors"
)

// AnimalService provides ownership-scoped CRUD over the animal registry.
type AnimalService struct {
	db *gorm.DB
}

// NewAnimalService constructs an AnimalService.
func NewAnimalService(db *gorm.DB) (*AnimalService, error) {
	if db == nil {
		return nil, errors.New("animal service: db is required")
	}
	return &AnimalService{db: db}, nil
}

// ListForUser returns all animals owned by the given user.
func (s *AnimalService) ListForUser(ctx context.Context, uid string) ([]models.Animal, error) {
	ctx = ensureContext(ctx)

	var animals []models.Animal
	if err := s.db.WithContext(ctx).
		Where("user_uid = ?", uid).
		Find(&animals).Error; err != nil {
		return nil, fmt.Errorf("animal service: list animals: %w", err)
	}
	return animals, nil
}

// Get loads one animal. An animal that exists but belongs to another user is
// reported as not found, the same as a missing row.
func (s *AnimalService) Get(ctx context.Context, uid, id string) (*models.Animal, error) {
	ctx = ensureContext(ctx)

	var animal models.Animal
	if err := s.db.WithContext(ctx).First(&animal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("animal service: load animal: %w", err)
	}

	if animal.UserUID != uid {
		return nil, apperrors.ErrNotFound
	}

	return &animal, nil
}

// Create persists a new animal for the given owner.
func (s *AnimalService) Create(ctx context.Context, uid string, animal *models.Animal) error {
	ctx = ensureContext(ctx)

	animal.ID = ""
	animal.UserUID = uid

	if err := s.db.WithContext(ctx).Create(animal).Error; err != nil {
		return fmt.Errorf("animal service: create animal: %w", err)
	}
	return nil
}

// Update replaces an existing animal after an ownership check.
func (s *AnimalService) Update(ctx context.Context, uid, id string, animal *models.Animal) error {
	ctx = ensureContext(ctx)

	if _, err := s.Get(ctx, uid, id); err != nil {
		return err
	}

	animal.ID = id
	animal.UserUID = uid

	if err := s.db.WithContext(ctx).Save(animal).Error; err != nil {
		return fmt.Errorf("animal service: update animal: %w", err)
	}
	return nil
}

// UpdateHealthStatus patches only the health status column.
func (s *AnimalService) UpdateHealthStatus(ctx context.Context, uid, id, status string) error {
	return s.patch(ctx, uid, id, map[string]any{"health_status": status})
}

// UpdateWeight patches only the weight column.
func (s *AnimalService) UpdateWeight(ctx context.Context, uid, id string, weight float64) error {
	return s.patch(ctx, uid, id, map[string]any{"weight": weight})
}

// UpdateAge patches the age columns.
func (s *AnimalService) UpdateAge(ctx context.Context, uid, id string, years, months int) error {
	return s.patch(ctx, uid, id, map[string]any{"age_years": years, "age_months": months})
}

// SetImageURL records the hosted image location for an animal.
func (s *AnimalService) SetImageURL(ctx context.Context, uid, id, url string) error {
	return s.patch(ctx, uid, id, map[string]any{"image_url": url})
}

// Delete removes an animal owned by the given user.
func (s *AnimalService) Delete(ctx context.Context, uid, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("id = ? AND user_uid = ?", id, uid).
		Delete(&models.Animal{})
	if result.Error != nil {
		return fmt.Errorf("animal service: delete animal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *AnimalService) patch(ctx context.Context, uid, id string, updates map[string]any) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Model(&models.Animal{}).
		Where("id = ? AND user_uid = ?", id, uid).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("animal service: update animal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
