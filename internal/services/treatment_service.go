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

// TreatmentService provides ownership-scoped CRUD over treatment records.
type TreatmentService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTreatmentService constructs a TreatmentService.
func NewTreatmentService(db *gorm.DB) (*TreatmentService, error) {
	if db == nil {
		return nil, errors.New("treatment service: db is required")
	}
	return &TreatmentService{db: db, now: time.Now}, nil
}

// WithClock overrides the time source, primarily for tests.
func (s *TreatmentService) WithClock(now func() time.Time) *TreatmentService {
	if now != nil {
		s.now = now
	}
	return s
}

// ListForUser returns all treatments recorded by the given user.
func (s *TreatmentService) ListForUser(ctx context.Context, uid string) ([]models.Treatment, error) {
	ctx = ensureContext(ctx)

	var treatments []models.Treatment
	if err := s.db.WithContext(ctx).
		Where("user_uid = ?", uid).
		Find(&treatments).Error; err != nil {
		return nil, fmt.Errorf("treatment service: list treatments: %w", err)
	}
	return treatments, nil
}

// ListByAnimal returns the treatments for one animal, scoped to the owner.
func (s *TreatmentService) ListByAnimal(ctx context.Context, uid, animalID string) ([]models.Treatment, error) {
	ctx = ensureContext(ctx)

	var treatments []models.Treatment
	if err := s.db.WithContext(ctx).
		Where("animal_id = ? AND user_uid = ?", animalID, uid).
		Find(&treatments).Error; err != nil {
		return nil, fmt.Errorf("treatment service: list treatments by animal: %w", err)
	}
	return treatments, nil
}

// Get loads one treatment, collapsing foreign-owned rows into not-found.
func (s *TreatmentService) Get(ctx context.Context, uid, id string) (*models.Treatment, error) {
	ctx = ensureContext(ctx)

	var treatment models.Treatment
	if err := s.db.WithContext(ctx).First(&treatment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("treatment service: load treatment: %w", err)
	}

	if treatment.UserUID != uid {
		return nil, apperrors.ErrNotFound
	}

	return &treatment, nil
}

// Create persists a new treatment for the given owner.
func (s *TreatmentService) Create(ctx context.Context, uid string, treatment *models.Treatment) error {
	ctx = ensureContext(ctx)

	treatment.ID = ""
	treatment.UserUID = uid

	if err := s.db.WithContext(ctx).Create(treatment).Error; err != nil {
		return fmt.Errorf("treatment service: create treatment: %w", err)
	}
	return nil
}

// Update replaces an existing treatment after an ownership check.
func (s *TreatmentService) Update(ctx context.Context, uid, id string, treatment *models.Treatment) error {
	ctx = ensureContext(ctx)

	if _, err := s.Get(ctx, uid, id); err != nil {
		return err
	}

	treatment.ID = id
	treatment.UserUID = uid

	if err := s.db.WithContext(ctx).Save(treatment).Error; err != nil {
		return fmt.Errorf("treatment service: update treatment: %w", err)
	}
	return nil
}

// Delete removes a treatment owned by the given user.
func (s *TreatmentService) Delete(ctx context.Context, uid, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("id = ? AND user_uid = ?", id, uid).
		Delete(&models.Treatment{})
	if result.Error != nil {
		return fmt.Errorf("treatment service: delete treatment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Complete marks the treatment finished with the given outcome.
func (s *TreatmentService) Complete(ctx context.Context, uid, id, outcome string) (*models.Treatment, error) {
	ctx = ensureContext(ctx)

	treatment, err := s.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}

	end := s.now().UTC()
	treatment.Outcome = outcome
	treatment.IsCompleted = true
	treatment.EndDate = &end

	if err := s.db.WithContext(ctx).Save(treatment).Error; err != nil {
		return nil, fmt.Errorf("treatment service: complete treatment: %w", err)
	}
	return treatment, nil
}

// AddFollowUp appends a scheduled follow-up to the treatment.
func (s *TreatmentService) AddFollowUp(ctx context.Context, uid, id string, scheduled time.Time, description string) (*models.Treatment, error) {
	ctx = ensureContext(ctx)

	treatment, err := s.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}

	followUps, err := treatment.DecodeFollowUps()
	if err != nil {
		return nil, fmt.Errorf("treatment service: decode follow-ups: %w", err)
	}

	followUps = append(followUps, models.TreatmentFollowUp{
		ScheduledDate: scheduled,
		Description:   description,
	})

	if err := treatment.EncodeFollowUps(followUps); err != nil {
		return nil, fmt.Errorf("treatment service: encode follow-ups: %w", err)
	}

	if err := s.db.WithContext(ctx).Save(treatment).Error; err != nil {
		return nil, fmt.Errorf("treatment service: add follow-up: %w", err)
	}
	return treatment, nil
}

// CompleteFollowUp marks the follow-up at the given index as done.
func (s *TreatmentService) CompleteFollowUp(ctx context.Context, uid, id string, index int, notes string) (*models.Treatment, error) {
	ctx = ensureContext(ctx)

	treatment, err := s.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}

	followUps, err := treatment.DecodeFollowUps()
	if err != nil {
		return nil, fmt.Errorf("treatment service: decode follow-ups: %w", err)
	}

	if index < 0 || index >= len(followUps) {
		return nil, apperrors.NewBadRequest("follow-up index out of range")
	}

	done := s.now().UTC()
	followUps[index].IsCompleted = true
	followUps[index].CompletionDate = &done
	followUps[index].Notes = notes

	if err := treatment.EncodeFollowUps(followUps); err != nil {
		return nil, fmt.Errorf("treatment service: encode follow-ups: %w", err)
	}

	if err := s.db.WithContext(ctx).Save(treatment).Error; err != nil {
		return nil, fmt.Errorf("treatment service: complete follow-up: %w", err)
	}
	return treatment, nil
}
