package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/farmtrack/farmtrack/internal/middleware"
	"github.com/farmtrack/farmtrack/internal/models"
	"github.com/farmtrack/farmtrack/internal/services"
	"github.com/farmtrack/farmtrack/pkg/errors"
	"github.com/farmtrack/farmtrack/pkg/response"
)

// TreatmentHandler exposes HTTP endpoints for medical records.
type TreatmentHandler struct {
	treatments *services.TreatmentService
}

// NewTreatmentHandler constructs a treatment handler.
func NewTreatmentHandler(db *gorm.DB) (*TreatmentHandler, error) {
	treatments, err := services.NewTreatmentService(db)
	if err != nil {
		return nil, err
	}
	return &TreatmentHandler{treatments: treatments}, nil
}

type treatmentRequest struct {
	AnimalID            string     `json:"animal_id" validate:"required"`
	Date                time.Time  `json:"date"`
	EndDate             *time.Time `json:"end_date"`
	Type                string     `json:"type" validate:"max=150"`
	DrugID              string     `json:"drug_id"`
	DrugUsed            string     `json:"drug_used" validate:"max=150"`
	Dosage              float64    `json:"dosage" validate:"gte=0"`
	DosageUnit          string     `json:"dosage_unit" validate:"max=50"`
	AdministrationRoute string     `json:"administration_route" validate:"max=150"`
	Veterinarian        string     `json:"veterinarian" validate:"max=150"`
	VeterinarianContact string     `json:"veterinarian_contact" validate:"max=150"`
	Diagnosis           string     `json:"diagnosis" validate:"max=2000"`
	Notes               string     `json:"notes" validate:"max=5000"`
	Cost                float64    `json:"cost" validate:"gte=0"`
	Currency            string     `json:"currency" validate:"max=10"`
}

func (r *treatmentRequest) toModel() models.Treatment {
	return models.Treatment{
		AnimalID:            strings.TrimSpace(r.AnimalID),
		Date:                r.Date,
		EndDate:             r.EndDate,
		Type:                strings.TrimSpace(r.Type),
		DrugID:              strings.TrimSpace(r.DrugID),
		DrugUsed:            strings.TrimSpace(r.DrugUsed),
		Dosage:              r.Dosage,
		DosageUnit:          strings.TrimSpace(r.DosageUnit),
		AdministrationRoute: strings.TrimSpace(r.AdministrationRoute),
		Veterinarian:        strings.TrimSpace(r.Veterinarian),
		VeterinarianContact: strings.TrimSpace(r.VeterinarianContact),
		Diagnosis:           strings.TrimSpace(r.Diagnosis),
		Notes:               strings.TrimSpace(r.Notes),
		Cost:                r.Cost,
		Currency:            strings.TrimSpace(r.Currency),
	}
}

// List returns every treatment recorded by the current user.
func (h *TreatmentHandler) List(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	treatments, err := h.treatments.ListForUser(c.Request.Context(), uid)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, treatments)
}

// ListByAnimal returns the treatment history of one animal.
func (h *TreatmentHandler) ListByAnimal(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	treatments, err := h.treatments.ListByAnimal(c.Request.Context(), uid, c.Param("animalId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, treatments)
}

// Get returns a single treatment.
func (h *TreatmentHandler) Get(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	treatment, err := h.treatments.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, treatment)
}

// Create records a new treatment.
func (h *TreatmentHandler) Create(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req treatmentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	treatment := req.toModel()
	if err := h.treatments.Create(c.Request.Context(), uid, &treatment); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, treatment)
}

// Update replaces a treatment's attributes.
func (h *TreatmentHandler) Update(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req treatmentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	treatment := req.toModel()
	if err := h.treatments.Update(c.Request.Context(), uid, c.Param("id"), &treatment); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, treatment)
}

// Delete removes a treatment record.
func (h *TreatmentHandler) Delete(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	if err := h.treatments.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

type completeRequest struct {
	Outcome string `json:"outcome" validate:"required,max=500"`
}

// Complete marks the treatment finished with an outcome.
func (h *TreatmentHandler) Complete(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req completeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	treatment, err := h.treatments.Complete(c.Request.Context(), uid, c.Param("id"), strings.TrimSpace(req.Outcome))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, treatment)
}

type followUpRequest struct {
	ScheduledDate time.Time `json:"scheduled_date" validate:"required"`
	Description   string    `json:"description" validate:"max=1000"`
}

// AddFollowUp schedules a follow-up visit for the treatment.
func (h *TreatmentHandler) AddFollowUp(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req followUpRequest
	if !bindAndValidate(c, &req) {
		return
	}

	treatment, err := h.treatments.AddFollowUp(c.Request.Context(), uid, c.Param("id"), req.ScheduledDate, strings.TrimSpace(req.Description))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, treatment)
}

type completeFollowUpRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

// CompleteFollowUp marks the follow-up at the path index as done.
func (h *TreatmentHandler) CompleteFollowUp(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req completeFollowUpRequest
	if !bindAndValidate(c, &req) {
		return
	}

	idx, err := parseIndexParam(c, "index")
	if err != nil {
		response.Error(c, err)
		return
	}

	treatment, err := h.treatments.CompleteFollowUp(c.Request.Context(), uid, c.Param("id"), idx, strings.TrimSpace(req.Notes))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, treatment)
}
