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

// DrugHandler exposes HTTP endpoints for the medicine cabinet.
type DrugHandler struct {
	drugs *services.DrugService
}

// NewDrugHandler constructs a drug handler.
func NewDrugHandler(db *gorm.DB) (*DrugHandler, error) {
	drugs, err := services.NewDrugService(db)
	if err != nil {
		return nil, err
	}
	return &DrugHandler{drugs: drugs}, nil
}

type drugRequest struct {
	Name                string    `json:"name" validate:"required,max=150"`
	Type                string    `json:"type" validate:"max=150"`
	Description         string    `json:"description" validate:"max=2000"`
	Quantity            int       `json:"quantity" validate:"gte=0"`
	Price               float64   `json:"price" validate:"gte=0"`
	Currency            string    `json:"currency" validate:"max=10"`
	ExpirationDate      time.Time `json:"expiration_date"`
	AdministrationRoute string    `json:"administration_route" validate:"max=150"`
	MinimumStockLevel   int       `json:"minimum_stock_level" validate:"gte=0"`
	PurchaseDate        time.Time `json:"purchase_date"`
}

func (r *drugRequest) toModel() models.Drug {
	return models.Drug{
		Name:                strings.TrimSpace(r.Name),
		Type:                strings.TrimSpace(r.Type),
		Description:         strings.TrimSpace(r.Description),
		Quantity:            r.Quantity,
		Price:               r.Price,
		Currency:            strings.TrimSpace(r.Currency),
		ExpirationDate:      r.ExpirationDate,
		AdministrationRoute: strings.TrimSpace(r.AdministrationRoute),
		MinimumStockLevel:   r.MinimumStockLevel,
		PurchaseDate:        r.PurchaseDate,
	}
}

// List returns the user's full inventory.
func (h *DrugHandler) List(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	drugs, err := h.drugs.ListForUser(c.Request.Context(), uid)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, drugs)
}

// Get returns a single inventory item.
func (h *DrugHandler) Get(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	drug, err := h.drugs.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, drug)
}

// Create adds a drug to the inventory.
func (h *DrugHandler) Create(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req drugRequest
	if !bindAndValidate(c, &req) {
		return
	}

	drug := req.toModel()
	if err := h.drugs.Create(c.Request.Context(), uid, &drug); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, drug)
}

// Update replaces a drug's attributes.
func (h *DrugHandler) Update(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req drugRequest
	if !bindAndValidate(c, &req) {
		return
	}

	drug := req.toModel()
	if err := h.drugs.Update(c.Request.Context(), uid, c.Param("id"), &drug); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, drug)
}

type quantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// UpdateQuantity patches only the stock quantity.
func (h *DrugHandler) UpdateQuantity(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req quantityRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.drugs.UpdateQuantity(c.Request.Context(), uid, c.Param("id"), req.Quantity); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

// Delete removes a drug from the inventory.
func (h *DrugHandler) Delete(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	if err := h.drugs.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListLowStock returns drugs at or below their reorder threshold.
func (h *DrugHandler) ListLowStock(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	drugs, err := h.drugs.ListLowStock(c.Request.Context(), uid)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, drugs)
}

// ListExpiring returns unexpired drugs expiring within the "days" query
// window, defaulting to 30.
func (h *DrugHandler) ListExpiring(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	days := parseIntQuery(c, "days", models.NearExpirationWindowDays)
	drugs, err := h.drugs.ListExpiring(c.Request.Context(), uid, days)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, drugs)
}

// ListExpired returns drugs whose expiration date has passed.
func (h *DrugHandler) ListExpired(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	drugs, err := h.drugs.ListExpired(c.Request.Context(), uid)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, drugs)
}
