package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/farmtrack/farmtrack/internal/imagekit"
	"github.com/farmtrack/farmtrack/internal/middleware"
	"github.com/farmtrack/farmtrack/internal/models"
	"github.com/farmtrack/farmtrack/internal/services"
	"github.com/farmtrack/farmtrack/pkg/errors"
	"github.com/farmtrack/farmtrack/pkg/response"
)

// maxImageSize caps animal photo uploads at 5 MiB.
const maxImageSize = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// ImageUploader pushes a file to the image hosting service.
type ImageUploader interface {
	Upload(ctx context.Context, fileName string, content io.Reader) (*imagekit.UploadResult, error)
}

// AnimalHandler exposes HTTP endpoints for the herd registry.
type AnimalHandler struct {
	animals  *services.AnimalService
	uploader ImageUploader
}

// NewAnimalHandler constructs an animal handler. The uploader may be nil, in
// which case image uploads are rejected.
func NewAnimalHandler(db *gorm.DB, uploader ImageUploader) (*AnimalHandler, error) {
	animals, err := services.NewAnimalService(db)
	if err != nil {
		return nil, err
	}
	return &AnimalHandler{animals: animals, uploader: uploader}, nil
}

type animalRequest struct {
	Name         string  `json:"name" validate:"required,max=150"`
	Breed        string  `json:"breed" validate:"max=150"`
	Species      string  `json:"species" validate:"max=150"`
	AgeYears     int     `json:"age_years" validate:"gte=0"`
	AgeMonths    int     `json:"age_months" validate:"gte=0"`
	Weight       float64 `json:"weight" validate:"gte=0"`
	HealthStatus string  `json:"health_status" validate:"max=150"`
}

func (r *animalRequest) toModel() models.Animal {
	return models.Animal{
		Name:         strings.TrimSpace(r.Name),
		Breed:        strings.TrimSpace(r.Breed),
		Species:      strings.TrimSpace(r.Species),
		AgeYears:     r.AgeYears,
		AgeMonths:    r.AgeMonths,
		Weight:       r.Weight,
		HealthStatus: strings.TrimSpace(r.HealthStatus),
	}
}

// List returns every animal owned by the current user.
func (h *AnimalHandler) List(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	animals, err := h.animals.ListForUser(c.Request.Context(), uid)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, animals)
}

// Get returns a single animal.
func (h *AnimalHandler) Get(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	animal, err := h.animals.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, animal)
}

// Create registers a new animal.
func (h *AnimalHandler) Create(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req animalRequest
	if !bindAndValidate(c, &req) {
		return
	}

	animal := req.toModel()
	if err := h.animals.Create(c.Request.Context(), uid, &animal); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, animal)
}

// Update replaces an animal's attributes.
func (h *AnimalHandler) Update(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req animalRequest
	if !bindAndValidate(c, &req) {
		return
	}

	animal := req.toModel()
	if err := h.animals.Update(c.Request.Context(), uid, c.Param("id"), &animal); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, animal)
}

type healthStatusRequest struct {
	HealthStatus string `json:"health_status" validate:"required,max=150"`
}

// UpdateHealthStatus patches only the health status field.
func (h *AnimalHandler) UpdateHealthStatus(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req healthStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.animals.UpdateHealthStatus(c.Request.Context(), uid, c.Param("id"), strings.TrimSpace(req.HealthStatus)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

type weightRequest struct {
	Weight float64 `json:"weight" validate:"gte=0"`
}

// UpdateWeight patches only the weight field.
func (h *AnimalHandler) UpdateWeight(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req weightRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.animals.UpdateWeight(c.Request.Context(), uid, c.Param("id"), req.Weight); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

type ageRequest struct {
	AgeYears  int `json:"age_years" validate:"gte=0"`
	AgeMonths int `json:"age_months" validate:"gte=0,lte=11"`
}

// UpdateAge patches the years/months age split.
func (h *AnimalHandler) UpdateAge(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req ageRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.animals.UpdateAge(c.Request.Context(), uid, c.Param("id"), req.AgeYears, req.AgeMonths); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

// Delete removes an animal from the registry.
func (h *AnimalHandler) Delete(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	if err := h.animals.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// UploadImage accepts a multipart photo, pushes it to the image host, and
// stores the resulting URL on the animal.
func (h *AnimalHandler) UploadImage(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	if h.uploader == nil {
		response.Error(c, errors.New("UPLOADS_DISABLED", "image uploads are not configured", http.StatusServiceUnavailable))
		return
	}

	id := c.Param("id")
	animal, err := h.animals.Get(c.Request.Context(), uid, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.Error(c, errors.NewBadRequest("image file is required"))
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		response.Error(c, errors.NewBadRequest("image exceeds the 5MB limit"))
		return
	}

	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		response.Error(c, errors.NewBadRequest("unsupported image type, use JPEG, PNG, or GIF"))
		return
	}
	if got := filepath.Ext(header.Filename); got != "" {
		ext = got
	}

	fileName := fmt.Sprintf("animal_%s%s", animal.ID, ext)
	result, err := h.uploader.Upload(c.Request.Context(), fileName, io.LimitReader(file, maxImageSize))
	if err != nil {
		response.Error(c, errors.New("UPLOAD_FAILED", "image upload failed", http.StatusBadGateway).WithInternal(err))
		return
	}

	if err := h.animals.SetImageURL(c.Request.Context(), uid, id, result.URL); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"image_url": result.URL})
}
