package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/patrickacs/stocklio/internal/errors"
	"github.com/patrickacs/stocklio/internal/services"
)

// AssetHandler handles portfolio-position CRUD requests
type AssetHandler struct {
	assetService services.AssetServicer
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(assetService services.AssetServicer) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// AddAssetRequest represents the add-position request payload
type AddAssetRequest struct {
	Ticker       string     `json:"ticker" binding:"required,ticker"`
	Shares       float64    `json:"shares" binding:"required,gt=0"`
	AvgCost      float64    `json:"avg_cost" binding:"required,gt=0"`
	PurchaseDate *time.Time `json:"purchase_date"`
	Notes        string     `json:"notes" binding:"max=500"`
}

// UpdateAssetRequest represents the update-position request payload.
// All fields are optional; absent fields are left untouched.
type UpdateAssetRequest struct {
	Shares  *float64 `json:"shares" binding:"omitempty,gt=0"`
	AvgCost *float64 `json:"avg_cost" binding:"omitempty,gt=0"`
	Notes   *string  `json:"notes" binding:"omitempty,max=500"`
}

// AddAsset handles POST /portfolio
func (h *AssetHandler) AddAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	asset, err := h.assetService.AddAsset(userID, req.Ticker, req.Shares, req.AvgCost, req.PurchaseDate, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, asset)
}

// ListAssets handles GET /portfolio
func (h *AssetHandler) ListAssets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assets, err := h.assetService.GetUserAssets(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, assets)
}

// GetAsset handles GET /portfolio/:id
func (h *AssetHandler) GetAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := h.assetService.GetAssetByID(userID, assetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, asset)
}

// UpdateAsset handles PATCH /portfolio/:id
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	asset, err := h.assetService.UpdateAsset(userID, assetID, req.Shares, req.AvgCost, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, asset)
}

// DeleteAsset handles DELETE /portfolio/:id
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.assetService.DeleteAsset(userID, assetID); err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"deleted": true})
}
