package services

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"gorm.io/gorm"

	"github.com/patrickacs/stocklio/internal/cache"
	apperrors "github.com/patrickacs/stocklio/internal/errors"
	"github.com/patrickacs/stocklio/internal/marketdata"
	"github.com/patrickacs/stocklio/internal/models"
	"github.com/patrickacs/stocklio/internal/money"
)

var tickerPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// assetService handles portfolio-position business logic.
type assetService struct {
	db    *gorm.DB
	store cache.Store
}

// NewAssetService creates a new AssetServicer. The cache store is used to
// invalidate the user's derived views when positions change.
func NewAssetService(db *gorm.DB, store cache.Store) AssetServicer {
	return &assetService{db: db, store: store}
}

// AddAsset adds a position for a user. Adding a ticker the user already
// holds merges into the existing row: shares accumulate and the average
// cost is recomputed as the exact weighted average of both lots.
func (s *assetService) AddAsset(userID uint, ticker string, shares, avgCost float64, purchaseDate *time.Time, notes string) (*models.Asset, error) {
	ticker = marketdata.NormalizeTicker(ticker)
	if !tickerPattern.MatchString(ticker) {
		return nil, apperrors.ErrInvalidTicker
	}
	if shares <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "shares must be positive")
	}
	if avgCost <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "average cost must be positive")
	}

	date := time.Now()
	if purchaseDate != nil {
		date = *purchaseDate
	}

	var asset *models.Asset
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Asset
		err := tx.Where("user_id = ? AND ticker = ?", userID, ticker).First(&existing).Error
		switch {
		case err == nil:
			// Merge lots: weighted-average cost, accumulated shares.
			existing.AvgCost = money.WeightedAverageCost(existing.Shares, existing.AvgCost, shares, avgCost)
			existing.Shares = existing.Shares + shares
			if notes != "" {
				existing.Notes = notes
			}
			if txErr := tx.Save(&existing).Error; txErr != nil {
				return apperrors.Wrap(apperrors.ErrDatabase, txErr)
			}
			asset = &existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			created := models.Asset{
				UserID:       userID,
				Ticker:       ticker,
				Shares:       shares,
				AvgCost:      money.Round2(avgCost),
				PurchaseDate: date,
				Notes:        notes,
			}
			if txErr := tx.Create(&created).Error; txErr != nil {
				return apperrors.Wrap(apperrors.ErrDatabase, txErr)
			}
			asset = &created
			return nil
		default:
			return apperrors.Wrap(apperrors.ErrDatabase, err)
		}
	})
	if err != nil {
		return nil, err
	}

	s.invalidateUserViews(userID)
	return asset, nil
}

// GetUserAssets returns every position the user holds, ordered by ticker.
func (s *assetService) GetUserAssets(userID uint) ([]models.Asset, error) {
	var assets []models.Asset
	if err := s.db.Where("user_id = ?", userID).Order("ticker ASC").Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	return assets, nil
}

// GetAssetByID returns a single position, enforcing ownership.
func (s *assetService) GetAssetByID(userID, assetID uint) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.Where("id = ? AND user_id = ?", assetID, userID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	return &asset, nil
}

// UpdateAsset mutates shares, cost, and/or notes of an owned position.
func (s *assetService) UpdateAsset(userID, assetID uint, shares, avgCost *float64, notes *string) (*models.Asset, error) {
	asset, err := s.GetAssetByID(userID, assetID)
	if err != nil {
		return nil, err
	}

	if shares != nil {
		if *shares <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "shares must be positive")
		}
		asset.Shares = *shares
	}
	if avgCost != nil {
		if *avgCost <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "average cost must be positive")
		}
		asset.AvgCost = money.Round2(*avgCost)
	}
	if notes != nil {
		asset.Notes = *notes
	}

	if err := s.db.Save(asset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	s.invalidateUserViews(userID)
	return asset, nil
}

// DeleteAsset removes an owned position and its linked dividend rows.
func (s *assetService) DeleteAsset(userID, assetID uint) error {
	asset, err := s.GetAssetByID(userID, assetID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Where("asset_id = ?", asset.ID).Delete(&models.Dividend{}).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrRelationViolation, txErr)
		}
		if txErr := tx.Delete(asset).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrDatabase, txErr)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateUserViews(userID)
	return nil
}

// invalidateUserViews drops the cached derived views for a user after any
// position mutation.
func (s *assetService) invalidateUserViews(userID uint) {
	s.store.Delete(fmt.Sprintf("portfolio:summary:%d", userID))
	s.store.Delete(fmt.Sprintf("dividends:annual:%d", userID))
	// Upcoming keys are parameterized by window length, so drop them all.
	s.store.DeletePrefix(fmt.Sprintf("dividends:upcoming:%d:", userID))
}
