package testutil

import (
	"testing"
	"time"

	"github.com/patrickacs/stocklio/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateTestUser creates a user with a default email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithEmail(t, db, "test@example.com")
}

// CreateTestUserWithEmail creates a user with the given email and a bcrypt
// hash of "password123".
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash fixture password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     "Test User",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAsset creates a position for the given user.
func CreateTestAsset(t *testing.T, db *gorm.DB, userID uint, ticker string, shares, avgCost float64) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		UserID:       userID,
		Ticker:       ticker,
		Shares:       shares,
		AvgCost:      avgCost,
		PurchaseDate: time.Now().AddDate(0, -1, 0),
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestStock creates a reference snapshot row for a ticker.
func CreateTestStock(t *testing.T, db *gorm.DB, ticker, sector string, price float64) *models.Stock {
	t.Helper()

	stock := &models.Stock{
		Ticker:        ticker,
		Name:          ticker + " Inc.",
		Sector:        sector,
		Price:         price,
		DayChange:     0.01,
		PERatio:       20,
		DividendYield: 0.015,
		MarketCap:     1e11,
		Week52High:    price * 1.3,
		Week52Low:     price * 0.7,
		Volume:        1_000_000,
		UpdatedAt:     time.Now(),
	}
	if err := db.Create(stock).Error; err != nil {
		t.Fatalf("failed to create test stock: %v", err)
	}
	return stock
}

// CreateTestDividend creates a dividend row for a ticker.
func CreateTestDividend(t *testing.T, db *gorm.DB, ticker string, exDate time.Time, amount float64) *models.Dividend {
	t.Helper()

	pay := exDate.AddDate(0, 0, 14)
	dividend := &models.Dividend{
		Ticker:    ticker,
		ExDate:    exDate,
		PayDate:   &pay,
		Amount:    amount,
		Frequency: models.FrequencyQuarterly,
	}
	if err := db.Create(dividend).Error; err != nil {
		t.Fatalf("failed to create test dividend: %v", err)
	}
	return dividend
}
