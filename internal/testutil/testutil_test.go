package testutil

import (
	"testing"

	"github.com/patrickacs/stocklio/internal/models"
)

func TestSetupTestDBMigratesAllModels(t *testing.T) {
	db := SetupTestDB(t)
	defer TeardownTestDB(t, db)

	for _, model := range models.All() {
		if !db.Migrator().HasTable(model) {
			t.Errorf("expected table for %T", model)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := SetupTestDB(t)
	defer TeardownTestDB(t, db)

	user := CreateTestUser(t, db)
	if user.ID == 0 {
		t.Fatal("expected persisted user")
	}

	asset := CreateTestAsset(t, db, user.ID, "AAPL", 10, 150)
	if asset.ID == 0 {
		t.Fatal("expected persisted asset")
	}

	stock := CreateTestStock(t, db, "AAPL", "Technology", 175.5)
	if stock.Ticker != "AAPL" {
		t.Errorf("unexpected ticker %s", stock.Ticker)
	}
}
