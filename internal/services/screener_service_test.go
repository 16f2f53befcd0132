package services

import (
	"context"
	"testing"

	"github.com/patrickacs/stocklio/internal/cache"
	"github.com/patrickacs/stocklio/internal/testutil"
)

func ptr(v float64) *float64 { return &v }

func TestScreenerSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	testutil.CreateTestStock(t, db, "AAPL", "Technology", 170)
	testutil.CreateTestStock(t, db, "MSFT", "Technology", 415)
	testutil.CreateTestStock(t, db, "KO", "Consumer Defensive", 60)

	svc := NewScreenerService(db, cache.NewMemory())

	t.Run("price range", func(t *testing.T) {
		stocks, err := svc.Search(context.Background(), ScreenerFilter{
			MinPrice: ptr(100),
			MaxPrice: ptr(200),
		})
		testutil.AssertNoError(t, err)
		if len(stocks) != 1 || stocks[0].Ticker != "AAPL" {
			t.Errorf("expected only AAPL in 100-200, got %v", stocks)
		}
	})

	t.Run("sector list", func(t *testing.T) {
		stocks, err := svc.Search(context.Background(), ScreenerFilter{
			Sectors: []string{"Consumer Defensive"},
		})
		testutil.AssertNoError(t, err)
		if len(stocks) != 1 || stocks[0].Ticker != "KO" {
			t.Errorf("expected only KO, got %v", stocks)
		}
	})

	t.Run("no constraints returns all", func(t *testing.T) {
		stocks, err := svc.Search(context.Background(), ScreenerFilter{})
		testutil.AssertNoError(t, err)
		if len(stocks) != 3 {
			t.Errorf("expected all 3 rows, got %d", len(stocks))
		}
	})

	t.Run("limit applies", func(t *testing.T) {
		stocks, err := svc.Search(context.Background(), ScreenerFilter{Limit: 2})
		testutil.AssertNoError(t, err)
		if len(stocks) != 2 {
			t.Errorf("expected 2 rows, got %d", len(stocks))
		}
	})

	t.Run("no match is empty not error", func(t *testing.T) {
		stocks, err := svc.Search(context.Background(), ScreenerFilter{MinPrice: ptr(10000)})
		testutil.AssertNoError(t, err)
		if stocks == nil || len(stocks) != 0 {
			t.Errorf("expected empty slice, got %v", stocks)
		}
	})
}

func TestScreenerSearchLimitValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewScreenerService(db, cache.NewMemory())

	_, err := svc.Search(context.Background(), ScreenerFilter{Limit: 101})
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	_, err = svc.Search(context.Background(), ScreenerFilter{Limit: -1})
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestScreenerFilterHash(t *testing.T) {
	a := ScreenerFilter{MinPrice: ptr(100), Sectors: []string{"Technology"}}
	b := ScreenerFilter{MinPrice: ptr(100), Sectors: []string{"Technology"}}
	c := ScreenerFilter{MinPrice: ptr(101), Sectors: []string{"Technology"}}

	if a.Hash() != b.Hash() {
		t.Error("equal filters must hash identically")
	}
	if a.Hash() == c.Hash() {
		t.Error("different filters must not share a hash")
	}
}

func TestScreenerSearchCachesByFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	store := cache.NewMemory()

	testutil.CreateTestStock(t, db, "AAPL", "Technology", 170)
	svc := NewScreenerService(db, store)

	filter := ScreenerFilter{Sectors: []string{"Technology"}}
	_, err := svc.Search(context.Background(), filter)
	testutil.AssertNoError(t, err)

	// A row added after the first search stays invisible until the cached
	// result expires.
	testutil.CreateTestStock(t, db, "MSFT", "Technology", 415)

	stocks, err := svc.Search(context.Background(), filter)
	testutil.AssertNoError(t, err)
	if len(stocks) != 1 {
		t.Errorf("expected cached single-row result, got %d rows", len(stocks))
	}
}
