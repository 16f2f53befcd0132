package services

import (
	"testing"
	"time"

	"github.com/patrickacs/stocklio/internal/models"
	"github.com/patrickacs/stocklio/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user, err := svc.CreateUser("Alice@Example.com", "secret123", "Alice")
	testutil.AssertNoError(t, err)

	if user.Email != "alice@example.com" {
		t.Errorf("expected lower-cased email, got %q", user.Email)
	}
	if user.Password == "secret123" {
		t.Error("password stored in plaintext")
	}
	if !svc.VerifyPassword(user, "secret123") {
		t.Error("stored hash does not verify against the original password")
	}
	if svc.VerifyPassword(user, "wrong") {
		t.Error("wrong password verified")
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	_, err := svc.CreateUser("dup@example.com", "secret123", "First")
	testutil.AssertNoError(t, err)

	// Same email in a different case must still collide.
	_, err = svc.CreateUser("DUP@example.com", "secret123", "Second")
	testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
}

func TestCreateUserMissingFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	_, err := svc.CreateUser("", "secret123", "NoEmail")
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	_, err = svc.CreateUser("nopass@example.com", "", "NoPass")
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestCreateUserAfterDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	first, err := svc.CreateUser("back@example.com", "secret123", "First Life")
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, svc.DeleteUser(first.ID))

	// The soft-deleted account must not block re-registering its email.
	second, err := svc.CreateUser("back@example.com", "secret456", "Second Life")
	testutil.AssertNoError(t, err)
	if second.ID == first.ID {
		t.Error("expected a fresh account, not the resurrected tombstone")
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	created := testutil.CreateTestUserWithEmail(t, db, "find@example.com")

	found, err := svc.GetUserByEmail("FIND@example.com")
	testutil.AssertNoError(t, err)
	if found.ID != created.ID {
		t.Errorf("expected user %d, got %d", created.ID, found.ID)
	}

	_, err = svc.GetUserByEmail("absent@example.com")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestDeleteUserCascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user := testutil.CreateTestUser(t, db)
	asset := testutil.CreateTestAsset(t, db, user.ID, "AAPL", 10, 150)

	dividend := testutil.CreateTestDividend(t, db, "AAPL", time.Now().AddDate(0, -3, 0), 0.25)
	dividend.AssetID = &asset.ID
	testutil.AssertNoError(t, db.Save(dividend).Error)

	testutil.AssertNoError(t, svc.DeleteUser(user.ID))

	_, err := svc.GetUserByID(user.ID)
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")

	var assetCount, dividendCount int64
	db.Model(&models.Asset{}).Where("user_id = ?", user.ID).Count(&assetCount)
	if assetCount != 0 {
		t.Errorf("expected assets removed, found %d", assetCount)
	}
	db.Model(&models.Dividend{}).Where("asset_id = ?", asset.ID).Count(&dividendCount)
	if dividendCount != 0 {
		t.Errorf("expected linked dividends removed, found %d", dividendCount)
	}
}
