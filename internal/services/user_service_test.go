package services

import (
	"testing"

	"moneta/internal/models"
	"moneta/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("seeds_default_categories", func(t *testing.T) {
		setup := newTestSetup(t)
		defer setup.teardown()
		svc := NewUserService(setup.db)

		user, err := svc.CreateUser("alice@example.com", "password123", "Alice", "Smith")
		testutil.AssertNoError(t, err)
		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}

		var count int64
		testutil.AssertNoError(t, setup.db.Model(&models.Category{}).
			Where("user_id = ? AND is_default = ?", user.ID, true).
			Count(&count).Error)
		if count == 0 {
			t.Error("expected default categories to be seeded")
		}

		var buckets int64
		testutil.AssertNoError(t, setup.db.Model(&models.Category{}).
			Where("user_id = ? AND classification <> ''", user.ID).
			Distinct("classification").
			Count(&buckets).Error)
		if buckets != 3 {
			t.Errorf("expected categories across 3 budget buckets, got %d", buckets)
		}
	})

	t.Run("normalizes_email", func(t *testing.T) {
		setup := newTestSetup(t)
		defer setup.teardown()
		svc := NewUserService(setup.db)

		user, err := svc.CreateUser("  Bob@Example.COM ", "password123", "", "")
		testutil.AssertNoError(t, err)
		if user.Email != "bob@example.com" {
			t.Errorf("expected normalized email, got %q", user.Email)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		setup := newTestSetup(t)
		defer setup.teardown()
		svc := NewUserService(setup.db)

		_, err := svc.CreateUser("carol@example.com", "password123", "", "")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateUser("CAROL@example.com", "password123", "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("short_password", func(t *testing.T) {
		setup := newTestSetup(t)
		defer setup.teardown()
		svc := NewUserService(setup.db)

		_, err := svc.CreateUser("dave@example.com", "short", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestVerifyPassword(t *testing.T) {
	setup := newTestSetup(t)
	defer setup.teardown()
	svc := NewUserService(setup.db)

	user, err := svc.CreateUser("erin@example.com", "password123", "", "")
	testutil.AssertNoError(t, err)

	if !svc.VerifyPassword(user, "password123") {
		t.Error("expected correct password to verify")
	}
	if svc.VerifyPassword(user, "wrongpassword") {
		t.Error("expected wrong password to fail")
	}

	fresh, err := svc.GetUserByID(user.ID)
	testutil.AssertNoError(t, err)
	if fresh.LastLoginAt == nil {
		t.Error("expected last login to be recorded after a successful verify")
	}
}
