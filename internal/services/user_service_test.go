package services

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/clock"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/models"
	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/testutil"
)

// loginNow is the pinned start time for login and lockout tests.
var loginNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

const missingUserID = "0190a4b2-0000-7000-8000-000000000000"

type userFixture struct {
	db  *gorm.DB
	svc UserServicer
	now time.Time
}

// setupUserFixture returns a user service whose clock reads f.now, so a test
// can move time forward between calls.
func setupUserFixture(t *testing.T) *userFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	f := &userFixture{db: db, now: loginNow}
	f.svc = NewUserService(db, clock.Func(func() time.Time { return f.now }))
	return f
}

func (f *userFixture) reload(t *testing.T, id string) *models.User {
	t.Helper()
	var user models.User
	testutil.AssertNoError(t, f.db.Unscoped().First(&user, "id = ?", id).Error)
	return &user
}

func TestCreateUser(t *testing.T) {
	t.Run("stores a normalized active user", func(t *testing.T) {
		f := setupUserFixture(t)

		user, err := f.svc.CreateUser("  Ada@Example.COM ", "password123", "Ada", "Moss")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected user ID")
		}
		stored := f.reload(t, user.ID)
		if stored.Email != "ada@example.com" {
			t.Errorf("expected normalized email ada@example.com, got %q", stored.Email)
		}
		if stored.FirstName != "Ada" || stored.LastName != "Moss" || !stored.IsActive {
			t.Errorf("unexpected stored user: %+v", stored)
		}
		if stored.Password == "password123" {
			t.Fatal("password stored in plaintext")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")); err != nil {
			t.Errorf("stored hash does not verify: %v", err)
		}
		if stored.RefreshTokenHash != "" || stored.LastLoginAt != nil {
			t.Error("a new user has no session yet")
		}
	})

	invalid := []struct {
		name     string
		email    string
		password string
	}{
		{"empty_email", "", "password123"},
		{"blank_email", "   ", "password123"},
		{"empty_password", "ada@example.com", ""},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			f := setupUserFixture(t)

			_, err := f.svc.CreateUser(tt.email, tt.password, "", "")
			testutil.AssertAppError(t, err, "INVALID_INPUT")

			var count int64
			f.db.Model(&models.User{}).Count(&count)
			if count != 0 {
				t.Errorf("expected no users, got %d", count)
			}
		})
	}

	t.Run("duplicate_email_ignores_case", func(t *testing.T) {
		f := setupUserFixture(t)
		testutil.CreateTestUserWithEmail(t, f.db, "dup@example.com")

		_, err := f.svc.CreateUser("DUP@example.com", "password456", "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("soft_deleted_user_keeps_email", func(t *testing.T) {
		f := setupUserFixture(t)
		gone := testutil.CreateTestUserWithEmail(t, f.db, "gone@example.com")
		testutil.AssertNoError(t, f.db.Delete(gone).Error)

		_, err := f.svc.CreateUser("gone@example.com", "password123", "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})
}

func TestGetUserByEmail(t *testing.T) {
	f := setupUserFixture(t)
	active := testutil.CreateTestUserWithEmail(t, f.db, "active@example.com")
	inactive := testutil.CreateTestUserWithEmail(t, f.db, "inactive@example.com")
	testutil.AssertNoError(t, f.db.Model(inactive).Update("is_active", false).Error)
	deleted := testutil.CreateTestUserWithEmail(t, f.db, "deleted@example.com")
	testutil.AssertNoError(t, f.db.Delete(deleted).Error)

	t.Run("found_case_insensitive", func(t *testing.T) {
		user, err := f.svc.GetUserByEmail("Active@Example.com")
		testutil.AssertNoError(t, err)
		if user.ID != active.ID {
			t.Errorf("expected user %s, got %s", active.ID, user.ID)
		}
	})

	for _, email := range []string{"nobody@example.com", "inactive@example.com", "deleted@example.com"} {
		t.Run("not_found_"+email, func(t *testing.T) {
			_, err := f.svc.GetUserByEmail(email)
			testutil.AssertAppError(t, err, "USER_NOT_FOUND")
		})
	}
}

func TestGetUserByID(t *testing.T) {
	f := setupUserFixture(t)
	created := testutil.CreateTestUser(t, f.db)

	user, err := f.svc.GetUserByID(created.ID)
	testutil.AssertNoError(t, err)
	if user.Email != created.Email {
		t.Errorf("expected email %s, got %s", created.Email, user.Email)
	}

	_, err = f.svc.GetUserByID(missingUserID)
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")

	testutil.AssertNoError(t, f.db.Delete(created).Error)
	_, err = f.svc.GetUserByID(created.ID)
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestVerifyPassword(t *testing.T) {
	f := setupUserFixture(t)
	user := testutil.CreateTestUser(t, f.db)

	if !f.svc.VerifyPassword(user, "password123") {
		t.Error("expected the fixture password to verify")
	}
	if f.svc.VerifyPassword(user, "Password123") {
		t.Error("password check must be case sensitive")
	}
	if f.svc.VerifyPassword(&models.User{Password: "not-a-bcrypt-hash"}, "password123") {
		t.Error("a malformed hash must not verify")
	}
}

func TestAttemptLogin(t *testing.T) {
	t.Run("success_stamps_last_login_and_clears_counters", func(t *testing.T) {
		f := setupUserFixture(t)
		user := testutil.CreateTestUserWithEmail(t, f.db, "login@example.com")
		expired := loginNow.Add(-time.Minute)
		testutil.AssertNoError(t, f.db.Model(user).Updates(map[string]interface{}{
			"failed_login_attempts": 3,
			"locked_until":          expired,
		}).Error)

		_, err := f.svc.AttemptLogin("LOGIN@example.com", "password123")
		testutil.AssertNoError(t, err)

		stored := f.reload(t, user.ID)
		if stored.FailedLoginAttempts != 0 || stored.LockedUntil != nil {
			t.Errorf("expected cleared counters, got attempts=%d locked=%v", stored.FailedLoginAttempts, stored.LockedUntil)
		}
		if stored.LastLoginAt == nil || !stored.LastLoginAt.Equal(loginNow) {
			t.Errorf("expected last login at %v, got %v", loginNow, stored.LastLoginAt)
		}
	})

	t.Run("failures_lock_then_expire", func(t *testing.T) {
		f := setupUserFixture(t)
		user := testutil.CreateTestUserWithEmail(t, f.db, "lockout@example.com")

		for i := 1; i < maxFailedLoginAttempts; i++ {
			_, err := f.svc.AttemptLogin("lockout@example.com", "wrong")
			testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
			if got := f.reload(t, user.ID).FailedLoginAttempts; got != i {
				t.Fatalf("after %d failures expected counter %d, got %d", i, i, got)
			}
		}

		_, err := f.svc.AttemptLogin("lockout@example.com", "wrong")
		testutil.AssertAppError(t, err, "ACCOUNT_LOCKED")

		stored := f.reload(t, user.ID)
		if stored.LockedUntil == nil || !stored.LockedUntil.Equal(loginNow.Add(loginLockDuration)) {
			t.Fatalf("expected lock until %v, got %v", loginNow.Add(loginLockDuration), stored.LockedUntil)
		}
		if stored.FailedLoginAttempts != 0 {
			t.Errorf("expected counter reset when locking, got %d", stored.FailedLoginAttempts)
		}

		f.now = loginNow.Add(loginLockDuration - time.Second)
		_, err = f.svc.AttemptLogin("lockout@example.com", "password123")
		testutil.AssertAppError(t, err, "ACCOUNT_LOCKED")

		f.now = loginNow.Add(loginLockDuration)
		_, err = f.svc.AttemptLogin("lockout@example.com", "password123")
		testutil.AssertNoError(t, err)
	})

	t.Run("lock_after_expiry_needs_fresh_failures", func(t *testing.T) {
		f := setupUserFixture(t)
		user := testutil.CreateTestUserWithEmail(t, f.db, "relock@example.com")
		testutil.AssertNoError(t, f.db.Model(user).Update("locked_until", loginNow.Add(-time.Second)).Error)

		_, err := f.svc.AttemptLogin("relock@example.com", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
		if got := f.reload(t, user.ID).FailedLoginAttempts; got != 1 {
			t.Errorf("expected counter 1, got %d", got)
		}
	})

	t.Run("unknown_and_inactive_users_look_like_bad_passwords", func(t *testing.T) {
		f := setupUserFixture(t)
		inactive := testutil.CreateTestUserWithEmail(t, f.db, "inactive@example.com")
		testutil.AssertNoError(t, f.db.Model(inactive).Update("is_active", false).Error)

		for _, email := range []string{"nobody@example.com", "inactive@example.com"} {
			_, err := f.svc.AttemptLogin(email, "password123")
			testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
		}
	})
}

func TestRefreshTokenHash(t *testing.T) {
	f := setupUserFixture(t)
	user := testutil.CreateTestUser(t, f.db)

	got, err := f.svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if got != "" {
		t.Errorf("expected no hash before the first login, got %q", got)
	}

	first := "1111111111111111111111111111111111111111111111111111111111111111"
	second := "2222222222222222222222222222222222222222222222222222222222222222"
	for _, hash := range []string{first, second} {
		testutil.AssertNoError(t, f.svc.StoreRefreshTokenHash(user.ID, hash))
	}

	got, err = f.svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if got != second {
		t.Errorf("expected the rotated hash %s, got %s", second, got)
	}

	err = f.svc.StoreRefreshTokenHash(missingUserID, first)
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")

	testutil.AssertNoError(t, f.db.Delete(user).Error)
	_, err = f.svc.GetRefreshTokenHash(user.ID)
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestUpdateProfile(t *testing.T) {
	name := func(s string) *string { return &s }

	tests := []struct {
		name      string
		first     *string
		last      *string
		wantFirst string
		wantLast  string
	}{
		{"both_trimmed", name(" Grace "), name(" Hopper\t"), "Grace", "Hopper"},
		{"first_only_keeps_last", name("Grace"), nil, "Grace", "Moss"},
		{"last_only_keeps_first", nil, name("Hopper"), "Ada", "Hopper"},
		{"nothing_changes", nil, nil, "Ada", "Moss"},
		{"blank_clears", name("  "), nil, "", "Moss"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupUserFixture(t)
			user := testutil.CreateTestUser(t, f.db)
			testutil.AssertNoError(t, f.db.Model(user).Updates(map[string]interface{}{"first_name": "Ada", "last_name": "Moss"}).Error)

			updated, err := f.svc.UpdateProfile(user.ID, tt.first, tt.last)
			testutil.AssertNoError(t, err)
			if updated.FirstName != tt.wantFirst || updated.LastName != tt.wantLast {
				t.Errorf("returned %q %q, want %q %q", updated.FirstName, updated.LastName, tt.wantFirst, tt.wantLast)
			}

			stored := f.reload(t, user.ID)
			if stored.FirstName != tt.wantFirst || stored.LastName != tt.wantLast {
				t.Errorf("stored %q %q, want %q %q", stored.FirstName, stored.LastName, tt.wantFirst, tt.wantLast)
			}
		})
	}

	t.Run("missing_user", func(t *testing.T) {
		f := setupUserFixture(t)
		_, err := f.svc.UpdateProfile(missingUserID, name("Grace"), nil)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
