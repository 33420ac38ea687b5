package repositories

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ajaypanchal761/driveon-auth/domain"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&DBUser{}, &DBOTP{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func TestUserRepositoryImpl_FindByPhone(t *testing.T) {
	tests := []struct {
		name          string
		setupData     func(db *gorm.DB)
		phone         string
		expectedUser  *domain.User
		expectedError error
	}{
		{
			name: "successful find by phone",
			setupData: func(db *gorm.DB) {
				user := &DBUser{
					ID:              1,
					Name:            "Asha",
					Email:           "asha@example.com",
					Phone:           "9812345678",
					Role:            "user",
					IsActive:        true,
					ReferralCode:    "AAAA1111",
					IsPhoneVerified: false,
					CreatedAt:       time.Now(),
					UpdatedAt:       time.Now(),
				}
				db.Create(user)
			},
			phone: "9812345678",
			expectedUser: &domain.User{
				ID:              1,
				Email:           "asha@example.com",
				Phone:           "9812345678",
				Role:            "user",
				IsActive:        true,
				IsPhoneVerified: false,
			},
			expectedError: nil,
		},
		{
			name: "phone not found",
			setupData: func(db *gorm.DB) {
				// No data setup
			},
			phone:         "9911223344",
			expectedUser:  nil,
			expectedError: domain.ErrUserNotFound,
		},
		{
			name: "find verified phone user",
			setupData: func(db *gorm.DB) {
				user := &DBUser{
					ID:              2,
					Email:           "verified@example.com",
					Phone:           "7711223344",
					Role:            "user",
					IsActive:        true,
					ReferralCode:    "BBBB2222",
					IsPhoneVerified: true,
					CreatedAt:       time.Now(),
					UpdatedAt:       time.Now(),
				}
				db.Create(user)
			},
			phone: "7711223344",
			expectedUser: &domain.User{
				ID:              2,
				Email:           "verified@example.com",
				Phone:           "7711223344",
				Role:            "user",
				IsActive:        true,
				IsPhoneVerified: true,
			},
			expectedError: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			tt.setupData(db)
			repo := NewUserRepository(db)

			user, err := repo.FindByPhone(context.Background(), tt.phone)

			if tt.expectedError != nil {
				if err != tt.expectedError {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if user == nil {
				t.Fatal("user is nil")
			}
			if user.ID != tt.expectedUser.ID {
				t.Errorf("expected ID %d, got %d", tt.expectedUser.ID, user.ID)
			}
			if user.Email != tt.expectedUser.Email {
				t.Errorf("expected email %s, got %s", tt.expectedUser.Email, user.Email)
			}
			if user.IsPhoneVerified != tt.expectedUser.IsPhoneVerified {
				t.Errorf("expected is_phone_verified %v, got %v", tt.expectedUser.IsPhoneVerified, user.IsPhoneVerified)
			}
		})
	}
}

func TestUserRepositoryImpl_FindByEmail(t *testing.T) {
	tests := []struct {
		name          string
		setupData     func(db *gorm.DB)
		email         string
		expectedUser  *domain.User
		expectedError error
	}{
		{
			name: "successful find by email",
			setupData: func(db *gorm.DB) {
				user := &DBUser{
					ID:           1,
					Email:        "ravi@example.com",
					Phone:        "9812345678",
					Role:         "user",
					IsActive:     true,
					ReferralCode: "CCCC3333",
					CreatedAt:    time.Now(),
					UpdatedAt:    time.Now(),
				}
				db.Create(user)
			},
			email: "ravi@example.com",
			expectedUser: &domain.User{
				ID:    1,
				Email: "ravi@example.com",
				Role:  "user",
			},
			expectedError: nil,
		},
		{
			name: "email not found",
			setupData: func(db *gorm.DB) {
				// No data setup
			},
			email:         "nonexistent@example.com",
			expectedUser:  nil,
			expectedError: domain.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			tt.setupData(db)
			repo := NewUserRepository(db)

			user, err := repo.FindByEmail(context.Background(), tt.email)

			if tt.expectedError != nil {
				if err != tt.expectedError {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if user == nil {
				t.Fatal("user is nil")
			}
			if user.ID != tt.expectedUser.ID {
				t.Errorf("expected ID %d, got %d", tt.expectedUser.ID, user.ID)
			}
			if user.Role != tt.expectedUser.Role {
				t.Errorf("expected role %s, got %s", tt.expectedUser.Role, user.Role)
			}
		})
	}
}

func TestUserRepositoryImpl_FindByReferralCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	referrer := &domain.User{
		Name:         "Referrer",
		Email:        "referrer@example.com",
		Phone:        "9812345678",
		Role:         "user",
		IsActive:     true,
		ReferralCode: "REFER123",
	}
	if err := repo.Create(context.Background(), referrer); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	found, err := repo.FindByReferralCode(context.Background(), "REFER123")
	if err != nil {
		t.Fatalf("failed to find by referral code: %v", err)
	}
	if found.ID != referrer.ID {
		t.Errorf("expected ID %d, got %d", referrer.ID, found.ID)
	}

	if _, err := repo.FindByReferralCode(context.Background(), "NOSUCH00"); err != domain.ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepositoryImpl_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := &domain.User{
		Name:         "Meera",
		Email:        "meera@example.com",
		Phone:        "8812345678",
		Role:         "user",
		IsActive:     true,
		ReferralCode: "DDDD4444",
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	user.IsPhoneVerified = true
	user.IsEmailVerified = true
	user.Age = "28"
	user.ProfileComplete = user.ComputeProfileComplete()

	if err := repo.Update(context.Background(), user); err != nil {
		t.Fatalf("failed to update user: %v", err)
	}

	got, err := repo.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if !got.IsPhoneVerified || !got.IsEmailVerified {
		t.Error("verification flags not persisted")
	}
	if got.Age != "28" {
		t.Errorf("expected age 28, got %s", got.Age)
	}
	if got.ProfileComplete != user.ProfileComplete {
		t.Errorf("expected profile_complete %d, got %d", user.ProfileComplete, got.ProfileComplete)
	}
}

func TestUserRepositoryImpl_Create_BackfillsID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := &domain.User{
		Email:        "backfill@example.com",
		Phone:        "7612345678",
		Role:         "user",
		IsActive:     true,
		ReferralCode: "EEEE5555",
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected ID to be backfilled after create")
	}
}
