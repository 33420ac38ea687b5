package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ajaypanchal761/driveon-auth/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"size:255"`
	Email           string `gorm:"uniqueIndex;size:255"`
	Phone           string `gorm:"uniqueIndex;size:32"`
	Role            string `gorm:"index;size:64"`
	IsActive        bool   `gorm:"index"`
	IsEmailVerified bool
	IsPhoneVerified bool
	ReferralCode    string `gorm:"uniqueIndex;size:16"`
	ReferredBy      uint   `gorm:"index"`
	Age             string `gorm:"size:8"`
	Gender          string `gorm:"size:16"`
	Address         string `gorm:"size:512"`
	ProfilePhoto    string `gorm:"size:512"`
	ProfileComplete int
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		return err
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByPhone implements domain.UserRepository
func (r *UserRepositoryImpl) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, "phone = ?", phone)
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByReferralCode implements domain.UserRepository
func (r *UserRepositoryImpl) FindByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	return r.findOne(ctx, "referral_code = ?", code)
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where(query, arg).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	return r.db.WithContext(ctx).Save(dbUser).Error
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Phone:           user.Phone,
		Role:            user.Role,
		IsActive:        user.IsActive,
		IsEmailVerified: user.IsEmailVerified,
		IsPhoneVerified: user.IsPhoneVerified,
		ReferralCode:    user.ReferralCode,
		ReferredBy:      user.ReferredBy,
		Age:             user.Age,
		Gender:          user.Gender,
		Address:         user.Address,
		ProfilePhoto:    user.ProfilePhoto,
		ProfileComplete: user.ProfileComplete,
	}
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:              dbUser.ID,
		Name:            dbUser.Name,
		Email:           dbUser.Email,
		Phone:           dbUser.Phone,
		Role:            dbUser.Role,
		IsActive:        dbUser.IsActive,
		IsEmailVerified: dbUser.IsEmailVerified,
		IsPhoneVerified: dbUser.IsPhoneVerified,
		ReferralCode:    dbUser.ReferralCode,
		ReferredBy:      dbUser.ReferredBy,
		Age:             dbUser.Age,
		Gender:          dbUser.Gender,
		Address:         dbUser.Address,
		ProfilePhoto:    dbUser.ProfilePhoto,
		ProfileComplete: dbUser.ProfileComplete,
		CreatedAt:       dbUser.CreatedAt,
		UpdatedAt:       dbUser.UpdatedAt,
	}
}
