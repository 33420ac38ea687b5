package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ajaypanchal761/driveon-auth/domain"
)

// OTPRepositoryImpl implements domain.OTPRepository using GORM
type OTPRepositoryImpl struct {
	db *gorm.DB
}

// DBOTP represents the database model for an OTP record. Rows are
// insert-only; historical and resent codes accumulate per identifier.
type DBOTP struct {
	ID         uint   `gorm:"primaryKey"`
	Identifier string `gorm:"index:idx_otp_lookup;size:255"`
	Code       string `gorm:"index:idx_otp_lookup;size:6"`
	Type       string `gorm:"size:16"`
	Purpose    string `gorm:"index;size:32"`
	ExpiresAt  time.Time
	IsUsed     bool      `gorm:"index"`
	CreatedAt  time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBOTP) TableName() string {
	return "otps"
}

// NewOTPRepository creates a new OTP repository
func NewOTPRepository(db *gorm.DB) domain.OTPRepository {
	return &OTPRepositoryImpl{db: db}
}

// Create implements domain.OTPRepository. It always inserts a new record;
// outstanding codes for the same identifier are left untouched.
func (r *OTPRepositoryImpl) Create(ctx context.Context, record *domain.OTPRecord) error {
	dbOTP := &DBOTP{
		Identifier: record.Identifier,
		Code:       record.Code,
		Type:       string(record.Type),
		Purpose:    string(record.Purpose),
		ExpiresAt:  record.ExpiresAt,
		IsUsed:     record.IsUsed,
	}
	if err := r.db.WithContext(ctx).Create(dbOTP).Error; err != nil {
		return err
	}
	record.ID = dbOTP.ID
	record.CreatedAt = dbOTP.CreatedAt
	return nil
}

// FindLatestValid implements domain.OTPRepository. It returns the most
// recently created unused record matching identifier and code. Expiry is
// deliberately not filtered here: the caller checks it so that wrong-code
// and expired-code produce distinguishable errors.
func (r *OTPRepositoryImpl) FindLatestValid(ctx context.Context, identifier, code string) (*domain.OTPRecord, error) {
	var dbOTP DBOTP
	err := r.db.WithContext(ctx).
		Where("identifier = ? AND code = ? AND is_used = ?", identifier, code, false).
		Order("created_at DESC, id DESC").
		First(&dbOTP).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrOTPNotFound
		}
		return nil, err
	}
	return dbToOTPRecord(&dbOTP), nil
}

// MarkUsed implements domain.OTPRepository. The guarded update makes the
// flip atomic: of two concurrent verifications carrying the same code, only
// the one whose update lands first sees an affected row.
func (r *OTPRepositoryImpl) MarkUsed(ctx context.Context, record *domain.OTPRecord) error {
	res := r.db.WithContext(ctx).
		Model(&DBOTP{}).
		Where("id = ? AND is_used = ?", record.ID, false).
		Update("is_used", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrOTPAlreadyUsed
	}
	record.IsUsed = true
	return nil
}

func dbToOTPRecord(dbOTP *DBOTP) *domain.OTPRecord {
	return &domain.OTPRecord{
		ID:         dbOTP.ID,
		Identifier: dbOTP.Identifier,
		Code:       dbOTP.Code,
		Type:       domain.OTPChannel(dbOTP.Type),
		Purpose:    domain.OTPPurpose(dbOTP.Purpose),
		ExpiresAt:  dbOTP.ExpiresAt,
		IsUsed:     dbOTP.IsUsed,
		CreatedAt:  dbOTP.CreatedAt,
	}
}
