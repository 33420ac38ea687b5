package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ajaypanchal761/driveon-auth/domain"
	"github.com/ajaypanchal761/driveon-auth/internal/mocks"
)

type authServiceFixture struct {
	userRepo *mocks.MockUserRepository
	otpRepo  *mocks.MockOTPRepository
	otpSvc   *mocks.MockOTPService
	tokenSvc *mocks.MockTokenService
	referral *mocks.MockReferralDispatcher
	svc      domain.AuthService
}

func newAuthFixture() *authServiceFixture {
	f := &authServiceFixture{
		userRepo: mocks.NewMockUserRepository(),
		otpRepo:  mocks.NewMockOTPRepository(),
		otpSvc:   mocks.NewMockOTPService(),
		tokenSvc: mocks.NewMockTokenService(),
		referral: mocks.NewMockReferralDispatcher(),
	}
	f.svc = NewAuthService(f.userRepo, f.otpRepo, f.otpSvc, f.tokenSvc, f.referral, zerolog.Nop())
	return f
}

func activeUser(id uint) *domain.User {
	return &domain.User{
		ID:       id,
		Name:     "Test User",
		Email:    "user@example.com",
		Phone:    "9812345678",
		Role:     "user",
		IsActive: true,
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   domain.RegisterInput
		wantErr error
	}{
		{
			name:    "missing phone",
			input:   domain.RegisterInput{Email: "a@b.com"},
			wantErr: domain.ErrIdentifierRequired,
		},
		{
			name:    "missing email",
			input:   domain.RegisterInput{Phone: "9812345678"},
			wantErr: domain.ErrIdentifierRequired,
		},
		{
			name:    "invalid email",
			input:   domain.RegisterInput{Email: "not-an-email", Phone: "9812345678"},
			wantErr: domain.ErrInvalidEmail,
		},
		{
			name:    "invalid phone",
			input:   domain.RegisterInput{Email: "a@b.com", Phone: "12345"},
			wantErr: domain.ErrInvalidPhone,
		},
		{
			name:    "phone with bad leading digit",
			input:   domain.RegisterInput{Email: "a@b.com", Phone: "5812345678"},
			wantErr: domain.ErrInvalidPhone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			_, err := f.svc.Register(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.wantErr)
			require.Empty(t, f.otpSvc.Issued, "no OTP may be issued on validation failure")
		})
	}
}

func TestAuthService_Register_Conflicts(t *testing.T) {
	existing := activeUser(1)

	tests := []struct {
		name       string
		emailTaken bool
		phoneTaken bool
		wantErr    error
	}{
		{name: "email taken", emailTaken: true, wantErr: domain.ErrEmailTaken},
		{name: "phone taken", phoneTaken: true, wantErr: domain.ErrPhoneTaken},
		{name: "both taken", emailTaken: true, phoneTaken: true, wantErr: domain.ErrEmailAndPhoneTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			if tt.emailTaken {
				f.userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					return existing, nil
				}
			}
			if tt.phoneTaken {
				f.userRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.User, error) {
					return existing, nil
				}
			}

			_, err := f.svc.Register(context.Background(), domain.RegisterInput{
				Email: "new@example.com",
				Phone: "9812345678",
			})
			require.ErrorIs(t, err, tt.wantErr)
			require.Empty(t, f.otpSvc.Issued)
		})
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture()

	var created *domain.User
	f.userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
		user.ID = 7
		created = user
		return nil
	}

	result, err := f.svc.Register(context.Background(), domain.RegisterInput{
		Name:  "Asha",
		Email: "asha@example.com",
		Phone: "98123-45678",
	})
	require.NoError(t, err)

	require.Equal(t, "asha@example.com", result.Email)
	require.Equal(t, "9812345678", result.Phone, "phone must be normalized")
	require.True(t, result.OTPSent)

	require.NotNil(t, created)
	require.Equal(t, "user", created.Role)
	require.True(t, created.IsActive)
	require.False(t, created.IsPhoneVerified)
	require.False(t, created.IsEmailVerified)
	require.Len(t, created.ReferralCode, 8)
	require.Zero(t, created.ReferredBy)

	require.Len(t, f.otpSvc.Issued, 1)
	issued := f.otpSvc.Issued[0]
	require.Equal(t, "9812345678", issued.Identifier)
	require.Equal(t, domain.ChannelPhone, issued.Channel)
	require.Equal(t, domain.PurposeRegister, issued.Purpose)
}

func TestAuthService_Register_ReferralCode(t *testing.T) {
	t.Run("resolving code is stashed", func(t *testing.T) {
		f := newAuthFixture()
		referrer := activeUser(42)
		referrer.ReferralCode = "REFER123"
		f.userRepo.FindByReferralCodeFunc = func(ctx context.Context, code string) (*domain.User, error) {
			if code == "REFER123" {
				return referrer, nil
			}
			return nil, domain.ErrUserNotFound
		}

		var created *domain.User
		f.userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
			created = user
			return nil
		}

		_, err := f.svc.Register(context.Background(), domain.RegisterInput{
			Email:        "new@example.com",
			Phone:        "9812345678",
			ReferralCode: "REFER123",
		})
		require.NoError(t, err)
		require.Equal(t, uint(42), created.ReferredBy)
	})

	t.Run("unresolvable code is silently ignored", func(t *testing.T) {
		f := newAuthFixture()
		var created *domain.User
		f.userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
			created = user
			return nil
		}

		_, err := f.svc.Register(context.Background(), domain.RegisterInput{
			Email:        "new@example.com",
			Phone:        "9812345678",
			ReferralCode: "NOSUCH00",
		})
		require.NoError(t, err)
		require.Zero(t, created.ReferredBy)
	})
}

func TestAuthService_Register_OTPFailureBlocksAccount(t *testing.T) {
	f := newAuthFixture()
	f.otpSvc.IssueFunc = func(ctx context.Context, identifier string, channel domain.OTPChannel, purpose domain.OTPPurpose) (*domain.OTPDispatchResult, error) {
		return nil, domain.ErrSMSDeliveryFailed
	}
	createCalled := false
	f.userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
		createCalled = true
		return nil
	}

	_, err := f.svc.Register(context.Background(), domain.RegisterInput{
		Email: "new@example.com",
		Phone: "9812345678",
	})
	require.ErrorIs(t, err, domain.ErrSMSDeliveryFailed)
	require.False(t, createCalled, "no account may be created when OTP issuance fails")
}

func TestAuthService_SendLoginOTP(t *testing.T) {
	t.Run("empty identifier", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.SendLoginOTP(context.Background(), "")
		require.ErrorIs(t, err, domain.ErrIdentifierRequired)
	})

	t.Run("unknown user is never created", func(t *testing.T) {
		f := newAuthFixture()
		createCalled := false
		f.userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
			createCalled = true
			return nil
		}

		_, err := f.svc.SendLoginOTP(context.Background(), "9812345678")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
		require.False(t, createCalled)
		require.Empty(t, f.otpSvc.Issued)
	})

	t.Run("inactive user is refused", func(t *testing.T) {
		f := newAuthFixture()
		user := activeUser(1)
		user.IsActive = false
		f.userRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.User, error) {
			return user, nil
		}

		_, err := f.svc.SendLoginOTP(context.Background(), "9812345678")
		require.ErrorIs(t, err, domain.ErrUserInactive)
		require.Empty(t, f.otpSvc.Issued)
	})

	t.Run("phone identifier uses phone channel", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.User, error) {
			return activeUser(1), nil
		}

		result, err := f.svc.SendLoginOTP(context.Background(), "98123 45678")
		require.NoError(t, err)
		require.True(t, result.OTPSent)

		require.Len(t, f.otpSvc.Issued, 1)
		require.Equal(t, "9812345678", f.otpSvc.Issued[0].Identifier)
		require.Equal(t, domain.ChannelPhone, f.otpSvc.Issued[0].Channel)
		require.Equal(t, domain.PurposeLogin, f.otpSvc.Issued[0].Purpose)
	})

	t.Run("email identifier uses stubbed email channel", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
			return activeUser(1), nil
		}

		result, err := f.svc.SendLoginOTP(context.Background(), "user@example.com")
		require.NoError(t, err)
		require.False(t, result.OTPSent, "email delivery is stubbed")

		require.Len(t, f.otpSvc.Issued, 1)
		require.Equal(t, "user@example.com", f.otpSvc.Issued[0].Identifier)
		require.Equal(t, domain.ChannelEmail, f.otpSvc.Issued[0].Channel)
	})
}

// seedVerifyFixture wires a stored user and a live register OTP behind the
// in-memory repositories.
func seedVerifyFixture(t *testing.T, user *domain.User, code string, purpose domain.OTPPurpose) *authServiceFixture {
	t.Helper()
	f := newAuthFixture()
	f.userRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.User, error) {
		if phone == user.Phone {
			return user, nil
		}
		return nil, domain.ErrUserNotFound
	}
	f.userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
		if email == user.Email {
			return user, nil
		}
		return nil, domain.ErrUserNotFound
	}

	record := &domain.OTPRecord{
		Identifier: user.Phone,
		Code:       code,
		Type:       domain.ChannelPhone,
		Purpose:    purpose,
		ExpiresAt:  time.Now().Add(10 * time.Minute),
	}
	require.NoError(t, f.otpRepo.Create(context.Background(), record))
	return f
}

func TestAuthService_VerifyOTP_FormatGate(t *testing.T) {
	f := newAuthFixture()
	lookupCalled := false
	f.otpRepo.FindLatestValidFunc = func(ctx context.Context, identifier, code string) (*domain.OTPRecord, error) {
		lookupCalled = true
		return nil, domain.ErrOTPNotFound
	}

	for _, otp := range []string{"", "12345", "1234567", "12345a", "12 456"} {
		_, err := f.svc.VerifyOTP(context.Background(), domain.VerifyOTPInput{Phone: "9812345678", OTP: otp})
		require.ErrorIs(t, err, domain.ErrInvalidOTPFormat, "otp %q", otp)
	}
	require.False(t, lookupCalled, "format gate must run before any lookup")
}

func TestAuthService_VerifyOTP_Errors(t *testing.T) {
	t.Run("identifier required", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.VerifyOTP(context.Background(), domain.VerifyOTPInput{OTP: "123456"})
		require.ErrorIs(t, err, domain.ErrIdentifierRequired)
	})

	t.Run("user not found", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.VerifyOTP(context.Background(), domain.VerifyOTPInput{Phone: "9812345678", OTP: "123456"})
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("wrong code", func(t *testing.T) {
		user := activeUser(1)
		f := seedVerifyFixture(t, user, "111111", domain.PurposeRegister)

		_, err := f.svc.VerifyOTP(context.Background(), domain.VerifyOTPInput{Phone: user.Phone, OTP: "222222"})
		require.ErrorIs(t, err, domain.ErrOTPInvalid)
	})

	t.Run("expired code", func(t *testing.T) {
		user := activeUser(1)
		f := newAuthFixture()
		f.userRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.User, error) {
			return user, nil
		}
		require.NoError(t, f.otpRepo.Create(context.Background(), &domain.OTPRecord{
			Identifier: user.Phone,
			Code:       "111111",
			Purpose:    domain.PurposeRegister,
			ExpiresAt:  time.Now().Add(-time.Minute),
		}))

		_, err := f.svc.VerifyOTP(context.Background(), domain.VerifyOTPInput{Phone: user.Phone, OTP: "111111"})
		require.ErrorIs(t, err, domain.ErrOTPExpired)
	})

	t.Run("code is single use", func(t *testing.T) {
		user := activeUser(1)
		f := seedVerifyFixture(t, user, "111111", domain.PurposeRegister)

		_, err := f.svc.VerifyOTP(context.Background(), domain.VerifyOTPInput{Phone: user.Phone, OTP: "111111"})
		require.NoError(t, err)

		_, err = f.svc.VerifyOTP(context.Background(), domain.VerifyOTPInput{Phone: user.Phone, OTP: "111111"})
		require.ErrorIs(t, err, domain.ErrOTPInvalid)
	})
}

func TestAuthService_VerifyOTP_MostRecentCodeWins(t *testing.T) {
	user := activeUser(1)
	f := seedVerifyFixture(t, user, "111111", domain.PurposeRegister)

	// A resend stores a second code; both remain verifiable, and verifying
	// the newer one leaves the older untouched.
	require.NoError(t, f.otpRepo.Create(context.Background(), &domain.OTPRecord{
		Identifier: user.Phone,
		Code:       "222222",
		Purpose:    domain.PurposeRegister,
		ExpiresAt:  time.Now().Add(10 * time.Minute),
	}))

	_, err := f.svc.VerifyOTP(context.Background(), domain.VerifyOTPInput{Phone: user.Phone, OTP: "222222"})
	require.NoError(t, err)

	_, err = f.svc.VerifyOTP(context.Background(), domain.VerifyOTPInput{Phone: user.Phone, OTP: "111111"})
	require.NoError(t, err, "older outstanding code stays valid")
}

func TestAuthService_VerifyOTP_Success(t *testing.T) {
	user := activeUser(1)
	user.Name = "Asha"
	user.Age = "28"
	f := seedVerifyFixture(t, user, "111111", domain.PurposeRegister)

	var updated *domain.User
	f.userRepo.UpdateFunc = func(ctx context.Context, u *domain.User) error {
		updated = u
		return nil
	}

	result, err := f.svc.VerifyOTP(context.Background(), domain.VerifyOTPInput{Phone: user.Phone, OTP: "111111"})
	require.NoError(t, err)

	require.Equal(t, "access_1_user", result.AccessToken)
	require.Equal(t, "refresh_1_user", result.RefreshToken)
	require.True(t, result.User.IsPhoneVerified)
	require.False(t, result.User.IsEmailVerified, "email was not part of the request")

	require.NotNil(t, updated)
	// name, email, phone, age filled out of the seven tracked fields
	require.Equal(t, 57, updated.ProfileComplete)
}

func TestAuthService_VerifyOTP_EmailIdentifier(t *testing.T) {
	user := activeUser(1)
	f := newAuthFixture()
	f.userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
		return user, nil
	}
	require.NoError(t, f.otpRepo.Create(context.Background(), &domain.OTPRecord{
		Identifier: user.Email,
		Code:       "333333",
		Purpose:    domain.PurposeLogin,
		ExpiresAt:  time.Now().Add(10 * time.Minute),
	}))

	result, err := f.svc.VerifyOTP(context.Background(), domain.VerifyOTPInput{Email: user.Email, OTP: "333333"})
	require.NoError(t, err)
	require.True(t, result.User.IsEmailVerified)
	require.False(t, result.User.IsPhoneVerified)
}

func TestAuthService_VerifyOTP_ReferralDispatch(t *testing.T) {
	t.Run("fires once on first signup verification", func(t *testing.T) {
		user := activeUser(1)
		user.ReferredBy = 42
		f := seedVerifyFixture(t, user, "111111", domain.PurposeRegister)

		_, err := f.svc.VerifyOTP(context.Background(), domain.VerifyOTPInput{Phone: user.Phone, OTP: "111111"})
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			return len(f.referral.Events()) == 1
		}, time.Second, 10*time.Millisecond)

		event := f.referral.Events()[0]
		require.Equal(t, domain.SignupReferralEvent, event.EventType)
		require.Equal(t, uint(42), event.ReferrerID)
		require.Equal(t, uint(1), event.ReferredID)
	})

	t.Run("does not fire on repeat verification", func(t *testing.T) {
		user := activeUser(1)
		user.ReferredBy = 42
		user.IsPhoneVerified = true
		f := seedVerifyFixture(t, user, "111111", domain.PurposeRegister)

		_, err := f.svc.VerifyOTP(context.Background(), domain.VerifyOTPInput{Phone: user.Phone, OTP: "111111"})
		require.NoError(t, err)

		time.Sleep(50 * time.Millisecond)
		require.Empty(t, f.referral.Events())
	})

	t.Run("does not fire for login purpose", func(t *testing.T) {
		user := activeUser(1)
		user.ReferredBy = 42
		f := seedVerifyFixture(t, user, "111111", domain.PurposeLogin)

		_, err := f.svc.VerifyOTP(context.Background(), domain.VerifyOTPInput{Phone: user.Phone, OTP: "111111"})
		require.NoError(t, err)

		time.Sleep(50 * time.Millisecond)
		require.Empty(t, f.referral.Events())
	})

	t.Run("does not fire without a referrer", func(t *testing.T) {
		user := activeUser(1)
		f := seedVerifyFixture(t, user, "111111", domain.PurposeRegister)

		_, err := f.svc.VerifyOTP(context.Background(), domain.VerifyOTPInput{Phone: user.Phone, OTP: "111111"})
		require.NoError(t, err)

		time.Sleep(50 * time.Millisecond)
		require.Empty(t, f.referral.Events())
	})
}

func TestAuthService_ResendOTP(t *testing.T) {
	t.Run("identifier required", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.ResendOTP(context.Background(), domain.ResendOTPInput{})
		require.ErrorIs(t, err, domain.ErrIdentifierRequired)
	})

	t.Run("user not found", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.ResendOTP(context.Background(), domain.ResendOTPInput{Phone: "9812345678"})
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("purpose defaults to register", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.User, error) {
			return activeUser(1), nil
		}

		_, err := f.svc.ResendOTP(context.Background(), domain.ResendOTPInput{Phone: "9812345678"})
		require.NoError(t, err)
		require.Len(t, f.otpSvc.Issued, 1)
		require.Equal(t, domain.PurposeRegister, f.otpSvc.Issued[0].Purpose)
	})

	t.Run("explicit purpose is preserved", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.User, error) {
			return activeUser(1), nil
		}

		_, err := f.svc.ResendOTP(context.Background(), domain.ResendOTPInput{Phone: "9812345678", Purpose: domain.PurposeLogin})
		require.NoError(t, err)
		require.Len(t, f.otpSvc.Issued, 1)
		require.Equal(t, domain.PurposeLogin, f.otpSvc.Issued[0].Purpose)
	})

	t.Run("user record is untouched", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.User, error) {
			return activeUser(1), nil
		}
		updateCalled := false
		f.userRepo.UpdateFunc = func(ctx context.Context, user *domain.User) error {
			updateCalled = true
			return nil
		}

		_, err := f.svc.ResendOTP(context.Background(), domain.ResendOTPInput{Phone: "9812345678"})
		require.NoError(t, err)
		require.False(t, updateCalled)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("invalid token", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.RefreshToken(context.Background(), "garbage")
		require.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newAuthFixture()
		f.tokenSvc.ValidateRefreshTokenFunc = func(token string) (*domain.TokenClaims, error) {
			return nil, domain.ErrTokenExpired
		}
		_, err := f.svc.RefreshToken(context.Background(), "expired")
		require.ErrorIs(t, err, domain.ErrTokenExpired)
	})

	t.Run("user no longer exists", func(t *testing.T) {
		f := newAuthFixture()
		f.tokenSvc.ValidateRefreshTokenFunc = func(token string) (*domain.TokenClaims, error) {
			return &domain.TokenClaims{UserID: 1, Role: "user", TokenType: "refresh"}, nil
		}
		_, err := f.svc.RefreshToken(context.Background(), "valid")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("inactive user", func(t *testing.T) {
		f := newAuthFixture()
		f.tokenSvc.ValidateRefreshTokenFunc = func(token string) (*domain.TokenClaims, error) {
			return &domain.TokenClaims{UserID: 1, Role: "user", TokenType: "refresh"}, nil
		}
		f.userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) {
			user := activeUser(id)
			user.IsActive = false
			return user, nil
		}
		_, err := f.svc.RefreshToken(context.Background(), "valid")
		require.ErrorIs(t, err, domain.ErrUserInactive)
	})

	t.Run("issues a fresh access token only", func(t *testing.T) {
		f := newAuthFixture()
		f.tokenSvc.ValidateRefreshTokenFunc = func(token string) (*domain.TokenClaims, error) {
			return &domain.TokenClaims{UserID: 1, Role: "user", TokenType: "refresh"}, nil
		}
		f.userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) {
			return activeUser(id), nil
		}

		token, err := f.svc.RefreshToken(context.Background(), "valid")
		require.NoError(t, err)
		require.Equal(t, "access_1_user", token)
	})
}

func TestAuthService_GetUserProfile(t *testing.T) {
	f := newAuthFixture()
	f.userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) {
		if id == 1 {
			return activeUser(1), nil
		}
		return nil, domain.ErrUserNotFound
	}

	user, err := f.svc.GetUserProfile(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, uint(1), user.ID)

	_, err = f.svc.GetUserProfile(context.Background(), 2)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
