package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ajaypanchal761/driveon-auth/domain"
)

// AuthHandlers handles authentication HTTP requests. Every response carries
// the {success, message} envelope; internal error detail rides along in an
// "error" field only outside production.
type AuthHandlers struct {
	authSvc    domain.AuthService
	production bool
	logger     zerolog.Logger
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, production bool, logger zerolog.Logger) *AuthHandlers {
	return &AuthHandlers{
		authSvc:    authSvc,
		production: production,
		logger:     logger,
	}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ReferralCode string `json:"referralCode"`
	FullName     string `json:"fullName"`
	Name         string `json:"name"`
}

// SendLoginOTPRequest represents a login OTP request
type SendLoginOTPRequest struct {
	EmailOrPhone string `json:"emailOrPhone"`
}

// VerifyOTPRequest represents OTP verification request
type VerifyOTPRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// ResendOTPRequest represents OTP resend request
type ResendOTPRequest struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Purpose string `json:"purpose"`
}

// RefreshRequest represents token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *AuthHandlers) ok(c *gin.Context, status int, message string, data gin.H) {
	c.JSON(status, gin.H{"success": true, "message": message, "data": data})
}

func (h *AuthHandlers) fail(c *gin.Context, status int, message string, err error) {
	body := gin.H{"success": false, "message": message}
	if err != nil && !h.production {
		body["error"] = err.Error()
	}
	c.JSON(status, body)
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	name := req.FullName
	if name == "" {
		name = req.Name
	}

	result, err := h.authSvc.Register(c.Request.Context(), domain.RegisterInput{
		Email:        req.Email,
		Phone:        req.Phone,
		Name:         name,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrIdentifierRequired):
			h.fail(c, http.StatusBadRequest, "Email and phone number are required", nil)
		case errors.Is(err, domain.ErrInvalidEmail):
			h.fail(c, http.StatusBadRequest, "Invalid email format", nil)
		case errors.Is(err, domain.ErrInvalidPhone):
			h.fail(c, http.StatusBadRequest, "Invalid phone number. Must be 10 digits starting with 6-9.", nil)
		case errors.Is(err, domain.ErrEmailAndPhoneTaken):
			h.fail(c, http.StatusBadRequest, "Email and phone number already registered", nil)
		case errors.Is(err, domain.ErrEmailTaken):
			h.fail(c, http.StatusBadRequest, "Email already registered", nil)
		case errors.Is(err, domain.ErrPhoneTaken):
			h.fail(c, http.StatusBadRequest, "Phone number already registered", nil)
		case errors.Is(err, domain.ErrOTPThrottled):
			h.fail(c, http.StatusTooManyRequests, "Please wait before requesting a new OTP", err)
		case errors.Is(err, domain.ErrSMSDeliveryFailed):
			h.fail(c, http.StatusInternalServerError, "Failed to send OTP. Please try again later.", err)
		default:
			h.logger.Error().Err(err).Msg("registration failed")
			h.fail(c, http.StatusInternalServerError, "Failed to register user", err)
		}
		return
	}

	h.ok(c, http.StatusCreated, "Registration successful. Please verify the OTP sent to your phone.", gin.H{
		"email":   result.Email,
		"phone":   result.Phone,
		"otpSent": result.OTPSent,
	})
}

// SendLoginOTP handles login OTP requests
func (h *AuthHandlers) SendLoginOTP(c *gin.Context) {
	var req SendLoginOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.authSvc.SendLoginOTP(c.Request.Context(), req.EmailOrPhone)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrIdentifierRequired):
			h.fail(c, http.StatusBadRequest, "Email or phone is required", nil)
		case errors.Is(err, domain.ErrInvalidEmail):
			h.fail(c, http.StatusBadRequest, "Invalid email format", nil)
		case errors.Is(err, domain.ErrInvalidPhone):
			h.fail(c, http.StatusBadRequest, "Invalid phone number. Must be 10 digits starting with 6-9.", nil)
		case errors.Is(err, domain.ErrUserNotFound):
			h.fail(c, http.StatusBadRequest, "User not found. Please signup first.", nil)
		case errors.Is(err, domain.ErrUserInactive):
			h.fail(c, http.StatusUnauthorized, "Account is inactive. Please contact support.", nil)
		case errors.Is(err, domain.ErrOTPThrottled):
			h.fail(c, http.StatusTooManyRequests, "Please wait before requesting a new OTP", err)
		case errors.Is(err, domain.ErrSMSDeliveryFailed):
			h.fail(c, http.StatusInternalServerError, "Failed to send OTP. Please try again later.", err)
		default:
			h.logger.Error().Err(err).Msg("send login otp failed")
			h.fail(c, http.StatusInternalServerError, "Failed to send OTP", err)
		}
		return
	}

	h.ok(c, http.StatusOK, "OTP sent successfully", gin.H{
		"phone":   result.Phone,
		"email":   result.Email,
		"otpSent": result.OTPSent,
	})
}

// VerifyOTP handles OTP verification
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.authSvc.VerifyOTP(c.Request.Context(), domain.VerifyOTPInput{
		Email: req.Email,
		Phone: req.Phone,
		OTP:   req.OTP,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidOTPFormat):
			h.fail(c, http.StatusBadRequest, "Invalid OTP format. OTP must be 6 digits.", nil)
		case errors.Is(err, domain.ErrIdentifierRequired):
			h.fail(c, http.StatusBadRequest, "Email or phone is required", nil)
		case errors.Is(err, domain.ErrInvalidEmail):
			h.fail(c, http.StatusBadRequest, "Invalid email format", nil)
		case errors.Is(err, domain.ErrInvalidPhone):
			h.fail(c, http.StatusBadRequest, "Invalid phone number. Must be 10 digits starting with 6-9.", nil)
		case errors.Is(err, domain.ErrUserNotFound):
			h.fail(c, http.StatusNotFound, "User not found", nil)
		case errors.Is(err, domain.ErrOTPExpired):
			h.fail(c, http.StatusBadRequest, "OTP has expired. Please request a new one.", nil)
		case errors.Is(err, domain.ErrOTPInvalid):
			h.fail(c, http.StatusBadRequest, "Invalid OTP", nil)
		default:
			h.logger.Error().Err(err).Msg("otp verification failed")
			h.fail(c, http.StatusInternalServerError, "OTP verification failed", err)
		}
		return
	}

	h.ok(c, http.StatusOK, "OTP verified successfully", gin.H{
		"token":        result.AccessToken,
		"refreshToken": result.RefreshToken,
		"user":         sanitizeUser(result.User),
	})
}

// ResendOTP handles OTP resend requests
func (h *AuthHandlers) ResendOTP(c *gin.Context) {
	var req ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.authSvc.ResendOTP(c.Request.Context(), domain.ResendOTPInput{
		Email:   req.Email,
		Phone:   req.Phone,
		Purpose: domain.OTPPurpose(req.Purpose),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrIdentifierRequired):
			h.fail(c, http.StatusBadRequest, "Email or phone is required", nil)
		case errors.Is(err, domain.ErrInvalidEmail):
			h.fail(c, http.StatusBadRequest, "Invalid email format", nil)
		case errors.Is(err, domain.ErrInvalidPhone):
			h.fail(c, http.StatusBadRequest, "Invalid phone number. Must be 10 digits starting with 6-9.", nil)
		case errors.Is(err, domain.ErrUserNotFound):
			h.fail(c, http.StatusNotFound, "User not found", nil)
		case errors.Is(err, domain.ErrOTPThrottled):
			h.fail(c, http.StatusTooManyRequests, "Please wait before requesting a new OTP", err)
		case errors.Is(err, domain.ErrSMSDeliveryFailed):
			h.fail(c, http.StatusInternalServerError, "Failed to send OTP. Please try again later.", err)
		default:
			h.logger.Error().Err(err).Msg("otp resend failed")
			h.fail(c, http.StatusInternalServerError, "Failed to resend OTP", err)
		}
		return
	}

	h.ok(c, http.StatusOK, "OTP resent successfully", gin.H{
		"phone":   result.Phone,
		"email":   result.Email,
		"otpSent": result.OTPSent,
	})
}

// RefreshToken handles token refresh
func (h *AuthHandlers) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "Refresh token is required", err)
		return
	}

	token, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			h.fail(c, http.StatusUnauthorized, "Refresh token expired. Please log in again.", nil)
		case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenMalformed), errors.Is(err, domain.ErrUserNotFound):
			h.fail(c, http.StatusUnauthorized, "Invalid refresh token", nil)
		case errors.Is(err, domain.ErrUserInactive):
			h.fail(c, http.StatusUnauthorized, "Account is inactive. Please contact support.", nil)
		default:
			h.logger.Error().Err(err).Msg("token refresh failed")
			h.fail(c, http.StatusInternalServerError, "Token refresh failed", err)
		}
		return
	}

	h.ok(c, http.StatusOK, "Token refreshed successfully", gin.H{"token": token})
}

// Logout handles user logout (requires authentication). There is no
// server-side token revocation in this design, so this is a stateless no-op;
// clients discard their tokens.
func (h *AuthHandlers) Logout(c *gin.Context) {
	h.ok(c, http.StatusOK, "Logged out successfully", gin.H{})
}

// Me handles getting user profile (requires authentication)
func (h *AuthHandlers) Me(c *gin.Context) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		h.fail(c, http.StatusUnauthorized, "User ID not found in context", nil)
		return
	}

	userID, err := strconv.ParseUint(userIDStr.(string), 10, 32)
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid user ID", err)
		return
	}

	user, err := h.authSvc.GetUserProfile(c.Request.Context(), uint(userID))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.fail(c, http.StatusNotFound, "User not found", nil)
			return
		}
		h.logger.Error().Err(err).Msg("profile lookup failed")
		h.fail(c, http.StatusInternalServerError, "Failed to get user profile", err)
		return
	}

	h.ok(c, http.StatusOK, "Profile fetched successfully", gin.H{"user": sanitizeUser(user)})
}

// sanitizeUser projects the account fields safe to put on the wire.
func sanitizeUser(user *domain.User) gin.H {
	return gin.H{
		"id":              user.ID,
		"name":            user.Name,
		"email":           user.Email,
		"phone":           user.Phone,
		"role":            user.Role,
		"isEmailVerified": user.IsEmailVerified,
		"isPhoneVerified": user.IsPhoneVerified,
		"referralCode":    user.ReferralCode,
		"profileComplete": user.ProfileComplete,
	}
}
