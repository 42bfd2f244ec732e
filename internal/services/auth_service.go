package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/officevault/backend/internal/config"
	"github.com/officevault/backend/internal/dto"
	"github.com/officevault/backend/internal/models"
	"github.com/officevault/backend/internal/otp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrMissingFields      = errors.New("name, email, password and phone number are required")
	ErrEmailTaken         = errors.New("user already exists")
	ErrPhoneTaken         = errors.New("phone number already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotApproved        = errors.New("account pending approval")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoRecoveryContact  = errors.New("account has no phone number linked")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
	ErrDispatchFailed     = errors.New("failed to send recovery code")
)

type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	sender otp.Sender
}

func NewAuthService(db *gorm.DB, cfg *config.Config, sender otp.Sender) *AuthService {
	return &AuthService{db: db, cfg: cfg, sender: sender}
}

// Register creates an unapproved employee account. No token is issued;
// the account stays locked behind the approval gate.
func (s *AuthService) Register(req *dto.RegisterRequest) (*models.User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.PhoneNumber == "" {
		return nil, ErrMissingFields
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}
	if err := s.db.Where("phone_number = ?", req.PhoneNumber).First(&existing).Error; err == nil {
		return nil, ErrPhoneTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:          uuid.New(),
		Name:        req.Name,
		Email:       req.Email,
		Password:    string(hash),
		Role:        models.RoleEmployee,
		IsApproved:  false,
		PhoneNumber: req.PhoneNumber,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// Login checks credentials and the approval gate, then issues a token.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Role != models.RoleAdmin && !user.IsApproved {
		return nil, ErrNotApproved
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Token: token,
	}, nil
}

// ForgotOTP issues a recovery code: 6 digits, absolute expiry, stored
// on the user and dispatched out-of-band. A second request before the
// first code is consumed simply overwrites it; only the latest code is
// ever valid.
func (s *AuthService) ForgotOTP(email string) (string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return "", ErrUserNotFound
	}
	if user.PhoneNumber == "" {
		return "", ErrNoRecoveryContact
	}

	code, err := otp.Generate()
	if err != nil {
		return "", err
	}
	expire := time.Now().Add(s.cfg.OTPExpiry)

	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"otp":        code,
		"otp_expire": expire,
	}).Error; err != nil {
		return "", fmt.Errorf("failed to store otp: %w", err)
	}

	// The code travels to the account email; the acknowledgment masks
	// the linked phone number, which is what the user recognizes.
	if err := s.sender.Send(user.Email, code); err != nil {
		slog.Error("recovery code dispatch failed", "error", err, "user_id", user.ID.String())
		return "", ErrDispatchFailed
	}

	return otp.MaskContact(user.PhoneNumber), nil
}

// ResetOTP consumes a recovery code. Every failure collapses into the
// same generic error so callers cannot enumerate accounts.
func (s *AuthService) ResetOTP(req *dto.ResetOTPRequest) error {
	if req.OTP == "" || req.NewPassword == "" {
		return ErrInvalidOTP
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return ErrInvalidOTP
	}
	if !otp.VerifyCode(user.OTP, user.OTPExpire, req.OTP, time.Now()) {
		return ErrInvalidOTP
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Clearing both fields makes the code single-use.
	return s.db.Model(&user).Updates(map[string]interface{}{
		"password":   string(hash),
		"otp":        nil,
		"otp_expire": nil,
	}).Error
}

// ListApproved returns every approved user; passwords never serialize.
func (s *AuthService) ListApproved() ([]models.User, error) {
	var users []models.User
	if err := s.db.Where("is_approved = ?", true).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListPending returns unapproved non-admin accounts.
func (s *AuthService) ListPending() ([]models.User, error) {
	var users []models.User
	err := s.db.Where("is_approved = ? AND role <> ?", false, models.RoleAdmin).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending users: %w", err)
	}
	return users, nil
}

// Approve flips the gate open. The flag is monotonic: there is no
// unapprove, only rejection (deletion).
func (s *AuthService) Approve(id uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return ErrUserNotFound
	}
	return s.db.Model(&user).Update("is_approved", true).Error
}

// Reject deletes a pending account.
func (s *AuthService) Reject(id uuid.UUID) error {
	result := s.db.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(s.cfg.JWTExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
