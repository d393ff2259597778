package service

import (
	"context"
	"errors"
	"time"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/apperror"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/models"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/repository"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// Principal is the authenticated staff member behind a token.
type Principal struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type Claims struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type LoginResponse struct {
	Success bool      `json:"success"`
	Token   string    `json:"token"`
	Admin   Principal `json:"admin"`
}

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Verify(ctx context.Context, token string) (Principal, error)
	ChangePassword(ctx context.Context, principal Principal, req ChangePasswordRequest) error
	EnsureDefaultAdmin(ctx context.Context, username, password string) error
}

type authService struct {
	logger          *zap.Logger
	adminRepository repository.AdminRepository
	secret          []byte
	expire          time.Duration
	clock           func() time.Time
}

type AuthServiceProperty struct {
	Logger          *zap.Logger
	AdminRepository repository.AdminRepository
	JWTSecret       string
	JWTExpire       time.Duration
	Clock           func() time.Time
}

func NewAuthService(props AuthServiceProperty) AuthService {
	clock := props.Clock
	if clock == nil {
		clock = time.Now
	}
	return &authService{
		logger:          props.Logger.Named("auth-service"),
		adminRepository: props.AdminRepository,
		secret:          []byte(props.JWTSecret),
		expire:          props.JWTExpire,
		clock:           clock,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) sign(admin models.AdminUser) (string, error) {
	now := s.clock()
	claims := Claims{
		ID:       admin.ID,
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expire)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Login implements AuthService. Unknown users and wrong passwords get the
// same answer.
func (s *authService) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return LoginResponse{}, apperror.Validation("Username and password required")
	}

	admin, err := s.adminRepository.FindByUsername(ctx, req.Username)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return LoginResponse{}, apperror.Unauthorized("Invalid credentials")
		}
		return LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		s.logger.Info("Rejected login", zap.String("username", req.Username))
		return LoginResponse{}, apperror.Unauthorized("Invalid credentials")
	}

	token, err := s.sign(admin)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return LoginResponse{}, err
	}

	return LoginResponse{
		Success: true,
		Token:   token,
		Admin:   Principal{ID: admin.ID, Username: admin.Username},
	}, nil
}

// Verify implements AuthService.
func (s *authService) Verify(_ context.Context, token string) (Principal, error) {
	if token == "" {
		return Principal{}, apperror.Unauthorized("No token, authorization denied")
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, apperror.Unauthorized("Token expired")
		}
		return Principal{}, apperror.Unauthorized("Token is not valid")
	}

	return Principal{ID: claims.ID, Username: claims.Username}, nil
}

// ChangePassword implements AuthService.
func (s *authService) ChangePassword(ctx context.Context, principal Principal, req ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperror.Validation("Current password and new password required")
	}
	if len(req.NewPassword) < minPasswordLength {
		return apperror.Validation("New password must be at least %d characters", minPasswordLength)
	}

	admin, err := s.adminRepository.FindByID(ctx, principal.ID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.CurrentPassword)); err != nil {
		return apperror.Unauthorized("Current password is incorrect")
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.adminRepository.UpdatePassword(ctx, admin.ID, hash); err != nil {
		return err
	}

	s.logger.Info("Password changed", zap.String("username", admin.Username))
	return nil
}

// EnsureDefaultAdmin implements AuthService. The configured password always
// wins over the stored one. An empty password leaves the table untouched.
func (s *authService) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		s.logger.Warn("Default admin not configured, skipping")
		return nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	created, err := s.adminRepository.Ensure(ctx, username, hash)
	if err != nil {
		return err
	}
	if created {
		s.logger.Info("Default admin created", zap.String("username", username))
	} else {
		s.logger.Info("Default admin password reset from configuration", zap.String("username", username))
	}
	return nil
}
