package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jayu6624/PRODIGY-FS-02/internal/auth"
	apperrors "github.com/jayu6624/PRODIGY-FS-02/internal/errors"
	"github.com/jayu6624/PRODIGY-FS-02/internal/model"
	"github.com/jayu6624/PRODIGY-FS-02/internal/repository"
)

const (
	bcryptCost = 10
	// bcrypt only accepts passwords up to this many bytes.
	maxPasswordBytes = 72
)

var phoneNumberPattern = regexp.MustCompile(`^\d{10}$`)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	PhoneNumber string
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (token string, user *model.User, err error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) bool
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

func validateRegisterInput(in RegisterInput) error {
	switch {
	case strings.TrimSpace(in.FirstName) == "":
		return fmt.Errorf("%w: firstname is required", apperrors.ErrValidation)
	case strings.TrimSpace(in.LastName) == "":
		return fmt.Errorf("%w: lastname is required", apperrors.ErrValidation)
	case model.NormalizeEmail(in.Email) == "":
		return fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	case in.Password == "":
		return fmt.Errorf("%w: password is required", apperrors.ErrValidation)
	case len(in.Password) > maxPasswordBytes:
		return fmt.Errorf("%w: password must be at most %d bytes", apperrors.ErrValidation, maxPasswordBytes)
	case in.PhoneNumber != "" && !phoneNumberPattern.MatchString(in.PhoneNumber):
		return fmt.Errorf("%w: invalid phone number format, please provide a 10-digit number", apperrors.ErrValidation)
	}
	return nil
}

// Register creates a new user with hashed password and issues a session token.
func (s *authService) Register(ctx context.Context, in RegisterInput) (string, *model.User, error) {
	if err := validateRegisterInput(in); err != nil {
		return "", nil, err
	}
	email := model.NormalizeEmail(in.Email)

	// Check if user already exists
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return "", nil, apperrors.ErrUserAlreadyExists
	}
	// If error is not "record not found", return it (could be a database error)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration won the race to the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", nil, apperrors.ErrUserAlreadyExists
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}

// Login authenticates a user and returns a session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}

// Logout revokes a token until it would have expired on its own.
func (s *authService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return apperrors.ErrUnauthenticated
	}
	return s.tokenStore.Revoke(ctx, tokenID, time.Until(expiresAt))
}

// IsRevoked reports whether a token was revoked by logout.
func (s *authService) IsRevoked(ctx context.Context, tokenID string) bool {
	revoked, err := s.tokenStore.IsRevoked(ctx, tokenID)
	return err == nil && revoked
}
