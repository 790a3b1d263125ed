package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/platefeed/platefeed-backend/errs"
	"github.com/platefeed/platefeed-backend/models"
)

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	FindByEmail(email string) (*models.User, error)
	FindByID(id uuid.UUID) (*models.User, error)
	Add(user *models.User) error
	UpdatePassword(id uuid.UUID, passwordHash string) error
}

// RegisterInput is the signup payload after JSON decoding.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,username,max=150"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// AuthService issues and verifies bearer tokens and manages passwords.
// Handlers trust the principal it resolves and never re-derive identity.
type AuthService struct {
	logger   zerolog.Logger
	users    UserStore
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(users UserStore, secret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		logger:   log.With().Str("serviceName", "auth").Logger(),
		users:    users,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// Register validates the signup payload and creates the account with a
// bcrypt password hash.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if err := models.Validate.Struct(input); err != nil {
		return nil, errs.NewInvalidFieldError("user", err.Error())
	}

	existing, err := s.users.FindByEmail(input.Email)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if existing != nil {
		return nil, errs.NewAlreadyExists("user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to hash password", err)
	}

	user := &models.User{
		Email:        input.Email,
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hash),
	}
	if err := s.users.Add(user); err != nil {
		return nil, errs.NewDatabaseError("create", "user", err)
	}

	s.logger.Info().Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login verifies the credentials and returns a signed bearer token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return "", errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return "", errs.NewInvalidCredentialsError()
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", errs.NewInvalidCredentialsError()
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errs.NewInternalErrorWithCause("failed to sign token", err)
	}
	return token, nil
}

// SetPassword replaces the principal's password after verifying the
// current one.
func (s *AuthService) SetPassword(userID uuid.UUID, currentPassword, newPassword string) error {
	if len(newPassword) < 8 || len(newPassword) > 128 {
		return errs.NewInvalidFieldError("new_password", "must be between 8 and 128 characters")
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return errs.NewNotFoundError("user not found")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return errs.NewInvalidCredentialsError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errs.NewInternalErrorWithCause("failed to hash password", err)
	}
	if err := s.users.UpdatePassword(userID, string(hash)); err != nil {
		return errs.NewDatabaseError("update", "user password", err)
	}
	return nil
}

// ResolveToken verifies a bearer token and loads its principal.
func (s *AuthService) ResolveToken(token string) (*models.User, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.NewExpiredTokenError()
		}
		return nil, errs.NewInvalidTokenError()
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, errs.NewInvalidTokenError()
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errs.NewInvalidTokenError()
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return nil, errs.NewInvalidTokenError()
	}
	return user, nil
}
