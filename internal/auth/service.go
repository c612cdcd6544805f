package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// ValidationError names the registration fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.Fields, ", ")
}

// UserStore is the credential-store surface the service depends on. The
// Postgres Store satisfies it; tests substitute fakes.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, u *User) error
}

type RevocationStore interface {
	Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Service struct {
	store       UserStore
	revoked     RevocationStore
	issuer      *Issuer
	defaultRole Role
	validate    *validator.Validate
}

func NewService(store UserStore, revoked RevocationStore, issuer *Issuer, defaultRole Role) *Service {
	return &Service{
		store:       store,
		revoked:     revoked,
		issuer:      issuer,
		defaultRole: defaultRole,
		validate:    validator.New(),
	}
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login verifies credentials and issues a fresh token pair. Unknown email and
// wrong password produce the identical error so callers cannot tell which
// check failed.
func (s *Service) Login(ctx context.Context, email, password string) (*User, TokenPair, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if !CheckPassword(password, user.PasswordHash) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	pair, err := s.issuePair(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

func (s *Service) issuePair(user *User) (TokenPair, error) {
	access, err := s.issuer.IssueAccessToken(user)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, _, _, err := s.issuer.IssueRefreshToken(user)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstname" validate:"required"`
	LastName  string `json:"lastname" validate:"required"`
}

// Register creates an account with the configured default role. A role
// requested through open registration is never honored; elevated accounts go
// through CreateUser.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	return s.createUser(ctx, input, s.defaultRole)
}

// CreateUser is the admin path: same validation, caller-chosen role.
func (s *Service) CreateUser(ctx context.Context, input RegisterInput, role Role) (*User, error) {
	return s.createUser(ctx, input, role)
}

func (s *Service) createUser(ctx context.Context, input RegisterInput, role Role) (*User, error) {
	// Normalize before validating so padded or mixed-case emails pass the
	// format check and land in the store in canonical form.
	input.Email = NormalizeEmail(input.Email)
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field()))
			}
			return nil, &ValidationError{Fields: fields}
		}
		return nil, err
	}
	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &User{
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         role,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout renders a refresh token unusable for future Refresh calls by
// recording its JTI in the revocation store.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.issuer.ParseRefreshToken(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.UserID, expiresAt)
}

// Refresh exchanges a valid, unrevoked refresh token for a new access token.
// The refresh token itself is not rotated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.issuer.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", ErrInvalidRefreshToken
	}
	user, err := s.store.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return s.issuer.IssueAccessToken(user)
}
