package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"niyyah/internal/models"
)

const (
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Config controls token lifetimes and signing for the auth service.
type Config struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// TokenPair is the credential set returned by register, login, and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
}

// Service implements the credential and session lifecycle: password
// verification, access token issuance, and single-use refresh token rotation.
type Service struct {
	db  *gorm.DB
	cfg Config
}

// NewService returns a Service with default TTLs applied where unset.
func NewService(database *gorm.DB, cfg Config) (*Service, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key is required")
	}
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = defaultAccessTokenTTL
	}
	if cfg.RefreshTokenTTL <= 0 {
		cfg.RefreshTokenTTL = defaultRefreshTokenTTL
	}
	return &Service{db: database, cfg: cfg}, nil
}

// Register creates a new user with default settings and returns it. The email
// uniqueness index backstops the explicit lookup under concurrent registration.
func (s *Service) Register(ctx context.Context, email, password, tz string) (*models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if tz == "" {
		tz = "UTC"
	}

	user := models.User{
		Email:            email,
		PasswordHash:     hash,
		Timezone:         tz,
		Locale:           "en",
		SubscriptionTier: models.TierFree,
		IsActive:         true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}
		settings := models.DefaultSettings(user.ID)
		return tx.Create(&settings).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies email and password and returns the user. All failure
// modes collapse into ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// IssueTokens mints an access token and a fresh refresh token for the user,
// persisting only the refresh token's hash.
func (s *Service) IssueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := GenerateAccessToken(user.ID, []byte(s.cfg.SecretKey), s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	raw, err := NewRefreshSecret()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	row := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: HashRefreshSecret(raw),
		ExpiresAt: time.Now().Add(s.cfg.RefreshTokenTTL),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, TokenType: "bearer", RefreshToken: raw}, nil
}

// Refresh redeems a raw refresh token for a new pair. Redemption is
// single-use: the stored row is deleted before the new pair is issued, and the
// delete's affected-row count is the serialization point, so of two concurrent
// redemptions at most one succeeds.
func (s *Service) Refresh(ctx context.Context, raw string) (*TokenPair, error) {
	hashed := HashRefreshSecret(raw)

	var row models.RefreshToken
	if err := s.db.WithContext(ctx).Where("token_hash = ?", hashed).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	// Expired rows stay in place and become permanently unusable.
	if !row.ExpiresAt.After(time.Now()) {
		return nil, ErrInvalidRefreshToken
	}

	res := s.db.WithContext(ctx).Where("id = ?", row.ID).Delete(&models.RefreshToken{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// A concurrent redemption won the race.
		return nil, ErrInvalidRefreshToken
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", row.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidRefreshToken
	}

	return s.IssueTokens(ctx, &user)
}

// Revoke deletes any stored token matching the raw value. Revoking an unknown
// or already-revoked token is a silent no-op.
func (s *Service) Revoke(ctx context.Context, raw string) error {
	hashed := HashRefreshSecret(raw)
	return s.db.WithContext(ctx).Where("token_hash = ?", hashed).Delete(&models.RefreshToken{}).Error
}

// ParseToken validates an access token against the service secret.
func (s *Service) ParseToken(tokenString string) (uuid.UUID, error) {
	return ParseAccessToken(tokenString, []byte(s.cfg.SecretKey))
}
