package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nutriai/backend/internal/config"
	"github.com/nutriai/backend/internal/dto"
	"github.com/nutriai/backend/internal/models"
	"github.com/nutriai/backend/internal/observability"
	"github.com/nutriai/backend/internal/repository"
)

type AuthService struct {
	store repository.Store
	cfg   *config.Config
	now   Clock
}

func NewAuthService(store repository.Store, cfg *config.Config, now Clock) *AuthService {
	return &AuthService{store: store, cfg: cfg, now: now}
}

// TelegramSignIn verifies initData, creates the profile on first sign-in and
// issues a token pair.
func (s *AuthService) TelegramSignIn(ctx context.Context, initData string) (*dto.AuthResponse, error) {
	identity, err := VerifyInitData(initData, s.cfg.TelegramBotToken, s.cfg.TelegramInitDataMaxAge, s.now())
	if err != nil {
		observability.AuthAttempt("telegram", "rejected")
		return nil, err
	}

	var user *models.UserProfile
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		existing, err := tx.GetProfileByTelegramID(ctx, identity.ID)
		if errors.Is(err, repository.ErrNotFound) {
			user = &models.UserProfile{ID: uuid.New(), TelegramID: identity.ID}
			applyIdentity(user, identity)
			return tx.CreateProfile(ctx, user)
		}
		if err != nil {
			return err
		}
		user = existing
		if applyIdentity(user, identity) {
			return tx.SaveProfile(ctx, user)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert telegram user: %w", err)
	}

	observability.AuthAttempt("telegram", "ok")
	slog.Info("telegram sign-in", "user_id", user.ID.String())
	return s.generateTokenPair(ctx, user)
}

// applyIdentity copies non-empty Telegram names onto the profile and reports
// whether anything changed.
func applyIdentity(u *models.UserProfile, id *TelegramIdentity) bool {
	changed := false
	set := func(dst **string, v string) {
		if v == "" || (*dst != nil && **dst == v) {
			return
		}
		*dst = &v
		changed = true
	}
	set(&u.Username, id.Username)
	set(&u.FirstName, id.FirstName)
	set(&u.LastName, id.LastName)
	return changed
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrInvalidToken
	}
	tokenHash := hashToken(refreshToken)

	stored, err := s.store.GetActiveRefreshToken(ctx, tokenHash)
	if err != nil {
		observability.AuthAttempt("refresh", "rejected")
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if err := s.store.RevokeRefreshToken(ctx, tokenHash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			observability.AuthAttempt("refresh", "rejected")
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if s.now().After(stored.ExpiresAt) {
		observability.AuthAttempt("refresh", "rejected")
		return nil, ErrInvalidToken
	}

	user, err := s.store.GetProfile(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	observability.AuthAttempt("refresh", "ok")
	return s.generateTokenPair(ctx, user)
}

// Logout revokes the given refresh token if it belongs to userID.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	if refreshToken == "" {
		return invalid("refresh_token is required")
	}
	tokenHash := hashToken(refreshToken)
	stored, err := s.store.GetActiveRefreshToken(ctx, tokenHash)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if stored.UserID != userID {
		return nil
	}
	if err := s.store.RevokeRefreshToken(ctx, tokenHash); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// DeleteAccount removes the profile and everything it owns.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	err := s.store.DeleteProfile(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.UserProfile) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.UserProfile) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"tg_id": user.TelegramID,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.UserProfile) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: s.now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.store.CreateRefreshToken(ctx, &record); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
