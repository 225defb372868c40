package service

import (
	"context"
	"strings"
	"time"

	"sakkanal_backend/internal/auth/domain"
	"sakkanal_backend/internal/auth/password"
	"sakkanal_backend/internal/auth/repository"
	"sakkanal_backend/internal/auth/token"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType = "access"

	msgInvalidCredentials = "identifiants invalides"
	msgTokenInvalid       = "session invalide"
	msgTokenExpired       = "session expirée"
)

// Tokens is the result of a successful sign-in or refresh.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

type Service struct {
	repo repository.AuthRepository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
	now  func() time.Time
}

var _ domain.Service = (*Service)(nil)

func New(repo repository.AuthRepository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log, now: time.Now}
}

func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (Tokens, domain.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	admin, err := s.repo.GetAdminByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.log.AuthEvent("sign_in", email, false, "unknown email")
			return Tokens{}, domain.Profile{}, apperr.Unauthorized(msgInvalidCredentials)
		}
		return Tokens{}, domain.Profile{}, err
	}

	if err := password.Compare(admin.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("sign_in", email, false, "wrong password")
		return Tokens{}, domain.Profile{}, apperr.Unauthorized(msgInvalidCredentials)
	}
	if !admin.IsActive {
		s.log.AuthEvent("sign_in", email, false, "inactive account")
		return Tokens{}, domain.Profile{}, apperr.Forbidden("compte désactivé")
	}

	tokens, err := s.issueTokens(ctx, admin.ID)
	if err != nil {
		return Tokens{}, domain.Profile{}, err
	}
	if err := s.repo.TouchLastLogin(ctx, admin.ID); err != nil {
		s.log.Warn("failed to record last login", "adminId", admin.ID, "error", err)
	}

	s.log.AuthEvent("sign_in", email, true, "")
	return tokens, toProfile(admin), nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	hash := token.HashSHA256(refreshToken)
	adminID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return Tokens{}, apperr.Unauthorized(msgTokenInvalid)
		}
		return Tokens{}, err
	}

	_ = s.repo.RevokeRefreshToken(ctx, hash)
	if s.now().After(expiresAt) {
		return Tokens{}, apperr.Unauthorized(msgTokenExpired)
	}

	return s.issueTokens(ctx, adminID)
}

func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, token.HashSHA256(refreshToken))
}

func (s *Service) GetMe(ctx context.Context, adminID uuid.UUID) (domain.Profile, error) {
	admin, err := s.repo.GetAdminByID(ctx, adminID)
	if err != nil {
		return domain.Profile{}, err
	}
	return toProfile(admin), nil
}

func (s *Service) ChangePassword(ctx context.Context, adminID uuid.UUID, currentPassword, newPassword string) error {
	admin, err := s.repo.GetAdminByID(ctx, adminID)
	if err != nil {
		return err
	}
	if err := password.Compare(admin.PasswordHash, currentPassword); err != nil {
		return apperr.Validation("mot de passe actuel incorrect")
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "hash password", err)
	}
	if err := s.repo.UpdatePassword(ctx, adminID, hash); err != nil {
		return err
	}
	if err := s.repo.RevokeAllRefreshTokens(ctx, adminID); err != nil {
		return err
	}

	s.log.Info("admin password changed", "adminId", adminID)
	return nil
}

func (s *Service) ListActiveAdmins(ctx context.Context) ([]domain.Profile, error) {
	admins, err := s.repo.ListActiveAdmins(ctx)
	if err != nil {
		return nil, err
	}
	profiles := make([]domain.Profile, 0, len(admins))
	for _, admin := range admins {
		profiles = append(profiles, toProfile(admin))
	}
	return profiles, nil
}

// EnsureBootstrapAdmin creates the first admin account when none exists yet.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context, cfg config.AdminBootstrapConfig) error {
	email := strings.ToLower(strings.TrimSpace(cfg.GetAdminBootstrapEmail()))
	if email == "" {
		return nil
	}

	count, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := password.Hash(cfg.GetAdminBootstrapPassword())
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "hash password", err)
	}
	admin, err := s.repo.CreateAdmin(ctx, email, hash, "Administrateur")
	if err != nil {
		return err
	}

	s.log.Info("bootstrap admin created", "id", admin.ID, "email", admin.Email)
	return nil
}

func (s *Service) issueTokens(ctx context.Context, adminID uuid.UUID) (Tokens, error) {
	accessToken, err := s.signJWT(adminID, []string{domain.RoleAdmin}, s.cfg.GetAccessTokenTTL())
	if err != nil {
		return Tokens{}, apperr.Wrap(apperr.KindInternal, "sign access token", err)
	}

	refreshToken, err := token.GenerateRandomToken(48)
	if err != nil {
		return Tokens{}, apperr.Wrap(apperr.KindInternal, "generate refresh token", err)
	}

	expiresAt := s.now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, adminID, token.HashSHA256(refreshToken), expiresAt); err != nil {
		return Tokens{}, err
	}

	return Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) signJWT(adminID uuid.UUID, roles []string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   adminID.String(),
		"type":  accessTokenType,
		"roles": roles,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func toProfile(admin repository.Admin) domain.Profile {
	return domain.Profile{
		ID:          admin.ID,
		Email:       admin.Email,
		FullName:    admin.FullName,
		IsActive:    admin.IsActive,
		LastLoginAt: admin.LastLoginAt,
		CreatedAt:   admin.CreatedAt,
	}
}
