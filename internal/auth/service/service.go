package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"orderhub_backend/internal/auth/password"
	"orderhub_backend/internal/auth/repository"
	"orderhub_backend/internal/auth/token"
	"orderhub_backend/internal/auth/transport"
	"orderhub_backend/platform/apperr"
	"orderhub_backend/platform/config"
	"orderhub_backend/platform/logger"
	"orderhub_backend/platform/sanitize"

	"github.com/google/uuid"
)

const msgInvalidCredentials = "invalid email or password"

type Service struct {
	repo repository.UserRepository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
	now  func() time.Time
}

func New(repo repository.UserRepository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log, now: time.Now}
}

// Login checks the credentials of an active user and issues an access token.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (transport.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.AuthEvent("login", email, false, "unknown email")
			return transport.AuthResponse{}, apperr.Unauthorized(msgInvalidCredentials)
		}
		return transport.AuthResponse{}, apperr.Unavailable("could not sign in", err)
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("login", email, false, "wrong password")
		return transport.AuthResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}
	if !user.IsActive {
		s.log.AuthEvent("login", email, false, "inactive")
		return transport.AuthResponse{}, apperr.Forbidden("account is deactivated")
	}

	now := s.now().UTC()
	ttl := s.cfg.GetAccessTokenTTL()
	accessToken, err := token.SignAccess(token.Subject{
		UserID:     user.ID,
		BusinessID: user.BusinessID,
		Roles:      []string{user.Role},
	}, s.cfg.GetJWTAccessSecret(), ttl, now)
	if err != nil {
		return transport.AuthResponse{}, apperr.Wrap(apperr.KindInternal, "could not issue token", err)
	}

	s.log.AuthEvent("login", email, true, "")
	return transport.AuthResponse{
		AccessToken: accessToken,
		ExpiresAt:   now.Add(ttl),
		User:        toUserResponse(user),
	}, nil
}

func (s *Service) ListModerators(ctx context.Context, businessID uuid.UUID) (transport.ModeratorListResponse, error) {
	users, err := s.repo.ListModerators(ctx, businessID)
	if err != nil {
		return transport.ModeratorListResponse{}, apperr.Unavailable("could not load moderators", err)
	}

	items := make([]transport.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toUserResponse(user))
	}
	return transport.ModeratorListResponse{Items: items}, nil
}

// CreateModerator adds an active moderator account to the business.
func (s *Service) CreateModerator(ctx context.Context, businessID uuid.UUID, req transport.CreateModeratorRequest) (transport.UserResponse, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.UserResponse{}, apperr.Wrap(apperr.KindInternal, "could not hash password", err)
	}

	user, err := s.repo.CreateUser(ctx, repository.User{
		ID:           uuid.New(),
		BusinessID:   businessID,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         sanitize.Text(req.Name),
		PasswordHash: hash,
		Role:         repository.RoleModerator,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return transport.UserResponse{}, apperr.Conflict("email already registered")
		}
		return transport.UserResponse{}, apperr.Unavailable("could not create moderator", err)
	}
	return toUserResponse(user), nil
}

// SetModeratorActive activates or deactivates a moderator of the business.
func (s *Service) SetModeratorActive(ctx context.Context, businessID, moderatorID uuid.UUID, active bool) (transport.UserResponse, error) {
	user, err := s.repo.SetActive(ctx, businessID, moderatorID, active)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.UserResponse{}, apperr.NotFound("moderator not found")
		}
		return transport.UserResponse{}, apperr.Unavailable("could not update moderator", err)
	}
	return toUserResponse(user), nil
}

func toUserResponse(user repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:         user.ID,
		BusinessID: user.BusinessID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		IsActive:   user.IsActive,
		CreatedAt:  user.CreatedAt,
	}
}
