package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"orderhub_backend/internal/auth/password"
	"orderhub_backend/internal/auth/repository"
	"orderhub_backend/internal/auth/transport"
	"orderhub_backend/platform/apperr"
	"orderhub_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type fakeConfig struct{}

func (fakeConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (fakeConfig) GetAccessTokenTTL() time.Duration { return 15 * time.Minute }

type fakeUsers struct {
	users  []repository.User
	failed error
}

func (f *fakeUsers) GetUserByID(_ context.Context, businessID, userID uuid.UUID) (repository.User, error) {
	for _, u := range f.users {
		if u.ID == userID && u.BusinessID == businessID {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (f *fakeUsers) IsActiveModerator(ctx context.Context, businessID, userID uuid.UUID) (bool, error) {
	u, err := f.GetUserByID(ctx, businessID, userID)
	if err != nil {
		return false, nil
	}
	return u.Role == repository.RoleModerator && u.IsActive, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	if f.failed != nil {
		return repository.User{}, f.failed
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (f *fakeUsers) ListModerators(_ context.Context, businessID uuid.UUID) ([]repository.User, error) {
	var out []repository.User
	for _, u := range f.users {
		if u.BusinessID == businessID && u.Role == repository.RoleModerator {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) CreateUser(_ context.Context, user repository.User) (repository.User, error) {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.User{}, repository.ErrEmailTaken
		}
	}
	f.users = append(f.users, user)
	return user, nil
}

func (f *fakeUsers) SetActive(_ context.Context, businessID, userID uuid.UUID, active bool) (repository.User, error) {
	for i := range f.users {
		u := &f.users[i]
		if u.ID == userID && u.BusinessID == businessID && u.Role == repository.RoleModerator {
			u.IsActive = active
			return *u, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

var businessID = uuid.MustParse("00000000-0000-0000-0000-0000000000b1")

func newTestService(t *testing.T, users *fakeUsers) *Service {
	t.Helper()
	svc := New(users, fakeConfig{}, logger.New("test"))
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }
	return svc
}

func ownerWithPassword(t *testing.T, plain string, active bool) repository.User {
	t.Helper()
	hash, err := password.Hash(plain)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	return repository.User{
		ID:           uuid.New(),
		BusinessID:   businessID,
		Email:        "owner@shop.test",
		Name:         "Owner",
		PasswordHash: hash,
		Role:         repository.RoleOwner,
		IsActive:     active,
	}
}

func TestLoginIssuesAccessToken(t *testing.T) {
	owner := ownerWithPassword(t, "Sup3rSecret", true)
	svc := newTestService(t, &fakeUsers{users: []repository.User{owner}})

	res, err := svc.Login(context.Background(), "owner@shop.test", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	parsed, err := jwt.Parse(res.AccessToken, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return time.Date(2024, 3, 10, 9, 5, 0, 0, time.UTC) }))
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != owner.ID.String() || claims["business_id"] != businessID.String() {
		t.Fatalf("unexpected subject claims: %v", claims)
	}
	if claims["type"] != "access" {
		t.Fatalf("expected access token, got %v", claims["type"])
	}
	if !res.ExpiresAt.Equal(time.Date(2024, 3, 10, 9, 15, 0, 0, time.UTC)) {
		t.Fatalf("unexpected expiry %v", res.ExpiresAt)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	owner := ownerWithPassword(t, "Sup3rSecret", true)
	svc := newTestService(t, &fakeUsers{users: []repository.User{owner}})

	_, err := svc.Login(context.Background(), "owner@shop.test", "nope")
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized for a wrong password, got %v", err)
	}

	_, err = svc.Login(context.Background(), "ghost@shop.test", "Sup3rSecret")
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized for an unknown email, got %v", err)
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	owner := ownerWithPassword(t, "Sup3rSecret", false)
	svc := newTestService(t, &fakeUsers{users: []repository.User{owner}})

	_, err := svc.Login(context.Background(), "owner@shop.test", "Sup3rSecret")
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestLoginStorageFailureIsRetryable(t *testing.T) {
	svc := newTestService(t, &fakeUsers{failed: errors.New("connection reset")})

	_, err := svc.Login(context.Background(), "owner@shop.test", "Sup3rSecret")
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestCreateAndDeactivateModerator(t *testing.T) {
	users := &fakeUsers{}
	svc := newTestService(t, users)
	ctx := context.Background()

	created, err := svc.CreateModerator(ctx, businessID, transport.CreateModeratorRequest{
		Email:    " Mod@Shop.test ",
		Name:     "Mina",
		Password: "Moder4tor",
	})
	if err != nil {
		t.Fatalf("CreateModerator: %v", err)
	}
	if created.Email != "mod@shop.test" || created.Role != repository.RoleModerator || !created.IsActive {
		t.Fatalf("unexpected moderator: %+v", created)
	}
	if err := password.Compare(users.users[0].PasswordHash, "Moder4tor"); err != nil {
		t.Fatalf("stored hash does not match: %v", err)
	}

	_, err = svc.CreateModerator(ctx, businessID, transport.CreateModeratorRequest{
		Email: "mod@shop.test", Name: "Again", Password: "Moder4tor",
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for a taken email, got %v", err)
	}

	updated, err := svc.SetModeratorActive(ctx, businessID, created.ID, false)
	if err != nil {
		t.Fatalf("SetModeratorActive: %v", err)
	}
	if updated.IsActive {
		t.Fatal("moderator still active")
	}

	list, err := svc.ListModerators(ctx, businessID)
	if err != nil {
		t.Fatalf("ListModerators: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].IsActive {
		t.Fatalf("unexpected moderator list: %+v", list.Items)
	}

	_, err = svc.SetModeratorActive(ctx, uuid.New(), created.ID, true)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found across businesses, got %v", err)
	}
}
