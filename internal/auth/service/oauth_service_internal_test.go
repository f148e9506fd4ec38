package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Mollylil16/developpement-farm-sub012/internal/auth/domain"
	autherror "github.com/Mollylil16/developpement-farm-sub012/internal/errors"
)

// fakeUserStore is a minimal in-memory UserStore. The generated mocks live in
// a package that imports this one, so an in-package test needs its own double.
type fakeUserStore struct {
	byEmail map[string]*domain.User
	created []*domain.User
	findErr error
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string, _ bool) (*domain.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byEmail[email], nil
}

func (f *fakeUserStore) FindByTelephone(context.Context, string, bool) (*domain.User, error) {
	return nil, nil
}

func (f *fakeUserStore) FindByID(context.Context, string) (*domain.User, error) { return nil, nil }

func (f *fakeUserStore) Create(_ context.Context, u *domain.User) error {
	f.created = append(f.created, u)
	return nil
}

func (f *fakeUserStore) UpdatePassword(context.Context, string, string) error { return nil }

func (f *fakeUserStore) UpdateLastConnection(context.Context, string) error { return nil }

func (f *fakeUserStore) Delete(context.Context, string) error { return nil }

func newTestOAuthService(t *testing.T, users *fakeUserStore, info googleTokenInfo, status int) *OAuthService {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_ = json.NewEncoder(w).Encode(info)
	}))
	t.Cleanup(srv.Close)

	s := NewOAuthService(users, []string{"farm-app.apps.googleusercontent.com"}, 2*time.Second, zap.NewNop())
	s.tokenInfoURL = srv.URL

	return s
}

func TestOAuthService_VerifyGoogleToken_ExistingUser(t *testing.T) {
	existing := &domain.User{ID: "user-1", Email: "farmer@example.com", Roles: []string{"user"}}
	users := &fakeUserStore{byEmail: map[string]*domain.User{"farmer@example.com": existing}}

	s := newTestOAuthService(t, users, googleTokenInfo{
		Aud:   "farm-app.apps.googleusercontent.com",
		Sub:   "google-sub-1",
		Email: "farmer@example.com",
	}, http.StatusOK)

	user, err := s.VerifyGoogleToken(context.Background(), "id-token")

	assert.NoError(t, err)
	assert.Equal(t, existing, user)
	assert.Empty(t, users.created)
}

func TestOAuthService_VerifyGoogleToken_ProvisionsNewUser(t *testing.T) {
	users := &fakeUserStore{byEmail: map[string]*domain.User{}}

	s := newTestOAuthService(t, users, googleTokenInfo{
		Aud:        "farm-app.apps.googleusercontent.com",
		Sub:        "google-sub-2",
		Email:      "new@example.com",
		GivenName:  "Awa",
		FamilyName: "Diallo",
	}, http.StatusOK)

	user, err := s.VerifyGoogleToken(context.Background(), "id-token")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Len(t, users.created, 1)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, "Awa", user.FirstName)
	assert.Equal(t, "Diallo", user.LastName)
	assert.Equal(t, "google", user.Provider)
	assert.Equal(t, "google-sub-2", user.ProviderID)
	assert.Equal(t, []string{"user"}, user.Roles)
	assert.NotEmpty(t, user.ID)
	assert.Empty(t, user.PasswordHash)
}

func TestOAuthService_VerifyGoogleToken_AudienceRejected(t *testing.T) {
	users := &fakeUserStore{byEmail: map[string]*domain.User{}}

	s := newTestOAuthService(t, users, googleTokenInfo{
		Aud:   "some-other-app.apps.googleusercontent.com",
		Email: "farmer@example.com",
	}, http.StatusOK)

	user, err := s.VerifyGoogleToken(context.Background(), "id-token")

	assert.ErrorIs(t, err, autherror.ErrInvalidOAuthToken)
	assert.Nil(t, user)
	assert.Empty(t, users.created)
}

func TestOAuthService_VerifyGoogleToken_MissingEmail(t *testing.T) {
	users := &fakeUserStore{byEmail: map[string]*domain.User{}}

	s := newTestOAuthService(t, users, googleTokenInfo{
		Aud: "farm-app.apps.googleusercontent.com",
		Sub: "google-sub-3",
	}, http.StatusOK)

	user, err := s.VerifyGoogleToken(context.Background(), "id-token")

	assert.ErrorIs(t, err, autherror.ErrInvalidOAuthToken)
	assert.Nil(t, user)
}

func TestOAuthService_VerifyGoogleToken_RedemptionFails(t *testing.T) {
	users := &fakeUserStore{byEmail: map[string]*domain.User{}}

	s := newTestOAuthService(t, users, googleTokenInfo{}, http.StatusBadRequest)

	user, err := s.VerifyGoogleToken(context.Background(), "garbage-token")

	// Malformed, expired and revoked tokens all collapse to the same error.
	assert.ErrorIs(t, err, autherror.ErrInvalidOAuthToken)
	assert.Nil(t, user)
}

func TestOAuthService_VerifyGoogleToken_LookupError(t *testing.T) {
	users := &fakeUserStore{findErr: assert.AnError}

	s := newTestOAuthService(t, users, googleTokenInfo{
		Aud:   "farm-app.apps.googleusercontent.com",
		Email: "farmer@example.com",
	}, http.StatusOK)

	user, err := s.VerifyGoogleToken(context.Background(), "id-token")

	assert.ErrorIs(t, err, autherror.ErrInvalidOAuthToken)
	assert.Nil(t, user)
}

func TestOAuthService_VerifyAppleToken_FailsClosed(t *testing.T) {
	s := NewOAuthService(&fakeUserStore{}, nil, time.Second, zap.NewNop())

	user, err := s.VerifyAppleToken(context.Background(), "identity-token")

	assert.ErrorIs(t, err, autherror.ErrOAuthNotConfigured)
	assert.Nil(t, user)
}
