package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mollylil16/developpement-farm-sub012/internal/auth/domain"
	autherror "github.com/Mollylil16/developpement-farm-sub012/internal/errors"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// googleTokenInfo holds the verified claims returned by Google's token-info
// endpoint. The token is always redeemed server-side; client-supplied claims
// are never trusted directly.
type googleTokenInfo struct {
	Aud        string `json:"aud"`
	Sub        string `json:"sub"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

type OAuthService struct {
	users            domain.UserStore
	httpClient       *http.Client
	tokenInfoURL     string
	allowedAudiences []string
	logger           *zap.Logger
}

func NewOAuthService(users domain.UserStore, allowedAudiences []string,
	timeout time.Duration, logger *zap.Logger) *OAuthService {
	return &OAuthService{
		users:            users,
		httpClient:       &http.Client{Timeout: timeout},
		tokenInfoURL:     googleTokenInfoURL,
		allowedAudiences: allowedAudiences,
		logger:           logger,
	}
}

// VerifyGoogleToken redeems the identity token against Google, checks the
// audience allow-list, and resolves (or provisions) the local account. Every
// failure collapses to the same generic error; internal causes go to the log
// only, so the endpoint cannot be used as a validity oracle.
func (s *OAuthService) VerifyGoogleToken(ctx context.Context, idToken string) (*domain.User, error) {
	info, err := s.redeemGoogleToken(ctx, idToken)
	if err != nil {
		s.logger.Warn("google token verification failed", zap.Error(err))
		return nil, autherror.ErrInvalidOAuthToken
	}

	if !s.audienceAllowed(info.Aud) {
		// A signature-valid token minted for another application must be
		// rejected; accepting it would allow cross-app token substitution.
		s.logger.Warn("google token audience rejected", zap.String("aud", info.Aud))
		return nil, autherror.ErrInvalidOAuthToken
	}

	if info.Email == "" {
		s.logger.Warn("google token missing email claim")
		return nil, autherror.ErrInvalidOAuthToken
	}

	user, err := s.users.FindByEmail(ctx, info.Email, false)
	if err != nil {
		s.logger.Error("user lookup failed during google login", zap.Error(err))
		return nil, autherror.ErrInvalidOAuthToken
	}

	if user == nil {
		now := time.Now()
		user = &domain.User{
			ID:         uuid.NewString(),
			Email:      info.Email,
			FirstName:  info.GivenName,
			LastName:   info.FamilyName,
			Provider:   "google",
			ProviderID: info.Sub,
			Roles:      []string{"user"},
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			s.logger.Error("user provisioning failed during google login", zap.Error(err))
			return nil, autherror.ErrInvalidOAuthToken
		}
	}

	return user, nil
}

// VerifyAppleToken always fails closed: the Apple flow is not configured and
// must never silently accept an unverified identity.
func (s *OAuthService) VerifyAppleToken(_ context.Context, _ string) (*domain.User, error) {
	return nil, autherror.ErrOAuthNotConfigured
}

func (s *OAuthService) redeemGoogleToken(ctx context.Context, idToken string) (*googleTokenInfo, error) {
	endpoint := s.tokenInfoURL + "?id_token=" + url.QueryEscape(idToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo returned status %d", resp.StatusCode)
	}

	var info googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode tokeninfo response: %w", err)
	}

	return &info, nil
}

func (s *OAuthService) audienceAllowed(aud string) bool {
	for _, allowed := range s.allowedAudiences {
		if aud == allowed {
			return true
		}
	}
	return false
}
