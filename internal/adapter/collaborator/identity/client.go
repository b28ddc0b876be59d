// Package identity checks member KYC status against the identity service.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/chitledger/internal/adapter/collaborator/httpjson"
	"github.com/iho/chitledger/internal/usecase"
)

const (
	cacheKeyPrefix  = "kyc:"
	verifiedMarker  = "verified"
	defaultCacheTTL = 10 * time.Minute
)

// Client implements usecase.IdentityVerifier. Positive answers are cached;
// negatives are always re-checked so a member who completes KYC is not
// held back by a stale entry.
type Client struct {
	http     *httpjson.Client
	cache    usecase.Cache
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// Config holds identity service settings.
type Config struct {
	BaseURL  string
	Token    string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// NewClient creates a new identity Client. cache may be nil.
func NewClient(cfg Config, cache usecase.Cache, logger zerolog.Logger, opts ...httpjson.Option) *Client {
	if cfg.Token != "" {
		opts = append([]httpjson.Option{httpjson.WithBearerToken(cfg.Token)}, opts...)
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Client{
		http:     httpjson.New(cfg.BaseURL, cfg.Timeout, opts...),
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger,
	}
}

type kycResponse struct {
	UserID   string `json:"user_id"`
	Verified *bool  `json:"verified"`

	expectedUserID string
}

func (r *kycResponse) Validate() error {
	if r.Verified == nil {
		return errors.New("verified is required")
	}
	if r.UserID != r.expectedUserID {
		return fmt.Errorf("user_id %q does not match requested %q", r.UserID, r.expectedUserID)
	}
	return nil
}

// IsVerified reports whether the user passed KYC.
func (c *Client) IsVerified(ctx context.Context, userID string) (bool, error) {
	key := cacheKeyPrefix + userID

	if c.cache != nil {
		cached, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn().Err(err).Str("user_id", userID).Msg("kyc cache read failed")
		} else if cached == verifiedMarker {
			return true, nil
		}
	}

	resp := kycResponse{expectedUserID: userID}
	path := "/v1/users/" + url.PathEscape(userID) + "/kyc"
	if err := c.http.Do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return false, err
	}

	verified := *resp.Verified
	if verified && c.cache != nil {
		if err := c.cache.Set(ctx, key, verifiedMarker, c.cacheTTL); err != nil {
			c.logger.Warn().Err(err).Str("user_id", userID).Msg("kyc cache write failed")
		}
	}

	return verified, nil
}
