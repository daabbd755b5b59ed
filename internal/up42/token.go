package up42

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/robert-malhotra/eo-search/internal/backend"
)

const tokenPath = "/oauth/token"

// expiryMargin renews tokens shortly before the server expires them.
const expiryMargin = 30 * time.Second

type cachedToken struct {
	value   string
	expires time.Time
}

// TokenResponse is the OAuth2 client credentials response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// TokenCache keeps bearer tokens per project until they expire.
type TokenCache struct {
	mu    sync.Mutex
	cache *lru.Cache[string, cachedToken]
	now   func() time.Time
}

// NewTokenCache creates a cache holding at most size project tokens.
func NewTokenCache(size int) (*TokenCache, error) {
	if size <= 0 {
		size = 1
	}
	cache, err := lru.New[string, cachedToken](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create token cache: %w", err)
	}
	return &TokenCache{cache: cache, now: time.Now}, nil
}

// Get returns a valid cached token for projectID.
func (c *TokenCache) Get(projectID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tok, ok := c.cache.Get(projectID)
	if !ok {
		return "", false
	}
	if !c.now().Before(tok.expires) {
		c.cache.Remove(projectID)
		return "", false
	}
	return tok.value, true
}

// Put stores a token valid for ttl.
func (c *TokenCache) Put(projectID, token string, ttl time.Duration) {
	if ttl > 2*expiryMargin {
		ttl -= expiryMargin
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(projectID, cachedToken{value: token, expires: c.now().Add(ttl)})
}

// Len returns the number of cached tokens.
func (c *TokenCache) Len() int {
	return c.cache.Len()
}

// Token exchanges project credentials for a bearer token, using the cache
// when possible. A caller supplied token is used as is.
func (c *Client) Token(ctx context.Context, creds backend.Credentials) (string, error) {
	if creds.Token != "" {
		return creds.Token, nil
	}
	if creds.ProjectID == "" || creds.ProjectKey == "" {
		return "", fmt.Errorf("%w: UP42 requires a project id and key", backend.ErrAuth)
	}
	if c.tokens != nil {
		if tok, ok := c.tokens.Get(creds.ProjectID); ok {
			return tok, nil
		}
	}

	body, err := backend.Body(c.rest.R().
		SetContext(ctx).
		SetBasicAuth(creds.ProjectID, creds.ProjectKey).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		Post(tokenPath))
	if err != nil {
		return "", fmt.Errorf("UP42 token exchange failed: %w", err)
	}

	var resp TokenResponse
	if err := backend.DecodeJSON(body, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", backend.Malformed(fmt.Errorf("token response has no access_token"))
	}

	if c.tokens != nil && resp.ExpiresIn > 0 {
		c.tokens.Put(creds.ProjectID, resp.AccessToken, time.Duration(resp.ExpiresIn)*time.Second)
	}
	return resp.AccessToken, nil
}
