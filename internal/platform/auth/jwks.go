package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const defaultJWKSCacheTTL = 5 * time.Minute

var (
	errNoKid      = errors.New("token has no kid header")
	errUnknownKid = errors.New("signing key not published")
)

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

// JWKSCache holds the API's RSA signing keys by kid. Fetches are serialized,
// and at most one happens per refetch interval (a tenth of the TTL) no matter
// how many unknown kids arrive.
type JWKSCache struct {
	url        string
	ttl        time.Duration
	minRefetch time.Duration
	client     *http.Client
	log        zerolog.Logger
	now        func() time.Time

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
	lastFetch time.Time
}

// JWKSOption configures a JWKSCache.
type JWKSOption func(*JWKSCache)

// WithJWKSLogger logs fetches and skipped keys.
func WithJWKSLogger(l zerolog.Logger) JWKSOption {
	return func(c *JWKSCache) { c.log = l }
}

// NewJWKSCache creates a cache for jwksURL. A nil client gets a 10 second
// timeout; ttl <= 0 means five minutes.
func NewJWKSCache(jwksURL string, ttl time.Duration, client *http.Client, opts ...JWKSOption) *JWKSCache {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if ttl <= 0 {
		ttl = defaultJWKSCacheTTL
	}
	c := &JWKSCache{
		url:        jwksURL,
		ttl:        ttl,
		minRefetch: ttl / 10,
		client:     client,
		log:        zerolog.Nop(),
		now:        time.Now,
		keys:       map[string]*rsa.PublicKey{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Keyfunc is a jwt.Keyfunc resolving the token's kid. A kid missing from a
// fresh key set only refetches once the refetch interval has passed; until
// then, and while the endpoint is failing, known keys are served as cached.
func (c *JWKSCache) Keyfunc(token *jwt.Token) (interface{}, error) {
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, errNoKid
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	key, known := c.keys[kid]
	if known && now.Sub(c.fetchedAt) < c.ttl {
		return key, nil
	}
	if !c.lastFetch.IsZero() && now.Sub(c.lastFetch) < c.minRefetch {
		if known {
			return key, nil
		}
		return nil, fmt.Errorf("%w: kid %q", errUnknownKid, kid)
	}

	c.lastFetch = now
	if err := c.refresh(now); err != nil {
		c.log.Error().Err(err).Str("url", c.url).Msg("jwks fetch failed")
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	if key, ok := c.keys[kid]; ok {
		return key, nil
	}
	return nil, fmt.Errorf("%w: kid %q", errUnknownKid, kid)
}

// refresh replaces the key set. Callers hold c.mu.
func (c *JWKSCache) refresh(now time.Time) error {
	resp, err := c.client.Get(c.url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	var set jwkSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("decode key set: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		pub, err := k.rsaKey()
		if err != nil {
			c.log.Warn().Err(err).Str("kid", k.Kid).Msg("skipping jwks key")
			continue
		}
		keys[k.Kid] = pub
	}
	c.keys = keys
	c.fetchedAt = now
	c.log.Debug().Int("keys", len(keys)).Msg("jwks refreshed")
	return nil
}

func (k jwk) rsaKey() (*rsa.PublicKey, error) {
	if k.Kty != "RSA" {
		return nil, fmt.Errorf("unsupported key type %q", k.Kty)
	}
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil || len(n) == 0 {
		return nil, fmt.Errorf("bad modulus")
	}
	e, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil || len(e) == 0 || len(e) > 4 {
		return nil, fmt.Errorf("bad exponent")
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(n),
		E: int(new(big.Int).SetBytes(e).Int64()),
	}, nil
}
