package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// RoleClaim is the claim the appointment API puts the user's role in.
const RoleClaim = "role"

var ErrNoRole = errors.New("token has no role claim")

// ClaimsReader extracts claims from session tokens. A reader built without a
// key does not check signatures; its callers must only receive tokens from a
// trusted source.
type ClaimsReader struct {
	parser  *jwt.Parser
	keyfunc jwt.Keyfunc
}

// NewUnverifiedReader decodes the payload segment without verifying the
// signature. The role it yields is only as trustworthy as the cookie jar.
func NewUnverifiedReader() *ClaimsReader {
	return &ClaimsReader{parser: jwt.NewParser()}
}

// NewHMACReader verifies HS256/384/512 signatures with a key shared with the
// appointment API.
func NewHMACReader(key []byte) *ClaimsReader {
	return &ClaimsReader{
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})),
		keyfunc: func(*jwt.Token) (interface{}, error) {
			return key, nil
		},
	}
}

// NewJWKSReader verifies RSA signatures with keys published by the API.
func NewJWKSReader(cache *JWKSCache) *ClaimsReader {
	return &ClaimsReader{
		parser:  jwt.NewParser(jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"})),
		keyfunc: cache.Keyfunc,
	}
}

// Verifies reports whether signatures are checked.
func (r *ClaimsReader) Verifies() bool {
	return r.keyfunc != nil
}

// Claims returns the token's claims. With a verifying reader, an invalid
// signature or an expired token is an error.
func (r *ClaimsReader) Claims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if r.keyfunc == nil {
		if _, _, err := r.parser.ParseUnverified(token, claims); err != nil {
			return nil, err
		}
		return claims, nil
	}
	tok, err := r.parser.ParseWithClaims(token, claims, r.keyfunc)
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}

// Role returns the value of the "role" claim.
func (r *ClaimsReader) Role(token string) (Role, error) {
	claims, err := r.Claims(token)
	if err != nil {
		return "", err
	}
	v, ok := claims[RoleClaim].(string)
	if !ok || v == "" {
		return "", ErrNoRole
	}
	return Role(v), nil
}

// DecodeRole is Role without the reason: false for malformed, unverifiable or
// role-less tokens.
func (r *ClaimsReader) DecodeRole(token string) (Role, bool) {
	role, err := r.Role(token)
	if err != nil {
		return "", false
	}
	return role, true
}
