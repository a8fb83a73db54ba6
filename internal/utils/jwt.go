package utils // package utils provides helper functions for token creation and hashing

import (
    "time" // time utilities for computing expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// TokenTTL is the fixed validity window of an access token. Sessions are
// persisted with the same expiry so the token and its session row always
// expire together.
const TokenTTL = 7 * 24 * time.Hour

// AccessToken represents a signed JWT along with its expiry. The Token
// field contains the serialized JWT string; Exp stores the UTC expiration
// instant. Tokens are sent in the Authorization header as a bearer value.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user. The claims embed
// the subject (user id), email and role so protected operations can resolve
// the caller without a lookup, plus the standard exp/iat timestamps.
func NewAccessToken(secret, userID, email, role string) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(TokenTTL)
    claims := jwt.MapClaims{
        "sub":   userID,
        "email": email,
        "role":  role,
        "exp":   exp.Unix(),
        "iat":   now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature and validity of a token and
// returns its claims. Only HMAC-signed tokens are accepted; anything else
// is rejected before the key is handed to the parser.
func ParseAccessToken(secret, raw string) (jwt.MapClaims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, jwt.ErrSignatureInvalid
        }
        return []byte(secret), nil
    })
    if err != nil {
        return nil, err
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok || !tok.Valid {
        return nil, jwt.ErrTokenInvalidClaims
    }
    return claims, nil
}
