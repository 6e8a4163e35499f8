package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const claimsKey contextKey = "claims"

// TokenIssuer is the iss claim set by the auth service.
const TokenIssuer = "evcharge-auth"

// Claims is the caller identity extracted from a bearer token.
type Claims struct {
	UserID string
	Email  string
	Name   string
}

var errMissingToken = errors.New("missing authorization header")

// Authenticator validates HS256 bearer tokens issued by the auth service.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator returns an Authenticator for secret.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Require rejects requests without a valid token and stores the claims in the request context.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.parse(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) parse(r *http.Request) (Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return Claims{}, errMissingToken
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return Claims{}, errors.New("invalid authorization header")
	}

	token, err := jwt.Parse(strings.TrimSpace(parts[1]), func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenInvalidClaims
		}
		return a.secret, nil
	}, jwt.WithIssuer(TokenIssuer))
	if err != nil || !token.Valid {
		return Claims{}, errors.New("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid token claims")
	}
	userID, err := extractUserID(mapClaims)
	if err != nil {
		return Claims{}, errors.New("user id not found")
	}
	email, _ := mapClaims["email"].(string)
	name, _ := mapClaims["name"].(string)
	return Claims{UserID: userID, Email: email, Name: name}, nil
}

func extractUserID(claims jwt.MapClaims) (string, error) {
	switch v := claims["user_id"].(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return "", fmt.Errorf("user_id empty")
		}
		return v, nil
	case float64:
		return fmt.Sprintf("%.0f", v), nil
	default:
		return "", fmt.Errorf("user_id not present")
	}
}

// ClaimsFromContext retrieves the caller identity from the request context.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}

// WithClaims returns a context carrying claims.
func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}
