package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/acourtin/thefeed/internal/config"
	"github.com/acourtin/thefeed/internal/models"
)

// SessionCookie is the name of the session token cookie.
const SessionCookie = "feed_session"

// SessionTTL is how long a session token stays valid.
const SessionTTL = 24 * time.Hour

type contextKey struct{}

var identityKey contextKey

// Claims carried by the session token.
type Claims struct {
	Login string `json:"login"`
	jwt.RegisteredClaims
}

// IssueToken mints the session JWT for a user.
func IssueToken(cfg *config.Config, user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Login: user.Login,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTTL)),
		},
	})
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// Identify extracts the authenticated identity from the session cookie,
// if any, and attaches it to the request context. Anonymous requests and
// requests with invalid tokens pass through unauthenticated.
func Identify(cfg *config.Config) mux.MiddlewareFunc {
	secret := []byte(cfg.JWTSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity := identityFromCookie(r, secret); identity != nil {
				r = r.WithContext(context.WithValue(r.Context(), identityKey, *identity))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func identityFromCookie(r *http.Request, secret []byte) *models.Identity {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !token.Valid {
		return nil
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil
	}
	return &models.Identity{UserID: userID, Login: claims.Login}
}

// CurrentIdentity returns the authenticated identity, or nil when the
// request is anonymous.
func CurrentIdentity(ctx context.Context) *models.Identity {
	if identity, ok := ctx.Value(identityKey).(models.Identity); ok {
		return &identity
	}
	return nil
}
