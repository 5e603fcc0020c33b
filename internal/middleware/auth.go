// Package middleware provides request middleware: principal resolution,
// authentication enforcement, rate limiting, and structured logging.
package middleware

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"mosaic/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// SessionCookie is the name of the cookie carrying the signed session token.
	SessionCookie = "mosaic_session"
	// PrincipalKey is the Fiber locals key holding the authenticated user ID.
	PrincipalKey = "userID"
	// LoginPath is the authentication entry point anonymous users are sent to.
	LoginPath = "/accounts/login/"

	tokenIssuer   = "mosaic-web"
	tokenAudience = "mosaic-browser"
	sessionTTL    = 7 * 24 * time.Hour
)

// IssueToken creates a signed session token for the given user.
func IssueToken(cfg *config.Config, userID uint, username string) (string, error) {
	if cfg.SessionSecret == "" {
		return "", fmt.Errorf("session secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"exp":      now.Add(sessionTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SessionSecret))
}

// SessionCookieValue wraps a token in a cookie ready to attach to a response.
func SessionCookieValue(token string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// ClearSessionCookie returns an expired session cookie.
func ClearSessionCookie() *fiber.Cookie {
	return &fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// Principal resolves the requesting user from the session cookie, if any.
// It never rejects the request; routes that require authentication stack
// LoginRequired on top. On success the user ID is stored in Locals and the
// request context for downstream handlers and logging.
func Principal(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(SessionCookie)
		if tokenString == "" {
			return c.Next()
		}

		userID, ok := parseSessionToken(cfg, tokenString)
		if !ok {
			// Stale or tampered cookie: drop it and continue anonymously.
			c.Cookie(ClearSessionCookie())
			return c.Next()
		}

		c.Locals(PrincipalKey, userID)
		ctx := context.WithValue(c.UserContext(), UserIDKey, userID)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// LoginRequired redirects anonymous requests to the login page, preserving
// the original target in the next query parameter so the user lands back
// where they intended after authenticating.
func LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := RequestPrincipal(c); ok {
			return c.Next()
		}

		target := c.OriginalURL()
		return c.Redirect(LoginPath+"?next="+url.QueryEscape(target), fiber.StatusFound)
	}
}

// RequestPrincipal returns the authenticated user ID stored by Principal.
func RequestPrincipal(c *fiber.Ctx) (uint, bool) {
	uid, ok := c.Locals(PrincipalKey).(uint)
	return uid, ok
}

func parseSessionToken(cfg *config.Config, tokenString string) (uint, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(cfg.SessionSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
		return 0, false
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
		return 0, false
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(userID), true
}
