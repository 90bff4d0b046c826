package middleware

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"repairdesk/internal/config"
	apperrors "repairdesk/internal/errors"
)

const (
	adminActorKey  = "adminActor"
	adminIssuer    = "repairdesk-admin"
	adminSubject   = "admin"
	adminTokenType = "admin_session"

	// ActorSharedSecret is recorded when a request authenticates with the
	// password itself rather than a session token.
	ActorSharedSecret = "admin:password"
	// ActorSession is recorded for requests carrying a session token.
	ActorSession = "admin:session"
)

// AdminClaims represents the claims in an admin session token.
type AdminClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// AdminAuth is the admin gate. Credentials are injected at construction so
// tests and the server can run side by side with different secrets.
type AdminAuth struct {
	password     string
	passwordHash string
	tokenSecret  []byte
	tokenTTL     time.Duration
	now          func() time.Time
}

// NewAdminAuth builds the gate from configuration.
func NewAdminAuth(cfg *config.Config) *AdminAuth {
	ttl := cfg.AdminTokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AdminAuth{
		password:     cfg.AdminPassword,
		passwordHash: cfg.AdminPasswordHash,
		tokenSecret:  []byte(cfg.AdminTokenSecret),
		tokenTTL:     ttl,
		now:          time.Now,
	}
}

// Configured reports whether any admin credential is set.
func (a *AdminAuth) Configured() bool {
	return a.password != "" || a.passwordHash != ""
}

// CheckPassword compares a candidate against the configured credential.
// ADMIN_PASSWORD_HASH takes precedence over the plain password.
func (a *AdminAuth) CheckPassword(candidate string) bool {
	if candidate == "" {
		return false
	}
	if a.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(candidate)) == nil
	}
	if a.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(a.password)) == 1
}

// IssueToken returns a signed session token and its expiry.
func (a *AdminAuth) IssueToken() (string, time.Time, error) {
	if len(a.tokenSecret) == 0 {
		return "", time.Time{}, fmt.Errorf("admin token secret is not configured")
	}
	now := a.now()
	expiresAt := now.Add(a.tokenTTL)
	claims := &AdminClaims{
		TokenType: adminTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    adminIssuer,
			Subject:   adminSubject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.tokenSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken parses a session token and rejects anything not issued by
// IssueToken.
func (a *AdminAuth) ValidateToken(tokenString string) error {
	if len(a.tokenSecret) == 0 {
		return fmt.Errorf("admin token secret is not configured")
	}
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.tokenSecret, nil
	},
		jwt.WithIssuer(adminIssuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		return fmt.Errorf("invalid or expired token")
	}
	if claims.TokenType != adminTokenType {
		return fmt.Errorf("token is not an admin session token")
	}
	return nil
}

// Middleware gates a route group. It accepts the password in the
// X-Admin-Password header or the pw query parameter, or a Bearer session
// token. Every failure looks the same to the caller.
func (a *AdminAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Configured() {
			abortWithAppError(c, apperrors.ErrAdminNotConfigured)
			return
		}

		if bearer, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if a.ValidateToken(bearer) != nil {
				abortWithAppError(c, apperrors.ErrUnauthorized)
				return
			}
			c.Set(adminActorKey, ActorSession)
			c.Next()
			return
		}

		pw := c.GetHeader("X-Admin-Password")
		if pw == "" {
			pw = c.Query("pw")
		}
		if !a.CheckPassword(pw) {
			abortWithAppError(c, apperrors.ErrUnauthorized)
			return
		}
		c.Set(adminActorKey, ActorSharedSecret)
		c.Next()
	}
}

// AdminActor returns the audit actor set by the admin gate.
func AdminActor(c *gin.Context) string {
	if actor := c.GetString(adminActorKey); actor != "" {
		return actor
	}
	return "anonymous"
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
