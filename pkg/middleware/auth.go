package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/amrivadeneyra/lunari-sub002/pkg/response"
)

var (
	ErrMissingSession = errors.New("missing session")
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
)

// Context keys for session information
const (
	ContextKeyUserID   = "user_id"
	ContextKeyEmail    = "email"
	ContextKeyRole     = "role"
	ContextKeyTenantID = "tenant_id"
)

// AuthConfig holds configuration for the session gate
type AuthConfig struct {
	// Secret key for validating session tokens
	Secret string
	// Issuer, when set, must match the token's iss claim
	Issuer string
	// CookieName is the session cookie checked before the Authorization header
	CookieName string
	// SignInURL receives unauthenticated page requests
	SignInURL string
	// Matcher decides which paths need a session; nil protects every path
	Matcher PathMatcher
}

// PathMatcher reports whether a request path needs a session
type PathMatcher interface {
	RequiresAuth(path string) bool
}

// Session is the verified identity attached to a request
type Session struct {
	UserID   string
	Email    string
	Role     string
	TenantID string
}

// AuthGate verifies the session on every request. Paths the matcher marks as
// protected are rejected without a valid session: API paths with a 401
// envelope, pages with a redirect to the sign-in URL. Other paths pass
// through, with the session attached when one is present.
func AuthGate(config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		session, err := config.authenticate(c)

		if session != nil {
			setSession(c, session)
		}

		if err == nil || !config.requiresAuth(path) {
			c.Next()
			return
		}

		if isAPIPath(path) {
			switch {
			case errors.Is(err, ErrMissingSession):
				response.Abort(c, response.Unauthorized(""))
			case errors.Is(err, ErrTokenExpired):
				response.Abort(c, response.TokenExpired(""))
			default:
				response.Abort(c, response.InvalidToken(""))
			}
			return
		}

		c.Redirect(http.StatusFound, config.signInRedirect(c.Request.URL))
		c.Abort()
	}
}

func (config *AuthConfig) requiresAuth(path string) bool {
	if config.Matcher == nil {
		return true
	}
	return config.Matcher.RequiresAuth(path)
}

func (config *AuthConfig) signInRedirect(u *url.URL) string {
	target := config.SignInURL
	if target == "" {
		target = "/auth/sign-in"
	}
	return target + "?redirect_url=" + url.QueryEscape(u.RequestURI())
}

func (config *AuthConfig) authenticate(c *gin.Context) (*Session, error) {
	tokenString := ""
	if config.CookieName != "" {
		if cookie, err := c.Cookie(config.CookieName); err == nil {
			tokenString = cookie
		}
	}

	if tokenString == "" {
		authHeader := c.GetHeader("Authorization")
		const bearerPrefix = "Bearer "
		if strings.HasPrefix(authHeader, bearerPrefix) {
			tokenString = strings.TrimSpace(authHeader[len(bearerPrefix):])
		} else if authHeader != "" {
			return nil, ErrInvalidToken
		}
	}

	if tokenString == "" {
		return nil, ErrMissingSession
	}

	return ParseSession(tokenString, config.Secret, config.Issuer)
}

// ParseSession validates an HMAC-signed session token and extracts its claims
func ParseSession(tokenString, secret, issuer string) (*Session, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{
		jwt.SigningMethodHS256.Alg(),
		jwt.SigningMethodHS384.Alg(),
		jwt.SigningMethodHS512.Alg(),
	})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	// identity providers put the user in sub; older tokens carry user_id
	userID, _ := claims["sub"].(string)
	if userID == "" {
		userID, _ = claims["user_id"].(string)
	}
	if userID == "" {
		return nil, ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	tenantID, _ := claims["tenant_id"].(string)

	return &Session{
		UserID:   userID,
		Email:    email,
		Role:     role,
		TenantID: tenantID,
	}, nil
}

// SignSession issues an HS256 session token. Sessions normally come from the
// identity provider; this is used by local tooling and tests.
func SignSession(s *Session, secret, issuer string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   s.UserID,
		"email": s.Email,
		"role":  s.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	if s.TenantID != "" {
		claims["tenant_id"] = s.TenantID
	}
	if issuer != "" {
		claims["iss"] = issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/") ||
		path == "/trpc" || strings.HasPrefix(path, "/trpc/")
}

func setSession(c *gin.Context, s *Session) {
	c.Set(ContextKeyUserID, s.UserID)
	c.Set(ContextKeyEmail, s.Email)
	c.Set(ContextKeyRole, s.Role)
	c.Set(ContextKeyTenantID, s.TenantID)
}

// GetUserID extracts user ID from gin context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

// GetEmail extracts email from gin context
func GetEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(ContextKeyEmail)
	if !exists {
		return "", false
	}
	e, ok := email.(string)
	return e, ok
}

// GetRole extracts role from gin context
func GetRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(ContextKeyRole)
	if !exists {
		return "", false
	}
	r, ok := role.(string)
	return r, ok
}

// GetTenantID extracts tenant ID from gin context
func GetTenantID(c *gin.Context) (string, bool) {
	tenantID, exists := c.Get(ContextKeyTenantID)
	if !exists {
		return "", false
	}
	t, ok := tenantID.(string)
	return t, ok
}
