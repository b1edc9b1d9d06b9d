package middleware

import (
	stdErrors "errors"
	"strings"
	"time"

	"posimarket/api/ctxutil"
	"posimarket/api/response"
	"posimarket/domain/order"
	"posimarket/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin role claim that unlocks every order
const RoleAdmin = "ADMIN"

// Claims bearer token payload; sub is the user id
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Issue signs a token for userID; used by tooling and tests
func (a *Authenticator) Issue(userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Parse validates raw and returns the caller it names
func (a *Authenticator) Parse(raw string) (order.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return order.Actor{}, err
	}
	if !token.Valid || claims.Subject == "" {
		return order.Actor{}, stdErrors.New("token has no subject")
	}
	return order.Actor{UserID: claims.Subject, Admin: claims.Role == RoleAdmin}, nil
}

// Optional attaches the caller when a valid bearer token is present
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearer(c); ok {
			if actor, err := a.Parse(raw); err == nil {
				ctxutil.SetActor(c, actor)
			}
		}
		c.Next()
	}
}

// Required rejects requests without a valid bearer token
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			response.HandleAppError(c, errors.Unauthorized("missing bearer token"))
			return
		}
		actor, err := a.Parse(raw)
		if err != nil {
			response.HandleAppError(c, errors.Wrap(err, errors.CodeUnauthorized, "invalid or expired token"))
			return
		}
		ctxutil.SetActor(c, actor)
		c.Next()
	}
}

func bearer(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
