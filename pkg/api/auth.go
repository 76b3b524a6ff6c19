package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/jakechorley/shiftsignup/pkg/core/model"
)

const claimsKey = "claims"

var jwtAlgorithm = jwt.SigningMethodHS256

// Claims represents the JWT claims issued by the program's auth provider
type Claims struct {
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Phone     string     `json:"phone"`
	Role      model.Role `json:"role"`
	jwt.RegisteredClaims
}

// User returns the snapshot copied onto signups made with these claims
func (c *Claims) User() model.UserSnapshot {
	return model.UserSnapshot{
		UserID:    c.Subject,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
	}
}

// IsAdmin reports whether the caller holds the admin role
func (c *Claims) IsAdmin() bool {
	return c.Role == model.RoleAdmin
}

// SignToken creates a signed token for the claims, valid for ttl
func SignToken(secret []byte, claims Claims, ttl time.Duration) (string, error) {
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(ttl))
	}
	token := jwt.NewWithClaims(jwtAlgorithm, &claims)
	return token.SignedString(secret)
}

// VerifyToken verifies a JWT token
func VerifyToken(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwtAlgorithm {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	if !claims.Role.IsValid() {
		return nil, fmt.Errorf("token has unknown role %q", claims.Role)
	}

	return claims, nil
}

// AuthMiddleware verifies the bearer token and stores its claims on the context
func (s *Server) AuthMiddleware() gin.HandlerFunc {
	return s.authenticate(false)
}

// LiveAuthMiddleware also accepts the token as an access_token query parameter,
// since browsers cannot set headers on websocket upgrades
func (s *Server) LiveAuthMiddleware() gin.HandlerFunc {
	return s.authenticate(true)
}

func (s *Server) authenticate(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" && allowQuery {
			token = c.Query("access_token")
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := VerifyToken(s.secret, token)
		if err != nil {
			s.logger.Debug("Rejected token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// AdminOnly rejects callers without the admin role. Must run after AuthMiddleware.
func (s *Server) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !claimsFrom(c).IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *Claims {
	return c.MustGet(claimsKey).(*Claims)
}
