package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxRollNumber = "rollNumber"
	CtxUserID     = "userId"
)

// Claims binds a verified identity into the session token.
type Claims struct {
	RollNumber string `json:"rollNumber"`
	UserID     string `json:"userId"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for the given identity, valid for ttl.
func IssueToken(secret string, ttl time.Duration, rollNumber, userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RollNumber: rollNumber,
		UserID:     userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies the signature and expiry of a token and returns its
// claims. It fails closed on any verification error.
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	return claims, nil
}

// Auth enforces a valid bearer token and puts the caller's verified
// identity into the request context. The token is read from the
// Authorization header, the legacy x-auth-token header, or a token query
// parameter, in that order.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// CORS preflight never carries credentials.
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		tokenString := ""

		authHeader := c.GetHeader("Authorization")
		switch {
		case authHeader != "":
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header, expected: Bearer <token>"})
				c.Abort()
				return
			}
			tokenString = parts[1]
		case c.GetHeader("x-auth-token") != "":
			tokenString = c.GetHeader("x-auth-token")
		default:
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization token provided"})
			c.Abort()
			return
		}

		claims, err := ParseToken(secret, tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(CtxRollNumber, claims.RollNumber)
		c.Set(CtxUserID, claims.UserID)
		c.Next()
	}
}
