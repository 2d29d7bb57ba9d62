package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SubjectKey is the context key holding the authenticated subject.
const SubjectKey = "subject"

// AnonymousSubject keys the shared session when auth is disabled.
const AnonymousSubject = "anonymous"

// Auth verifies a bearer JWT and stores its subject in the context; the
// subject keys the caller's journey session. Token issuance lives with
// the external auth provider. An empty secret disables verification and
// every request shares the anonymous session.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Set(SubjectKey, AnonymousSubject)
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "Missing bearer token",
			})
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "Invalid token",
			})
			c.Abort()
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "Token has no subject",
			})
			c.Abort()
			return
		}

		c.Set(SubjectKey, sub)
		c.Next()
	}
}

// Subject returns the session subject set by Auth.
func Subject(c *gin.Context) string {
	if sub := c.GetString(SubjectKey); sub != "" {
		return sub
	}
	return AnonymousSubject
}
