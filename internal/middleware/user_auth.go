package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"agrilink/internal/auth"
)

// SessionHeader carries the guest session id. It is echoed on every response
// so a client that did not send one learns the id it was given.
const SessionHeader = "X-Session-ID"

// Identity resolves who owns the cart and checkout of this request. A valid
// bearer token with a userId claim selects the user's session; otherwise the
// guest session named by SessionHeader is used, or a new one is started.
// A bearer token that does not verify is rejected rather than ignored.
func Identity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := strings.TrimSpace(c.GetHeader("Authorization")); raw != "" {
			userID, ok := userFromToken(raw, secret)
			if !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			c.Set(ContextUserID, userID)
			c.Set(ContextOwner, "user:"+userID.Hex())
			c.Next()
			return
		}

		sessionID, err := uuid.Parse(strings.TrimSpace(c.GetHeader(SessionHeader)))
		if err != nil {
			sessionID = uuid.New()
		}
		c.Header(SessionHeader, sessionID.String())
		c.Set(ContextOwner, "guest:"+sessionID.String())
		c.Next()
	}
}

func userFromToken(raw, secret string) (primitive.ObjectID, bool) {
	token, ok := auth.BearerToken(raw)
	if !ok {
		zap.L().Info("invalid authorization header format")
		return primitive.NilObjectID, false
	}
	claims, err := auth.ParseToken(token, secret)
	if err != nil {
		zap.L().Info("user token validation failed", zap.Error(err))
		return primitive.NilObjectID, false
	}
	userIDValue, ok := claims["userId"].(string)
	if !ok || strings.TrimSpace(userIDValue) == "" {
		zap.L().Info("userId claim missing")
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDValue)
	if err != nil {
		zap.L().Info("invalid userId claim", zap.String("userId", userIDValue))
		return primitive.NilObjectID, false
	}
	return userID, true
}

// RequireUser admits only requests that Identity resolved to a signed-in user.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}
		c.Next()
	}
}

func UserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, ok := c.Get(ContextUserID)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}

// Owner returns the session owner set by Identity.
func Owner(c *gin.Context) string {
	return c.GetString(ContextOwner)
}
