package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskboard/internal/domain/errors"
	"taskboard/internal/policy"
)

const (
	ctxUserID = "auth.userID"
	ctxEmail  = "auth.email"
	ctxRole   = "auth.role"
)

func Authenticate(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errors.ErrMissingToken.Error()})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errors.ErrMissingToken.Error()})
			return
		}

		claims, err := parseToken(secret, strings.TrimSpace(parts[1]))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errors.ErrInvalidToken.Error()})
			return
		}

		ctx.Set(ctxUserID, claims.UserID)
		ctx.Set(ctxEmail, claims.Email)
		ctx.Set(ctxRole, claims.Role)
		ctx.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !policy.ManagesUsers(ctx.GetString(ctxRole)) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errors.ErrForbidden.Error()})
			return
		}
		ctx.Next()
	}
}

func callerIdentity(ctx *gin.Context) (string, string) {
	return ctx.GetString(ctxUserID), ctx.GetString(ctxRole)
}
