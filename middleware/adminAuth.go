package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	adminRepo "heallink/database/repository/admin"
	"heallink/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// JWTAuthAdminMiddleware validates the bearer token of an admin request,
// checks the token hash against the stored one (cache first, then Mongo)
// and stashes the acting admin on the gin context under "actor".
func JWTAuthAdminMiddleware(repo adminRepo.AdminRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Recover from unexpected panics.
		defer func() {
			if r := recover(); r != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
					"code":  500,
				})
			}
		}()

		ctx := context.Background()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		token, err := utils.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}
		adminID, err := utils.SubjectFromToken(token)
		if err != nil || adminID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		computedHash := utils.HashToken(tokenString)
		cacheKey := utils.AdminAuthCachePrefix + adminID

		authCache := utils.GetCacheClient()
		cacheEnabled := true
		if authCache == nil {
			// Instead of aborting, log and treat it as a cache miss.
			log.Printf("WARNING: Auth cache client not available. Falling back to DB lookup.")
			cacheEnabled = false
		}

		if cacheEnabled {
			cachedHash, err := authCache.Get(ctx, cacheKey).Result()
			if err == nil {
				if cachedHash == computedHash {
					_ = authCache.Expire(ctx, cacheKey, utils.AdminAuthCacheTTL).Err()
					c.Set("adminID", adminID)
					c.Next()
					return
				}
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Token mismatch",
					"code":  0,
				})
				return
			} else if err != redis.Nil {
				log.Printf("WARNING: Error retrieving auth cache key: %v. Falling back to DB lookup.", err)
			}
		}

		// Cache miss: query the database.
		admin, err := repo.GetByID(ctx, adminID)
		if err != nil || admin == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication error",
				"code":  0,
			})
			return
		}
		if !admin.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Account disabled",
				"code":  0,
			})
			return
		}
		if admin.TokenHash == "" || admin.TokenHash != computedHash {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Token mismatch",
				"code":  0,
			})
			return
		}

		if cacheEnabled {
			_ = authCache.Set(ctx, cacheKey, computedHash, utils.AdminAuthCacheTTL).Err()
		}

		c.Set("adminID", adminID)
		c.Next()
	}
}
