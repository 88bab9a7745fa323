package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pragun3669/DERMIFY/config"
	"github.com/pragun3669/DERMIFY/model"
	"github.com/pragun3669/DERMIFY/util"
	"gorm.io/gorm"
)

const (
	dbContextKey     = "db"
	userIDContextKey = "user_id"
	roleIDContextKey = "role_id"
)

func setCorsHeaders(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE, PATCH")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "X-Requested-With, Content-Type, Authorization, session-token")
	c.Writer.Header().Set("Access-Control-Max-Age", "86400")
	c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
}

// CORSMiddleware configures CORS headers for incoming requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		setCorsHeaders(c)

		// For preflight requests, respond with 204 and abort further processing.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// DatabaseMiddleware injects the shared gorm DB into the request context.
func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(dbContextKey, db)
		c.Next()
	}
}

// GetDB returns the gorm DB previously stored by DatabaseMiddleware, or nil.
func GetDB(c *gin.Context) *gorm.DB {
	v, ok := c.Get(dbContextKey)
	if !ok {
		return nil
	}
	db, ok := v.(*gorm.DB)
	if !ok {
		return nil
	}
	return db
}

// GetUserID returns the authenticated user ID set by ValidateLoginToken.
func GetUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDContextKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// GetRoleID returns the authenticated role ID set by ValidateLoginToken.
func GetRoleID(c *gin.Context) (uint32, bool) {
	v, ok := c.Get(roleIDContextKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint32)
	return id, ok
}

// ValidateLoginToken authenticates the session-token header on every
// data-bearing route. Redis answers first with a cached "userID:roleID"
// value; when Redis is unavailable or misses, the sessions table is joined
// against users as the source of truth. Client-supplied identity fields are
// never trusted.
func ValidateLoginToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionToken := c.GetHeader("session-token")
		if sessionToken == "" {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Session token not provided",
				Err: fmt.Errorf("session token not provided"),
			})
			c.Abort()
			return
		}

		if userID, roleID, ok := lookupSessionInRedis(sessionToken); ok {
			c.Set(userIDContextKey, userID)
			c.Set(roleIDContextKey, roleID)
			c.Next()
			return
		}

		db := GetDB(c)
		if db == nil {
			util.CallServerError(c, util.APIErrorParams{
				Msg: "Database connection not available",
				Err: fmt.Errorf("db is nil"),
			})
			c.Abort()
			return
		}

		var result struct {
			UserID uint
			RoleID uint32
		}
		err := db.Table("sessions").
			Select("sessions.user_id as user_id, users.role_id as role_id").
			Joins("JOIN users ON sessions.user_id = users.id").
			Where("session_token = ? AND expires_at > ? AND sessions.deleted_at IS NULL", sessionToken, time.Now()).
			First(&result).Error
		if err != nil {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Invalid or expired session token",
				Err: fmt.Errorf("session not found"),
			})
			c.Abort()
			return
		}

		c.Set(userIDContextKey, result.UserID)
		c.Set(roleIDContextKey, result.RoleID)
		c.Next()
	}
}

// lookupSessionInRedis resolves a token via the session cache. The cached
// value format is "userID:roleID".
func lookupSessionInRedis(token string) (uint, uint32, bool) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return 0, 0, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	val, err := rdb.Get(ctx, fmt.Sprintf("session:%s", token)).Result()
	if err != nil {
		return 0, 0, false
	}
	parts := strings.SplitN(val, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	userID, err1 := strconv.ParseUint(parts[0], 10, 32)
	roleID, err2 := strconv.ParseUint(parts[1], 10, 32)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return uint(userID), uint32(roleID), true
}

// RequireRole allows the request through only when the authenticated role
// matches the given role name.
func RequireRole(roleName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleID, ok := GetRoleID(c)
		if !ok {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "User not authenticated",
				Err: fmt.Errorf("role not found in context"),
			})
			c.Abort()
			return
		}

		db := GetDB(c)
		if db == nil {
			util.CallServerError(c, util.APIErrorParams{
				Msg: "Database connection not available",
				Err: fmt.Errorf("db is nil"),
			})
			c.Abort()
			return
		}

		var role model.Role
		if err := db.First(&role, roleID).Error; err != nil || role.Name != roleName {
			userID, _ := GetUserID(c)
			util.LogSecurityEvent(util.SecurityEvent{
				EventType: util.EventUnauthorizedAccess,
				UserID:    fmt.Sprintf("%d", userID),
				IP:        c.ClientIP(),
				Message:   fmt.Sprintf("Access to %s requires role %s", c.Request.URL.Path, roleName),
			})
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Insufficient permissions",
				Err: fmt.Errorf("role %s required", roleName),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
