package endpoint

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pragun3669/DERMIFY/config"
	"github.com/pragun3669/DERMIFY/middleware"
	"github.com/pragun3669/DERMIFY/model"
	"github.com/pragun3669/DERMIFY/util"
)

type TokenValidationResponse struct {
	Valid  bool   `json:"valid" example:"true"`
	UserID uint   `json:"user_id,omitempty" example:"1"`
	Role   string `json:"role,omitempty" example:"Patient"`
}

// ValidateToken godoc
// @Summary      Validate session token
// @Description  Check whether a session token is still valid and return the bound identity
// @Tags         Authentication
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=TokenValidationResponse} "Token is valid"
// @Failure      401 {object} util.APIResponse "Token missing, invalid or expired"
// @Router       /api/token/validate [get]
func ValidateToken(c *gin.Context) {
	sessionToken := c.GetHeader("session-token")
	if sessionToken == "" {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Session token not provided",
			Err: fmt.Errorf("session token not provided"),
		})
		return
	}

	if userID, roleID, found := lookupTokenInRedis(sessionToken); found {
		respondTokenValid(c, userID, roleID)
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var session model.Session
	err := db.Where("session_token = ? AND expires_at > ?", sessionToken, time.Now()).First(&session).Error
	if err != nil {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Invalid or expired session token",
			Err: fmt.Errorf("invalid or expired session token"),
		})
		return
	}

	var user model.User
	if err := db.First(&user, session.UserID).Error; err != nil {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Invalid or expired session token",
			Err: err,
		})
		return
	}

	respondTokenValid(c, user.ID, user.RoleID)
}

func lookupTokenInRedis(token string) (uint, uint32, bool) {
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
	var userID uint
	var roleID uint32
	if _, err := fmt.Sscanf(parts[0], "%d", &userID); err != nil {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &roleID); err != nil {
		return 0, 0, false
	}
	return userID, roleID, true
}

func respondTokenValid(c *gin.Context, userID uint, roleID uint32) {
	roleName := ""
	if db := middleware.GetDB(c); db != nil {
		var role model.Role
		if err := db.First(&role, "id = ?", roleID).Error; err == nil {
			roleName = role.Name
		}
	}
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Token is valid",
		Data: TokenValidationResponse{Valid: true, UserID: userID, Role: roleName},
	})
}
