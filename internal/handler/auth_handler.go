package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/postboard/internal/db"
	"github.com/postboard/internal/identity"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login 校验邮箱与密码，创建会话并把令牌写入会话 Cookie。
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "invalid login payload") {
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := db.FindUserByEmail(a.db.WithContext(c.Request.Context()), email)
	if err != nil {
		if !errors.Is(err, db.ErrUserNotFound) {
			log.Printf("[ERROR] login lookup failed: %v", err)
			respondError(c, http.StatusInternalServerError, "internal server error")
			return
		}
		respondError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if !user.CheckPassword(req.Password) {
		respondError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := a.sessions.Create(c.Request.Context(), identity.Identity{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Nickname:  user.Nickname,
		AvatarRef: user.ProfileImage,
	})
	if err != nil {
		log.Printf("[ERROR] create session failed: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to create session")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionTokenKey, token)
	if err := session.Save(); err != nil {
		log.Printf("[ERROR] save session cookie failed: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	log.Printf("[INFO] user %d logged in", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"data": gin.H{
			"user":      user,
			"sessionID": token,
		},
	})
}

// Logout 销毁服务端会话并清空 Cookie。
func (a *API) Logout(c *gin.Context) {
	if token := sessionToken(c); token != "" {
		if err := a.sessions.Delete(c.Request.Context(), token); err != nil {
			log.Printf("[WARN] delete session failed: %v", err)
		}
	}

	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		log.Printf("[WARN] clear session cookie failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}

// Profile returns the account behind the current session.
func (a *API) Profile(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := db.FindUserByID(a.db.WithContext(c.Request.Context()), caller.UserID)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
			return
		}
		log.Printf("[ERROR] profile lookup failed: %v", err)
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "data": user})
}

// AuthRequired 是一个认证中间件，未登录时返回 401。
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := a.gate.Authenticate(c.Request.Context(), sessionToken(c))
		if err != nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Set(callerContextKey, caller)
		c.Next()
	}
}

func currentCaller(c *gin.Context) (identity.Identity, bool) {
	value, exists := c.Get(callerContextKey)
	if !exists {
		return identity.Identity{}, false
	}
	caller, ok := value.(identity.Identity)
	return caller, ok
}
