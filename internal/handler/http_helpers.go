package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/postboard/internal/service"
)

const (
	// SessionCookieName is the cookie the session middleware writes.
	SessionCookieName = "postboard_session"
	sessionTokenKey   = "session_id"
	callerContextKey  = "__caller"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// postIDParam parses :post_id and answers 400 when it is malformed.
func postIDParam(c *gin.Context) (uint, bool) {
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return id, true
}

func commentIDParams(c *gin.Context) (uint, uint, bool) {
	postID, ok := postIDParam(c)
	if !ok {
		return 0, 0, false
	}
	commentID, err := parseUintParam(c, "comment_id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	return postID, commentID, true
}

// writeServiceError maps content errors to HTTP statuses. Unknown errors are logged and hidden.
func writeServiceError(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPostNotFound), errors.Is(err, service.ErrCommentNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	default:
		log.Printf("[ERROR] %s failed: %v", action, err)
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

// sessionToken reads the caller's token from the session cookie, then from a bearer header.
func sessionToken(c *gin.Context) string {
	if _, exists := c.Get(sessions.DefaultKey); exists {
		if token, ok := sessions.Default(c).Get(sessionTokenKey).(string); ok && strings.TrimSpace(token) != "" {
			return token
		}
	}

	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}
