package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ToggleLike 切换当前用户对文章的点赞状态。
func (a *API) ToggleLike(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	state, err := a.gate.ToggleLike(c.Request.Context(), sessionToken(c), postID)
	if err != nil {
		writeServiceError(c, "toggle like", err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// GetLikes returns the like count of a post.
func (a *API) GetLikes(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	count, err := a.store.GetLikes(c.Request.Context(), postID)
	if err != nil {
		writeServiceError(c, "get likes", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "data": gin.H{"likeCount": count}})
}

// LikeStatus reports whether the current user likes a post.
func (a *API) LikeStatus(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	liked, err := a.gate.LikeStatus(c.Request.Context(), sessionToken(c), postID)
	if err != nil {
		writeServiceError(c, "like status", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "liked": liked})
}
