package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postboard/internal/service"
)

type commentRequest struct {
	Content string `json:"comment_content"`
}

// ListComments 返回文章的评论，按发表顺序排列。
func (a *API) ListComments(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	comments, err := a.store.GetComments(c.Request.Context(), postID)
	if err != nil {
		writeServiceError(c, "list comments", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "data": comments})
}

// GetComment 返回文章下的单条评论。
func (a *API) GetComment(c *gin.Context) {
	postID, commentID, ok := commentIDParams(c)
	if !ok {
		return
	}

	comment, err := a.store.GetComment(c.Request.Context(), postID, commentID)
	if err != nil {
		writeServiceError(c, "get comment", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "data": comment})
}

// CreateComment 以当前用户身份发表评论。
func (a *API) CreateComment(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	var req commentRequest
	if !bindJSON(c, &req, "invalid comment payload") {
		return
	}

	comment, err := a.gate.AddComment(c.Request.Context(), sessionToken(c), postID, req.Content)
	if err != nil {
		writeServiceError(c, "add comment", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "message": "comment created", "data": comment})
}

// UpdateComment 修改评论内容，仅评论作者可操作。
func (a *API) UpdateComment(c *gin.Context) {
	postID, commentID, ok := commentIDParams(c)
	if !ok {
		return
	}
	var req commentRequest
	if !bindJSON(c, &req, "invalid comment payload") {
		return
	}

	comment, err := a.gate.UpdateComment(c.Request.Context(), sessionToken(c), postID, commentID, req.Content)
	if err != nil {
		writeServiceError(c, "update comment", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "comment updated", "data": comment})
}

// DeleteComment 删除评论。
func (a *API) DeleteComment(c *gin.Context) {
	postID, commentID, ok := commentIDParams(c)
	if !ok {
		return
	}

	deleted, err := a.gate.DeleteComment(c.Request.Context(), sessionToken(c), postID, commentID)
	if err != nil {
		writeServiceError(c, "delete comment", err)
		return
	}
	if !deleted {
		writeServiceError(c, "delete comment", service.ErrCommentNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "comment deleted"})
}
