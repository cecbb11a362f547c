package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RecordView 记录一次浏览，不需要登录。
func (a *API) RecordView(c *gin.Context) {
	a.respondCounter(c, "record view", "views", a.store.IncrementViews)
}

// GetViews 返回文章浏览次数。
func (a *API) GetViews(c *gin.Context) {
	a.respondCounter(c, "get views", "views", a.store.GetViews)
}

// IncrementCommentCount adjusts the displayed comment counter.
func (a *API) IncrementCommentCount(c *gin.Context) {
	token := sessionToken(c)
	a.respondCounter(c, "increment comment count", "comment_count", func(ctx context.Context, postID uint) (int64, error) {
		return a.gate.IncrementCommentCount(ctx, token, postID)
	})
}

// DecrementCommentCount adjusts the displayed comment counter; it never drops below zero.
func (a *API) DecrementCommentCount(c *gin.Context) {
	token := sessionToken(c)
	a.respondCounter(c, "decrement comment count", "comment_count", func(ctx context.Context, postID uint) (int64, error) {
		return a.gate.DecrementCommentCount(ctx, token, postID)
	})
}

// GetCommentCount returns the displayed comment counter.
func (a *API) GetCommentCount(c *gin.Context) {
	a.respondCounter(c, "get comment count", "comment_count", a.store.GetCommentCount)
}

func (a *API) respondCounter(c *gin.Context, action, field string, read func(context.Context, uint) (int64, error)) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	value, err := read(c.Request.Context(), postID)
	if err != nil {
		writeServiceError(c, action, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "data": gin.H{field: value}})
}
