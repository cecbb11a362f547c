package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/postboard/internal/db"
	"github.com/postboard/internal/render"
	"github.com/postboard/internal/service"
	"github.com/postboard/internal/upload"
)

const excerptLength = 160

type postListItem struct {
	db.Post
	Excerpt string `json:"post_excerpt"`
}

type postDetail struct {
	db.Post
	Comments []db.Comment `json:"comment_list"`
	BodyHTML string       `json:"post_content_html"`
}

type createPostRequest struct {
	Title string `json:"post_title"`
	Body  string `json:"post_content"`
}

type updatePostRequest struct {
	Title *string `json:"post_title"`
	Body  *string `json:"post_content"`
}

// ListPosts 获取文章列表，按创建时间倒序。
func (a *API) ListPosts(c *gin.Context) {
	posts, err := a.store.ListPosts(c.Request.Context())
	if err != nil {
		writeServiceError(c, "list posts", err)
		return
	}

	items := make([]postListItem, 0, len(posts))
	for _, post := range posts {
		items = append(items, postListItem{Post: post, Excerpt: render.Excerpt(post.Body, excerptLength)})
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "data": items})
}

// GetPost 获取单篇文章及其评论。
func (a *API) GetPost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	post, err := a.store.GetPost(c.Request.Context(), postID)
	if err != nil {
		writeServiceError(c, "get post", err)
		return
	}

	html, err := render.Markdown(post.Body)
	if err != nil {
		log.Printf("[WARN] render post %d failed: %v", post.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "data": postDetail{Post: *post, Comments: post.Comments, BodyHTML: html}})
}

// CreatePost 创建新文章，作者为当前会话用户。
func (a *API) CreatePost(c *gin.Context) {
	var req createPostRequest
	if !bindJSON(c, &req, "invalid post payload") {
		return
	}

	post, err := a.gate.CreatePost(c.Request.Context(), sessionToken(c), service.PostInput{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		writeServiceError(c, "create post", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "message": "post created", "data": post})
}

// UpdatePost 合并更新文章标题或正文。
func (a *API) UpdatePost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	var req updatePostRequest
	if !bindJSON(c, &req, "invalid post payload") {
		return
	}

	post, err := a.gate.UpdatePost(c.Request.Context(), sessionToken(c), postID, service.PostPatch{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		writeServiceError(c, "update post", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "post updated", "data": post})
}

// DeletePost 删除文章及其评论和点赞。
func (a *API) DeletePost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	deleted, err := a.gate.DeletePost(c.Request.Context(), sessionToken(c), postID)
	if err != nil {
		writeServiceError(c, "delete post", err)
		return
	}
	if !deleted {
		writeServiceError(c, "delete post", service.ErrPostNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "post deleted"})
}

// UploadPostImage stores an uploaded image and attaches it to the post.
// The file is removed again when the post cannot take it.
func (a *API) UploadPostImage(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	token := sessionToken(c)
	if _, err := a.gate.Authenticate(c.Request.Context(), token); err != nil {
		writeServiceError(c, "upload post image", err)
		return
	}

	file, err := c.FormFile("post_image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "post_image file is required")
		return
	}

	saved, err := a.uploads.Save(file)
	if err != nil {
		if errors.Is(err, upload.ErrNotImage) || errors.Is(err, upload.ErrImageInvalid) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[ERROR] save upload failed: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to save image")
		return
	}

	name := strings.TrimSpace(c.PostForm("post_image_name"))
	if name == "" {
		name = file.Filename
	}

	post, err := a.gate.SetPostImage(c.Request.Context(), token, postID, service.ImageRef{
		URL:    saved.URL,
		Name:   name,
		Width:  saved.Width,
		Height: saved.Height,
	})
	if err != nil {
		if removeErr := a.uploads.Remove(saved); removeErr != nil {
			log.Printf("[WARN] remove orphaned upload %s failed: %v", saved.Path, removeErr)
		}
		writeServiceError(c, "upload post image", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "image uploaded", "data": post})
}
