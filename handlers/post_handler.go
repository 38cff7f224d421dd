package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"multiblog/helper"
	"multiblog/middleware"
	"multiblog/models"
	"multiblog/services"

	"github.com/gin-gonic/gin"
)

const (
	maxImageSize = 5 << 20
	// room for the text fields and multipart framing next to the image
	maxCreateBodySize = maxImageSize + 1<<20
)

type PostHandler struct {
	postService  services.PostService
	queryService services.QueryService
	Helper       *helper.HTTPHelper
}

func NewPostHandler(postService services.PostService, queryService services.QueryService) *PostHandler {
	return &PostHandler{
		postService:  postService,
		queryService: queryService,
		Helper:       helper.NewHTTPHelper(),
	}
}

// CreatePost accepts JSON, or a multipart form when an image is attached.
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxCreateBodySize)

	var req models.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Helper.SendError(c, "Request body too large", h.Helper.EmptyJsonMap(), http.StatusRequestEntityTooLarge, "requestTooLarge")
			return
		}
		h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}

	var image *models.ImageUpload
	fileHeader, err := c.FormFile("image")
	switch {
	case err == nil:
		if fileHeader.Size > maxImageSize {
			h.Helper.SendServiceError(c, models.ErrorValidation{Fields: []models.FieldError{
				{Field: "image", Message: "image must be at most 5MB"},
			}})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			h.Helper.SendBadRequest(c, "Invalid image upload", err.Error())
			return
		}
		defer file.Close()
		image = &models.ImageUpload{
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Size:        fileHeader.Size,
			Reader:      file,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		h.Helper.SendBadRequest(c, "Invalid image upload", err.Error())
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), req, image, userID)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Post created", post)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	post, err := h.postService.GetPost(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)
	id, ok := h.postID(c)
	if !ok {
		return
	}

	var req models.UpdatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}

	post, err := h.postService.UpdatePost(c.Request.Context(), id, req, userID)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post updated", post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)
	id, ok := h.postID(c)
	if !ok {
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), id, userID); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post deleted", h.Helper.EmptyJsonMap())
}

func (h *PostHandler) GetPosts(c *gin.Context) {
	posts, err := h.queryService.ListAll(c.Request.Context())
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", posts)
}

func (h *PostHandler) SearchPosts(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		h.Helper.SendServiceError(c, models.ErrorValidation{Fields: []models.FieldError{
			{Field: "q", Message: "q is a required field"},
		}})
		return
	}

	posts, err := h.queryService.Search(c.Request.Context(), q)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", posts)
}

func (h *PostHandler) GetPostsByAuthor(c *gin.Context) {
	authorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid author ID", h.Helper.EmptyJsonMap())
		return
	}

	posts, err := h.queryService.ByAuthor(c.Request.Context(), uint(authorID))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", posts)
}

func (h *PostHandler) GetPostsByTag(c *gin.Context) {
	posts, err := h.queryService.ByTag(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", posts)
}

// APIListing is the bare JSON listing: [{title, author, text}], no envelope.
func (h *PostHandler) APIListing(c *gin.Context) {
	summaries, err := h.queryService.APIListing(c.Request.Context())
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

func (h *PostHandler) postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid post ID", h.Helper.EmptyJsonMap())
		return 0, false
	}
	return uint(id), true
}
