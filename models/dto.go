package models

import "io"

type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=4,max=20"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=20"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreatePostRequest carries tags as a single comma-delimited string, the way
// the authoring form submits them.
type CreatePostRequest struct {
	Title string `json:"title" form:"title" validate:"required,max=200"`
	Tags  string `json:"tags" form:"tags"`
	Body  string `json:"body" form:"body" validate:"required,max=1000"`
}

type UpdatePostRequest struct {
	Body string `json:"body" form:"body" validate:"required,max=1000"`
}

// ImageUpload is an optional file attached to a new post.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type PostListParams struct {
	AuthorID uint
	TagName  string
}

// PostSummary is one entry of the public JSON listing.
type PostSummary struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Text   string `json:"text"`
}
