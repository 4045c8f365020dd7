package domain

import "time"

type BlogAuthor struct {
	Username string `json:"username"`
}

type Blog struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Image     string     `json:"image,omitempty"`
	Tags      string     `json:"tags,omitempty"`
	Author    BlogAuthor `json:"author"`
	Views     int        `json:"views,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// BlogDraft is the authoring form submitted to the create endpoint as a
// multipart form. The image is optional.
type BlogDraft struct {
	Title   string `validate:"required"`
	Content string `validate:"required"`
	Tags    string
	Image   *ImageUpload
}

type Bookmark struct {
	ID        int       `json:"id"`
	Blog      Blog      `json:"blog"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message" validate:"required"`
}
