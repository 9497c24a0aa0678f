// Package posts, as part of the posts module.
// This file, `dto.go`, defines the request payloads for creating and updating
// posts.
package posts

// CreatePostRequest represents the payload for creating a post. Any author
// value a client might send is ignored; authorship always comes from the
// verified identity.
type CreatePostRequest struct {
	Title       string   `json:"title" example:"My first post"`
	Content     string   `json:"content" example:"Hello world"`
	CoverImage  string   `json:"coverImage,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	IsPublished bool     `json:"isPublished,omitempty"`
}

// UpdatePostRequest represents a partial update. Pointer fields distinguish
// "omitted" from "set to the zero value": only the fields present in the
// request are applied, and IsPublished changes only when an explicit boolean
// was sent.
type UpdatePostRequest struct {
	Title       *string   `json:"title,omitempty"`
	Content     *string   `json:"content,omitempty"`
	CoverImage  *string   `json:"coverImage,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	IsPublished *bool     `json:"isPublished,omitempty"`
}

// DeleteResponse confirms a successful deletion.
type DeleteResponse struct {
	Message string `json:"message" example:"Post removed"`
}
