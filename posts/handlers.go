// Package posts, as part of the posts module.
// This file, `handlers.go`, translates HTTP requests into PostService calls.
// Handlers are thin: parse inputs, delegate, map outcomes to responses. All
// policy decisions live in the service and the model.
package posts

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/inkwell-go/apperror"
	"github.com/user/inkwell-go/auth"
	"github.com/user/inkwell-go/config"
)

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	service PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service PostService) *PostHandler {
	return &PostHandler{service: service}
}

// RegisterRoutes registers the post API routes. The public list and the
// single-post read stay outside the required-auth group; the single-post read
// runs optional auth so owners can read their own drafts. Everything else
// rejects with 401 before any handler logic runs.
func (h *PostHandler) RegisterRoutes(router chi.Router, authCfg *config.AuthConfig) {
	router.Get("/", h.listPublished)
	router.With(auth.OptionalAuth(authCfg)).Get("/{id}", h.getPost)

	router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(authCfg))
		r.Get("/my", h.listMine)
		r.Post("/", h.createPost)
		r.Put("/{id}", h.updatePost)
		r.Delete("/{id}", h.deletePost)
	})
}

// listPublished godoc
// @Summary List published posts
// @Description Lists published posts, newest first, optionally filtered by title substring and tag.
// @Tags Posts
// @Produce json
// @Param search query string false "Case-insensitive title substring"
// @Param tag query string false "Exact tag membership"
// @Success 200 {array} posts.Post
// @Failure 500 {object} apperror.ErrorResponse
// @Router /posts [get]
func (h *PostHandler) listPublished(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	tag := r.URL.Query().Get("tag")

	result, err := h.service.ListPublished(r.Context(), search, tag)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	auth.WriteJSON(w, http.StatusOK, result)
}

// listMine godoc
// @Summary List own posts
// @Description Lists all posts of the authenticated user, drafts included.
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} posts.Post
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 500 {object} apperror.ErrorResponse
// @Router /posts/my [get]
func (h *PostHandler) listMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("User ID not found in context", nil))
		return
	}

	result, err := h.service.ListByAuthor(r.Context(), userID)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	auth.WriteJSON(w, http.StatusOK, result)
}

// getPost godoc
// @Summary Get a single post
// @Description Returns a post. Drafts are visible only to their author.
// @Tags Posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} posts.Post
// @Failure 403 {object} apperror.ErrorResponse "Post is not published"
// @Failure 404 {object} apperror.ErrorResponse "Post not found"
// @Failure 500 {object} apperror.ErrorResponse
// @Router /posts/{id} [get]
func (h *PostHandler) getPost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	// The viewer is nil for anonymous callers; OptionalAuth binds an
	// identity only when a valid bearer token was presented.
	var viewer *int
	if userID, ok := auth.UserIDFromContext(r.Context()); ok {
		viewer = &userID
	}

	post, err := h.service.Get(r.Context(), id, viewer)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	auth.WriteJSON(w, http.StatusOK, post)
}

// createPost godoc
// @Summary Create a post
// @Description Creates a post owned by the authenticated user.
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postBody body posts.CreatePostRequest true "Post fields"
// @Success 201 {object} posts.Post
// @Failure 400 {object} apperror.ErrorResponse "Title and content are required"
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 500 {object} apperror.ErrorResponse
// @Router /posts [post]
func (h *PostHandler) createPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("User ID not found in context", nil))
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	if req.Title == "" || req.Content == "" {
		auth.WriteError(w, r, apperror.NewValidationError("Title and content are required", nil))
		return
	}

	post, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	auth.WriteJSON(w, http.StatusCreated, post)
}

// updatePost godoc
// @Summary Update a post
// @Description Applies the supplied fields to an owned post.
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param postBody body posts.UpdatePostRequest true "Fields to update"
// @Success 200 {object} posts.Post
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse "Not allowed"
// @Failure 404 {object} apperror.ErrorResponse "Post not found"
// @Failure 500 {object} apperror.ErrorResponse
// @Router /posts/{id} [put]
func (h *PostHandler) updatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("User ID not found in context", nil))
		return
	}

	id, err := postID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	post, err := h.service.Update(r.Context(), id, userID, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	auth.WriteJSON(w, http.StatusOK, post)
}

// deletePost godoc
// @Summary Delete a post
// @Description Deletes an owned post.
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} posts.DeleteResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse "Not allowed"
// @Failure 404 {object} apperror.ErrorResponse "Post not found"
// @Failure 500 {object} apperror.ErrorResponse
// @Router /posts/{id} [delete]
func (h *PostHandler) deletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("User ID not found in context", nil))
		return
	}

	id, err := postID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	auth.WriteJSON(w, http.StatusOK, DeleteResponse{Message: "Post removed"})
}

// postID parses the {id} path parameter. An id that is not a number cannot
// name any post, so it reports NotFound like any other unresolvable id.
func postID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, apperror.NewNotFoundError("Post not found", nil)
	}
	return id, nil
}
