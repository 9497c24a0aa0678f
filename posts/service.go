// Package posts, as part of the posts module.
// This file, `service.go`, contains the business logic for post operations:
// listing with filters, owner-scoped reads of drafts, and the mutation path
// that resolves existence strictly before ownership.
package posts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/inkwell-go/apperror"
	"github.com/user/inkwell-go/cache"
)

// PostService defines the operations of the posts module. Handlers depend on
// this interface rather than the concrete implementation, which keeps them
// testable against stubs.
type PostService interface {
	// ListPublished returns published posts, newest first, optionally
	// narrowed by a case-insensitive title substring and an exact tag match.
	ListPublished(ctx context.Context, search, tag string) ([]Post, error)
	// ListByAuthor returns all posts by the given author, drafts included,
	// newest first.
	ListByAuthor(ctx context.Context, authorID int) ([]Post, error)
	// Get returns a single post. A missing id fails with NotFound before any
	// visibility check; a draft not owned by the viewer fails with Forbidden.
	// viewer is nil for anonymous callers.
	Get(ctx context.Context, id int, viewer *int) (*Post, error)
	// Create stores a new post owned by authorID.
	Create(ctx context.Context, authorID int, req CreatePostRequest) (*Post, error)
	// Update applies the supplied fields to an existing post. Fails with
	// NotFound when the id does not resolve, then with Forbidden when the
	// caller is not the author.
	Update(ctx context.Context, id int, userID int, req UpdatePostRequest) (*Post, error)
	// Delete removes a post, with the same NotFound-then-Forbidden order as
	// Update.
	Delete(ctx context.Context, id int, userID int) error
}

// postServiceImpl is the pgx-backed implementation of PostService.
type postServiceImpl struct {
	db    *pgxpool.Pool
	cache *cache.Cache // nil disables caching
}

// NewPostService creates a new PostService. cache may be nil.
func NewPostService(db *pgxpool.Pool, c *cache.Cache) PostService {
	return &postServiceImpl{db: db, cache: c}
}

// postColumns is the SELECT list shared by every read, joining the author's
// public fields.
const postColumns = `
	p.id, p.title, p.content, p.cover_image, p.tags, p.is_published, p.created_at,
	u.id, u.name, u.email`

const postFrom = ` FROM posts p JOIN users u ON u.id = p.author_id`

func scanPost(row pgx.Row) (*Post, error) {
	var p Post
	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.CoverImage, &p.Tags, &p.IsPublished, &p.CreatedAt,
		&p.Author.ID, &p.Author.Name, &p.Author.Email,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *postServiceImpl) ListPublished(ctx context.Context, search, tag string) ([]Post, error) {
	query := `SELECT` + postColumns + postFrom + ` WHERE p.is_published`
	args := []interface{}{}

	if search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(" AND p.title ILIKE $%d", len(args))
	}
	if tag != "" {
		args = append(args, tag)
		query += fmt.Sprintf(" AND $%d = ANY(p.tags)", len(args))
	}
	query += ` ORDER BY p.created_at DESC`

	return s.queryPosts(ctx, query, args...)
}

func (s *postServiceImpl) ListByAuthor(ctx context.Context, authorID int) ([]Post, error) {
	query := `SELECT` + postColumns + postFrom + `
		WHERE p.author_id = $1
		ORDER BY p.created_at DESC`
	return s.queryPosts(ctx, query, authorID)
}

func (s *postServiceImpl) queryPosts(ctx context.Context, query string, args ...interface{}) ([]Post, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list posts", err)
	}
	defer rows.Close()

	// An empty result marshals as [] rather than null.
	posts := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan post", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to list posts", err)
	}
	return posts, nil
}

func (s *postServiceImpl) Get(ctx context.Context, id int, viewer *int) (*Post, error) {
	// Only published posts are ever cached, so a hit is visible to anyone.
	if cached, err := s.cache.Get(ctx, cache.PostKey(id)); err == nil {
		var p Post
		if err := json.Unmarshal([]byte(cached), &p); err == nil {
			return &p, nil
		}
		// An undecodable entry is dropped and the read falls through.
		_ = s.cache.Del(ctx, cache.PostKey(id))
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Printf("cache read for post %d failed: %v", id, err)
	}

	post, err := s.getPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Existence has resolved; visibility is checked second so a missing post
	// is always reported as NotFound, never Forbidden.
	if !post.VisibleTo(viewer) {
		return nil, apperror.NewForbiddenError("Post is not published", nil)
	}

	if post.IsPublished {
		if encoded, err := json.Marshal(post); err == nil {
			if err := s.cache.Set(ctx, cache.PostKey(id), string(encoded)); err != nil {
				log.Printf("cache write for post %d failed: %v", id, err)
			}
		}
	}

	return post, nil
}

func (s *postServiceImpl) Create(ctx context.Context, authorID int, req CreatePostRequest) (*Post, error) {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	var id int
	query := `INSERT INTO posts (title, content, cover_image, tags, is_published, author_id)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	err := s.db.QueryRow(ctx, query,
		req.Title, req.Content, req.CoverImage, tags, req.IsPublished, authorID,
	).Scan(&id)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create post", err)
	}

	return s.getPostByID(ctx, id)
}

func (s *postServiceImpl) Update(ctx context.Context, id int, userID int, req UpdatePostRequest) (*Post, error) {
	post, err := s.resolveOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	// Apply only the supplied fields; omitted fields keep their prior value.
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.CoverImage != nil {
		post.CoverImage = *req.CoverImage
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}

	query := `UPDATE posts
	          SET title = $1, content = $2, cover_image = $3, tags = $4, is_published = $5
	          WHERE id = $6`
	if _, err := s.db.Exec(ctx, query,
		post.Title, post.Content, post.CoverImage, post.Tags, post.IsPublished, post.ID,
	); err != nil {
		return nil, apperror.NewDatabaseError("failed to update post", err)
	}

	s.invalidate(ctx, post.ID)
	return post, nil
}

func (s *postServiceImpl) Delete(ctx context.Context, id int, userID int) error {
	post, err := s.resolveOwned(ctx, id, userID)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, post.ID); err != nil {
		return apperror.NewDatabaseError("failed to delete post", err)
	}

	s.invalidate(ctx, post.ID)
	return nil
}

// resolveOwned fetches a post for mutation. Existence is resolved first, so a
// non-existent id is always NotFound regardless of the caller; only an
// existing post can fail with Forbidden.
func (s *postServiceImpl) resolveOwned(ctx context.Context, id int, userID int) (*Post, error) {
	post, err := s.getPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.OwnedBy(userID) {
		return nil, apperror.NewForbiddenError("Not allowed", nil)
	}
	return post, nil
}

func (s *postServiceImpl) getPostByID(ctx context.Context, id int) (*Post, error) {
	query := `SELECT` + postColumns + postFrom + ` WHERE p.id = $1`
	post, err := scanPost(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("Post not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get post", err)
	}
	return post, nil
}

// invalidate drops the cached copy of a post after a mutation. Best effort:
// a cache failure is logged, not surfaced, since the database already holds
// the truth.
func (s *postServiceImpl) invalidate(ctx context.Context, id int) {
	if err := s.cache.Del(ctx, cache.PostKey(id)); err != nil {
		log.Printf("cache invalidation for post %d failed: %v", id, err)
	}
}
