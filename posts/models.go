// Package posts, as part of the posts module.
// This file, `models.go`, defines the Post entity and the pure access rules
// that govern who may read or mutate a post. The rules are functions of the
// post and the acting identity only; every route that touches a post goes
// through them.
package posts

import "time"

// Author is the joined public view of a post's owner.
type Author struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Post represents a blog post. A post has exactly one author, fixed at
// creation; authorship never transfers. Tag order is preserved for display
// even though membership checks ignore it.
type Post struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	CoverImage  string    `json:"coverImage"`
	Tags        []string  `json:"tags"`
	IsPublished bool      `json:"isPublished"`
	Author      Author    `json:"author"`
	CreatedAt   time.Time `json:"createdAt"`
}

// VisibleTo reports whether the given viewer may read the post. A published
// post is visible to everyone; a draft only to its author. viewer is nil for
// anonymous callers.
func (p *Post) VisibleTo(viewer *int) bool {
	if p.IsPublished {
		return true
	}
	return viewer != nil && *viewer == p.Author.ID
}

// OwnedBy reports whether the given user is the post's author, and therefore
// the only identity permitted to mutate or delete it.
func (p *Post) OwnedBy(userID int) bool {
	return p.Author.ID == userID
}
