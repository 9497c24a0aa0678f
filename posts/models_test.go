package posts

import "testing"

func intPtr(v int) *int { return &v }

func TestVisibleTo(t *testing.T) {
	published := &Post{ID: 1, IsPublished: true, Author: Author{ID: 10}}
	draft := &Post{ID: 2, IsPublished: false, Author: Author{ID: 10}}

	cases := []struct {
		name   string
		post   *Post
		viewer *int
		want   bool
	}{
		{"published post is visible anonymously", published, nil, true},
		{"published post is visible to a stranger", published, intPtr(99), true},
		{"published post is visible to its author", published, intPtr(10), true},
		{"draft is hidden from anonymous callers", draft, nil, false},
		{"draft is hidden from other users", draft, intPtr(99), false},
		{"draft is visible to its author", draft, intPtr(10), true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.post.VisibleTo(c.viewer); got != c.want {
				t.Errorf("VisibleTo() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestOwnedBy(t *testing.T) {
	post := &Post{ID: 1, Author: Author{ID: 10}}

	if !post.OwnedBy(10) {
		t.Error("author must own their post")
	}
	if post.OwnedBy(99) {
		t.Error("a different user must not own the post")
	}
}
