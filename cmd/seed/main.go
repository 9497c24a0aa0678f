// Seed tool: wipes users and posts and loads a demo data set — one demo user
// and three posts, two published and one draft. Intended for development
// environments only.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/inkwell-go/config"
	"github.com/user/inkwell-go/db"
)

type demoPost struct {
	title       string
	content     string
	tags        []string
	isPublished bool
}

var demoPosts = []demoPost{
	{
		title:       "Welcome to My Blog",
		content:     "This is the first seeded post.",
		tags:        []string{"welcome"},
		isPublished: true,
	},
	{
		title:       "Writing a Blog Backend in Go",
		content:     "Postgres, chi and a little Redis.",
		tags:        []string{"go", "postgres"},
		isPublished: true,
	},
	{
		title:       "Draft Post Example",
		content:     "This one is a draft and not published yet!",
		isPublished: false,
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.EnableExtensions(pool); err != nil {
		log.Fatalf("Failed to enable extensions: %v", err)
	}
	if err := db.RunMigrations(cfg.Database, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Clear old data. Posts reference users, so they go first.
	if _, err := pool.Exec(ctx, `DELETE FROM posts`); err != nil {
		log.Fatalf("Failed to clear posts: %v", err)
	}
	if _, err := pool.Exec(ctx, `DELETE FROM users`); err != nil {
		log.Fatalf("Failed to clear users: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	var demoUserID int
	err = pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id`,
		"Demo User", "demo@example.com", string(hashed),
	).Scan(&demoUserID)
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}

	for _, p := range demoPosts {
		tags := p.tags
		if tags == nil {
			tags = []string{}
		}
		if _, err := pool.Exec(ctx,
			`INSERT INTO posts (title, content, tags, is_published, author_id)
			 VALUES ($1, $2, $3, $4, $5)`,
			p.title, p.content, tags, p.isPublished, demoUserID,
		); err != nil {
			log.Fatalf("Failed to insert demo post %q: %v", p.title, err)
		}
	}

	log.Printf("Seeding completed: 1 user, %d posts", len(demoPosts))
}
