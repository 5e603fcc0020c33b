// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"mosaic/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// DefaultPassword is the password every seeded account gets so developers can
// log in as any of them.
const DefaultPassword = "SeededPass1!"

// Run populates the database with fake users, posts, comments and likes.
// The denormalized post counters are written to match the generated rows.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return err
		}
	}

	users, err := seedUsers(db, opts.NumUsers)
	if err != nil {
		return err
	}
	posts, err := seedPosts(db, users, opts.NumPosts)
	if err != nil {
		return err
	}
	if err := seedComments(db, users, posts); err != nil {
		return err
	}
	if err := seedLikes(db, users, posts); err != nil {
		return err
	}

	log.Printf("Seeded %d users and %d posts", len(users), len(posts))
	return nil
}

func clean(db *gorm.DB) error {
	// Children first so foreign keys never dangle.
	for _, model := range []interface{}{
		&models.Like{}, &models.Comment{}, &models.Post{}, &models.User{},
	} {
		if err := db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("cleaning table: %w", err)
		}
	}
	return nil
}

func seedUsers(db *gorm.DB, n int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		username := fmt.Sprintf("%s%s%d", strings.ToLower(first), strings.ToLower(last), i)

		user := models.User{
			Username:  username,
			Email:     fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
			FirstName: first,
			LastName:  last,
			Password:  string(hash),
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("seeding user %s: %w", username, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func seedPosts(db *gorm.DB, users []models.User, n int) ([]models.Post, error) {
	// No authors means no posts, whatever the requested count.
	if len(users) == 0 {
		return nil, nil
	}

	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]
		post := models.Post{
			Name:        gofakeit.Sentence(4),
			Description: gofakeit.Paragraph(1, 3, 8, "\n"),
			AuthorID:    author.ID,
		}
		if err := db.Create(&post).Error; err != nil {
			return nil, fmt.Errorf("seeding post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func seedComments(db *gorm.DB, users []models.User, posts []models.Post) error {
	if len(users) == 0 {
		return nil
	}
	for i := range posts {
		n := rand.Intn(5)
		for j := 0; j < n; j++ {
			comment := models.Comment{
				Body:     gofakeit.Sentence(10),
				PostID:   posts[i].ID,
				AuthorID: users[rand.Intn(len(users))].ID,
			}
			if err := db.Create(&comment).Error; err != nil {
				return fmt.Errorf("seeding comment: %w", err)
			}
		}
		if n > 0 {
			if err := db.Model(&posts[i]).UpdateColumn("comments_count", n).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedLikes(db *gorm.DB, users []models.User, posts []models.Post) error {
	if len(users) == 0 {
		return nil
	}
	for i := range posts {
		n := rand.Intn(min(len(users), 8))
		// Distinct likers: walk a shuffled copy of the user list.
		perm := rand.Perm(len(users))
		for j := 0; j < n; j++ {
			like := models.Like{
				UserID: users[perm[j]].ID,
				PostID: posts[i].ID,
			}
			if err := db.Create(&like).Error; err != nil {
				return fmt.Errorf("seeding like: %w", err)
			}
		}
		if n > 0 {
			if err := db.Model(&posts[i]).UpdateColumn("likes_count", n).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
