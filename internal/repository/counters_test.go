package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"mosaic/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupSQLiteDB gives each test an isolated in-memory database with the real
// schema, so the counter transactions run against actual SQL. Foreign keys
// are switched on to match the migrated Postgres schema.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Post{}, &models.Comment{}, &models.Like{},
	))
	return db
}

func createUserAndPost(t *testing.T, db *gorm.DB) (*models.User, *models.Post) {
	t.Helper()

	user := &models.User{Username: "author", Email: "author@example.com", Password: "hash"}
	require.NoError(t, db.Create(user).Error)

	post := &models.Post{Name: "First post", Description: "hello", AuthorID: user.ID}
	require.NoError(t, db.Create(post).Error)
	return user, post
}

func TestLikeIsIdempotentPerUser(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	user, post := createUserAndPost(t, db)

	liker := &models.User{Username: "liker", Email: "liker@example.com", Password: "hash"}
	require.NoError(t, db.Create(liker).Error)

	require.NoError(t, repo.Like(ctx, liker.ID, post.ID))

	// The second like must fail the business rule and change nothing.
	err := repo.Like(ctx, liker.ID, post.ID)
	require.Error(t, err)
	assert.Equal(t, models.CodeAlreadyLiked, models.ErrorCode(err))

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Equal(t, 1, reloaded.LikesCount)

	likers, err := repo.Likers(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, likers, 1)
	assert.Equal(t, liker.ID, likers[0].ID)

	// A different user still counts.
	require.NoError(t, repo.Like(ctx, user.ID, post.ID))
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Equal(t, 2, reloaded.LikesCount)
}

func TestLikeUnknownPost(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)

	user, _ := createUserAndPost(t, db)

	err := repo.Like(context.Background(), user.ID, 999)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	// The failed transaction must not leave a like row behind.
	var likes int64
	require.NoError(t, db.Model(&models.Like{}).Count(&likes).Error)
	assert.Zero(t, likes)
}

func TestCommentsIncrementCounterExactly(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user, post := createUserAndPost(t, db)

	const n = 3
	for i := 0; i < n; i++ {
		comment := &models.Comment{
			Body:     fmt.Sprintf("comment %d", i+1),
			PostID:   post.ID,
			AuthorID: user.ID,
		}
		require.NoError(t, repo.Create(ctx, comment))
	}

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Equal(t, n, reloaded.CommentsCount)

	comments, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, n)
	// Insertion order: ascending identifiers.
	assert.Equal(t, "comment 1", comments[0].Body)
	assert.Equal(t, "comment 3", comments[2].Body)
	assert.Equal(t, user.Username, comments[0].Author.Username)
}

func TestCommentOnUnknownPostRollsBack(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewCommentRepository(db)

	user, _ := createUserAndPost(t, db)

	err := repo.Create(context.Background(), &models.Comment{
		Body: "into the void", PostID: 777, AuthorID: user.ID,
	})
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}
