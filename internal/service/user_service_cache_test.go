package service

import (
	"context"
	"testing"

	"mosaic/internal/cache"
	"mosaic/internal/models"
	"mosaic/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Not parallel: installs a process-wide cache client.
func TestUpdateProfileKeepsPasswordHashWithWarmCache(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:profilecache?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}))

	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	const hash = "$2a$10$N9qo8uLOickgx2ZMRZoMye"
	user := &models.User{
		Username: "carol", Email: "carol@example.com",
		FirstName: "Carol", LastName: "Old",
		Password: hash,
	}
	require.NoError(t, db.Create(user).Error)

	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	// Warm the cache the way every authenticated page render does, then read
	// through it once more. Cached copies are serialized without the password.
	_, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	cached, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cached.Password)

	svc := NewUserService(repo)
	updated, fields, err := svc.UpdateProfile(ctx, UpdateProfileInput{
		RequesterID: user.ID,
		UserID:      user.ID,
		Username:    "carol",
		Email:       "carol@example.com",
		FirstName:   "Carol",
		LastName:    "New",
	})
	require.NoError(t, err)
	require.Empty(t, fields)
	assert.Equal(t, "New", updated.LastName)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "New", reloaded.LastName)
	assert.Equal(t, hash, reloaded.Password, "profile edits must not touch the stored hash")
}
