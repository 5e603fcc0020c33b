package service

import (
	"context"
	"testing"

	"mosaic/internal/models"
	"mosaic/internal/repository"

	"github.com/stretchr/testify/assert"
)

// Function-field stubs shared by the service tests in this package.

type userRepoStub struct {
	getByIDFn          func(context.Context, uint) (*models.User, error)
	getByIDForUpdateFn func(context.Context, uint) (*models.User, error)
	getByIDWithPostsFn func(context.Context, uint) (*models.User, error)
	getByEmailFn       func(context.Context, string) (*models.User, error)
	getByUsernameFn    func(context.Context, string) (*models.User, error)
	firstMatchingFn    func(context.Context, string) (*models.User, error)
	createFn           func(context.Context, *models.User) error
	updateFn           func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDForUpdate(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDForUpdateFn(ctx, id)
}
func (s *userRepoStub) GetByIDWithPosts(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDWithPostsFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) FirstMatching(ctx context.Context, term string) (*models.User, error) {
	return s.firstMatchingFn(ctx, term)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:          func(context.Context, uint) (*models.User, error) { return nil, nil },
		getByIDForUpdateFn: func(context.Context, uint) (*models.User, error) { return nil, nil },
		getByIDWithPostsFn: func(context.Context, uint) (*models.User, error) { return nil, nil },
		getByEmailFn:       func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn:    func(context.Context, string) (*models.User, error) { return nil, nil },
		firstMatchingFn:    func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:           func(context.Context, *models.User) error { return nil },
		updateFn:           func(context.Context, *models.User) error { return nil },
	}
}

type postRepoStub struct {
	createFn              func(context.Context, *models.Post) error
	getByIDFn             func(context.Context, uint) (*models.Post, error)
	countFn               func(context.Context, repository.PostFilter) (int64, error)
	listFn                func(context.Context, repository.PostFilter, int, int) ([]models.Post, error)
	byAuthorNewestFirstFn func(context.Context, uint) ([]models.Post, error)
	isLikedFn             func(context.Context, uint, uint) (bool, error)
	likeFn                func(context.Context, uint, uint) error
	likersFn              func(context.Context, uint) ([]models.User, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Count(ctx context.Context, f repository.PostFilter) (int64, error) {
	return s.countFn(ctx, f)
}
func (s *postRepoStub) List(ctx context.Context, f repository.PostFilter, offset, limit int) ([]models.Post, error) {
	return s.listFn(ctx, f, offset, limit)
}
func (s *postRepoStub) ByAuthorNewestFirst(ctx context.Context, authorID uint) ([]models.Post, error) {
	return s.byAuthorNewestFirstFn(ctx, authorID)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Likers(ctx context.Context, postID uint) ([]models.User, error) {
	return s.likersFn(ctx, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(context.Context, *models.Post) error { return nil },
		getByIDFn: func(context.Context, uint) (*models.Post, error) { return nil, nil },
		countFn:   func(context.Context, repository.PostFilter) (int64, error) { return 0, nil },
		listFn: func(context.Context, repository.PostFilter, int, int) ([]models.Post, error) {
			return nil, nil
		},
		byAuthorNewestFirstFn: func(context.Context, uint) ([]models.Post, error) { return nil, nil },
		isLikedFn:             func(context.Context, uint, uint) (bool, error) { return false, nil },
		likeFn:                func(context.Context, uint, uint) error { return nil },
		likersFn:              func(context.Context, uint) ([]models.User, error) { return nil, nil },
	}
}

type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	listByPostFn func(context.Context, uint) ([]models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(context.Context, *models.Comment) error { return nil },
		listByPostFn: func(context.Context, uint) ([]models.Comment, error) { return nil, nil },
	}
}

func assertFieldError(t *testing.T, fields map[string]string, key string) {
	t.Helper()
	assert.Contains(t, fields, key)
	assert.NotEmpty(t, fields[key])
}
