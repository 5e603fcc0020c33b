package service

import (
	"context"
	"strings"

	"mosaic/internal/models"
	"mosaic/internal/observability"
	"mosaic/internal/pagination"
	"mosaic/internal/repository"
	"mosaic/internal/validation"
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

type CreatePostInput struct {
	AuthorID    uint
	Name        string
	Description string
}

// ListInput carries the shared paging and search parameters for the two
// post listings.
type ListInput struct {
	Page   int
	Search string
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

const (
	maxPostNameLen        = 255
	maxPostDescriptionLen = 10000
)

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, validation.FieldErrors, error) {
	fields := validation.FieldErrors{}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		fields["name"] = "Name is required"
	} else if len(name) > maxPostNameLen {
		fields["name"] = "Name too long (max 255 characters)"
	}
	if len(in.Description) > maxPostDescriptionLen {
		fields["description"] = "Description too long (max 10000 characters)"
	}
	if fields.HasErrors() {
		return nil, fields, nil
	}

	post := &models.Post{
		Name:        name,
		Description: in.Description,
		AuthorID:    in.AuthorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, nil, err
	}
	observability.PostsCreated.Inc()
	return post, nil, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// IndexPosts pages through every post, optionally narrowed by a
// case-insensitive substring match on name or description.
func (s *PostService) IndexPosts(ctx context.Context, in ListInput) (pagination.Page[models.Post], error) {
	filter := repository.PostFilter{Search: strings.TrimSpace(in.Search)}
	return s.fetch(ctx, in.Page, filter)
}

// MainPosts pages through posts scoped to a single author. Without a search
// term that author is the requester. With one, the term is matched against
// user identity fields and the first matching user's posts are shown; when
// nobody matches the result is empty rather than falling back to all posts.
func (s *PostService) MainPosts(ctx context.Context, userID uint, in ListInput) (pagination.Page[models.Post], *models.User, error) {
	term := strings.TrimSpace(in.Search)
	if term == "" {
		page, err := s.fetch(ctx, in.Page, repository.PostFilter{AuthorID: userID})
		return page, nil, err
	}

	matched, err := s.userRepo.FirstMatching(ctx, term)
	if err != nil {
		return pagination.Page[models.Post]{}, nil, err
	}
	if matched == nil {
		page, err := pagination.Empty[models.Post](in.Page, pagination.DefaultPageSize, pagination.DefaultOrphans)
		return page, nil, err
	}

	page, err := s.fetch(ctx, in.Page, repository.PostFilter{AuthorID: matched.ID})
	return page, matched, err
}

func (s *PostService) fetch(ctx context.Context, number int, filter repository.PostFilter) (pagination.Page[models.Post], error) {
	return pagination.Fetch(ctx, number, pagination.DefaultPageSize, pagination.DefaultOrphans,
		func(ctx context.Context) (int64, error) {
			return s.postRepo.Count(ctx, filter)
		},
		func(ctx context.Context, offset, limit int) ([]models.Post, error) {
			return s.postRepo.List(ctx, filter, offset, limit)
		},
	)
}

// ProfilePosts lists everything a user has authored, newest first, without
// pagination.
func (s *PostService) ProfilePosts(ctx context.Context, authorID uint) ([]models.Post, error) {
	return s.postRepo.ByAuthorNewestFirst(ctx, authorID)
}

// Like records a like once per user per post. The duplicate case comes back
// as an ALREADY_LIKED error for the handler to turn into a notice.
func (s *PostService) Like(ctx context.Context, userID, postID uint) error {
	if err := s.postRepo.Like(ctx, userID, postID); err != nil {
		return err
	}
	observability.LikesRecorded.Inc()
	return nil
}

func (s *PostService) Likers(ctx context.Context, postID uint) ([]models.User, error) {
	return s.postRepo.Likers(ctx, postID)
}

func (s *PostService) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.postRepo.IsLiked(ctx, userID, postID)
}
