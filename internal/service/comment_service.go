package service

import (
	"context"
	"strings"

	"mosaic/internal/models"
	"mosaic/internal/observability"
	"mosaic/internal/repository"
	"mosaic/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
}

type CreateCommentInput struct {
	AuthorID uint
	PostID   uint
	Body     string
}

func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

const maxCommentLen = 5000

// CreateComment validates and stores a comment; the post's comment counter
// moves in the same transaction as the insert.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, validation.FieldErrors, error) {
	fields := validation.FieldErrors{}

	body := strings.TrimSpace(in.Body)
	if body == "" {
		fields["body"] = "Comment cannot be empty"
	} else if len(body) > maxCommentLen {
		fields["body"] = "Comment too long (max 5000 characters)"
	}
	if fields.HasErrors() {
		return nil, fields, nil
	}

	comment := &models.Comment{
		Body:     body,
		PostID:   in.PostID,
		AuthorID: in.AuthorID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, nil, err
	}
	observability.CommentsCreated.Inc()
	return comment, nil, nil
}

// ListComments returns a post's comments oldest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}
