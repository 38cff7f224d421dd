package services

import (
	"context"
	"strings"

	"multiblog/models"
	"multiblog/repositories"
)

// QueryService is the read side: listings, filters and substring search.
type QueryService interface {
	ListAll(ctx context.Context) ([]models.Post, error)
	ByAuthor(ctx context.Context, authorID uint) ([]models.Post, error)
	ByTag(ctx context.Context, tagName string) ([]models.Post, error)
	Search(ctx context.Context, substring string) ([]models.Post, error)
	APIListing(ctx context.Context) ([]models.PostSummary, error)
}

type queryService struct {
	postRepo repositories.PostRepository
}

func NewQueryService(postRepo repositories.PostRepository) QueryService {
	return &queryService{postRepo: postRepo}
}

func (s *queryService) ListAll(ctx context.Context) ([]models.Post, error) {
	return s.postRepo.GetList(ctx, models.PostListParams{})
}

func (s *queryService) ByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	if authorID == 0 {
		return []models.Post{}, nil
	}
	return s.postRepo.GetList(ctx, models.PostListParams{AuthorID: authorID})
}

func (s *queryService) ByTag(ctx context.Context, tagName string) ([]models.Post, error) {
	if tagName == "" {
		return []models.Post{}, nil
	}
	return s.postRepo.GetList(ctx, models.PostListParams{TagName: tagName})
}

// Search matches title or body with case-sensitive "contains" semantics.
// The scan happens here rather than in SQL so the result does not depend on
// the database collation.
func (s *queryService) Search(ctx context.Context, substring string) ([]models.Post, error) {
	posts, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	matches := []models.Post{}
	for _, p := range posts {
		if strings.Contains(p.Title, substring) || strings.Contains(p.Body, substring) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (s *queryService) APIListing(ctx context.Context) ([]models.PostSummary, error) {
	posts, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.PostSummary, 0, len(posts))
	for _, p := range posts {
		summaries = append(summaries, models.PostSummary{
			Title:  p.Title,
			Author: p.Author.Username,
			Text:   p.Body,
		})
	}
	return summaries, nil
}
