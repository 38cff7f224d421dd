package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"multiblog/models"
	"multiblog/repositories"

	"gorm.io/gorm"
)

const tagDelimiter = ","

type TagService interface {
	ResolveOrCreate(ctx context.Context, name string) (*models.Tag, error)
	FindByName(ctx context.Context, name string) (*models.Tag, error)
	GetTags(ctx context.Context) ([]models.Tag, error)
}

type tagService struct {
	tagRepo repositories.TagRepository
}

func NewTagService(tagRepo repositories.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

func (s *tagService) ResolveOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	if err := validateTagName(name); err != nil {
		return nil, err
	}
	tag, err := s.tagRepo.ResolveOrCreate(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolve tag %q: %w", name, err)
	}
	return tag, nil
}

func (s *tagService) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "tag not found"}
		}
		return nil, err
	}
	return tag, nil
}

func (s *tagService) GetTags(ctx context.Context) ([]models.Tag, error) {
	return s.tagRepo.GetAll(ctx)
}

// ParseTagNames splits a comma-delimited tag list. Tokens are trimmed, empty
// tokens are dropped and repeated names keep their first position, so
// "a, b,,a," yields [a b]. Names are compared case-sensitively.
func ParseTagNames(raw string) ([]string, error) {
	names := []string{}
	seen := make(map[string]struct{})

	for _, token := range strings.Split(raw, tagDelimiter) {
		name := strings.TrimSpace(token)
		if name == "" {
			continue
		}
		if err := validateTagName(name); err != nil {
			return nil, err
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names, nil
}

func validateTagName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return models.ErrorValidation{Fields: []models.FieldError{
			{Field: "tags", Message: "tag name must not be empty"},
		}}
	case utf8.RuneCountInString(name) > models.MaxTagNameLength:
		return models.ErrorValidation{Fields: []models.FieldError{
			{Field: "tags", Message: fmt.Sprintf("tag %q must be at most %d characters", name, models.MaxTagNameLength)},
		}}
	}
	return nil
}
