package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"multiblog/helper"
	"multiblog/models"
	"multiblog/repositories"
	"multiblog/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var allowedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

type PostService interface {
	CreatePost(ctx context.Context, req models.CreatePostRequest, image *models.ImageUpload, userID uint) (*models.Post, error)
	GetPost(ctx context.Context, id uint) (*models.Post, error)
	UpdatePost(ctx context.Context, id uint, req models.UpdatePostRequest, userID uint) (*models.Post, error)
	DeletePost(ctx context.Context, id uint, userID uint) error
}

type postService struct {
	db        *gorm.DB
	postRepo  repositories.PostRepository
	tagRepo   repositories.TagRepository
	images    storage.ImageStorage
	validator *helper.Validator
	imageName func(ext string) string
}

func NewPostService(db *gorm.DB, postRepo repositories.PostRepository, tagRepo repositories.TagRepository, images storage.ImageStorage, validator *helper.Validator) PostService {
	return &postService{
		db:        db,
		postRepo:  postRepo,
		tagRepo:   tagRepo,
		images:    images,
		validator: validator,
		imageName: randomImageName,
	}
}

// randomImageName never reuses a name and reveals nothing about how many
// posts exist.
func randomImageName(ext string) string {
	return uuid.NewString() + ext
}

// CreatePost validates the input, stores the image if there is one, and
// writes the post with its tags in a single transaction. When the
// transaction fails the stored image is removed again.
func (s *postService) CreatePost(ctx context.Context, req models.CreatePostRequest, image *models.ImageUpload, userID uint) (*models.Post, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)

	tagNames, err := s.validateCreate(req, image)
	if err != nil {
		return nil, err
	}

	var imageRef *string
	if image != nil {
		ref, err := s.storeImage(ctx, image)
		if err != nil {
			return nil, err
		}
		imageRef = &ref
	}

	post := &models.Post{
		Title:    req.Title,
		Body:     req.Body,
		Image:    imageRef,
		AuthorID: userID,
	}

	// Concurrent creates lock new tag rows in the same order, so two posts
	// tagged "x,y" and "y,x" cannot deadlock on each other's inserts.
	lockOrder := append([]string(nil), tagNames...)
	sort.Strings(lockOrder)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tagRepo := s.tagRepo.WithTx(tx)
		for _, name := range lockOrder {
			tag, err := tagRepo.ResolveOrCreate(ctx, name)
			if err != nil {
				return fmt.Errorf("resolve tag %q: %w", name, err)
			}
			post.Tags = append(post.Tags, *tag)
		}

		if err := s.postRepo.WithTx(tx).Create(ctx, post); err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return models.ErrorNotFound{Message: "author not found"}
			}
			return fmt.Errorf("create post: %w", err)
		}
		return nil
	})
	if err != nil {
		if imageRef != nil {
			s.discardImage(ctx, *imageRef)
		}
		return nil, err
	}

	return s.GetPost(ctx, post.ID)
}

func (s *postService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "post not found"}
		}
		return nil, err
	}
	return post, nil
}

// UpdatePost replaces the body of a post owned by userID. Title, author,
// image and creation time never change.
func (s *postService) UpdatePost(ctx context.Context, id uint, req models.UpdatePostRequest, userID uint) (*models.Post, error) {
	req.Body = strings.TrimSpace(req.Body)
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postRepo := s.postRepo.WithTx(tx)
		if _, err := ownedPost(ctx, postRepo, id, userID); err != nil {
			return err
		}
		return postRepo.UpdateBody(ctx, id, req.Body)
	})
	if err != nil {
		return nil, err
	}

	return s.GetPost(ctx, id)
}

// DeletePost removes a post owned by userID along with its tag
// associations. Tags stay in the registry.
func (s *postService) DeletePost(ctx context.Context, id uint, userID uint) error {
	var imageRef *string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postRepo := s.postRepo.WithTx(tx)
		post, err := ownedPost(ctx, postRepo, id, userID)
		if err != nil {
			return err
		}
		imageRef = post.Image
		return postRepo.Delete(ctx, post)
	})
	if err != nil {
		return err
	}

	if imageRef != nil {
		s.discardImage(ctx, *imageRef)
	}
	return nil
}

func ownedPost(ctx context.Context, postRepo repositories.PostRepository, id, userID uint) (*models.Post, error) {
	post, err := postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "post not found"}
		}
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, models.ErrorForbidden{Message: "only the author can modify this post"}
	}
	return post, nil
}

func (s *postService) validateCreate(req models.CreatePostRequest, image *models.ImageUpload) ([]string, error) {
	var fields []models.FieldError

	if err := s.validator.ValidateStruct(req); err != nil {
		var validationErr models.ErrorValidation
		if !errors.As(err, &validationErr) {
			return nil, err
		}
		fields = append(fields, validationErr.Fields...)
	}

	tagNames, err := ParseTagNames(req.Tags)
	if err != nil {
		var validationErr models.ErrorValidation
		if !errors.As(err, &validationErr) {
			return nil, err
		}
		fields = append(fields, validationErr.Fields...)
	}

	if image != nil {
		ext := strings.ToLower(filepath.Ext(image.Filename))
		if !allowedImageExtensions[ext] {
			fields = append(fields, models.FieldError{Field: "image", Message: "image must be a png, jpg, jpeg, gif or webp file"})
		}
	}

	if len(fields) > 0 {
		return nil, models.ErrorValidation{Fields: fields}
	}
	return tagNames, nil
}

func (s *postService) storeImage(ctx context.Context, image *models.ImageUpload) (string, error) {
	if s.images == nil {
		return "", models.ErrorStorage{Message: "image uploads are not configured"}
	}

	name := s.imageName(strings.ToLower(filepath.Ext(image.Filename)))
	ref, err := s.images.Store(ctx, image.Reader, image.Size, image.ContentType, name)
	if err != nil {
		return "", models.ErrorStorage{Message: "failed to store image", Err: err}
	}
	return ref, nil
}

// discardImage is best effort; an image that cannot be removed stays behind
// as an orphan.
func (s *postService) discardImage(ctx context.Context, ref string) {
	if err := s.images.Remove(context.WithoutCancel(ctx), ref); err != nil {
		log.Printf("failed to remove image %s: %v", ref, err)
	}
}
