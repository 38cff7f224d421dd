package repositories

import (
	"context"

	"multiblog/models"

	"gorm.io/gorm"
)

type PostRepository interface {
	WithTx(tx *gorm.DB) PostRepository
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	UpdateBody(ctx context.Context, id uint, body string) error
	Delete(ctx context.Context, post *models.Post) error
	GetList(ctx context.Context, params models.PostListParams) ([]models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) WithTx(tx *gorm.DB) PostRepository {
	return &postRepository{db: tx}
}

// Create inserts the post and its post_tags rows. Tags must already exist;
// they are referenced, not upserted.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Omit("Author", "Tags.*").Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name asc") }).
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) UpdateBody(ctx context.Context, id uint, body string) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Update("body", body).Error
}

// Delete drops the post's tag associations and then the post. Tags are kept.
func (r *postRepository) Delete(ctx context.Context, post *models.Post) error {
	db := r.db.WithContext(ctx)
	if err := db.Model(post).Association("Tags").Clear(); err != nil {
		return err
	}
	return db.Delete(&models.Post{}, post.ID).Error
}

func (r *postRepository) GetList(ctx context.Context, params models.PostListParams) ([]models.Post, error) {
	posts := []models.Post{}

	query := r.db.WithContext(ctx).Model(&models.Post{}).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name asc") })

	if params.AuthorID > 0 {
		query = query.Where("posts.author_id = ?", params.AuthorID)
	}

	if params.TagName != "" {
		query = query.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name = ?", params.TagName)
	}

	err := query.Order("posts.created_at desc").Order("posts.id desc").Find(&posts).Error
	return posts, err
}
