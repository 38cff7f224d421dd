package repositories

import (
	"context"

	"multiblog/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepository interface {
	WithTx(tx *gorm.DB) TagRepository
	ResolveOrCreate(ctx context.Context, name string) (*models.Tag, error)
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	GetAll(ctx context.Context) ([]models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository {
	return &tagRepository{db: tx}
}

// ResolveOrCreate inserts the tag unless the unique index on name already
// holds it, then reads the stored row. Concurrent callers racing on a new
// name are serialized by the index, never by a check-then-insert.
func (r *tagRepository) ResolveOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	tag := models.Tag{Name: name}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&tag).Error
	if err != nil {
		return nil, err
	}
	if tag.ID != 0 {
		return &tag, nil
	}
	return r.GetByName(ctx, name)
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetAll(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := r.db.WithContext(ctx).Order("name asc").Find(&tags).Error
	return tags, err
}
