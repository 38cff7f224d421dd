package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"multiblog/helper"
	"multiblog/models"
	"multiblog/repositories"
	"multiblog/testutil"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type memoryImages struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut error
	removed []string
}

func newMemoryImages() *memoryImages {
	return &memoryImages{objects: map[string][]byte{}}
}

func (m *memoryImages) Store(ctx context.Context, r io.Reader, size int64, contentType, name string) (string, error) {
	if m.failPut != nil {
		return "", m.failPut
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ref := "/static/images/" + name
	m.objects[ref] = data
	return ref, nil
}

func (m *memoryImages) Remove(ctx context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, ref)
	m.removed = append(m.removed, ref)
	return nil
}

func (m *memoryImages) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// failingPostRepo fails every insert after the tags were resolved.
type failingPostRepo struct {
	repositories.PostRepository
}

func (r failingPostRepo) WithTx(tx *gorm.DB) repositories.PostRepository {
	return failingPostRepo{r.PostRepository.WithTx(tx)}
}

func (r failingPostRepo) Create(ctx context.Context, post *models.Post) error {
	return errors.New("disk full")
}

// recordingTagRepo remembers the order tags are resolved in, across
// transactions.
type recordingTagRepo struct {
	repositories.TagRepository
	resolved *[]string
}

func (r recordingTagRepo) WithTx(tx *gorm.DB) repositories.TagRepository {
	return recordingTagRepo{r.TagRepository.WithTx(tx), r.resolved}
}

func (r recordingTagRepo) ResolveOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	*r.resolved = append(*r.resolved, name)
	return r.TagRepository.ResolveOrCreate(ctx, name)
}

type fixture struct {
	db      *gorm.DB
	auth    *authService
	posts   PostService
	queries QueryService
	tags    TagService
	images  *memoryImages
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	validator := helper.NewValidator()
	images := newMemoryImages()

	postRepo := repositories.NewPostRepository(db)
	tagRepo := repositories.NewTagRepository(db)

	return &fixture{
		db:      db,
		auth:    newAuthService(repositories.NewUserRepository(db), repositories.NewTokenRepository(nil), validator, bcrypt.MinCost),
		posts:   NewPostService(db, postRepo, tagRepo, images, validator),
		queries: NewQueryService(postRepo),
		tags:    NewTagService(tagRepo),
		images:  images,
	}
}

func (f *fixture) register(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := f.auth.Register(context.Background(), models.RegisterRequest{Username: username, Password: "secret1"})
	require.NoError(t, err)
	return user
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}
