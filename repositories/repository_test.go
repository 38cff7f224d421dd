package repositories

import (
	"context"
	"sync"
	"testing"

	"multiblog/models"
	"multiblog/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "hash", Role: models.RoleAuthor}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "alice", Password: "x"}))
	err := repo.Create(ctx, &models.User{Username: "alice", Password: "y"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var count int64
	db.Model(&models.User{}).Where("username = ?", "alice").Count(&count)
	assert.Equal(t, int64(1), count)

	// usernames are case-sensitive
	require.NoError(t, repo.Create(ctx, &models.User{Username: "Alice", Password: "z"}))
}

func TestUserRepository_Lookup(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "bob")

	found, err := repo.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, models.RoleAuthor, found.Role)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.GetByID(ctx, user.ID+100)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTagRepository_ResolveOrCreateIsIdempotent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	first, err := repo.ResolveOrCreate(ctx, "media")
	require.NoError(t, err)
	second, err := repo.ResolveOrCreate(ctx, "media")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "media", second.Name)

	other, err := repo.ResolveOrCreate(ctx, "Media")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestTagRepository_ConcurrentResolveCreatesOneRow(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	const workers = 8
	ids := make([]uint, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = db.Transaction(func(tx *gorm.DB) error {
				tag, err := repo.WithTx(tx).ResolveOrCreate(ctx, "brand-new")
				if err != nil {
					return err
				}
				ids[i] = tag.ID
				return nil
			})
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int64
	db.Model(&models.Tag{}).Where("name = ?", "brand-new").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestTagRepository_GetByName(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	_, err := repo.GetByName(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.ResolveOrCreate(ctx, "news")
	require.NoError(t, err)
	_, err = repo.ResolveOrCreate(ctx, "intro")
	require.NoError(t, err)

	tag, err := repo.GetByName(ctx, "news")
	require.NoError(t, err)
	assert.Equal(t, "news", tag.Name)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "intro", all[0].Name)
	assert.Equal(t, "news", all[1].Name)
}

func createPost(t *testing.T, db *gorm.DB, author *models.User, title, body string, tagNames ...string) *models.Post {
	t.Helper()
	ctx := context.Background()
	tagRepo := NewTagRepository(db)

	post := &models.Post{Title: title, Body: body, AuthorID: author.ID}
	for _, name := range tagNames {
		tag, err := tagRepo.ResolveOrCreate(ctx, name)
		require.NoError(t, err)
		post.Tags = append(post.Tags, *tag)
	}
	require.NoError(t, NewPostRepository(db).Create(ctx, post))
	return post
}

func TestPostRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	post := createPost(t, db, alice, "Hello", "World", "news", "intro")

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "World", got.Body)
	assert.Nil(t, got.Image)
	assert.Equal(t, "alice", got.Author.Username)
	assert.Equal(t, []string{"intro", "news"}, got.TagNames())
	assert.False(t, got.CreatedAt.IsZero())

	_, err = repo.GetByID(ctx, post.ID+1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPostRepository_UpdateBodyKeepsCreatedAt(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	post := createPost(t, db, alice, "Hello", "World")
	before, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateBody(ctx, post.ID, "Changed"))

	after, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Changed", after.Body)
	assert.Equal(t, "Hello", after.Title)
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))
	assert.Equal(t, alice.ID, after.AuthorID)
}

func TestPostRepository_DeleteKeepsTags(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	doomed := createPost(t, db, alice, "Doomed", "soon gone", "shared", "lonely")
	kept := createPost(t, db, alice, "Kept", "still here", "shared")

	require.NoError(t, repo.Delete(ctx, doomed))

	_, err := repo.GetByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var links int64
	db.Table("post_tags").Where("post_id = ?", doomed.ID).Count(&links)
	assert.Zero(t, links)

	var tags int64
	db.Model(&models.Tag{}).Where("name IN ?", []string{"shared", "lonely"}).Count(&tags)
	assert.Equal(t, int64(2), tags)

	got, err := repo.GetByID(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared"}, got.TagNames())
}

func TestPostRepository_GetListFilters(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	p1 := createPost(t, db, alice, "One", "first", "go", "news")
	p2 := createPost(t, db, bob, "Two", "second", "go")
	p3 := createPost(t, db, alice, "Three", "third")

	all, err := repo.GetList(ctx, models.PostListParams{})
	require.NoError(t, err)
	assert.Equal(t, []uint{p3.ID, p2.ID, p1.ID}, postIDs(all))

	byAlice, err := repo.GetList(ctx, models.PostListParams{AuthorID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{p3.ID, p1.ID}, postIDs(byAlice))

	byGo, err := repo.GetList(ctx, models.PostListParams{TagName: "go"})
	require.NoError(t, err)
	assert.Equal(t, []uint{p2.ID, p1.ID}, postIDs(byGo))
	assert.Equal(t, []string{"go", "news"}, byGo[1].TagNames())

	none, err := repo.GetList(ctx, models.PostListParams{TagName: "nothing"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
