package db

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/yatube/yatube-services/models"
)

var blogDB *BlogDB

// setupPostgresContainer initializes a PostgreSQL container for testing
func setupPostgresContainer(ctx context.Context) (string, func(), error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:13",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", nil, fmt.Errorf("could not start container: %w", err)
	}

	host, err := postgresC.Host(ctx)
	if err != nil {
		postgresC.Terminate(ctx)
		return "", nil, fmt.Errorf("could not get container host: %w", err)
	}
	port, err := postgresC.MappedPort(ctx, "5432/tcp")
	if err != nil {
		postgresC.Terminate(ctx)
		return "", nil, fmt.Errorf("could not get mapped port: %w", err)
	}

	connStr := fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, port.Port())
	return connStr, func() { postgresC.Terminate(ctx) }, nil
}

// TestMain sets up the shared database for all tests. Without docker, or
// with -short, the database tests are skipped.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	connStr, cleanup, err := setupPostgresContainer(ctx)
	if err != nil {
		fmt.Printf("Could not set up PostgreSQL container: %v\n", err)
		os.Exit(m.Run())
	}

	logger := zerolog.Nop()
	blogDB, err = NewBlogDB("postgres", connStr, &logger)
	if err == nil {
		err = blogDB.Migrate()
	}
	if err != nil {
		fmt.Printf("Could not prepare database: %v\n", err)
		cleanup()
		os.Exit(1)
	}

	code := m.Run()
	blogDB.Close()
	cleanup()
	os.Exit(code)
}

func requireDB(t *testing.T) *BlogDB {
	t.Helper()
	if blogDB == nil {
		t.Skip("database container not available")
	}
	_, err := blogDB.DB.Exec(`TRUNCATE posts, post_groups, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return blogDB
}

func createPosts(t *testing.T, db *BlogDB, author *models.User, group *models.Group, n int) []*models.Post {
	t.Helper()
	var groupID *int64
	if group != nil {
		groupID = &group.ID
	}

	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		post, err := db.CreatePost(author.ID, models.PostForm{Text: fmt.Sprintf("post %d", i), Group: groupID})
		require.NoError(t, err)
		posts = append(posts, post)
	}
	return posts
}

func TestGetIndexPage_Paginates(t *testing.T) {
	db := requireDB(t)

	author, err := db.EnsureUser("User")
	require.NoError(t, err)
	created := createPosts(t, db, author, nil, 13)

	posts, window, err := db.GetIndexPage("", 10)
	require.NoError(t, err)
	assert.Len(t, posts, 10)
	assert.Equal(t, 1, window.Number)
	assert.Equal(t, 2, window.NumPages)

	// Newest first
	assert.Equal(t, created[12].ID, posts[0].ID)
	assert.Equal(t, "User", posts[0].Author.Username)

	posts, window, err = db.GetIndexPage("2", 10)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
	assert.Equal(t, 2, window.Number)
	assert.Equal(t, created[0].ID, posts[2].ID)

	// Past the end clamps to the last page
	posts, window, err = db.GetIndexPage("7", 10)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
	assert.Equal(t, 2, window.Number)
}

func TestGetGroupPage_FiltersByGroup(t *testing.T) {
	db := requireDB(t)

	author, err := db.EnsureUser("User")
	require.NoError(t, err)
	group, err := db.CreateGroup(models.Group{Title: "Test group", Slug: "test-slug", Description: "Test group description"})
	require.NoError(t, err)
	other, err := db.CreateGroup(models.Group{Title: "Other group", Slug: "other-slug"})
	require.NoError(t, err)

	createPosts(t, db, author, group, 2)
	createPosts(t, db, author, nil, 1)

	posts, window, err := db.GetGroupPage(group.ID, "", 10)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, 2, window.Count)
	for _, p := range posts {
		require.NotNil(t, p.Group)
		assert.Equal(t, "test-slug", p.Group.Slug)
	}

	posts, _, err = db.GetGroupPage(other.ID, "", 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestGetAuthorPage_FiltersByAuthor(t *testing.T) {
	db := requireDB(t)

	author, err := db.EnsureUser("author")
	require.NoError(t, err)
	reader, err := db.EnsureUser("reader")
	require.NoError(t, err)

	createPosts(t, db, author, nil, 3)
	createPosts(t, db, reader, nil, 1)

	posts, _, err := db.GetAuthorPage(author.ID, "1", 10)
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	count, err := db.CountAuthorPosts(author.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestUpdatePost_KeepsAuthor(t *testing.T) {
	db := requireDB(t)

	author, err := db.EnsureUser("author")
	require.NoError(t, err)
	group, err := db.CreateGroup(models.Group{Title: "Group", Slug: "group"})
	require.NoError(t, err)
	post := createPosts(t, db, author, nil, 1)[0]

	updated, err := db.UpdatePost(post.ID, models.PostForm{Text: "edited", Group: &group.ID})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	assert.Equal(t, author.ID, updated.Author.ID)
	require.NotNil(t, updated.Group)
	assert.Equal(t, group.ID, updated.Group.ID)
	assert.Equal(t, post.CreatedAt, updated.CreatedAt)

	_, err = db.UpdatePost(post.ID+100, models.PostForm{Text: "ghost"})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestLookups_NotFound(t *testing.T) {
	db := requireDB(t)

	_, err := db.GetPost(42)
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = db.GetGroupBySlug("missing")
	assert.ErrorIs(t, err, ErrGroupNotFound)

	_, err = db.GetUserByUsername("nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)

	exists, err := db.CheckGroupExists(42)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestEnsureUser_Idempotent(t *testing.T) {
	db := requireDB(t)

	first, err := db.EnsureUser("leo")
	require.NoError(t, err)
	second, err := db.EnsureUser("leo")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	found, err := db.GetUserByUsername("leo")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestGetGroups_OrderedByTitle(t *testing.T) {
	db := requireDB(t)

	_, err := db.CreateGroup(models.Group{Title: "B", Slug: "b"})
	require.NoError(t, err)
	_, err = db.CreateGroup(models.Group{Title: "A", Slug: "a"})
	require.NoError(t, err)

	groups, err := db.GetGroups()
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "a", groups[0].Slug)
}

func TestGetIndexPage_WindowMatchesRowsUnderConcurrentInserts(t *testing.T) {
	db := requireDB(t)

	author, err := db.EnsureUser("User")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 30; i++ {
			if _, err := db.CreatePost(author.ID, models.PostForm{Text: fmt.Sprintf("post %d", i)}); err != nil {
				t.Errorf("create post: %v", err)
				return
			}
		}
	}()

	for i := 0; i < 50; i++ {
		posts, window, err := db.GetIndexPage("", 10)
		require.NoError(t, err)
		assert.Len(t, posts, window.Len(), "count=%d", window.Count)
	}
	wg.Wait()
}
