package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/yatube/yatube-services/internal/paginator"
	"github.com/yatube/yatube-services/models"
)

const postColumns = `
	p.id, p.text, p.created_at,
	u.id, u.username,
	g.id, g.title, g.slug, g.description`

const postFrom = `
	FROM posts p
	INNER JOIN users u ON u.id = p.author_id
	LEFT JOIN post_groups g ON g.id = p.group_id`

// Listings are always newest first, ties broken by insertion order.
const postOrder = ` ORDER BY p.created_at DESC, p.id DESC`

// postFilter narrows a listing to one author or one group.
type postFilter struct {
	column string
	value  int64
}

func (f *postFilter) where() (string, []interface{}) {
	if f == nil {
		return "", nil
	}
	return fmt.Sprintf(" WHERE p.%s = $1", f.column), []interface{}{f.value}
}

// GetIndexPage returns a page of all posts.
func (db *BlogDB) GetIndexPage(rawPage string, pageSize int) ([]models.Post, paginator.Window, error) {
	return db.getPostsPage(nil, rawPage, pageSize)
}

// GetGroupPage returns a page of the posts in a group.
func (db *BlogDB) GetGroupPage(groupID int64, rawPage string, pageSize int) ([]models.Post, paginator.Window, error) {
	return db.getPostsPage(&postFilter{column: "group_id", value: groupID}, rawPage, pageSize)
}

// GetAuthorPage returns a page of the posts written by an author.
func (db *BlogDB) GetAuthorPage(authorID int64, rawPage string, pageSize int) ([]models.Post, paginator.Window, error) {
	return db.getPostsPage(&postFilter{column: "author_id", value: authorID}, rawPage, pageSize)
}

// getPostsPage counts the matching posts, resolves the requested page and
// fetches only the rows on that page.
func (db *BlogDB) getPostsPage(filter *postFilter, rawPage string, pageSize int) ([]models.Post, paginator.Window, error) {
	where, args := filter.where()

	// The count and the page are read from one snapshot so that the window
	// always describes the rows returned.
	tx, err := db.DB.BeginTx(context.Background(), &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return nil, paginator.Window{}, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM posts p`+where, args...).Scan(&count); err != nil {
		return nil, paginator.Window{}, fmt.Errorf("error counting posts: %w", err)
	}

	window := paginator.New(count, pageSize).GetPage(rawPage)

	n := len(args)
	query := `SELECT` + postColumns + postFrom + where + postOrder +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, window.Limit(), window.Offset())

	rows, err := tx.Query(query, args...)
	if err != nil {
		return nil, paginator.Window{}, fmt.Errorf("error retrieving posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, paginator.Window{}, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, paginator.Window{}, fmt.Errorf("error iterating posts: %w", err)
	}
	rows.Close()

	if err := db.CommitTransaction(tx); err != nil {
		return nil, paginator.Window{}, err
	}

	return posts, window, nil
}

// GetPost retrieves a single post with its author and group.
func (db *BlogDB) GetPost(postID int64) (*models.Post, error) {
	row := db.DB.QueryRow(`SELECT`+postColumns+postFrom+` WHERE p.id = $1`, postID)

	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %d: %w", postID, ErrPostNotFound)
		}
		return nil, err
	}
	return post, nil
}

// CountAuthorPosts returns the total number of posts written by an author.
func (db *BlogDB) CountAuthorPosts(authorID int64) (int, error) {
	var count int
	err := db.DB.QueryRow(`SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting author posts: %w", err)
	}
	return count, nil
}

// CreatePost inserts a new post owned by authorID.
func (db *BlogDB) CreatePost(authorID int64, form models.PostForm) (*models.Post, error) {
	tx, err := db.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	var postID int64
	err = tx.QueryRow(`
		INSERT INTO posts (text, author_id, group_id, created_at)
		VALUES ($1, $2, $3, clock_timestamp())
		RETURNING id`,
		form.Text, authorID, nullGroup(form.Group)).Scan(&postID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("error inserting post: %w", err)
	}

	if err := db.CommitTransaction(tx); err != nil {
		return nil, err
	}

	db.Log.Debug().Int64("post_id", postID).Int64("author_id", authorID).Msg("Post created")
	return db.GetPost(postID)
}

// UpdatePost replaces the text and group of a post. The author is never
// touched.
func (db *BlogDB) UpdatePost(postID int64, form models.PostForm) (*models.Post, error) {
	tx, err := db.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	res, err := tx.Exec(`UPDATE posts SET text = $1, group_id = $2 WHERE id = $3`,
		form.Text, nullGroup(form.Group), postID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("error updating post: %w", err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		tx.Rollback()
		return nil, fmt.Errorf("post %d: %w", postID, ErrPostNotFound)
	}

	if err := db.CommitTransaction(tx); err != nil {
		return nil, err
	}

	return db.GetPost(postID)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		post        models.Post
		groupID     sql.NullInt64
		title       sql.NullString
		slug        sql.NullString
		description sql.NullString
	)

	if err := row.Scan(
		&post.ID,
		&post.Text,
		&post.CreatedAt,
		&post.Author.ID,
		&post.Author.Username,
		&groupID,
		&title,
		&slug,
		&description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning post: %w", err)
	}

	if groupID.Valid {
		post.Group = &models.Group{
			ID:          groupID.Int64,
			Title:       title.String,
			Slug:        slug.String,
			Description: description.String,
		}
	}
	post.CreatedAt = post.CreatedAt.UTC()

	return &post, nil
}

func nullGroup(groupID *int64) sql.NullInt64 {
	if groupID == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *groupID, Valid: true}
}
