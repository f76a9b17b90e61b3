package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/yatube/yatube-services/models"
)

// GetGroups retrieves every group ordered by title, for form choices.
func (db *BlogDB) GetGroups() ([]models.Group, error) {
	rows, err := db.DB.Query(`SELECT id, title, slug, description FROM post_groups ORDER BY title, id`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
			return nil, fmt.Errorf("error scanning group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// GetGroupBySlug retrieves a single group by its slug.
func (db *BlogDB) GetGroupBySlug(slug string) (*models.Group, error) {
	row := db.DB.QueryRow(`SELECT id, title, slug, description FROM post_groups WHERE slug = $1`, slug)

	var g models.Group
	if err := row.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("group %q: %w", slug, ErrGroupNotFound)
		}
		return nil, fmt.Errorf("error scanning group: %w", err)
	}
	return &g, nil
}

// CheckGroupExists checks if a group with the specified id exists.
func (db *BlogDB) CheckGroupExists(groupID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM post_groups WHERE id = $1)`
	var exists bool
	err := db.DB.QueryRow(query, groupID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking group existence: %w", err)
	}
	return exists, nil
}

// CreateGroup inserts a new group. Groups are managed out of band through
// the CLI, never through the HTTP API.
func (db *BlogDB) CreateGroup(group models.Group) (*models.Group, error) {
	tx, err := db.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	err = tx.QueryRow(`
		INSERT INTO post_groups (title, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id`,
		group.Title, group.Slug, group.Description).Scan(&group.ID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("error inserting group: %w", err)
	}

	if err := db.CommitTransaction(tx); err != nil {
		return nil, err
	}

	db.Log.Info().Str("slug", group.Slug).Msg("Group created")
	return &group, nil
}
