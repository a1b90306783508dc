package repository

import (
	"context"
	"errors"
	"fmt"

	"cat_registry/internal/model"

	"github.com/jackc/pgx/v5"
)

// CatRepository defines operations for cat data
type CatRepository interface {
	Create(ctx context.Context, cat *model.Cat) error
	FindByID(ctx context.Context, id string) (*model.Cat, error)
	FindAll(ctx context.Context) ([]model.Cat, error)
	FindByOwnerID(ctx context.Context, ownerID string) ([]model.Cat, error)
	FindInBoundingBox(ctx context.Context, minLon, minLat, maxLon, maxLat float64) ([]model.Cat, error)
	Update(ctx context.Context, cat *model.Cat) error
	Delete(ctx context.Context, id string) error
}

type catRepository struct {
	db DB
}

// NewCatRepository creates a new CatRepository
func NewCatRepository(db DB) CatRepository {
	return &catRepository{db: db}
}

const catColumns = `id, cat_name, weight, filename, birthdate, location, owner`

func scanCat(row pgx.Row) (*model.Cat, error) {
	c := &model.Cat{}
	err := row.Scan(&c.ID, &c.CatName, &c.Weight, &c.Filename, &c.Birthdate, &c.Location, &c.Owner)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new cat into the database
func (r *catRepository) Create(ctx context.Context, cat *model.Cat) error {
	sql := `INSERT INTO cats (id, cat_name, weight, filename, birthdate, location, owner)
            VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, sql, cat.ID, cat.CatName, cat.Weight, cat.Filename, cat.Birthdate, cat.Location, cat.Owner)
	if err != nil {
		return fmt.Errorf("failed to create cat: %w", err)
	}
	return nil
}

// FindByID retrieves a cat by its ID
func (r *catRepository) FindByID(ctx context.Context, id string) (*model.Cat, error) {
	sql := `SELECT ` + catColumns + ` FROM cats WHERE id = $1`
	cat, err := scanCat(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find cat by ID: %w", err)
	}
	return cat, nil
}

func (r *catRepository) queryCats(ctx context.Context, sql string, args ...any) ([]model.Cat, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cats: %w", err)
	}
	defer rows.Close()

	var cats []model.Cat
	for rows.Next() {
		var c model.Cat
		if err := rows.Scan(&c.ID, &c.CatName, &c.Weight, &c.Filename, &c.Birthdate, &c.Location, &c.Owner); err != nil {
			return nil, fmt.Errorf("failed to scan cat row: %w", err)
		}
		cats = append(cats, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cat rows: %w", err)
	}
	return cats, nil
}

// FindAll retrieves every cat record
func (r *catRepository) FindAll(ctx context.Context) ([]model.Cat, error) {
	sql := `SELECT ` + catColumns + ` FROM cats ORDER BY cat_name`
	return r.queryCats(ctx, sql)
}

// FindByOwnerID retrieves all cats whose owner snapshot carries the given user id
func (r *catRepository) FindByOwnerID(ctx context.Context, ownerID string) ([]model.Cat, error) {
	sql := `SELECT ` + catColumns + ` FROM cats WHERE owner->>'_id' = $1 ORDER BY cat_name`
	return r.queryCats(ctx, sql, ownerID)
}

// FindInBoundingBox retrieves all cats whose location falls inside the
// axis-aligned rectangle. Corners are passed through as given; the database
// rejects values it cannot compare.
func (r *catRepository) FindInBoundingBox(ctx context.Context, minLon, minLat, maxLon, maxLat float64) ([]model.Cat, error) {
	sql := `SELECT ` + catColumns + ` FROM cats
            WHERE location IS NOT NULL
              AND (location->'coordinates'->>0)::float8 BETWEEN $1 AND $3
              AND (location->'coordinates'->>1)::float8 BETWEEN $2 AND $4`
	return r.queryCats(ctx, sql, minLon, minLat, maxLon, maxLat)
}

// Update overwrites an existing cat record
func (r *catRepository) Update(ctx context.Context, cat *model.Cat) error {
	sql := `UPDATE cats SET cat_name = $1, weight = $2, filename = $3, birthdate = $4, location = $5, owner = $6
            WHERE id = $7`
	cmdTag, err := r.db.Exec(ctx, sql, cat.CatName, cat.Weight, cat.Filename, cat.Birthdate, cat.Location, cat.Owner, cat.ID)
	if err != nil {
		return fmt.Errorf("failed to update cat: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("cat not found for update")
	}
	return nil
}

// Delete removes a cat from the database
func (r *catRepository) Delete(ctx context.Context, id string) error {
	sql := `DELETE FROM cats WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("failed to delete cat: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("cat not found for deletion")
	}
	return nil
}
