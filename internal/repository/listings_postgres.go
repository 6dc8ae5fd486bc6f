package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobby/job-board-back/internal/domain"
)

type PostgresListingsRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresListingsRepository(ctx context.Context, databaseURL string) (*PostgresListingsRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pg pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping pg: %w", err)
	}
	return &PostgresListingsRepository{pool: pool}, nil
}

func (r *PostgresListingsRepository) Close() {
	r.pool.Close()
}

func (r *PostgresListingsRepository) FindListingByID(ctx context.Context, id int64) (*domain.Listing, error) {
	var listing domain.Listing
	err := r.pool.QueryRow(ctx, `
		SELECT id, employer_id, title, location, type, experience, salary, description
		FROM job_listings
		WHERE id = $1
	`, id).Scan(
		&listing.ID,
		&listing.EmployerID,
		&listing.Title,
		&listing.Location,
		&listing.Type,
		&listing.Experience,
		&listing.Salary,
		&listing.Description,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query listing: %w", err)
	}
	return &listing, nil
}

func (r *PostgresListingsRepository) SearchListings(
	ctx context.Context,
	term string,
) ([]domain.ListingWithCompany, error) {
	pattern := "%" + term + "%"
	rows, err := r.pool.Query(ctx, `
		SELECT l.id, l.employer_id, l.title, l.location, l.type, l.experience, l.salary, l.description,
			e.employer_name
		FROM job_listings l
		JOIN employers e ON e.id = l.employer_id
		WHERE l.title ILIKE $1
			OR l.description ILIKE $1
			OR l.type ILIKE $1
			OR l.experience ILIKE $1
			OR l.location ILIKE $1
			OR l.salary ILIKE $1
			OR e.employer_name ILIKE $1
		ORDER BY l.id
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	defer rows.Close()

	results := make([]domain.ListingWithCompany, 0)
	for rows.Next() {
		var item domain.ListingWithCompany
		if err := rows.Scan(
			&item.ID,
			&item.EmployerID,
			&item.Title,
			&item.Location,
			&item.Type,
			&item.Experience,
			&item.Salary,
			&item.Description,
			&item.Company,
		); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return results, nil
}
