package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"farmfeed-api/internal/entity"
	"farmfeed-api/internal/repo/repo_errors"
	"farmfeed-api/pkg/postgres"

	"github.com/google/uuid"
)

type BackloadRepo struct {
	*postgres.Postgres
}

func NewBackloadRepo(pgdb *postgres.Postgres) *BackloadRepo {
	return &BackloadRepo{pgdb}
}

func (r *BackloadRepo) CreateBackload(ctx context.Context, input *entity.CreateBackloadInput) (uuid.UUID, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Insert("backload").
		Columns("transporter_id", "from_location", "to_location", "capacity_tons",
			"available_date", "price_estimate", "is_active").
		Values(input.TransporterId, input.FromLocation, input.ToLocation, input.CapacityTons,
			input.AvailableDate, input.PriceEstimate, true).
		Suffix("RETURNING id").
		ToSql()

	var backloadId uuid.UUID
	if err := r.Database.QueryRowContext(ctx, sqlReq, args...).Scan(&backloadId); err != nil {
		return uuid.Nil, err
	}

	return backloadId, nil
}

func (r *BackloadRepo) GetBackloadById(ctx context.Context, id string) (*entity.Backload, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select("id, transporter_id, from_location, to_location, capacity_tons, available_date, price_estimate, is_active, created_at").
		From("backload").
		Where("id = ?", id).
		ToSql()

	var b entity.Backload
	var createdAt time.Time
	err := r.Database.QueryRowContext(ctx, sqlReq, args...).Scan(&b.Id, &b.TransporterId,
		&b.FromLocation, &b.ToLocation, &b.CapacityTons, &b.AvailableDate,
		&b.PriceEstimate, &b.IsActive, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}
	b.CreatedAt = createdAt.Format(time.RFC3339)

	return &b, nil
}

func (r *BackloadRepo) GetActiveBackloads(ctx context.Context, pg *entity.PaginationInput) ([]entity.Backload, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select("id, transporter_id, from_location, to_location, capacity_tons, available_date, price_estimate, is_active, created_at").
		From("backload").
		Where("is_active = true").
		OrderBy("available_date ASC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	backloads := make([]entity.Backload, 0)
	for rows.Next() {
		var b entity.Backload
		var createdAt time.Time
		if err := rows.Scan(&b.Id, &b.TransporterId, &b.FromLocation, &b.ToLocation,
			&b.CapacityTons, &b.AvailableDate, &b.PriceEstimate, &b.IsActive, &createdAt); err != nil {
			return backloads, err
		}
		b.CreatedAt = createdAt.Format(time.RFC3339)
		backloads = append(backloads, b)
	}
	if err = rows.Err(); err != nil {
		return backloads, err
	}

	return backloads, nil
}
