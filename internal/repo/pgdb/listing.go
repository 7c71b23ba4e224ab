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

const listingColumns = "id, seller_id, product, price, currency, quantity, available_quantity, " +
	"location, delivery_ex_farm, delivery_delivered, quality_grade, expires_at, is_active, created_at"

type ListingRepo struct {
	*postgres.Postgres
}

func NewListingRepo(pgdb *postgres.Postgres) *ListingRepo {
	return &ListingRepo{pgdb}
}

func (r *ListingRepo) CreateListing(ctx context.Context, input *entity.CreateListingInput) (uuid.UUID, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Insert("listing").
		Columns("seller_id", "product", "price", "currency", "quantity", "available_quantity",
			"location", "delivery_ex_farm", "delivery_delivered", "quality_grade", "expires_at", "is_active").
		Values(input.SellerId, input.Product, input.Price, input.Currency, input.Quantity, input.Quantity,
			input.Location, input.DeliveryExFarm, input.DeliveryDelivered, input.QualityGrade, input.ExpiresAt, true).
		Suffix("RETURNING id").
		ToSql()

	var listingId uuid.UUID
	if err := r.Database.QueryRowContext(ctx, sqlReq, args...).Scan(&listingId); err != nil {
		return uuid.Nil, err
	}

	return listingId, nil
}

func (r *ListingRepo) GetListingById(ctx context.Context, id string) (*entity.Listing, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select(listingColumns).
		From("listing").
		Where("id = ?", uuidForm).
		ToSql()

	var l entity.Listing
	var createdAt time.Time
	row := r.Database.QueryRowContext(ctx, sqlReq, args...)
	err = row.Scan(&l.Id, &l.SellerId, &l.Product, &l.Price, &l.Currency, &l.Quantity,
		&l.AvailableQuantity, &l.Location, &l.DeliveryExFarm, &l.DeliveryDelivered,
		&l.QualityGrade, &l.ExpiresAt, &l.IsActive, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}
	l.CreatedAt = createdAt.Format(time.RFC3339)

	return &l, nil
}

func (r *ListingRepo) EditListingById(ctx context.Context, id string, product, location, qualityGrade string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	update := r.SqlBuilder.
		Update("listing").
		Where("id = ?", uuidForm)

	if product != "" {
		update = update.Set("product", product)
	}
	if location != "" {
		update = update.Set("location", location)
	}
	if qualityGrade != "" {
		update = update.Set("quality_grade", qualityGrade)
	}

	sqlReq, args, _ := update.ToSql()
	res, err := r.Database.ExecContext(ctx, sqlReq, args...)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

func (r *ListingRepo) UpdateListingActiveById(ctx context.Context, id string, active bool) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Update("listing").
		Set("is_active", active).
		Where("id = ?", uuidForm).
		ToSql()

	res, err := r.Database.ExecContext(ctx, sqlReq, args...)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

func (r *ListingRepo) GetActiveListings(ctx context.Context, product string, now time.Time, pg *entity.PaginationInput) ([]entity.Listing, error) {
	query := r.SqlBuilder.
		Select(listingColumns).
		From("listing").
		Where("is_active = true").
		Where("expires_at > ?", now)

	if product != "" {
		query = query.Where("product = ?", product)
	}

	sqlReq, args, _ := query.
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryListings(ctx, sqlReq, args)
}

func (r *ListingRepo) GetUserListings(ctx context.Context, sellerId string, pg *entity.PaginationInput) ([]entity.Listing, error) {
	uuidForm, err := uuid.Parse(sellerId)
	if err != nil {
		return nil, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select(listingColumns).
		From("listing").
		Where("seller_id = ?", uuidForm).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryListings(ctx, sqlReq, args)
}

func (r *ListingRepo) queryListings(ctx context.Context, sqlReq string, args []interface{}) ([]entity.Listing, error) {
	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := make([]entity.Listing, 0)
	for rows.Next() {
		var l entity.Listing
		var createdAt time.Time
		if err := rows.Scan(&l.Id, &l.SellerId, &l.Product, &l.Price, &l.Currency, &l.Quantity,
			&l.AvailableQuantity, &l.Location, &l.DeliveryExFarm, &l.DeliveryDelivered,
			&l.QualityGrade, &l.ExpiresAt, &l.IsActive, &createdAt); err != nil {
			return listings, err
		}
		l.CreatedAt = createdAt.Format(time.RFC3339)
		listings = append(listings, l)
	}
	if err = rows.Err(); err != nil {
		return listings, err
	}

	return listings, nil
}
