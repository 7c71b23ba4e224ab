package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"farmfeed-api/internal/common"
	"farmfeed-api/internal/entity"
	"farmfeed-api/internal/repo/repo_errors"
	"farmfeed-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const offerColumns = "id, listing_id, buyer_id, seller_id, price, quantity, delivery_type, " +
	"delivery_address, message, status, expires_at, is_negotiable, terms, " +
	"counter_price, counter_message, counter_created_at, created_at"

type OfferRepo struct {
	*postgres.Postgres
}

func NewOfferRepo(pgdb *postgres.Postgres) *OfferRepo {
	return &OfferRepo{pgdb}
}

func (r *OfferRepo) CreateOffer(ctx context.Context, input *entity.CreateOfferInput) (uuid.UUID, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Insert("offer").
		Columns("listing_id", "buyer_id", "seller_id", "price", "quantity", "delivery_type",
			"delivery_address", "message", "status", "expires_at", "is_negotiable", "terms").
		Values(input.ListingId, input.BuyerId, input.SellerId, input.Price, input.Quantity,
			input.DeliveryType, input.DeliveryAddress, input.Message, input.Status,
			input.ExpiresAt, input.IsNegotiable, input.Terms).
		Suffix("RETURNING id").
		ToSql()

	var offerId uuid.UUID
	if err := r.Database.QueryRowContext(ctx, sqlReq, args...).Scan(&offerId); err != nil {
		return uuid.Nil, err
	}

	return offerId, nil
}

func (r *OfferRepo) GetOfferById(ctx context.Context, id string) (*entity.Offer, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select(offerColumns).
		From("offer").
		Where("id = ?", uuidForm).
		ToSql()

	var o entity.Offer
	var createdAt time.Time
	var counterMessage sql.NullString
	var counterCreatedAt sql.NullTime
	row := r.Database.QueryRowContext(ctx, sqlReq, args...)
	err = row.Scan(&o.Id, &o.ListingId, &o.BuyerId, &o.SellerId, &o.Price, &o.Quantity,
		&o.DeliveryType, &o.DeliveryAddress, &o.Message, &o.Status, &o.ExpiresAt,
		&o.IsNegotiable, &o.Terms, &o.CounterPrice, &counterMessage, &counterCreatedAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}
	o.CreatedAt = createdAt.Format(time.RFC3339)
	o.CounterMessage = counterMessage.String
	if counterCreatedAt.Valid {
		t := counterCreatedAt.Time
		o.CounterCreatedAt = &t
	}

	return &o, nil
}

// UpdateOfferStatusIfOpen is the guarded transition used by reject and by the
// counter-response reject path. The WHERE clause is the optimistic guard: a
// terminal offer matches no rows.
func (r *OfferRepo) UpdateOfferStatusIfOpen(ctx context.Context, id string, newStatus string, annotation string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	update := r.SqlBuilder.
		Update("offer").
		Set("status", newStatus).
		Where("id = ?", uuidForm).
		Where(squirrel.Eq{"status": []string{common.OfferPending, common.OfferCounterOffered}})

	if annotation != "" {
		update = update.Set("message", squirrel.Expr("message || ?", annotation))
	}

	sqlReq, args, _ := update.ToSql()
	res, err := r.Database.ExecContext(ctx, sqlReq, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrConflict
	}

	return nil
}

// SetCounterOffer fills the single counter slot. A prior counter is simply
// overwritten; there is no history stack.
func (r *OfferRepo) SetCounterOffer(ctx context.Context, id string, price decimal.Decimal, message string, at time.Time) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Update("offer").
		Set("status", common.OfferCounterOffered).
		Set("counter_price", price).
		Set("counter_message", message).
		Set("counter_created_at", at).
		Where("id = ?", uuidForm).
		Where(squirrel.Eq{"status": []string{common.OfferPending, common.OfferCounterOffered}}).
		ToSql()

	res, err := r.Database.ExecContext(ctx, sqlReq, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrConflict
	}

	return nil
}

func (r *OfferRepo) GetUserOffers(ctx context.Context, buyerId string, activeOnly bool, now time.Time, pg *entity.PaginationInput) ([]entity.Offer, error) {
	uuidForm, err := uuid.Parse(buyerId)
	if err != nil {
		return nil, err
	}

	query := r.SqlBuilder.
		Select(offerColumns).
		From("offer").
		Where("buyer_id = ?", uuidForm)

	// expired offers keep their stored status; active views filter on the
	// expiry column instead
	if activeOnly {
		query = query.
			Where(squirrel.Eq{"status": []string{common.OfferPending, common.OfferCounterOffered}}).
			Where("expires_at > ?", now)
	}

	sqlReq, args, _ := query.
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryOffers(ctx, sqlReq, args)
}

func (r *OfferRepo) GetListingOffers(ctx context.Context, listingId string, pg *entity.PaginationInput) ([]entity.Offer, error) {
	uuidForm, err := uuid.Parse(listingId)
	if err != nil {
		return nil, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select(offerColumns).
		From("offer").
		Where("listing_id = ?", uuidForm).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryOffers(ctx, sqlReq, args)
}

func (r *OfferRepo) queryOffers(ctx context.Context, sqlReq string, args []interface{}) ([]entity.Offer, error) {
	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offers := make([]entity.Offer, 0)
	for rows.Next() {
		var o entity.Offer
		var createdAt time.Time
		var counterMessage sql.NullString
		var counterCreatedAt sql.NullTime
		if err := rows.Scan(&o.Id, &o.ListingId, &o.BuyerId, &o.SellerId, &o.Price, &o.Quantity,
			&o.DeliveryType, &o.DeliveryAddress, &o.Message, &o.Status, &o.ExpiresAt,
			&o.IsNegotiable, &o.Terms, &o.CounterPrice, &counterMessage, &counterCreatedAt, &createdAt); err != nil {
			return offers, err
		}
		o.CreatedAt = createdAt.Format(time.RFC3339)
		o.CounterMessage = counterMessage.String
		if counterCreatedAt.Valid {
			t := counterCreatedAt.Time
			o.CounterCreatedAt = &t
		}
		offers = append(offers, o)
	}
	if err = rows.Err(); err != nil {
		return offers, err
	}

	return offers, nil
}
