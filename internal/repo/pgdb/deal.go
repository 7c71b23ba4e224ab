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
	"github.com/lib/pq"
)

const dealColumns = "id, offer_id, listing_id, buyer_id, seller_id, final_price, quantity, " +
	"delivery_type, delivery_address, status, delivery_date, payment_status, " +
	"platform_fee, total_amount, terms, created_at"

type DealRepo struct {
	*postgres.Postgres
}

func NewDealRepo(pgdb *postgres.Postgres) *DealRepo {
	return &DealRepo{pgdb}
}

// CreateDealFromOffer performs the acceptance transaction: flip the offer to
// accepted while it is still open, take the sold quantity off the listing,
// and insert the deal snapshot. The unique index on deal.offer_id is the
// backstop against a double accept racing past the conditional update.
func (r *DealRepo) CreateDealFromOffer(ctx context.Context, input *entity.CreateDealInput) (uuid.UUID, error) {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}

	acceptOfferSql, args, _ := r.SqlBuilder.
		Update("offer").
		Set("status", common.OfferAccepted).
		Set("message", squirrel.Expr("message || ?", input.OfferAnnotation)).
		Where("id = ?", input.OfferId).
		Where(squirrel.Eq{"status": []string{common.OfferPending, common.OfferCounterOffered}}).
		RunWith(tx).
		ToSql()

	res, err := tx.ExecContext(ctx, acceptOfferSql, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}
	if affected, err := res.RowsAffected(); err != nil || affected == 0 {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}
		if err != nil {
			return uuid.Nil, err
		}

		return uuid.Nil, repo_errors.ErrConflict
	}

	decrementStockSql, args, _ := r.SqlBuilder.
		Update("listing").
		Set("available_quantity", squirrel.Expr("available_quantity - ?", input.Quantity)).
		Where("id = ?", input.ListingId).
		Where("available_quantity >= ?", input.Quantity).
		RunWith(tx).
		ToSql()

	res, err = tx.ExecContext(ctx, decrementStockSql, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}
	if affected, err := res.RowsAffected(); err != nil || affected == 0 {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}
		if err != nil {
			return uuid.Nil, err
		}

		return uuid.Nil, repo_errors.ErrOutOfStock
	}

	createDealSql, args, _ := r.SqlBuilder.
		Insert("deal").
		Columns("offer_id", "listing_id", "buyer_id", "seller_id", "final_price", "quantity",
			"delivery_type", "delivery_address", "status", "delivery_date", "payment_status",
			"platform_fee", "total_amount", "terms").
		Values(input.OfferId, input.ListingId, input.BuyerId, input.SellerId, input.FinalPrice,
			input.Quantity, input.DeliveryType, input.DeliveryAddress, common.DealPending,
			input.DeliveryDate, common.PaymentPending, input.PlatformFee, input.TotalAmount, input.Terms).
		Suffix("RETURNING id").
		RunWith(tx).
		ToSql()

	var dealId uuid.UUID
	if err = tx.QueryRowContext(ctx, createDealSql, args...).Scan(&dealId); err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return uuid.Nil, repo_errors.ErrAlreadyExists
		}

		return uuid.Nil, err
	}

	if err = tx.Commit(); err != nil {
		return uuid.Nil, err
	}

	return dealId, nil
}

func (r *DealRepo) GetDealById(ctx context.Context, id string) (*entity.Deal, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select(dealColumns).
		From("deal").
		Where("id = ?", uuidForm).
		ToSql()

	var d entity.Deal
	var createdAt time.Time
	row := r.Database.QueryRowContext(ctx, sqlReq, args...)
	err = row.Scan(&d.Id, &d.OfferId, &d.ListingId, &d.BuyerId, &d.SellerId, &d.FinalPrice,
		&d.Quantity, &d.DeliveryType, &d.DeliveryAddress, &d.Status, &d.DeliveryDate,
		&d.PaymentStatus, &d.PlatformFee, &d.TotalAmount, &d.Terms, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}
	d.CreatedAt = createdAt.Format(time.RFC3339)

	return &d, nil
}

func (r *DealRepo) GetUserDeals(ctx context.Context, userId string, pg *entity.PaginationInput) ([]entity.Deal, error) {
	uuidForm, err := uuid.Parse(userId)
	if err != nil {
		return nil, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select(dealColumns).
		From("deal").
		Where(squirrel.Or{squirrel.Eq{"buyer_id": uuidForm}, squirrel.Eq{"seller_id": uuidForm}}).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := make([]entity.Deal, 0)
	for rows.Next() {
		var d entity.Deal
		var createdAt time.Time
		if err := rows.Scan(&d.Id, &d.OfferId, &d.ListingId, &d.BuyerId, &d.SellerId, &d.FinalPrice,
			&d.Quantity, &d.DeliveryType, &d.DeliveryAddress, &d.Status, &d.DeliveryDate,
			&d.PaymentStatus, &d.PlatformFee, &d.TotalAmount, &d.Terms, &createdAt); err != nil {
			return deals, err
		}
		d.CreatedAt = createdAt.Format(time.RFC3339)
		deals = append(deals, d)
	}
	if err = rows.Err(); err != nil {
		return deals, err
	}

	return deals, nil
}

func (r *DealRepo) UpdateDealStatusIfCurrent(ctx context.Context, id string, fromStatus, toStatus string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Update("deal").
		Set("status", toStatus).
		Where("id = ?", uuidForm).
		Where("status = ?", fromStatus).
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

func (r *DealRepo) UpdateDealPaymentStatus(ctx context.Context, id string, paymentStatus string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Update("deal").
		Set("payment_status", paymentStatus).
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
