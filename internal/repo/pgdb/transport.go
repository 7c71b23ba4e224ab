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
)

const requestColumns = "id, deal_id, requester_id, pickup_location, delivery_location, quantity, unit, " +
	"preferred_date, budget, status, platform_fee, low_estimate, medium_estimate, high_estimate, " +
	"distance_km, fuel_cost, labor_cost, overhead, created_at"

const quoteColumns = "id, transport_request_id, transporter_id, price, estimated_days, vehicle_type, " +
	"insurance_included, status, base_price, fuel_surcharge, toll_fees, insurance_cost, total, " +
	"platform_fee, created_at"

type TransportRepo struct {
	*postgres.Postgres
}

func NewTransportRepo(pgdb *postgres.Postgres) *TransportRepo {
	return &TransportRepo{pgdb}
}

func (r *TransportRepo) CreateTransportRequest(ctx context.Context, input *entity.CreateTransportRequestInput) (uuid.UUID, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Insert("transport_request").
		Columns("deal_id", "requester_id", "pickup_location", "delivery_location", "quantity", "unit",
			"preferred_date", "budget", "status", "platform_fee", "low_estimate", "medium_estimate",
			"high_estimate", "distance_km", "fuel_cost", "labor_cost", "overhead").
		Values(input.DealUUID, input.RequesterId, input.PickupLocation, input.DeliveryLocation,
			input.Quantity, input.Unit, input.PreferredDate, input.Budget, input.Status,
			input.PlatformFee, input.LowEstimate, input.MediumEstimate, input.HighEstimate,
			input.DistanceKm, input.FuelCost, input.LaborCost, input.Overhead).
		Suffix("RETURNING id").
		ToSql()

	var requestId uuid.UUID
	if err := r.Database.QueryRowContext(ctx, sqlReq, args...).Scan(&requestId); err != nil {
		return uuid.Nil, err
	}

	return requestId, nil
}

func (r *TransportRepo) GetTransportRequestById(ctx context.Context, id string) (*entity.TransportRequest, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select(requestColumns).
		From("transport_request").
		Where("id = ?", uuidForm).
		ToSql()

	var t entity.TransportRequest
	var createdAt time.Time
	row := r.Database.QueryRowContext(ctx, sqlReq, args...)
	err = row.Scan(&t.Id, &t.DealId, &t.RequesterId, &t.PickupLocation, &t.DeliveryLocation,
		&t.Quantity, &t.Unit, &t.PreferredDate, &t.Budget, &t.Status, &t.PlatformFee,
		&t.LowEstimate, &t.MediumEstimate, &t.HighEstimate,
		&t.DistanceKm, &t.FuelCost, &t.LaborCost, &t.Overhead, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}
	t.CreatedAt = createdAt.Format(time.RFC3339)

	return &t, nil
}

func (r *TransportRepo) GetOpenTransportRequests(ctx context.Context, pg *entity.PaginationInput) ([]entity.TransportRequest, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select(requestColumns).
		From("transport_request").
		Where(squirrel.Eq{"status": []string{common.RequestOpen, common.RequestQuoted}}).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryRequests(ctx, sqlReq, args)
}

func (r *TransportRepo) GetUserTransportRequests(ctx context.Context, requesterId string, pg *entity.PaginationInput) ([]entity.TransportRequest, error) {
	uuidForm, err := uuid.Parse(requesterId)
	if err != nil {
		return nil, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select(requestColumns).
		From("transport_request").
		Where("requester_id = ?", uuidForm).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryRequests(ctx, sqlReq, args)
}

func (r *TransportRepo) queryRequests(ctx context.Context, sqlReq string, args []interface{}) ([]entity.TransportRequest, error) {
	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]entity.TransportRequest, 0)
	for rows.Next() {
		var t entity.TransportRequest
		var createdAt time.Time
		if err := rows.Scan(&t.Id, &t.DealId, &t.RequesterId, &t.PickupLocation, &t.DeliveryLocation,
			&t.Quantity, &t.Unit, &t.PreferredDate, &t.Budget, &t.Status, &t.PlatformFee,
			&t.LowEstimate, &t.MediumEstimate, &t.HighEstimate,
			&t.DistanceKm, &t.FuelCost, &t.LaborCost, &t.Overhead, &createdAt); err != nil {
			return requests, err
		}
		t.CreatedAt = createdAt.Format(time.RFC3339)
		requests = append(requests, t)
	}
	if err = rows.Err(); err != nil {
		return requests, err
	}

	return requests, nil
}

// CreateQuote inserts the quote and, when this is the first quote, moves the
// request from open to quoted inside the same transaction.
func (r *TransportRepo) CreateQuote(ctx context.Context, input *entity.CreateTransportQuoteInput) (uuid.UUID, error) {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}

	createQuoteSql, args, _ := r.SqlBuilder.
		Insert("transport_quote").
		Columns("transport_request_id", "transporter_id", "price", "estimated_days", "vehicle_type",
			"insurance_included", "status", "base_price", "fuel_surcharge", "toll_fees",
			"insurance_cost", "total", "platform_fee").
		Values(input.TransportRequestId, input.TransporterId, input.Price, input.EstimatedDays,
			input.VehicleType, input.InsuranceIncluded, input.Status, input.BasePrice,
			input.FuelSurcharge, input.TollFees, input.InsuranceCost, input.Total, input.PlatformFee).
		Suffix("RETURNING id").
		RunWith(tx).
		ToSql()

	var quoteId uuid.UUID
	if err = tx.QueryRowContext(ctx, createQuoteSql, args...).Scan(&quoteId); err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	markQuotedSql, args, _ := r.SqlBuilder.
		Update("transport_request").
		Set("status", common.RequestQuoted).
		Where("id = ?", input.TransportRequestId).
		Where("status = ?", common.RequestOpen).
		RunWith(tx).
		ToSql()

	if _, err = tx.ExecContext(ctx, markQuotedSql, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	if err = tx.Commit(); err != nil {
		return uuid.Nil, err
	}

	return quoteId, nil
}

func (r *TransportRepo) GetQuoteById(ctx context.Context, id string) (*entity.TransportQuote, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select(quoteColumns).
		From("transport_quote").
		Where("id = ?", uuidForm).
		ToSql()

	var q entity.TransportQuote
	var createdAt time.Time
	row := r.Database.QueryRowContext(ctx, sqlReq, args...)
	err = row.Scan(&q.Id, &q.TransportRequestId, &q.TransporterId, &q.Price, &q.EstimatedDays,
		&q.VehicleType, &q.InsuranceIncluded, &q.Status, &q.BasePrice, &q.FuelSurcharge,
		&q.TollFees, &q.InsuranceCost, &q.Total, &q.PlatformFee, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}
	q.CreatedAt = createdAt.Format(time.RFC3339)

	return &q, nil
}

func (r *TransportRepo) GetRequestQuotes(ctx context.Context, requestId string, pg *entity.PaginationInput) ([]entity.TransportQuote, error) {
	uuidForm, err := uuid.Parse(requestId)
	if err != nil {
		return nil, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select(quoteColumns).
		From("transport_quote").
		Where("transport_request_id = ?", uuidForm).
		OrderBy("price ASC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotes := make([]entity.TransportQuote, 0)
	for rows.Next() {
		var q entity.TransportQuote
		var createdAt time.Time
		if err := rows.Scan(&q.Id, &q.TransportRequestId, &q.TransporterId, &q.Price, &q.EstimatedDays,
			&q.VehicleType, &q.InsuranceIncluded, &q.Status, &q.BasePrice, &q.FuelSurcharge,
			&q.TollFees, &q.InsuranceCost, &q.Total, &q.PlatformFee, &createdAt); err != nil {
			return quotes, err
		}
		q.CreatedAt = createdAt.Format(time.RFC3339)
		quotes = append(quotes, q)
	}
	if err = rows.Err(); err != nil {
		return quotes, err
	}

	return quotes, nil
}

// AcceptQuoteRejectSiblings is the fan-out transaction: the chosen quote goes
// to accepted, every other pending quote of the same request goes to rejected,
// and the request itself goes to accepted. All or nothing.
func (r *TransportRepo) AcceptQuoteRejectSiblings(ctx context.Context, quoteId string, requestId uuid.UUID) error {
	quoteUuid, err := uuid.Parse(quoteId)
	if err != nil {
		return err
	}

	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	acceptQuoteSql, args, _ := r.SqlBuilder.
		Update("transport_quote").
		Set("status", common.QuoteAccepted).
		Where("id = ?", quoteUuid).
		Where("status = ?", common.QuotePending).
		RunWith(tx).
		ToSql()

	res, err := tx.ExecContext(ctx, acceptQuoteSql, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}
	if affected, err := res.RowsAffected(); err != nil || affected == 0 {
		if e := tx.Rollback(); e != nil {
			return e
		}
		if err != nil {
			return err
		}

		return repo_errors.ErrConflict
	}

	rejectSiblingsSql, args, _ := r.SqlBuilder.
		Update("transport_quote").
		Set("status", common.QuoteRejected).
		Where("transport_request_id = ?", requestId).
		Where("id <> ?", quoteUuid).
		Where("status = ?", common.QuotePending).
		RunWith(tx).
		ToSql()

	if _, err = tx.ExecContext(ctx, rejectSiblingsSql, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	acceptRequestSql, args, _ := r.SqlBuilder.
		Update("transport_request").
		Set("status", common.RequestAccepted).
		Where("id = ?", requestId).
		RunWith(tx).
		ToSql()

	if _, err = tx.ExecContext(ctx, acceptRequestSql, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *TransportRepo) RejectQuoteIfPending(ctx context.Context, quoteId string) error {
	uuidForm, err := uuid.Parse(quoteId)
	if err != nil {
		return err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Update("transport_quote").
		Set("status", common.QuoteRejected).
		Where("id = ?", uuidForm).
		Where("status = ?", common.QuotePending).
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
