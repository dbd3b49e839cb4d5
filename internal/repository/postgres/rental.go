package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/logger"
	"rentaldesk-backend/internal/repository"
)

const rentalColumns = `id, customer_ref, equipment_ref, status, payment_status, start_date, end_date,
	delivery_required, delivery_address, daily_rate_cents, subtotal_cents, delivery_fee_cents,
	insurance_fee_cents, security_deposit_cents, late_fees_cents, damage_fees_cents, total_cents,
	notes, created_on, updated_on`

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

// now returns the current time truncated to microseconds, matching the
// precision Postgres stores, so the optimistic updated_on comparison
// round-trips exactly.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (r *rentalRepository) Create(ctx context.Context, o *domain.RentalOrder, seed *domain.StatusHistoryEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ts := now()
	query := `INSERT INTO rental_orders (customer_ref, equipment_ref, status, payment_status, start_date, end_date,
	          delivery_required, delivery_address, daily_rate_cents, subtotal_cents, delivery_fee_cents,
	          insurance_fee_cents, security_deposit_cents, late_fees_cents, damage_fees_cents, total_cents,
	          notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19) RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		o.CustomerRef, o.EquipmentRef, o.Status, o.PaymentStatus, o.StartDate, o.EndDate,
		o.DeliveryRequired, o.DeliveryAddress,
		o.Financials.DailyRateCents, o.Financials.SubtotalCents, o.Financials.DeliveryFeeCents,
		o.Financials.InsuranceFeeCents, o.Financials.SecurityDepositCents, o.Financials.LateFeesCents,
		o.Financials.DamageFeesCents, o.Financials.TotalCents,
		o.Notes, ts, ts,
	).Scan(&o.ID)
	if err != nil {
		return err
	}
	o.CreatedOn = ts
	o.UpdatedOn = ts

	seed.RentalID = o.ID
	if err := insertHistory(ctx, tx, seed, ts); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *rentalRepository) GetByID(ctx context.Context, id int64) (*domain.RentalOrder, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_orders WHERE id = $1`
	o, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *rentalRepository) List(ctx context.Context, customerRef string, status string, page, pageSize int32) ([]domain.RentalOrder, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + rentalColumns + ` FROM rental_orders WHERE 1=1`

	args := []interface{}{}
	argIdx := 1
	if customerRef != "" {
		query += fmt.Sprintf(" AND customer_ref = $%d", argIdx)
		args = append(args, customerRef)
		argIdx++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.RentalOrder
	for rows.Next() {
		o, err := scanRental(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	return orders, count, rows.Err()
}

func (r *rentalRepository) ApplyTransition(ctx context.Context, o *domain.RentalOrder, entry *domain.StatusHistoryEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ts := now()
	query := `UPDATE rental_orders SET status=$1, updated_on=$2 WHERE id=$3 AND updated_on=$4`
	res, err := tx.ExecContext(ctx, query, entry.NewStatus, ts, o.ID, o.UpdatedOn)
	if err != nil {
		return err
	}
	if err := checkOptimistic(ctx, tx, res, o.ID); err != nil {
		return err
	}

	entry.RentalID = o.ID
	if err := insertHistory(ctx, tx, entry, ts); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	o.Status = entry.NewStatus
	o.UpdatedOn = ts
	logger.Debug("Transition persisted", "rental_id", o.ID, "status", o.Status)
	return nil
}

func (r *rentalRepository) UpdateFinancials(ctx context.Context, o *domain.RentalOrder) error {
	ts := now()
	query := `UPDATE rental_orders SET daily_rate_cents=$1, subtotal_cents=$2, delivery_fee_cents=$3,
	          insurance_fee_cents=$4, security_deposit_cents=$5, late_fees_cents=$6, damage_fees_cents=$7,
	          total_cents=$8, updated_on=$9 WHERE id=$10 AND updated_on=$11`
	res, err := r.db.ExecContext(ctx, query,
		o.Financials.DailyRateCents, o.Financials.SubtotalCents, o.Financials.DeliveryFeeCents,
		o.Financials.InsuranceFeeCents, o.Financials.SecurityDepositCents, o.Financials.LateFeesCents,
		o.Financials.DamageFeesCents, o.Financials.TotalCents, ts, o.ID, o.UpdatedOn)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, o.ID); err != nil {
			return err
		}
		return domain.ErrConcurrentModification
	}
	o.UpdatedOn = ts
	return nil
}

func (r *rentalRepository) ListHistory(ctx context.Context, rentalID int64) ([]domain.StatusHistoryEntry, error) {
	query := `SELECT id, rental_id, previous_status, new_status, notes, actor_ref, visible_to_customer, created_on
	          FROM rental_status_history WHERE rental_id = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.StatusHistoryEntry
	for rows.Next() {
		var e domain.StatusHistoryEntry
		var prev sql.NullString
		if err := rows.Scan(&e.ID, &e.RentalID, &prev, &e.NewStatus, &e.Notes, &e.ActorRef, &e.VisibleToCustomer, &e.CreatedOn); err != nil {
			return nil, err
		}
		e.PreviousStatus = domain.RentalStatus(prev.String)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *rentalRepository) ListOverdueCandidates(ctx context.Context, asOf time.Time) ([]int64, error) {
	query := `SELECT id FROM rental_orders WHERE status IN ($1, $2) AND end_date < $3 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, domain.RentalStatusInProgress, domain.RentalStatusDelivered, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func insertHistory(ctx context.Context, tx *sql.Tx, e *domain.StatusHistoryEntry, ts time.Time) error {
	var prev interface{}
	if e.PreviousStatus != "" {
		prev = string(e.PreviousStatus)
	}
	query := `INSERT INTO rental_status_history (rental_id, previous_status, new_status, notes, actor_ref, visible_to_customer, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := tx.QueryRowContext(ctx, query, e.RentalID, prev, e.NewStatus, e.Notes, e.ActorRef, e.VisibleToCustomer, ts).Scan(&e.ID); err != nil {
		return err
	}
	e.CreatedOn = ts
	return nil
}

// checkOptimistic distinguishes a lost optimistic race from a missing row
// when an UPDATE matched nothing.
func checkOptimistic(ctx context.Context, tx *sql.Tx, res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM rental_orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrConcurrentModification
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRental(row rowScanner) (*domain.RentalOrder, error) {
	o := &domain.RentalOrder{}
	err := row.Scan(
		&o.ID, &o.CustomerRef, &o.EquipmentRef, &o.Status, &o.PaymentStatus, &o.StartDate, &o.EndDate,
		&o.DeliveryRequired, &o.DeliveryAddress,
		&o.Financials.DailyRateCents, &o.Financials.SubtotalCents, &o.Financials.DeliveryFeeCents,
		&o.Financials.InsuranceFeeCents, &o.Financials.SecurityDepositCents, &o.Financials.LateFeesCents,
		&o.Financials.DamageFeesCents, &o.Financials.TotalCents,
		&o.Notes, &o.CreatedOn, &o.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}
