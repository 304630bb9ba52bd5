package repositories

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/avolkov/lms-backend/internal/app/models"
	"github.com/avolkov/lms-backend/internal/db"
	"github.com/avolkov/lms-backend/internal/pkg/apperrors"
	"github.com/avolkov/lms-backend/internal/pkg/dberrors"
	"github.com/avolkov/lms-backend/internal/pkg/logger"
)

// PaymentRepository handles ledger database operations. Writes run inside
// transactions so concurrent purchase attempts serialize instead of
// double-charging.
type PaymentRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(database *db.PostgresDB) *PaymentRepository {
	return &PaymentRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// purchaseLockKey derives the advisory-lock key for a (user, section) pair.
// The single-bigint lock form is used because the two-argument form takes
// int4 and would overflow once BIGSERIAL ids pass 2^31-1.
func purchaseLockKey(userID, sectionID int64) int64 {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(userID))
	binary.BigEndian.PutUint64(buf[8:], uint64(sectionID))
	h := fnv.New64a()
	h.Write(buf[:])
	return int64(h.Sum64())
}

// CreatePaid inserts a ledger entry for a charged purchase. An advisory lock
// on (user, section) serializes concurrent attempts for the same pair; the
// unique constraint backs this up across pool restarts.
func (r *PaymentRepository) CreatePaid(ctx context.Context, payment *models.Payment) (int64, error) {
	var id int64

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", purchaseLockKey(payment.UserID, payment.PaidSectionID)); err != nil {
			return fmt.Errorf("failed to take purchase lock: %w", err)
		}

		var exists bool
		checkSQL := `SELECT EXISTS(SELECT 1 FROM payments WHERE user_id = $1 AND paid_section_id = $2)`
		if err := tx.QueryRow(ctx, checkSQL, payment.UserID, payment.PaidSectionID).Scan(&exists); err != nil {
			return fmt.Errorf("error checking existing payment: %w", err)
		}
		if exists {
			return apperrors.ErrSectionAlreadyPaid
		}

		sql, args, err := r.sb.Insert("payments").
			Columns("user_id", "paid_section_id", "payment_type", "payment_method", "payments_left", "last_payment_date").
			Values(payment.UserID, payment.PaidSectionID, payment.PaymentType, payment.PaymentMethod, payment.PaymentsLeft, time.Now()).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create payment query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			if dberrors.IsDuplicateKeyError(err) {
				return apperrors.ErrSectionAlreadyPaid
			}
			if dberrors.IsCheckViolation(err) {
				return apperrors.ErrValidationFailed
			}
			logger.Error().Err(err).Int64("userID", payment.UserID).Int64("sectionID", payment.PaidSectionID).Msg("Error executing create payment query")
			return fmt.Errorf("error creating payment: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// RecordInstallment decrements payments_left for a ledger entry after a
// successful installment charge. The row is locked for the duration so two
// concurrent installments cannot both observe the same remainder.
func (r *PaymentRepository) RecordInstallment(ctx context.Context, paymentID int64) (*models.Payment, error) {
	var payment *models.Payment

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var paymentsLeft int
		lockSQL := `SELECT payments_left FROM payments WHERE id = $1 FOR UPDATE`
		if err := tx.QueryRow(ctx, lockSQL, paymentID).Scan(&paymentsLeft); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrPaymentNotFound
			}
			return fmt.Errorf("error locking payment row: %w", err)
		}

		if paymentsLeft == 0 {
			return apperrors.ErrAlreadyFullyPaid
		}

		sql, args, err := r.sb.Update("payments").
			SetMap(map[string]interface{}{
				"payments_left":     paymentsLeft - 1,
				"last_payment_date": time.Now(),
			}).
			Where(squirrel.Eq{"id": paymentID}).
			Suffix("RETURNING id, user_id, paid_section_id, payment_type, payment_method, payments_left, last_payment_date").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build record installment query: %w", err)
		}

		payment = &models.Payment{}
		if err := tx.QueryRow(ctx, sql, args...).Scan(
			&payment.ID, &payment.UserID, &payment.PaidSectionID,
			&payment.PaymentType, &payment.PaymentMethod,
			&payment.PaymentsLeft, &payment.LastPaymentDate,
		); err != nil {
			logger.Error().Err(err).Int64("paymentID", paymentID).Msg("Error recording installment")
			return fmt.Errorf("error recording installment: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}

const paymentSelectColumns = `p.id, p.user_id, p.paid_section_id, p.payment_type, p.payment_method, p.payments_left, p.last_payment_date,
	u.first_name, u.last_name, u.email, s.name`

func scanPaymentWithRefs(row pgx.Row) (*models.Payment, error) {
	payment := &models.Payment{
		User:        &models.User{},
		PaidSection: &models.Section{},
	}
	err := row.Scan(
		&payment.ID, &payment.UserID, &payment.PaidSectionID,
		&payment.PaymentType, &payment.PaymentMethod,
		&payment.PaymentsLeft, &payment.LastPaymentDate,
		&payment.User.FirstName, &payment.User.LastName, &payment.User.Email,
		&payment.PaidSection.Name,
	)
	if err != nil {
		return nil, err
	}
	payment.User.ID = payment.UserID
	payment.PaidSection.ID = payment.PaidSectionID
	return payment, nil
}

// GetByID retrieves a ledger entry with its user and section names.
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	sql := `SELECT ` + paymentSelectColumns + `
		FROM payments p
		JOIN users u ON u.id = p.user_id
		JOIN sections s ON s.id = p.paid_section_id
		WHERE p.id = $1`

	payment, err := scanPaymentWithRefs(r.db.Pool.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaymentNotFound
		}
		logger.Error().Err(err).Int64("paymentID", id).Msg("Error scanning payment row")
		return nil, fmt.Errorf("error getting payment by ID: %w", err)
	}

	return payment, nil
}

// GetByUserID retrieves all ledger entries of a user, newest first.
func (r *PaymentRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Payment, error) {
	sql := `SELECT ` + paymentSelectColumns + `
		FROM payments p
		JOIN users u ON u.id = p.user_id
		JOIN sections s ON s.id = p.paid_section_id
		WHERE p.user_id = $1
		ORDER BY p.last_payment_date DESC`

	rows, err := r.db.Pool.Query(ctx, sql, userID)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error querying user payments")
		return nil, fmt.Errorf("error querying user payments: %w", err)
	}
	defer rows.Close()

	payments := []*models.Payment{}
	for rows.Next() {
		payment, err := scanPaymentWithRefs(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning payment row: %w", err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}

	return payments, nil
}

// GetByUserAndSection retrieves the ledger entry for a (user, section) pair.
func (r *PaymentRepository) GetByUserAndSection(ctx context.Context, userID, sectionID int64) (*models.Payment, error) {
	sql := `SELECT ` + paymentSelectColumns + `
		FROM payments p
		JOIN users u ON u.id = p.user_id
		JOIN sections s ON s.id = p.paid_section_id
		WHERE p.user_id = $1 AND p.paid_section_id = $2`

	payment, err := scanPaymentWithRefs(r.db.Pool.QueryRow(ctx, sql, userID, sectionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("error getting payment by user and section: %w", err)
	}

	return payment, nil
}

// HasPayment reports whether a user already holds a ledger entry for the
// section.
func (r *PaymentRepository) HasPayment(ctx context.Context, userID, sectionID int64) (bool, error) {
	var exists bool
	sql := `SELECT EXISTS(SELECT 1 FROM payments WHERE user_id = $1 AND paid_section_id = $2)`
	if err := r.db.Pool.QueryRow(ctx, sql, userID, sectionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking payment existence: %w", err)
	}
	return exists, nil
}
