package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zeroclasses/coaching-service/internal/domain"
)

// TransactionRepository appends payment records. Records are never updated.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
}

type transactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository returns a Postgres-backed implementation.
func NewTransactionRepository(pool *pgxpool.Pool) TransactionRepository {
	return &transactionRepository{pool: pool}
}

func (r *transactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	const query = `
        INSERT INTO transactions (reference, user_id, course_id, amount, currency, payment_method,
                                  payer_upi_id, destination_account, status, owner_account_credited)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id::text, created_at`
	return r.pool.QueryRow(ctx, query,
		txn.Reference,
		txn.UserID,
		txn.CourseID,
		txn.Amount,
		txn.Currency,
		txn.PaymentMethod,
		txn.PayerUPIID,
		txn.DestinationAccount,
		txn.Status,
		txn.OwnerAccountCredited,
	).Scan(&txn.ID, &txn.CreatedAt)
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	const query = `
        SELECT id::text, reference, user_id, course_id, amount, currency, payment_method,
               payer_upi_id, destination_account, status, owner_account_credited, created_at
        FROM transactions WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.Reference,
			&t.UserID,
			&t.CourseID,
			&t.Amount,
			&t.Currency,
			&t.PaymentMethod,
			&t.PayerUPIID,
			&t.DestinationAccount,
			&t.Status,
			&t.OwnerAccountCredited,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
