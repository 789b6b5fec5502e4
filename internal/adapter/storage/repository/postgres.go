package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/govalues/decimal"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/merobazar/payrecon/internal/adapter/storage"
	"github.com/merobazar/payrecon/internal/core/domain"
)

type Repository struct {
	db *storage.DB
}

func NewRepository(db *storage.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

var orderColumns = []string{
	"number", "user_id", "total_amount", "payment_method", "payment_status",
	"transaction_id", "payment_gateway", "payment_reference", "payment_amount",
	"paid_at", "payment_verified", "status", "created_at",
}

type row interface {
	Scan(dest ...any) error
}

func scanOrder(r row) (*domain.Order, error) {
	var (
		order         domain.Order
		transactionID *string
		gateway       *string
		reference     *string
		amount        decimal.NullDecimal
		paidAt        *time.Time
	)

	err := r.Scan(
		&order.Number,
		&order.UserID,
		&order.TotalAmount,
		&order.PaymentMethod,
		&order.PaymentStatus,
		&transactionID,
		&gateway,
		&reference,
		&amount,
		&paidAt,
		&order.PaymentVerified,
		&order.Status,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if transactionID != nil {
		order.TransactionID = *transactionID
	}
	if gateway != nil {
		details := domain.PaymentDetails{Gateway: *gateway}
		if reference != nil {
			details.ReferenceID = *reference
		}
		if amount.Valid {
			details.Amount = amount.Decimal
		}
		if paidAt != nil {
			details.PaidAt = *paidAt
		}
		order.PaymentDetails = &details
	}

	return &order, nil
}

func (or *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	statement := or.db.QueryBuilder.Insert("orders").
		Columns("user_id", "total_amount", "payment_method", "payment_status", "status", "created_at").
		Values(order.UserID, order.TotalAmount, order.PaymentMethod,
			order.PaymentStatus, order.Status, order.CreatedAt).
		Suffix("returning number")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	err = or.db.QueryRow(ctx, sql, args...).Scan(&order.Number)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}
	return order, nil
}

func (or *Repository) ReadOrder(ctx context.Context, number uint64) (*domain.Order, error) {
	statement := or.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"number": number})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(or.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return order, nil
}

func (or *Repository) queryOrders(ctx context.Context, statement sq.SelectBuilder) ([]*domain.Order, error) {
	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := or.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, order)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (or *Repository) ListOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error) {
	return or.queryOrders(ctx, or.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at desc"))
}

func (or *Repository) SetTransactionID(ctx context.Context, number uint64, transactionID string) error {
	statement := or.db.QueryBuilder.
		Update("orders").
		Set("transaction_id", transactionID).
		Where(sq.Eq{"number": number, "payment_status": domain.PaymentStatusPending})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	tag, err := or.db.Exec(ctx, sql, args...)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrConflictingData
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoUpdatedData
	}
	return nil
}

func (or *Repository) FindOrderByTransactionID(ctx context.Context, transactionID string) (*domain.Order, error) {
	statement := or.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"transaction_id": transactionID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(or.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return order, nil
}

func (or *Repository) FindLatestPendingOrder(ctx context.Context, method domain.PaymentMethod) (*domain.Order, error) {
	statement := or.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"payment_method": method, "payment_status": domain.PaymentStatusPending}).
		OrderBy("created_at desc").
		Limit(1)

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(or.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return order, nil
}

func (or *Repository) ListPendingOrdersByUser(ctx context.Context, userID uint64, method domain.PaymentMethod) ([]*domain.Order, error) {
	return or.queryOrders(ctx, or.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{
			"user_id":        userID,
			"payment_method": method,
			"payment_status": domain.PaymentStatusPending,
		}).
		OrderBy("created_at desc"))
}

// SettlePayment writes the terminal payment state. The where clause keeps
// the update conditional on the row still being pending; losing that race
// reports domain.ErrNoUpdatedData instead of overwriting the winner.
func (or *Repository) SettlePayment(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	statement := or.db.QueryBuilder.
		Update("orders").
		Set("payment_status", order.PaymentStatus).
		Set("payment_verified", order.PaymentVerified).
		Where(sq.Eq{"number": order.Number, "payment_status": domain.PaymentStatusPending})

	if order.PaymentDetails != nil {
		statement = statement.
			Set("payment_gateway", order.PaymentDetails.Gateway).
			Set("payment_reference", order.PaymentDetails.ReferenceID).
			Set("payment_amount", order.PaymentDetails.Amount).
			Set("paid_at", order.PaymentDetails.PaidAt)
	}

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	tag, err := or.db.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrNoUpdatedData
	}

	return order, nil
}

func (or *Repository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	statement := or.db.QueryBuilder.
		Insert("users").
		Columns("login", "password", "role").
		Values(user.Login, user.Password, user.Role).
		Suffix("returning id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	err = or.db.QueryRow(ctx, sql, args...).Scan(&user.ID)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}

	return user, nil
}

func (or *Repository) GetUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	statement := or.db.QueryBuilder.
		Select("id", "login", "password", "role").
		From("users").
		Where(sq.Eq{"login": login})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	user := domain.User{}

	err = or.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID,
		&user.Login,
		&user.Password,
		&user.Role,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return &user, nil
}
