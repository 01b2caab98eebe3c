package tests

import (
	"context"
	"math"
	"regexp"
	"strings"
	"testing"
	"time"

	"groupcart/cart-svc/internal/domain"
	"groupcart/cart-svc/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	lockRestaurantSQL = `SELECT id, name, pending_price, min_order_price FROM restaurants WHERE id = $1 FOR UPDATE`
	lockMenuSQL       = `SELECT id, restaurant_id, name, price, amount_ordered FROM menus WHERE id = $1 AND restaurant_id = $2 FOR UPDATE`
)

func setupPostgres(t *testing.T) (*storage.PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return storage.NewPostgresRepository(db), mock
}

// sqlPattern turns a query into a whitespace-tolerant regexp.
func sqlPattern(query string) string {
	parts := regexp.MustCompile(`\s+`).Split(query, -1)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return strings.Join(parts, `\s+`)
}

func restaurantRow(id int, name string, pending, min int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "pending_price", "min_order_price"}).
		AddRow(id, name, pending, min)
}

func menuRow(id, restaurantID int, name string, price int64, amount int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "restaurant_id", "name", "price", "amount_ordered"}).
		AddRow(id, restaurantID, name, price, amount)
}

func TestPostgres_ApplyCombinedDelta_Increment(t *testing.T) {
	repo, mock := setupPostgres(t)

	mock.ExpectBegin()
	mock.ExpectQuery(sqlPattern(lockRestaurantSQL)).WithArgs(1).
		WillReturnRows(restaurantRow(1, "Pepe's Pasta", 8000, 25000))
	mock.ExpectQuery(sqlPattern(lockMenuSQL)).WithArgs(4, 1).
		WillReturnRows(menuRow(4, 1, "Carbonara", 12000, 0))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE menus SET amount_ordered = $1 WHERE id = $2`)).
		WithArgs(1, 4).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE restaurants SET pending_price = $1, updated_at = NOW() WHERE id = $2`)).
		WithArgs(int64(20000), 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := repo.ApplyCombinedDelta(context.Background(), 1, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Menu.AmountOrdered)
	assert.Equal(t, domain.Money(20000), got.Restaurant.PendingPrice)
	assert.Equal(t, domain.Money(25000), got.Restaurant.MinOrderPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ApplyCombinedDelta_DecrementAtZeroIsNoOp(t *testing.T) {
	repo, mock := setupPostgres(t)

	mock.ExpectBegin()
	mock.ExpectQuery(sqlPattern(lockRestaurantSQL)).WithArgs(1).
		WillReturnRows(restaurantRow(1, "Pepe's Pasta", 3000, 25000))
	mock.ExpectQuery(sqlPattern(lockMenuSQL)).WithArgs(4, 1).
		WillReturnRows(menuRow(4, 1, "Carbonara", 12000, 0))
	mock.ExpectCommit()

	got, err := repo.ApplyCombinedDelta(context.Background(), 1, 4, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Menu.AmountOrdered)
	assert.Equal(t, domain.Money(3000), got.Restaurant.PendingPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ApplyCombinedDelta_UnknownMenuRollsBack(t *testing.T) {
	repo, mock := setupPostgres(t)

	mock.ExpectBegin()
	mock.ExpectQuery(sqlPattern(lockRestaurantSQL)).WithArgs(1).
		WillReturnRows(restaurantRow(1, "Pepe's Pasta", 0, 25000))
	mock.ExpectQuery(sqlPattern(lockMenuSQL)).WithArgs(99, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "restaurant_id", "name", "price", "amount_ordered"}))
	mock.ExpectRollback()

	_, err := repo.ApplyCombinedDelta(context.Background(), 1, 99, 1)
	assert.ErrorIs(t, err, domain.ErrMenuNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ApplyPriceDelta_FloorsAtZero(t *testing.T) {
	repo, mock := setupPostgres(t)

	mock.ExpectBegin()
	mock.ExpectQuery(sqlPattern(lockRestaurantSQL)).WithArgs(2).
		WillReturnRows(restaurantRow(2, "Mosu", 3000, 500000))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE restaurants SET pending_price = $1`)).
		WithArgs(int64(0), 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := repo.ApplyPriceDelta(context.Background(), 2, -5000)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(0), got.PendingPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ApplyPriceDelta_RejectsOverflow(t *testing.T) {
	repo, mock := setupPostgres(t)

	mock.ExpectBegin()
	mock.ExpectQuery(sqlPattern(lockRestaurantSQL)).WithArgs(2).
		WillReturnRows(restaurantRow(2, "Mosu", 3000, 500000))
	mock.ExpectRollback()

	_, err := repo.ApplyPriceDelta(context.Background(), 2, math.MaxInt64-1000)
	assert.ErrorIs(t, err, domain.ErrInvalidDelta)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ApplyItemDelta_LocksRestaurantFirst(t *testing.T) {
	repo, mock := setupPostgres(t)

	mock.ExpectBegin()
	mock.ExpectQuery(sqlPattern(lockRestaurantSQL)).WithArgs(1).
		WillReturnRows(restaurantRow(1, "Pepe's Pasta", 0, 25000))
	mock.ExpectQuery(sqlPattern(lockMenuSQL)).WithArgs(4, 1).
		WillReturnRows(menuRow(4, 1, "Carbonara", 12000, 0))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE menus SET amount_ordered = $1 WHERE id = $2`)).
		WithArgs(0, 4).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE restaurants SET updated_at = NOW() WHERE id = $1`)).
		WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := repo.ApplyItemDelta(context.Background(), 1, 4, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AmountOrdered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Checkout_RecordsOrder(t *testing.T) {
	repo, mock := setupPostgres(t)
	created := time.Date(2026, 5, 1, 12, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(sqlPattern(lockRestaurantSQL)).WithArgs(1).
		WillReturnRows(restaurantRow(1, "Pepe's Pasta", 28000, 25000))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, price, amount_ordered`)).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "amount_ordered"}).
			AddRow(4, "Carbonara", int64(12000), 2).
			AddRow(9, "Red Wine", int64(4000), 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO group_orders`)).
		WithArgs(1, int64(28000), domain.OrderStatusCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, created))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO group_order_items`)).
		WithArgs(11, 4, "Carbonara", 2, int64(12000)).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO group_order_items`)).
		WithArgs(11, 9, "Red Wine", 1, int64(4000)).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE restaurants SET pending_price = $1`)).
		WithArgs(int64(0), 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE menus SET amount_ordered = 0 WHERE restaurant_id = $1`)).
		WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	st, order, err := repo.Checkout(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.Snapshot{ID: 1, PendingPrice: 0, MinOrderPrice: 25000}, st)
	require.NotNil(t, order)
	assert.Equal(t, 11, order.ID)
	assert.Equal(t, domain.Money(28000), order.TotalPrice)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, created, order.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Checkout_EmptyAggregateRecordsNothing(t *testing.T) {
	repo, mock := setupPostgres(t)

	mock.ExpectBegin()
	mock.ExpectQuery(sqlPattern(lockRestaurantSQL)).WithArgs(1).
		WillReturnRows(restaurantRow(1, "Pepe's Pasta", 0, 25000))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE restaurants SET pending_price = $1`)).
		WithArgs(int64(0), 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE menus SET amount_ordered = 0`)).
		WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	st, order, err := repo.Checkout(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, order)
	assert.Equal(t, domain.Money(0), st.PendingPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ReadState_NotFound(t *testing.T) {
	repo, mock := setupPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, pending_price, min_order_price FROM restaurants WHERE id = $1`)).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pending_price", "min_order_price"}))

	_, err := repo.ReadState(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListMenus(t *testing.T) {
	repo, mock := setupPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM restaurants WHERE id = $1)`)).
		WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, restaurant_id, name, price, amount_ordered`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "restaurant_id", "name", "price", "amount_ordered"}).
			AddRow(1, 1, "Rucola Salad", int64(8000), 0).
			AddRow(2, 1, "Caesar Salad", int64(11000), 3))

	menus, err := repo.ListMenus(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, menus, 2)
	assert.Equal(t, 3, menus[1].AmountOrdered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_EnsureSchema(t *testing.T) {
	repo, mock := setupPostgres(t)

	for i := 0; i < 4; i++ {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	for i := 0; i < 2; i++ {
		mock.ExpectExec("CREATE INDEX IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	assert.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SeedCatalog(t *testing.T) {
	repo, mock := setupPostgres(t)
	catalog := []domain.SeedRestaurant{{
		Name:          "Mosu",
		MinOrderPrice: 500000,
		Menus:         []domain.SeedMenu{{Name: "Tasting Menu", Price: 100000}},
	}}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO restaurants`)).
		WithArgs("Mosu", 0.0, 0.0, int64(500000)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO menus`)).
		WithArgs(1, "Tasting Menu", int64(100000)).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.SeedCatalog(context.Background(), catalog))
	assert.NoError(t, mock.ExpectationsWereMet())
}
