package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"groupcart/cart-svc/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) ListRestaurants(ctx context.Context, query string, limit int) ([]domain.Restaurant, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, latitude, longitude, min_order_price, pending_price, updated_at
		FROM restaurants
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY id
		LIMIT $2`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query restaurants: %w", err)
	}
	defer rows.Close()

	restaurants := []domain.Restaurant{}
	for rows.Next() {
		var rest domain.Restaurant
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.Latitude, &rest.Longitude,
			&rest.MinOrderPrice, &rest.PendingPrice, &rest.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		restaurants = append(restaurants, rest)
	}
	return restaurants, rows.Err()
}

func (r *PostgresRepository) GetRestaurant(ctx context.Context, restaurantID int) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, latitude, longitude, min_order_price, pending_price, updated_at
		FROM restaurants
		WHERE id = $1`, restaurantID).
		Scan(&rest.ID, &rest.Name, &rest.Latitude, &rest.Longitude,
			&rest.MinOrderPrice, &rest.PendingPrice, &rest.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return &rest, nil
}

func (r *PostgresRepository) ListMenus(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	var exists bool
	if err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM restaurants WHERE id = $1)`, restaurantID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check restaurant: %w", err)
	}
	if !exists {
		return nil, domain.ErrRestaurantNotFound
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, restaurant_id, name, price, amount_ordered
		FROM menus
		WHERE restaurant_id = $1
		ORDER BY id`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("query menus: %w", err)
	}
	defer rows.Close()

	menus := []domain.MenuItem{}
	for rows.Next() {
		var m domain.MenuItem
		if err := rows.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Price, &m.AmountOrdered); err != nil {
			return nil, fmt.Errorf("scan menu: %w", err)
		}
		menus = append(menus, m)
	}
	return menus, rows.Err()
}

func (r *PostgresRepository) ReadState(ctx context.Context, restaurantID int) (domain.Snapshot, error) {
	var st domain.Snapshot
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, pending_price, min_order_price FROM restaurants WHERE id = $1`, restaurantID).
		Scan(&st.ID, &st.PendingPrice, &st.MinOrderPrice)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snapshot{}, domain.ErrRestaurantNotFound
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read state: %w", err)
	}
	return st, nil
}

func (r *PostgresRepository) ApplyPriceDelta(ctx context.Context, restaurantID int, delta domain.Money) (domain.Snapshot, error) {
	var st domain.Snapshot
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		locked, err := lockRestaurant(ctx, tx, restaurantID)
		if err != nil {
			return err
		}
		st = locked.snapshot()
		if st.PendingPrice, err = addMoney(st.PendingPrice, delta); err != nil {
			return err
		}
		return updatePendingPrice(ctx, tx, restaurantID, st.PendingPrice)
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return st, nil
}

func (r *PostgresRepository) ApplyItemDelta(ctx context.Context, restaurantID, menuID, delta int) (domain.MenuItem, error) {
	var menu domain.MenuItem
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		// restaurant row first, same lock order as every other mutation
		if _, err := lockRestaurant(ctx, tx, restaurantID); err != nil {
			return err
		}
		locked, err := lockMenu(ctx, tx, restaurantID, menuID)
		if err != nil {
			return err
		}
		menu = locked
		menu.AmountOrdered = floorCount(menu.AmountOrdered + delta)
		if err := updateAmountOrdered(ctx, tx, menuID, menu.AmountOrdered); err != nil {
			return err
		}
		return touchRestaurant(ctx, tx, restaurantID)
	})
	if err != nil {
		return domain.MenuItem{}, err
	}
	return menu, nil
}

func (r *PostgresRepository) ApplyCombinedDelta(ctx context.Context, restaurantID, menuID, delta int) (domain.CombinedResult, error) {
	var result domain.CombinedResult
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		rest, err := lockRestaurant(ctx, tx, restaurantID)
		if err != nil {
			return err
		}
		menu, err := lockMenu(ctx, tx, restaurantID, menuID)
		if err != nil {
			return err
		}

		effective := effectiveDelta(menu.AmountOrdered, delta)
		menu.AmountOrdered += effective
		st := rest.snapshot()
		st.PendingPrice = floorMoney(st.PendingPrice + menu.Price*domain.Money(effective))
		result = domain.CombinedResult{Menu: menu, Restaurant: st}

		if effective == 0 {
			return nil
		}
		if err := updateAmountOrdered(ctx, tx, menuID, menu.AmountOrdered); err != nil {
			return err
		}
		return updatePendingPrice(ctx, tx, restaurantID, st.PendingPrice)
	})
	if err != nil {
		return domain.CombinedResult{}, err
	}
	return result, nil
}

func (r *PostgresRepository) Checkout(ctx context.Context, restaurantID int) (domain.Snapshot, *domain.GroupOrder, error) {
	var (
		st    domain.Snapshot
		order *domain.GroupOrder
	)
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		rest, err := lockRestaurant(ctx, tx, restaurantID)
		if err != nil {
			return err
		}
		st = rest.snapshot()

		if rest.pendingPrice > 0 {
			order, err = recordOrder(ctx, tx, rest)
			if err != nil {
				return err
			}
		}

		if err := updatePendingPrice(ctx, tx, restaurantID, 0); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE menus SET amount_ordered = 0 WHERE restaurant_id = $1 AND amount_ordered <> 0`,
			restaurantID); err != nil {
			return fmt.Errorf("reset menus: %w", err)
		}
		st.PendingPrice = 0
		return nil
	})
	if err != nil {
		return domain.Snapshot{}, nil, err
	}
	return st, order, nil
}

func (r *PostgresRepository) GetOrder(ctx context.Context, orderID int) (*domain.GroupOrder, error) {
	var order domain.GroupOrder
	err := r.DB.QueryRowContext(ctx, `
		SELECT o.id, o.restaurant_id, r.name, o.total_price, o.status, o.created_at
		FROM group_orders o
		JOIN restaurants r ON r.id = o.restaurant_id
		WHERE o.id = $1`, orderID).
		Scan(&order.ID, &order.RestaurantID, &order.RestaurantName, &order.TotalPrice, &order.Status, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT menu_id, name, quantity, price
		FROM group_order_items
		WHERE order_id = $1
		ORDER BY menu_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	order.Items = []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.MenuID, &item.Name, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return &order, rows.Err()
}

func (r *PostgresRepository) SaveQRCode(ctx context.Context, orderID int, qr []byte) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE group_orders SET qr_code = $1 WHERE id = $2`, qr, orderID)
	return err
}

func (r *PostgresRepository) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	var qr []byte
	err := r.DB.QueryRowContext(ctx, `SELECT qr_code FROM group_orders WHERE id = $1`, orderID).Scan(&qr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get qr code: %w", err)
	}
	return qr, nil
}

func (r *PostgresRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type lockedRestaurant struct {
	id            int
	name          string
	pendingPrice  domain.Money
	minOrderPrice domain.Money
}

func (l lockedRestaurant) snapshot() domain.Snapshot {
	return domain.Snapshot{ID: l.id, PendingPrice: l.pendingPrice, MinOrderPrice: l.minOrderPrice}
}

func lockRestaurant(ctx context.Context, tx *sql.Tx, restaurantID int) (lockedRestaurant, error) {
	var l lockedRestaurant
	err := tx.QueryRowContext(ctx, `
		SELECT id, name, pending_price, min_order_price
		FROM restaurants
		WHERE id = $1
		FOR UPDATE`, restaurantID).
		Scan(&l.id, &l.name, &l.pendingPrice, &l.minOrderPrice)
	if errors.Is(err, sql.ErrNoRows) {
		return l, domain.ErrRestaurantNotFound
	}
	if err != nil {
		return l, fmt.Errorf("lock restaurant: %w", err)
	}
	return l, nil
}

func lockMenu(ctx context.Context, tx *sql.Tx, restaurantID, menuID int) (domain.MenuItem, error) {
	var m domain.MenuItem
	err := tx.QueryRowContext(ctx, `
		SELECT id, restaurant_id, name, price, amount_ordered
		FROM menus
		WHERE id = $1 AND restaurant_id = $2
		FOR UPDATE`, menuID, restaurantID).
		Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Price, &m.AmountOrdered)
	if errors.Is(err, sql.ErrNoRows) {
		return m, domain.ErrMenuNotFound
	}
	if err != nil {
		return m, fmt.Errorf("lock menu: %w", err)
	}
	return m, nil
}

func updatePendingPrice(ctx context.Context, tx *sql.Tx, restaurantID int, price domain.Money) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE restaurants SET pending_price = $1, updated_at = NOW() WHERE id = $2`,
		price, restaurantID); err != nil {
		return fmt.Errorf("update pending price: %w", err)
	}
	return nil
}

func touchRestaurant(ctx context.Context, tx *sql.Tx, restaurantID int) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE restaurants SET updated_at = NOW() WHERE id = $1`, restaurantID); err != nil {
		return fmt.Errorf("touch restaurant: %w", err)
	}
	return nil
}

func updateAmountOrdered(ctx context.Context, tx *sql.Tx, menuID, amount int) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE menus SET amount_ordered = $1 WHERE id = $2`, amount, menuID); err != nil {
		return fmt.Errorf("update amount ordered: %w", err)
	}
	return nil
}

func recordOrder(ctx context.Context, tx *sql.Tx, rest lockedRestaurant) (*domain.GroupOrder, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, name, price, amount_ordered
		FROM menus
		WHERE restaurant_id = $1 AND amount_ordered > 0
		ORDER BY id
		FOR UPDATE`, rest.id)
	if err != nil {
		return nil, fmt.Errorf("query ordered menus: %w", err)
	}
	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.MenuID, &item.Name, &item.Price, &item.Quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan ordered menu: %w", err)
		}
		items = append(items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	order := &domain.GroupOrder{
		RestaurantID:   rest.id,
		RestaurantName: rest.name,
		TotalPrice:     rest.pendingPrice,
		Status:         domain.OrderStatusCompleted,
		Items:          items,
	}
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO group_orders (restaurant_id, total_price, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`, order.RestaurantID, order.TotalPrice, order.Status).
		Scan(&order.ID, &order.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert group order: %w", err)
	}

	for _, item := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO group_order_items (order_id, menu_id, name, quantity, price)
			VALUES ($1, $2, $3, $4, $5)`,
			order.ID, item.MenuID, item.Name, item.Quantity, item.Price); err != nil {
			return nil, fmt.Errorf("insert group order item: %w", err)
		}
	}
	return order, nil
}
