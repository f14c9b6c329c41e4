// Package repository содержит реализацию доступа к данным в PostgreSQL.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mmeshcher/foodcart-system/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrOrderNotFound возвращается, если заказ не найден.
var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrProductNotFound возвращается, если товар из позиции заказа отсутствует в каталоге.
	ErrProductNotFound = errors.New("product not found")
)

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// ListRestaurants возвращает все рестораны.
func (r *PostgresRepository) ListRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, address, contact_phone FROM restaurants ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("select restaurants: %w", err)
	}
	defer rows.Close()

	var res []model.Restaurant
	for rows.Next() {
		var rest model.Restaurant
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.Address, &rest.ContactPhone); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		res = append(res, rest)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// GetRestaurants возвращает рестораны по идентификаторам.
func (r *PostgresRepository) GetRestaurants(ctx context.Context, ids []int64) (map[int64]model.Restaurant, error) {
	res := make(map[int64]model.Restaurant, len(ids))
	if len(ids) == 0 {
		return res, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, address, contact_phone FROM restaurants WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("select restaurants by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rest model.Restaurant
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.Address, &rest.ContactPhone); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		res[rest.ID] = rest
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// ListAvailableProducts возвращает товары, доступные хотя бы в одном ресторане.
func (r *PostgresRepository) ListAvailableProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.name, p.price, p.description, p.special_status, c.id, c.name
		 FROM products p
		 LEFT JOIN product_categories c ON c.id = p.category_id
		 WHERE p.id IN (SELECT product_id FROM menu_items WHERE availability)
		 ORDER BY p.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var res []model.Product
	for rows.Next() {
		var (
			p          model.Product
			priceCents int64
			catID      *int64
			catName    *string
		)
		if err := rows.Scan(&p.ID, &p.Name, &priceCents, &p.Description, &p.SpecialStatus, &catID, &catName); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}

		p.Price = float64(priceCents) / 100
		if catID != nil && catName != nil {
			p.Category = &model.ProductCategory{ID: *catID, Name: *catName}
		}

		res = append(res, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// CreateOrder сохраняет заказ и его позиции в одной транзакции. Цена каждой
// позиции фиксируется из текущей цены товара и далее не пересчитывается.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order model.Order, items []model.OrderItem) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (firstname, lastname, phonenumber, address, status, payment_method, comment)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		order.Firstname, order.Lastname, order.Phonenumber, order.Address,
		string(order.Status), string(order.PaymentMethod), order.Comment,
	).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	for _, item := range items {
		cmdTag, err := tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, fixed_price)
			 SELECT $1, id, $3, price FROM products WHERE id = $2`,
			orderID, item.ProductID, item.Quantity,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
				return 0, fmt.Errorf("%w: %d", ErrProductNotFound, item.ProductID)
			}
			return 0, fmt.Errorf("insert order item: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return 0, fmt.Errorf("%w: %d", ErrProductNotFound, item.ProductID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	return orderID, nil
}

// GetOrder возвращает заказ по идентификатору.
func (r *PostgresRepository) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, firstname, lastname, phonenumber, address, status, payment_method,
		        comment, cooking_restaurant_id, registered_at, called_at, delivered_at
		 FROM orders WHERE id = $1`,
		id,
	)

	var o model.Order
	var status, paymentMethod string
	err := row.Scan(&o.ID, &o.Firstname, &o.Lastname, &o.Phonenumber, &o.Address,
		&status, &paymentMethod, &o.Comment, &o.CookingRestaurantID,
		&o.RegisteredAt, &o.CalledAt, &o.DeliveredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	o.Status = model.OrderStatus(status)
	o.PaymentMethod = model.PaymentMethod(paymentMethod)

	return &o, nil
}

// ListOrders возвращает заказы в порядке регистрации, новые первыми.
func (r *PostgresRepository) ListOrders(ctx context.Context) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, firstname, lastname, phonenumber, address, status, payment_method,
		        comment, cooking_restaurant_id, registered_at, called_at, delivered_at
		 FROM orders
		 ORDER BY registered_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var res []model.Order
	for rows.Next() {
		var o model.Order
		var status, paymentMethod string
		if err := rows.Scan(&o.ID, &o.Firstname, &o.Lastname, &o.Phonenumber, &o.Address,
			&status, &paymentMethod, &o.Comment, &o.CookingRestaurantID,
			&o.RegisteredAt, &o.CalledAt, &o.DeliveredAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}

		o.Status = model.OrderStatus(status)
		o.PaymentMethod = model.PaymentMethod(paymentMethod)

		res = append(res, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// ListOrderItems возвращает позиции указанных заказов, сгруппированные по заказу.
func (r *PostgresRepository) ListOrderItems(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error) {
	res := make(map[int64][]model.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return res, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT order_id, product_id, quantity, fixed_price
		 FROM order_items
		 WHERE order_id = ANY($1)
		 ORDER BY id`,
		orderIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID    int64
			item       model.OrderItem
			priceCents int64
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.Quantity, &priceCents); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}

		item.FixedPrice = float64(priceCents) / 100
		res[orderID] = append(res[orderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// AvailabilityByProduct возвращает отображение товара на рестораны,
// где он отмечен доступным.
func (r *PostgresRepository) AvailabilityByProduct(ctx context.Context, productIDs []int64) (map[int64][]int64, error) {
	res := make(map[int64][]int64, len(productIDs))
	if len(productIDs) == 0 {
		return res, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT product_id, restaurant_id
		 FROM menu_items
		 WHERE availability AND product_id = ANY($1)`,
		productIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("select menu items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID, restaurantID int64
		if err := rows.Scan(&productID, &restaurantID); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		res[productID] = append(res[productID], restaurantID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// GetPlaceCoordinates возвращает запись кэша координат или nil, если адрес не закэширован.
func (r *PostgresRepository) GetPlaceCoordinates(ctx context.Context, address string) (*model.PlaceCoordinates, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT address, lat, lon, updated_at FROM place_coordinates WHERE address = $1`,
		address,
	)

	var pc model.PlaceCoordinates
	err := row.Scan(&pc.Address, &pc.Lat, &pc.Lon, &pc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get place coordinates: %w", err)
	}

	return &pc, nil
}

// UpsertPlaceCoordinates атомарно сохраняет координаты адреса, перезаписывая
// существующую запись. При конкурентных записях побеждает последняя.
func (r *PostgresRepository) UpsertPlaceCoordinates(ctx context.Context, address string, lat, lon float64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO place_coordinates (address, lat, lon, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (address) DO UPDATE
		 SET lat = EXCLUDED.lat,
		     lon = EXCLUDED.lon,
		     updated_at = now()`,
		address, lat, lon,
	)
	if err != nil {
		return fmt.Errorf("upsert place coordinates: %w", err)
	}

	return nil
}
