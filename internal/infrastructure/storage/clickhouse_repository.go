package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"

	"salestat/internal/domain/model"
	"salestat/internal/domain/repository"
)

// ClickHouseRepository implements the SalePersistence interface using
// ClickHouse as the backend database. It provides durable, analytical storage
// for the sale history accumulated across refresh cycles.
type ClickHouseRepository struct {
	conn driver.Conn
}

type ClickHouseConfig struct {
	Addr     string
	Username string
	Password string
	Timeout  int
}

func NewClickHouseRepository(cfg ClickHouseConfig) (*ClickHouseRepository, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: "default",
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: time.Duration(cfg.Timeout) * time.Second,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, err
	}

	// Check the connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	// Ensure tables exist
	if err := createTablesIfNotExist(conn); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &ClickHouseRepository{conn: conn}, nil
}

// Ensure ClickHouseRepository implements the SalePersistence interface
var _ repository.SalePersistence = (*ClickHouseRepository)(nil)

func createTablesIfNotExist(conn driver.Conn) error {
	return conn.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS sale_history (
			id String,
			title String,
			sell_price Float64,
			buy_price Float64,
			margin Float64,
			sale_date Date,
			fetched_at DateTime
		) ENGINE = MergeTree()
		ORDER BY (sale_date, id)
	`)
}

// SaveSales writes one refresh cycle's dated sales as a single batch.
func (r *ClickHouseRepository) SaveSales(ctx context.Context, sales []model.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, `
		INSERT INTO sale_history (id, title, sell_price, buy_price, margin, sale_date, fetched_at)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	fetchedAt := time.Now()
	for _, sale := range sales {
		err := batch.Append(
			uuid.New().String(),
			sale.Title,
			sale.SellPrice,
			sale.BuyPrice,
			sale.Margin,
			sale.Date,
			fetchedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to append sale: %w", err)
		}
	}

	return batch.Send()
}

// GetSalesBetween retrieves sales whose date falls within [from, to].
func (r *ClickHouseRepository) GetSalesBetween(ctx context.Context, from, to time.Time) ([]model.Sale, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT title, sell_price, buy_price, margin, sale_date
		FROM sale_history
		WHERE sale_date >= ? AND sale_date <= ?
		ORDER BY sale_date
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale history: %w", err)
	}
	defer rows.Close()

	var sales []model.Sale
	for rows.Next() {
		var sale model.Sale
		if err := rows.Scan(&sale.Title, &sale.SellPrice, &sale.BuyPrice, &sale.Margin, &sale.Date); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sale)
	}

	return sales, rows.Err()
}
