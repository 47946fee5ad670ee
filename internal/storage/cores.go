package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
)

// SaveCore upserts the raw core record for a ticker. The payload is stored
// as fetched; normalization happens at read time in the periods layer.
func (r *Repository) SaveCore(ctx context.Context, ticker string, core contracts.CoreRecord) error {
	payload, err := json.Marshal(core)
	if err != nil {
		return fmt.Errorf("marshal core: %w", err)
	}

	query := `
		INSERT INTO netnet.core_records (ticker, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (ticker) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, ticker, payload); err != nil {
		return fmt.Errorf("insert core: %w", err)
	}
	return nil
}

// LoadCore returns the raw core record for a ticker, or nil when none is
// stored.
func (r *Repository) LoadCore(ctx context.Context, ticker string) (contracts.CoreRecord, error) {
	query := `SELECT payload FROM netnet.core_records WHERE ticker = $1`

	var payload []byte
	err := r.db.QueryRow(ctx, query, ticker).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query core: %w", err)
	}

	var core contracts.CoreRecord
	if err := json.Unmarshal(payload, &core); err != nil {
		return nil, fmt.Errorf("unmarshal core: %w", err)
	}
	return core, nil
}

// ListCoreTickers returns every ticker with a stored core record.
func (r *Repository) ListCoreTickers(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT ticker FROM netnet.core_records ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("query core tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("scan core ticker: %w", err)
		}
		tickers = append(tickers, ticker)
	}

	return tickers, rows.Err()
}

// SaveInsiders upserts the raw insider blob for a ticker.
func (r *Repository) SaveInsiders(ctx context.Context, ticker string, blob map[string]interface{}) error {
	payload, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("marshal insiders: %w", err)
	}

	query := `
		INSERT INTO netnet.insider_records (ticker, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (ticker) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, ticker, payload); err != nil {
		return fmt.Errorf("insert insiders: %w", err)
	}
	return nil
}

// LoadInsiders returns the raw insider blob for a ticker, or nil when none
// is stored.
func (r *Repository) LoadInsiders(ctx context.Context, ticker string) (map[string]interface{}, error) {
	query := `SELECT payload FROM netnet.insider_records WHERE ticker = $1`

	var payload []byte
	err := r.db.QueryRow(ctx, query, ticker).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query insiders: %w", err)
	}

	var blob map[string]interface{}
	if err := json.Unmarshal(payload, &blob); err != nil {
		return nil, fmt.Errorf("unmarshal insiders: %w", err)
	}
	return blob, nil
}

// SaveShortlist replaces the shortlist rows for the given items.
func (r *Repository) SaveShortlist(ctx context.Context, items []contracts.ShortlistItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin shortlist tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM netnet.shortlist`); err != nil {
		return fmt.Errorf("clear shortlist: %w", err)
	}

	for _, item := range items {
		_, err := tx.Exec(ctx,
			`INSERT INTO netnet.shortlist (ticker, last_price, updated_at) VALUES ($1, $2, NOW())`,
			item.Ticker, item.LastPrice,
		)
		if err != nil {
			return fmt.Errorf("insert shortlist row: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// LoadShortlist returns the current shortlist ordered by ticker.
func (r *Repository) LoadShortlist(ctx context.Context) ([]contracts.ShortlistItem, error) {
	rows, err := r.db.Query(ctx, `SELECT ticker, last_price FROM netnet.shortlist ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("query shortlist: %w", err)
	}
	defer rows.Close()

	var items []contracts.ShortlistItem
	for rows.Next() {
		var item contracts.ShortlistItem
		if err := rows.Scan(&item.Ticker, &item.LastPrice); err != nil {
			return nil, fmt.Errorf("scan shortlist row: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
