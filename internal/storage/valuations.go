package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
)

// SaveValuation upserts a finished valuation keyed by ticker.
func (r *Repository) SaveValuation(ctx context.Context, result *contracts.ValuationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal valuation: %w", err)
	}

	query := `
		INSERT INTO netnet.valuations (ticker, margin_of_safety, is_outdated, payload, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (ticker) DO UPDATE SET
			margin_of_safety = EXCLUDED.margin_of_safety,
			is_outdated = EXCLUDED.is_outdated,
			payload = EXCLUDED.payload,
			updated_at = NOW()
	`

	_, err = r.db.Exec(ctx, query,
		result.Ticker,
		result.MarginOfSafety,
		result.IsOutdated,
		payload,
	)
	if err != nil {
		return fmt.Errorf("insert valuation: %w", err)
	}

	return nil
}

// ListValuations returns valuations ordered by margin of safety, best
// first, unknowns last.
func (r *Repository) ListValuations(ctx context.Context, limit int) ([]*contracts.ValuationResult, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT payload
		FROM netnet.valuations
		ORDER BY margin_of_safety DESC NULLS LAST, ticker
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query valuations: %w", err)
	}
	defer rows.Close()

	results := make([]*contracts.ValuationResult, 0, limit)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan valuation: %w", err)
		}
		var result contracts.ValuationResult
		if err := json.Unmarshal(payload, &result); err != nil {
			return nil, fmt.Errorf("unmarshal valuation: %w", err)
		}
		results = append(results, &result)
	}

	return results, rows.Err()
}

// GetValuation returns the stored valuation for a ticker, or nil when none
// exists.
func (r *Repository) GetValuation(ctx context.Context, ticker string) (*contracts.ValuationResult, error) {
	query := `SELECT payload FROM netnet.valuations WHERE ticker = $1`

	var payload []byte
	err := r.db.QueryRow(ctx, query, ticker).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query valuation: %w", err)
	}

	var result contracts.ValuationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("unmarshal valuation: %w", err)
	}
	return &result, nil
}
