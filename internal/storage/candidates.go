package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
)

// SaveCandidate upserts a shortlist candidate. When the statement signature
// is unchanged only the cache timestamp moves; the payload row stays as is.
func (r *Repository) SaveCandidate(ctx context.Context, candidate *contracts.NCAVCandidate) error {
	payload, err := json.Marshal(candidate)
	if err != nil {
		return fmt.Errorf("marshal candidate: %w", err)
	}

	query := `
		INSERT INTO netnet.candidates (ticker, statement_sig, payload, cached_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (ticker) DO UPDATE SET
			statement_sig = EXCLUDED.statement_sig,
			payload = CASE
				WHEN netnet.candidates.statement_sig = EXCLUDED.statement_sig
				THEN netnet.candidates.payload
				ELSE EXCLUDED.payload
			END,
			cached_at = NOW()
	`

	_, err = r.db.Exec(ctx, query, candidate.Ticker, candidate.StatementSig, payload)
	if err != nil {
		return fmt.Errorf("insert candidate: %w", err)
	}

	return nil
}

// GetCandidate returns the cached candidate for a ticker, or nil when none
// exists.
func (r *Repository) GetCandidate(ctx context.Context, ticker string) (*contracts.NCAVCandidate, error) {
	query := `SELECT payload FROM netnet.candidates WHERE ticker = $1`

	var payload []byte
	err := r.db.QueryRow(ctx, query, ticker).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query candidate: %w", err)
	}

	var candidate contracts.NCAVCandidate
	if err := json.Unmarshal(payload, &candidate); err != nil {
		return nil, fmt.Errorf("unmarshal candidate: %w", err)
	}
	return &candidate, nil
}
