package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sstoeckl/tidy-finance/internal/domain"
	"github.com/sstoeckl/tidy-finance/internal/storage"
)

// SecurityStore implements storage.SecurityStore using PostgreSQL.
type SecurityStore struct {
	pool *Pool
}

// NewSecurityStore creates a new SecurityStore.
func NewSecurityStore(pool *Pool) *SecurityStore {
	return &SecurityStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SecurityStore = (*SecurityStore)(nil)

// Insert adds a new security. Returns ErrDuplicateKey if symbol exists.
func (s *SecurityStore) Insert(ctx context.Context, sec *domain.Security) error {
	query := `
		INSERT INTO securities (
			symbol, name, exchange, currency, index_name, added_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		sec.Symbol,
		sec.Name,
		sec.Exchange,
		sec.Currency,
		sec.Index,
		sec.AddedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert security: %w", err)
	}
	return nil
}

// GetBySymbol retrieves a security by symbol. Returns ErrNotFound if not exists.
func (s *SecurityStore) GetBySymbol(ctx context.Context, symbol string) (*domain.Security, error) {
	query := `
		SELECT symbol, name, exchange, currency, index_name, added_at
		FROM securities
		WHERE symbol = $1
	`

	row := s.pool.QueryRow(ctx, query, symbol)
	sec, err := scanSecurity(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get security by symbol: %w", err)
	}
	return sec, nil
}

// GetByIndex retrieves all securities sourced from a given index, ordered by symbol ASC.
func (s *SecurityStore) GetByIndex(ctx context.Context, index string) ([]*domain.Security, error) {
	query := `
		SELECT symbol, name, exchange, currency, index_name, added_at
		FROM securities
		WHERE index_name = $1
		ORDER BY symbol ASC
	`

	rows, err := s.pool.Query(ctx, query, index)
	if err != nil {
		return nil, fmt.Errorf("get securities by index: %w", err)
	}
	defer rows.Close()

	return scanSecurities(rows)
}

// GetAll retrieves all securities, ordered by symbol ASC.
func (s *SecurityStore) GetAll(ctx context.Context) ([]*domain.Security, error) {
	query := `
		SELECT symbol, name, exchange, currency, index_name, added_at
		FROM securities
		ORDER BY symbol ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all securities: %w", err)
	}
	defer rows.Close()

	return scanSecurities(rows)
}

// scanSecurity scans a single row into a Security.
func scanSecurity(row pgx.Row) (*domain.Security, error) {
	var sec domain.Security

	err := row.Scan(
		&sec.Symbol,
		&sec.Name,
		&sec.Exchange,
		&sec.Currency,
		&sec.Index,
		&sec.AddedAt,
	)
	if err != nil {
		return nil, err
	}

	return &sec, nil
}

// scanSecurities scans multiple rows into a slice of Security.
func scanSecurities(rows pgx.Rows) ([]*domain.Security, error) {
	var securities []*domain.Security

	for rows.Next() {
		var sec domain.Security

		err := rows.Scan(
			&sec.Symbol,
			&sec.Name,
			&sec.Exchange,
			&sec.Currency,
			&sec.Index,
			&sec.AddedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan security row: %w", err)
		}

		securities = append(securities, &sec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate security rows: %w", err)
	}

	return securities, nil
}
