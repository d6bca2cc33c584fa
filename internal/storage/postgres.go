package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/mselser95/parimutuel-engine/pkg/types"
	"go.uber.org/zap"
)

// PostgresStore implements Store using PostgreSQL.
//
// Outcomes are stored as their small ordinal and validated on every read;
// an unknown ordinal in the database surfaces as an error instead of a
// silently misread record.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(cfg *PostgresConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-store-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStore{db: db, logger: cfg.Logger}, nil
}

// NewPostgresStoreWithDB wraps an existing database handle (used in tests).
func NewPostgresStoreWithDB(db *sql.DB, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

const marketColumns = `id, creator, asset_kind, asset_decimals, escrow_account,
		escrow_authority, deadline, resolved, winning_outcome, pool_yes,
		pool_no, fees_accrued, created_at`

const schema = `
	CREATE TABLE IF NOT EXISTS markets (
		id UUID PRIMARY KEY,
		creator TEXT NOT NULL,
		asset_kind TEXT NOT NULL,
		asset_decimals SMALLINT NOT NULL,
		escrow_account TEXT NOT NULL,
		escrow_authority TEXT NOT NULL,
		deadline TIMESTAMPTZ NOT NULL,
		resolved BOOLEAN NOT NULL DEFAULT FALSE,
		winning_outcome SMALLINT NOT NULL DEFAULT 0,
		pool_yes BIGINT NOT NULL DEFAULT 0,
		pool_no BIGINT NOT NULL DEFAULT 0,
		fees_accrued BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS positions (
		owner TEXT NOT NULL,
		market UUID NOT NULL REFERENCES markets(id),
		outcome SMALLINT NOT NULL,
		amount BIGINT NOT NULL,
		claimed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (market, owner)
	);
`

// Migrate creates the markets and positions tables if they do not exist.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	return nil
}

// CreateMarket inserts a new market record.
func (p *PostgresStore) CreateMarket(ctx context.Context, m *types.Market) error {
	query := `
		INSERT INTO markets (` + marketColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := p.db.ExecContext(ctx, query,
		m.ID,
		m.Creator.Hex(),
		m.AssetKind,
		int16(m.AssetDecimals),
		m.EscrowAccount.Hex(),
		m.EscrowAuthority.Hex(),
		m.Deadline,
		m.Resolved,
		int16(m.WinningOutcome),
		int64(m.PoolYes),
		int64(m.PoolNo),
		int64(m.FeesAccrued),
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert market: %w", err)
	}

	p.logger.Debug("market-created",
		zap.String("market-id", m.ID.String()),
		zap.Time("deadline", m.Deadline))

	return nil
}

// GetMarket loads a market by identifier.
func (p *PostgresStore) GetMarket(ctx context.Context, id uuid.UUID) (*types.Market, error) {
	query := `SELECT ` + marketColumns + ` FROM markets WHERE id = $1`

	return scanMarket(p.db.QueryRowContext(ctx, query, id))
}

// UpdateMarket overwrites the mutable fields of a market.
func (p *PostgresStore) UpdateMarket(ctx context.Context, m *types.Market) error {
	query := `
		UPDATE markets
		SET deadline = $2, resolved = $3, winning_outcome = $4,
			pool_yes = $5, pool_no = $6, fees_accrued = $7
		WHERE id = $1
	`

	res, err := p.db.ExecContext(ctx, query,
		m.ID,
		m.Deadline,
		m.Resolved,
		int16(m.WinningOutcome),
		int64(m.PoolYes),
		int64(m.PoolNo),
		int64(m.FeesAccrued),
	)
	if err != nil {
		return fmt.Errorf("update market: %w", err)
	}

	return requireOneRow(res, types.ErrMarketNotFound)
}

// ListMarkets returns all markets ordered by creation time.
func (p *PostgresStore) ListMarkets(ctx context.Context) ([]*types.Market, error) {
	query := `SELECT ` + marketColumns + ` FROM markets ORDER BY created_at`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list markets: %w", err)
	}
	defer rows.Close()

	var out []*types.Market
	for rows.Next() {
		m, err := scanMarket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate markets: %w", err)
	}

	return out, nil
}

// GetPosition loads the (market, owner) position.
func (p *PostgresStore) GetPosition(ctx context.Context, market uuid.UUID, owner types.Identity) (*types.Position, error) {
	query := `
		SELECT owner, market, outcome, amount, claimed, created_at, updated_at
		FROM positions
		WHERE market = $1 AND owner = $2
	`

	return scanPosition(p.db.QueryRowContext(ctx, query, market, owner.Hex()))
}

// ApplyBet upserts the position and updates the market pools in one
// transaction, so a bet is never half-applied.
func (p *PostgresStore) ApplyBet(ctx context.Context, m *types.Market, pos *types.Position) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bet transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		UPDATE markets
		SET pool_yes = $2, pool_no = $3, fees_accrued = $4
		WHERE id = $1
	`, m.ID, int64(m.PoolYes), int64(m.PoolNo), int64(m.FeesAccrued))
	if err != nil {
		return fmt.Errorf("update market pools: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO positions (owner, market, outcome, amount, claimed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (market, owner)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = EXCLUDED.updated_at
	`, pos.Owner.Hex(), pos.Market, int16(pos.Outcome), int64(pos.Amount),
		pos.Claimed, pos.CreatedAt, pos.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert position: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bet transaction: %w", err)
	}

	p.logger.Debug("bet-applied",
		zap.String("market-id", m.ID.String()),
		zap.String("owner", pos.Owner.Hex()),
		zap.Uint64("amount", pos.Amount))

	return nil
}

// SettleClaim deletes the position record.
func (p *PostgresStore) SettleClaim(ctx context.Context, market uuid.UUID, owner types.Identity) error {
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM positions WHERE market = $1 AND owner = $2`,
		market, owner.Hex())
	if err != nil {
		return fmt.Errorf("delete position: %w", err)
	}

	return requireOneRow(res, types.ErrPositionNotFound)
}

// Ping checks database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the database connection.
func (p *PostgresStore) Close() error {
	p.logger.Info("closing-postgres-store")
	return p.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMarket(row rowScanner) (*types.Market, error) {
	var (
		m                      types.Market
		creator, account, auth string
		decimals, outcomeRaw   int16
		poolYes, poolNo, fees  int64
	)

	err := row.Scan(&m.ID, &creator, &m.AssetKind, &decimals, &account,
		&auth, &m.Deadline, &m.Resolved, &outcomeRaw, &poolYes, &poolNo,
		&fees, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrMarketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan market: %w", err)
	}

	m.Creator, err = types.ParseIdentity(creator)
	if err != nil {
		return nil, fmt.Errorf("market creator: %w", err)
	}
	m.EscrowAccount, err = types.ParseIdentity(account)
	if err != nil {
		return nil, fmt.Errorf("market escrow account: %w", err)
	}
	m.EscrowAuthority, err = types.ParseIdentity(auth)
	if err != nil {
		return nil, fmt.Errorf("market escrow authority: %w", err)
	}
	m.WinningOutcome, err = types.OutcomeFromOrdinal(uint8(outcomeRaw))
	if err != nil {
		return nil, fmt.Errorf("market outcome: %w", err)
	}

	m.AssetDecimals = uint8(decimals)
	m.PoolYes = uint64(poolYes)
	m.PoolNo = uint64(poolNo)
	m.FeesAccrued = uint64(fees)

	return &m, nil
}

func scanPosition(row rowScanner) (*types.Position, error) {
	var (
		p          types.Position
		owner      string
		outcomeRaw int16
		amount     int64
	)

	err := row.Scan(&owner, &p.Market, &outcomeRaw, &amount, &p.Claimed,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrPositionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan position: %w", err)
	}

	p.Owner, err = types.ParseIdentity(owner)
	if err != nil {
		return nil, fmt.Errorf("position owner: %w", err)
	}
	p.Outcome, err = types.OutcomeFromOrdinal(uint8(outcomeRaw))
	if err != nil {
		return nil, fmt.Errorf("position outcome: %w", err)
	}

	p.Amount = uint64(amount)

	return &p, nil
}

func requireOneRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return missing
	}

	return nil
}
