package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/mselser95/parimutuel-engine/pkg/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewPostgresStoreWithDB(db, zap.NewNop()), mock
}

func TestPostgresCreateMarket(t *testing.T) {
	store, mock := newMockStore(t)
	m := testMarket()

	mock.ExpectExec(`INSERT INTO markets`).
		WithArgs(m.ID, m.Creator.Hex(), m.AssetKind, int16(m.AssetDecimals),
			m.EscrowAccount.Hex(), m.EscrowAuthority.Hex(), m.Deadline,
			m.Resolved, int16(m.WinningOutcome), int64(0), int64(0),
			int64(0), m.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.CreateMarket(context.Background(), m))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetMarket(t *testing.T) {
	store, mock := newMockStore(t)
	m := testMarket()
	m.Resolved = true
	m.WinningOutcome = types.OutcomeYes
	m.PoolYes = 700
	m.PoolNo = 300

	cols := []string{
		"id", "creator", "asset_kind", "asset_decimals", "escrow_account",
		"escrow_authority", "deadline", "resolved", "winning_outcome",
		"pool_yes", "pool_no", "fees_accrued", "created_at",
	}

	mock.ExpectQuery(`SELECT .+ FROM markets WHERE id = \$1`).
		WithArgs(m.ID).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			m.ID, m.Creator.Hex(), m.AssetKind, int16(m.AssetDecimals),
			m.EscrowAccount.Hex(), m.EscrowAuthority.Hex(), m.Deadline,
			m.Resolved, int16(m.WinningOutcome), int64(m.PoolYes),
			int64(m.PoolNo), int64(m.FeesAccrued), m.CreatedAt,
		))

	got, err := store.GetMarket(context.Background(), m.ID)
	require.NoError(t, err)
	require.Equal(t, m.ID, got.ID)
	require.Equal(t, types.OutcomeYes, got.WinningOutcome)
	require.Equal(t, uint64(700), got.PoolYes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetMarketRejectsUnknownOutcomeOrdinal(t *testing.T) {
	store, mock := newMockStore(t)
	m := testMarket()

	cols := []string{
		"id", "creator", "asset_kind", "asset_decimals", "escrow_account",
		"escrow_authority", "deadline", "resolved", "winning_outcome",
		"pool_yes", "pool_no", "fees_accrued", "created_at",
	}

	mock.ExpectQuery(`SELECT .+ FROM markets WHERE id = \$1`).
		WithArgs(m.ID).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			m.ID, m.Creator.Hex(), m.AssetKind, int16(m.AssetDecimals),
			m.EscrowAccount.Hex(), m.EscrowAuthority.Hex(), m.Deadline,
			true, int16(42), int64(0), int64(0), int64(0), m.CreatedAt,
		))

	_, err := store.GetMarket(context.Background(), m.ID)
	require.ErrorIs(t, err, types.ErrInvalidOutcome)
}

func TestPostgresGetMarketNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM markets WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.GetMarket(context.Background(), id)
	require.ErrorIs(t, err, types.ErrMarketNotFound)
}

func TestPostgresApplyBetTransactional(t *testing.T) {
	store, mock := newMockStore(t)
	m := testMarket()
	m.PoolYes = 970
	m.FeesAccrued = 30

	owner, _ := types.ParseIdentity("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	now := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	pos := &types.Position{
		Owner:     owner,
		Market:    m.ID,
		Outcome:   types.OutcomeYes,
		Amount:    970,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE markets`).
		WithArgs(m.ID, int64(970), int64(0), int64(30)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO positions`).
		WithArgs(owner.Hex(), m.ID, int16(types.OutcomeYes), int64(970),
			false, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.ApplyBet(context.Background(), m, pos))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresApplyBetRollsBackOnFailure(t *testing.T) {
	store, mock := newMockStore(t)
	m := testMarket()
	owner, _ := types.ParseIdentity("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	pos := &types.Position{Owner: owner, Market: m.ID, Outcome: types.OutcomeYes, Amount: 970}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE markets`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	require.Error(t, store.ApplyBet(context.Background(), m, pos))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSettleClaim(t *testing.T) {
	store, mock := newMockStore(t)
	marketID := uuid.New()
	owner, _ := types.ParseIdentity("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	mock.ExpectExec(`DELETE FROM positions`).
		WithArgs(marketID, owner.Hex()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.SettleClaim(context.Background(), marketID, owner))

	mock.ExpectExec(`DELETE FROM positions`).
		WithArgs(marketID, owner.Hex()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.SettleClaim(context.Background(), marketID, owner)
	require.ErrorIs(t, err, types.ErrPositionNotFound)
}
