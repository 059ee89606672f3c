package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/money"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testNumber = "40817810000000000001"

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDb.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	return db, mock
}

func accountRows(id uuid.UUID, number, balance string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "number", "balance", "created_at", "updated_at"}).
		AddRow(id.String(), number, balance, now, now)
}

func TestAccountRepository_FindAndLockByNumber(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE number = \$1 LIMIT .+ FOR UPDATE`).
		WillReturnRows(accountRows(id, testNumber, "150.25"))

	a, err := repo.FindAndLockByNumber(context.Background(), testNumber)
	require.NoError(t, err)
	assert.Equal(t, id, a.ID)
	assert.Equal(t, testNumber, a.Number)
	assert.Equal(t, "150.25", a.Balance.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByNumber_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE number = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "balance", "created_at", "updated_at"}))

	_, err := repo.FindByNumber(context.Background(), testNumber)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindAndLockByNumber_LockTimeout(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`FOR UPDATE`).
		WillReturnError(&pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"})

	_, err := repo.FindAndLockByNumber(context.Background(), testNumber)
	assert.ErrorIs(t, err, repository.ErrLockContention)
}

func TestAccountRepository_Insert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	a, err := account.New(testNumber)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO "accounts"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Insert(context.Background(), a))

	mock.ExpectExec(`INSERT INTO "accounts"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	err = repo.Insert(context.Background(), a)
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Save(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	a := account.NewFromData(uuid.New(), testNumber, money.MustParse("10.00"), time.Now(), time.Now())

	mock.ExpectExec(`UPDATE "accounts" SET .+ WHERE id = \$`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Save(context.Background(), a))

	mock.ExpectExec(`UPDATE "accounts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Save(context.Background(), a), repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_Append(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)
	debit := account.NewFromData(uuid.New(), testNumber, money.Zero, time.Now(), time.Now())
	credit := account.NewFromData(uuid.New(), "40817810000000000002", money.Zero, time.Now(), time.Now())
	entry := account.NewTransaction(debit, credit, money.MustParse("35.64"))

	mock.ExpectQuery(`INSERT INTO "transactions" (.+) VALUES (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	require.NoError(t, repo.Append(context.Background(), entry))
	assert.Equal(t, int64(42), entry.ID)
	assert.False(t, entry.Timestamp.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_ListByAccount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)
	accountID := uuid.New()
	otherID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "debit_account_id", "credit_account_id", "debit_number", "credit_number", "amount", "created_at",
	}).
		AddRow(2, accountID.String(), otherID.String(), testNumber, "40817810000000000002", "5.00", now).
		AddRow(1, otherID.String(), accountID.String(), "40817810000000000002", testNumber, "7.50", now)
	mock.ExpectQuery(`SELECT t.id, .+ FROM transactions AS t JOIN accounts d .+ ORDER BY t.id DESC LIMIT`).
		WillReturnRows(rows)

	txs, err := repo.ListByAccount(context.Background(), accountID, 10)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, int64(2), txs[0].ID)
	assert.Equal(t, testNumber, txs[0].DebitNumber)
	assert.Equal(t, "7.50", txs[1].Amount.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_DoSetsLockTimeout(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUoW(db, WithLockTimeout(750*time.Millisecond))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`SET LOCAL lock_timeout = '750ms'`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := uow.Do(context.Background(), func(txUow repository.UnitOfWork) error {
		accounts, err := txUow.AccountRepository()
		require.NoError(t, err)
		assert.IsType(t, &accountRepository{}, accounts)
		entries, err := txUow.TransactionRepository()
		require.NoError(t, err)
		assert.IsType(t, &transactionRepository{}, entries)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_DoRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUoW(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := uow.Do(context.Background(), func(txUow repository.UnitOfWork) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_NestedDoJoinsTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUoW(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	calls := 0
	err := uow.Do(context.Background(), func(outer repository.UnitOfWork) error {
		return outer.Do(context.Background(), func(inner repository.UnitOfWork) error {
			calls++
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}
