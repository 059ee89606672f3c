//go:build integration

package repository_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/amirasaad/ledger/infra/eventbus"
	infrarepo "github.com/amirasaad/ledger/infra/repository"
	"github.com/amirasaad/ledger/internal/migrations"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/money"
	"github.com/amirasaad/ledger/pkg/repository"
	accountsvc "github.com/amirasaad/ledger/pkg/service/account"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	alice = "40817810000000000001"
	bob   = "40817810000000000002"
)

// PostgresSuite runs the balance engine against a real Postgres.
type PostgresSuite struct {
	suite.Suite
	pgContainer *tcpostgres.PostgresContainer
	db          *gorm.DB
	uow         *infrarepo.UoW
	svc         *accountsvc.Service
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	ctx := context.Background()
	container, err := tcpostgres.Run(
		ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("ledger"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.pgContainer = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	s.Require().NoError(err)
	s.db = db

	sqlDB, err := db.DB()
	s.Require().NoError(err)
	s.Require().NoError(migrations.Up(sqlDB, nil))
}

func (s *PostgresSuite) TearDownSuite() {
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(context.Background())
	}
}

func (s *PostgresSuite) SetupTest() {
	s.Require().NoError(s.db.Exec("TRUNCATE transactions, accounts RESTART IDENTITY CASCADE").Error)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.uow = infrarepo.NewUoW(s.db, infrarepo.WithLockTimeout(2*time.Second))
	s.svc = accountsvc.NewService(config.Deps{
		Uow:      s.uow,
		EventBus: eventbus.NewWithMemory(log),
		Logger:   log,
	}, accountsvc.WithRetry(5, 10*time.Millisecond))
}

func (s *PostgresSuite) seed(number, balance string) {
	ctx := context.Background()
	_, err := s.svc.Create(ctx, number)
	s.Require().NoError(err)
	if amount := money.MustParse(balance); amount.IsPositive() {
		_, err = s.svc.Deposit(ctx, number, amount)
		s.Require().NoError(err)
	}
}

func (s *PostgresSuite) TestCreateDuplicate() {
	s.seed(alice, "0")
	_, err := s.svc.Create(context.Background(), alice)
	s.ErrorIs(err, domain.ErrAccountAlreadyExists)
}

func (s *PostgresSuite) TestTransferRecordsLedgerEntry() {
	ctx := context.Background()
	s.seed(alice, "578.85")
	s.seed(bob, "0")

	src, err := s.svc.Transfer(ctx, alice, bob, money.MustParse("543.21"))
	s.Require().NoError(err)
	s.Equal("35.64", src.Balance.String())

	dst, err := s.svc.Get(ctx, bob)
	s.Require().NoError(err)
	s.Equal("543.21", dst.Balance.String())

	history, err := s.svc.Transactions(ctx, bob, 10)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(alice, history[0].DebitNumber)
	s.Equal(bob, history[0].CreditNumber)
	s.Equal("543.21", history[0].Amount.String())
}

func (s *PostgresSuite) TestInsufficientFundsLeavesStateUnchanged() {
	ctx := context.Background()
	s.seed(alice, "10.00")
	s.seed(bob, "0")

	_, err := s.svc.Transfer(ctx, alice, bob, money.MustParse("10.01"))
	s.ErrorIs(err, domain.ErrInsufficientFunds)

	a, err := s.svc.Get(ctx, alice)
	s.Require().NoError(err)
	s.Equal("10.00", a.Balance.String())
	history, err := s.svc.Transactions(ctx, alice, 10)
	s.Require().NoError(err)
	s.Empty(history)
}

func (s *PostgresSuite) TestConcurrentOppositeTransfersConserveTotal() {
	ctx := context.Background()
	s.seed(alice, "1000.00")
	s.seed(bob, "1000.00")

	const perSide = 25
	var wg sync.WaitGroup
	errs := make(chan error, 2*perSide)
	for i := 0; i < perSide; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.svc.Transfer(ctx, alice, bob, money.MustParse("1.00"))
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := s.svc.Transfer(ctx, bob, alice, money.MustParse("2.00"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.True(domain.Retryable(err), "unexpected error: %v", err)
	}

	a, err := s.svc.Get(ctx, alice)
	s.Require().NoError(err)
	b, err := s.svc.Get(ctx, bob)
	s.Require().NoError(err)
	s.Equal("2000.00", a.Balance.Add(b.Balance).String())

	history, err := s.svc.Transactions(ctx, alice, 1000)
	s.Require().NoError(err)
	s.Len(history, succeeded)
}

func (s *PostgresSuite) TestLockTimeoutReportsContention() {
	ctx := context.Background()
	s.seed(alice, "5.00")

	holder := infrarepo.NewUoW(s.db)
	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- holder.Do(ctx, func(uow repository.UnitOfWork) error {
			repo, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			if _, err := repo.FindAndLockByNumber(ctx, alice); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	short := infrarepo.NewUoW(s.db, infrarepo.WithLockTimeout(100*time.Millisecond))
	err := short.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		_, err = repo.FindAndLockByNumber(ctx, alice)
		return err
	})
	s.ErrorIs(err, repository.ErrLockContention)

	close(release)
	s.NoError(<-done)
}
