package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DanielPopoola/rental-payment-gateway/internal/adapters/postgres"
	"github.com/DanielPopoola/rental-payment-gateway/internal/core/domain"
	"github.com/DanielPopoola/rental-payment-gateway/internal/core/ports"
	"github.com/DanielPopoola/rental-payment-gateway/internal/testhelpers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDatabase
	repo   *postgres.Repository
	ctx    context.Context
}

func TestRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration tests in short mode")
	}
	suite.Run(t, new(RepositoryTestSuite))
}

func (suite *RepositoryTestSuite) SetupSuite() {
	suite.ctx = context.Background()
	suite.testDB = testhelpers.SetupTestDatabase(suite.T())
	suite.repo = postgres.NewRepository(suite.testDB.DB)
}

func (suite *RepositoryTestSuite) TearDownSuite() {
	suite.testDB.Cleanup(suite.T())
}

// TearDownTest runs after each test
func (suite *RepositoryTestSuite) TearDownTest() {
	suite.testDB.CleanTables(suite.T())
}

// ============================================================================
// PAYMENT TESTS
// ============================================================================

func (suite *RepositoryTestSuite) TestSaveAndFindPayment() {
	p := testhelpers.CreateOnlinePayment(suite.T(), suite.ctx, suite.repo, "BK-1", "pay_1")

	found, err := suite.repo.FindPaymentByBookingID(suite.ctx, "BK-1")

	suite.Require().NoError(err)
	suite.Equal(p.ID, found.ID)
	suite.True(decimal.RequireFromString("1500").Equal(found.Amount))
	suite.Equal(domain.MethodOnline, found.Method)
	suite.Equal(domain.StatusCompleted, found.Status)
	suite.Equal("pay_1", *found.GatewayPaymentID)
	suite.Equal("order_pay_1", *found.GatewayOrderID)
	suite.WithinDuration(p.TransactionTime, found.TransactionTime, time.Millisecond)
}

func (suite *RepositoryTestSuite) TestAmountKeepsMinorUnits() {
	p := domain.NewOnlinePayment(&domain.Booking{BookingID: "BK-1"}, domain.MinorToMajor(150001, 100), "order_1", "pay_1", time.Now())
	suite.Require().NoError(suite.repo.SavePayment(suite.ctx, p))

	found, err := suite.repo.FindPaymentByGatewayPaymentID(suite.ctx, "pay_1")

	suite.Require().NoError(err)
	suite.Equal("1500.01", found.Amount.StringFixed(2))
}

func (suite *RepositoryTestSuite) TestCODPaymentHasNoGatewayPaymentID() {
	cod := domain.NewCODPayment(&domain.Booking{BookingID: "BK-1"}, decimal.NewFromInt(250), "COD_ABCDEF012345", "COD_ORDER_1", time.Now())
	suite.Require().NoError(suite.repo.SavePayment(suite.ctx, cod))

	found, err := suite.repo.FindPaymentByTransactionRef(suite.ctx, "COD_ABCDEF012345")

	suite.Require().NoError(err)
	suite.Nil(found.GatewayPaymentID)
	suite.Equal(domain.StatusPending, found.Status)

	suite.Require().NoError(found.Complete(decimal.NewFromInt(250), "order_1", "pay_1", time.Now()))
	suite.Require().NoError(suite.repo.SavePayment(suite.ctx, found))

	completed, err := suite.repo.FindPaymentByGatewayPaymentID(suite.ctx, "pay_1")
	suite.Require().NoError(err)
	suite.Equal(cod.ID, completed.ID)
	suite.Equal(domain.StatusCompleted, completed.Status)
}

func (suite *RepositoryTestSuite) TestNotFound() {
	_, err := suite.repo.FindPaymentByBookingID(suite.ctx, "BK-404")
	suite.True(domain.IsErrorCode(err, domain.ErrCodePaymentNotFound))

	_, err = suite.repo.FindPaymentByGatewayOrderID(suite.ctx, "order_404")
	suite.True(domain.IsErrorCode(err, domain.ErrCodePaymentNotFound))

	_, err = suite.repo.FindBookingByBookingID(suite.ctx, "BK-404")
	suite.True(domain.IsErrorCode(err, domain.ErrCodeBookingNotFound))
}

func (suite *RepositoryTestSuite) TestTolerantLookups() {
	legacy := testhelpers.CreateOnlinePayment(suite.T(), suite.ctx, suite.repo, "  BK-1\n", "pay_1")
	testhelpers.CreateBooking(suite.T(), suite.ctx, suite.repo, "BK-1 ", domain.BookingPending)

	_, err := suite.repo.FindPaymentByBookingID(suite.ctx, "BK-1")
	suite.True(domain.IsErrorCode(err, domain.ErrCodePaymentNotFound))

	found, err := suite.repo.FindPaymentByBookingIDTolerant(suite.ctx, "BK-1")
	suite.Require().NoError(err)
	suite.Equal(legacy.ID, found.ID)

	exists, err := suite.repo.PaymentExistsForBooking(suite.ctx, "BK-1")
	suite.Require().NoError(err)
	suite.True(exists)

	booking, err := suite.repo.FindBookingByBookingIDTolerant(suite.ctx, "BK-1")
	suite.Require().NoError(err)
	suite.Equal("BK-1 ", booking.BookingID)

	raw, err := suite.repo.FindPaymentsByRawBookingID(suite.ctx, "  BK-1\n")
	suite.Require().NoError(err)
	suite.Len(raw, 1)
}

func (suite *RepositoryTestSuite) TestUniqueKeysReportConstraint() {
	testhelpers.CreateOnlinePayment(suite.T(), suite.ctx, suite.repo, "BK-1", "pay_1")

	dup := domain.NewOnlinePayment(&domain.Booking{BookingID: "BK-1"}, decimal.NewFromInt(1), "order_2", "pay_2", time.Now())
	dup.BookingID = " BK-1"
	err := suite.repo.SavePayment(suite.ctx, dup)
	suite.True(domain.IsErrorCode(err, domain.ErrCodeStorageConflict))
	suite.Contains(err.Error(), "payments_booking_id_key")

	other := domain.NewOnlinePayment(&domain.Booking{BookingID: "BK-2"}, decimal.NewFromInt(1), "order_1", "pay_1", time.Now())
	err = suite.repo.SavePayment(suite.ctx, other)
	suite.True(domain.IsErrorCode(err, domain.ErrCodeStorageConflict))
}

func (suite *RepositoryTestSuite) TestConcurrentInsertsForOneBooking() {
	const writers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := range writers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("pay_%d", i)
			p := domain.NewOnlinePayment(&domain.Booking{BookingID: "BK-RACE"}, decimal.NewFromInt(10), "order_"+id, id, time.Now())
			err := suite.repo.SavePayment(suite.ctx, p)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case domain.IsErrorCode(err, domain.ErrCodeStorageConflict):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	suite.Equal(1, succeeded)
	suite.Equal(writers-1, conflicts)
}

func (suite *RepositoryTestSuite) TestFindCompletedWithUnconfirmedBooking() {
	testhelpers.CreateBooking(suite.T(), suite.ctx, suite.repo, "BK-1", domain.BookingPending)
	testhelpers.CreateBooking(suite.T(), suite.ctx, suite.repo, "BK-2", domain.BookingConfirmed)
	testhelpers.CreateOnlinePayment(suite.T(), suite.ctx, suite.repo, "BK-1", "pay_1")
	testhelpers.CreateOnlinePayment(suite.T(), suite.ctx, suite.repo, "BK-2", "pay_2")

	found, err := suite.repo.FindCompletedWithUnconfirmedBooking(suite.ctx, nil, 50)

	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.Equal("BK-1", found[0].BookingID)
}

func (suite *RepositoryTestSuite) TestFindCompletedWithUnconfirmedBookingPagesByCursor() {
	for i, id := range []string{"BK-1", "BK-2", "BK-3"} {
		testhelpers.CreateBooking(suite.T(), suite.ctx, suite.repo, id, domain.BookingPending)
		testhelpers.CreateOnlinePayment(suite.T(), suite.ctx, suite.repo, id, fmt.Sprintf("pay_%d", i))
	}

	first, err := suite.repo.FindCompletedWithUnconfirmedBooking(suite.ctx, nil, 2)
	suite.Require().NoError(err)
	suite.Require().Len(first, 2)

	rest, err := suite.repo.FindCompletedWithUnconfirmedBooking(suite.ctx, first[1].CursorAfter(), 2)
	suite.Require().NoError(err)
	suite.Require().Len(rest, 1)

	ids := []string{first[0].BookingID, first[1].BookingID, rest[0].BookingID}
	suite.ElementsMatch([]string{"BK-1", "BK-2", "BK-3"}, ids)
}

// ============================================================================
// TRANSACTION TESTS
// ============================================================================

func (suite *RepositoryTestSuite) TestWithTxConfirmsBookingAtomically() {
	b := testhelpers.CreateBooking(suite.T(), suite.ctx, suite.repo, "BK-1", domain.BookingPending)
	p := domain.NewOnlinePayment(b, decimal.NewFromInt(100), "order_1", "pay_1", time.Now())

	err := suite.repo.WithTx(suite.ctx, func(tx ports.Repository) error {
		if err := tx.SavePayment(suite.ctx, p); err != nil {
			return err
		}
		if _, err := b.Confirm(time.Now()); err != nil {
			return err
		}
		return tx.SaveBooking(suite.ctx, b)
	})
	suite.Require().NoError(err)

	found, err := suite.repo.FindBookingByBookingID(suite.ctx, "BK-1")
	suite.Require().NoError(err)
	suite.Equal(domain.BookingConfirmed, found.Status)
}

func (suite *RepositoryTestSuite) TestWithTxRollsBackPayment() {
	b := testhelpers.CreateBooking(suite.T(), suite.ctx, suite.repo, "BK-1", domain.BookingPending)
	p := domain.NewOnlinePayment(b, decimal.NewFromInt(100), "order_1", "pay_1", time.Now())
	boom := errors.New("booking write failed")

	err := suite.repo.WithTx(suite.ctx, func(tx ports.Repository) error {
		if err := tx.SavePayment(suite.ctx, p); err != nil {
			return err
		}
		return boom
	})

	suite.ErrorIs(err, boom)
	exists, err := suite.repo.PaymentExistsForBooking(suite.ctx, "BK-1")
	suite.Require().NoError(err)
	suite.False(exists)
}
