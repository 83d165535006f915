package settlement

import (
	"context"
	"testing"
	"time"

	"p2p-lending/internal/adapter/repository/gormrepo"
	"p2p-lending/internal/domain/loan"
	"p2p-lending/internal/domain/user"
	"p2p-lending/internal/infrastructure/logging"
	"p2p-lending/internal/testutil/eventmock"
	"p2p-lending/internal/testutil/requestmock"
	"p2p-lending/internal/testutil/sqlitedb"
	"p2p-lending/internal/usecase/funding"
	"p2p-lending/internal/usecase/loanrequest"
	"p2p-lending/internal/usecase/offer"
	"p2p-lending/internal/usecase/wallet"

	"github.com/stretchr/testify/require"
)

// A borrower asks for 5000 over 12 months, two lenders bid, the borrower
// takes the 5% offer and the sweep collects every installment.
func TestScenario_RequestToCompletedLoan(t *testing.T) {
	gdb := sqlitedb.Open(t)
	ctx := context.Background()
	tx := gormrepo.NewGormUoW(gdb)
	clock := fundedAt
	now := func() time.Time { return clock }
	events := &eventmock.Recorder{}
	log := logging.Discard()

	borrower := user.Identity{UserID: sqlitedb.SeedUser(t, gdb, "borrower", user.RoleBorrower, "0"), Role: user.RoleBorrower}
	lender := user.Identity{UserID: sqlitedb.SeedUser(t, gdb, "lender", user.RoleLender, "0"), Role: user.RoleLender}
	lender2 := user.Identity{UserID: sqlitedb.SeedUser(t, gdb, "lender2", user.RoleLender, "0"), Role: user.RoleLender}

	wallets := wallet.NewUsecase(tx, events, nil, log).WithClock(now)
	requests := loanrequest.NewUsecase(tx, &requestmock.Cache{}, log)
	orch := funding.NewOrchestrator(tx, &requestmock.Cache{}, events, nil, log).WithClock(now)
	offers := offer.NewUsecase(tx, orch, fee, nil, log).WithClock(now)
	settle := NewUsecase(tx, events, nil, log).WithClock(now)

	_, err := wallets.Deposit(ctx, lender.UserID, wallet.MoneyInput{Amount: dec("10000")})
	require.NoError(t, err)
	_, err = wallets.Deposit(ctx, lender2.UserID, wallet.MoneyInput{Amount: dec("6000")})
	require.NoError(t, err)
	_, err = wallets.Deposit(ctx, borrower.UserID, wallet.MoneyInput{Amount: dec("200")})
	require.NoError(t, err)

	req, err := requests.Create(ctx, borrower, loanrequest.CreateInput{RequestedAmount: dec("5000"), RepaymentPeriodMonths: 12})
	require.NoError(t, err)

	active, err := requests.ListActive(ctx, lender)
	require.NoError(t, err)
	require.Len(t, active, 1)

	good, err := offers.Create(ctx, lender, offer.CreateInput{LoanRequestID: req.ID, OfferedAmount: dec("5000"), InterestRate: dec("5")})
	require.NoError(t, err)
	_, err = offers.Create(ctx, lender2, offer.CreateInput{LoanRequestID: req.ID, OfferedAmount: dec("5000"), InterestRate: dec("9")})
	require.NoError(t, err)

	res, err := offers.Respond(ctx, borrower, good.ID, offer.ActionAccept)
	require.NoError(t, err)
	loanID := res.Loan.ID

	active, err = requests.ListActive(ctx, lender)
	require.NoError(t, err)
	require.Empty(t, active)

	for month := 1; month <= 12; month++ {
		clock = fundedAt.AddDate(0, 0, 30*month).Add(time.Hour)
		sweep, err := settle.SettleDue(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, sweep.Settled, "month %d", month)
		if month == 12 {
			require.Equal(t, []string{loanID}, sweep.CompletedLoans)
		}
	}

	var l loan.Loan
	require.NoError(t, gdb.Where("loan_id = ?", loanID).First(&l).Error)
	require.Equal(t, loan.StatusCompleted, l.Status)

	// 12 x 428.04 = 5136.48 flows back to the lender; 187.50 stays with the platform.
	require.True(t, sqlitedb.Balance(t, gdb, lender.UserID).Equal(dec("9948.98")))
	require.True(t, sqlitedb.Balance(t, gdb, borrower.UserID).Equal(dec("63.52")))
	require.True(t, sqlitedb.Balance(t, gdb, lender2.UserID).Equal(dec("6000")))

	outstanding, err := settle.ListOutstanding(ctx, borrower)
	require.NoError(t, err)
	require.Empty(t, outstanding)

	history, err := wallets.History(ctx, lender.UserID)
	require.NoError(t, err)
	require.Len(t, history, 14, "deposit, funding and twelve installments")
}
