package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"p2p-lending/internal/adapter/repository/gormrepo"
	"p2p-lending/internal/domain/apperr"
	"p2p-lending/internal/domain/uow"
	domainUser "p2p-lending/internal/domain/user"
	domainWallet "p2p-lending/internal/domain/wallet"
	"p2p-lending/internal/testutil/sqlitedb"
	"p2p-lending/internal/testutil/uowmock"

	"github.com/stretchr/testify/require"
)

type fakeIssuer struct {
	got domainUser.Identity
	err error
}

func (f *fakeIssuer) Issue(id domainUser.Identity) (string, time.Time, error) {
	f.got = id
	return "signed-" + string(id.Role), time.Unix(0, 0).UTC(), f.err
}

func TestRegister_CreatesUserAndWallet(t *testing.T) {
	gdb := sqlitedb.Open(t)
	issuer := &fakeIssuer{}
	uc := NewUsecase(gormrepo.NewGormUoW(gdb), issuer, "USD")
	ctx := context.Background()

	got, err := uc.Register(ctx, RegisterInput{Username: "lender1", Role: "lender"})
	require.NoError(t, err)
	require.Len(t, got.User.UserID, 32)
	require.Equal(t, "lender", got.User.Role)
	require.Equal(t, "signed-lender", got.Token)
	require.True(t, got.Balance.IsZero())
	require.Equal(t, "USD", got.Currency)
	require.Equal(t, got.User.UserID, issuer.got.UserID)

	require.True(t, sqlitedb.Balance(t, gdb, got.User.UserID).IsZero())

	_, err = uc.Register(ctx, RegisterInput{Username: "lender1", Role: "borrower"})
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestRegister_Validation(t *testing.T) {
	uc := NewUsecase(uowmock.New(), &fakeIssuer{}, "USD")
	ctx := context.Background()

	_, err := uc.Register(ctx, RegisterInput{Username: "  ", Role: "lender"})
	require.ErrorIs(t, err, apperr.ErrValidation)
	_, err = uc.Register(ctx, RegisterInput{Username: "bob", Role: "auditor"})
	require.ErrorIs(t, err, apperr.ErrValidation)
	_, err = uc.Register(ctx, RegisterInput{Username: "mallory", Role: "admin"})
	require.ErrorIs(t, err, apperr.ErrValidation)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, "role", ae.Field)
	_, err = uc.Provision(ctx, "bob", domainUser.Role("auditor"))
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestProvision_CreatesAdmin(t *testing.T) {
	gdb := sqlitedb.Open(t)
	issuer := &fakeIssuer{}
	uc := NewUsecase(gormrepo.NewGormUoW(gdb), issuer, "USD")
	ctx := context.Background()

	got, err := uc.Provision(ctx, " ops ", domainUser.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, "ops", got.User.Username)
	require.Equal(t, "admin", got.User.Role)
	require.Equal(t, domainUser.RoleAdmin, issuer.got.Role)
	require.True(t, sqlitedb.Balance(t, gdb, got.User.UserID).IsZero())

	_, err = uc.Provision(ctx, "ops", domainUser.RoleAdmin)
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestRegister_WalletFailureRollsBack(t *testing.T) {
	gdb := sqlitedb.Open(t)
	gormTx := gormrepo.NewGormUoW(gdb)
	boom := errors.New("wallet insert failed")

	tx := uowmock.New().WithWithinTx(func(ctx context.Context, fn func(uow.Repos) error) error {
		return gormTx.WithinTx(ctx, func(r uow.Repos) error {
			return fn(uow.Repos{Users: r.Users, Wallets: failingWallets{r.Wallets, boom}})
		})
	})
	uc := NewUsecase(tx, &fakeIssuer{}, "USD")

	_, err := uc.Register(context.Background(), RegisterInput{Username: "carol", Role: "borrower"})
	require.ErrorIs(t, err, boom)

	var n int64
	require.NoError(t, gdb.Model(&domainUser.User{}).Count(&n).Error)
	require.Zero(t, n, "user row must roll back with the wallet")
}

type walletRepo = domainWallet.Repository

type failingWallets struct {
	walletRepo
	err error
}

func (f failingWallets) Create(context.Context, *domainWallet.Wallet) error { return f.err }
