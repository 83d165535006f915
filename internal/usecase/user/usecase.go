package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"p2p-lending/internal/domain/apperr"
	"p2p-lending/internal/domain/uow"
	domainUser "p2p-lending/internal/domain/user"
	"p2p-lending/internal/domain/wallet"
	"p2p-lending/pkg/id"

	"gorm.io/gorm"
)

// TokenIssuer signs bearer tokens for a freshly registered identity.
type TokenIssuer interface {
	Issue(identity domainUser.Identity) (string, time.Time, error)
}

type Usecase struct {
	uow      uow.UnitOfWork
	tokens   TokenIssuer
	currency string
}

func NewUsecase(tx uow.UnitOfWork, tokens TokenIssuer, currency string) *Usecase {
	return &Usecase{uow: tx, tokens: tokens, currency: currency}
}

// Register is public sign-up: only borrower and lender accounts can be
// created this way.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterDTO, error) {
	role := domainUser.Role(in.Role)
	if !role.SelfService() {
		return nil, apperr.Validation("role", "must be one of borrower, lender")
	}
	return u.create(ctx, in.Username, role)
}

// Provision creates an account of any role, admins included. It is reached
// only from operator tooling, never from the public API.
func (u *Usecase) Provision(ctx context.Context, username string, role domainUser.Role) (*RegisterDTO, error) {
	if !role.Valid() {
		return nil, apperr.Validation("role", "must be one of borrower, lender, admin")
	}
	return u.create(ctx, username, role)
}

// create inserts the user and its zero-balance wallet in one transaction.
func (u *Usecase) create(ctx context.Context, username string, role domainUser.Role) (*RegisterDTO, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.Validation("username", "is required")
	}

	usr := &domainUser.User{UserID: id.NewID32(), Username: username, Role: role}
	w := wallet.New(usr.UserID, u.currency)

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Users.GetByUsername(ctx, username); err == nil {
			return apperr.Conflict("username %q is taken", username)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := r.Users.Create(ctx, usr); err != nil {
			return err
		}
		return r.Wallets.Create(ctx, w)
	})
	if err != nil {
		return nil, err
	}

	token, exp, err := u.tokens.Issue(domainUser.Identity{UserID: usr.UserID, Role: usr.Role})
	if err != nil {
		return nil, err
	}
	return &RegisterDTO{
		User:      toDTO(usr),
		Balance:   w.Balance,
		Currency:  w.Currency,
		Token:     token,
		ExpiresAt: exp,
	}, nil
}

func toDTO(u *domainUser.User) UserDTO {
	return UserDTO{UserID: u.UserID, Username: u.Username, Role: string(u.Role), CreatedAt: u.CreatedAt}
}
