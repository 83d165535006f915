package loanrequest

import (
	"context"
	"errors"
	"log/slog"

	"p2p-lending/internal/domain/apperr"
	domain "p2p-lending/internal/domain/loanrequest"
	"p2p-lending/internal/domain/money"
	"p2p-lending/internal/domain/uow"
	"p2p-lending/internal/domain/user"
	"p2p-lending/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	uow   uow.UnitOfWork
	cache domain.Cache
	log   *slog.Logger
}

// NewUsecase wires the registry; cache may be nil.
func NewUsecase(tx uow.UnitOfWork, cache domain.Cache, log *slog.Logger) *Usecase {
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{uow: tx, cache: cache, log: log}
}

func (u *Usecase) Create(ctx context.Context, actor user.Identity, in CreateInput) (*LoanRequestDTO, error) {
	if actor.Role != user.RoleBorrower {
		return nil, apperr.Forbidden("only borrowers can create loan requests")
	}
	if err := money.Positive("requested_amount", in.RequestedAmount); err != nil {
		return nil, err
	}
	if in.RepaymentPeriodMonths <= 0 {
		return nil, apperr.Validation("repayment_period_months", "must be greater than 0")
	}

	lr := &domain.LoanRequest{
		RequestID:             id.NewID32(),
		BorrowerID:            actor.UserID,
		RequestedAmount:       in.RequestedAmount,
		RepaymentPeriodMonths: in.RepaymentPeriodMonths,
		IsActive:              true,
	}
	if err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.LoanRequests.Create(ctx, lr)
	}); err != nil {
		return nil, err
	}
	u.Invalidate(ctx)
	dto := toDTO(lr)
	return &dto, nil
}

// ListActive serves the active set read-through the cache. Only lenders
// browse requests. The fill is skipped when an invalidation happened while
// the database was being read.
func (u *Usecase) ListActive(ctx context.Context, actor user.Identity) ([]LoanRequestDTO, error) {
	if actor.Role != user.RoleLender {
		return nil, apperr.Forbidden("only lenders can browse loan requests")
	}

	fill := false
	var gen int64
	if u.cache != nil {
		list, g, ok, err := u.cache.Get(ctx)
		switch {
		case err != nil:
			u.log.WarnContext(ctx, "active requests cache read failed", "err", err)
		case ok:
			return toDTOs(list), nil
		default:
			fill, gen = true, g
		}
	}

	var list []domain.LoanRequest
	if err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		list, err = r.LoanRequests.ListActive(ctx)
		return err
	}); err != nil {
		return nil, err
	}

	if fill {
		wrote, err := u.cache.Set(ctx, gen, list)
		if err != nil {
			u.log.WarnContext(ctx, "active requests cache write failed", "err", err)
		} else if !wrote {
			u.log.DebugContext(ctx, "active requests changed during read, cache fill skipped", "generation", gen)
		}
	}
	return toDTOs(list), nil
}

// Delete soft-deletes a request. Admin only.
func (u *Usecase) Delete(ctx context.Context, actor user.Identity, requestID string) error {
	if actor.Role != user.RoleAdmin {
		return apperr.Forbidden("only admins can delete loan requests")
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		lr, err := r.LoanRequests.GetByRequestIDForUpdate(ctx, requestID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("loan request %s not found", requestID)
		}
		if err != nil {
			return err
		}
		return r.LoanRequests.Delete(ctx, lr)
	})
	if err != nil {
		return err
	}
	u.Invalidate(ctx)
	return nil
}

// Invalidate drops the cached active set. Failures are logged; the entry
// expires on its own.
func (u *Usecase) Invalidate(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Invalidate(ctx); err != nil {
		u.log.WarnContext(ctx, "active requests cache invalidation failed", "err", err)
	}
}

func toDTO(lr *domain.LoanRequest) LoanRequestDTO {
	return LoanRequestDTO{
		ID:                    lr.RequestID,
		Borrower:              lr.BorrowerID,
		RequestedAmount:       lr.RequestedAmount,
		RepaymentPeriodMonths: lr.RepaymentPeriodMonths,
		IsActive:              lr.IsActive,
		Created:               lr.CreatedAt,
		Updated:               lr.UpdatedAt,
	}
}

func toDTOs(list []domain.LoanRequest) []LoanRequestDTO {
	out := make([]LoanRequestDTO, 0, len(list))
	for i := range list {
		out = append(out, toDTO(&list[i]))
	}
	return out
}
