package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"p2p-lending/internal/domain/loanrequest"

	"github.com/redis/go-redis/v9"
)

const (
	ActiveLoanRequestsKey           = "loan_requests:active"
	ActiveLoanRequestsGenerationKey = "loan_requests:active:gen"
)

// ActiveRequests is the redis-backed view of active loan requests.
type ActiveRequests struct {
	rdb    *redis.Client
	key    string
	genKey string
	ttl    time.Duration
}

var _ loanrequest.Cache = (*ActiveRequests)(nil)

func NewActiveRequests(rdb *redis.Client, ttl time.Duration) *ActiveRequests {
	return &ActiveRequests{rdb: rdb, key: ActiveLoanRequestsKey, genKey: ActiveLoanRequestsGenerationKey, ttl: ttl}
}

func (c *ActiveRequests) Get(ctx context.Context) ([]loanrequest.LoanRequest, int64, bool, error) {
	vals, err := c.rdb.MGet(ctx, c.key, c.genKey).Result()
	if err != nil {
		return nil, 0, false, err
	}
	gen, err := parseGeneration(vals[1])
	if err != nil {
		return nil, 0, false, err
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, false, nil
	}
	var out []loanrequest.LoanRequest
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		// a corrupt entry is treated as a miss and dropped
		_ = c.rdb.Del(ctx, c.key).Err()
		return nil, gen, false, nil
	}
	return out, gen, true, nil
}

// Set writes under WATCH on the generation key, so an Invalidate landing
// between the check and the write aborts the transaction.
func (c *ActiveRequests) Set(ctx context.Context, gen int64, list []loanrequest.LoanRequest) (bool, error) {
	payload, err := json.Marshal(list)
	if err != nil {
		return false, err
	}
	written := false
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, c.genKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		curGen, err := parseGeneration(cur)
		if err != nil {
			return err
		}
		if curGen != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, c.key, payload, c.ttl)
			return nil
		})
		if err == nil {
			written = true
		}
		return err
	}, c.genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return written, err
}

func (c *ActiveRequests) Invalidate(ctx context.Context) error {
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, c.genKey)
		p.Del(ctx, c.key)
		return nil
	})
	return err
}

func parseGeneration(v any) (int64, error) {
	switch s := v.(type) {
	case nil:
		return 0, nil
	case string:
		if s == "" {
			return 0, nil
		}
		return strconv.ParseInt(s, 10, 64)
	}
	return 0, errors.New("unexpected generation value")
}
