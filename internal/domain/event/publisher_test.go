package event

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

type failing struct{ calls int }

func (f *failing) Publish(context.Context, string, any) error {
	f.calls++
	return errors.New("broker down")
}

func TestEmit_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	f := &failing{}

	Emit(context.Background(), f, log, LoanFunded, LoanFundedEvent{LoanID: "l1"})
	if f.calls != 1 {
		t.Fatalf("calls = %d", f.calls)
	}
	if !strings.Contains(buf.String(), "routing_key=loan.funded") {
		t.Fatalf("missing log line: %q", buf.String())
	}

	// nil publisher is a no-op
	Emit(context.Background(), nil, log, LoanFunded, nil)
}
