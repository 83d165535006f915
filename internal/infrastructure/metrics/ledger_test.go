package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLedger_Singleton(t *testing.T) {
	require.Same(t, Ledger(), Ledger())
}

func TestLedger_Observe(t *testing.T) {
	m := Ledger()

	before := testutil.ToFloat64(m.loansFunded)
	principalBefore := testutil.ToFloat64(m.fundedPrincipal)
	m.ObserveLoanFunded(decimal.RequireFromString("5000.50"))
	require.Equal(t, before+1, testutil.ToFloat64(m.loansFunded))
	require.InDelta(t, principalBefore+5000.50, testutil.ToFloat64(m.fundedPrincipal), 1e-9)

	settled := m.paymentsSettled.WithLabelValues("sweep", "true")
	sBefore := testutil.ToFloat64(settled)
	m.ObservePaymentSettled("sweep", true)
	require.Equal(t, sBefore+1, testutil.ToFloat64(settled))

	unknown := m.paymentsSettled.WithLabelValues("unknown", "false")
	uBefore := testutil.ToFloat64(unknown)
	m.ObservePaymentSettled("", false)
	require.Equal(t, uBefore+1, testutil.ToFloat64(unknown))

	failedBefore := testutil.ToFloat64(m.sweepItemsFailed)
	m.ObserveSweep(20*time.Millisecond, 2)
	require.Equal(t, failedBefore+2, testutil.ToFloat64(m.sweepItemsFailed))
}

func TestLedger_NilSafe(t *testing.T) {
	var m *LedgerMetrics
	m.ObserveLoanFunded(decimal.NewFromInt(1))
	m.ObserveLoanCompleted()
	m.ObservePaymentSettled("manual", false)
	m.ObservePaymentOverdue()
	m.ObserveWalletMovement("add_money")
	m.ObserveOfferResponse("accept")
	m.ObserveSweep(time.Second, 1)
}
