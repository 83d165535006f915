package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

type LedgerMetrics struct {
	loansFunded      prometheus.Counter
	fundedPrincipal  prometheus.Counter
	loansCompleted   prometheus.Counter
	paymentsSettled  *prometheus.CounterVec
	paymentsOverdue  prometheus.Counter
	walletMovements  *prometheus.CounterVec
	offerResponses   *prometheus.CounterVec
	sweepDuration    prometheus.Histogram
	sweepItemsFailed prometheus.Counter
}

var (
	ledgerOnce     sync.Once
	ledgerRegistry *LedgerMetrics
)

// Ledger returns the process-wide ledger metrics, registering them with the
// default registry on first use.
func Ledger() *LedgerMetrics {
	ledgerOnce.Do(func() {
		ledgerRegistry = &LedgerMetrics{
			loansFunded: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "lending_loans_funded_total",
				Help: "Number of offers accepted and funded into loans.",
			}),
			fundedPrincipal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "lending_funded_principal_total",
				Help: "Sum of principal credited to borrowers on funding.",
			}),
			loansCompleted: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "lending_loans_completed_total",
				Help: "Number of loans whose last installment was paid.",
			}),
			paymentsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lending_payments_settled_total",
				Help: "Installments settled by source and lateness.",
			}, []string{"source", "late"}),
			paymentsOverdue: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "lending_payments_overdue_total",
				Help: "Installments flagged overdue by the sweep.",
			}),
			walletMovements: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lending_wallet_movements_total",
				Help: "Deposits and withdrawals by type.",
			}, []string{"type"}),
			offerResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lending_offer_responses_total",
				Help: "Borrower responses to offers by action.",
			}, []string{"action"}),
			sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "lending_sweep_duration_seconds",
				Help:    "Wall time of a due-payment sweep.",
				Buckets: prometheus.DefBuckets,
			}),
			sweepItemsFailed: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "lending_sweep_items_failed_total",
				Help: "Sweep items left for the next cycle after an unexpected error.",
			}),
		}
		prometheus.MustRegister(
			ledgerRegistry.loansFunded,
			ledgerRegistry.fundedPrincipal,
			ledgerRegistry.loansCompleted,
			ledgerRegistry.paymentsSettled,
			ledgerRegistry.paymentsOverdue,
			ledgerRegistry.walletMovements,
			ledgerRegistry.offerResponses,
			ledgerRegistry.sweepDuration,
			ledgerRegistry.sweepItemsFailed,
		)
	})
	return ledgerRegistry
}

func (m *LedgerMetrics) ObserveLoanFunded(principal decimal.Decimal) {
	if m == nil {
		return
	}
	m.loansFunded.Inc()
	m.fundedPrincipal.Add(principal.InexactFloat64())
}

func (m *LedgerMetrics) ObserveLoanCompleted() {
	if m == nil {
		return
	}
	m.loansCompleted.Inc()
}

func (m *LedgerMetrics) ObservePaymentSettled(source string, late bool) {
	if m == nil {
		return
	}
	if source == "" {
		source = "unknown"
	}
	m.paymentsSettled.WithLabelValues(source, strconv.FormatBool(late)).Inc()
}

func (m *LedgerMetrics) ObservePaymentOverdue() {
	if m == nil {
		return
	}
	m.paymentsOverdue.Inc()
}

func (m *LedgerMetrics) ObserveWalletMovement(kind string) {
	if m == nil {
		return
	}
	m.walletMovements.WithLabelValues(kind).Inc()
}

func (m *LedgerMetrics) ObserveOfferResponse(action string) {
	if m == nil {
		return
	}
	m.offerResponses.WithLabelValues(action).Inc()
}

func (m *LedgerMetrics) ObserveSweep(elapsed time.Duration, failed int) {
	if m == nil {
		return
	}
	m.sweepDuration.Observe(elapsed.Seconds())
	if failed > 0 {
		m.sweepItemsFailed.Add(float64(failed))
	}
}
