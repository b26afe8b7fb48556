package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Set holds the collectors published on /metrics.
type Set struct {
	TransactionsAppended *prometheus.CounterVec
	LedgerRows           prometheus.Gauge
	OpenMills            prometheus.Gauge
}

func New(reg prometheus.Registerer) *Set {
	f := promauto.With(reg)
	return &Set{
		TransactionsAppended: f.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_transactions_appended_total",
			Help: "Ledger rows appended, by transaction type.",
		}, []string{"type"}),
		LedgerRows: f.NewGauge(prometheus.GaugeOpts{
			Name: "inventory_ledger_rows",
			Help: "Parseable rows currently in the transaction ledger.",
		}),
		OpenMills: f.NewGauge(prometheus.GaugeOpts{
			Name: "inventory_open_mills",
			Help: "Ball mills with an in-progress charge.",
		}),
	}
}
