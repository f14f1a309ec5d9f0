package utils

import (
	"strconv"
	"time"

	"github.com/callora/custody"
	"github.com/callora/custody/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed transactions and observes
// their duration, labelled by message path and result code.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ custody.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator and registers its collectors
// with the given registerer.
func NewMetrics(reg prometheus.Registerer) (Metrics, error) {
	m := Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "custody",
			Name:      "transactions_total",
			Help:      "Number of processed transactions.",
		}, []string{"mode", "path", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "custody",
			Name:      "transaction_duration_seconds",
			Help:      "Transaction processing time.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"mode", "path"}),
	}
	for _, c := range []prometheus.Collector{m.txs, m.duration} {
		if err := reg.Register(c); err != nil {
			return Metrics{}, errors.Wrapf(errors.ErrHuman, "register metrics: %s", err)
		}
	}
	return m, nil
}

// Check records the result of the check.
func (m Metrics) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe("check", tx, start, err)
	return res, err
}

// Deliver records the result of the delivery.
func (m Metrics) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe("deliver", tx, start, err)
	return res, err
}

func (m Metrics) observe(mode string, tx custody.Tx, start time.Time, err error) {
	path := custody.GetPath(tx)
	code := errors.Code(err)
	m.txs.WithLabelValues(mode, path, codeLabel(code)).Inc()
	m.duration.WithLabelValues(mode, path).Observe(time.Since(start).Seconds())
}

func codeLabel(code uint32) string {
	if code == 0 {
		return "ok"
	}
	return strconv.FormatUint(uint64(code), 10)
}
