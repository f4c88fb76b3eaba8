// SPDX-License-Identifier: AGPL-3.0-or-later
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters and gauges the engine updates as it processes
// radio traffic. They are registered against the default registry so
// promhttp.Handler picks them up without any wiring beyond NewMetrics.
type Metrics struct {
	TelegramsReceivedTotal *prometheus.CounterVec
	TelegramsSentTotal     *prometheus.CounterVec
	TelegramDecodeErrors   prometheus.Counter
	CommandRoundtrip       prometheus.Histogram
	KnownDevicesTotal      prometheus.Gauge
	LearnModeActive        prometheus.Gauge
}

func NewMetrics() *Metrics {
	metrics := &Metrics{
		TelegramsReceivedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "telegrams_received_total",
			Help: "The total number of radio telegrams received from the modem, by RORG",
		}, []string{"rorg"}),
		TelegramsSentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "telegrams_sent_total",
			Help: "The total number of radio telegrams sent to the modem, by RORG",
		}, []string{"rorg"}),
		TelegramDecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "telegram_decode_errors_total",
			Help: "The total number of received frames rejected for a CRC error or an invalid radio telegram layout",
		}),
		CommandRoundtrip: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "modem_command_roundtrip_seconds",
			Help:    "Time from sending a common command to the modem to receiving its response",
			Buckets: prometheus.DefBuckets,
		}),
		KnownDevicesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "known_devices_total",
			Help: "The current number of devices present in the registry",
		}),
		LearnModeActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "learn_mode_active",
			Help: "1 while the teach-in window is open, 0 otherwise",
		}),
	}
	metrics.register()
	return metrics
}

func (m *Metrics) register() {
	prometheus.MustRegister(m.TelegramsReceivedTotal)
	prometheus.MustRegister(m.TelegramsSentTotal)
	prometheus.MustRegister(m.TelegramDecodeErrors)
	prometheus.MustRegister(m.CommandRoundtrip)
	prometheus.MustRegister(m.KnownDevicesTotal)
	prometheus.MustRegister(m.LearnModeActive)
}

// RecordReceived records one inbound telegram of the given RORG.
func (m *Metrics) RecordReceived(rorg string) {
	m.TelegramsReceivedTotal.WithLabelValues(rorg).Inc()
}

// RecordSent records one outbound telegram of the given RORG.
func (m *Metrics) RecordSent(rorg string) {
	m.TelegramsSentTotal.WithLabelValues(rorg).Inc()
}

// RecordDecodeError records one received frame rejected for a CRC error or
// an invalid radio telegram layout.
func (m *Metrics) RecordDecodeError() {
	m.TelegramDecodeErrors.Inc()
}

// RecordCommandRoundtrip records the latency of one common-command exchange.
func (m *Metrics) RecordCommandRoundtrip(seconds float64) {
	m.CommandRoundtrip.Observe(seconds)
}

// SetKnownDevicesTotal reports the current registry size.
func (m *Metrics) SetKnownDevicesTotal(count float64) {
	m.KnownDevicesTotal.Set(count)
}

// SetLearnModeActive reports whether the teach-in window is currently open.
func (m *Metrics) SetLearnModeActive(active bool) {
	if active {
		m.LearnModeActive.Set(1)
		return
	}
	m.LearnModeActive.Set(0)
}
