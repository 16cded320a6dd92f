package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/entity"
	"github.com/wekeepgrowing/charge-orchestrator/internal/domain/provider"
	pkgerrors "github.com/wekeepgrowing/charge-orchestrator/pkg/errors"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// ProcessorCollectors are the metrics recorded around processor calls.
type ProcessorCollectors struct {
	latency  *prometheus.SummaryVec
	requests *prometheus.CounterVec
	inFlight prometheus.Gauge
	amount   *prometheus.CounterVec
}

// NewProcessorCollectors creates the collectors and registers them on reg.
func NewProcessorCollectors(reg prometheus.Registerer, namespace, instanceID string) *ProcessorCollectors {
	constLabels := prometheus.Labels{"instance_id": instanceID}

	c := &ProcessorCollectors{
		latency: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Namespace:   namespace,
			Subsystem:   "processor",
			Name:        "request_duration_ms",
			Help:        "Latency of card processor calls in milliseconds.",
			ConstLabels: constLabels,
			Objectives: map[float64]float64{
				0.5:  0.01,
				0.9:  0.01,
				0.99: 0.005,
			},
		}, []string{"provider", "operation"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "processor",
			Name:        "requests_total",
			Help:        "Card processor calls by operation, outcome and error code.",
			ConstLabels: constLabels,
		}, []string{"provider", "operation", "outcome", "code"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "processor",
			Name:        "in_flight_requests",
			Help:        "Card processor calls currently waiting for a response.",
			ConstLabels: constLabels,
		}),
		amount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "processor",
			Name:        "charged_minor_units_total",
			Help:        "Sum of successfully charged amounts in minor units.",
			ConstLabels: constLabels,
		}, []string{"currency"}),
	}

	reg.MustRegister(c.latency, c.requests, c.inFlight, c.amount)
	return c
}

// InstrumentedProcessor records metrics for every call to the wrapped client.
type InstrumentedProcessor struct {
	next       provider.ProcessorClient
	collectors *ProcessorCollectors
}

func NewInstrumentedProcessor(next provider.ProcessorClient, collectors *ProcessorCollectors) *InstrumentedProcessor {
	return &InstrumentedProcessor{
		next:       next,
		collectors: collectors,
	}
}

func (p *InstrumentedProcessor) GetProviderName() string {
	return p.next.GetProviderName()
}

func (p *InstrumentedProcessor) CreateCharge(ctx context.Context, req *entity.ChargeRequest) (*entity.ChargeResponse, error) {
	done := p.observe("create_charge")
	resp, err := p.next.CreateCharge(ctx, req)
	done(err)
	if err == nil && resp != nil {
		p.collectors.amount.WithLabelValues(req.Currency).Add(float64(resp.Amount))
	}
	return resp, err
}

func (p *InstrumentedProcessor) CaptureCharge(ctx context.Context, req *entity.CaptureRequest) (*entity.ChargeResponse, error) {
	done := p.observe("capture_charge")
	resp, err := p.next.CaptureCharge(ctx, req)
	done(err)
	return resp, err
}

func (p *InstrumentedProcessor) CreateCustomer(ctx context.Context, req *provider.CreateCustomerRequest) (string, error) {
	done := p.observe("create_customer")
	id, err := p.next.CreateCustomer(ctx, req)
	done(err)
	return id, err
}

func (p *InstrumentedProcessor) AttachCard(ctx context.Context, customerID, token string) (*entity.PaymentMethodSummary, error) {
	done := p.observe("attach_card")
	card, err := p.next.AttachCard(ctx, customerID, token)
	done(err)
	return card, err
}

func (p *InstrumentedProcessor) DetachCard(ctx context.Context, customerID, paymentMethodID string) error {
	done := p.observe("detach_card")
	err := p.next.DetachCard(ctx, customerID, paymentMethodID)
	done(err)
	return err
}

func (p *InstrumentedProcessor) observe(operation string) func(error) {
	start := time.Now()
	p.collectors.inFlight.Inc()
	name := p.next.GetProviderName()

	return func(err error) {
		p.collectors.inFlight.Dec()
		p.collectors.latency.WithLabelValues(name, operation).
			Observe(float64(time.Since(start).Milliseconds()))

		outcome, code := outcomeSuccess, ""
		if err != nil {
			outcome, code = outcomeError, pkgerrors.CodeOf(err)
		}
		p.collectors.requests.WithLabelValues(name, operation, outcome, code).Inc()
	}
}
