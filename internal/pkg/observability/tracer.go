package observability

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Tracer opens APM transactions for work that does not come from an HTTP
// request, such as fleet render passes
type Tracer interface {
	StartTransaction(ctx context.Context, name string) (context.Context, Transaction)
}

// Transaction is one traced unit of background work
type Transaction interface {
	AddAttribute(key string, value interface{})
	NoticeError(err error)
	End()
}

// NewTracer returns a New Relic tracer, or a no-op one when nrApp is nil
func NewTracer(nrApp *newrelic.Application) Tracer {
	if nrApp == nil {
		return NoOpTracer{}
	}
	return &NewRelicTracer{app: nrApp}
}

// NoOpTracer discards everything
type NoOpTracer struct{}

// StartTransaction returns ctx unchanged and a transaction that does nothing
func (NoOpTracer) StartTransaction(ctx context.Context, name string) (context.Context, Transaction) {
	return ctx, noOpTransaction{}
}

type noOpTransaction struct{}

func (noOpTransaction) AddAttribute(string, interface{}) {}
func (noOpTransaction) NoticeError(error)                {}
func (noOpTransaction) End()                             {}

// NewRelicTracer records background transactions in New Relic
type NewRelicTracer struct {
	app *newrelic.Application
}

// StartTransaction starts a background transaction and attaches it to ctx
func (t *NewRelicTracer) StartTransaction(ctx context.Context, name string) (context.Context, Transaction) {
	txn := t.app.StartTransaction(name)
	return newrelic.NewContext(ctx, txn), &newRelicTransaction{txn: txn}
}

type newRelicTransaction struct {
	txn *newrelic.Transaction
}

func (t *newRelicTransaction) AddAttribute(key string, value interface{}) {
	t.txn.AddAttribute(key, value)
}

func (t *newRelicTransaction) NoticeError(err error) {
	if err != nil {
		t.txn.NoticeError(err)
	}
}

func (t *newRelicTransaction) End() {
	t.txn.End()
}
