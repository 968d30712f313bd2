package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTracer_NilAppIsNoOp(t *testing.T) {
	tracer := NewTracer(nil)
	assert.IsType(t, NoOpTracer{}, tracer)

	ctx := context.Background()
	gotCtx, txn := tracer.StartTransaction(ctx, "fleet/render")

	assert.Equal(t, ctx, gotCtx)
	assert.NotPanics(t, func() {
		txn.AddAttribute("active", 3)
		txn.NoticeError(errors.New("boom"))
		txn.End()
	})
}

func TestNewRelicTracer_AttachesTransaction(t *testing.T) {
	// a disabled agent never connects but still hands out transactions
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("unitransport-test"),
		newrelic.ConfigLicense("0123456789012345678901234567890123456789"),
		newrelic.ConfigEnabled(false),
	)
	require.NoError(t, err)
	defer app.Shutdown(0)

	tracer := NewTracer(app)
	require.IsType(t, &NewRelicTracer{}, tracer)

	ctx, txn := tracer.StartTransaction(context.Background(), "fleet/render")
	assert.NotNil(t, newrelic.FromContext(ctx))

	assert.NotPanics(t, func() {
		txn.AddAttribute("active", 1)
		txn.NoticeError(nil)
		txn.NoticeError(errors.New("store down"))
		txn.End()
	})
}
