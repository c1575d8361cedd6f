package handlerwrapper

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/Black-And-White-Club/league-bot/app/events"
	"github.com/Black-And-White-Club/league-bot/app/shared/domainerr"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestWrapTyped(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	ctx := attr.WithCorrelationID(context.Background(), "corr-9")
	msg, err := events.NewMessage(ctx, events.ClubCreatedV1, "g1", events.ClubCreatedPayloadV1{ClubID: 2, Name: "Reds"})
	require.NoError(t, err)

	tests := []struct {
		name      string
		msg       *message.Message
		handleErr error
		wantErr   bool
		wantLog   string
	}{
		{name: "success", msg: msg},
		{name: "domain failure is acked", msg: msg, handleErr: domainerr.ErrNotFound, wantLog: "Handler finished with failure"},
		{name: "sync failure is acked", msg: msg, handleErr: domainerr.ErrExternalSync, wantLog: "Handler finished with failure"},
		{name: "infrastructure error nacks", msg: msg, handleErr: errors.New("db down"), wantErr: true},
		{name: "bad payload is dropped", msg: message.NewMessage("bad", []byte("{")), wantLog: "Dropping undecodable message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			var got *events.ClubCreatedPayloadV1
			var gotCorrelation string
			h := WrapTyped("test.handler", slog.New(slog.NewTextHandler(&buf, nil)), tracer,
				func(ctx context.Context, p *events.ClubCreatedPayloadV1) error {
					got = p
					gotCorrelation = attr.CorrelationID(ctx)
					return tt.handleErr
				})

			err := h(tt.msg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantLog != "" {
				assert.Contains(t, buf.String(), tt.wantLog)
			}
			if tt.msg == msg {
				require.NotNil(t, got)
				assert.Equal(t, "Reds", got.Name)
				assert.Equal(t, "corr-9", gotCorrelation)
			}
		})
	}
}
