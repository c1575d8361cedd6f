package operation

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/Black-And-White-Club/league-bot/app/shared/domainerr"
	"github.com/Black-And-White-Club/league-bot/app/shared/results"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestRunner(buf *bytes.Buffer) *Runner {
	logger := slog.New(slog.NewTextHandler(buf, nil))
	return NewRunner("TestService", logger, nil, noop.NewTracerProvider().Tracer("test"), nil)
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name    string
		fn      TxFunc[int, error]
		want    int
		wantErr error
		wantLog string
	}{
		{
			name:    "success",
			fn:      func(ctx context.Context, db bun.IDB) (results.OperationResult[int, error], error) { return Succeed(7) },
			want:    7,
			wantLog: "Operation completed successfully",
		},
		{
			name: "domain failure",
			fn: func(ctx context.Context, db bun.IDB) (results.OperationResult[int, error], error) {
				return Fail[int](domainerr.New(domainerr.ErrConflict, "duplicate"))
			},
			wantErr: domainerr.ErrConflict,
			wantLog: "Operation returned failure result",
		},
		{
			name: "infrastructure error",
			fn: func(ctx context.Context, db bun.IDB) (results.OperationResult[int, error], error) {
				return Abort[int](domainerr.Storage("insert", errors.New("disk full")))
			},
			wantErr: domainerr.ErrStorage,
			wantLog: "Operation failed with error",
		},
		{
			name: "panic is recovered",
			fn: func(ctx context.Context, db bun.IDB) (results.OperationResult[int, error], error) {
				panic("kaboom")
			},
			wantLog: "Critical panic recovered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := newTestRunner(&buf)

			got, err := Execute(r, context.Background(), "Op", "id-1", tt.fn)

			switch {
			case tt.name == "panic is recovered":
				assert.ErrorContains(t, err, "panic in Op")
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.Contains(t, buf.String(), tt.wantLog)
		})
	}
}
