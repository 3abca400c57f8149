package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
)

func TestClassifyNATSError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantRetryable bool
		wantRecord    bool
	}{
		{name: "context canceled", err: context.Canceled, wantRetryable: false, wantRecord: false},
		{name: "no servers", err: nats.ErrNoServers, wantRetryable: true, wantRecord: true},
		{name: "timeout", err: nats.ErrTimeout, wantRetryable: true, wantRecord: true},
		{name: "connection closed", err: nats.ErrConnectionClosed, wantRetryable: true, wantRecord: true},
		{name: "unknown", err: errors.New("boom"), wantRetryable: false, wantRecord: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			class := classifyNATSError(tc.err)
			if class.Retryable != tc.wantRetryable {
				t.Fatalf("Retryable = %v, want %v", class.Retryable, tc.wantRetryable)
			}
			if class.RecordFailure != tc.wantRecord {
				t.Fatalf("RecordFailure = %v, want %v", class.RecordFailure, tc.wantRecord)
			}
		})
	}
}

func TestWrapTemporaryMarksRetryableErrors(t *testing.T) {
	wrapped := wrapTemporaryIfNeeded(nats.ErrDisconnected)
	if !domain.IsKind(wrapped, domain.ErrTemporary) {
		t.Fatalf("expected temporary kind, got %v", wrapped)
	}

	hard := wrapTemporaryIfNeeded(errors.New("bad subject"))
	if domain.IsKind(hard, domain.ErrTemporary) {
		t.Fatalf("expected hard error to stay untyped, got %v", hard)
	}

	if wrapTemporaryIfNeeded(nil) != nil {
		t.Fatalf("expected nil passthrough")
	}
}
