// Package receiver implements the OTLP ingest surface for editor
// AI-assist plugins: gRPC and HTTP endpoints that convert OTLP metrics
// and log exports into collector session telemetry.
package receiver

import (
	"context"
	"log"

	"github.com/roitop/roitop/internal/collector"
	"github.com/roitop/roitop/internal/config"
)

// Receiver runs the gRPC and HTTP OTLP endpoints as one unit.
type Receiver struct {
	grpc *GRPCReceiver
	http *HTTPReceiver
}

// Option customizes a Receiver.
type Option func(*options)

type options struct {
	logger Logger
}

// WithLogger enables structured debug logging of every received metric
// and event.
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates a combined receiver feeding the given store.
func New(cfg config.ReceiverConfig, store collector.Store, opts ...Option) *Receiver {
	o := options{logger: NopLogger{}}
	for _, opt := range opts {
		opt(&o)
	}

	return &Receiver{
		grpc: NewGRPCReceiver(cfg, store, o.logger),
		http: NewHTTPReceiver(cfg, store, o.logger),
	}
}

// Start brings up both endpoints. If either fails to bind, anything
// already started is stopped and the error returned.
func (r *Receiver) Start(ctx context.Context) error {
	if err := r.grpc.Start(ctx); err != nil {
		return err
	}
	if err := r.http.Start(ctx); err != nil {
		r.grpc.Stop()
		return err
	}

	log.Printf("receiver listening: grpc=%s http=%s", r.grpc.Addr(), r.http.Addr())
	return nil
}

// Stop shuts both endpoints down.
func (r *Receiver) Stop() {
	r.grpc.Stop()
	r.http.Stop()
}
