package receiver

import (
	"context"
	"fmt"
	"net"

	"github.com/roitop/roitop/internal/collector"
	"github.com/roitop/roitop/internal/config"

	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	colmetricspb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	"google.golang.org/grpc"
)

// GRPCReceiver accepts OTLP metrics exports from editor plugins over
// gRPC. Log exports are served by a companion service registered on the
// same server.
type GRPCReceiver struct {
	colmetricspb.UnimplementedMetricsServiceServer

	cfg    config.ReceiverConfig
	store  collector.Store
	logger Logger

	listener net.Listener
	server   *grpc.Server
}

// NewGRPCReceiver creates a gRPC receiver feeding the given store.
// A nil logger disables debug logging.
func NewGRPCReceiver(cfg config.ReceiverConfig, store collector.Store, logger Logger) *GRPCReceiver {
	if logger == nil {
		logger = NopLogger{}
	}
	return &GRPCReceiver{
		cfg:    cfg,
		store:  store,
		logger: logger,
	}
}

// Start binds the configured port and begins serving. It returns
// immediately after the listener is established; serving continues in a
// background goroutine until Stop.
func (r *GRPCReceiver) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", r.cfg.Bind, r.cfg.GRPCPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d already in use", r.cfg.GRPCPort)
	}
	r.listener = lis

	r.server = grpc.NewServer()
	colmetricspb.RegisterMetricsServiceServer(r.server, r)
	collogspb.RegisterLogsServiceServer(r.server, &grpcLogsService{receiver: r})

	go func() {
		_ = r.server.Serve(lis)
	}()

	return nil
}

// Stop shuts the server down, draining in-flight RPCs.
func (r *GRPCReceiver) Stop() {
	if r.server != nil {
		r.server.GracefulStop()
	}
}

// Addr returns the bound listener address, useful when the configured
// port was 0.
func (r *GRPCReceiver) Addr() net.Addr {
	if r.listener == nil {
		return nil
	}
	return r.listener.Addr()
}

// Export implements the OTLP metrics service.
func (r *GRPCReceiver) Export(ctx context.Context, req *colmetricspb.ExportMetricsServiceRequest) (*colmetricspb.ExportMetricsServiceResponse, error) {
	processResourceMetrics(r.store, r.logger, req.GetResourceMetrics())
	return &colmetricspb.ExportMetricsServiceResponse{}, nil
}

// grpcLogsService adapts the logs service onto the same receiver. It is
// a separate type because both OTLP services name their RPC Export.
type grpcLogsService struct {
	collogspb.UnimplementedLogsServiceServer

	receiver *GRPCReceiver
}

func (s *grpcLogsService) Export(ctx context.Context, req *collogspb.ExportLogsServiceRequest) (*collogspb.ExportLogsServiceResponse, error) {
	processResourceLogs(s.receiver.store, s.receiver.logger, req.GetResourceLogs())
	return &collogspb.ExportLogsServiceResponse{}, nil
}
