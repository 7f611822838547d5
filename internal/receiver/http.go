package receiver

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/roitop/roitop/internal/collector"
	"github.com/roitop/roitop/internal/config"

	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	colmetricspb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

const maxRequestBody = 10 << 20 // 10MB

// HTTPReceiver accepts OTLP/HTTP exports on /v1/metrics and /v1/logs,
// in both protobuf and JSON encodings.
type HTTPReceiver struct {
	cfg    config.ReceiverConfig
	store  collector.Store
	logger Logger

	listener net.Listener
	server   *http.Server
}

// NewHTTPReceiver creates an HTTP receiver feeding the given store.
// A nil logger disables debug logging.
func NewHTTPReceiver(cfg config.ReceiverConfig, store collector.Store, logger Logger) *HTTPReceiver {
	if logger == nil {
		logger = NopLogger{}
	}
	return &HTTPReceiver{
		cfg:    cfg,
		store:  store,
		logger: logger,
	}
}

// Start binds the configured port and begins serving in the background.
func (r *HTTPReceiver) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", r.cfg.Bind, r.cfg.HTTPPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d already in use", r.cfg.HTTPPort)
	}
	r.listener = lis

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/metrics", r.handleMetrics)
	mux.HandleFunc("/v1/logs", r.handleLogs)
	r.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		_ = r.server.Serve(lis)
	}()

	return nil
}

// Stop shuts the server down with a short drain window.
func (r *HTTPReceiver) Stop() {
	if r.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = r.server.Shutdown(ctx)
}

// Addr returns the bound listener address.
func (r *HTTPReceiver) Addr() net.Addr {
	if r.listener == nil {
		return nil
	}
	return r.listener.Addr()
}

func (r *HTTPReceiver) handleMetrics(w http.ResponseWriter, req *http.Request) {
	body, ok := readBody(w, req)
	if !ok {
		return
	}

	var exportReq colmetricspb.ExportMetricsServiceRequest
	if !decodeBody(w, req, body, &exportReq) {
		return
	}

	processResourceMetrics(r.store, r.logger, exportReq.GetResourceMetrics())
	writeExportResponse(w, req, &colmetricspb.ExportMetricsServiceResponse{})
}

func (r *HTTPReceiver) handleLogs(w http.ResponseWriter, req *http.Request) {
	body, ok := readBody(w, req)
	if !ok {
		return
	}

	var exportReq collogspb.ExportLogsServiceRequest
	if !decodeBody(w, req, body, &exportReq) {
		return
	}

	processResourceLogs(r.store, r.logger, exportReq.GetResourceLogs())
	writeExportResponse(w, req, &collogspb.ExportLogsServiceResponse{})
}

func readBody(w http.ResponseWriter, req *http.Request) ([]byte, bool) {
	if req.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	body, err := io.ReadAll(io.LimitReader(req.Body, maxRequestBody))
	if err != nil {
		http.Error(w, "reading request body", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

// decodeBody unmarshals the payload according to the Content-Type
// header. Unknown content types are treated as protobuf, matching
// collector behavior for clients that omit the header.
func decodeBody(w http.ResponseWriter, req *http.Request, body []byte, msg proto.Message) bool {
	contentType := req.Header.Get("Content-Type")

	var err error
	if strings.HasPrefix(contentType, "application/json") {
		err = protojson.Unmarshal(body, msg)
	} else {
		err = proto.Unmarshal(body, msg)
	}
	if err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return false
	}
	return true
}

func writeExportResponse(w http.ResponseWriter, req *http.Request, msg proto.Message) {
	if strings.HasPrefix(req.Header.Get("Content-Type"), "application/json") {
		data, err := protojson.Marshal(msg)
		if err != nil {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
		return
	}

	data, err := proto.Marshal(msg)
	if err != nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.Header().Set("Content-Type", "application/x-protobuf")
	_, _ = w.Write(data)
}
