package handler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ERPServiceName is the health check service reported for ERP reachability.
const ERPServiceName = "storefront.erp"

type pinger interface {
	Ping(ctx context.Context) error
}

// GRPCHealth publishes the standard gRPC health service. The overall
// status follows the process; ERPServiceName follows the last ERP ping.
type GRPCHealth struct {
	server  *health.Server
	erp     pinger
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	serving bool
}

func NewGRPCHealth(erp pinger, timeout time.Duration, logger *zap.Logger) *GRPCHealth {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	h := &GRPCHealth{
		server:  health.NewServer(),
		erp:     erp,
		logger:  logger,
		timeout: timeout,
	}
	h.server.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.server.SetServingStatus(ERPServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

func (h *GRPCHealth) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// Check pings the ERP once and updates its serving status.
func (h *GRPCHealth) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	err := h.erp.Ping(ctx)
	serving := err == nil

	h.mu.Lock()
	changed := serving != h.serving
	h.serving = serving
	h.mu.Unlock()

	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.server.SetServingStatus(ERPServiceName, status)

	if changed {
		if serving {
			h.logger.Info("erp reachable")
		} else {
			h.logger.Warn("erp unreachable", zap.Error(err))
		}
	}
	return serving
}

// Run checks the ERP every interval until ctx is done.
func (h *GRPCHealth) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	h.Check(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

// Shutdown marks every service NOT_SERVING.
func (h *GRPCHealth) Shutdown() {
	h.server.Shutdown()
}
