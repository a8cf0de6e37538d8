package grpc

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
)

// ServiceName is the health-check service name reported for the project API
const ServiceName = "prayog.ProjectService"

// Pinger reports whether a dependency is reachable
type Pinger func(ctx context.Context) error

// HealthServer serves grpc.health.v1.Health, reflecting storage reachability
type HealthServer struct {
	server *grpc.Server
	health *health.Server
	ping   Pinger
	logger *slog.Logger
}

// NewHealthServer creates a gRPC server exposing only the standard health service
func NewHealthServer(ping Pinger, logger *slog.Logger) *HealthServer {
	server := grpc.NewServer(
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    30 * time.Second,
			Timeout: 10 * time.Second,
		}),
	)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(server, healthServer)

	return &HealthServer{
		server: server,
		health: healthServer,
		ping:   ping,
		logger: logger,
	}
}

// Serve blocks serving on lis until Stop is called
func (h *HealthServer) Serve(lis net.Listener) error {
	return h.server.Serve(lis)
}

// Check pings the dependency once and publishes the result
func (h *HealthServer) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := h.ping(ctx); err != nil {
		h.logger.Warn("⚠️ [Health] Storage ping failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
	return status
}

// Watch re-checks every interval until ctx is done
func (h *HealthServer) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, interval)
			h.Check(checkCtx)
			cancel()
		}
	}
}

// Stop marks every service NOT_SERVING and drains in-flight calls
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
