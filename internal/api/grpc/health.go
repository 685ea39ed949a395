package grpc

import (
	"context"
	"time"

	"petonrent-backend/internal/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health-check service name reported for the checkout API
const ServiceName = "petonrent.checkout"

// Pinger is anything whose reachability decides the serving status
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthMonitor publishes the database reachability through the standard gRPC
// health service so load balancers can health-check the side port.
type HealthMonitor struct {
	server   *health.Server
	pinger   Pinger
	interval time.Duration
}

func NewHealthMonitor(pinger Pinger, interval time.Duration) *HealthMonitor {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &HealthMonitor{
		server:   health.NewServer(),
		pinger:   pinger,
		interval: interval,
	}
}

// NewServer builds the side-port gRPC server with health and reflection registered
func (m *HealthMonitor) NewServer() *grpc.Server {
	s := grpc.NewServer()
	healthpb.RegisterHealthServer(s, m.server)
	// Register reflection service for grpcurl
	reflection.Register(s)
	return s
}

// Check pings once and updates the serving status
func (m *HealthMonitor) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := m.pinger.Ping(ctx); err != nil {
		logger.Warn("Health check failed", "service", ServiceName, "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	m.server.SetServingStatus("", status)
	m.server.SetServingStatus(ServiceName, status)
	return status
}

// Run checks on every interval until ctx is done, then marks everything not serving
func (m *HealthMonitor) Run(ctx context.Context) {
	m.Check(ctx)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.server.Shutdown()
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// HealthServer exposes the underlying health service
func (m *HealthMonitor) HealthServer() healthpb.HealthServer {
	return m.server
}
