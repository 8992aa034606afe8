package grpcserver

import (
	"context"
	"net"
	"sync"
	"time"

	"moviecatalog/pkg/logger"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// CatalogService is the service name probes ask about. The empty name
// reports the same status.
const CatalogService = "moviecatalog.Catalog"

const (
	defaultProbeInterval = 10 * time.Second
	probeTimeout         = 2 * time.Second
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Server exposes the standard gRPC health protocol, driven by periodic
// store pings, for orchestrators that probe over gRPC.
type Server struct {
	Addr          string
	Health        HealthChecker
	ProbeInterval time.Duration
	Logger        *zap.SugaredLogger

	mu         sync.Mutex
	grpcServer *grpc.Server
	health     *health.Server
	stop       chan struct{}
}

func New(addr string, checker HealthChecker, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = logger.NOOPLogger
	}
	return &Server{
		Addr:          addr,
		Health:        checker,
		ProbeInterval: defaultProbeInterval,
		Logger:        log,
	}
}

func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

// Serve blocks until Stop is called or lis fails.
func (s *Server) Serve(lis net.Listener) error {
	s.mu.Lock()
	s.grpcServer = grpc.NewServer()
	s.health = health.NewServer()
	s.stop = make(chan struct{})
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	reflection.Register(s.grpcServer)
	srv, stop := s.grpcServer, s.stop
	s.mu.Unlock()

	s.probe()
	go s.watch(stop)

	return srv.Serve(lis)
}

func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grpcServer == nil {
		return
	}
	close(s.stop)
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
	s.grpcServer = nil
}

func (s *Server) watch(stop <-chan struct{}) {
	interval := s.ProbeInterval
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.probe()
		}
	}
}

// probe pings the store once and publishes the result.
func (s *Server) probe() {
	status := healthpb.HealthCheckResponse_SERVING
	if s.Health != nil {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		err := s.Health.Ping(ctx)
		cancel()
		if err != nil {
			s.Logger.Warnw("store ping failed", zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.health == nil {
		return
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(CatalogService, status)
}
