// Package grpc serves the Planta remote data API over gRPC.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/pedro664/PLANTA-sub001/internal/logging"
	"github.com/pedro664/PLANTA-sub001/internal/metrics"
	"github.com/pedro664/PLANTA-sub001/internal/rpcx"
	"github.com/pedro664/PLANTA-sub001/internal/server/models"
)

// Records is the mutation surface the handlers call.
type Records interface {
	CreatePlant(ctx context.Context, key string, p models.Plant) (*models.Plant, error)
	UpdatePlant(ctx context.Context, key string, p models.Plant) (*models.Plant, error)
	DeletePlant(ctx context.Context, key, id string) error
	AddCareLog(ctx context.Context, key string, l models.CareLog) (*models.CareLog, error)
	CreatePost(ctx context.Context, key string, p models.Post) (*models.Post, error)
	UpdateUser(ctx context.Context, key string, u models.User) (*models.User, error)
	ToggleLike(ctx context.Context, key, postID, userID string) (*models.Like, error)
}

type GRPCServer struct {
	address string
	records Records
	logger  logging.Logger
	metrics *metrics.ServerMetrics
}

// NewGRPCServer builds the server; m may be nil.
func NewGRPCServer(a string, l logging.Logger, rs Records, m *metrics.ServerMetrics) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		records: rs,
		metrics: m,
	}
}

// NewServer returns a grpc.Server with the interceptors and service registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	chain := []grpc.UnaryServerInterceptor{s.loggingInterceptor, s.idempotencyInterceptor}
	if s.metrics != nil {
		chain = append([]grpc.UnaryServerInterceptor{s.metrics.UnaryServerInterceptor()}, chain...)
	}
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(chain...))
	rpcx.RegisterPlantaServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve blocks on lis until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
