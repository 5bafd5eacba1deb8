package grpcapi

import (
	"fmt"
	"net"

	"google.golang.org/grpc"
)

// NewGRPCServer builds a *grpc.Server with the jams_v1.ModelServer service
// registered against svc, grounded on the pack's StartGRPCServer pattern of
// constructing the server and registering one service before Serve.
func NewGRPCServer(svc Service) *grpc.Server {
	s := grpc.NewServer()
	RegisterModelServerServer(s, NewServer(svc))
	return s
}

// Serve listens on addr and blocks serving gRPC requests until the listener
// or server stops, mirroring the teacher's net.Listen-then-Serve pattern
// for the HTTP transport's ListenAndServe equivalent.
func Serve(s *grpc.Server, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpcapi: failed to listen on %s: %w", addr, err)
	}
	if err := s.Serve(lis); err != nil {
		return fmt.Errorf("grpcapi: server stopped: %w", err)
	}
	return nil
}
