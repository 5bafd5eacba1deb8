package grpcapi

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"jamsd/internal/jamserr"
	"jamsd/pkg/types"
)

// Service defines the methods required by the gRPC API layer. Implemented
// by *jamsd/internal/service.Service; identical in shape to httpapi.Service
// so both transports decode onto the same backend (spec §6).
type Service interface {
	ListModels() types.ModelsResponse
	Predict(ctx context.Context, modelName, inputJSON string) (string, error)
	AddModel(ctx context.Context, modelName string) error
	UpdateModel(ctx context.Context, modelName string) error
	DeleteModel(ctx context.Context, modelName string) error
	Ready() bool
}

// modelServer implements ModelServerServer over a Service.
type modelServer struct {
	svc Service
}

// NewServer returns a ModelServerServer backed by svc, ready to register
// with a *grpc.Server via RegisterModelServerServer.
func NewServer(svc Service) ModelServerServer {
	return &modelServer{svc: svc}
}

func (s *modelServer) HealthCheck(ctx context.Context, _ *Empty) (*Empty, error) {
	if !s.svc.Ready() {
		return nil, status.Error(codes.Unavailable, "server is still loading models")
	}
	return &Empty{}, nil
}

func (s *modelServer) Predict(ctx context.Context, in *PredictRequest) (*PredictResponse, error) {
	if in.GetModelName() == "" {
		return nil, status.Error(codes.InvalidArgument, "model_name is required")
	}
	if in.GetInput() == "" {
		return nil, status.Error(codes.InvalidArgument, "input is required")
	}
	out, err := s.svc.Predict(ctx, in.GetModelName(), in.GetInput())
	if err != nil {
		return nil, mapError(err)
	}
	return &PredictResponse{Output: out}, nil
}

func (s *modelServer) GetModels(ctx context.Context, _ *Empty) (*GetModelsResponse, error) {
	models := s.svc.ListModels()
	out := make([]Model, len(models.Models))
	for i, m := range models.Models {
		out[i] = Model{Name: m.Name, Framework: m.Framework, Path: m.Path, LastUpdated: m.LastUpdated}
	}
	return &GetModelsResponse{Total: models.Total, Models: out}, nil
}

func (s *modelServer) AddModel(ctx context.Context, in *AddModelRequest) (*Empty, error) {
	if in.GetModelName() == "" {
		return nil, status.Error(codes.InvalidArgument, "model_name is required")
	}
	if err := s.svc.AddModel(ctx, in.GetModelName()); err != nil {
		return nil, mapError(err)
	}
	return &Empty{}, nil
}

func (s *modelServer) UpdateModel(ctx context.Context, in *UpdateModelRequest) (*Empty, error) {
	if in.GetModelName() == "" {
		return nil, status.Error(codes.InvalidArgument, "model_name is required")
	}
	if err := s.svc.UpdateModel(ctx, in.GetModelName()); err != nil {
		return nil, mapError(err)
	}
	return &Empty{}, nil
}

func (s *modelServer) DeleteModel(ctx context.Context, in *DeleteModelRequest) (*Empty, error) {
	if in.GetModelName() == "" {
		return nil, status.Error(codes.InvalidArgument, "model_name is required")
	}
	if err := s.svc.DeleteModel(ctx, in.GetModelName()); err != nil {
		return nil, mapError(err)
	}
	return &Empty{}, nil
}

// mapError turns a jamserr.Error into a gRPC status error using its
// GRPCCode, falling back to codes.Internal for anything else (spec §7).
func mapError(err error) error {
	if e, ok := err.(*jamserr.Error); ok {
		return status.Error(codes.Code(e.GRPCCode()), err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
