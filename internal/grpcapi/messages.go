// Package grpcapi is the gRPC counterpart to internal/httpapi (spec §6.2):
// the same internal/service.Service operations, reachable over
// google.golang.org/grpc instead of chi. There is no protoc toolchain
// available in this build, so the wire messages below are plain Go structs
// carried over grpc's codec interface with JSON encoding (see codec.go)
// rather than protobuf-generated marshaling; the service name, method
// names, and ServiceDesc shape follow the jams_v1.ModelServer definition
// a protoc-gen-go-grpc run would produce.
package grpcapi

// Empty mirrors emptypb.Empty for the request/response shapes that carry
// no payload (HealthCheck, GetModels request, and the write RPCs' response).
type Empty struct{}

// PredictRequest is the Predict RPC's request message.
type PredictRequest struct {
	ModelName string `json:"model_name"`
	Input     string `json:"input"`
}

func (m *PredictRequest) GetModelName() string {
	if m == nil {
		return ""
	}
	return m.ModelName
}

func (m *PredictRequest) GetInput() string {
	if m == nil {
		return ""
	}
	return m.Input
}

// PredictResponse is the Predict RPC's response message.
type PredictResponse struct {
	Output string `json:"output"`
}

// Model is one entry of GetModelsResponse.
type Model struct {
	Name        string `json:"name"`
	Framework   string `json:"framework"`
	Path        string `json:"path"`
	LastUpdated string `json:"last_updated"`
}

// GetModelsResponse is the GetModels RPC's response message.
type GetModelsResponse struct {
	Total  int     `json:"total"`
	Models []Model `json:"models"`
}

// AddModelRequest is the AddModel RPC's request message.
type AddModelRequest struct {
	ModelName string `json:"model_name"`
}

func (m *AddModelRequest) GetModelName() string {
	if m == nil {
		return ""
	}
	return m.ModelName
}

// UpdateModelRequest is the UpdateModel RPC's request message.
type UpdateModelRequest struct {
	ModelName string `json:"model_name"`
}

func (m *UpdateModelRequest) GetModelName() string {
	if m == nil {
		return ""
	}
	return m.ModelName
}

// DeleteModelRequest is the DeleteModel RPC's request message.
type DeleteModelRequest struct {
	ModelName string `json:"model_name"`
}

func (m *DeleteModelRequest) GetModelName() string {
	if m == nil {
		return ""
	}
	return m.ModelName
}
