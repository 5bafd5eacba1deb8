package grpcapi

import (
	"context"

	"google.golang.org/grpc"
)

const (
	modelServerHealthCheckFullMethodName = "/jams_v1.ModelServer/HealthCheck"
	modelServerPredictFullMethodName     = "/jams_v1.ModelServer/Predict"
	modelServerGetModelsFullMethodName   = "/jams_v1.ModelServer/GetModels"
	modelServerAddModelFullMethodName    = "/jams_v1.ModelServer/AddModel"
	modelServerUpdateModelFullMethodName = "/jams_v1.ModelServer/UpdateModel"
	modelServerDeleteModelFullMethodName = "/jams_v1.ModelServer/DeleteModel"
)

// ModelServerServer is the server API for the jams_v1.ModelServer service.
type ModelServerServer interface {
	HealthCheck(context.Context, *Empty) (*Empty, error)
	Predict(context.Context, *PredictRequest) (*PredictResponse, error)
	GetModels(context.Context, *Empty) (*GetModelsResponse, error)
	AddModel(context.Context, *AddModelRequest) (*Empty, error)
	UpdateModel(context.Context, *UpdateModelRequest) (*Empty, error)
	DeleteModel(context.Context, *DeleteModelRequest) (*Empty, error)
}

// RegisterModelServerServer registers srv with s under the jams_v1.ModelServer
// service name, the same call signature a protoc-gen-go-grpc build would emit.
func RegisterModelServerServer(s grpc.ServiceRegistrar, srv ModelServerServer) {
	s.RegisterService(&modelServerServiceDesc, srv)
}

func modelServerHealthCheckHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ModelServerServer).HealthCheck(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: modelServerHealthCheckFullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ModelServerServer).HealthCheck(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func modelServerPredictHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(PredictRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ModelServerServer).Predict(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: modelServerPredictFullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ModelServerServer).Predict(ctx, req.(*PredictRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func modelServerGetModelsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ModelServerServer).GetModels(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: modelServerGetModelsFullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ModelServerServer).GetModels(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func modelServerAddModelHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(AddModelRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ModelServerServer).AddModel(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: modelServerAddModelFullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ModelServerServer).AddModel(ctx, req.(*AddModelRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func modelServerUpdateModelHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UpdateModelRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ModelServerServer).UpdateModel(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: modelServerUpdateModelFullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ModelServerServer).UpdateModel(ctx, req.(*UpdateModelRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func modelServerDeleteModelHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DeleteModelRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ModelServerServer).DeleteModel(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: modelServerDeleteModelFullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ModelServerServer).DeleteModel(ctx, req.(*DeleteModelRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// modelServerServiceDesc is the grpc.ServiceDesc for the jams_v1.ModelServer
// service. Hand-written in place of a protoc-gen-go-grpc run, but otherwise
// identical in shape to what that generator emits for this service.
var modelServerServiceDesc = grpc.ServiceDesc{
	ServiceName: "jams_v1.ModelServer",
	HandlerType: (*ModelServerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "HealthCheck", Handler: modelServerHealthCheckHandler},
		{MethodName: "Predict", Handler: modelServerPredictHandler},
		{MethodName: "GetModels", Handler: modelServerGetModelsHandler},
		{MethodName: "AddModel", Handler: modelServerAddModelHandler},
		{MethodName: "UpdateModel", Handler: modelServerUpdateModelHandler},
		{MethodName: "DeleteModel", Handler: modelServerDeleteModelHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jams.proto",
}
