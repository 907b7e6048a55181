package rpcx

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "planta.sync.v1.PlantaService"

// Method names, relative to ServiceName.
const (
	MethodPing        = "Ping"
	MethodCreatePlant = "CreatePlant"
	MethodUpdatePlant = "UpdatePlant"
	MethodDeletePlant = "DeletePlant"
	MethodAddCareLog  = "AddCareLog"
	MethodCreatePost  = "CreatePost"
	MethodUpdateUser  = "UpdateUser"
	MethodToggleLike  = "ToggleLike"
)

// IdempotencyHeader is the metadata key carrying the action id.
const IdempotencyHeader = "idempotency-key"

// FullMethod returns the "/service/method" path used by grpc.Invoke.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// PlantaServiceServer is implemented by the reference remote data service.
type PlantaServiceServer interface {
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreatePlant(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdatePlant(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeletePlant(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddCareLog(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreatePost(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ToggleLike(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(srv PlantaServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PlantaServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PlantaServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc is registered with grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PlantaServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodPing, Handler: unaryHandler(MethodPing, PlantaServiceServer.Ping)},
		{MethodName: MethodCreatePlant, Handler: unaryHandler(MethodCreatePlant, PlantaServiceServer.CreatePlant)},
		{MethodName: MethodUpdatePlant, Handler: unaryHandler(MethodUpdatePlant, PlantaServiceServer.UpdatePlant)},
		{MethodName: MethodDeletePlant, Handler: unaryHandler(MethodDeletePlant, PlantaServiceServer.DeletePlant)},
		{MethodName: MethodAddCareLog, Handler: unaryHandler(MethodAddCareLog, PlantaServiceServer.AddCareLog)},
		{MethodName: MethodCreatePost, Handler: unaryHandler(MethodCreatePost, PlantaServiceServer.CreatePost)},
		{MethodName: MethodUpdateUser, Handler: unaryHandler(MethodUpdateUser, PlantaServiceServer.UpdateUser)},
		{MethodName: MethodToggleLike, Handler: unaryHandler(MethodToggleLike, PlantaServiceServer.ToggleLike)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "planta/sync/v1/service.proto",
}

// RegisterPlantaServiceServer attaches srv to s.
func RegisterPlantaServiceServer(s grpc.ServiceRegistrar, srv PlantaServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
