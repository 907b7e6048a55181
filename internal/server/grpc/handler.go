package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/pedro664/PLANTA-sub001/internal/rpcx"
	"github.com/pedro664/PLANTA-sub001/internal/server/models"
	"github.com/pedro664/PLANTA-sub001/internal/server/records"
)

// toStatus maps record errors to the codes the client sorts into
// retryable and rejected.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, records.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, records.ErrPrecondition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, records.ErrInvalid), errors.Is(err, records.ErrKeyReuse):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, records.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func decode(in *structpb.Struct, v any) error {
	if err := rpcx.Decode(in, v); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

func reply(v any, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := rpcx.Encode(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return reply(map[string]string{"status": "OK"}, nil)
}

func (s *GRPCServer) CreatePlant(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var p models.Plant
	if err := decode(in, &p); err != nil {
		return nil, err
	}
	return reply(s.records.CreatePlant(ctx, idempotencyKey(ctx), p))
}

func (s *GRPCServer) UpdatePlant(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var p models.Plant
	if err := decode(in, &p); err != nil {
		return nil, err
	}
	return reply(s.records.UpdatePlant(ctx, idempotencyKey(ctx), p))
}

func (s *GRPCServer) DeletePlant(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var ref struct {
		ID string `json:"id"`
	}
	if err := decode(in, &ref); err != nil {
		return nil, err
	}
	err := s.records.DeletePlant(ctx, idempotencyKey(ctx), ref.ID)
	return reply(map[string]string{"id": ref.ID}, err)
}

func (s *GRPCServer) AddCareLog(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var l models.CareLog
	if err := decode(in, &l); err != nil {
		return nil, err
	}
	return reply(s.records.AddCareLog(ctx, idempotencyKey(ctx), l))
}

func (s *GRPCServer) CreatePost(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var p models.Post
	if err := decode(in, &p); err != nil {
		return nil, err
	}
	return reply(s.records.CreatePost(ctx, idempotencyKey(ctx), p))
}

func (s *GRPCServer) UpdateUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var u models.User
	if err := decode(in, &u); err != nil {
		return nil, err
	}
	return reply(s.records.UpdateUser(ctx, idempotencyKey(ctx), u))
}

func (s *GRPCServer) ToggleLike(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var l models.Like
	if err := decode(in, &l); err != nil {
		return nil, err
	}
	return reply(s.records.ToggleLike(ctx, idempotencyKey(ctx), l.PostID, l.UserID))
}
