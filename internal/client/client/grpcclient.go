package client

import (
	"context"
	"fmt"

	"github.com/pedro664/PLANTA-sub001/internal/client/models"
	"github.com/pedro664/PLANTA-sub001/internal/rpcx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// GRPCClient talks to the Planta sync service.
type GRPCClient struct {
	endpointURL string
	dialOpts    []grpc.DialOption
	conn        *grpc.ClientConn
	cc          grpc.ClientConnInterface
	uploader    ImageUploader
}

type Option func(*GRPCClient)

// WithImageUploader enables the upload-then-create sub-step for payloads that
// reference a local image.
func WithImageUploader(u ImageUploader) Option {
	return func(c *GRPCClient) { c.uploader = u }
}

// WithDialOptions appends extra dial options (custom dialer in tests, TLS...).
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *GRPCClient) { c.dialOpts = append(c.dialOpts, opts...) }
}

func NewPlantaClient(endpointURL string, opts ...Option) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	for _, o := range opts {
		o(c)
	}

	dialOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, c.dialOpts...)
	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("grpc client: %w", err)
	}
	c.conn = conn
	c.cc = conn
	return c, nil
}

func (c *GRPCClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func withIdempotencyKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	md.Set(rpcx.IdempotencyHeader, key)
	return metadata.NewOutgoingContext(ctx, md)
}

// call encodes in, invokes method and decodes the reply into out (if non-nil).
func (c *GRPCClient) call(ctx context.Context, method, key string, in, out any) error {
	req, err := rpcx.Encode(in)
	if err != nil {
		return err
	}

	resp, err := invoke(ctx, c.cc, method, key, req)
	if err != nil {
		return mapError(err)
	}

	if out == nil {
		return nil
	}
	if err := rpcx.Decode(resp, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

func invoke(ctx context.Context, cc grpc.ClientConnInterface, method, key string, req *structpb.Struct) (*structpb.Struct, error) {
	resp := new(structpb.Struct)
	if err := cc.Invoke(withIdempotencyKey(ctx, key), rpcx.FullMethod(method), req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.call(ctx, rpcx.MethodPing, "", map[string]any{}, &resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

// uploadImage runs the upload sub-step when a local path is set and no URL
// has been obtained yet. The object is named after the idempotency key so a
// retried action overwrites rather than duplicates it.
func (c *GRPCClient) uploadImage(ctx context.Context, key, localPath, currentURL string) (string, error) {
	if c.uploader == nil || localPath == "" || currentURL != "" {
		return currentURL, nil
	}
	url, err := c.uploader.Upload(ctx, key, localPath)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return url, nil
}

func (c *GRPCClient) CreatePlant(ctx context.Context, key string, p models.Plant) (*models.Plant, error) {
	url, err := c.uploadImage(ctx, key, p.ImagePath, p.ImageURL)
	if err != nil {
		return nil, err
	}
	p.ImageURL = url

	var out models.Plant
	if err := c.call(ctx, rpcx.MethodCreatePlant, key, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *GRPCClient) UpdatePlant(ctx context.Context, key string, p models.Plant) (*models.Plant, error) {
	url, err := c.uploadImage(ctx, key, p.ImagePath, p.ImageURL)
	if err != nil {
		return nil, err
	}
	p.ImageURL = url

	var out models.Plant
	if err := c.call(ctx, rpcx.MethodUpdatePlant, key, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *GRPCClient) DeletePlant(ctx context.Context, key string, id string) error {
	return c.call(ctx, rpcx.MethodDeletePlant, key, models.PlantRef{ID: id}, nil)
}

func (c *GRPCClient) AddCareLog(ctx context.Context, key string, l models.CareLog) (*models.CareLog, error) {
	url, err := c.uploadImage(ctx, key, l.ImagePath, l.ImageURL)
	if err != nil {
		return nil, err
	}
	l.ImageURL = url

	var out models.CareLog
	if err := c.call(ctx, rpcx.MethodAddCareLog, key, l, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *GRPCClient) CreatePost(ctx context.Context, key string, p models.Post) (*models.Post, error) {
	url, err := c.uploadImage(ctx, key, p.ImagePath, p.ImageURL)
	if err != nil {
		return nil, err
	}
	p.ImageURL = url

	var out models.Post
	if err := c.call(ctx, rpcx.MethodCreatePost, key, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *GRPCClient) UpdateUser(ctx context.Context, key string, u models.UserProfile) (*models.UserProfile, error) {
	url, err := c.uploadImage(ctx, key, u.AvatarPath, u.AvatarURL)
	if err != nil {
		return nil, err
	}
	u.AvatarURL = url

	var out models.UserProfile
	if err := c.call(ctx, rpcx.MethodUpdateUser, key, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *GRPCClient) ToggleLike(ctx context.Context, key string, l models.Like) (*models.LikeResult, error) {
	var out models.LikeResult
	if err := c.call(ctx, rpcx.MethodToggleLike, key, l, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.InvalidArgument, codes.FailedPrecondition, codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
