package grpcauth

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"amulet.dev/core/capability"
	"amulet.dev/core/cidutil"
	"amulet.dev/core/frame"
)

// ErrNotFound is returned by Inspect when the daemon holds no record
// for the CID.
var ErrNotFound = errors.New("record not found")

// Client calls a Validator gRPC service.
type Client struct {
	cc     *grpc.ClientConn
	client ValidatorClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewValidatorClient(cc)}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// Apply submits encoded frame bytes and returns the daemon's outcome.
func (c *Client) Apply(data []byte) (capability.Outcome, error) {
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Apply(ctx, wrapperspb.Bytes(data))
	if err != nil {
		return "", err
	}
	return capability.Outcome(reply.GetValue()), nil
}

// Inspect fetches the record for a CID.
func (c *Client) Inspect(id frame.CID) (*capability.Record, error) {
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Inspect(ctx, wrapperspb.String(cidutil.Display(id)))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return capability.DecodeRecord(reply.GetValue())
}

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}
