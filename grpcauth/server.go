package grpcauth

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"amulet.dev/core/capability"
	"amulet.dev/core/cidutil"
	"amulet.dev/core/frame"
)

// Server exposes a capability.Validator over the Validator gRPC service.
//
// Each applied frame advances the clock by one tick; Inspect reads at
// the current tick without advancing.
type Server struct {
	UnimplementedValidatorServer
	Validator *capability.Validator
	Clock     *capability.Clock
}

func (s *Server) Apply(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil || s.Validator == nil || s.Clock == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing validator")
	}
	fr, err := frame.Decode(in.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	dec, err := s.Validator.Apply(fr, s.Clock.Tick())
	if err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.String(string(dec.Outcome)), nil
}

func (s *Server) Inspect(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if s == nil || s.Validator == nil || s.Clock == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing validator")
	}
	id, err := cidutil.Parse(in.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	rec, ok := s.Validator.Table().Get(id, s.Clock.Now())
	if !ok {
		return nil, status.Error(codes.NotFound, "unknown cid")
	}
	data, err := capability.EncodeRecord(&rec)
	if err != nil {
		return nil, status.Error(codes.Internal, "record encoding failed")
	}
	return wrapperspb.Bytes(data), nil
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case capability.IsKind(err, capability.KindBadSigLen):
		return status.Error(codes.InvalidArgument, err.Error())
	case capability.IsKind(err, capability.KindUnknownCid):
		return status.Error(codes.NotFound, err.Error())
	case capability.IsKind(err, capability.KindCidCollision):
		return status.Error(codes.AlreadyExists, err.Error())
	case capability.IsKind(err, capability.KindBadSignature),
		capability.IsKind(err, capability.KindSuiteMismatch),
		capability.IsKind(err, capability.KindRevoked):
		return status.Error(codes.PermissionDenied, err.Error())
	case capability.IsKind(err, capability.KindExpired):
		return status.Error(codes.FailedPrecondition, err.Error())
	case capability.IsKind(err, capability.KindOverflow):
		return status.Error(codes.OutOfRange, err.Error())
	case capability.IsKind(err, capability.KindUnsupportedSuite):
		return status.Error(codes.Unimplemented, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
