// Package grpcapi exposes the calculator as a gRPC service. The service uses
// protobuf well-known wrapper types, so clients need no generated code:
//
//	service boolcalc.v1.Calculator {
//	  rpc Evaluate(google.protobuf.StringValue) returns (google.protobuf.BoolValue);
//	}
package grpcapi

import (
	"context"
	"fmt"
	"log"
	"net"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lemonberrylabs/boolcalc/pkg/store"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "boolcalc.v1.Calculator"

	// ErrorDomain is the ErrorInfo domain attached to evaluation failures.
	ErrorDomain = "boolcalc"

	// Source labels evaluations served over gRPC in the history.
	Source = "grpc"

	evaluateMethod = "/" + ServiceName + "/Evaluate"
)

// CalculatorServer is the server API for the Calculator service.
type CalculatorServer interface {
	Evaluate(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
}

var calculatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalculatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Evaluate", Handler: evaluateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "boolcalc/v1/calculator.proto",
}

func evaluateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalculatorServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: evaluateMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CalculatorServer).Evaluate(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Server implements the Calculator and health gRPC services.
type Server struct {
	store  *store.Store
	maxLen int
	grpc   *grpc.Server
	health *health.Server
}

// New creates a new gRPC server recording into s. Expressions longer than
// maxExpressionLength characters are rejected; 0 disables the check.
func New(s *store.Store, maxExpressionLength int) *Server {
	srv := &Server{
		store:  s,
		maxLen: maxExpressionLength,
		health: health.NewServer(),
	}

	gs := grpc.NewServer()
	gs.RegisterService(&calculatorServiceDesc, srv)
	healthpb.RegisterHealthServer(gs, srv.health)
	srv.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	srv.grpc = gs

	return srv
}

// Serve starts listening on the given address and serves gRPC requests.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	return s.ServeListener(lis)
}

// ServeListener serves gRPC requests on an existing listener.
func (s *Server) ServeListener(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// GracefulStop marks the services as not serving and stops the server once
// in-flight calls finish.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

// Evaluate evaluates the expression in req. Calculator errors are returned
// as InvalidArgument with BadRequest and ErrorInfo details.
func (s *Server) Evaluate(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	expression := req.GetValue()
	if err := store.CheckLength(expression, s.maxLen); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	ev := s.store.Evaluate(Source, expression)
	if ev.State == store.EvaluationFailed {
		return nil, evaluationStatus(ev)
	}
	return wrapperspb.Bool(ev.Result), nil
}

func evaluationStatus(ev *store.Evaluation) error {
	if ev.Error.Span == nil {
		return status.Error(codes.Internal, ev.Error.Message)
	}

	st := status.New(codes.InvalidArgument, ev.Error.Message)
	detailed, err := st.WithDetails(
		&errdetails.BadRequest{
			FieldViolations: []*errdetails.BadRequest_FieldViolation{
				{Field: "value", Description: ev.Error.Message},
			},
		},
		&errdetails.ErrorInfo{
			Reason: ev.Error.Kind,
			Domain: ErrorDomain,
			Metadata: map[string]string{
				"start":      strconv.Itoa(ev.Error.Span.Start),
				"end":        strconv.Itoa(ev.Error.Span.End),
				"evaluation": ev.Name,
			},
		},
	)
	if err != nil {
		log.Printf("Warning: could not attach error details: %v", err)
		return st.Err()
	}
	return detailed.Err()
}
