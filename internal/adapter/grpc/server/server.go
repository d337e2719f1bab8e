package server

import (
	"context"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/seu-repo/dronevox/internal/adapter/grpc/interceptors"
	"github.com/seu-repo/dronevox/internal/domain"
	"github.com/seu-repo/dronevox/internal/ports"
)

const ServiceName = "dronevox.v1.VoiceCommand"

type InterpretRequest struct {
	Transcript string `json:"transcript"`
}

// ProcessRequest carries a transcript, or raw audio when Transcript is empty.
type ProcessRequest struct {
	Transcript  string `json:"transcript,omitempty"`
	Audio       []byte `json:"audio,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

type StatsRequest struct{}

// VoiceCommandServer is the handler set behind ServiceDesc.
type VoiceCommandServer interface {
	Interpret(ctx context.Context, req *InterpretRequest) (*domain.StructuredCommand, error)
	Process(ctx context.Context, req *ProcessRequest) (*domain.VoiceResponse, error)
	Stats(ctx context.Context, req *StatsRequest) (*domain.CommandStats, error)
}

func unaryHandler[Req any](call func(srv interface{}, ctx context.Context, req *Req) (interface{}, error), method string) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
		return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv, ctx, req.(*Req))
		})
	}
}

// ServiceDesc is registered by hand; messages travel with the JSON codec.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VoiceCommandServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Interpret",
			Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *InterpretRequest) (interface{}, error) {
				return srv.(VoiceCommandServer).Interpret(ctx, req)
			}, "Interpret"),
		},
		{
			MethodName: "Process",
			Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *ProcessRequest) (interface{}, error) {
				return srv.(VoiceCommandServer).Process(ctx, req)
			}, "Process"),
		},
		{
			MethodName: "Stats",
			Handler: unaryHandler(func(srv interface{}, ctx context.Context, req *StatsRequest) (interface{}, error) {
				return srv.(VoiceCommandServer).Stats(ctx, req)
			}, "Stats"),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dronevox/v1/voice.proto",
}

type voiceCommandService struct {
	svc ports.VoiceService
}

func (s *voiceCommandService) Interpret(_ context.Context, req *InterpretRequest) (*domain.StructuredCommand, error) {
	cmd := s.svc.Interpret(req.Transcript)
	return &cmd, nil
}

func (s *voiceCommandService) Process(ctx context.Context, req *ProcessRequest) (*domain.VoiceResponse, error) {
	if req.Transcript == "" && len(req.Audio) > 0 {
		return s.svc.ProcessAudio(ctx, req.Audio, req.ContentType)
	}
	if req.Transcript == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.svc.ProcessTranscript(ctx, req.Transcript)
}

func (s *voiceCommandService) Stats(ctx context.Context, _ *StatsRequest) (*domain.CommandStats, error) {
	return s.svc.Stats(ctx)
}

type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	log    *zap.Logger
}

func NewGRPCServer(svc ports.VoiceService, enableReflection bool, log *zap.Logger) *GRPCServer {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.UnaryRecoveryInterceptor(log),
			interceptors.UnaryLoggingInterceptor(log),
			interceptors.UnaryMetricsInterceptor(),
			interceptors.UnaryErrorInterceptor(),
		),
	)

	s.RegisterService(&ServiceDesc, &voiceCommandService{svc: svc})

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	if enableReflection {
		reflection.Register(s)
	}

	return &GRPCServer{
		server: s,
		health: hs,
		log:    log,
	}
}

func (s *GRPCServer) Serve(lis net.Listener) error {
	s.log.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
	return s.server.Serve(lis)
}

// Stop marks the service as not serving before draining in-flight calls.
func (s *GRPCServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
