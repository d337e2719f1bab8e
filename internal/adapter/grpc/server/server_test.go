package server

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/seu-repo/dronevox/internal/domain"
	"github.com/seu-repo/dronevox/internal/mocks"
)

func dial(t *testing.T, svc *mocks.MockVoiceService) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer(svc, false, zap.NewNop())
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func invoke(ctx context.Context, conn *grpc.ClientConn, method string, req, resp interface{}) error {
	return conn.Invoke(ctx, "/"+ServiceName+"/"+method, req, resp, grpc.CallContentSubtype(CodecName))
}

func TestVoiceCommand_Interpret(t *testing.T) {
	subject := "hawk"
	svc := &mocks.MockVoiceService{
		InterpretFunc: func(transcript string) domain.StructuredCommand {
			return domain.StructuredCommand{Transcript: transcript, Intent: domain.IntentRecall, Subject: &subject, Rule: "recall-leading"}
		},
	}
	conn := dial(t, svc)

	var got domain.StructuredCommand
	err := invoke(context.Background(), conn, "Interpret", &InterpretRequest{Transcript: "recall hawk"}, &got)

	require.NoError(t, err)
	assert.Equal(t, domain.IntentRecall, got.Intent)
	require.NotNil(t, got.Subject)
	assert.Equal(t, "hawk", *got.Subject)
	assert.Nil(t, got.Target)
}

func TestVoiceCommand_Process(t *testing.T) {
	var gotAudio []byte
	svc := &mocks.MockVoiceService{
		ProcessTranscriptFunc: func(ctx context.Context, transcript string) (*domain.VoiceResponse, error) {
			return &domain.VoiceResponse{ID: "r1", Status: domain.CommandStatusDispatched}, nil
		},
		ProcessAudioFunc: func(ctx context.Context, audio []byte, contentType string) (*domain.VoiceResponse, error) {
			gotAudio = audio
			return nil, domain.ErrTranscriberUnavailable
		},
	}
	conn := dial(t, svc)
	ctx := context.Background()

	var resp domain.VoiceResponse
	require.NoError(t, invoke(ctx, conn, "Process", &ProcessRequest{Transcript: "send hawk to alpha"}, &resp))
	assert.Equal(t, domain.CommandStatusDispatched, resp.Status)

	err := invoke(ctx, conn, "Process", &ProcessRequest{Audio: []byte{1, 2, 3}}, &resp)
	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.Equal(t, []byte{1, 2, 3}, gotAudio)

	err = invoke(ctx, conn, "Process", &ProcessRequest{}, &resp)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestVoiceCommand_HidesInternalErrors(t *testing.T) {
	svc := &mocks.MockVoiceService{
		StatsFunc: func(ctx context.Context) (*domain.CommandStats, error) {
			return nil, assert.AnError
		},
	}
	conn := dial(t, svc)

	var stats domain.CommandStats
	err := invoke(context.Background(), conn, "Stats", &StatsRequest{}, &stats)

	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "internal error", st.Message())
}

func TestVoiceCommand_Health(t *testing.T) {
	conn := dial(t, &mocks.MockVoiceService{})

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})

	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}
