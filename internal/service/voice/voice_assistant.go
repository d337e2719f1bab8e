package voice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seu-repo/dronevox/internal/domain"
	"github.com/seu-repo/dronevox/internal/observability/telemetry"
	"github.com/seu-repo/dronevox/internal/ports"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500

	sourceVoice = "voice"
)

// Dependencies groups the collaborators of the assistant. Transcriber,
// Archive and Hub are optional.
type Dependencies struct {
	Interpreter ports.Interpreter
	Fleet       ports.FleetService
	Dispatch    ports.DispatchService
	Commands    ports.CommandLogRepository
	Transcriber ports.Transcriber
	Archive     ports.AudioArchive
	Hub         ports.Broadcaster
	// MaxAudioBytes rejects larger uploads; zero disables the check.
	MaxAudioBytes int
}

// VoiceAssistant runs a spoken command end to end: transcribe, interpret,
// resolve names, dispatch and record.
type VoiceAssistant struct {
	deps Dependencies
	log  *zap.Logger
}

func NewVoiceAssistant(deps Dependencies, log *zap.Logger) *VoiceAssistant {
	if deps.Interpreter == nil {
		deps.Interpreter = NewInterpreter()
	}
	return &VoiceAssistant{deps: deps, log: log}
}

var _ ports.VoiceService = (*VoiceAssistant)(nil)

// Interpret is the pure transcript -> command step, with latency recorded.
func (va *VoiceAssistant) Interpret(transcript string) domain.StructuredCommand {
	start := time.Now()
	cmd := va.deps.Interpreter.Interpret(transcript)
	telemetry.InterpretLatency.Observe(time.Since(start).Seconds())
	return cmd
}

// ProcessAudio transcribes audio and processes the resulting transcript.
// Transcription failures are returned wrapped in ErrTranscriberUnavailable.
func (va *VoiceAssistant) ProcessAudio(ctx context.Context, audio []byte, contentType string) (*domain.VoiceResponse, error) {
	if len(audio) == 0 {
		return nil, domain.ErrEmptyAudio
	}
	if va.deps.MaxAudioBytes > 0 && len(audio) > va.deps.MaxAudioBytes {
		return nil, fmt.Errorf("%w: %d bytes", domain.ErrAudioTooLarge, len(audio))
	}
	if va.deps.Transcriber == nil {
		return nil, fmt.Errorf("%w: no provider configured", domain.ErrTranscriberUnavailable)
	}

	if va.deps.Archive != nil {
		key := uuid.New().String()
		if uri, err := va.deps.Archive.Store(ctx, key, audio, contentType); err != nil {
			va.log.Warn("Failed to archive command audio", zap.Error(err))
		} else {
			va.log.Debug("Command audio archived", zap.String("uri", uri))
		}
	}

	provider := va.deps.Transcriber.Name()
	tctx, span := telemetry.StartSpan(ctx, "voice.transcribe",
		attribute.String("provider", provider),
		attribute.Int("audio.bytes", len(audio)),
	)
	start := time.Now()
	transcript, err := va.deps.Transcriber.Transcribe(tctx, audio, contentType)
	telemetry.TranscriptionLatency.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transcription failed")
		span.End()
		telemetry.TranscriptionErrors.WithLabelValues(provider).Inc()
		va.log.Error("Transcription failed", zap.String("provider", provider), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrTranscriberUnavailable, err)
	}
	span.End()

	va.log.Info("Voice command transcribed",
		zap.String("provider", provider),
		zap.String("transcript", transcript),
	)
	return va.ProcessTranscript(ctx, transcript)
}

// ProcessTranscript interprets the transcript and, when the command is
// complete, resolves its names and dispatches it. Resolution misses and
// dispatch failures are reported in the response status, not as errors.
func (va *VoiceAssistant) ProcessTranscript(ctx context.Context, transcript string) (*domain.VoiceResponse, error) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "voice.process")
	defer span.End()

	cmd := va.Interpret(transcript)
	span.SetAttributes(
		attribute.String("intent", string(cmd.Intent)),
		attribute.String("rule", cmd.Rule),
	)

	resp := &domain.VoiceResponse{
		ID:      uuid.New().String(),
		Command: cmd,
	}

	switch {
	case cmd.Intent == domain.IntentUnknown:
		resp.Status = domain.CommandStatusNotUnderstood
		resp.Message = "Sorry, I did not understand that command."
	case !cmd.Complete():
		resp.Status = domain.CommandStatusNeedsClarification
		resp.Missing = cmd.MissingSlots()
		resp.Message = clarification(resp.Missing)
	case cmd.Intent == domain.IntentSend:
		va.send(ctx, cmd, resp)
	case cmd.Intent == domain.IntentRecall:
		va.recall(ctx, cmd, resp)
	}

	span.SetAttributes(attribute.String("status", string(resp.Status)))
	telemetry.VoiceCommandsTotal.WithLabelValues(string(cmd.Intent), cmd.Rule, string(resp.Status)).Inc()
	telemetry.VoiceLatency.Observe(time.Since(start).Seconds())

	va.record(ctx, resp)
	if va.deps.Hub != nil {
		va.deps.Hub.Broadcast("voice_command", resp)
	}

	va.log.Info("Voice command processed",
		zap.String("id", resp.ID),
		zap.String("intent", string(cmd.Intent)),
		zap.String("rule", cmd.Rule),
		zap.String("status", string(resp.Status)),
	)
	return resp, nil
}

func (va *VoiceAssistant) send(ctx context.Context, cmd domain.StructuredCommand, resp *domain.VoiceResponse) {
	var (
		drone  *domain.Drone
		target *domain.Target
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		drone, err = va.deps.Fleet.ResolveDrone(gctx, *cmd.Subject)
		return err
	})
	g.Go(func() error {
		var err error
		target, err = va.deps.Fleet.ResolveTarget(gctx, *cmd.Target)
		return err
	})
	if err := g.Wait(); err != nil {
		va.resolutionFailed(resp, err)
		return
	}
	resp.Drone = drone
	resp.Target = target

	dispatched, err := va.deps.Dispatch.Send(ctx, drone, target, sourceVoice)
	if err != nil {
		va.dispatchFailed(resp, err)
		return
	}
	resp.Dispatch = dispatched
	resp.Status = domain.CommandStatusDispatched
	resp.Message = fmt.Sprintf("Sending %s to %s.", drone.Name, target.Name)
}

func (va *VoiceAssistant) recall(ctx context.Context, cmd domain.StructuredCommand, resp *domain.VoiceResponse) {
	drone, err := va.deps.Fleet.ResolveDrone(ctx, *cmd.Subject)
	if err != nil {
		va.resolutionFailed(resp, err)
		return
	}
	resp.Drone = drone

	dispatched, err := va.deps.Dispatch.Recall(ctx, drone, sourceVoice)
	if err != nil {
		va.dispatchFailed(resp, err)
		return
	}
	resp.Dispatch = dispatched
	resp.Status = domain.CommandStatusDispatched
	resp.Message = fmt.Sprintf("Recalling %s.", drone.Name)
}

func (va *VoiceAssistant) resolutionFailed(resp *domain.VoiceResponse, err error) {
	switch {
	case errors.Is(err, domain.ErrDroneNotFound),
		errors.Is(err, domain.ErrTargetNotFound),
		errors.Is(err, domain.ErrAmbiguousName):
		resp.Status = domain.CommandStatusUnresolved
		resp.Message = "I could not match that: " + err.Error() + "."
	default:
		resp.Status = domain.CommandStatusFailed
		resp.Message = "Fleet registry is unavailable, please retry."
		va.log.Error("Name resolution failed", zap.String("id", resp.ID), zap.Error(err))
	}
	resp.Reason = err.Error()
}

func (va *VoiceAssistant) dispatchFailed(resp *domain.VoiceResponse, err error) {
	resp.Status = domain.CommandStatusFailed
	resp.Reason = err.Error()
	resp.Message = "The command could not be delivered to the drone."
}

func clarification(missing []string) string {
	switch {
	case len(missing) == 2:
		return "Which drone should I send, and where?"
	case len(missing) == 1 && missing[0] == "target":
		return "Where should the drone go?"
	default:
		return "Which drone do you mean?"
	}
}

// record persists the outcome. A failed write is logged; the command has
// already been handled.
func (va *VoiceAssistant) record(ctx context.Context, resp *domain.VoiceResponse) {
	if va.deps.Commands == nil {
		return
	}
	rec := &domain.CommandRecord{
		ID:         resp.ID,
		Transcript: resp.Command.Transcript,
		Intent:     resp.Command.Intent,
		Rule:       resp.Command.Rule,
		Subject:    resp.Command.Subject,
		Target:     resp.Command.Target,
		Status:     resp.Status,
		Reason:     resp.Reason,
		CreatedAt:  time.Now().UTC(),
	}
	if resp.Drone != nil {
		rec.DroneID = &resp.Drone.DroneID
	}
	if resp.Target != nil {
		rec.AreaID = &resp.Target.AreaID
		if resp.Target.SensorID != "" {
			rec.SensorID = &resp.Target.SensorID
		}
	}
	if err := va.deps.Commands.Save(ctx, rec); err != nil {
		va.log.Warn("Failed to record voice command", zap.String("id", resp.ID), zap.Error(err))
	}
}

// History returns the most recent commands, newest first.
func (va *VoiceAssistant) History(ctx context.Context, limit int) ([]domain.CommandRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return va.deps.Commands.FindRecent(ctx, limit)
}

// Stats aggregates the command log. NoMatchRate is the share of commands
// interpreted as unknown.
func (va *VoiceAssistant) Stats(ctx context.Context) (*domain.CommandStats, error) {
	var (
		byIntent map[domain.Intent]int64
		byStatus map[domain.CommandStatus]int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byIntent, err = va.deps.Commands.CountByIntent(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		byStatus, err = va.deps.Commands.CountByStatus(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to aggregate command log: %w", err)
	}

	stats := &domain.CommandStats{ByIntent: byIntent, ByStatus: byStatus}
	for _, n := range byIntent {
		stats.Total += n
	}
	if stats.Total > 0 {
		stats.NoMatchRate = float64(byIntent[domain.IntentUnknown]) / float64(stats.Total)
	}
	return stats, nil
}
