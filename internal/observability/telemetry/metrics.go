package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Voice pipeline
	VoiceCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dronevox_voice_commands_total",
		Help: "Voice commands processed, by intent, extraction rule and outcome",
	}, []string{"intent", "rule", "status"})

	VoiceLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dronevox_voice_latency_seconds",
		Help:    "End-to-end latency of a voice command",
		Buckets: prometheus.DefBuckets,
	})

	InterpretLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dronevox_interpret_latency_seconds",
		Help:    "Time spent turning a transcript into a structured command",
		Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
	})

	TranscriptionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dronevox_transcription_latency_seconds",
		Help:    "Latency of the speech-to-text provider",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	TranscriptionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dronevox_transcription_errors_total",
		Help: "Failed transcription calls",
	}, []string{"provider"})

	// Fleet
	ResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dronevox_name_resolutions_total",
		Help: "Entity name lookups, by kind and match type",
	}, []string{"kind", "match"})

	DispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dronevox_dispatch_total",
		Help: "Commands published on the fleet topic",
	}, []string{"event", "result"})

	TelemetryFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dronevox_telemetry_frames_total",
		Help: "Telemetry frames received from drones",
	})

	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dronevox_ws_clients",
		Help: "Dashboards connected to the updates hub",
	})
)
