package queue

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/seu-repo/dronevox/internal/domain"
)

func TestCodecFor(t *testing.T) {
	tests := []struct {
		encoding string
		want     string
		wantErr  bool
	}{
		{"", "application/json", false},
		{"json", "application/json", false},
		{"msgpack", "application/msgpack", false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		codec, err := CodecFor(tt.encoding)
		if tt.wantErr {
			if err == nil {
				t.Errorf("CodecFor(%q): expected error", tt.encoding)
			}
			continue
		}
		if err != nil {
			t.Fatalf("CodecFor(%q): unexpected error %v", tt.encoding, err)
		}
		if codec.ContentType() != tt.want {
			t.Errorf("CodecFor(%q) content type = %s, want %s", tt.encoding, codec.ContentType(), tt.want)
		}
	}
}

func TestMsgpackCodec_DroneCommandUsesWireNames(t *testing.T) {
	lat, lon := -23.55, -46.63
	cmd := domain.DroneCommand{
		ID:        "c-1",
		Event:     domain.DroneEventSend,
		DroneID:   "D-7",
		AreaID:    "A-1",
		Latitude:  &lat,
		Longitude: &lon,
		Source:    "voice",
		IssuedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	data, err := Msgpack.Marshal(cmd)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var generic map[string]interface{}
	if err := Msgpack.Unmarshal(data, &generic); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if generic["droneid"] != "D-7" || generic["event"] != "send_drone" {
		t.Errorf("unexpected wire keys: %v", generic)
	}
	if _, ok := generic["sensorid"]; ok {
		t.Error("expected empty sensor id to be omitted")
	}

	var back domain.DroneCommand
	if err := Msgpack.Unmarshal(data, &back); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if diff := cmp.Diff(cmd, back); diff != "" {
		t.Errorf("msgpack mismatch (-want +got):\n%s", diff)
	}
}
