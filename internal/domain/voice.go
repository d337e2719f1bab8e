package domain

// VoiceResponse is returned for every processed voice command, whatever its
// outcome. Reason carries the underlying error text for unresolved or failed
// commands.
type VoiceResponse struct {
	ID       string            `json:"id"`
	Command  StructuredCommand `json:"command"`
	Status   CommandStatus     `json:"status"`
	Message  string            `json:"message"`
	Reason   string            `json:"reason,omitempty"`
	Missing  []string          `json:"missing,omitempty"`
	Drone    *Drone            `json:"drone,omitempty"`
	Target   *Target           `json:"target,omitempty"`
	Dispatch *DroneCommand     `json:"dispatch,omitempty"`
}

type CommandStats struct {
	Total       int64                   `json:"total"`
	ByIntent    map[Intent]int64        `json:"by_intent"`
	ByStatus    map[CommandStatus]int64 `json:"by_status"`
	NoMatchRate float64                 `json:"no_match_rate"`
}
