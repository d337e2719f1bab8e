package domain

import "time"

// Intent is the coarse action category of a spoken command.
type Intent string

const (
	IntentSend    Intent = "send"
	IntentRecall  Intent = "recall"
	IntentUnknown Intent = "unknown"
)

func (i Intent) Valid() bool {
	switch i {
	case IntentSend, IntentRecall, IntentUnknown:
		return true
	}
	return false
}

// StructuredCommand is the interpreter output for a single transcript.
// Subject and Target are nil when no name could be extracted.
type StructuredCommand struct {
	Transcript string  `json:"transcript"`
	Intent     Intent  `json:"intent"`
	Subject    *string `json:"subject"`
	Target     *string `json:"target"`
	Rule       string  `json:"rule"`
}

// Complete reports whether every slot the intent needs was extracted.
func (c StructuredCommand) Complete() bool {
	switch c.Intent {
	case IntentSend:
		return c.Subject != nil && c.Target != nil
	case IntentRecall:
		return c.Subject != nil
	}
	return false
}

// MissingSlots lists the slots a caller should ask the operator to repeat.
func (c StructuredCommand) MissingSlots() []string {
	var missing []string
	switch c.Intent {
	case IntentSend:
		if c.Subject == nil {
			missing = append(missing, "drone")
		}
		if c.Target == nil {
			missing = append(missing, "target")
		}
	case IntentRecall:
		if c.Subject == nil {
			missing = append(missing, "drone")
		}
	}
	return missing
}

type DroneEvent string

const (
	DroneEventSend   DroneEvent = "send_drone"
	DroneEventRecall DroneEvent = "recall_drone"
)

// DroneCommand is the message published on the fleet topic.
type DroneCommand struct {
	ID         string     `json:"id" msgpack:"id"`
	Event      DroneEvent `json:"event" msgpack:"event"`
	DroneID    string     `json:"droneid" msgpack:"droneid"`
	AreaID     string     `json:"areaid,omitempty" msgpack:"areaid,omitempty"`
	SensorID   string     `json:"sensorid,omitempty" msgpack:"sensorid,omitempty"`
	Latitude   *float64   `json:"latitude,omitempty" msgpack:"latitude,omitempty"`
	Longitude  *float64   `json:"longitude,omitempty" msgpack:"longitude,omitempty"`
	Altitude   *float64   `json:"targetAltitude,omitempty" msgpack:"targetAltitude,omitempty"`
	USBAddress string     `json:"usbAddress,omitempty" msgpack:"usbAddress,omitempty"`
	Source     string     `json:"source" msgpack:"source"`
	IssuedAt   time.Time  `json:"issued_at" msgpack:"issued_at"`
}

type CommandStatus string

const (
	CommandStatusDispatched         CommandStatus = "dispatched"
	CommandStatusNeedsClarification CommandStatus = "needs_clarification"
	CommandStatusNotUnderstood      CommandStatus = "not_understood"
	CommandStatusUnresolved         CommandStatus = "unresolved"
	CommandStatusFailed             CommandStatus = "failed"
)

// CommandRecord is the persisted log entry for one processed voice command.
type CommandRecord struct {
	ID         string        `json:"id" gorm:"primaryKey"`
	Transcript string        `json:"transcript"`
	Intent     Intent        `json:"intent" gorm:"index"`
	Rule       string        `json:"rule"`
	Subject    *string       `json:"subject"`
	Target     *string       `json:"target"`
	DroneID    *string       `json:"drone_id"`
	AreaID     *string       `json:"area_id"`
	SensorID   *string       `json:"sensor_id"`
	Status     CommandStatus `json:"status" gorm:"index"`
	Reason     string        `json:"reason,omitempty"`
	CreatedAt  time.Time     `json:"created_at" gorm:"index"`
}

func (CommandRecord) TableName() string {
	return "voice_commands"
}
