package domain

import (
	"time"
)

type DroneStatus string

const (
	DroneStatusIdle      DroneStatus = "Idle"
	DroneStatusInFlight  DroneStatus = "InFlight"
	DroneStatusReturning DroneStatus = "Returning"
	DroneStatusOffline   DroneStatus = "Offline"
)

type Drone struct {
	ID         string      `json:"id" gorm:"primaryKey"`
	Name       string      `json:"name" gorm:"index"`
	DroneID    string      `json:"drone_id" gorm:"uniqueIndex"` // hardware identifier used on the fleet topic
	AreaID     string      `json:"area_id" gorm:"index"`        // home area
	Area       *Area       `json:"area,omitempty" gorm:"foreignKey:AreaID;references:AreaID"`
	USBAddress string      `json:"usb_address,omitempty"`
	CameraFeed *string     `json:"camera_feed,omitempty"`
	Status     DroneStatus `json:"status"`
	LastSeen   *time.Time  `json:"last_seen,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type Area struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"index"`
	AreaID    string    `json:"area_id" gorm:"uniqueIndex"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Sensor struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"index"`
	SensorID  string    `json:"sensor_id" gorm:"uniqueIndex"`
	AreaID    string    `json:"area_id" gorm:"index"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TargetKind string

const (
	TargetKindArea   TargetKind = "area"
	TargetKindSensor TargetKind = "sensor"
)

// Target is a resolved destination: an area, or a sensor inside an area.
type Target struct {
	Kind      TargetKind `json:"kind"`
	Name      string     `json:"name"`
	AreaID    string     `json:"area_id"`
	SensorID  string     `json:"sensor_id,omitempty"`
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
}

// Telemetry is a position report uplinked by a drone.
type Telemetry struct {
	DroneID   string      `json:"droneid" msgpack:"droneid"`
	Latitude  float64     `json:"latitude" msgpack:"latitude"`
	Longitude float64     `json:"longitude" msgpack:"longitude"`
	Altitude  float64     `json:"altitude" msgpack:"altitude"`
	Battery   int         `json:"battery" msgpack:"battery"`
	Status    DroneStatus `json:"status" msgpack:"status"`
	Timestamp time.Time   `json:"timestamp" msgpack:"timestamp"`
}
