package domain

import "errors"

var (
	ErrDroneNotFound          = errors.New("drone not found")
	ErrAreaNotFound           = errors.New("area not found")
	ErrSensorNotFound         = errors.New("sensor not found")
	ErrTargetNotFound         = errors.New("target not found")
	ErrAmbiguousName          = errors.New("name matches more than one entity")
	ErrAlreadyExists          = errors.New("entity already exists")
	ErrInvalidInput           = errors.New("invalid input")
	ErrIncompleteCommand      = errors.New("command is missing a drone or target")
	ErrNotUnderstood          = errors.New("command not understood")
	ErrTranscriberUnavailable = errors.New("transcription service unavailable")
	ErrEmptyAudio             = errors.New("empty audio payload")
	ErrAudioTooLarge          = errors.New("audio payload too large")
)
