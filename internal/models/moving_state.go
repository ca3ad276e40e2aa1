package models

// MovingState is the fusion engine's verdict on whether the device was in
// motion during the sample window
type MovingState string

const (
	MovingStateStationary MovingState = "stationary"
	MovingStateMoving     MovingState = "moving"
	MovingStateUnknown    MovingState = "unknown"
)

// RecordingState is a snapshot of the capture subsystem's mode at the moment
// a sample was built
type RecordingState string

const (
	RecordingStateRecording RecordingState = "recording"
	RecordingStateSleeping  RecordingState = "sleeping"
	RecordingStateStandby   RecordingState = "standby"
	RecordingStateOff       RecordingState = "off"
)

// ActivityType constants
const (
	ActivityWalking    = "walking"
	ActivityRunning    = "running"
	ActivityCycling    = "cycling"
	ActivityAutomotive = "automotive"
	ActivityStationary = "stationary"
	ActivityUnknown    = "unknown"
)
