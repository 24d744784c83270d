package models

// SessionState defines where a meeting is in its lifecycle.
type SessionState string

const (
	SessionStateIdle      SessionState = "IDLE"
	SessionStateInSession SessionState = "IN_SESSION"
	SessionStateEnded     SessionState = "ENDED"
)

// TimerStatus is the render status of a participant's stopwatch.
type TimerStatus string

const (
	TimerStatusIdle    TimerStatus = "idle"
	TimerStatusRunning TimerStatus = "running"
	TimerStatusPaused  TimerStatus = "paused"
)

// StatusOf derives the display status from a timer state.
func StatusOf(st TimerState) TimerStatus {
	switch {
	case st.Running:
		return TimerStatusRunning
	case st.Started || st.TotalSeconds > 0:
		return TimerStatusPaused
	default:
		return TimerStatusIdle
	}
}
