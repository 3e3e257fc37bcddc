package history

import "time"

// RecordID is an internal stable identifier for termination records.
type RecordID uint64

// Record captures one termination the watchdog carried out. Immutable
// outside store methods.
type Record struct {
	ID         RecordID  `json:"id"`
	PID        int       `json:"pid"`
	Role       string    `json:"role"`
	Command    string    `json:"cmd"`
	CPUPercent float64   `json:"cpu_percent"`
	Signal     string    `json:"signal"`
	RunID      string    `json:"run_id"`
	At         time.Time `json:"at"`
}

// Filter narrows a history query.
type Filter struct {
	Roles      []string // include if role matches ANY of these
	RunID      string
	Since      time.Time
	TextSearch string // naive substring search over Command
}
