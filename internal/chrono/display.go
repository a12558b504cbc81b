package chrono

import "fmt"

// Display holds the human-readable digits derived from a Timer
type Display struct {
	Hours        int `json:"hours"`
	Minutes      int `json:"minutes"`
	Seconds      int `json:"seconds"`
	Milliseconds int `json:"milliseconds"`
}

// String formats the digits as HH:MM:SS:mmm
func (d Display) String() string {
	return fmt.Sprintf("%02d:%02d:%02d:%03d", d.Hours, d.Minutes, d.Seconds, d.Milliseconds)
}
