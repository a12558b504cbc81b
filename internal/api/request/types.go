package request

// PushTimerRequest is the request body for pushing a countdown timer
type PushTimerRequest struct {
	// Seconds is a pointer so a missing field can be told apart from zero
	Seconds *int64 `json:"seconds"`
}
