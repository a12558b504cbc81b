package greet

import "fmt"

// Service builds greeting messages
type Service struct{}

// New creates a new greet Service
func New() *Service {
	return &Service{}
}

// Greet returns a greeting for name
func (s *Service) Greet(name string) string {
	return fmt.Sprintf("Hello, %s! You've been greeted from Go!", name)
}
