package redis

import "fmt"

// channelKey returns the pub/sub channel an event is published on
func channelKey(prefix, event string) string {
	return fmt.Sprintf("%s:%s", prefix, event)
}

// latestKey returns the key holding the most recent payload of an event
func latestKey(prefix, event string) string {
	return fmt.Sprintf("%s:latest:%s", prefix, event)
}
