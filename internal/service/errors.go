package service

import "fmt"

// ConfigurationError reports a team that cannot receive spawned tasks
// because its default board or "To Do" list is missing. It aborts the
// whole run for that team and is surfaced to the caller.
type ConfigurationError struct {
	TeamID uint
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("team %d misconfigured: %s", e.TeamID, e.Reason)
}
