package guard

import (
	"fmt"
)

// ErrUnauthenticated is returned when no authenticated session is available
type ErrUnauthenticated struct {
	Cause error
}

func (err ErrUnauthenticated) Error() string {
	if err.Cause == nil {
		return "not logged in"
	}
	return fmt.Sprintf("not logged in: %s", err.Cause)
}

func (err ErrUnauthenticated) Unwrap() error { return err.Cause }

// SuggestedCommands returns the commands to start a session
func (err ErrUnauthenticated) SuggestedCommands() []string {
	return []string{"admin-cli login"}
}

// DisableUsage disables usage output for session failures
func (err ErrUnauthenticated) DisableUsage() struct{} { return struct{}{} }

// ErrForbidden is returned when the current user lacks the administrator role
type ErrForbidden struct {
	Role string
}

func (err ErrForbidden) Error() string {
	return fmt.Sprintf("the %q role cannot access this command", err.Role)
}

// SuggestedCommands returns the commands available to any user
func (err ErrForbidden) SuggestedCommands() []string {
	return []string{"admin-cli products list"}
}

// DisableUsage disables usage output for authorization failures
func (err ErrForbidden) DisableUsage() struct{} { return struct{}{} }
