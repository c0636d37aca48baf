package telemetry

import (
	"fmt"
	"strings"
)

// set of supported telemetry flags
const (
	FlagMode      = "telemetry"
	FlagModeUsage = `Enable or disable telemetry, available options: ["on", "stdout", "off"] (Default value: "off")`
)

// Mode is the telemetry mode
type Mode string

// set of supported telemetry modes
const (
	ModeNil    Mode = "" // zero-valued to be flag's default
	ModeOn     Mode = "on"
	ModeStdout Mode = "stdout"
	ModeOff    Mode = "off"
)

// NewMode creates a new Mode from the modeString or returns ModeNil
func NewMode(modeString string) Mode {
	mode := Mode(modeString)
	if !isValidMode(mode) {
		return ModeNil
	}
	return mode
}

// String returns the string representation
func (m Mode) String() string { return string(m) }

// Type returns the Mode type
func (m Mode) Type() string { return "string" }

// Set validates and sets the telemetry mode value
func (m *Mode) Set(val string) error {
	mode := Mode(val)

	if !isValidMode(mode) {
		allModes := []string{ModeOn.String(), ModeStdout.String(), ModeOff.String()}
		return fmt.Errorf("unsupported value, use one of [%s] instead", strings.Join(allModes, ", "))
	}

	*m = mode
	return nil
}

func isValidMode(mode Mode) bool {
	switch mode {
	case
		ModeOn,
		ModeNil,
		ModeStdout,
		ModeOff:
		return true
	}
	return false
}
