package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// MarkHidden marks the flag hidden from usage output.
// It panics when the flag is not registered, as that is a programming error
func MarkHidden(fs *pflag.FlagSet, name string) {
	if err := fs.MarkHidden(name); err != nil {
		panic(err)
	}
}

// EnumValue is a string flag value restricted to a set of allowed values
type EnumValue struct {
	value   *string
	allowed []string
}

// NewEnumValue creates an EnumValue writing into p.
// An empty string is always accepted and leaves p unset
func NewEnumValue(p *string, allowed ...string) *EnumValue {
	return &EnumValue{p, allowed}
}

func (e *EnumValue) String() string {
	if e.value == nil {
		return ""
	}
	return *e.value
}

// Type returns the EnumValue type
func (e *EnumValue) Type() string { return "string" }

// Set validates and sets the value
func (e *EnumValue) Set(val string) error {
	if val != "" && !e.isAllowed(val) {
		return fmt.Errorf(`unsupported value, use one of ["%s"] instead`, strings.Join(e.allowed, `", "`))
	}
	*e.value = val
	return nil
}

func (e *EnumValue) isAllowed(val string) bool {
	for _, allowed := range e.allowed {
		if val == allowed {
			return true
		}
	}
	return false
}
