package flags

import (
	"strconv"
)

// OptionalString is a string flag value that tracks whether it was set
type OptionalString struct {
	IsSet bool
	Value string
}

func (o OptionalString) String() string { return o.Value }

// Type returns the OptionalString type
func (o OptionalString) Type() string { return "string" }

// Set sets the value
func (o *OptionalString) Set(s string) error {
	o.IsSet = true
	o.Value = s
	return nil
}

// Ptr returns a pointer to the value if set, otherwise nil
func (o OptionalString) Ptr() *string {
	if !o.IsSet {
		return nil
	}
	v := o.Value
	return &v
}

// OptionalInt is an int flag value that tracks whether it was set
type OptionalInt struct {
	IsSet bool
	Value int
}

func (o OptionalInt) String() string {
	if !o.IsSet {
		return ""
	}
	return strconv.Itoa(o.Value)
}

// Type returns the OptionalInt type
func (o OptionalInt) Type() string { return "int" }

// Set parses and sets the value
func (o *OptionalInt) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	o.IsSet = true
	o.Value = v
	return nil
}

// Ptr returns a pointer to the value if set, otherwise nil
func (o OptionalInt) Ptr() *int {
	if !o.IsSet {
		return nil
	}
	v := o.Value
	return &v
}

// OptionalFloat is a float flag value that tracks whether it was set
type OptionalFloat struct {
	IsSet bool
	Value float64
}

func (o OptionalFloat) String() string {
	if !o.IsSet {
		return ""
	}
	return strconv.FormatFloat(o.Value, 'f', -1, 64)
}

// Type returns the OptionalFloat type
func (o OptionalFloat) Type() string { return "float" }

// Set parses and sets the value
func (o *OptionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	o.IsSet = true
	o.Value = v
	return nil
}

// Ptr returns a pointer to the value if set, otherwise nil
func (o OptionalFloat) Ptr() *float64 {
	if !o.IsSet {
		return nil
	}
	v := o.Value
	return &v
}
