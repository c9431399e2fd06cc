package framework

import (
	"fmt"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Captured is a value produced by one step of a scenario and consumed by later steps. If the
// producing step failed, the value is a documented fallback and Reason says why.
type Captured struct {
	Name     string
	Value    string
	Fallback bool
	Reason   string
}

// Capture records a value that was actually produced by an earlier step.
func Capture(name, value string) Captured {
	return Captured{Name: name, Value: value}
}

// FallbackFor records a substitute value used because the producing step did not yield one.
func FallbackFor(name, value, reason string) Captured {
	return Captured{Name: name, Value: value, Fallback: true, Reason: reason}
}

func (c Captured) String() string {
	if c.Fallback {
		return fmt.Sprintf("%s=%q (%s)", c.Name, c.Value, c.Reason)
	}
	return fmt.Sprintf("%s=%q", c.Name, c.Value)
}

// CaptureField takes the value at path in a result's JSON body. If the step was skipped or
// failed, or the body has no usable value there, the fallback value is used instead.
func CaptureField(result TestResult, name, path, fallback string) Captured {
	switch {
	case result.Skipped:
		return FallbackFor(name, fallback, "producing step was not run")
	case !result.Success:
		return FallbackFor(name, fallback, "producing step "+string(result.Kind))
	}
	v, ok := Lookup(result.JSON(), path)
	if !ok || v.IsNull() {
		return FallbackFor(name, fallback, "response had no "+path)
	}
	value := scalarString(v)
	if value == "" {
		return FallbackFor(name, fallback, "response had empty "+path)
	}
	return Capture(name, value)
}

func scalarString(v ldvalue.Value) string {
	if v.Type() == ldvalue.StringType {
		return v.StringValue()
	}
	return v.JSONString()
}
