package runtime

import "fmt"

// Thrown is the error type carrying a scripted value across the host
// boundary. Native functions must signal failure with it (not a host error
// type) so scripted try/catch can observe the value.
type Thrown struct {
	Value *Value
}

func (e *Thrown) Error() string {
	if e.Value == nil {
		return "undefined"
	}
	return e.Value.ToString()
}

// Throw wraps a scripted value as an error.
func Throw(v *Value) error {
	return &Thrown{Value: v}
}

// Throwf builds a Thrown carrying a formatted string value, the common case
// for native-function failures.
func Throwf(format string, args ...interface{}) error {
	return &Thrown{Value: NewString(fmt.Sprintf(format, args...))}
}
