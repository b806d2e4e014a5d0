package booking

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrStaleAvailability  = errors.New("availability result superseded by a newer request")
	ErrSubmissionInFlight = errors.New("a submission for this reservation is already in progress")
	ErrEmptyConfirmation  = errors.New("backend returned an empty booking confirmation")
)

// InputError collects every invalid field of a guest form.
type InputError struct {
	fields map[string][]string
}

func newInputError() *InputError {
	return &InputError{
		fields: make(map[string][]string),
	}
}

// IsInputError returns the InputError wrapped in err, or nil.
func IsInputError(err error) *InputError {
	if err == nil {
		return nil
	}

	var inputError *InputError
	if errors.As(err, &inputError) {
		return inputError
	}
	return nil
}

func (ie *InputError) fieldsCount() int {
	return len(ie.fields)
}

func (ie *InputError) addError(field, msg string) {
	ie.fields[field] = append(ie.fields[field], msg)
}

func (ie *InputError) orNil() error {
	if ie.fieldsCount() == 0 {
		return nil
	}
	return ie
}

func (ie *InputError) Error() string {
	keys := make([]string, 0, len(ie.fields))
	for k := range ie.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(ie.fields[k], ", ")))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (ie *InputError) Fields() map[string][]string {
	return ie.fields
}

// AvailabilityError reports that the backend refused the room for the stay.
type AvailabilityError struct {
	RoomID  string
	Message string
}

func (e *AvailabilityError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("room %q is not available for the selected dates", e.RoomID)
	}
	return fmt.Sprintf("room %q is not available: %s", e.RoomID, e.Message)
}

// IsAvailabilityError returns the AvailabilityError wrapped in err, or nil.
func IsAvailabilityError(err error) *AvailabilityError {
	var availabilityError *AvailabilityError
	if errors.As(err, &availabilityError) {
		return availabilityError
	}
	return nil
}
