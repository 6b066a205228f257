package booking

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNextID               = errors.New("get next id from generator")
	ErrRecordNotFound       = errors.New("record not found")
	ErrNilEntity            = errors.New("nil entity")
	ErrDuplicateID          = errors.New("duplicate id")
	ErrNegativeAvailability = errors.New("available count must not be negative")
	ErrNotLoggedIn          = errors.New("no user logged in")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrReceipt              = errors.New("write receipt")
)

type InputError struct {
	fields map[string][]string
}

func newInputError() *InputError {
	return &InputError{
		fields: make(map[string][]string),
	}
}

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
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(ie.fields[k], "; ")))
	}

	return "invalid input: " + strings.Join(parts, ", ")
}

func (ie *InputError) Fields() map[string][]string {
	return ie.fields
}
