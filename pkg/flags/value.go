package flags

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"golang.org/x/xerrors"
)

var (
	// ErrShape is returned when a scalar option is read as a vector or a
	// vector option is read as a scalar.
	ErrShape = errors.New("value shape mismatch")

	// ErrConversion is returned when a stored value cannot be parsed into
	// the requested type.
	ErrConversion = errors.New("value conversion failure")
)

type valueKind int

const (
	scalarValue valueKind = iota
	vectorValue
)

// Value is the caller facing handle to an option's storage. It references the
// option's slot directly, so values written while parsing are visible through
// every handle issued for the same registration. Handles are meant to be read
// after Parse has returned.
type Value struct {
	store *slotStore
	slot  int
	kind  valueKind
}

// Text reads a scalar option value.
func (v *Value) Text() (string, error) {
	if v.kind != scalarValue {
		return "", xerrors.Errorf("vector option read as scalar: %w", ErrShape)
	}
	return v.store.at(v.slot).read(0), nil
}

// List reads a vector option value in positional order.
func (v *Value) List() ([]string, error) {
	if v.kind != vectorValue {
		return nil, xerrors.Errorf("scalar option read as vector: %w", ErrShape)
	}
	return v.store.at(v.slot).snapshot(), nil
}

// Len returns the number of cells currently held; 1 for a scalar.
func (v *Value) Len() int {
	return v.store.at(v.slot).len()
}

func (v *Value) String() string {
	s := v.store.at(v.slot)
	if v.kind == scalarValue {
		return s.read(0)
	}
	return strings.Join(s.snapshot(), " ")
}

// Scalar is the set of types a scalar option value can be converted to.
type Scalar interface {
	string | bool | int | int32 | int64 | uint | uint32 | uint64 | float64 | time.Duration
}

// As reads a scalar option value converted to T. The conversion is performed
// at read time; Parse itself stores raw tokens only.
func As[T Scalar](v *Value) (T, error) {
	var out T

	text, err := v.Text()
	if err != nil {
		return out, err
	}

	switch p := any(&out).(type) {
	case *string:
		*p = text
		return out, nil
	case *bool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return out, convErr(text, out)
		}
		*p = b
	case *int:
		n, err := strconv.ParseInt(text, 0, strconv.IntSize)
		if err != nil {
			return out, convErr(text, out)
		}
		*p = int(n)
	case *int32:
		n, err := strconv.ParseInt(text, 0, 32)
		if err != nil {
			return out, convErr(text, out)
		}
		*p = int32(n)
	case *int64:
		n, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return out, convErr(text, out)
		}
		*p = n
	case *uint:
		n, err := strconv.ParseUint(text, 0, strconv.IntSize)
		if err != nil {
			return out, convErr(text, out)
		}
		*p = uint(n)
	case *uint32:
		n, err := strconv.ParseUint(text, 0, 32)
		if err != nil {
			return out, convErr(text, out)
		}
		*p = uint32(n)
	case *uint64:
		n, err := strconv.ParseUint(text, 0, 64)
		if err != nil {
			return out, convErr(text, out)
		}
		*p = n
	case *float64:
		fv, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return out, convErr(text, out)
		}
		*p = fv
	case *time.Duration:
		d, err := time.ParseDuration(text)
		if err != nil {
			return out, convErr(text, out)
		}
		*p = d
	}

	return out, nil
}

func convErr[T Scalar](text string, zero T) error {
	return xerrors.Errorf("convert %q to %T: %w", text, zero, ErrConversion)
}
