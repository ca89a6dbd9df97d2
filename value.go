package mdbsql

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The engine exposes every bound value as formatted text regardless of
// the native column type, so all typed access funnels through one
// trim-then-parse path.

// Value returns the raw textual cell at idx, untrimmed.
func (r Row) Value(idx int) (string, error) {
	if idx < 0 || idx >= len(r.values) {
		return "", fmt.Errorf("%w: %d", ErrInvalidRowIndex, idx)
	}
	return r.values[idx], nil
}

// GetString returns the cell at idx with surrounding whitespace trimmed.
func (r Row) GetString(idx int) (string, error) {
	v, err := r.Value(idx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

// GetInt decodes the cell at idx as an int.
func (r Row) GetInt(idx int) (int, error) {
	return Get[int](r, idx)
}

// GetFloat decodes the cell at idx as a float64.
func (r Row) GetFloat(idx int) (float64, error) {
	return Get[float64](r, idx)
}

// GetBool decodes the cell at idx as a bool. The engine formats boolean
// columns as 0/1.
func (r Row) GetBool(idx int) (bool, error) {
	return Get[bool](r, idx)
}

// GetTime decodes the cell at idx using the given time layout.
func (r Row) GetTime(idx int, layout string) (time.Time, error) {
	s, err := r.GetString(idx)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, &DecodeError{Index: idx, Value: s, Type: "time.Time", Err: err}
	}
	return t, nil
}

// Get decodes the cell at idx into T. Supported targets are string, bool,
// the fixed-size signed and unsigned integer types, int, uint, float32,
// and float64. It fails with ErrInvalidRowIndex for an out-of-range idx
// and with a DecodeError when the text does not parse as T.
func Get[T any](r Row, idx int) (T, error) {
	var out T

	s, err := r.GetString(idx)
	if err != nil {
		return out, err
	}

	fail := func(err error) (T, error) {
		return out, &DecodeError{Index: idx, Value: s, Type: fmt.Sprintf("%T", out), Err: err}
	}

	switch p := any(&out).(type) {
	case *string:
		*p = s
	case *bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return fail(err)
		}
		*p = v
	case *int:
		v, err := strconv.ParseInt(s, 10, 0)
		if err != nil {
			return fail(err)
		}
		*p = int(v)
	case *int8:
		v, err := strconv.ParseInt(s, 10, 8)
		if err != nil {
			return fail(err)
		}
		*p = int8(v)
	case *int16:
		v, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return fail(err)
		}
		*p = int16(v)
	case *int32:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return fail(err)
		}
		*p = int32(v)
	case *int64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fail(err)
		}
		*p = v
	case *uint:
		v, err := strconv.ParseUint(s, 10, 0)
		if err != nil {
			return fail(err)
		}
		*p = uint(v)
	case *uint8:
		v, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return fail(err)
		}
		*p = uint8(v)
	case *uint16:
		v, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return fail(err)
		}
		*p = uint16(v)
	case *uint32:
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return fail(err)
		}
		*p = uint32(v)
	case *uint64:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fail(err)
		}
		*p = v
	case *float32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return fail(err)
		}
		*p = float32(v)
	case *float64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fail(err)
		}
		*p = v
	default:
		return fail(fmt.Errorf("unsupported target type"))
	}

	return out, nil
}
