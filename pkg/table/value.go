package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Labels shown for the two sentinel values.
const (
	BlankLabel = "(Blank)"
	EmptyLabel = "(Empty)"
)

// Kind classifies a normalized category value.
type Kind int

const (
	// KindText is a regular value with a textual representation.
	KindText Kind = iota
	// KindBlank is a missing (nil) value.
	KindBlank
	// KindEmpty is an explicit empty string.
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindEmpty:
		return "empty"
	default:
		return "text"
	}
}

// Value is a normalized category cell. Values are comparable and are used
// directly as grouping keys.
type Value struct {
	Kind Kind
	Text string
}

// Label returns the display label of the value.
func (v Value) Label() string {
	switch v.Kind {
	case KindBlank:
		return BlankLabel
	case KindEmpty:
		return EmptyLabel
	default:
		return v.Text
	}
}

// Normalize converts a raw cell into a [Value].
func Normalize(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Value{Kind: KindBlank}
	case string:
		if v == "" {
			return Value{Kind: KindEmpty}
		}
		return Value{Text: v}
	case []byte:
		return Normalize(string(v))
	case *string:
		if v == nil {
			return Value{Kind: KindBlank}
		}
		return Normalize(*v)
	case float64:
		return Value{Text: strconv.FormatFloat(v, 'f', -1, 64)}
	case float32:
		return Value{Text: strconv.FormatFloat(float64(v), 'f', -1, 32)}
	case int:
		return Value{Text: strconv.Itoa(v)}
	case int64:
		return Value{Text: strconv.FormatInt(v, 10)}
	case int32:
		return Value{Text: strconv.FormatInt(int64(v), 10)}
	case uint64:
		return Value{Text: strconv.FormatUint(v, 10)}
	case bool:
		return Value{Text: strconv.FormatBool(v)}
	case time.Time:
		return Value{Text: v.Format(time.RFC3339)}
	case fmt.Stringer:
		return Normalize(v.String())
	default:
		return Value{Text: fmt.Sprint(v)}
	}
}

// ParseNumber converts a raw measure cell into a float64. Values that are not
// numeric (including nil, NaN and infinities) count as zero so a single bad
// cell never aborts a build.
func ParseNumber(raw any) float64 {
	var f float64
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case uint32:
		f = float64(v)
	case bool:
		if v {
			f = 1
		}
	case []byte:
		return ParseNumber(string(v))
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return ParseNumber(fmt.Sprint(v))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
