package doc

import (
	"fmt"
	"slices"
	"time"
)

// FromAny converts a plain Go value (as produced by encoding/json or
// gopkg.in/yaml.v3 decoding into any) into a Value.
//
// Maps have no order, so map[string]any becomes a Document with keys in
// canonical order. Use an ordered source (bson.D, yaml.Node) when stored
// field order matters.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case string:
		return String(val), nil
	case time.Time:
		return NewTime(val), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			ev, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = ev
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, CompareKeys)

		d := make(Document, 0, len(val))
		for _, k := range keys {
			ev, err := FromAny(val[k])
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			d = append(d, Field{Key: k, Value: ev})
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}
