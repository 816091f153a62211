package services

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// coerceFields checks every key of data against the allow-list and converts
// each value to the Go type of its column. Nothing is written when any field
// is rejected.
func coerceFields(allowed map[string]models.FieldKind, data map[string]any) (map[string]any, error) {
	fields := make(map[string]any, len(data))

	for _, key := range slices.Sorted(maps.Keys(data)) {
		kind, ok := allowed[key]
		if !ok {
			return nil, apperrors.NewInvalidFieldError(key, fmt.Sprintf("field %q cannot be updated", key))
		}

		value, err := coerceValue(kind, data[key])
		if err != nil {
			return nil, apperrors.NewInvalidFieldError(key, fmt.Sprintf("field %q must be a %s: %v", key, kind, err))
		}
		fields[key] = value
	}

	return fields, nil
}

func coerceValue(kind models.FieldKind, raw any) (any, error) {
	if raw == nil {
		return nil, fmt.Errorf("value is null")
	}

	switch kind {
	case models.FieldString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("got %T", raw)
		}
		return s, nil
	case models.FieldInt:
		f, err := toFloat(raw)
		if err != nil {
			return nil, err
		}
		if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
			return nil, fmt.Errorf("%v is not a 32-bit integer", f)
		}
		return int(f), nil
	case models.FieldFloat:
		f, err := toFloat(raw)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported field kind %d", kind)
	}
}

// toFloat accepts the numeric shapes JSON decoders and callers produce
func toFloat(raw any) (float64, error) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, err
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not numeric", v)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("got %T", raw)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("value is not finite")
	}
	return f, nil
}
