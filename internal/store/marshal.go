package store

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/propsel/internal/model"
)

// marshalValue converts an annotation payload to canonical JSON TEXT.
// A nil payload is stored as NULL.
func marshalValue(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := model.MarshalCanonical(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal annotation value: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// unmarshalValue parses canonical JSON TEXT back into a payload.
// Numbers are decoded via json.Number to avoid float64 precision loss and
// returned as int64.
func unmarshalValue(data sql.NullString) (any, error) {
	if !data.Valid {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(data.String)))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unmarshal annotation value: %w", err)
	}
	v, err := fromJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("unmarshal annotation value: %w", err)
	}
	return v, nil
}

func fromJSON(v any) (any, error) {
	switch val := v.(type) {
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("non-integer number %s", val)
		}
		return n, nil
	case []any:
		for i, elem := range val {
			conv, err := fromJSON(elem)
			if err != nil {
				return nil, err
			}
			val[i] = conv
		}
		return val, nil
	case map[string]any:
		for k, elem := range val {
			conv, err := fromJSON(elem)
			if err != nil {
				return nil, err
			}
			val[k] = conv
		}
		return val, nil
	default:
		return val, nil
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
