package jsonmap

import (
	"encoding/json"
	"fmt"
)

// JSONMap represents a JSON object as a map.
type JSONMap map[string]interface{}

// Parse decodes raw JSON bytes into a JSONMap.
func Parse(data []byte) (JSONMap, error) {
	var m JSONMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSONMap: %w", err)
	}
	return m, nil
}

// ToJSON serializes the JSONMap to JSON.
func (m *JSONMap) ToJSON() ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("JSONMap is nil")
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSONMap: %w", err)
	}
	return data, nil
}

// Copy returns a shallow copy of the JSONMap.
func (m JSONMap) Copy() JSONMap {
	if m == nil {
		return nil
	}
	out := make(JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// GetString returns the string value for key, if present.
func (m JSONMap) GetString(key string) (string, bool) {
	v, ok := m[key].(string)
	return v, ok
}

// GetMap returns the nested object for key, if present.
func (m JSONMap) GetMap(key string) (JSONMap, bool) {
	switch v := m[key].(type) {
	case JSONMap:
		return v, true
	case map[string]interface{}:
		return JSONMap(v), true
	default:
		return nil, false
	}
}

// GetSlice returns the array value for key, if present.
func (m JSONMap) GetSlice(key string) ([]interface{}, bool) {
	v, ok := m[key].([]interface{})
	return v, ok
}

// GetFloat returns the numeric value for key, if present. JSON numbers
// decode as float64.
func (m JSONMap) GetFloat(key string) (float64, bool) {
	v, ok := m[key].(float64)
	return v, ok
}
