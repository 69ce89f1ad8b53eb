package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ErrNotObject is returned when a saved project is not a JSON object.
var ErrNotObject = errors.New("project data must be a JSON object")

// Encode serializes the aggregate field for field. Derived values are never
// part of the encoded form.
func Encode(p ProjectData) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode project: %w", err)
	}
	return data, nil
}

// Decode restores a project from its JSON form. Only a top-level value that
// is not an object is fatal; fields with an unexpected shape are decoded
// weakly or left at their zero value and reported as warnings.
func Decode(data []byte) (ProjectData, []string, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return ProjectData{}, nil, fmt.Errorf("%w: %v", ErrNotObject, err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return ProjectData{}, nil, ErrNotObject
	}
	return DecodeMap(obj)
}

// DecodeMap is Decode for an already parsed object.
func DecodeMap(obj map[string]any) (ProjectData, []string, error) {
	var p ProjectData
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &p,
	})
	if err != nil {
		return ProjectData{}, nil, fmt.Errorf("build project decoder: %w", err)
	}

	var warnings []string
	if err := dec.Decode(obj); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
			if line == "" || strings.HasSuffix(line, "error(s) decoding:") {
				continue
			}
			warnings = append(warnings, line)
		}
	}
	return p, warnings, nil
}
