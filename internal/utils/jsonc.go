package utils

import (
	"encoding/json"

	"github.com/matthewmueller/jsonc"
)

// JsonC implements a JsonC parser.
type JsonC struct{}

// ConfigParser returns a JSON with comments koanf parser.
func ConfigParser() *JsonC {
	return &JsonC{}
}

// Unmarshal parses the given JSON bytes.
func (p *JsonC) Unmarshal(b []byte) (map[string]interface{}, error) {
	jsonBytes, err := jsonc.Standardize(b)
	if err != nil {
		return nil, err
	}

	var out map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Marshal marshals the given config map to indented JSON bytes.
func (p *JsonC) Marshal(o map[string]interface{}) ([]byte, error) {
	return json.MarshalIndent(o, "", "  ")
}
