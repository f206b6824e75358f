package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/artboard/pkg/export"
	"github.com/matzehuels/artboard/pkg/scene"
)

// readScene loads a scene from either a stored canvas document
// ({"id", "data"}) or a JSON export ({"version", "objects"}).
func readScene(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var envelope struct {
		Data    json.RawMessage `json:"data"`
		Objects json.RawMessage `json:"objects"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var st scene.State
	switch {
	case envelope.Objects != nil:
		st, err = export.ReadJSON(data)
	case envelope.Data != nil:
		var recs []scene.Record
		if err = json.Unmarshal(envelope.Data, &recs); err == nil {
			st, err = scene.Decode(recs)
		}
	default:
		return nil, fmt.Errorf("%s is neither a canvas document nor a JSON export", path)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	s := scene.New()
	s.Restore(st)
	return s, nil
}
