package export

import (
	"encoding/json"

	"github.com/matzehuels/artboard/pkg/scene"
)

// JSONVersion is the version of the JSON export envelope.
const JSONVersion = 1

// JSONDocument is the JSON export envelope.
type JSONDocument struct {
	Version int            `json:"version"`
	Objects []scene.Record `json:"objects"`
}

// RenderJSON encodes the full scene, hidden objects included.
func RenderJSON(s *scene.Scene) ([]byte, error) {
	doc := JSONDocument{Version: JSONVersion, Objects: scene.Encode(s.Snapshot())}
	if doc.Objects == nil {
		doc.Objects = []scene.Record{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errorf("encode json: %v", err)
	}
	return data, nil
}

// ReadJSON decodes a JSON export back into a scene state.
func ReadJSON(data []byte) (scene.State, error) {
	var doc JSONDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return scene.State{}, errorf("decode json: %v", err)
	}
	return scene.Decode(doc.Objects)
}
