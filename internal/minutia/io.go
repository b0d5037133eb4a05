package minutia

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadCandidates reads a JSON array of candidates.
func LoadCandidates(path string) ([]Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("minutia: read %s: %w", path, err)
	}
	var cands []Candidate
	if err := json.Unmarshal(data, &cands); err != nil {
		return nil, fmt.Errorf("minutia: parse %s: %w", path, err)
	}
	return cands, nil
}

// WriteJSON writes v as indented JSON to path.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("minutia: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("minutia: write %s: %w", path, err)
	}
	return nil
}
