package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// JSONFile keeps preferences in an indented JSON object on disk.
type JSONFile struct {
	path string
}

// NewJSONFile returns a backend for path. The file is created on first Store.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

func (j *JSONFile) Path() string { return j.path }

func (j *JSONFile) Close() error { return nil }

// Load returns an empty map when the file does not exist yet.
func (j *JSONFile) Load() (map[string]interface{}, error) {
	values := make(map[string]interface{})
	data, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse preferences: %w", err)
	}
	return values, nil
}

func (j *JSONFile) Store(values map[string]interface{}) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize preferences: %w", err)
	}

	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(j.path, data, 0o644)
}
