package fsm

import (
	"fmt"
	"os"
)

// LoadConfigAuto picks the first available source: customPath, then defaultPath
// if the file exists, then the embedded text
// A customPath that cannot be read is an error, never a fallback
func LoadConfigAuto[T any](m *Machine[T], customPath, defaultPath, embedded string) error {
	switch {
	case customPath != "":
		return LoadConfigFromPath(m, customPath)
	case isFile(defaultPath):
		return LoadConfigFromPath(m, defaultPath)
	default:
		return m.LoadConfig([]byte(embedded))
	}
}

// LoadConfigFromPath reads and loads one config file
func LoadConfigFromPath[T any](m *Machine[T], path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fsm config: %w", err)
	}
	if err := m.LoadConfig(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func isFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
