package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestFile records how a session directory was produced.
const ManifestFile = "session.yaml"

// Manifest describes the prompt selection behind a session directory.
type Manifest struct {
	Corpus     string    `yaml:"corpus"`
	Count      int       `yaml:"count"`
	LenSoftMax int       `yaml:"len_soft_max,omitempty"`
	Ordered    bool      `yaml:"ordered"`
	Seed       int64     `yaml:"seed,omitempty"`
	StartedAt  time.Time `yaml:"started_at"`
}

// WriteManifest stores the manifest in dir, replacing any previous one.
func WriteManifest(dir string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal session manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644); err != nil {
		return fmt.Errorf("write session manifest: %w", err)
	}
	return nil
}

// ReadManifest loads the manifest from dir if one exists.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse session manifest: %w", err)
	}
	return &m, nil
}
