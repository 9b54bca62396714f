package persist

import (
	"fmt"
	"os"
	"path/filepath"

	"nodeflow/internal/graph"
)

// Save writes g to path. The document is written to a temporary file in the
// same directory and renamed over path, so a crash never leaves a torn file.
func (c *Codec) Save(path string, g *graph.Graph) error {
	data, err := c.Encode(g)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Load reads the document at path.
func (c *Codec) Load(path string) (*graph.Graph, *Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	g, report, err := c.Decode(data)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	return g, report, nil
}

func SaveFile(path string, g *graph.Graph) error {
	return NewCodec().Save(path, g)
}

func LoadFile(path string) (*graph.Graph, *Report, error) {
	return NewCodec().Load(path)
}
