package graphfile

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed city50.yaml
var city50 []byte

// Default returns the built-in fifty-node city network:
// depots at {1, 48, 29, 36}, gas stations at {25, 17, 27, 38}.
func Default() domain.GraphDescriptor {
	desc, err := Parse(city50)
	if err != nil {
		panic(fmt.Sprintf("graphfile: embedded city network is invalid: %v", err))
	}
	return desc
}

// Parse decodes a YAML graph descriptor. Unknown fields are rejected.
func Parse(data []byte) (domain.GraphDescriptor, error) {
	var desc domain.GraphDescriptor

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&desc); err != nil {
		return domain.GraphDescriptor{}, fmt.Errorf("parse graph: %w", err)
	}
	if desc.NodeCount <= 0 {
		return domain.GraphDescriptor{}, errors.New("parse graph: node_count must be positive")
	}

	return desc, nil
}

// Load reads a YAML graph descriptor from disk.
func Load(path string) (domain.GraphDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.GraphDescriptor{}, fmt.Errorf("load graph: read %q: %w", path, err)
	}

	desc, err := Parse(data)
	if err != nil {
		return domain.GraphDescriptor{}, fmt.Errorf("load graph %q: %w", path, err)
	}
	return desc, nil
}

// Encode renders a descriptor as YAML.
func Encode(desc domain.GraphDescriptor) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(desc); err != nil {
		return nil, fmt.Errorf("encode graph: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode graph: %w", err)
	}
	return buf.Bytes(), nil
}

// FileGraphProvider implements ports.GraphProvider over a YAML file.
// An empty Path serves the built-in network.
type FileGraphProvider struct {
	Path string
}

func (p *FileGraphProvider) LoadGraph(ctx context.Context) (domain.GraphDescriptor, error) {
	if p.Path == "" {
		return Default(), nil
	}
	return Load(p.Path)
}
