package stage

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Endpoint describes where one stage processor listens and how long a single
// invocation may take.
type Endpoint struct {
	URL     string
	Timeout time.Duration
}

// Registry maps stages to their processor endpoints. It is immutable after
// loading and safe for concurrent use.
type Registry struct {
	endpoints map[Stage]Endpoint
}

type registryFile struct {
	Stages map[string]endpointYAML `yaml:"stages"`
}

type endpointYAML struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

// LoadRegistry reads the stage endpoint configuration from a YAML file.
// Every known stage must be configured; defaultTimeout applies to stages
// that do not override it.
func LoadRegistry(path string, defaultTimeout time.Duration) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("stage: read config: %w", err)
	}
	return ParseRegistry(data, defaultTimeout)
}

// ParseRegistry builds a registry from raw YAML configuration bytes.
func ParseRegistry(data []byte, defaultTimeout time.Duration) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("stage: parse config: %w", err)
	}

	endpoints := make(map[Stage]Endpoint, len(Known))
	for name, raw := range file.Stages {
		s := Stage(strings.ToLower(strings.TrimSpace(name)))
		if !s.Valid() {
			return nil, fmt.Errorf("stage: unknown stage %q in config", name)
		}
		url := strings.TrimRight(strings.TrimSpace(raw.URL), "/")
		if url == "" {
			return nil, fmt.Errorf("stage: stage %q has no url", name)
		}
		timeout := defaultTimeout
		if raw.Timeout != "" {
			parsed, err := time.ParseDuration(raw.Timeout)
			if err != nil {
				return nil, fmt.Errorf("stage: stage %q timeout: %w", name, err)
			}
			timeout = parsed
		}
		endpoints[s] = Endpoint{URL: url, Timeout: timeout}
	}

	for _, s := range Known {
		if _, ok := endpoints[s]; !ok {
			return nil, fmt.Errorf("stage: stage %q is not configured", s)
		}
	}

	return &Registry{endpoints: endpoints}, nil
}

// Endpoint returns the configured endpoint for a stage.
func (r *Registry) Endpoint(s Stage) (Endpoint, bool) {
	if r == nil {
		return Endpoint{}, false
	}
	ep, ok := r.endpoints[s]
	return ep, ok
}
