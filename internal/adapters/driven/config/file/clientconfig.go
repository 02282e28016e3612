package file

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
	"github.com/custodia-labs/tunebridge/internal/core/ports/driven"
)

// LoadClientConfigs reads config.json and validates every provider's section.
// All field problems are collected into a single *domain.ConfigError.
func LoadClientConfigs(path string, providers []driven.Provider) (domain.ClientConfigs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ConfigError{Path: path, Err: err}
	}

	var raw map[domain.Platform]domain.OAuthClientConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &domain.ConfigError{Path: path, Err: fmt.Errorf("parse: %w", err)}
	}

	configs := make(domain.ClientConfigs, len(providers))
	var problems []domain.FieldProblem
	for _, p := range providers {
		platform := p.Spec().Platform
		cfg := raw[platform]
		problems = append(problems, p.ValidateClient(cfg)...)
		configs[platform] = cfg
	}

	if len(problems) > 0 {
		return nil, &domain.ConfigError{Path: path, Problems: problems}
	}
	return configs, nil
}
