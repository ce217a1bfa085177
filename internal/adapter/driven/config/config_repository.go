package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/diillson/aws-cost-dashboard-go/internal/domain/repository"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
// Unknown keys are rejected so a typo does not silently fall back to a default.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	decode, err := decoderFor(filePath)
	if err != nil {
		return nil, err
	}

	var cfg types.Config
	if err := decode(fileData, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func decoderFor(filePath string) (func([]byte, *types.Config) error, error) {
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".toml":
		return decodeTOML, nil
	case ".yaml", ".yml":
		return decodeYAML, nil
	case ".json":
		return decodeJSON, nil
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}
}

func decodeTOML(data []byte, cfg *types.Config) error {
	decoder := toml.NewDecoder(bytes.NewReader(data)).Strict(true)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("error parsing TOML file: %w", err)
	}
	return nil
}

func decodeYAML(data []byte, cfg *types.Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		// An empty document leaves the defaults in place.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("error parsing YAML file: %w", err)
	}
	return nil
}

func decodeJSON(data []byte, cfg *types.Config) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("error parsing JSON file: %w", err)
	}
	return nil
}
