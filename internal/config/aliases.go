package config

import (
	"fmt"
	"os"

	"github.com/couchcryptid/nonprofit-etl/internal/domain"
	"gopkg.in/yaml.v3"
)

// AliasFile is the layout of an --aliases file:
//
//	aliases:
//	  name: [charity, agency]
//	  phone: [main_line]
type AliasFile struct {
	Aliases map[string][]string `yaml:"aliases"`
}

// LoadAliases returns the built-in alias table, extended with the entries of
// the YAML file at path. An empty path yields the defaults.
func LoadAliases(path string) (domain.Aliases, error) {
	aliases := domain.DefaultAliases()
	if path == "" {
		return aliases, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}

	var f AliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse alias file: %w", err)
	}
	if err := aliases.Extend(f.Aliases); err != nil {
		return nil, fmt.Errorf("alias file %s: %w", path, err)
	}
	return aliases, nil
}
