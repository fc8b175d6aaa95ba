package docgen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"easyapply-engine/internal/domain"

	"gopkg.in/yaml.v3"
)

// LoadProfile reads a user profile from a .json or YAML file.
func LoadProfile(path string) (*domain.UserProfile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p domain.UserProfile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(b, &p)
	default:
		err = yaml.Unmarshal(b, &p)
	}
	if err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return &p, nil
}
