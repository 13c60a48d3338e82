package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WritePage writes a page description to a YAML file
func WritePage(page *Page, path string) error {
	data, err := yaml.Marshal(page)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadPage reads a page description from a YAML file and normalizes it
func ReadPage(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	page, err := ParsePage(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return page, nil
}

// ParsePage decodes and normalizes a YAML page description.
func ParsePage(data []byte) (*Page, error) {
	var page Page
	if err := yaml.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	if err := page.Normalize(); err != nil {
		return nil, err
	}

	return &page, nil
}
