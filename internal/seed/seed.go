// Package seed carries the default classification taxonomy. The categories
// ship with the binary so a fresh deployment classifies into a known set
// without any operator setup.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
)

//go:embed categories.yaml
var categoriesYAML []byte

type categoryFile struct {
	Categories []struct {
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Keywords    []string `yaml:"keywords"`
	} `yaml:"categories"`
}

// Categories returns the built-in taxonomy in file order.
func Categories() ([]domain.Category, error) {
	var file categoryFile
	if err := yaml.Unmarshal(categoriesYAML, &file); err != nil {
		return nil, fmt.Errorf("parse embedded categories: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("embedded categories are empty")
	}

	categories := make([]domain.Category, 0, len(file.Categories))
	for _, entry := range file.Categories {
		if entry.Name == "" {
			return nil, fmt.Errorf("embedded category without a name")
		}
		categories = append(categories, domain.Category{
			Name:        entry.Name,
			Description: entry.Description,
			Keywords:    entry.Keywords,
		})
	}
	return categories, nil
}

// CategoryNames returns just the names, in file order, for prompt building.
func CategoryNames() ([]string, error) {
	categories, err := Categories()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, category.Name)
	}
	return names, nil
}
