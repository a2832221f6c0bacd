// Package catalog holds the built-in course content shipped with the binary.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"elearning_app/models"
)

//go:embed cybersecurity.yaml
var cybersecurityYAML []byte

type Catalog struct {
	Lessons   []models.Lesson   `yaml:"lessons"`
	Questions []models.Question `yaml:"questions"`
}

// Default returns the embedded cybersecurity course.
func Default() (Catalog, error) {
	return Parse(cybersecurityYAML)
}

// Parse decodes a catalog document and checks every question has four
// options and a correct index in range.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("error parsing catalog: %w", err)
	}
	for i, l := range c.Lessons {
		if strings.TrimSpace(l.Title) == "" || strings.TrimSpace(l.Content) == "" {
			return Catalog{}, fmt.Errorf("lesson %d: title and content are required", i)
		}
	}
	for i, q := range c.Questions {
		if len(q.Options) != models.OptionCount {
			return Catalog{}, fmt.Errorf("question %d: expected %d options, got %d", i, models.OptionCount, len(q.Options))
		}
		if q.Correct < 0 || q.Correct >= models.OptionCount {
			return Catalog{}, fmt.Errorf("question %d: correct index %d out of range", i, q.Correct)
		}
	}
	return c, nil
}
