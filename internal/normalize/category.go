package normalize

import (
	"strings"

	"github.com/amishk599/jobintake/internal/taxonomy"
)

// Classifier maps free text to one label of an ordered work taxonomy.
type Classifier struct {
	categories []taxonomy.Category
}

// NewClassifier returns a classifier over categories. A nil or empty table
// falls back to taxonomy.Categories.
func NewClassifier(categories []taxonomy.Category) *Classifier {
	if len(categories) == 0 {
		categories = taxonomy.Categories
	}
	return &Classifier{categories: categories}
}

var defaultClassifier = NewClassifier(nil)

// CategoriseWork classifies text against the default taxonomy.
func CategoriseWork(text string) string {
	return defaultClassifier.Categorise(text)
}

// Categorise returns the label of the first category whose keywords occur in
// text (case-insensitive substring). A keywordless entry matches whenever it
// is reached, which makes the trailing catch-all the fallback.
func (c *Classifier) Categorise(text string) string {
	lower := strings.ToLower(text)
	for _, cat := range c.categories {
		if len(cat.Keywords) == 0 {
			return cat.Label
		}
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return cat.Label
			}
		}
	}
	return taxonomy.GeneralLabel
}

// Categories returns the table backing the classifier.
func (c *Classifier) Categories() []taxonomy.Category {
	return c.categories
}
