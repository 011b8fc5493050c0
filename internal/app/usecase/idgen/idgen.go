package idgen

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/avGenie/go-order-system/internal/app/entity"
)

const (
	alphabet     = "abcdefghijklmnopqrstuvwxyz1234567890"
	suffixLength = 8

	emptySlug = "order"
)

type Generator struct {
	random func() (string, error)
}

func New() *Generator {
	return &Generator{
		random: func() (string, error) {
			return gonanoid.Generate(alphabet, suffixLength)
		},
	}
}

// Generate builds `<team-slug>-<random8>`. The slug is taken from the team name
// at call time, a later rename doesn't touch generated ids.
func (g *Generator) Generate(teamName string) (entity.OrderID, error) {
	suffix, err := g.random()
	if err != nil {
		return "", fmt.Errorf("error while generating order id suffix: %w", err)
	}

	slug := strings.TrimRight(Slug(teamName), "-")
	if len(slug) == 0 {
		slug = emptySlug
	}

	return entity.OrderID(slug + "-" + suffix), nil
}

// Slug lower-cases name and replaces every character outside [a-z0-9] with '-'.
func Slug(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, strings.ToLower(name))
}
