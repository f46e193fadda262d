package transition

import (
	"math"

	"github.com/pkg/errors"
)

// ScoringStrategy turns a decision history into a configuration score.
// Only statistical decisions count.
type ScoringStrategy interface {
	Name() string
	Score(decisions []Decision) float64
}

// GeometricMean scores by the geometric mean of decision probabilities, so
// that derivations of different lengths stay comparable. No decisions score 1.
type GeometricMean struct{}

func (GeometricMean) Name() string {
	return "geometric"
}

func (GeometricMean) Score(decisions []Decision) float64 {
	var (
		logSum float64
		count  int
	)
	for _, d := range decisions {
		if !d.Statistical {
			continue
		}
		logSum += math.Log(d.Probability)
		count++
	}
	if count == 0 {
		return 1.0
	}
	return math.Exp(logSum / float64(count))
}

// Product scores by the plain product of decision probabilities; it never
// grows as decisions are added.
type Product struct{}

func (Product) Name() string {
	return "product"
}

func (Product) Score(decisions []Decision) float64 {
	score := 1.0
	for _, d := range decisions {
		if d.Statistical {
			score *= d.Probability
		}
	}
	return score
}

func NewScoringStrategy(name string) (ScoringStrategy, error) {
	switch name {
	case "", "geometric":
		return GeometricMean{}, nil
	case "product":
		return Product{}, nil
	}
	return nil, errors.Errorf("unknown scoring strategy %q", name)
}
