// Package coherence scores how naturally one movement category follows
// another, using a static first-order transition matrix over the closed
// category set.
//
// The matrix is loaded once at startup (or the built-in table is used) and
// never updated during a session. Online adaptation from observed play
// sequences is deliberately not implemented.
package coherence

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-dancebot/pkg/catalog"
)

// ErrInvalidMatrix is returned when a loaded matrix is malformed.
var ErrInvalidMatrix = errors.New("coherence: invalid transition matrix")

// rowTolerance is the allowed deviation of a probability row from 1.0.
const rowTolerance = 1e-6

// Matrix is a bounds-checked transition-probability table.
// P[from][to] is the probability of category `to` following `from`;
// every row sums to 1.
type Matrix struct {
	p [catalog.CategoryCount][catalog.CategoryCount]float64
}

// Score returns the coherence score for playing `next` after `last`,
// in [0,1]. When last is nil (first action of a session) every category
// scores uniformly and none is favored.
func (m *Matrix) Score(last *catalog.Category, next catalog.Category) float64 {
	if last == nil {
		return 1.0 / catalog.CategoryCount
	}
	return m.p[*last][next]
}

// Prob returns the raw transition probability from -> to.
func (m *Matrix) Prob(from, to catalog.Category) float64 {
	return m.p[from][to]
}

// matrixFile is the YAML layout: category name -> category name -> probability.
type matrixFile struct {
	Transitions map[string]map[string]float64 `yaml:"transitions"`
}

// LoadYAML reads a transition matrix from a YAML file. Every category must
// have a row and every row must sum to 1; anything else is fatal.
func LoadYAML(path string) (*Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMatrix, err)
	}

	var mf matrixFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMatrix, err)
	}

	var m Matrix
	for from := catalog.Category(0); from < catalog.CategoryCount; from++ {
		row, ok := mf.Transitions[from.String()]
		if !ok {
			return nil, fmt.Errorf("%w: missing row %q", ErrInvalidMatrix, from)
		}
		var sum float64
		for to := catalog.Category(0); to < catalog.CategoryCount; to++ {
			p := row[to.String()]
			if p < 0 {
				return nil, fmt.Errorf("%w: negative probability %s->%s", ErrInvalidMatrix, from, to)
			}
			m.p[from][to] = p
			sum += p
		}
		if math.Abs(sum-1) > rowTolerance {
			return nil, fmt.Errorf("%w: row %q sums to %.6f", ErrInvalidMatrix, from, sum)
		}
	}
	return &m, nil
}

// Uniform returns a matrix where every transition is equally likely.
// Useful as a neutral fallback and for deterministic tests.
func Uniform() *Matrix {
	var m Matrix
	for from := catalog.Category(0); from < catalog.CategoryCount; from++ {
		for to := catalog.Category(0); to < catalog.CategoryCount; to++ {
			m.p[from][to] = 1.0 / catalog.CategoryCount
		}
	}
	return &m
}

// Default returns the hand-seeded transition table. Values encode simple
// choreography rules: stands lead into locomotion, combos resolve back to
// a stand, repeating the same category is discouraged.
func Default() *Matrix {
	seed := map[catalog.Category]map[catalog.Category]float64{
		catalog.CategoryStand: {
			catalog.CategoryForward: 0.35, catalog.CategoryGesture: 0.25, catalog.CategoryTurn: 0.20,
			catalog.CategorySide: 0.15, catalog.CategoryStand: 0.05,
		},
		catalog.CategoryForward: {
			catalog.CategoryTurn: 0.30, catalog.CategorySide: 0.25, catalog.CategoryStand: 0.20,
			catalog.CategoryGesture: 0.15, catalog.CategoryForward: 0.10,
		},
		catalog.CategoryTurn: {
			catalog.CategoryForward: 0.35, catalog.CategorySide: 0.25, catalog.CategoryStand: 0.20,
			catalog.CategoryGesture: 0.15, catalog.CategoryTurn: 0.05,
		},
		catalog.CategorySide: {
			catalog.CategoryForward: 0.30, catalog.CategoryTurn: 0.25, catalog.CategoryStand: 0.20,
			catalog.CategoryGesture: 0.15, catalog.CategorySide: 0.10,
		},
		catalog.CategoryGesture: {
			catalog.CategoryForward: 0.30, catalog.CategoryStand: 0.25, catalog.CategoryTurn: 0.20,
			catalog.CategorySide: 0.15, catalog.CategoryGesture: 0.10,
		},
		catalog.CategoryCombo: {
			catalog.CategoryStand: 0.40, catalog.CategoryGesture: 0.25, catalog.CategoryForward: 0.20,
			catalog.CategoryTurn: 0.10, catalog.CategorySide: 0.05,
		},
		catalog.CategoryGeneral: {
			catalog.CategoryForward: 0.25, catalog.CategoryStand: 0.25, catalog.CategoryTurn: 0.20,
			catalog.CategorySide: 0.15, catalog.CategoryGesture: 0.15,
		},
	}

	var m Matrix
	for from := catalog.Category(0); from < catalog.CategoryCount; from++ {
		row := seed[from]
		var sum float64
		for to := catalog.Category(0); to < catalog.CategoryCount; to++ {
			m.p[from][to] = row[to]
			sum += row[to]
		}
		// Normalize so every row sums to exactly 1 even for categories the
		// seed table leaves at zero (combo/general as targets).
		if sum > 0 {
			for to := catalog.Category(0); to < catalog.CategoryCount; to++ {
				m.p[from][to] /= sum
			}
		}
	}
	return &m
}
