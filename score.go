/*
Copyright © 2026 the PrioMap authors.
This file is part of PrioMap.

PrioMap is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

PrioMap is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with PrioMap.  If not, see <http://www.gnu.org/licenses/>.
*/

package priomap

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ErrNoData indicates that a scored population contains no cells with a
// defined priority.
var ErrNoData = errors.New("priomap: no cells with defined priority")

// ScoreConfig holds the parameters of the conservation-priority score.
// All values are caller-supplied; there are no defaults.
type ScoreConfig struct {
	Alpha float64 // exponent weight on relative species richness
	Beta  float64 // exponent weight on the protection-cost denominator

	// A, B, and C are the coefficients of the quadratic protection-cost
	// function cost = A·d² − B·d + C, where d is distance to port.
	A, B, C float64
}

// ScoredCell is a cell with its derived priority fields. Derived values are
// NaN wherever an operand was missing.
type ScoredCell struct {
	Cell

	PrioritySpp float64 // joint occurrence probability of the target species
	RelRichness float64 // richness relative to the population maximum
	Cost        float64 // protection cost at the cell's port distance
	Priority    float64 // conservation priority score
	Decile      int     // 1 (lowest) to 10 (highest); 0 where Priority is missing
}

// Score derives priority fields for every cell of f, returning one scored
// cell per input cell in input order. The relative-richness normalization
// is computed over the cells of f only, so f should already be filtered to
// the population of interest.
//
// Score does not validate its inputs: probabilities outside [0–1] or
// negative richness or distance values flow through the formulas unchanged,
// and a non-real power (negative cost with fractional Beta) comes out
// missing. Score returns ErrNoData if no cell ends up with a defined
// priority.
func (f *Frame) Score(cfg ScoreConfig) ([]ScoredCell, error) {
	if len(f.Cells) == 0 {
		return nil, ErrNoData
	}

	// Population-wide richness maximum over defined values only. This
	// reduction must complete before the per-cell pass that uses it.
	rich := make([]float64, 0, len(f.Cells))
	for _, c := range f.Cells {
		if !math.IsNaN(c.SpeciesRichness) {
			rich = append(rich, c.SpeciesRichness)
		}
	}
	maxRich := math.NaN()
	if len(rich) > 0 {
		maxRich = floats.Max(rich)
	}

	out := make([]ScoredCell, len(f.Cells))
	for i, c := range f.Cells {
		s := ScoredCell{Cell: *c}
		s.PrioritySpp = c.PSilky * c.PHammerhead
		s.RelRichness = c.SpeciesRichness / maxRich
		d := c.PortDist
		s.Cost = cfg.A*d*d - cfg.B*d + cfg.C

		if math.IsNaN(s.PrioritySpp) || math.IsNaN(s.RelRichness) ||
			math.IsNaN(s.Cost) || s.Cost == 0 {
			s.Priority = math.NaN()
		} else {
			s.Priority = s.PrioritySpp * math.Pow(s.RelRichness, cfg.Alpha) /
				math.Pow(s.Cost, cfg.Beta)
		}
		out[i] = s
	}

	if err := assignDeciles(out); err != nil {
		return nil, err
	}
	return out, nil
}

// assignDeciles partitions the cells with a defined priority into 10
// contiguous rank groups by ascending priority, with ties keeping input
// order. Group k receives ranks [⌊(k−1)·n/10⌋, ⌊k·n/10⌋), so group sizes
// differ by at most one and partition the ranked population exactly.
func assignDeciles(cells []ScoredCell) error {
	ranked := make([]int, 0, len(cells))
	for i := range cells {
		if !math.IsNaN(cells[i].Priority) {
			ranked = append(ranked, i)
		}
	}
	if len(ranked) == 0 {
		return ErrNoData
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return cells[ranked[a]].Priority < cells[ranked[b]].Priority
	})
	n := len(ranked)
	for rank, i := range ranked {
		cells[i].Decile = rank*10/n + 1
	}
	return nil
}
