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
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// Raster holds one named scalar data layer over an analysis grid.
// Cells without data carry NaN. Operations on rasters return new rasters
// and never mutate their inputs.
type Raster struct {
	Name   string
	Config *GridConfig

	data *sparse.DenseArray // shape = (Ny, Nx)
}

// NewRaster creates a raster over grid config c with all cells missing.
func NewRaster(name string, c *GridConfig) *Raster {
	r := &Raster{
		Name:   name,
		Config: c,
		data:   sparse.ZerosDense(c.Ny, c.Nx),
	}
	for i := range r.data.Elements {
		r.data.Elements[i] = math.NaN()
	}
	return r
}

// NewRasterFrom creates a raster over grid config c holding the data in d.
func NewRasterFrom(name string, c *GridConfig, d *sparse.DenseArray) (*Raster, error) {
	if len(d.Shape) != 2 || d.Shape[0] != c.Ny || d.Shape[1] != c.Nx {
		return nil, fmt.Errorf("priomap: raster %s: data shape %v does not match grid (%d, %d)",
			name, d.Shape, c.Ny, c.Nx)
	}
	return &Raster{Name: name, Config: c, data: d}, nil
}

// Copy returns a copy of r named name.
func (r *Raster) Copy(name string) *Raster {
	return &Raster{Name: name, Config: r.Config, data: r.data.Copy()}
}

// Value returns the value of the cell identified by id.
func (r *Raster) Value(id int) float64 { return r.data.Get1d(id) }

// SetValue sets the value of the cell identified by id.
func (r *Raster) SetValue(v float64, id int) { r.data.Elements[id] = v }

// Defined reports whether the cell identified by id holds data.
func (r *Raster) Defined(id int) bool { return !math.IsNaN(r.data.Get1d(id)) }

// Elements returns the underlying row-major data slice, indexed by cell ID.
func (r *Raster) Elements() []float64 { return r.data.Elements }

func (r *Raster) compatible(o *Raster) error {
	if *r.Config != *o.Config {
		return fmt.Errorf("priomap: rasters %s and %s are not on the same grid", r.Name, o.Name)
	}
	return nil
}

// pointwise applies fn to co-located cell pairs from r and o.
// A missing value in either operand propagates missing.
func (r *Raster) pointwise(name string, o *Raster, fn func(a, b float64) float64) (*Raster, error) {
	if err := r.compatible(o); err != nil {
		return nil, err
	}
	out := r.Copy(name)
	for i, a := range r.data.Elements {
		b := o.data.Elements[i]
		if math.IsNaN(a) || math.IsNaN(b) {
			out.data.Elements[i] = math.NaN()
			continue
		}
		out.data.Elements[i] = fn(a, b)
	}
	return out, nil
}

// Add returns the pointwise sum of r and o.
func (r *Raster) Add(name string, o *Raster) (*Raster, error) {
	return r.pointwise(name, o, func(a, b float64) float64 { return a + b })
}

// Sub returns the pointwise difference of r and o.
func (r *Raster) Sub(name string, o *Raster) (*Raster, error) {
	return r.pointwise(name, o, func(a, b float64) float64 { return a - b })
}

// Mul returns the pointwise product of r and o.
func (r *Raster) Mul(name string, o *Raster) (*Raster, error) {
	return r.pointwise(name, o, func(a, b float64) float64 { return a * b })
}

// Div returns the pointwise quotient of r and o. Cells where o is zero
// come out missing.
func (r *Raster) Div(name string, o *Raster) (*Raster, error) {
	return r.pointwise(name, o, func(a, b float64) float64 {
		if b == 0 {
			return math.NaN()
		}
		return a / b
	})
}

// Apply returns a raster holding fn applied to every defined cell of r.
func (r *Raster) Apply(name string, fn func(v float64) float64) *Raster {
	out := r.Copy(name)
	for i, v := range r.data.Elements {
		if math.IsNaN(v) {
			continue
		}
		out.data.Elements[i] = fn(v)
	}
	return out
}

// Scale returns r with every defined cell multiplied by v.
func (r *Raster) Scale(name string, v float64) *Raster {
	return r.Apply(name, func(a float64) float64 { return a * v })
}

// ReclassRule maps the half-open value interval [From, To) to NewVal.
type ReclassRule struct {
	From, To float64
	NewVal   float64
}

// Reclassify returns a raster where each defined cell value is replaced
// according to the first rule whose interval contains it. Values matching
// no rule, and missing values, come out missing.
func (r *Raster) Reclassify(name string, rules []ReclassRule) *Raster {
	return r.Apply(name, func(v float64) float64 {
		for _, rule := range rules {
			if v >= rule.From && v < rule.To {
				return rule.NewVal
			}
		}
		return math.NaN()
	})
}
