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
)

// Cell holds the input attributes of one grid cell. Attribute values are
// NaN where the corresponding layer has no data. Cells are read-only inputs
// to the scorer.
type Cell struct {
	ID int // row-major cell identifier within the analysis grid

	PSilky          float64 // occurrence probability, silky shark [0–1]
	PHammerhead     float64 // occurrence probability, scalloped hammerhead [0–1]
	SpeciesRichness float64 // species richness index
	PortDist        float64 // distance to the nearest port [km]
	ZoneID          int     // management zone membership
}

// Frame is an ordered collection of cells extracted from co-gridded rasters.
// Cell order is stable: ascending cell ID at extraction, preserved by
// filtering.
type Frame struct {
	Config *GridConfig
	Cells  []*Cell
}

// NewFrame extracts a frame from the given co-gridded layers. One cell
// record is created for every grid cell with a defined zone membership;
// missing values in the other layers are carried through as NaN.
func NewFrame(silky, hammerhead, richness, portDist, zones *Raster) (*Frame, error) {
	for _, o := range []*Raster{hammerhead, richness, portDist, zones} {
		if err := silky.compatible(o); err != nil {
			return nil, err
		}
	}
	c := silky.Config
	f := &Frame{Config: c}
	for id := 0; id < c.NCells(); id++ {
		if !zones.Defined(id) {
			continue
		}
		f.Cells = append(f.Cells, &Cell{
			ID:              id,
			PSilky:          silky.Value(id),
			PHammerhead:     hammerhead.Value(id),
			SpeciesRichness: richness.Value(id),
			PortDist:        portDist.Value(id),
			ZoneID:          int(zones.Value(id)),
		})
	}
	return f, nil
}

// Filter returns the subset of f belonging to the given zone,
// preserving cell order.
func (f *Frame) Filter(zone int) *Frame {
	o := &Frame{Config: f.Config}
	for _, c := range f.Cells {
		if c.ZoneID == zone {
			o.Cells = append(o.Cells, c)
		}
	}
	return o
}

// CellValues returns the defined cells of r keyed by cell ID.
func (r *Raster) CellValues() map[int]float64 {
	o := make(map[int]float64)
	for id, v := range r.data.Elements {
		if !math.IsNaN(v) {
			o[id] = v
		}
	}
	return o
}

// SetCells writes vals onto r keyed by cell ID, leaving other cells
// untouched. Reading a written cell back with Value returns the written
// value exactly.
func (r *Raster) SetCells(vals map[int]float64) error {
	for id := range vals {
		if err := r.Config.CheckID(id); err != nil {
			return fmt.Errorf("priomap: writing raster %s: %v", r.Name, err)
		}
	}
	for id, v := range vals {
		r.data.Elements[id] = v
	}
	return nil
}
