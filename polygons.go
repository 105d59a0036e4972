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

import "github.com/ctessum/geom"

// PolygonFeature is one vector feature produced from a raster.
type PolygonFeature struct {
	geom.Polygon
	Value float64
}

// Polygons converts the defined cells of r to polygon features carrying the
// cell values. If dissolve is true, orthogonally contiguous cells with equal
// values are merged into a single feature; otherwise each cell becomes its
// own feature. Features are returned in ascending order of their lowest
// cell ID.
func (r *Raster) Polygons(dissolve bool) []PolygonFeature {
	c := r.Config
	if !dissolve {
		var out []PolygonFeature
		for id := 0; id < c.NCells(); id++ {
			if !r.Defined(id) {
				continue
			}
			out = append(out, PolygonFeature{
				Polygon: c.CellGeom(id),
				Value:   r.Value(id),
			})
		}
		return out
	}

	visited := make([]bool, c.NCells())
	var out []PolygonFeature
	for id := 0; id < c.NCells(); id++ {
		if visited[id] || !r.Defined(id) {
			continue
		}
		val := r.Value(id)
		poly := c.CellGeom(id)
		visited[id] = true
		// Breadth-first merge of the connected component of equal value.
		queue := []int{id}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, n := range r.neighbors4(cur) {
				if visited[n] || !r.Defined(n) || r.Value(n) != val {
					continue
				}
				visited[n] = true
				poly = poly.Union(c.CellGeom(n)).(geom.Polygon)
				queue = append(queue, n)
			}
		}
		out = append(out, PolygonFeature{Polygon: poly, Value: val})
	}
	return out
}

// neighbors4 returns the IDs of the cells orthogonally adjacent to id.
func (r *Raster) neighbors4(id int) []int {
	c := r.Config
	row, col := c.RowCol(id)
	n := make([]int, 0, 4)
	if col > 0 {
		n = append(n, c.ID(row, col-1))
	}
	if col < c.Nx-1 {
		n = append(n, c.ID(row, col+1))
	}
	if row > 0 {
		n = append(n, c.ID(row-1, col))
	}
	if row < c.Ny-1 {
		n = append(n, c.ID(row+1, col))
	}
	return n
}
