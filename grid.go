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

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
)

// GridConfig is a holder for the configuration information defining the
// fixed-resolution analysis grid. Cells are identified by 0-based row-major
// integer IDs: id = row*Nx + col, with row 0 at the southern edge.
type GridConfig struct {
	Xo float64 // lower left of the grid, x
	Yo float64 // lower left of the grid, y
	Dx float64 // cell length in the x direction [m]
	Dy float64 // cell length in the y direction [m]
	Nx int     // number of cells in the x direction
	Ny int     // number of cells in the y direction

	GridProj string // projection info for the grid; Proj4 format
}

// NCells returns the total number of cells in the grid.
func (c *GridConfig) NCells() int { return c.Nx * c.Ny }

// Bounds returns the spatial extent of the grid.
func (c *GridConfig) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: c.Xo, Y: c.Yo},
		Max: geom.Point{
			X: c.Xo + c.Dx*float64(c.Nx),
			Y: c.Yo + c.Dy*float64(c.Ny),
		},
	}
}

// SR returns the spatial reference of the grid.
func (c *GridConfig) SR() (*proj.SR, error) {
	sr, err := proj.Parse(c.GridProj)
	if err != nil {
		return nil, fmt.Errorf("priomap: parsing grid projection: %v", err)
	}
	return sr, nil
}

// CheckID returns an error if id does not identify a cell within the grid.
func (c *GridConfig) CheckID(id int) error {
	if id < 0 || id >= c.NCells() {
		return fmt.Errorf("priomap: cell ID %d outside of grid with %d cells", id, c.NCells())
	}
	return nil
}

// RowCol returns the row and column of the cell identified by id.
func (c *GridConfig) RowCol(id int) (row, col int) {
	return id / c.Nx, id % c.Nx
}

// ID returns the cell identifier for the given row and column.
func (c *GridConfig) ID(row, col int) int { return row*c.Nx + col }

// CellGeom returns the polygon footprint of the cell identified by id.
func (c *GridConfig) CellGeom(id int) geom.Polygon {
	row, col := c.RowCol(id)
	x0 := c.Xo + c.Dx*float64(col)
	y0 := c.Yo + c.Dy*float64(row)
	x1 := x0 + c.Dx
	y1 := y0 + c.Dy
	return geom.Polygon{{
		geom.Point{X: x0, Y: y0},
		geom.Point{X: x1, Y: y0},
		geom.Point{X: x1, Y: y1},
		geom.Point{X: x0, Y: y1},
	}}
}

// CellCentroid returns the center point of the cell identified by id.
func (c *GridConfig) CellCentroid(id int) geom.Point {
	row, col := c.RowCol(id)
	return geom.Point{
		X: c.Xo + c.Dx*(float64(col)+0.5),
		Y: c.Yo + c.Dy*(float64(row)+0.5),
	}
}
