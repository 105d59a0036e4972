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

	"gonum.org/v1/gonum/floats"
)

// ZonalStat specifies a per-zone reduction for Raster.Zonal.
type ZonalStat int

const (
	ZonalSum ZonalStat = iota
	ZonalMean
	ZonalMin
	ZonalMax
	ZonalCount
)

// Zonal reduces the defined cells of r grouped by the integer values of the
// co-gridded raster zones, returning one statistic per zone. Cells where
// either r or zones is missing are excluded; zones with no defined cells do
// not appear in the result.
func (r *Raster) Zonal(zones *Raster, stat ZonalStat) (map[int]float64, error) {
	if err := r.compatible(zones); err != nil {
		return nil, err
	}
	vals := make(map[int][]float64)
	for i, v := range r.data.Elements {
		z := zones.data.Elements[i]
		if math.IsNaN(v) || math.IsNaN(z) {
			continue
		}
		zi := int(z)
		vals[zi] = append(vals[zi], v)
	}
	out := make(map[int]float64, len(vals))
	for z, vv := range vals {
		switch stat {
		case ZonalSum:
			out[z] = floats.Sum(vv)
		case ZonalMean:
			out[z] = floats.Sum(vv) / float64(len(vv))
		case ZonalMin:
			out[z] = floats.Min(vv)
		case ZonalMax:
			out[z] = floats.Max(vv)
		case ZonalCount:
			out[z] = float64(len(vv))
		default:
			return nil, fmt.Errorf("priomap: invalid zonal statistic %d", stat)
		}
	}
	return out, nil
}
