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

import "math"

// distInf is the squared-distance sentinel for cells with no source.
// It must survive the arithmetic in dt1d without overflowing.
const distInf = 1.e30

// Distance returns a raster where every cell holds the straight-line
// distance, in grid map units, from its center to the center of the nearest
// defined cell of r. Defined cells hold 0. If r has no defined cells, every
// output cell is missing.
//
// The calculation is the exact Euclidean distance transform of Felzenszwalb
// and Huttenlocher (Theory of Computing 8:415–428, 2012): a 1-D squared
// distance transform along each row followed by one along each column.
func (r *Raster) Distance(name string) *Raster {
	c := r.Config
	sq := make([]float64, c.NCells())
	for i, v := range r.data.Elements {
		if math.IsNaN(v) {
			sq[i] = distInf
		}
	}

	f := make([]float64, maxInt(c.Nx, c.Ny))
	d := make([]float64, maxInt(c.Nx, c.Ny))

	// Transform along rows.
	for row := 0; row < c.Ny; row++ {
		copy(f[:c.Nx], sq[row*c.Nx:(row+1)*c.Nx])
		dt1d(f[:c.Nx], d[:c.Nx], c.Dx)
		copy(sq[row*c.Nx:(row+1)*c.Nx], d[:c.Nx])
	}
	// Transform along columns.
	for col := 0; col < c.Nx; col++ {
		for row := 0; row < c.Ny; row++ {
			f[row] = sq[row*c.Nx+col]
		}
		dt1d(f[:c.Ny], d[:c.Ny], c.Dy)
		for row := 0; row < c.Ny; row++ {
			sq[row*c.Nx+col] = d[row]
		}
	}

	out := NewRaster(name, c)
	for i, v := range sq {
		if v >= distInf/2 {
			continue // no source cell anywhere; leave missing
		}
		out.data.Elements[i] = math.Sqrt(v)
	}
	return out
}

// dt1d computes the 1-D squared distance transform
// d[q] = min_p ((q-p)*s)² + f[p] for samples spaced s apart.
func dt1d(f, d []float64, s float64) {
	n := len(f)
	v := make([]int, n)       // locations of parabolas in the lower envelope
	z := make([]float64, n+1) // boundaries between parabolas
	k := 0
	v[0] = 0
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)
	for q := 1; q < n; q++ {
		xq := float64(q) * s
		var sep float64
		for {
			xv := float64(v[k]) * s
			sep = ((xq*xq + f[q]) - (xv*xv + f[v[k]])) / (2 * (xq - xv))
			if sep <= z[k] {
				k--
			} else {
				break
			}
		}
		k++
		v[k] = q
		z[k] = sep
		z[k+1] = math.Inf(1)
	}
	k = 0
	for q := 0; q < n; q++ {
		xq := float64(q) * s
		for z[k+1] < xq {
			k++
		}
		xv := float64(v[k]) * s
		d[q] = (xq-xv)*(xq-xv) + f[v[k]]
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
