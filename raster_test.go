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
	"math"
	"testing"
)

const testProj = "+proj=merc +a=6378137 +b=6378137 +units=m +no_defs"

func testGrid(nx, ny int) *GridConfig {
	return &GridConfig{Xo: 0, Yo: 0, Dx: 1000, Dy: 1000, Nx: nx, Ny: ny, GridProj: testProj}
}

func TestRasterArithmetic(t *testing.T) {
	gc := testGrid(2, 2)
	a := NewRaster("a", gc)
	b := NewRaster("b", gc)
	a.SetValue(2, 0)
	b.SetValue(3, 0)
	a.SetValue(5, 1) // b missing at 1
	b.SetValue(4, 2) // a missing at 2
	a.SetValue(6, 3)
	b.SetValue(0, 3)

	sum, err := a.Add("sum", b)
	if err != nil {
		t.Fatal(err)
	}
	if v := sum.Value(0); different(v, 5) {
		t.Errorf("2+3 = %g", v)
	}
	if sum.Defined(1) || sum.Defined(2) {
		t.Error("missing operands should propagate missing")
	}

	prod, err := a.Mul("prod", b)
	if err != nil {
		t.Fatal(err)
	}
	if v := prod.Value(0); different(v, 6) {
		t.Errorf("2*3 = %g", v)
	}

	quot, err := a.Div("quot", b)
	if err != nil {
		t.Fatal(err)
	}
	if quot.Defined(3) {
		t.Errorf("division by zero should be missing; got %g", quot.Value(3))
	}
	if v := quot.Value(0); different(v, 2./3.) {
		t.Errorf("2/3 = %g", v)
	}

	// Inputs must not be mutated.
	if v := a.Value(0); v != 2 {
		t.Errorf("input raster mutated: %g", v)
	}

	other := testGrid(3, 3)
	c := NewRaster("c", other)
	if _, err := a.Add("bad", c); err == nil {
		t.Error("expected an error adding rasters on different grids")
	}
}

func TestReclassify(t *testing.T) {
	gc := testGrid(2, 2)
	r := NewRaster("r", gc)
	r.SetValue(0.25, 0)
	r.SetValue(0.75, 1)
	r.SetValue(2.5, 2) // outside all intervals

	rules := []ReclassRule{
		{From: 0, To: 0.5, NewVal: 1},
		{From: 0.5, To: 1, NewVal: 2},
	}
	o := r.Reclassify("classes", rules)
	if v := o.Value(0); v != 1 {
		t.Errorf("0.25 reclassified to %g; want 1", v)
	}
	if v := o.Value(1); v != 2 {
		t.Errorf("0.75 reclassified to %g; want 2", v)
	}
	if o.Defined(2) {
		t.Error("value outside all intervals should be missing")
	}
	if o.Defined(3) {
		t.Error("missing value should stay missing")
	}
}

func TestDistance(t *testing.T) {
	gc := testGrid(4, 4)
	r := NewRaster("src", gc)
	r.SetValue(1, 0) // row 0, col 0

	d := r.Distance("dist")
	if v := d.Value(0); v != 0 {
		t.Errorf("distance at a source cell is %g; want 0", v)
	}
	if v := d.Value(gc.ID(0, 3)); different(v, 3000) {
		t.Errorf("distance 3 cells east is %g; want 3000", v)
	}
	if v := d.Value(gc.ID(3, 0)); different(v, 3000) {
		t.Errorf("distance 3 cells north is %g; want 3000", v)
	}
	want := math.Sqrt(2) * 2000
	if v := d.Value(gc.ID(2, 2)); different(v, want) {
		t.Errorf("diagonal distance is %g; want %g", v, want)
	}

	// Two sources: every cell takes the nearer one.
	r2 := NewRaster("src", gc)
	r2.SetValue(1, gc.ID(0, 0))
	r2.SetValue(1, gc.ID(3, 3))
	d2 := r2.Distance("dist")
	if v := d2.Value(gc.ID(3, 2)); different(v, 1000) {
		t.Errorf("distance to nearer source is %g; want 1000", v)
	}

	empty := NewRaster("empty", gc)
	de := empty.Distance("dist")
	for id := 0; id < gc.NCells(); id++ {
		if de.Defined(id) {
			t.Fatal("distance on an empty raster should be missing everywhere")
		}
	}
}

func TestDistance_anisotropic(t *testing.T) {
	gc := &GridConfig{Xo: 0, Yo: 0, Dx: 1000, Dy: 500, Nx: 3, Ny: 3, GridProj: testProj}
	r := NewRaster("src", gc)
	r.SetValue(1, gc.ID(0, 0))
	d := r.Distance("dist")
	if v := d.Value(gc.ID(2, 0)); different(v, 1000) {
		t.Errorf("distance 2 cells north with Dy=500 is %g; want 1000", v)
	}
	want := math.Sqrt(1000*1000 + 500*500)
	if v := d.Value(gc.ID(1, 1)); different(v, want) {
		t.Errorf("anisotropic diagonal distance is %g; want %g", v, want)
	}
}

func TestZonal(t *testing.T) {
	gc := testGrid(2, 3)
	r := NewRaster("r", gc)
	zones := NewRaster("zone", gc)
	// Zone 1: values 2 and 4. Zone 2: value 10 plus a missing cell.
	// One cell with a value but no zone, one fully missing cell.
	r.SetValue(2, 0)
	zones.SetValue(1, 0)
	r.SetValue(4, 1)
	zones.SetValue(1, 1)
	r.SetValue(10, 2)
	zones.SetValue(2, 2)
	zones.SetValue(2, 3) // r missing here
	r.SetValue(99, 4)    // no zone here

	cases := []struct {
		stat ZonalStat
		want map[int]float64
	}{
		{ZonalSum, map[int]float64{1: 6, 2: 10}},
		{ZonalMean, map[int]float64{1: 3, 2: 10}},
		{ZonalMin, map[int]float64{1: 2, 2: 10}},
		{ZonalMax, map[int]float64{1: 4, 2: 10}},
		{ZonalCount, map[int]float64{1: 2, 2: 1}},
	}
	for _, c := range cases {
		got, err := r.Zonal(zones, c.stat)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != len(c.want) {
			t.Errorf("stat %d: got %d zones; want %d", c.stat, len(got), len(c.want))
		}
		for z, w := range c.want {
			if different(got[z], w) {
				t.Errorf("stat %d zone %d: got %g; want %g", c.stat, z, got[z], w)
			}
		}
	}
}

func TestCellValuesRoundTrip(t *testing.T) {
	gc := testGrid(3, 3)
	r := NewRaster("priority", gc)
	in := map[int]float64{
		0: 5.e-7,
		4: 1.6875e-7,
		8: 8.000000000000001e-7,
	}
	if err := r.SetCells(in); err != nil {
		t.Fatal(err)
	}
	out := r.CellValues()
	if len(out) != len(in) {
		t.Fatalf("round trip returned %d values; want %d", len(out), len(in))
	}
	for id, v := range in {
		// Bit-for-bit reproduction.
		if out[id] != v {
			t.Errorf("cell %d: %b != %b", id, out[id], v)
		}
	}

	if err := r.SetCells(map[int]float64{100: 1}); err == nil {
		t.Error("expected an error writing outside the grid")
	}
}

func TestPolygons(t *testing.T) {
	gc := testGrid(2, 2)
	r := NewRaster("r", gc)
	r.SetValue(1, 0)
	r.SetValue(1, 1)
	r.SetValue(2, 2)

	feats := r.Polygons(false)
	if len(feats) != 3 {
		t.Fatalf("got %d features; want 3", len(feats))
	}
	cellArea := gc.Dx * gc.Dy
	for i, f := range feats {
		if a := f.Polygon.Area(); different(a, cellArea) {
			t.Errorf("feature %d area %g; want %g", i, a, cellArea)
		}
	}

	dissolved := r.Polygons(true)
	if len(dissolved) != 2 {
		t.Fatalf("got %d dissolved features; want 2", len(dissolved))
	}
	if dissolved[0].Value != 1 {
		t.Errorf("first dissolved feature has value %g; want 1", dissolved[0].Value)
	}
	if a := dissolved[0].Polygon.Area(); different(a, 2*cellArea) {
		t.Errorf("dissolved feature area %g; want %g", a, 2*cellArea)
	}
}

func TestGridConfig(t *testing.T) {
	gc := testGrid(4, 3)
	if n := gc.NCells(); n != 12 {
		t.Errorf("NCells = %d; want 12", n)
	}
	row, col := gc.RowCol(7)
	if row != 1 || col != 3 {
		t.Errorf("RowCol(7) = (%d, %d); want (1, 3)", row, col)
	}
	if id := gc.ID(1, 3); id != 7 {
		t.Errorf("ID(1, 3) = %d; want 7", id)
	}
	ctr := gc.CellCentroid(7)
	if different(ctr.X, 3500) || different(ctr.Y, 1500) {
		t.Errorf("centroid of cell 7 is (%g, %g); want (3500, 1500)", ctr.X, ctr.Y)
	}
	b := gc.Bounds()
	if b.Max.X != 4000 || b.Max.Y != 3000 {
		t.Errorf("bounds max (%g, %g); want (4000, 3000)", b.Max.X, b.Max.Y)
	}
	if err := gc.CheckID(12); err == nil {
		t.Error("expected an error for an out-of-grid cell ID")
	}
}
