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
	"path/filepath"
	"reflect"
	"strconv"
	"testing"

	"github.com/ctessum/geom/encoding/shp"
)

func testScoredCells() []ScoredCell {
	return []ScoredCell{
		{
			Cell:        Cell{ID: 0, PSilky: 0.1, PHammerhead: 0.2, SpeciesRichness: 10, PortDist: 100, ZoneID: 1},
			PrioritySpp: 0.02, RelRichness: 0.5, Cost: 2.e5, Priority: 5.e-8, Decile: 3,
		},
		{
			Cell:        Cell{ID: 1, PSilky: 0.3, PHammerhead: 0.4, SpeciesRichness: 20, PortDist: 200, ZoneID: 1},
			PrioritySpp: 0.12, RelRichness: 1, Cost: 2.e5, Priority: 6.e-7, Decile: 10,
		},
	}
}

func TestOutputter_derivatives(t *testing.T) {
	o, err := NewOutputter("", map[string]string{
		"WeightRich": "Richness * RelRich",
		"LogWeight":  "log(WeightRich)",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := "log((Richness * RelRich))"
	if o.outputVariables["LogWeight"] != want {
		t.Errorf("derived expression = %q; want %q", o.outputVariables["LogWeight"], want)
	}
	wantVars := []string{"RelRich", "Richness"}
	if !reflect.DeepEqual(o.modelVariables, wantVars) {
		t.Errorf("model variables = %v; want %v", o.modelVariables, wantVars)
	}
}

// TestOutputter_partialMatch makes sure variable substitution only replaces
// standalone names: 'Rich' must be left alone inside 'RelRich'.
func TestOutputter_partialMatch(t *testing.T) {
	o, err := NewOutputter("", map[string]string{
		"Rich":  "Richness * 2",
		"Combo": "RelRich + Rich",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := "RelRich + (Richness * 2)"
	if o.outputVariables["Combo"] != want {
		t.Errorf("derived expression = %q; want %q", o.outputVariables["Combo"], want)
	}
}

func TestCheckOutputNames(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		ok   bool
	}{
		{"valid", map[string]string{"Priority": "Priority"}, true},
		{"too long", map[string]string{"PriorityDecile": "Decile"}, false},
		{"bad characters", map[string]string{"Prio-rity": "Priority"}, false},
		{"leading digit", map[string]string{"1Priority": "Priority"}, false},
		{"too long and bad characters", map[string]string{"Priority-Decile": "Decile"}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := checkOutputNames(test.vars)
			if test.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			} else if !test.ok && err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestOutputter_results(t *testing.T) {
	o, err := NewOutputter("", map[string]string{
		"Priority":  "Priority",
		"PrioScale": "Priority * pow(10, 7)",
		"BestRich":  "max(Richness, 15)",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	results, err := o.Results(testScoredCells())
	if err != nil {
		t.Fatal(err)
	}
	want := map[string][]float64{
		"Priority":  {5.e-8, 6.e-7},
		"PrioScale": {0.5, 6},
		"BestRich":  {15, 20},
	}
	const tol = 1.e-10
	for v, wantVals := range want {
		vals, ok := results[v]
		if !ok {
			t.Errorf("missing result for %s", v)
			continue
		}
		for i, wv := range wantVals {
			if math.Abs(vals[i]-wv) > tol*math.Abs(wv) {
				t.Errorf("%s[%d] = %g; want %g", v, i, vals[i], wv)
			}
		}
	}
}

func TestOutputter_undefinedVariable(t *testing.T) {
	o, err := NewOutputter("", map[string]string{"Bad": "NotAVar * 2"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := o.Results(testScoredCells()); err == nil {
		t.Error("expected an error for an undefined variable")
	}
}

func TestOutput(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "result.shp")
	gc := testGrid(2, 1)

	o, err := NewOutputter(fname, map[string]string{
		"Priority": "Priority",
		"Decile":   "Decile",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	cells := testScoredCells()
	if err := o.Output(cells, gc); err != nil {
		t.Fatal(err)
	}

	d, err := shp.NewDecoder(fname)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	var n int
	for {
		g, fields, more := d.DecodeRowFields("Priority", "Decile")
		if !more {
			break
		}
		p, err := strconv.ParseFloat(fields["Priority"], 64)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(p-cells[n].Priority) > 1.e-10 {
			t.Errorf("row %d Priority = %g; want %g", n, p, cells[n].Priority)
		}
		dec, err := strconv.ParseFloat(fields["Decile"], 64)
		if err != nil {
			t.Fatal(err)
		}
		if int(dec) != cells[n].Decile {
			t.Errorf("row %d Decile = %d; want %d", n, int(dec), cells[n].Decile)
		}
		b := g.Bounds()
		want := gc.CellGeom(cells[n].ID).Bounds()
		if !reflect.DeepEqual(b, want) {
			t.Errorf("row %d bounds = %+v; want %+v", n, b, want)
		}
		n++
	}
	if err := d.Error(); err != nil {
		t.Fatal(err)
	}
	if n != len(cells) {
		t.Errorf("decoded %d rows; want %d", n, len(cells))
	}
}
