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
	"log"
	"strconv"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
)

// LoadRasters loads the named data layers from a NetCDF file onto the
// analysis grid. Each variable must be 2-dimensional with shape (Ny, Nx).
// NaN values in the file come through as missing cells.
func LoadRasters(rw cdf.ReaderWriterAt, config *GridConfig, names ...string) (map[string]*Raster, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("priomap.LoadRasters: %v", err)
	}
	want := make(map[string]bool)
	for _, n := range names {
		want[n] = true
	}
	o := make(map[string]*Raster)
	for _, v := range f.Header.Variables() {
		if len(names) > 0 && !want[v] {
			continue
		}
		dims := f.Header.Lengths(v)
		if len(dims) != 2 || dims[0] != config.Ny || dims[1] != config.Nx {
			return nil, fmt.Errorf("priomap.LoadRasters: variable %s has shape %v; want (%d, %d)",
				v, dims, config.Ny, config.Nx)
		}
		data := sparse.ZerosDense(dims...)
		tmp := make([]float32, len(data.Elements))
		r := f.Reader(v, nil, nil)
		if _, err := r.Read(tmp); err != nil {
			return nil, fmt.Errorf("priomap.LoadRasters: reading %s: %v", v, err)
		}
		for i, val := range tmp {
			data.Elements[i] = float64(val)
		}
		rast, err := NewRasterFrom(v, config, data)
		if err != nil {
			return nil, err
		}
		o[v] = rast
	}
	for _, n := range names {
		if _, ok := o[n]; !ok {
			return nil, fmt.Errorf("priomap.LoadRasters: file does not contain variable %s", n)
		}
	}
	return o, nil
}

type zoneShape struct {
	geom.Polygonal
	id float64
}

// LoadZones loads zone polygons from a shapefile, converting them to the
// grid's spatial reference, and rasterizes them onto the analysis grid by
// cell-centroid containment. attr names the shapefile field holding the
// numeric zone identifier. Cells whose centers fall in no zone come out
// missing.
func LoadZones(filename, attr string, config *GridConfig) (*Raster, error) {
	log.Println("Loading zones")
	zoneshp, err := shp.NewDecoder(filename)
	if err != nil {
		return nil, err
	}
	zonesr, err := zoneshp.SR()
	if err != nil {
		return nil, err
	}
	gridSR, err := config.SR()
	if err != nil {
		return nil, err
	}
	trans, err := zonesr.NewTransform(gridSR)
	if err != nil {
		return nil, err
	}

	zones := rtree.NewTree(25, 50)
	bounds := config.Bounds()
	for {
		g, fields, more := zoneshp.DecodeRowFields(attr)
		if !more {
			break
		}
		s, ok := fields[attr]
		if !ok {
			return nil, fmt.Errorf("priomap: loading zones: missing attribute column %s", attr)
		}
		z := new(zoneShape)
		z.id, err = s2f(s)
		if err != nil {
			return nil, err
		}
		gg, err := g.Transform(trans)
		if err != nil {
			return nil, err
		}
		switch gg.(type) {
		case geom.Polygonal:
			z.Polygonal = gg.(geom.Polygonal)
		default:
			return nil, fmt.Errorf("priomap: loading zones: zone shapes need to be polygons")
		}
		if bounds.Overlaps(z.Bounds()) {
			zones.Insert(z)
		}
	}
	if err := zoneshp.Error(); err != nil {
		return nil, err
	}
	zoneshp.Close()

	out := NewRaster("zone", config)
	for id := 0; id < config.NCells(); id++ {
		p := config.CellCentroid(id)
		for _, zI := range zones.SearchIntersect(p.Bounds()) {
			z := zI.(*zoneShape)
			if p.Within(z.Polygonal) != geom.Outside {
				out.SetValue(z.id, id)
				break
			}
		}
	}
	return out, nil
}

// LoadPorts loads port locations from a point shapefile, converting them to
// the grid's spatial reference.
func LoadPorts(filename string, config *GridConfig) ([]geom.Point, error) {
	log.Println("Loading ports")
	portshp, err := shp.NewDecoder(filename)
	if err != nil {
		return nil, err
	}
	portsr, err := portshp.SR()
	if err != nil {
		return nil, err
	}
	gridSR, err := config.SR()
	if err != nil {
		return nil, err
	}
	trans, err := portsr.NewTransform(gridSR)
	if err != nil {
		return nil, err
	}
	var ports []geom.Point
	for {
		g, _, more := portshp.DecodeRowFields()
		if !more {
			break
		}
		gg, err := g.Transform(trans)
		if err != nil {
			return nil, err
		}
		switch p := gg.(type) {
		case geom.Point:
			ports = append(ports, p)
		default:
			return nil, fmt.Errorf("priomap: loading ports: port shapes need to be points")
		}
	}
	if err := portshp.Error(); err != nil {
		return nil, err
	}
	portshp.Close()
	return ports, nil
}

// RasterizePorts marks the grid cells containing the given points. Cells
// holding at least one port get the value 0; all other cells are missing.
func RasterizePorts(ports []geom.Point, config *GridConfig) *Raster {
	out := NewRaster("port", config)
	b := config.Bounds()
	for _, p := range ports {
		if !b.Overlaps(p.Bounds()) {
			continue
		}
		col := int((p.X - config.Xo) / config.Dx)
		row := int((p.Y - config.Yo) / config.Dy)
		if col == config.Nx {
			col-- // point on the eastern grid edge
		}
		if row == config.Ny {
			row--
		}
		out.SetValue(0, config.ID(row, col))
	}
	return out
}

// PortDistance builds the distance-to-port surface: for every grid cell, the
// straight-line distance to the nearest cell containing a port, converted
// from grid map units (assumed meters) to kilometers.
func PortDistance(ports []geom.Point, config *GridConfig) (*Raster, error) {
	d := RasterizePorts(ports, config).Distance("port_dist_m")
	km := unit.New(1000, unit.Meter)
	out := NewRaster("port_dist", config)
	for id := 0; id < config.NCells(); id++ {
		if !d.Defined(id) {
			continue
		}
		m := unit.New(d.Value(id), unit.Meter)
		v := unit.Div(m, km) // dimensionless kilometer count
		if err := v.Check(unit.Dimless); err != nil {
			return nil, fmt.Errorf("priomap: converting port distance: %v", err)
		}
		out.SetValue(v.Value(), id)
	}
	return out, nil
}

func s2f(s string) (float64, error) {
	s = strings.Trim(s, "\x00* ")
	if s == "" {
		// null value
		return 0., nil
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err
}
