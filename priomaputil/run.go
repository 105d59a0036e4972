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

package priomaputil

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
	"github.com/spatialmodel/priomap"
)

// Run loads the input layers, builds the distance-to-port cost surface,
// scores the cells of the given management zone, and writes the requested
// output variables to outputFile. If saveFile is non-empty, the scored cells
// are additionally saved there in gob format.
func Run(layerData, silkyVar, hammerVar, richVar, zoneFile, zoneCol string,
	zone int, portFile, outputFile, saveFile string,
	outputVars map[string]string, gc *priomap.GridConfig, sc priomap.ScoreConfig) error {

	log.Println("Loading layers")
	f, err := os.Open(layerData)
	if err != nil {
		return fmt.Errorf("priomap: opening layer data: %v", err)
	}
	defer f.Close()
	layers, err := priomap.LoadRasters(f, gc, silkyVar, hammerVar, richVar)
	if err != nil {
		return err
	}

	zones, err := priomap.LoadZones(zoneFile, zoneCol, gc)
	if err != nil {
		return err
	}
	ports, err := priomap.LoadPorts(portFile, gc)
	if err != nil {
		return err
	}
	log.Println("Building cost surface")
	portDist, err := priomap.PortDistance(ports, gc)
	if err != nil {
		return err
	}

	frame, err := priomap.NewFrame(layers[silkyVar], layers[hammerVar],
		layers[richVar], portDist, zones)
	if err != nil {
		return err
	}

	log.Printf("Scoring zone %d", zone)
	cells, err := frame.Filter(zone).Score(sc)
	if err != nil {
		return err
	}

	if saveFile != "" {
		w, err := os.Create(saveFile)
		if err != nil {
			return fmt.Errorf("priomap: creating save file: %v", err)
		}
		if err := priomap.SaveScored(w, gc, cells); err != nil {
			w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
	}

	o, err := priomap.NewOutputter(outputFile, outputVars, nil)
	if err != nil {
		return err
	}
	log.Println("Writing output")
	return o.Output(cells, gc)
}

// Zonal loads an input layer and the management zone polygons, reduces the
// layer by zone with the given statistic, and writes one polygon feature per
// zone to outputFile.
func Zonal(layerData, layerVar, stat, zoneFile, zoneCol, outputFile string,
	gc *priomap.GridConfig) error {

	zstat, err := parseZonalStat(stat)
	if err != nil {
		return err
	}

	log.Println("Loading layers")
	f, err := os.Open(layerData)
	if err != nil {
		return fmt.Errorf("priomap: opening layer data: %v", err)
	}
	defer f.Close()
	layers, err := priomap.LoadRasters(f, gc, layerVar)
	if err != nil {
		return err
	}
	zones, err := priomap.LoadZones(zoneFile, zoneCol, gc)
	if err != nil {
		return err
	}

	log.Println("Calculating zonal statistics")
	stats, err := layers[layerVar].Zonal(zones, zstat)
	if err != nil {
		return err
	}

	fileBase := strings.TrimSuffix(outputFile, filepath.Ext(outputFile))
	shape, err := shp.NewEncoderFromFields(fileBase+".shp", goshp.POLYGON,
		goshp.FloatField("Zone", 14, 8), goshp.FloatField("Stat", 14, 8))
	if err != nil {
		return fmt.Errorf("priomap: creating output shapefile: %v", err)
	}
	for _, feat := range zones.Polygons(true) {
		v, ok := stats[int(feat.Value)]
		if !ok {
			continue // zone with no defined cells
		}
		if err := shape.EncodeFields(feat.Polygon, feat.Value, v); err != nil {
			return fmt.Errorf("priomap: writing output shapefile: %v", err)
		}
	}
	shape.Close()

	prj, err := os.Create(fileBase + ".prj")
	if err != nil {
		return fmt.Errorf("priomap: creating output prj file: %v", err)
	}
	fmt.Fprint(prj, gc.GridProj)
	return prj.Close()
}
