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
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/priomap"
	"github.com/spf13/cast"
)

// GridConfigFromCfg reads the analysis grid definition from the
// configuration, expanding any environment variables.
func GridConfigFromCfg(cfg *viper.Viper) (*priomap.GridConfig, error) {
	c := priomap.GridConfig{
		Xo:       cfg.GetFloat64("Grid.Xo"),
		Yo:       cfg.GetFloat64("Grid.Yo"),
		Dx:       cfg.GetFloat64("Grid.Dx"),
		Dy:       cfg.GetFloat64("Grid.Dy"),
		Nx:       cfg.GetInt("Grid.Nx"),
		Ny:       cfg.GetInt("Grid.Ny"),
		GridProj: os.ExpandEnv(cfg.GetString("Grid.Proj")),
	}
	if c.Nx <= 0 || c.Ny <= 0 {
		return nil, fmt.Errorf("priomap: grid needs positive cell counts; have (%d, %d)", c.Nx, c.Ny)
	}
	if c.Dx <= 0 || c.Dy <= 0 {
		return nil, fmt.Errorf("priomap: grid needs positive cell sizes; have (%g, %g)", c.Dx, c.Dy)
	}
	return &c, nil
}

// ScoreConfigFromCfg reads the priority-score parameters from the
// configuration.
func ScoreConfigFromCfg(cfg *viper.Viper) priomap.ScoreConfig {
	return priomap.ScoreConfig{
		Alpha: cfg.GetFloat64("Score.Alpha"),
		Beta:  cfg.GetFloat64("Score.Beta"),
		A:     cfg.GetFloat64("Score.A"),
		B:     cfg.GetFloat64("Score.B"),
		C:     cfg.GetFloat64("Score.C"),
	}
}

// checkOutputVars removes end lines and expands environment variables in the
// output variable map.
func checkOutputVars(vars map[string]string) (map[string]string, error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("there are no variables specified for output. Please fill in " +
			"the OutputVariables configuration and try again.")
	}
	for k, v := range vars {
		v = strings.Replace(v, "\r\n", " ", -1)
		v = strings.Replace(v, "\n", " ", -1)
		vars[os.ExpandEnv(k)] = os.ExpandEnv(v)
	}
	return vars, nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="output.shp")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("priomap: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// parseZonalStat converts a configuration string to a zonal statistic.
func parseZonalStat(s string) (priomap.ZonalStat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sum":
		return priomap.ZonalSum, nil
	case "mean":
		return priomap.ZonalMean, nil
	case "min":
		return priomap.ZonalMin, nil
	case "max":
		return priomap.ZonalMax, nil
	case "count":
		return priomap.ZonalCount, nil
	}
	return 0, fmt.Errorf("the Zonal.Stat variable in the configuration file "+
		"needs to be set to either sum, mean, min, max, or count, but is currently set to `%s`", s)
}

// GetStringMapString returns a map[string]string value from the
// configuration, accepting either a native map or a JSON-encoded string.
func GetStringMapString(varName string, cfg *viper.Viper) map[string]string {
	i := cfg.Get(varName)
	switch i.(type) {
	case map[string]string:
		return i.(map[string]string)
	case map[string]interface{}:
		return cast.ToStringMapString(i)
	case string:
		b := bytes.NewBuffer(([]byte)(i.(string)))
		d := json.NewDecoder(b)
		o := make(map[string]string)
		if err := d.Decode(&o); err != nil {
			panic(err)
		}
		return o
	default:
		panic(fmt.Errorf("invalid type for GetStringMapString variable %s: %#v", varName, i))
	}
}
