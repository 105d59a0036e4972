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

// Package priomaputil holds the configuration and command-line interface
// for the PrioMap spatial prioritization model.
package priomaputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/priomap"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to PrioMap.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LayerData",
			usage: `
              LayerData is the path to the NetCDF file holding the gridded input
              layers. The path can be a local file, an http(s) URL, or a blob
              URL (gs://, s3://, file://), and can include environment variables.`,
			defaultVal: "priomap_layers.nc",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), zonalCmd.Flags()},
		},
		{
			name: "Layers.Silky",
			usage: `
              Layers.Silky is the name of the LayerData variable holding the
              silky shark occurrence probability.`,
			defaultVal: "p_silky",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Layers.Hammerhead",
			usage: `
              Layers.Hammerhead is the name of the LayerData variable holding the
              scalloped hammerhead occurrence probability.`,
			defaultVal: "p_hammerhead",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Layers.Richness",
			usage: `
              Layers.Richness is the name of the LayerData variable holding the
              species richness index.`,
			defaultVal: "richness",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ZoneFile",
			usage: `
              ZoneFile is the path to the shapefile holding management zone
              polygons. It can include environment variables.`,
			defaultVal: "zones.shp",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), zonalCmd.Flags()},
		},
		{
			name: "ZoneColumn",
			usage: `
              ZoneColumn is the name of the field in ZoneFile holding the numeric
              zone identifier.`,
			defaultVal: "zone",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), zonalCmd.Flags()},
		},
		{
			name: "Zone",
			usage: `
              Zone is the identifier of the management zone to be prioritized.`,
			shorthand:  "z",
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "PortFile",
			usage: `
              PortFile is the path to the point shapefile holding port locations
              used to build the cost surface. It can include environment variables.`,
			defaultVal: "ports.shp",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Grid.Xo",
			usage: `
              Grid.Xo is the lower left of the analysis grid, x.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), zonalCmd.Flags()},
		},
		{
			name: "Grid.Yo",
			usage: `
              Grid.Yo is the lower left of the analysis grid, y.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), zonalCmd.Flags()},
		},
		{
			name: "Grid.Dx",
			usage: `
              Grid.Dx is the grid cell length in the x direction [m].`,
			defaultVal: 1000.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), zonalCmd.Flags()},
		},
		{
			name: "Grid.Dy",
			usage: `
              Grid.Dy is the grid cell length in the y direction [m].`,
			defaultVal: 1000.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), zonalCmd.Flags()},
		},
		{
			name: "Grid.Nx",
			usage: `
              Grid.Nx is the number of grid cells in the x direction.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), zonalCmd.Flags()},
		},
		{
			name: "Grid.Ny",
			usage: `
              Grid.Ny is the number of grid cells in the y direction.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), zonalCmd.Flags()},
		},
		{
			name: "Grid.Proj",
			usage: `
              Grid.Proj gives the grid projection in Proj4 format.`,
			defaultVal: "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +no_defs",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), zonalCmd.Flags()},
		},
		{
			name: "Score.Alpha",
			usage: `
              Score.Alpha is the exponent weight on relative species richness.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Score.Beta",
			usage: `
              Score.Beta is the exponent weight on the protection-cost denominator.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Score.A",
			usage: `
              Score.A is the quadratic coefficient of the protection-cost function
              cost = A*d^2 - B*d + C, where d is distance to port [km].`,
			defaultVal: 2.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Score.B",
			usage: `
              Score.B is the linear coefficient of the protection-cost function.`,
			defaultVal: 1000.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Score.C",
			usage: `
              Score.C is the constant term of the protection-cost function.`,
			defaultVal: 200000.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the desired output shapefile location.
              It can include environment variables.`,
			defaultVal: "priomap_output.shp",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), zonalCmd.Flags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies which model variables should be included
              in the output file, as a map from output names to expressions over
              the scored-cell variables.`,
			defaultVal: map[string]string{
				"Priority": "Priority",
				"Decile":   "Decile",
			},
			flagsets: []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SaveFile",
			usage: `
              SaveFile is a path where the scored cells should additionally be
              saved in gob format for later reloading. If empty, no save file
              is written.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Zonal.Layer",
			usage: `
              Zonal.Layer is the name of the LayerData variable to be summarized
              by zone.`,
			defaultVal: "richness",
			flagsets:   []*pflag.FlagSet{zonalCmd.Flags()},
		},
		{
			name: "Zonal.Stat",
			usage: `
              Zonal.Stat is the per-zone statistic to calculate. Acceptable
              values are 'sum', 'mean', 'min', 'max', and 'count'.`,
			defaultVal: "mean",
			flagsets:   []*pflag.FlagSet{zonalCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("PRIOMAP")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := b.String()
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(zonalCmd)
}

// outChan returns a channel printing to standard output.
func outChan() chan string {
	outChan := make(chan string)
	go func() {
		for {
			msg := <-outChan
			fmt.Print(msg)
		}
	}()
	return outChan
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("priomap: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "priomap",
	Short: "A spatial prioritization model for marine protected-area planning.",
	Long: `PrioMap ranks the cells of a marine management zone into
conservation-priority deciles by combining habitat-probability layers for
target shark species with species richness and a distance-to-port cost
surface.

Refer to the subcommand documentation for configuration options and default
settings. Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using
command-line arguments, or by setting environment variables in the format
'PRIOMAP_var' where 'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of PrioMap.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("PrioMap v%s\n", priomap.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd scores the configured management zone and writes the result.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Score a management zone.",
	Long: `run loads the input layers, builds the distance-to-port cost
surface, scores the cells of the configured management zone, and writes the
requested output variables to a shapefile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outChan := outChan()
		ctx := context.TODO()

		gc, err := GridConfigFromCfg(Cfg)
		if err != nil {
			return err
		}
		sc := ScoreConfigFromCfg(Cfg)
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		outputVars, err := checkOutputVars(GetStringMapString("OutputVariables", Cfg))
		if err != nil {
			return err
		}
		return Run(
			maybeDownload(ctx, os.ExpandEnv(Cfg.GetString("LayerData")), outChan),
			Cfg.GetString("Layers.Silky"),
			Cfg.GetString("Layers.Hammerhead"),
			Cfg.GetString("Layers.Richness"),
			maybeDownload(ctx, os.ExpandEnv(Cfg.GetString("ZoneFile")), outChan),
			Cfg.GetString("ZoneColumn"),
			Cfg.GetInt("Zone"),
			maybeDownload(ctx, os.ExpandEnv(Cfg.GetString("PortFile")), outChan),
			outputFile,
			os.ExpandEnv(Cfg.GetString("SaveFile")),
			outputVars,
			gc, sc)
	},
	DisableAutoGenTag: true,
}

// zonalCmd summarizes a layer by management zone.
var zonalCmd = &cobra.Command{
	Use:   "zonal",
	Short: "Calculate zonal statistics.",
	Long: `zonal loads an input layer and the management zone polygons and
writes the per-zone statistic of the layer to a shapefile, one feature per
zone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outChan := outChan()
		ctx := context.TODO()

		gc, err := GridConfigFromCfg(Cfg)
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		return Zonal(
			maybeDownload(ctx, os.ExpandEnv(Cfg.GetString("LayerData")), outChan),
			Cfg.GetString("Zonal.Layer"),
			Cfg.GetString("Zonal.Stat"),
			maybeDownload(ctx, os.ExpandEnv(Cfg.GetString("ZoneFile")), outChan),
			Cfg.GetString("ZoneColumn"),
			outputFile,
			gc)
	},
	DisableAutoGenTag: true,
}
