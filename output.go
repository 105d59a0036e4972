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
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
)

// Outputter writes scored cells to a polygon shapefile.
//
// outputVariables maps the names of the variables to be written to
// expressions defining how they should be calculated. Expressions can use
// the built-in cell variables (PSilky, PHammer, Richness, PortDist, Zone,
// PrioSpp, RelRich, Cost, Priority, Decile), previously defined output
// variables, and functions.
type Outputter struct {
	fileName        string
	outputVariables map[string]string
	modelVariables  []string
	outputFunctions map[string]govaluate.ExpressionFunction
}

// NewOutputter initializes a new Outputter holder and adds a set of default
// output functions:
//
// 'exp(x)' applies the exponential function e^x.
//
// 'log(x)' applies the natural logarithm.
//
// 'pow(x, y)' calculates x^y.
//
// 'min(x, y)' and 'max(x, y)' select the smaller or larger of two values.
func NewOutputter(fileName string, outputVariables map[string]string, outputFunctions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	defaultOutputFuncs := map[string]govaluate.ExpressionFunction{
		"exp": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("priomap: got %d arguments for function 'exp', but needs 1", len(arg))
			}
			return math.Exp(arg[0].(float64)), nil
		},
		"log": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("priomap: got %d arguments for function 'log', but needs 1", len(arg))
			}
			return math.Log(arg[0].(float64)), nil
		},
		"pow": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 2 {
				return nil, fmt.Errorf("priomap: got %d arguments for function 'pow', but needs 2", len(arg))
			}
			return math.Pow(arg[0].(float64), arg[1].(float64)), nil
		},
		"min": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 2 {
				return nil, fmt.Errorf("priomap: got %d arguments for function 'min', but needs 2", len(arg))
			}
			return math.Min(arg[0].(float64), arg[1].(float64)), nil
		},
		"max": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 2 {
				return nil, fmt.Errorf("priomap: got %d arguments for function 'max', but needs 2", len(arg))
			}
			return math.Max(arg[0].(float64), arg[1].(float64)), nil
		},
	}

	for key, val := range outputFunctions {
		defaultOutputFuncs[key] = val
	}

	o := Outputter{
		fileName:        fileName,
		outputVariables: make(map[string]string, len(outputVariables)),
		outputFunctions: defaultOutputFuncs,
	}
	for key, val := range outputVariables {
		o.outputVariables[key] = val
	}
	if err := checkOutputNames(o.outputVariables); err != nil {
		return nil, err
	}
	if err := o.checkForDerivatives(); err != nil {
		return nil, err
	}
	return &o, nil
}

// cellVariables gives the built-in variable bindings for one scored cell.
func cellVariables(s *ScoredCell) map[string]interface{} {
	return map[string]interface{}{
		"PSilky":   s.PSilky,
		"PHammer":  s.PHammerhead,
		"Richness": s.SpeciesRichness,
		"PortDist": s.PortDist,
		"Zone":     float64(s.ZoneID),
		"PrioSpp":  s.PrioritySpp,
		"RelRich":  s.RelRichness,
		"Cost":     s.Cost,
		"Priority": s.Priority,
		"Decile":   float64(s.Decile),
	}
}

// removeDuplicates removes all duplicated strings from a slice, returning a
// slice that contains only unique strings.
func removeDuplicates(s []string) []string {
	result := make([]string, 0, len(s))
	seen := make(map[string]struct{})
	for _, val := range s {
		if _, ok := seen[val]; !ok {
			result = append(result, val)
			seen[val] = struct{}{}
		}
	}
	return result
}

func isWordEdge(s string) bool {
	if s == "" {
		return false
	}
	ok, err := regexp.MatchString("[a-zA-Z0-9_]", s)
	if err != nil {
		panic(err)
	}
	return ok
}

// checkForDerivatives replaces any user-defined output variable appearing in
// another expression with the expression that defines it, and collects the
// unique built-in variables required to calculate the requested output.
func (o *Outputter) checkForDerivatives() error {
	o.modelVariables = make([]string, 0, len(o.outputVariables))
	for key, val := range o.outputVariables {
		expression, err := govaluate.NewEvaluableExpressionWithFunctions(val, o.outputFunctions)
		if err != nil {
			return fmt.Errorf("priomap: output variable %s: %v", key, err)
		}
		uniqueVars := removeDuplicates(expression.Vars())
		for _, uniqueVar := range uniqueVars {
			def, ok := o.outputVariables[uniqueVar]
			if !ok || def == uniqueVar {
				o.modelVariables = append(o.modelVariables, uniqueVar)
				continue
			}
			// Substitute only standalone instances of the variable name:
			// 'Rich' must not match inside 'RelRich'.
			splitVal := strings.Split(val, uniqueVar)
			for i := 0; i < len(splitVal)-1; i++ {
				isSuffix := isWordEdge(lastChar(splitVal[i]))
				isPrefix := isWordEdge(firstChar(splitVal[i+1]))
				splitVal[i] = splitVal[i] + uniqueVar
				if !isSuffix && !isPrefix {
					splitVal[i] = strings.Replace(splitVal[i], uniqueVar, "("+def+")", -1)
				}
			}
			o.outputVariables[key] = strings.Join(splitVal, "")
			return o.checkForDerivatives()
		}
	}
	o.modelVariables = removeDuplicates(o.modelVariables)
	sort.Strings(o.modelVariables)
	return nil
}

func firstChar(s string) string {
	if s == "" {
		return ""
	}
	return s[0:1]
}

func lastChar(s string) string {
	if s == "" {
		return ""
	}
	return s[len(s)-1:]
}

// checkModelVars checks that the unique built-in variables required to
// calculate the requested output variables exist.
func (o *Outputter) checkModelVars() error {
	known := cellVariables(new(ScoredCell))
	for _, v := range o.modelVariables {
		if _, ok := known[v]; !ok {
			return fmt.Errorf("priomap: undefined variable name '%s'", v)
		}
	}
	return nil
}

// checkOutputNames checks (1) if any output variable names exceed 10
// characters and (2) if any output variable names include characters that
// are unsupported in shapefile field names.
func checkOutputNames(o map[string]string) error {
	for key := range o {
		long := len(key) > 10
		ok, err := regexp.MatchString("^[A-Za-z]\\w*$", key)
		if err != nil {
			panic(err)
		}
		if long && !ok {
			return fmt.Errorf("priomap: output variable name '%s' exceeds 10 characters and includes unsupported character(s)", key)
		} else if long {
			return fmt.Errorf("priomap: output variable name '%s' exceeds 10 characters", key)
		} else if !ok {
			return fmt.Errorf("priomap: output variable name '%s' includes unsupported characters", key)
		}
	}
	return nil
}

// Results calculates the requested output variables for each scored cell,
// returning one value slice per variable in cell order.
func (o *Outputter) Results(cells []ScoredCell) (map[string][]float64, error) {
	if err := o.checkModelVars(); err != nil {
		return nil, err
	}
	results := make(map[string][]float64, len(o.outputVariables))
	for key, val := range o.outputVariables {
		expression, err := govaluate.NewEvaluableExpressionWithFunctions(val, o.outputFunctions)
		if err != nil {
			return nil, fmt.Errorf("priomap: output variable %s: %v", key, err)
		}
		vals := make([]float64, len(cells))
		for i := range cells {
			result, err := expression.Evaluate(cellVariables(&cells[i]))
			if err != nil {
				return nil, fmt.Errorf("priomap: evaluating output variable %s: %v", key, err)
			}
			v, ok := result.(float64)
			if !ok {
				return nil, fmt.Errorf("priomap: output variable %s: expression yielded %T; need float64", key, result)
			}
			vals[i] = v
		}
		results[key] = vals
	}
	return results, nil
}

// Output writes the requested output variables for the given scored cells to
// a polygon shapefile, one feature per cell, along with a .prj projection
// sidecar file.
func (o *Outputter) Output(cells []ScoredCell, config *GridConfig) error {
	results, err := o.Results(cells)
	if err != nil {
		return err
	}

	vars := make([]string, 0, len(results))
	for v := range results {
		vars = append(vars, v)
	}
	sort.Strings(vars)
	fields := make([]goshp.Field, len(vars))
	for i, v := range vars {
		fields[i] = goshp.FloatField(v, 14, 8)
	}

	// Remove the extension and replace it with .shp.
	fileBase := strings.TrimSuffix(o.fileName, filepath.Ext(o.fileName))
	fileName := fileBase + ".shp"
	shape, err := shp.NewEncoderFromFields(fileName, goshp.POLYGON, fields...)
	if err != nil {
		return fmt.Errorf("priomap: creating output shapefile: %v", err)
	}
	for i := range cells {
		outFields := make([]interface{}, len(vars))
		for j, v := range vars {
			outFields[j] = results[v][i]
		}
		if err := shape.EncodeFields(config.CellGeom(cells[i].ID), outFields...); err != nil {
			return fmt.Errorf("priomap: writing output shapefile: %v", err)
		}
	}
	shape.Close()

	f, err := os.Create(fileBase + ".prj")
	if err != nil {
		return fmt.Errorf("priomap: creating output prj file: %v", err)
	}
	fmt.Fprint(f, config.GridProj)
	return f.Close()
}
