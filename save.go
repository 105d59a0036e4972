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
	"encoding/gob"
	"fmt"
	"io"
)

// scoredState is the on-disk form of a scoring session.
type scoredState struct {
	Config GridConfig
	Cells  []ScoredCell
}

// SaveScored writes scored cells and their grid definition to w in gob
// format so a scoring session can be reloaded without recomputation.
func SaveScored(w io.Writer, config *GridConfig, cells []ScoredCell) error {
	e := gob.NewEncoder(w)
	if err := e.Encode(scoredState{Config: *config, Cells: cells}); err != nil {
		return fmt.Errorf("priomap.SaveScored: %v", err)
	}
	return nil
}

// LoadScored loads the data from a previously saved scoring session.
func LoadScored(r io.Reader) (*GridConfig, []ScoredCell, error) {
	dec := gob.NewDecoder(r)
	var s scoredState
	if err := dec.Decode(&s); err != nil {
		return nil, nil, fmt.Errorf("priomap.LoadScored: %v", err)
	}
	return &s.Config, s.Cells, nil
}
