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

// Package priomap is a spatial prioritization model for marine protected-area
// planning. It combines gridded habitat-probability layers for target shark
// species with species richness and a distance-to-port cost surface to rank
// the cells of a management zone into conservation-priority deciles.
package priomap

// Version gives the version number.
const Version = "1.2.1"
