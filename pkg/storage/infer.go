package storage

import (
	"strings"

	"github.com/g-zangara/OrganigrammaAziendale/pkg/org"
)

// rootNameHints are substrings that mark a unit name as a likely
// company root when several parentless units compete.
var rootNameHints = []string{"acme", "root", "azienda", "company", "corp"}

// InferRoot picks the root of a chart from a flat list of units, in
// the order the units were read. The policy is applied in order and
// the first rule that decides wins:
//
//  1. exactly one parentless unit: that unit
//  2. a parentless unit whose lowercased name contains a known
//     company hint (first in read order)
//  3. the parentless unit with the most descendants
//  4. the first parentless unit in read order
//
// With no parentless units at all, which only happens on cyclic or
// truncated data, the first unit in read order is returned. An empty
// list yields nil.
func InferRoot(units []*org.Unit) *org.Unit {
	if len(units) == 0 {
		return nil
	}

	var candidates []*org.Unit
	for _, u := range units {
		if u.Parent() == nil {
			candidates = append(candidates, u)
		}
	}
	if len(candidates) == 0 {
		return units[0]
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	for _, u := range candidates {
		name := strings.ToLower(u.Name())
		for _, hint := range rootNameHints {
			if strings.Contains(name, hint) {
				return u
			}
		}
	}

	best := candidates[0]
	bestN := best.Descendants()
	for _, u := range candidates[1:] {
		if n := u.Descendants(); n > bestN {
			best, bestN = u, n
		}
	}
	return best
}
