package storage

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/g-zangara/OrganigrammaAziendale/pkg/org"
)

var whitespace = regexp.MustCompile(`\s+`)

// UnitID derives the stable identifier of a unit from its position in
// the tree. The ID is deterministic for an unchanged tree and is
// recomputed on every save, never stored on the unit itself.
//
// The shape is "pre_name_hash" with an optional "_index" suffix:
// the first three letters of the kind, the lowercased name with
// whitespace runs collapsed to underscores, a structural hash folded
// into four digits, and the 1-based position among siblings when the
// unit has a parent. The sibling index keeps IDs distinct even when
// hash and name collide.
func UnitID(u *org.Unit) string {
	base := strings.ToLower(whitespace.ReplaceAllString(u.Name(), "_"))
	prefix := strings.ToLower(u.Kind().String())[:3]
	id := fmt.Sprintf("%s_%s_%d", prefix, base, structuralHash(u)%10000)
	if p := u.Parent(); p != nil {
		for i, sib := range p.Children() {
			if sib == u {
				id += fmt.Sprintf("_%d", i+1)
				break
			}
		}
	}
	return id
}

// structuralHash folds the unit's own fields into a small number.
// Children are deliberately excluded so that editing a subtree does
// not change the IDs of its ancestors.
func structuralHash(u *org.Unit) uint32 {
	h := fnv.New32a()
	h.Write([]byte(u.Kind().String()))
	h.Write([]byte{0})
	h.Write([]byte(u.Name()))
	h.Write([]byte{0})
	h.Write([]byte(u.Description()))
	return h.Sum32()
}

// RoleKey identifies a role definition within a flattened chart. Role
// names are only unique per unit, so the key pairs the owning unit's
// ID with the role name.
func RoleKey(unitID, roleName string) string {
	return unitID + "\x00" + roleName
}
