package org

import "strings"

// CatalogEntry describes a well-known role and the unit kinds it is
// valid for.
type CatalogEntry struct {
	Name        string
	Description string
	Kinds       []Kind
}

// catalog is the built-in set of well-known roles. Role names outside
// the catalog are accepted with a warning; names inside it are checked
// against the unit kind they are defined on.
var catalog = []CatalogEntry{
	{Name: "Presidente", Description: "Presiede il consiglio", Kinds: []Kind{KindBoard}},
	{Name: "Vicepresidente", Description: "Sostituisce il presidente", Kinds: []Kind{KindBoard}},
	{Name: "Segretario", Description: "Verbalizza le sedute", Kinds: []Kind{KindBoard}},

	{Name: "Direttore", Description: "Dirige il dipartimento", Kinds: []Kind{KindDepartment}},
	{Name: "Responsabile Amministrativo", Description: "Gestisce l'amministrazione", Kinds: []Kind{KindDepartment}},
	{Name: "Referente Tecnico", Description: "Riferimento tecnico", Kinds: []Kind{KindDepartment}},
	{Name: "Responsabile Commerciale", Description: "Gestisce le vendite", Kinds: []Kind{KindDepartment}},
	{Name: "Responsabile Risorse Umane", Description: "Gestisce il personale", Kinds: []Kind{KindDepartment}},
	{Name: "Responsabile Logistica", Description: "Gestisce la logistica", Kinds: []Kind{KindDepartment}},
	{Name: "Analista", Description: "Analizza processi e dati", Kinds: []Kind{KindDepartment}},
	{Name: "Consulente", Description: "Consulenza specialistica", Kinds: []Kind{KindDepartment}},
	{Name: "Data Protection Officer", Description: "Responsabile protezione dati", Kinds: []Kind{KindDepartment}},
	{Name: "Chief Financial Officer", Description: "Responsabile finanziario", Kinds: []Kind{KindDepartment}},
	{Name: "Chief Technology Officer", Description: "Responsabile tecnologico", Kinds: []Kind{KindDepartment}},
	{Name: "HR Specialist", Description: "Specialista risorse umane", Kinds: []Kind{KindDepartment}},
	{Name: "Quality Assurance Manager", Description: "Responsabile qualita", Kinds: []Kind{KindDepartment}},

	{Name: "Consigliere", Description: "Membro con funzioni consultive", Kinds: []Kind{KindDepartment, KindGroup}},

	{Name: "Coordinatore", Description: "Coordina il gruppo", Kinds: []Kind{KindGroup}},
	{Name: "Team Leader", Description: "Guida operativa del gruppo", Kinds: []Kind{KindGroup}},
	{Name: "Tutor", Description: "Affianca i nuovi membri", Kinds: []Kind{KindGroup}},
	{Name: "Collaboratore", Description: "Collabora alle attivita", Kinds: []Kind{KindGroup}},
	{Name: "Membro", Description: "Membro del gruppo", Kinds: []Kind{KindGroup}},
	{Name: "Stagista", Description: "Tirocinante", Kinds: []Kind{KindGroup}},
}

// Catalog returns the built-in role catalog. The returned slice is a
// copy.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	copy(out, catalog)
	return out
}

// CatalogFor returns the catalog entries valid for the given kind.
func CatalogFor(kind Kind) []CatalogEntry {
	var out []CatalogEntry
	for _, e := range catalog {
		for _, k := range e.Kinds {
			if k == kind {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// LookupRole finds the catalog entry for a role name, matching
// case-insensitively. It returns the entry and whether it was found.
func LookupRole(name string) (CatalogEntry, bool) {
	for _, e := range catalog {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// ValidFor reports whether the entry is valid on a unit of the given
// kind.
func (e CatalogEntry) ValidFor(kind Kind) bool {
	for _, k := range e.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
