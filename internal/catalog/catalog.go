// Package catalog implements the titled, versioned, soft-deletable
// reference collections: departments, firms, modifications and the two
// work-type catalogs. One service is instantiated per kind; they share the
// same contract and differ only in the kind tag they stamp on rows, events
// and audit entries.
package catalog

import (
	catalogDatamodel "github.com/bossrus/workflow-go/internal/core/datamodel/catalog"
	"github.com/bossrus/workflow-go/internal/readmodel"
	"github.com/bossrus/workflow-go/internal/slug"
)

// The five catalog kinds. These double as notification entity kinds.
const (
	KindDepartments   = "departments"
	KindFirms         = "firms"
	KindModifications = "modifications"
	KindWorkTypes     = "worktypes"
	KindTypesOfWork   = "typesofwork"
)

func Kinds() []string {
	return []string{KindDepartments, KindFirms, KindModifications, KindWorkTypes, KindTypesOfWork}
}

// entryOf projects a store row into its cached form. The slug is recomputed
// from the title rather than trusted from the row, so nothing external can
// plant a stale or foreign slug in the cache.
func entryOf(row *catalogDatamodel.Entry) readmodel.CatalogEntry {
	return readmodel.CatalogEntry{
		ID:               row.ID,
		Title:            row.Title,
		TitleSlug:        slug.Make(row.Title),
		NumberInWorkflow: row.NumberInWorkflow,
		IsUsedInWorkflow: row.IsUsedInWorkflow,
		Version:          row.Version,
	}
}
