package resolve

import "github.com/KannedaVIII/books-pipeline/internal/model"

// GroupByBookID partitions normalized records by their canonical identity.
// Member order within a group, and group order in the result, both follow
// input order, so downstream tie-break evaluation is deterministic given
// identical input ordering.
func GroupByBookID(records []model.NormalizedRecord) []model.Group {
	index := make(map[string]int, len(records))
	groups := make([]model.Group, 0, len(records))

	for _, rec := range records {
		id := BookID(rec)
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, model.Group{BookID: id})
		}
		groups[i].Members = append(groups[i].Members, rec)
	}

	return groups
}
