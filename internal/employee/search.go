package employee

import (
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Filter applies the query and validity parts of filter. Status and org unit
// are matched by the store.
func Filter(employees []*Employee, filter ListFilter, today time.Time) []*Employee {
	q := strings.TrimSpace(filter.Query)
	out := make([]*Employee, 0, len(employees))
	for _, e := range employees {
		if q != "" && !fuzzy.MatchNormalizedFold(q, searchText(e)) {
			continue
		}
		if filter.Validity != "" && !e.MatchesValidity(filter.Validity, today) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func searchText(e *Employee) string {
	text := e.FirstName + " " + e.LastName
	if e.EmployeeNumber != nil {
		text += " " + *e.EmployeeNumber
	}
	return text
}
