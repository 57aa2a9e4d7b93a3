package services

import (
	"cmp"
	"slices"

	"github.com/dmitrijs2005/lightbox/internal/server/models"
)

// sortProjects puts projects with an explicit order first, ascending, and
// the rest after them, newest first. Ties on order also go newest first.
func sortProjects(ps []*models.Project) {
	slices.SortStableFunc(ps, func(a, b *models.Project) int {
		switch {
		case a.Order != nil && b.Order == nil:
			return -1
		case a.Order == nil && b.Order != nil:
			return 1
		case a.Order != nil && b.Order != nil && *a.Order != *b.Order:
			return cmp.Compare(*a.Order, *b.Order)
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
