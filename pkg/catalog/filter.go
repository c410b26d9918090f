package catalog

import (
	"sort"
	"strings"
	"time"

	"insight-web/pkg/models"
)

// RequestTimeLayout is how lead timestamps are shown in the admin panel and
// what the search box matches against.
const RequestTimeLayout = "02.01.2006, 15:04:05"

// FilterRequests keeps leads whose name, phone or creation time contains q,
// case-insensitively. loc is the zone timestamps are rendered in.
func FilterRequests(reqs []models.LeadRequest, q string, loc *time.Location) []models.LeadRequest {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return reqs
	}
	if loc == nil {
		loc = time.UTC
	}

	out := make([]models.LeadRequest, 0, len(reqs))
	for _, r := range reqs {
		if strings.Contains(strings.ToLower(r.Name), q) ||
			strings.Contains(strings.ToLower(r.Phone), q) ||
			strings.Contains(r.CreatedAt.In(loc).Format(RequestTimeLayout), q) {
			out = append(out, r)
		}
	}
	return out
}

// SortRequestsNewestFirst orders leads by creation time, latest on top.
func SortRequestsNewestFirst(reqs []models.LeadRequest) {
	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
	})
}

// FilterProducts keeps products whose title contains q, case-insensitively.
func FilterProducts(products []models.Product, q string) []models.Product {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
		}
	}
	return out
}
