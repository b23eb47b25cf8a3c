package data

import (
	"math"
	"sort"
	"strings"

	"sportpulse/pkg/client/api"
)

// CategoryAll disables category filtering.
const CategoryAll = "all"

// Sort fields.
const (
	SortCreatedAt = "createdAt"
	SortViews     = "views"
	SortTitle     = "title"
)

// Filters are applied client-side to the loaded posts.
type Filters struct {
	Search    string
	Category  string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

func DefaultFilters() Filters {
	return Filters{Category: CategoryAll, SortBy: SortCreatedAt, SortOrder: "desc", Page: 1, Limit: 10}
}

// Page is one page of filtered posts.
type Page struct {
	Posts       []api.Post
	CurrentPage int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// Stats summarizes the loaded collections.
type Stats struct {
	TotalPosts    int
	TotalComments int
	CachedItems   int
	FilteredPosts int
}

// filterPosts searches title and text case-insensitively, matches the category
// exactly and sorts stably, so equal keys keep their loaded order.
func filterPosts(posts []api.Post, f Filters) []api.Post {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]api.Post, 0, len(posts))
	for _, p := range posts {
		if f.Category != "" && f.Category != CategoryAll && p.Category != f.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Text), search) {
			continue
		}
		out = append(out, p)
	}

	desc := f.SortOrder != "asc"
	less := func(a, b api.Post) bool {
		switch f.SortBy {
		case SortViews:
			return a.Views < b.Views
		case SortTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func paginate(posts []api.Post, page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultFilters().Limit
	}
	start := (page - 1) * limit
	end := start + limit
	if start > len(posts) {
		start = len(posts)
	}
	if end > len(posts) {
		end = len(posts)
	}
	return Page{
		Posts:       posts[start:end],
		CurrentPage: page,
		TotalPages:  int(math.Ceil(float64(len(posts)) / float64(limit))),
		HasNext:     start+limit < len(posts),
		HasPrevious: page > 1,
	}
}

func popular(posts []api.Post, n int) []api.Post {
	out := append([]api.Post(nil), posts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	if n < len(out) {
		out = out[:n]
	}
	return out
}
