package analytics

// PageInfo describes one page of a listing. Pages are 1-based.
type PageInfo struct {
	Page    int
	PerPage int
	Pages   int
	Total   int
}

// Page slices items for the given page. Out of range pages are clamped and a
// non-positive perPage returns everything on one page.
func Page[T any](items []T, page, perPage int) ([]T, PageInfo) {
	total := len(items)
	if perPage <= 0 {
		perPage = max(total, 1)
	}
	pages := max((total+perPage-1)/perPage, 1)
	page = min(max(page, 1), pages)

	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)
	return items[start:end], PageInfo{Page: page, PerPage: perPage, Pages: pages, Total: total}
}
