package table

// PageCount returns the number of pages needed for n rows, never less than 1.
func PageCount(n, pageSize int) int {
	if pageSize <= 0 || n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// Paginate returns the half-open range [start, end) of rows shown on the
// 1-indexed page. Pages outside [1, PageCount] are clamped.
func Paginate(n, pageSize, page int) (start, end int) {
	if pageSize <= 0 {
		return 0, max(n, 0)
	}
	page = clamp(page, 1, PageCount(n, pageSize))
	start = min((page-1)*pageSize, max(n, 0))
	end = min(page*pageSize, max(n, 0))
	return start, end
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
