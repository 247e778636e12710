package postgres

import "strconv"

// placeholder renders the n-th positional parameter.
func placeholder(n int) string { return "$" + strconv.Itoa(n) }

// likePattern escapes LIKE metacharacters and wraps term for substring matching.
func likePattern(term string) string {
	out := make([]rune, 0, len(term)+2)
	out = append(out, '%')
	for _, r := range term {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(append(out, '%'))
}
