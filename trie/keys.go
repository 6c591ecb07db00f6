package trie

// CompareKeys orders keys lexicographically by character unit, with a proper
// prefix sorting before its extensions. This is the total order the builder
// requires of its input.
func CompareKeys(a, b []Char) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

func commonPrefixLen(a, b []Char) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
