package levenshtein

// Distance returns the Levenshtein edit distance between a and b.
// A single row of the DP table is kept and overwritten in place.
func Distance(a, b string) int {
	ar := []rune(a)
	br := []rune(b)
	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}

	row := make([]int, len(br)+1)
	for j := range row {
		row[j] = j
	}

	for i, ac := range ar {
		// prev holds the value diagonally up-left before it is overwritten.
		prev := row[0]
		row[0] = i + 1
		for j, bc := range br {
			sub := prev
			if ac != bc {
				sub++
			}
			prev = row[j+1]
			row[j+1] = minOf(row[j]+1, row[j+1]+1, sub)
		}
	}

	return row[len(br)]
}

func minOf(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
