package company

// Similarity returns the Ratcliff/Obershelp ratio of a and b in [0,1]:
// twice the number of matched runes divided by the total rune count.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matchedRunes(ra, rb, 0, len(ra), 0, len(rb))) / float64(total)
}

// matchedRunes sums the sizes of the matching blocks found by repeatedly
// taking the longest common substring and recursing on both sides of it.
func matchedRunes(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, k := longestMatch(a, b, alo, ahi, blo, bhi)
	if k == 0 {
		return 0
	}
	n := k
	if alo < i && blo < j {
		n += matchedRunes(a, b, alo, i, blo, j)
	}
	if i+k < ahi && j+k < bhi {
		n += matchedRunes(a, b, i+k, ahi, j+k, bhi)
	}
	return n
}

// longestMatch finds the longest block a[i:i+k] == b[j:j+k] within the given
// bounds, preferring the earliest start in a, then in b.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestk int) {
	besti, bestj = alo, blo
	prev := make([]int, bhi-blo+1)
	for i := alo; i < ahi; i++ {
		cur := make([]int, bhi-blo+1)
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := prev[j-blo] + 1
			cur[j-blo+1] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		prev = cur
	}
	return besti, bestj, bestk
}
