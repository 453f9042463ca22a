package services

// MatchCutoff is the minimum similarity a market label needs to count as the
// same morph as the one being priced.
const MatchCutoff = 0.7

// MatchMorph returns the candidate label most similar to target, provided its
// similarity reaches MatchCutoff. Ties go to the earliest candidate.
func MatchMorph(target string, candidates []string) (string, bool) {
	best := ""
	bestScore := -1.0
	for _, c := range candidates {
		score := Similarity(c, target)
		if score >= MatchCutoff && score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, bestScore >= 0
}

// Similarity scores two strings in [0, 1] using the Ratcliff/Obershelp
// measure: twice the number of characters in matching blocks divided by the
// total number of characters. Comparison is case and whitespace sensitive.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	index := make(map[rune][]int, len(rb))
	for j, r := range rb {
		index[r] = append(index[r], j)
	}

	matched := matchingChars(ra, rb, index, 0, len(ra), 0, len(rb))
	return 2.0 * float64(matched) / float64(total)
}

// matchingChars sums the sizes of the matching blocks of a[alo:ahi] and
// b[blo:bhi], found by taking the longest common block and recursing on both
// sides of it.
func matchingChars(a, b []rune, index map[rune][]int, alo, ahi, blo, bhi int) int {
	i, j, size := longestMatch(a, index, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}

	n := size
	if alo < i && blo < j {
		n += matchingChars(a, b, index, alo, i, blo, j)
	}
	if i+size < ahi && j+size < bhi {
		n += matchingChars(a, b, index, i+size, ahi, j+size, bhi)
	}
	return n
}

// longestMatch finds the longest block common to a[alo:ahi] and b[blo:bhi].
// Among equally long blocks the one starting earliest in a wins, then the one
// starting earliest in b.
func longestMatch(a []rune, index map[rune][]int, alo, ahi, blo, bhi int) (besti, bestj, bestSize int) {
	besti, bestj = alo, blo
	runLen := map[int]int{}
	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range index[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := runLen[j-1] + 1
			next[j] = k
			if k > bestSize {
				besti, bestj, bestSize = i-k+1, j-k+1, k
			}
		}
		runLen = next
	}
	return besti, bestj, bestSize
}
