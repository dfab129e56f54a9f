package pgalign

// FindExactMatches returns every exact length-k match between query
// and ref, adapted byte-for-byte from
// dna_aligner/matching/kmer.go's FindExactMatches, generalized from
// string indexing to []byte.
func FindExactMatches(query, ref []byte, k int) []KmerMatch {
	if k <= 0 || k > len(ref) || k > len(query) {
		return nil
	}
	refKmers := make(map[string][]int)
	for i := 0; i <= len(ref)-k; i++ {
		refKmers[string(ref[i:i+k])] = append(refKmers[string(ref[i:i+k])], i)
	}
	var matches []KmerMatch
	for i := 0; i <= len(query)-k; i++ {
		kmer := string(query[i : i+k])
		for _, rPos := range refKmers[kmer] {
			matches = append(matches, KmerMatch{QueryPos: i, RefPos: rPos, Length: k})
		}
	}
	return matches
}
