package util

import "fmt"

// Missing is the genotype call recorded when an individual could not be
// scored at a marker. Positions carrying it on either side are excluded
// from distance computations.
const Missing = "-"

// GenotypeDistance returns the number of positions at which the two
// genotype rows disagree. A position where either row holds the Missing
// call does not count as a disagreement. The rows must have the same
// number of calls; a length mismatch is a programming error and panics.
func GenotypeDistance(a, b []string) (distance int) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("a and b must have equal length: %d, %d", len(a), len(b)))
	}
	for i, ca := range a {
		cb := b[i]
		if ca == Missing || cb == Missing {
			continue
		}
		if ca != cb {
			distance++
		}
	}
	return distance
}
