package interval

import (
	"fmt"
	"strconv"
	"strings"
)

// Region is a zero-based half-open range on a named sequence.
type Region struct {
	Chrom string
	Start int
	End   int
}

// ParseRegion parses a region string of one of the forms
//   [seq name]:[start]-[end]
//   [seq name]
// returning the sequence name and interval boundaries.  Coordinates are
// taken verbatim: region strings written by this toolkit (patcher names,
// fastaFromBed record names) carry BED-convention zero-based half-open
// numbers, so no base conversion is applied.  A bare sequence name yields
// the empty interval [0, 0).
func ParseRegion(region string) (result Region, err error) {
	if len(region) == 0 {
		err = fmt.Errorf("interval.ParseRegion: empty region string")
		return
	}
	colonPos := strings.LastIndexByte(region, ':')
	if colonPos == -1 {
		result.Chrom = region
		return
	}
	if colonPos == 0 {
		err = fmt.Errorf("interval.ParseRegion: empty sequence name in %q", region)
		return
	}
	result.Chrom = region[0:colonPos]
	rangeStr := region[colonPos+1:]
	dashPos := strings.IndexByte(rangeStr, '-')
	if dashPos == -1 {
		err = fmt.Errorf("interval.ParseRegion: missing '-' in range string %q", rangeStr)
		return
	}
	if result.Start, err = strconv.Atoi(rangeStr[:dashPos]); err != nil {
		err = fmt.Errorf("interval.ParseRegion: bad start in range string %q", rangeStr)
		return
	}
	if result.End, err = strconv.Atoi(rangeStr[dashPos+1:]); err != nil {
		err = fmt.Errorf("interval.ParseRegion: bad end in range string %q", rangeStr)
		return
	}
	if result.Start < 0 || result.End < result.Start {
		err = fmt.Errorf("interval.ParseRegion: invalid range string %q", rangeStr)
		return
	}
	return
}

// String formats the region as "chrom:start-end".
func (r Region) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Chrom, r.Start, r.End)
}

// Len returns the number of positions covered.
func (r Region) Len() int {
	return r.End - r.Start
}

// Pad expands the region by flank positions on both sides, clipping the
// result to [0, size).  The returned start is never negative and the
// returned end never exceeds size.
func (r Region) Pad(flank, size int) Region {
	padded := Region{Chrom: r.Chrom, Start: r.Start - flank, End: r.End + flank}
	if padded.Start < 0 {
		padded.Start = 0
	}
	if padded.End > size {
		padded.End = size
	}
	return padded
}
