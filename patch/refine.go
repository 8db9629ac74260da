package patch

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grailbio/asmpatch/apps/bedtools"
)

// stem returns the base name of path up to its first dot, the prefix used
// to derive sibling output names.
func stem(path string) string {
	base := filepath.Base(path)
	if dot := strings.IndexByte(base, '.'); dot >= 0 {
		return base[:dot]
	}
	return base
}

// parseRows splits tool output into whitespace-separated rows, dropping
// blank lines.
func parseRows(data []byte) [][]string {
	var rows [][]string
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		rows = append(rows, fields)
	}
	return rows
}

// selectGaps partitions intersection rows into breakpoint regions with no
// overlapping gap (returned as the original 3-column regions) and, for
// regions overlapping one or more gaps, the row tail describing the
// largest gap.  Rows sharing their first three columns form one region;
// the largest gap is the one with the highest overlap base count in the
// final column, the last such row winning exact ties.
func selectGaps(rows [][]string) (nogaps []string, largest []string, err error) {
	flush := func(region []string, group [][]string) error {
		if len(group) == 0 {
			return nil
		}
		if len(group) == 1 && group[0][3] == "." {
			if group[0][4] != "-1" {
				return fmt.Errorf("patch.selectGaps: null intersection for %v carries start %q, want -1",
					region, group[0][4])
			}
			nogaps = append(nogaps, strings.Join(region, "\t"))
			return nil
		}
		bestOverlap := -1
		var bestRow []string
		for _, row := range group {
			overlap, err := strconv.Atoi(row[len(row)-1])
			if err != nil {
				return fmt.Errorf("patch.selectGaps: bad overlap count in %v", row)
			}
			if overlap >= bestOverlap {
				bestOverlap = overlap
				bestRow = row
			}
		}
		largest = append(largest, strings.Join(bestRow[3:], "\t"))
		return nil
	}

	var region []string
	var group [][]string
	for _, row := range rows {
		if len(row) < 5 {
			return nil, nil, fmt.Errorf("patch.selectGaps: intersection row %v has fewer than 5 fields", row)
		}
		if region == nil || !sameRegion(region, row) {
			if err := flush(region, group); err != nil {
				return nil, nil, err
			}
			region = row[:3]
			group = group[:0]
		}
		group = append(group, row)
	}
	if err := flush(region, group); err != nil {
		return nil, nil, err
	}
	return nogaps, largest, nil
}

func sameRegion(region []string, row []string) bool {
	return region[0] == row[0] && region[1] == row[1] && region[2] == row[2]
}

// cutClosest reduces closestBed output rows to their 4th through 7th
// columns, the coordinates and name of the nearest gap.
func cutClosest(rows [][]string) []string {
	var out []string
	for _, row := range rows {
		hi := len(row)
		if hi > 7 {
			hi = 7
		}
		if len(row) <= 3 {
			continue
		}
		out = append(out, strings.Join(row[3:hi], "\t"))
	}
	return out
}

// Refine intersects breakpoint regions with known sequencing gaps and
// picks one gap per region: the largest overlapping gap where one exists,
// the nearest gap otherwise.  Alongside the returned refined BED it leaves
// the raw intersection at <prefix>.bed, where the prefix joins the stems
// of the two inputs in the breakpoints file's directory.  Intermediate
// files are deleted best-effort.
func Refine(breakpointsBed, gapsBed string) (refinedBed string, err error) {
	pf := filepath.Join(filepath.Dir(breakpointsBed), stem(breakpointsBed)+"."+stem(gapsBed))
	inGapsBed := pf + ".bed"
	out := bedtools.IntersectWAO(breakpointsBed, gapsBed)
	if err = ioutil.WriteFile(inGapsBed, out, 0644); err != nil {
		return "", err
	}

	nogaps, largest, err := selectGaps(parseRows(out))
	if err != nil {
		return "", err
	}

	nogapsBed := pf + ".nogaps.bed"
	largestGapsBed := pf + ".largestgaps.bed"
	if err = ioutil.WriteFile(nogapsBed, joinLines(nogaps), 0644); err != nil {
		return "", err
	}
	if err = ioutil.WriteFile(largestGapsBed, joinLines(largest), 0644); err != nil {
		return "", err
	}

	closestGapsBed := pf + ".closestgaps.bed"
	closest := cutClosest(parseRows(bedtools.Closest(nogapsBed, gapsBed)))
	if err = ioutil.WriteFile(closestGapsBed, joinLines(closest), 0644); err != nil {
		return "", err
	}

	refinedBed = pf + ".refined.bed"
	var merged bytes.Buffer
	merged.Write(joinLines(largest))
	merged.Write(joinLines(closest))
	if err = ioutil.WriteFile(refinedBed, merged.Bytes(), 0644); err != nil {
		return "", err
	}

	for _, path := range []string{nogapsBed, largestGapsBed, closestGapsBed} {
		_ = os.Remove(path)
	}
	return refinedBed, nil
}

func joinLines(lines []string) []byte {
	if len(lines) == 0 {
		return nil
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}
