// Package patch implements the assembly patching pipeline: finding
// scaffold breakpoints from a genetic map, refining breakpoint regions
// against sequencing gaps, preparing patcher sequences from an optical map
// alignment, and writing overlap certificates for a tiling path.
//
// The pipeline patches a backbone assembly (by convention the
// whole-genome-shotgun scaffolds) with sequence from a second assembly.
// Each step is a one-shot batch transformation over flat tabular files,
// run independently from the command line.
package patch

import (
	"io"

	"github.com/grailbio/asmpatch/encoding/mstmap"
	"github.com/grailbio/asmpatch/util"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
)

// Label classifies the relationship between two consecutive genetic-map
// markers.
type Label int

const (
	// OK means the markers agree: same scaffold, genotype differences
	// within the allowed ratio.
	OK Label = iota
	// Break means the markers sit on one scaffold but their genotype
	// patterns disagree beyond the allowed ratio.
	Break
	// End means the markers lie on different scaffolds, so no comparison
	// applies.
	End
)

// Breakpoint is a scaffold range bounded by two markers whose genotype
// patterns disagree.  The positions keep the textual form of the marker
// names so they round-trip into BED output unchanged.
type Breakpoint struct {
	Scaffold string
	APos     string
	BPos     string
}

// CheckMarkers classifies the consecutive markers a and b.  Markers on
// different scaffolds yield End.  Otherwise their genotype rows are
// compared, skipping missing calls, and the pair is a Break when the
// disagreement count exceeds maxdiff times the row length.  Break comes
// with the breakpoint range implied by the two marker positions.
func CheckMarkers(a, b mstmap.Marker, maxdiff float64) (Label, *Breakpoint) {
	if a.Scaffold != b.Scaffold {
		return End, nil
	}
	diff := util.GenotypeDistance(a.Genotypes, b.Genotypes)
	maxAllowed := float64(len(a.Genotypes)) * maxdiff
	if float64(diff) <= maxAllowed {
		return OK, nil
	}
	return Break, &Breakpoint{Scaffold: a.Scaffold, APos: a.Pos, BPos: b.Pos}
}

// DropSingletons returns the markers surviving singleton removal, plus the
// number removed.  A marker whose comparisons against both neighbors are
// Break looks like an isolated double crossover and would otherwise yield
// two spurious adjacent break calls.  Only interior markers are
// considered, so the two boundary markers never reach the retained
// sequence.
func DropSingletons(markers []mstmap.Marker, maxdiff float64) ([]mstmap.Marker, int) {
	var good []mstmap.Marker
	nSingletons := 0
	for i := 1; i+1 < len(markers); i++ {
		a := markers[i]
		leftLabel, _ := CheckMarkers(markers[i-1], a, maxdiff)
		rightLabel, _ := CheckMarkers(a, markers[i+1], maxdiff)
		if leftLabel == Break && rightLabel == Break {
			nSingletons++
			continue
		}
		good = append(good, a)
	}
	return good, nSingletons
}

// Breakpoints runs singleton removal and then compares consecutive
// retained markers, returning the ranges classified as Break in scan
// order.
func Breakpoints(markers []mstmap.Marker, maxdiff float64) []Breakpoint {
	good, nSingletons := DropSingletons(markers, maxdiff)
	log.Printf("A total of %d singleton markers removed.", nSingletons)

	var breakpoints []Breakpoint
	for i := 0; i+1 < len(good); i++ {
		label, bp := CheckMarkers(good[i], good[i+1], maxdiff)
		if label == Break {
			breakpoints = append(breakpoints, *bp)
		}
	}
	return breakpoints
}

// WriteBreakpoints emits breakpoints as 3-column BED lines, positions
// verbatim.
func WriteBreakpoints(w io.Writer, breakpoints []Breakpoint) error {
	out := tsv.NewWriter(w)
	for _, bp := range breakpoints {
		out.WriteString(bp.Scaffold)
		out.WriteString(bp.APos)
		out.WriteString(bp.BPos)
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}
