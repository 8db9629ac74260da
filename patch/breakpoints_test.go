package patch_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/grailbio/asmpatch/encoding/mstmap"
	"github.com/grailbio/asmpatch/patch"
)

func marker(id string, genotypes ...string) mstmap.Marker {
	m := mstmap.Marker{ID: id, Genotypes: genotypes}
	for i := len(id) - 1; i >= 0; i-- {
		if id[i] == '.' {
			m.Scaffold, m.Pos = id[:i], id[i+1:]
			break
		}
	}
	return m
}

func TestCheckMarkers(t *testing.T) {
	tests := []struct {
		a, b    mstmap.Marker
		maxdiff float64
		want    patch.Label
	}{
		// Different scaffolds: End no matter how different the genotypes.
		{marker("s1.100", "A", "A"), marker("s2.200", "B", "B"), 0.1, patch.End},
		{marker("s1.100", "A", "A"), marker("s2.200", "A", "A"), 0.1, patch.End},
		// Identical rows.
		{marker("s1.100", "A", "B", "A", "B"), marker("s1.200", "A", "B", "A", "B"), 0.1, patch.OK},
		// 1 of 4 differs, ratio 0.25 > 0.1.
		{marker("s1.100", "A", "B", "A", "B"), marker("s1.200", "A", "B", "A", "A"), 0.1, patch.Break},
		// Same difference count under a looser threshold.
		{marker("s1.100", "A", "B", "A", "B"), marker("s1.200", "A", "B", "A", "A"), 0.5, patch.OK},
		// Difference count equal to len*maxdiff stays OK.
		{marker("s1.100", "A", "B", "A", "B"), marker("s1.200", "A", "B", "A", "A"), 0.25, patch.OK},
		// Missing calls on either side never count as differences.
		{marker("s1.100", "-", "B", "A", "B"), marker("s1.200", "A", "B", "A", "-"), 0.1, patch.OK},
	}
	for i, tt := range tests {
		got, bp := patch.CheckMarkers(tt.a, tt.b, tt.maxdiff)
		if got != tt.want {
			t.Errorf("case %d: CheckMarkers = %v, want %v", i, got, tt.want)
		}
		if (bp != nil) != (tt.want == patch.Break) {
			t.Errorf("case %d: breakpoint presence %v does not match label %v", i, bp, got)
		}
	}

	_, bp := patch.CheckMarkers(marker("s1.100", "A", "A"), marker("s1.250", "B", "B"), 0.1)
	want := &patch.Breakpoint{Scaffold: "s1", APos: "100", BPos: "250"}
	if !reflect.DeepEqual(bp, want) {
		t.Errorf("breakpoint: got %+v, want %+v", bp, want)
	}
}

func TestDropSingletons(t *testing.T) {
	// The middle marker disagrees with both neighbors, which agree with
	// each other: a lone double crossover.
	markers := []mstmap.Marker{
		marker("s1.100", "A", "A", "B", "B"),
		marker("s1.200", "A", "A", "B", "B"),
		marker("s1.300", "B", "B", "A", "A"),
		marker("s1.400", "A", "A", "B", "B"),
		marker("s1.500", "A", "A", "B", "B"),
	}
	good, n := patch.DropSingletons(markers, 0.1)
	if n != 1 {
		t.Errorf("DropSingletons: removed %d, want 1", n)
	}
	wantIDs := []string{"s1.200", "s1.400"}
	gotIDs := make([]string, len(good))
	for i, m := range good {
		gotIDs[i] = m.ID
	}
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Errorf("DropSingletons: got %v, want %v", gotIDs, wantIDs)
	}
}

func TestDropSingletonsKeepsScaffoldEdges(t *testing.T) {
	// A marker whose neighbors sit on other scaffolds compares as End on
	// both sides and is retained.
	markers := []mstmap.Marker{
		marker("s1.100", "A", "B"),
		marker("s2.100", "B", "A"),
		marker("s3.100", "A", "B"),
	}
	good, n := patch.DropSingletons(markers, 0.1)
	if n != 0 {
		t.Errorf("DropSingletons: removed %d, want 0", n)
	}
	if len(good) != 1 || good[0].ID != "s2.100" {
		t.Errorf("DropSingletons: got %v, want the middle marker only", good)
	}
}

func TestBreakpoints(t *testing.T) {
	// s1.300 is a lone double crossover and drops out; the phase flip
	// between s1.500 and s1.700 is sustained and survives as the one
	// breakpoint.  The scaffold change into s2 classifies as End.
	markers := []mstmap.Marker{
		marker("s1.100", "A", "A", "B", "B"),
		marker("s1.200", "A", "A", "B", "B"),
		marker("s1.300", "B", "B", "A", "A"),
		marker("s1.400", "A", "A", "B", "B"),
		marker("s1.500", "A", "A", "B", "B"),
		marker("s1.700", "B", "B", "A", "A"),
		marker("s1.800", "B", "B", "A", "A"),
		marker("s2.100", "A", "A", "A", "A"),
		marker("s2.200", "A", "A", "A", "A"),
	}
	got := patch.Breakpoints(markers, 0.1)
	want := []patch.Breakpoint{{Scaffold: "s1", APos: "500", BPos: "700"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Breakpoints: got %+v, want %+v", got, want)
	}
}

func TestWriteBreakpoints(t *testing.T) {
	var buf bytes.Buffer
	breakpoints := []patch.Breakpoint{
		{Scaffold: "s1", APos: "400", BPos: "700"},
		{Scaffold: "s9", APos: "0012", BPos: "900"},
	}
	if err := patch.WriteBreakpoints(&buf, breakpoints); err != nil {
		t.Fatalf("WriteBreakpoints: %v", err)
	}
	// Positions pass through verbatim, leading zeros and all.
	want := "s1\t400\t700\ns9\t0012\t900\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteBreakpoints: got %q, want %q", got, want)
	}
}
