package bed_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/grailbio/asmpatch/encoding/bed"
)

func TestRead(t *testing.T) {
	in := `# optical map alignment
Scaffold_1	1000	2000	Scaffold_77:0-1500	0	+

Scaffold_1	2000	2500	Scaffold_9:100-550	0	-
chr3	0	500
chr4	10	20	gap000001
`
	want := []bed.Entry{
		{Chrom: "Scaffold_1", Start: 1000, End: 2000, Name: "Scaffold_77:0-1500", Score: "0", Strand: "+"},
		{Chrom: "Scaffold_1", Start: 2000, End: 2500, Name: "Scaffold_9:100-550", Score: "0", Strand: "-"},
		{Chrom: "chr3", Start: 0, End: 500},
		{Chrom: "chr4", Start: 10, End: 20, Name: "gap000001"},
	}
	got, err := bed.Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Read: got %+v, want %+v", got, want)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		in      string
		wantErr string
	}{
		{"chr1\t100\n", "fewer than 3 fields"},
		{"chr1\tabc\t200\n", "bad start"},
		{"chr1\t100\tabc\n", "bad end"},
		{"chr1\t-5\t200\n", "negative start"},
		{"chr1\t200\t100\n", "invalid coordinate pair"},
	}
	for _, test := range tests {
		_, err := bed.Read(strings.NewReader(test.in))
		if err == nil || !strings.Contains(err.Error(), test.wantErr) {
			t.Errorf("Read(%q): got err %v, want substring %q", test.in, err, test.wantErr)
		}
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := bed.NewWriter(&buf)
	entries := []bed.Entry{
		{Chrom: "chr1", Start: 0, End: 100},
		{Chrom: "chr1", Start: 100, End: 200, Name: "gap000001"},
		{Chrom: "chr2", Start: 5, End: 10, Name: "n", Score: "13", Strand: "-"},
		// Unset middle columns are dot-filled so the strand keeps its place.
		{Chrom: "chr2", Start: 10, End: 20, Strand: "+"},
	}
	for _, e := range entries {
		if err := w.Append(e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	want := `chr1	0	100
chr1	100	200	gap000001
chr2	5	10	n	13	-
chr2	10	20	.	.	+
`
	if got := buf.String(); got != want {
		t.Errorf("Writer output:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	entries := []bed.Entry{
		{Chrom: "Scaffold_3", Start: 12000, End: 15000, Name: "Scaffold_88:0-2800", Score: "0", Strand: "-"},
		{Chrom: "Scaffold_4", Start: 0, End: 99},
	}
	var buf bytes.Buffer
	w := bed.NewWriter(&buf)
	for _, e := range entries {
		if err := w.Append(e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	got, err := bed.Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Errorf("round trip: got %+v, want %+v", got, entries)
	}
}
