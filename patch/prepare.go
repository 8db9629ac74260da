package patch

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grailbio/asmpatch/apps/bedtools"
	"github.com/grailbio/asmpatch/encoding/bed"
	"github.com/grailbio/asmpatch/encoding/fasta"
	"github.com/grailbio/asmpatch/encoding/tpf"
	"github.com/grailbio/asmpatch/interval"
	"github.com/grailbio/base/log"
)

// Flank is the fixed padding added to both sides of a merged patcher
// region before clipping to the source sequence.
const Flank = 10000

// PrepareOpts controls patcher preparation.
type PrepareOpts struct {
	// Backbone is the name prefix marking records of the backbone
	// assembly.  Patchers are extracted from the other assembly.
	Backbone string
}

// MergeRanges merges one pocket of alignments into a single region plus a
// strand.  The region bounds come from the ranges embedded in the record
// names, spanning the minimum start to the maximum end; the strand is the
// majority strand of the records, ties resolved to "-".  All names must
// parse to one sequence id: a mixed or unparseable pocket is logged and
// rejected.
func MergeRanges(entries []bed.Entry) (merged interval.Region, strand string, ok bool) {
	regions := make([]interval.Region, 0, len(entries))
	for _, e := range entries {
		r, err := interval.ParseRegion(e.Name)
		if err != nil {
			log.Error.Printf("unparseable range %q in pocket. Aborted.", e.Name)
			return interval.Region{}, "", false
		}
		regions = append(regions, r)
	}
	for _, r := range regions[1:] {
		if r.Chrom != regions[0].Chrom {
			log.Error.Printf("Multiple seqid found in pocket. Aborted.")
			return interval.Region{}, "", false
		}
	}

	merged = regions[0]
	for _, r := range regions[1:] {
		if r.Start < merged.Start {
			merged.Start = r.Start
		}
		if r.End > merged.End {
			merged.End = r.End
		}
	}

	negStrands := 0
	for _, e := range entries {
		if e.Strand == "-" {
			negStrands++
		}
	}
	posStrands := len(entries) - negStrands
	strand = "+"
	if negStrands >= posStrands {
		strand = "-"
	}
	return merged, strand, true
}

// Uniq deduplicates alignments sharing an exact interval.  Where backbone
// and non-backbone records cover the same (seqid, start, end), only the
// backbone records are kept; intervals covered by one side only pass
// through untouched.  Entries are returned sorted by (seqid, start, name).
func Uniq(entries []bed.Entry, isBackbone func(bed.Entry) bool) []bed.Entry {
	sorted := make([]bed.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Chrom != b.Chrom {
			return a.Chrom < b.Chrom
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Name < b.Name
	})

	var uniq []bed.Entry
	for lo := 0; lo < len(sorted); {
		hi := lo + 1
		for hi < len(sorted) && sameInterval(sorted[lo], sorted[hi]) {
			hi++
		}
		pocket := sorted[lo:hi]
		var backbone, others []bed.Entry
		for _, e := range pocket {
			if isBackbone(e) {
				backbone = append(backbone, e)
			} else {
				others = append(others, e)
			}
		}
		if len(backbone) > 0 && len(others) > 0 {
			uniq = append(uniq, backbone...)
		} else {
			uniq = append(uniq, pocket...)
		}
		lo = hi
	}
	return uniq
}

func sameInterval(a, b bed.Entry) bool {
	return a.Chrom == b.Chrom && a.Start == b.Start && a.End == b.End
}

// Prepare turns an optical map alignment into patcher sequences.  The
// alignment BED is deduplicated in favor of the backbone assembly, then
// condensed into one flank-padded region per (side, scaffold) pocket.
// Next to the input it writes <prefix>.uniq.bed, plus <prefix>.patchers.bed,
// <prefix>.tpf and <prefix>.patchers.fasta named after the prefix of the
// alignment file, with the FASTA extracted by fastaFromBed.
func Prepare(bedPath, fastaPath string, opts PrepareOpts) error {
	entries, err := bed.ReadFromPath(bedPath)
	if err != nil {
		return err
	}
	isBackbone := func(e bed.Entry) bool { return strings.HasPrefix(e.Name, opts.Backbone) }

	uniq := Uniq(entries, isBackbone)
	uniqBedPath := strings.TrimSuffix(bedPath, filepath.Ext(bedPath)) + ".uniq.bed"
	if err := writeBed(uniqBedPath, uniq); err != nil {
		return err
	}

	sizes, err := fasta.ReadSizes(fastaPath)
	if err != nil {
		return err
	}

	pf := stem(bedPath)
	dir := filepath.Dir(bedPath)
	patchersBed := filepath.Join(dir, pf+".patchers.bed")
	patchersTpf := filepath.Join(dir, pf+".tpf")
	bedOut, err := os.Create(patchersBed)
	if err != nil {
		return err
	}
	defer bedOut.Close() // nolint: errcheck
	tpfOut, err := os.Create(patchersTpf)
	if err != nil {
		return err
	}
	defer tpfOut.Close() // nolint: errcheck

	bedWriter := bed.NewWriter(bedOut)
	tpfWriter := tpf.NewWriter(tpfOut)
	if err := tpfWriter.Append(tpf.Line{ComponentID: "telomere", Object: pf}); err != nil {
		return err
	}

	for lo := 0; lo < len(uniq); {
		hi := lo + 1
		for hi < len(uniq) && samePocket(uniq[lo], uniq[hi], isBackbone) {
			hi++
		}
		pocket := uniq[lo:hi]
		lo = hi

		merged, strand, ok := MergeRanges(pocket)
		if !ok {
			continue
		}
		size, err := sizes.Len(merged.Chrom)
		if err != nil {
			return err
		}
		padded := merged.Pad(Flank, size)

		if err := bedWriter.Append(bed.Entry{Chrom: padded.Chrom, Start: padded.Start, End: padded.End}); err != nil {
			return err
		}
		if err := tpfWriter.Append(tpf.Line{ComponentID: padded.String(), Object: pf, Orientation: strand}); err != nil {
			return err
		}
	}
	if err := bedWriter.Flush(); err != nil {
		return err
	}
	if err := tpfWriter.Flush(); err != nil {
		return err
	}
	if err := bedOut.Close(); err != nil {
		return err
	}
	if err := tpfOut.Close(); err != nil {
		return err
	}

	patchersFasta := filepath.Join(dir, pf+".patchers.fasta")
	bedtools.FastaFromBed(fastaPath, patchersBed, patchersFasta)
	return nil
}

// samePocket groups consecutive uniq entries for condensing: same side of
// the backbone split, names pointing at the same scaffold.
func samePocket(a, b bed.Entry, isBackbone func(bed.Entry) bool) bool {
	if isBackbone(a) != isBackbone(b) {
		return false
	}
	ra, erra := interval.ParseRegion(a.Name)
	rb, errb := interval.ParseRegion(b.Name)
	if erra != nil || errb != nil {
		return false
	}
	return ra.Chrom == rb.Chrom
}

func writeBed(path string, entries []bed.Entry) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bed.NewWriter(out)
	for _, e := range entries {
		if err := w.Append(e); err != nil {
			_ = out.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
