package patch

import (
	"fmt"

	"github.com/grailbio/asmpatch/encoding/bed"
	"github.com/grailbio/asmpatch/encoding/fasta"
)

// GapsFromFasta scans every sequence for runs of ambiguous bases ('N' or
// 'n') and returns the runs of at least minGap bases as named BED entries,
// in sequence order.  Names number the gaps across the whole file:
// gap000001, gap000002, ...
func GapsFromFasta(f *fasta.Fasta, minGap int) ([]bed.Entry, error) {
	var gaps []bed.Entry
	for _, name := range f.SeqNames() {
		n, err := f.Len(name)
		if err != nil {
			return nil, err
		}
		seq, err := f.Get(name, 0, n)
		if err != nil {
			return nil, err
		}
		runStart := -1
		for i := 0; i <= len(seq); i++ {
			inRun := i < len(seq) && (seq[i] == 'N' || seq[i] == 'n')
			if inRun {
				if runStart < 0 {
					runStart = i
				}
				continue
			}
			if runStart >= 0 && i-runStart >= minGap {
				gaps = append(gaps, bed.Entry{
					Chrom: name,
					Start: runStart,
					End:   i,
					Name:  fmt.Sprintf("gap%06d", len(gaps)+1),
				})
			}
			runStart = -1
		}
	}
	return gaps, nil
}
