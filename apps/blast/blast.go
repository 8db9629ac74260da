// Package blast computes pairwise clone overlaps with NCBI blastn.  The
// binary is expected on PATH; as with the other tool wrappers, command
// lines are logged and a failing run is logged rather than returned, so an
// absent overlap and a failed search look the same to callers.
package blast

import (
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grailbio/base/log"
)

// Hit describes the best local alignment found between two clone
// sequences.  Coordinates are 1-based inclusive, as reported by blastn,
// with subject coordinates normalized so SStart <= SStop.
type Hit struct {
	AID         string
	BID         string
	ASize       int
	BSize       int
	QStart      int
	QStop       int
	SStart      int
	SStop       int
	Orientation string
	Bitscore    float64
}

// Terminal reports whether the alignment reaches an end of both sequences,
// meaning the two clones can be joined end to end rather than one merely
// containing a piece of the other.
func (h *Hit) Terminal() bool {
	aEnd := h.QStart == 1 || h.QStop == h.ASize
	bEnd := h.SStart == 1 || h.SStop == h.BSize
	return aEnd && bEnd
}

// CertificateLine renders the hit as the overlap portion of a certificate
// line: neighbor id, size, overlap range, orientation and terminal class.
func (h *Hit) CertificateLine() string {
	tag := "Non-terminal"
	if h.Terminal() {
		tag = "Terminal"
	}
	cols := []string{
		h.BID,
		strconv.Itoa(h.ASize),
		strconv.Itoa(h.QStart),
		strconv.Itoa(h.QStop),
		h.Orientation,
		tag,
	}
	return strings.Join(cols, "\t")
}

// Overlap aligns dir/<aID>.fasta against dir/<bID>.fasta and returns the
// best-scoring hit, or nil when the search produces none.
func Overlap(dir, aID, bID string, aSize, bSize int) (*Hit, error) {
	out, err := ioutil.TempFile("", "blastn-out-")
	if err != nil {
		return nil, err
	}
	defer os.Remove(out.Name()) // nolint: errcheck
	if err := out.Close(); err != nil {
		return nil, err
	}

	args := []string{
		"-query", filepath.Join(dir, aID+".fasta"),
		"-subject", filepath.Join(dir, bID+".fasta"),
		"-evalue", "0.01",
		"-perc_identity", "98",
		"-outfmt", "6",
		"-out", out.Name(),
	}
	log.Printf("running: blastn %s", strings.Join(args, " "))
	cmd := exec.Command("blastn", args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		log.Error.Printf("blastn: %v", err)
	}

	data, err := ioutil.ReadFile(out.Name())
	if err != nil {
		return nil, err
	}
	return best(parse(data, aID, bID, aSize, bSize)), nil
}

// parse reads tabular (-outfmt 6) blastn output: qseqid sseqid pident
// length mismatch gapopen qstart qend sstart send evalue bitscore.
// Malformed lines are skipped.
func parse(data []byte, aID, bID string, aSize, bSize int) []Hit {
	var hits []Hit
	for _, line := range strings.Split(string(data), "\n") {
		cols := strings.Fields(line)
		if len(cols) < 12 || strings.HasPrefix(cols[0], "#") {
			continue
		}
		qstart, err1 := strconv.Atoi(cols[6])
		qstop, err2 := strconv.Atoi(cols[7])
		sstart, err3 := strconv.Atoi(cols[8])
		sstop, err4 := strconv.Atoi(cols[9])
		bits, err5 := strconv.ParseFloat(cols[11], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			log.Error.Printf("blast: skipping malformed hit line %q", line)
			continue
		}
		h := Hit{
			AID:         aID,
			BID:         bID,
			ASize:       aSize,
			BSize:       bSize,
			QStart:      qstart,
			QStop:       qstop,
			SStart:      sstart,
			SStop:       sstop,
			Orientation: "+",
			Bitscore:    bits,
		}
		if h.SStart > h.SStop {
			h.SStart, h.SStop = h.SStop, h.SStart
			h.Orientation = "-"
		}
		hits = append(hits, h)
	}
	return hits
}

// best returns the hit with the highest bitscore, keeping the earliest on
// ties, or nil for an empty slice.
func best(hits []Hit) *Hit {
	if len(hits) == 0 {
		return nil
	}
	bestIdx := 0
	for i := range hits {
		if hits[i].Bitscore > hits[bestIdx].Bitscore {
			bestIdx = i
		}
	}
	return &hits[bestIdx]
}
