package patch

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grailbio/asmpatch/apps/blast"
	"github.com/grailbio/asmpatch/apps/kent"
	"github.com/grailbio/asmpatch/encoding/fasta"
	"github.com/grailbio/asmpatch/encoding/tpf"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
)

// CertificateOpts controls certificate generation.
type CertificateOpts struct {
	// Backbone is the name prefix marking components of the backbone
	// assembly, which take phase 2; all other components take phase 1.
	Backbone string

	// FastaDir receives the per-component FASTA files split out of the
	// assembly.  Defaults to "fasta".
	FastaDir string

	// OverlapFunc computes the best overlap between two split component
	// sequences.  Defaults to blast.Overlap.
	OverlapFunc func(dir, aID, bID string, aSize, bSize int) (*blast.Hit, error)
}

// Key identifies one certificate line: the neighbor direction plus the
// two component ids it relates.
type Key struct {
	Tag string
	AID string
	BID string
}

// LoadCertificate reads an existing certificate file into a map from Key
// to the full line, for verbatim reuse.  A missing file yields an empty
// map.
func LoadCertificate(path string) (map[Key]string, error) {
	data := make(map[Key]string)
	ctx := vcontext.Background()
	in, err := file.Open(ctx, path)
	if err != nil {
		return data, nil
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil {
			log.Error.Printf("close %s: %v", path, cerr)
		}
	}()
	body, err := ioutil.ReadAll(in.Reader(ctx))
	if err != nil {
		return nil, err
	}
	for lineIdx, line := range strings.Split(string(body), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 6 {
			return nil, fmt.Errorf("patch.LoadCertificate: line %d of %s has fewer than 6 fields", lineIdx+1, path)
		}
		key := Key{Tag: fields[0], AID: fields[4], BID: fields[5]}
		data[key] = strings.TrimSpace(line)
	}
	log.Printf("%s: %d certificate line(s) reloaded", path, len(data))
	return data, nil
}

// phase returns the priority phase and size of the named component from
// its split FASTA: 2 for backbone components, 1 otherwise.
func phase(fastaDir, id, backbone string) (ph, size int, err error) {
	f, err := fasta.ReadFromPath(filepath.Join(fastaDir, id+".fasta"))
	if err != nil {
		return 0, 0, err
	}
	names := f.SeqNames()
	if names[0] != id {
		return 0, 0, fmt.Errorf("patch.phase: split file for %q holds sequence %q", id, names[0])
	}
	size, err = f.Len(names[0])
	if err != nil {
		return 0, 0, err
	}
	ph = 1
	if strings.HasPrefix(id, backbone) {
		ph = 2
	}
	return ph, size, nil
}

// renameSplit gives faSplit output files the .fasta suffix the rest of the
// pipeline expects.
func renameSplit(dir string) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.fa"))
	if err != nil {
		log.Error.Printf("glob %s: %v", dir, err)
		return
	}
	for _, path := range matches {
		renamed := strings.TrimSuffix(path, ".fa") + ".fasta"
		if err := os.Rename(path, renamed); err != nil {
			log.Error.Printf("rename %s: %v", path, err)
		}
	}
}

// Certificate describes every component of a tiling path by its
// relationship to its north and south neighbors: telomere at the object
// boundary, the gap type across a gap line, and an overlap record (or its
// absence) against a neighboring component.  Lines already present in the
// certificate file are reused verbatim instead of recomputing the
// overlap, and the file is rewritten in tiling-path order, one flushed
// line at a time.
func Certificate(tpfPath, certPath, fastaPath string, opts CertificateOpts) error {
	if opts.FastaDir == "" {
		opts.FastaDir = "fasta"
	}
	if opts.OverlapFunc == nil {
		opts.OverlapFunc = blast.Overlap
	}

	if err := os.MkdirAll(opts.FastaDir, 0755); err != nil {
		return err
	}
	kent.FaSplitByName(fastaPath, opts.FastaDir)
	renameSplit(opts.FastaDir)

	tp, err := tpf.ReadFromPath(tpfPath)
	if err != nil {
		return err
	}
	data, err := LoadCertificate(certPath)
	if err != nil {
		return err
	}

	// Unbuffered so every line lands before the next overlap runs.
	out, err := os.Create(certPath)
	if err != nil {
		return err
	}
	defer out.Close() // nolint: errcheck

	for i := range tp.Lines {
		a := &tp.Lines[i]
		if a.IsGap() {
			continue
		}
		aid := a.ComponentID
		if _, err := os.Stat(filepath.Join(opts.FastaDir, aid+".fasta")); err != nil {
			return fmt.Errorf("patch.Certificate: ID %q not found: %v", aid, err)
		}

		north, south := tp.NorthSouth(i)
		aphase, asize, err := phase(opts.FastaDir, aid, opts.Backbone)
		if err != nil {
			return err
		}

		for _, dir := range []struct {
			tag      string
			neighbor *tpf.Line
		}{{"North", north}, {"South", south}} {
			bphase := 0
			var ov string
			switch {
			case dir.neighbor == nil: // end of the object
				ov = "telomere\t" + strconv.Itoa(asize)
			case dir.neighbor.IsCloneGap():
				ov = dir.neighbor.GapType() + "\t" + strconv.Itoa(asize)
			default:
				bid := dir.neighbor.ComponentID
				var bsize int
				if bphase, bsize, err = phase(opts.FastaDir, bid, opts.Backbone); err != nil {
					return err
				}
				if cached, ok := data[Key{Tag: dir.tag, AID: aid, BID: bid}]; ok {
					if _, err := fmt.Fprintln(out, cached); err != nil {
						return err
					}
					continue
				}
				hit, err := opts.OverlapFunc(opts.FastaDir, aid, bid, asize, bsize)
				if err != nil {
					return err
				}
				if hit != nil {
					ov = hit.CertificateLine()
				} else {
					ov = bid + "\t" + strconv.Itoa(asize) + "\tNone"
				}
			}
			line := strings.Join([]string{
				dir.tag, a.Object, strconv.Itoa(aphase), strconv.Itoa(bphase), aid, ov,
			}, "\t")
			if _, err := fmt.Fprintln(out, line); err != nil {
				return err
			}
		}
	}
	return out.Close()
}
