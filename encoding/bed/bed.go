// Package bed contains code for reading and writing BED files.  Briefly, a
// BED file is a tab- or space-separated table whose first three columns name
// a zero-based half-open range on a sequence, optionally followed by name,
// score and strand columns.  For example:
//
//	Scaffold_1	1000	2000	Scaffold_77:0-1500	0	+
//
// Columns past the sixth are ignored.  See
// https://genome.ucsc.edu/FAQ/FAQformat.html#format1.
package bed

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

// Entry represents a single BED record, with 0-based half-open coordinates.
// Optional columns that were absent in the input are left at their zero
// values.
type Entry struct {
	Chrom string
	Start int
	End   int

	Name   string
	Score  string
	Strand string
}

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// Read loads all records from a BED stream, in input order.  Blank lines and
// lines starting with '#' are skipped.
func Read(reader io.Reader) (entries []Entry, err error) {
	scanner := bufio.NewScanner(reader)

	var tokens [6][]byte
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken == 0 || tokens[0][0] == '#' {
			continue
		}
		if nToken < 3 {
			err = fmt.Errorf("bed.Read: line %d has fewer than 3 fields", lineIdx)
			return
		}

		var entry Entry
		entry.Chrom = string(tokens[0])
		var parsedStart int
		if parsedStart, err = strconv.Atoi(gunsafe.BytesToString(tokens[1])); err != nil {
			err = fmt.Errorf("bed.Read: bad start coordinate %q on line %d", tokens[1], lineIdx)
			return
		}
		if parsedStart < 0 {
			err = fmt.Errorf("bed.Read: negative start coordinate %s on line %d", tokens[1], lineIdx)
			return
		}
		entry.Start = parsedStart

		var parsedEnd int
		if parsedEnd, err = strconv.Atoi(gunsafe.BytesToString(tokens[2])); err != nil {
			err = fmt.Errorf("bed.Read: bad end coordinate %q on line %d", tokens[2], lineIdx)
			return
		}
		if parsedEnd < parsedStart {
			err = fmt.Errorf("bed.Read: invalid coordinate pair on line %d", lineIdx)
			return
		}
		entry.End = parsedEnd

		if nToken > 3 {
			entry.Name = string(tokens[3])
		}
		if nToken > 4 {
			entry.Score = string(tokens[4])
		}
		if nToken > 5 {
			entry.Strand = string(tokens[5])
		}
		entries = append(entries, entry)
	}
	err = scanner.Err()
	return
}

// ReadFromPath is a wrapper for Read that takes a path instead of an
// io.Reader.  Gzipped files are decompressed transparently.
func ReadFromPath(path string) (entries []Entry, err error) {
	ctx := vcontext.Background()
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			return
		}
	}
	if entries, err = Read(reader); err != nil {
		return
	}
	log.Printf("%s: %d BED record(s) loaded", path, len(entries))
	return
}

// Writer writes BED records.  Records are buffered; call Flush when done.
type Writer struct {
	w *tsv.Writer
}

// NewWriter returns a Writer that emits BED lines to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{w: tsv.NewWriter(out)}
}

// Append writes one record.  The chrom/start/end columns are always
// written; the name, score and strand columns are written up to the last
// one set, with "." filling any earlier unset column.
func (w *Writer) Append(e Entry) error {
	w.w.WriteString(e.Chrom)
	w.w.WriteInt64(int64(e.Start))
	w.w.WriteInt64(int64(e.End))
	nCol := 0
	switch {
	case e.Strand != "":
		nCol = 3
	case e.Score != "":
		nCol = 2
	case e.Name != "":
		nCol = 1
	}
	optional := [3]string{e.Name, e.Score, e.Strand}
	for i := 0; i < nCol; i++ {
		col := optional[i]
		if col == "" {
			col = "."
		}
		w.w.WriteString(col)
	}
	return w.w.EndLine()
}

// Flush flushes buffered records to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
