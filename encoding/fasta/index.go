package fasta

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
)

// faiRecord is one line of a "samtools faidx" style index
// (http://www.htslib.org/doc/faidx.html): "<name>\t<length>\t<byte
// offset>\t<bases per line>\t<bytes per line>".
type faiRecord struct {
	name      string
	length    int64
	offset    int64
	lineBases int64
	lineWidth int64
}

func (rec faiRecord) write(w *tsv.Writer) error {
	w.WriteString(rec.name)
	w.WriteInt64(rec.length)
	w.WriteInt64(rec.offset)
	w.WriteInt64(rec.lineBases)
	w.WriteInt64(rec.lineWidth)
	return w.EndLine()
}

// GenerateIndex generates an index (*.fai) from FASTA.  Sequences appear in
// the index in file order.
func GenerateIndex(out io.Writer, in io.Reader) (err error) {
	var (
		tsvOut  = tsv.NewWriter(out)
		r       = bufio.NewReader(in)
		cur     faiRecord
		cumByte int64
		eof     bool
	)

	setErr := func(e error) {
		if e != nil && err == nil {
			err = e
		}
	}
	for !eof && err == nil {
		fullLine, e := r.ReadBytes('\n')
		if e == io.EOF { // Process fullLine, then exit the loop
			eof = true
		} else if e != nil {
			setErr(e)
		}
		cumByte += int64(len(fullLine))
		line := bytes.TrimRight(fullLine, "\r\n")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' { // Start a new sequence.
			if cur.lineWidth != 0 {
				if cur.name == "" {
					setErr(errors.E("malformed FASTA file"))
				}
				setErr(cur.write(tsvOut))
			}
			cur = faiRecord{
				name:   strings.Split(string(line[1:]), " ")[0],
				offset: cumByte,
			}
			continue
		}
		if cur.lineWidth == 0 {
			cur.lineWidth = int64(len(fullLine))
			cur.lineBases = int64(len(line))
		}
		cur.length += int64(len(line))
	}
	setErr(cur.write(tsvOut))
	setErr(tsvOut.Flush())
	if cumByte == 0 {
		setErr(errors.E("empty FASTA file"))
	}
	return
}

// readIndex parses .fai data, returning its records in file order.
func readIndex(in io.Reader) ([]faiRecord, error) {
	var recs []faiRecord
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 5 {
			return nil, errors.E("invalid index line:", line)
		}
		rec := faiRecord{name: cols[0]}
		var err error
		if rec.length, err = strconv.ParseInt(cols[1], 10, 64); err != nil {
			return nil, errors.E(err, "invalid index line:", line)
		}
		if rec.offset, err = strconv.ParseInt(cols[2], 10, 64); err != nil {
			return nil, errors.E(err, "invalid index line:", line)
		}
		if rec.lineBases, err = strconv.ParseInt(cols[3], 10, 64); err != nil {
			return nil, errors.E(err, "invalid index line:", line)
		}
		if rec.lineWidth, err = strconv.ParseInt(cols[4], 10, 64); err != nil {
			return nil, errors.E(err, "invalid index line:", line)
		}
		recs = append(recs, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}
