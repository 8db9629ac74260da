// Package bedtools wraps the bedtools programs the patching pipeline shells
// out to.  Every command line is logged before it runs.  A failing or
// missing binary is logged rather than returned: downstream steps consume
// whatever output the tool produced, as with the shell pipelines this
// replaces.
package bedtools

import (
	"bytes"
	"os"
	"os/exec"
	"strings"

	"github.com/grailbio/base/log"
)

func command(name string, args ...string) []byte {
	log.Printf("running: %s %s", name, strings.Join(args, " "))
	var stdout bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		log.Error.Printf("%s: %v", name, err)
	}
	return stdout.Bytes()
}

// IntersectWAO returns the output of "intersectBed -wao -a aPath -b bPath":
// every A interval paired with each B interval it overlaps, plus the
// overlap base count as the final column.  A intervals overlapping nothing
// appear once with a null B entry and count 0.
func IntersectWAO(aPath, bPath string) []byte {
	return command("intersectBed", "-wao", "-a", aPath, "-b", bPath)
}

// Closest returns the output of "closestBed -a aPath -b bPath": every A
// interval paired with the nearest B interval.
func Closest(aPath, bPath string) []byte {
	return command("closestBed", "-a", aPath, "-b", bPath)
}

// FastaFromBed extracts the bedPath intervals of fastaPath into outPath as
// FASTA, via "fastaFromBed -fi ... -bed ... -fo ...".
func FastaFromBed(fastaPath, bedPath, outPath string) {
	command("fastaFromBed", "-fi", fastaPath, "-bed", bedPath, "-fo", outPath)
}
