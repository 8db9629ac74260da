// Package kent wraps the UCSC Kent utilities the patching pipeline shells
// out to.  As with the bedtools wrappers, command lines are logged and a
// failing or missing binary is logged rather than returned.
package kent

import (
	"os"
	"os/exec"
	"strings"

	"github.com/grailbio/base/log"
)

func command(name string, args ...string) {
	log.Printf("running: %s %s", name, strings.Join(args, " "))
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		log.Error.Printf("%s: %v", name, err)
	}
}

// FaSplitByName splits fastaPath into one file per sequence under outDir,
// via "faSplit byname <fasta> <outDir>/".  Each sequence lands in
// outDir/<name>.fa.
func FaSplitByName(fastaPath, outDir string) {
	if !strings.HasSuffix(outDir, "/") {
		outDir += "/"
	}
	command("faSplit", "byname", fastaPath, outDir)
}
