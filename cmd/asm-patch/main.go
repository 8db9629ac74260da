// asm-patch merges two genome assemblies: it breaks scaffolds where a
// genetic map disagrees with them, refines the breakpoints to nearby
// sequencing gaps, prepares patcher sequences from an optical map
// alignment, and certifies how adjacent components of the merged tiling
// path overlap.
package main

import "github.com/grailbio/asmpatch/cmd/asm-patch/cmd"

func main() {
	cmd.Run()
}
