package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/grailbio/asmpatch/encoding/bed"
	"github.com/grailbio/asmpatch/encoding/fasta"
	"github.com/grailbio/asmpatch/encoding/mstmap"
	"github.com/grailbio/asmpatch/patch"
	"github.com/grailbio/base/cmdutil"
	"v.io/x/lib/cmdline"
)

func newCmdMapBreaks() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "mapbreaks",
		Short:    "Find scaffold breakpoints from a genetic map",
		ArgsName: "mstmap",
	}
	maxDiff := cmd.Flags.Float64("diff", 0.1, "Maximum mismatch fraction between adjacent markers on one scaffold")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("mapbreaks takes one mstmap argument, but got %v", argv)
		}
		markers, err := mstmap.ReadFromPath(argv[0])
		if err != nil {
			return err
		}
		return patch.WriteBreakpoints(os.Stdout, patch.Breakpoints(markers, *maxDiff))
	})
	return cmd
}

func newCmdRefine() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "refine",
		Short:    "Refine breakpoint regions to overlapping or nearby sequencing gaps",
		ArgsName: "breakpoints.bed gaps.bed",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("refine takes breakpoints.bed gaps.bed, but got %v", argv)
		}
		refined, err := patch.Refine(argv[0], argv[1])
		if err != nil {
			return err
		}
		fmt.Println(refined)
		return nil
	})
	return cmd
}

func newCmdPrepare() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "prepare",
		Short:    "Condense an optical map alignment into flank-padded patcher sequences",
		ArgsName: "alignment.bed assembly.fasta",
	}
	backbone := cmd.Flags.String("backbone", "Scaffold", "Name prefix of backbone assembly records")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("prepare takes alignment.bed assembly.fasta, but got %v", argv)
		}
		return patch.Prepare(argv[0], argv[1], patch.PrepareOpts{Backbone: *backbone})
	})
	return cmd
}

func newCmdCertificate() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "certificate",
		Short:    "Certify overlaps between neighboring components of a tiling path",
		ArgsName: "tilingpath.tpf certificate assembly.fasta",
	}
	backbone := cmd.Flags.String("backbone", "Scaffold", "Name prefix of backbone assembly components")
	fastaDir := cmd.Flags.String("fasta-dir", "fasta", "Directory for per-component FASTA files")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return fmt.Errorf("certificate takes tilingpath.tpf certificate assembly.fasta, but got %v", argv)
		}
		return patch.Certificate(argv[0], argv[1], argv[2], patch.CertificateOpts{
			Backbone: *backbone,
			FastaDir: *fastaDir,
		})
	})
	return cmd
}

func newCmdGaps() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "gaps",
		Short:    "List runs of ambiguous bases in an assembly as BED records",
		ArgsName: "assembly.fasta",
	}
	minGap := cmd.Flags.Int("mingap", 100, "Minimum gap length to report")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("gaps takes one assembly.fasta argument, but got %v", argv)
		}
		f, err := fasta.ReadFromPath(argv[0])
		if err != nil {
			return err
		}
		gaps, err := patch.GapsFromFasta(f, *minGap)
		if err != nil {
			return err
		}
		w := bed.NewWriter(os.Stdout)
		for _, g := range gaps {
			if err := w.Append(g); err != nil {
				return err
			}
		}
		return w.Flush()
	})
	return cmd
}

func Run() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "asm-patch",
			Short:    "Tools for patching a genome assembly with another assembly",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdMapBreaks(),
				newCmdRefine(),
				newCmdPrepare(),
				newCmdCertificate(),
				newCmdGaps(),
			},
		})
}
