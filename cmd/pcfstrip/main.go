// Command pcfstrip strips known default attribute values out of a batch of
// PCF files, folds each one's connected components back into a single
// particle graph, and either writes the result to --output or patches it
// directly into a VPK archive under "particles/<basename>" via --vpk.
package main

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dresswithpockets/dazzle-core/pkg/dazzle"
	"github.com/dresswithpockets/dazzle-core/pkg/logging"
)

var (
	vpkPath   string
	outputDir string
	limit     int
	rootCmd   *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "pcfstrip <pcf-file>...",
		Short: "Strip default attribute values from PCF files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  run,
	}

	rootCmd.Flags().StringVar(&vpkPath, "vpk", "", "Path to a VPK directory file to patch the stripped PCFs into")
	rootCmd.Flags().StringVar(&outputDir, "output", "", "Directory to write stripped PCF files to, instead of patching a VPK")
	rootCmd.Flags().IntVar(&limit, "limit", math.MaxInt32, "Only the first N particle systems of each file are stripped")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type strippedPcf struct {
	basename string
	data     []byte
}

func run(cmd *cobra.Command, args []string) error {
	if vpkPath == "" && outputDir == "" {
		return fmt.Errorf("one of --vpk or --output is required")
	}

	logger := logging.NewLogger("pcfstrip", logging.GetLogLevel(), nil)
	ok := color.New(color.FgGreen)
	fail := color.New(color.FgRed)

	var results []strippedPcf
	for _, path := range args {
		fmt.Printf("%s: decoding... ", path)
		f, err := os.Open(path)
		if err != nil {
			fail.Println("failed")
			return err
		}
		p, err := dazzle.DecodePcf(f, logger)
		f.Close()
		if err != nil {
			fail.Println("failed")
			return fmt.Errorf("%s: %w", path, err)
		}
		ok.Println("done")

		fmt.Print("  stripping... ")
		stripped := dazzle.StripDefaultsNth(p, limit)
		ok.Println("done")

		fmt.Print("  reordering... ")
		components := dazzle.SplitConnected(stripped)
		merged := components[0]
		for _, from := range components[1:] {
			if err := merged.MergeInto(from); err != nil {
				return err
			}
		}
		ok.Println("done")

		var buf bytes.Buffer
		if err := dazzle.EncodePcf(merged, &buf); err != nil {
			return err
		}

		results = append(results, strippedPcf{basename: filepath.Base(path), data: buf.Bytes()})
	}

	if outputDir != "" {
		for _, r := range results {
			outPath := filepath.Join(outputDir, r.basename)
			fmt.Printf("%s: writing %d bytes... ", outPath, len(r.data))
			if err := os.WriteFile(outPath, r.data, 0o644); err != nil {
				fail.Println("failed")
				return err
			}
			ok.Println("done")
		}
		return nil
	}

	v, err := dazzle.ReadVpk(vpkPath, logger)
	if err != nil {
		return err
	}
	for _, r := range results {
		logicalPath := "particles/" + r.basename
		fmt.Printf("%s: patching %d bytes... ", logicalPath, len(r.data))
		if err := dazzle.PatchFile(v, logicalPath, int64(len(r.data)), bytes.NewReader(r.data), logger); err != nil {
			fail.Println("failed")
			return fmt.Errorf("%s: %w", logicalPath, err)
		}
		ok.Println("done")
	}

	return nil
}
