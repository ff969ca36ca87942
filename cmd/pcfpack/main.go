// Command pcfpack packs a directory of mod PCF files into a directory of
// vanilla PCF files using the best-fit bin packer, and writes one output
// file per vanilla bin.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dresswithpockets/dazzle-core/pkg/dazzle"
	"github.com/dresswithpockets/dazzle-core/pkg/logging"
	"github.com/dresswithpockets/dazzle-core/pkg/packer"
	"github.com/dresswithpockets/dazzle-core/pkg/pcf"
)

var (
	vanillaDir string
	modDir     string
	outputDir  string
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "pcfpack",
		Short: "Pack mod PCF files into vanilla PCF files with the best-fit bin packer",
		Args:  cobra.NoArgs,
		RunE:  run,
	}

	rootCmd.Flags().StringVar(&vanillaDir, "vanilla", "", "Directory of vanilla PCF files, each seeding one bin (required)")
	rootCmd.Flags().StringVar(&modDir, "mods", "", "Directory of mod PCF files to pack into the bins (required)")
	rootCmd.Flags().StringVar(&outputDir, "output", "", "Directory to write one packed PCF per vanilla bin into (required)")

	for _, name := range []string{"vanilla", "mods", "output"} {
		if err := rootCmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := logging.NewLogger("pcfpack", logging.GetLogLevel(), nil)
	ok := color.New(color.FgGreen)
	fail := color.New(color.FgRed)

	vanillaPaths, err := pcfFiles(vanillaDir)
	if err != nil {
		return err
	}
	modPaths, err := pcfFiles(modDir)
	if err != nil {
		return err
	}

	var bins []*packer.Bin
	for _, path := range vanillaPaths {
		fmt.Printf("%s: seeding bin... ", path)
		f, err := os.Open(path)
		if err != nil {
			fail.Println("failed")
			return err
		}
		seed, err := dazzle.DecodePcf(f, logger)
		f.Close()
		if err != nil {
			fail.Println("failed")
			return fmt.Errorf("%s: %w", path, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}

		empty := pcf.NewEmpty(seed.Version, seed.Root.Name, seed.Root.Signature)
		bin := dazzle.NewBin(uint64(info.Size()), filepath.Base(path), empty)
		if err := bin.Pcf.MergeInto(seed); err != nil {
			return err
		}
		bins = append(bins, bin)
		ok.Println("done")
	}

	allBins := dazzle.PackBins(bins)

	for _, path := range modPaths {
		fmt.Printf("%s: packing... ", path)
		f, err := os.Open(path)
		if err != nil {
			fail.Println("failed")
			return err
		}
		mod, err := dazzle.DecodePcf(f, logger)
		f.Close()
		if err != nil {
			fail.Println("failed")
			return fmt.Errorf("%s: %w", path, err)
		}

		if err := allBins.Pack(mod); err != nil {
			fail.Println("failed")
			return fmt.Errorf("%s: %w", path, err)
		}
		ok.Println("done")
	}

	for _, bin := range allBins.All() {
		outPath := filepath.Join(outputDir, bin.Name)
		fmt.Printf("%s: writing... ", outPath)
		out, err := os.Create(outPath)
		if err != nil {
			fail.Println("failed")
			return err
		}
		err = dazzle.EncodePcf(bin.Pcf, out)
		out.Close()
		if err != nil {
			fail.Println("failed")
			return err
		}
		ok.Println("done")
	}

	return nil
}

func pcfFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".pcf" {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
