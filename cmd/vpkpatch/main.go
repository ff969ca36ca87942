// Command vpkpatch walks a directory of loose files and patches each one
// into a VPK archive at the path it would occupy relative to that
// directory, reporting success or failure for every file independently.
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
)

var (
	sourceDir string
	globPat   string
	rootCmd   *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "vpkpatch <vpk-dir-file>",
		Short: "Patch loose files into a VPK archive",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}

	rootCmd.Flags().StringVar(&sourceDir, "source", "", "Directory of loose files to patch in, keyed by path relative to this directory (required)")
	rootCmd.Flags().StringVar(&globPat, "glob", "**/*.pcf", "Glob (relative to --source) selecting which files to patch")

	if err := rootCmd.MarkFlagRequired("source"); err != nil {
		panic(err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	vpkPath := args[0]
	logger := logging.NewLogger("vpkpatch", logging.GetLogLevel(), nil)
	ok := color.New(color.FgGreen)
	fail := color.New(color.FgRed)

	paths, err := matchGlob(sourceDir, globPat)
	if err != nil {
		return err
	}

	v, err := dazzle.ReadVpk(vpkPath, logger)
	if err != nil {
		return err
	}

	var failures int
	for _, relPath := range paths {
		onDisk := filepath.Join(sourceDir, relPath)
		pathInVpk := filepath.ToSlash(relPath)

		fmt.Printf("%s: patching... ", pathInVpk)

		info, err := os.Stat(onDisk)
		if err != nil {
			fail.Println("failed")
			fmt.Fprintf(os.Stderr, "  %s: %v\n", pathInVpk, err)
			failures++
			continue
		}

		f, err := os.Open(onDisk)
		if err != nil {
			fail.Println("failed")
			fmt.Fprintf(os.Stderr, "  %s: %v\n", pathInVpk, err)
			failures++
			continue
		}

		err = dazzle.PatchFile(v, pathInVpk, info.Size(), f, logger)
		f.Close()
		if err != nil {
			fail.Println("failed")
			fmt.Fprintf(os.Stderr, "  %s: %v\n", pathInVpk, err)
			failures++
			continue
		}

		ok.Println("done")
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d files failed to patch", failures, len(paths))
	}
	return nil
}

// matchGlob walks root and returns every file path (relative to root,
// slash form) that matches pattern under doubleStarMatch's rules.
func matchGlob(root, pattern string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		matched, err := doubleStarMatch(pattern, rel)
		if err != nil {
			return err
		}
		if matched {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// doubleStarMatch matches a simplified doublestar glob. Only a leading
// "**/" is special: the rest of the pattern is matched with filepath.Match
// against the file's base name, then against the whole relative path, so a
// one-segment rest matches at any depth while a multi-segment rest matches
// only from the top of root. A "**" anywhere else has plain filepath.Match
// meaning.
func doubleStarMatch(pattern, name string) (bool, error) {
	const doubleStar = "**/"
	if idx := indexOf(pattern, doubleStar); idx == 0 {
		suffix := pattern[len(doubleStar):]
		if matched, err := filepath.Match(suffix, filepath.Base(name)); err != nil {
			return false, err
		} else if matched {
			return true, nil
		}
		return filepath.Match(suffix, name)
	}
	return filepath.Match(pattern, name)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
