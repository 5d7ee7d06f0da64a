package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/philipparndt/stlvol/pkg/stl"
)

var convertASCII bool

var convertCmd = &cobra.Command{
	Use:   "convert [input] [output]",
	Short: "Convert an STL file between binary and ASCII",
	Long: `Decode the input (binary or ASCII) and write it as binary STL, or as ASCII
with --ascii. Facet normals are recomputed from the winding.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().BoolVar(&convertASCII, "ascii", false, "Write ASCII instead of binary")
}

func runConvert(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]

	soup, err := stl.ReadFile(in)
	if err != nil {
		return err
	}
	if err := writeSTL(out, soup, convertASCII); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d triangles to %s\n", soup.TriangleCount(), out)
	return nil
}

func writeSTL(path string, soup *stl.Soup, ascii bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if ascii {
		err = stl.WriteASCII(w, name, soup.Triangles())
	} else {
		err = stl.WriteBinary(w, name, soup.Triangles())
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
