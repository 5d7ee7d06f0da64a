package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/stlvol/internal/meshgen"
	"github.com/philipparndt/stlvol/pkg/geometry"
	"github.com/philipparndt/stlvol/pkg/stl"
)

var (
	genSize   float32
	genDetail int
	genASCII  bool
)

var genCmd = &cobra.Command{
	Use:       "gen [cube|sphere] [output]",
	Short:     "Write a sample mesh",
	Long:      "Write a cube with edge --size or a sphere with diameter --size, centred on the origin.",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"cube", "sphere"},
	RunE:      runGen,
}

func init() {
	rootCmd.AddCommand(genCmd)

	genCmd.Flags().Float32Var(&genSize, "size", 10, "Edge length or diameter")
	genCmd.Flags().IntVar(&genDetail, "detail", 32, "Sphere stacks (slices are twice this)")
	genCmd.Flags().BoolVar(&genASCII, "ascii", false, "Write ASCII instead of binary")
}

func runGen(cmd *cobra.Command, args []string) error {
	var tris []geometry.Triangle
	switch args[0] {
	case "cube":
		h := genSize / 2
		tris = meshgen.Cube(geometry.NewVector3(-h, -h, -h), genSize)
	case "sphere":
		tris = meshgen.Sphere(geometry.Vector3{}, genSize/2, genDetail, genDetail*2)
	default:
		return fmt.Errorf("unknown shape %q (cube or sphere)", args[0])
	}

	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if genASCII {
		err = stl.WriteASCII(w, args[0], tris)
	} else {
		err = stl.WriteBinary(w, args[0], tris)
	}
	if err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d triangles to %s\n", len(tris), args[1])
	return f.Close()
}
