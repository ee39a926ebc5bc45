// Command earthmap turns an equirectangular projection PNG of Earth into the
// land mask the globe renders from.
//
//	go run ./cmd/earthmap -i equirectangle_projection.png -o internal/globe/earthmap.go
package main

import (
	"bytes"
	"fmt"
	"go/format"
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"
)

type options struct {
	input     string
	output    string
	width     int
	height    int
	threshold uint32
}

func main() {
	if err := newCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "earthmap",
		Short:        "Generate the globe land mask from a PNG",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "equirectangle_projection.png", "black and white equirectangular PNG")
	f.StringVarP(&opts.output, "output", "o", "", "Go file to write (default stdout)")
	f.IntVar(&opts.width, "width", 120, "mask width in characters")
	f.IntVar(&opts.height, "height", 60, "mask height in characters")
	f.Uint32Var(&opts.threshold, "threshold", 128, "8-bit brightness above which a pixel is water")
	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	if opts.width < 2 || opts.height < 2 {
		return fmt.Errorf("mask must be at least 2x2, got %dx%d", opts.width, opts.height)
	}

	file, err := os.Open(opts.input)
	if err != nil {
		return fmt.Errorf("opening %s: %w", opts.input, err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", opts.input, err)
	}

	src, err := generate(landMask(img, opts.width, opts.height, opts.threshold))
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = cmd.OutOrStdout().Write(src)
		return err
	}
	return os.WriteFile(opts.output, src, 0o644)
}

// landMask samples img onto a width x height grid. Dark pixels are land ('#'),
// light pixels water (' ').
func landMask(img image.Image, width, height int, threshold uint32) []string {
	bounds := img.Bounds()
	scaleX := float64(bounds.Dx()) / float64(width)
	scaleY := float64(bounds.Dy()) / float64(height)

	rows := make([]string, height)
	line := make([]byte, width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px := bounds.Min.X + int(float64(x)*scaleX)
			py := bounds.Min.Y + int(float64(y)*scaleY)

			// Source image is B/W so the channel mean is enough
			r, g, b, _ := img.At(px, py).RGBA()
			if (r+g+b)/3>>8 > threshold {
				line[x] = ' '
			} else {
				line[x] = '#'
			}
		}
		rows[y] = string(line)
	}
	return rows
}

func generate(rows []string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("// Code generated by earthmap from an equirectangular land mask. DO NOT EDIT.\n\n")
	buf.WriteString("package globe\n\n")
	fmt.Fprintf(&buf, "// earthMap is %dx%d, longitude -180..180 left to right, latitude 90..-90 top to bottom.\n", len(rows[0]), len(rows))
	buf.WriteString("// '#' is land.\n")
	buf.WriteString("var earthMap = []string{\n")
	for _, row := range rows {
		fmt.Fprintf(&buf, "\t%q,\n", row)
	}
	buf.WriteString("}\n")

	return format.Source(buf.Bytes())
}
