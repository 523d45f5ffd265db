// Command spfmine implements the search and convert subcommands of
// spec.md §6.4: mining an affine-pattern cover out of a MatrixMarket
// matrix and writing it as SPF, and converting an SPF file back to
// MatrixMarket.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/maxvdkolk/spfmine/internal/augment"
	"github.com/maxvdkolk/spfmine/internal/inventory"
	"github.com/maxvdkolk/spfmine/internal/mtx"
	"github.com/maxvdkolk/spfmine/internal/pattern"
	"github.com/maxvdkolk/spfmine/internal/spf"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "search":
		err = runSearch(os.Args[2:])
	case "convert":
		err = runConvert(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "spfmine: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: spfmine search [flags] patterns.txt matrix.mtx")
	fmt.Fprintln(os.Stderr, "       spfmine convert [flags] input.spf output.mtx")
}

func runSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)

	transposeInput := fs.Bool("transpose-input", false, "transpose the matrix before searching")
	transposeOutput := fs.Bool("transpose-output", false, "transpose rows/cols when writing SPF")
	searchFlags := fs.String("search-flags", "PatternFirst", "search order: PatternFirst or CellFirst")
	writeSPF := fs.String("write-spf", "", "path to write the SPF output (optional; no SPF file is written when empty)")
	augDim := fs.Int("augment-dimensionality", 0, "raise the inventory to this order (0 disables augmentation)")
	augCutoff := fs.Int("augment-dimensionality-piece-cutoff", 2, "minimum occurrence count per augmentation group")
	augStrideMin := fs.Int("augment-dimensionality-piece-stride-min", 1, "minimum absolute value of each stride component considered during augmentation")
	augStrideMax := fs.Int("augment-dimensionality-piece-stride-max", 1<<30, "maximum absolute value of each stride component considered during augmentation")
	experimental := fs.Bool("experimental", false, "enable experimental flags")
	writeUninc := fs.Bool("write-uninc-as-patterns", false, "experimental: emit unincorporated residuals as order-1 patterns (no-op)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *writeUninc && !*experimental {
		return fmt.Errorf("--write-uninc-as-patterns requires --experimental")
	}
	if fs.NArg() != 2 {
		usage()
		return fmt.Errorf("search: expected patterns_file and matrixmarket_file")
	}

	mode, err := pattern.ModeFromString(*searchFlags)
	if err != nil {
		return err
	}

	patternsPath, matrixPath := fs.Arg(0), fs.Arg(1)

	pf, err := os.Open(patternsPath)
	if err != nil {
		return fmt.Errorf("opening patterns file: %w", err)
	}
	defer pf.Close()

	patterns, err := pattern.LoadPatternFile(pf)
	if err != nil {
		return fmt.Errorf("loading patterns: %w", err)
	}

	mf, err := os.Open(matrixPath)
	if err != nil {
		return fmt.Errorf("opening matrix file: %w", err)
	}
	defer mf.Close()

	m, err := mtx.Load(mf, mtx.LoadOptions{Transpose: *transposeInput})
	if err != nil {
		return fmt.Errorf("loading matrix: %w", err)
	}

	pieces := pattern.Search(m, patterns, mode)
	inv := inventory.NewFromPieces(pieces)

	if *augDim > 1 {
		nrows, ncols := m.Dims()
		opts := augment.Options{
			TargetDim: *augDim,
			Cutoff:    *augCutoff,
			StrideMin: *augStrideMin,
			StrideMax: *augStrideMax,
		}
		if err := augment.Run(inv, nrows, ncols, opts); err != nil {
			return fmt.Errorf("augmenting: %w", err)
		}
	}

	if *writeSPF == "" {
		fmt.Printf("pieces=%d shapes=%d\n", inv.Pieces.Len(), inv.Shapes.Len())
		return nil
	}

	out, err := os.Create(*writeSPF)
	if err != nil {
		return fmt.Errorf("creating SPF output: %w", err)
	}
	defer out.Close()

	if err := spf.Write(out, inv, m, spf.Options{TransposeOutput: *transposeOutput}); err != nil {
		return fmt.Errorf("writing SPF: %w", err)
	}

	fmt.Printf("pieces=%d shapes=%d -> %s\n", inv.Pieces.Len(), inv.Shapes.Len(), *writeSPF)
	return nil
}

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)

	useCSR := fs.Bool("csr", false, "write output in CSR traversal order (the default)")
	useCSC := fs.Bool("csc", false, "write output in CSC traversal order (default CSR)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *useCSR && *useCSC {
		return fmt.Errorf("convert: --csr and --csc are mutually exclusive")
	}
	if fs.NArg() != 2 {
		usage()
		return fmt.Errorf("convert: expected input_spf and output_mtx")
	}

	inPath, outPath := fs.Arg(0), fs.Arg(1)

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("opening SPF input: %w", err)
	}
	defer in.Close()

	decoded, err := spf.Read(in)
	if err != nil {
		return fmt.Errorf("reading SPF: %w", err)
	}

	csr := decoded.ToCSR()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating matrix output: %w", err)
	}
	defer out.Close()

	var saveErr error
	if *useCSC {
		saveErr = mtx.Save(out, csr.ToCSC(), mtx.SaveOptions{Order: mtx.OrderCSC})
	} else {
		saveErr = mtx.Save(out, csr, mtx.SaveOptions{Order: mtx.OrderCSR})
	}
	if saveErr != nil {
		return fmt.Errorf("writing matrix: %w", saveErr)
	}

	fmt.Printf("nnz=%d rows=%d cols=%d -> %s\n", decoded.NNZ, decoded.NRows, decoded.NCols, outPath)
	return nil
}
