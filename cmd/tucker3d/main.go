package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"tucker3d/pkg/config"
	"tucker3d/pkg/tucker"
	"tucker3d/pkg/visualization"
	"tucker3d/pkg/volume"
)

func main() {
	// Parse command line arguments
	inputFile := flag.String("input", "", "Input volume file (flat little-endian float64)")
	outputName := flag.String("output", "decomposition.bin", "Output decomposition filename")
	configPath := flag.String("config", "tucker3d.yaml", "Configuration file (YAML)")
	i1 := flag.Int("i1", 0, "Volume extent along the first axis")
	i2 := flag.Int("i2", 0, "Volume extent along the second axis")
	i3 := flag.Int("i3", 0, "Volume extent along the third axis")
	j1 := flag.Int("j1", 0, "Rank along the first axis (0 = full rank)")
	j2 := flag.Int("j2", 0, "Rank along the second axis (0 = full rank)")
	j3 := flag.Int("j3", 0, "Rank along the third axis (0 = full rank)")
	saveSlices := flag.Bool("save-slices", false, "Save reconstructed slices along all axes")
	slicesDir := flag.String("slices-dir", "", "Directory to save reconstructed slices (overrides config)")
	flag.Parse()

	// Validate inputs
	if *inputFile == "" || *i1 <= 0 || *i2 <= 0 || *i3 <= 0 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags override the configured ranks; zero means full rank.
	ranks := tucker.Ranks{J1: cfg.Ranks.J1, J2: cfg.Ranks.J2, J3: cfg.Ranks.J3}
	if *j1 > 0 {
		ranks.J1 = *j1
	}
	if *j2 > 0 {
		ranks.J2 = *j2
	}
	if *j3 > 0 {
		ranks.J3 = *j3
	}
	if ranks.J1 <= 0 {
		ranks.J1 = *i1
	}
	if ranks.J2 <= 0 {
		ranks.J2 = *i2
	}
	if ranks.J3 <= 0 {
		ranks.J3 = *i3
	}

	fmt.Println("================================")
	fmt.Println("TUCKER3 TENSOR DECOMPOSITION")
	fmt.Println("================================")

	fmt.Printf("Loading volume %s (%dx%dx%d)...\n", *inputFile, *i1, *i2, *i3)
	data, err := volume.Load(*inputFile, *i1, *i2, *i3)
	if err != nil {
		log.Fatalf("Failed to load volume: %v", err)
	}

	if cfg.Denoise.Enabled {
		fmt.Printf("Applying FFT low-pass denoising (cutoff %.2f)...\n", cfg.Denoise.Cutoff)
		if data, err = volume.Denoise(data, cfg.Denoise.Cutoff); err != nil {
			log.Fatalf("Denoising failed: %v", err)
		}
	}

	opts := tucker.Options{
		MaxIterations:  cfg.HOOI.MaxIterations,
		MinImprovement: cfg.HOOI.MinImprovement,
	}

	fmt.Printf("Decomposing at ranks (%d, %d, %d)...\n", ranks.J1, ranks.J2, ranks.J3)
	startTime := time.Now()
	dec, err := tucker.Decompose(data, ranks, opts)
	if err != nil {
		log.Fatalf("Decomposition failed: %v", err)
	}
	elapsed := time.Since(startTime)

	quality, err := dec.Measure(data)
	if err != nil {
		log.Fatalf("Failed to measure reconstruction quality: %v", err)
	}

	fmt.Printf("\nDecomposition completed in %.2f seconds (%d ALS iterations)\n",
		elapsed.Seconds(), dec.Iterations())
	fmt.Printf("Reconstruction quality:\n")
	fmt.Printf("=======================\n")
	fmt.Printf("RMSE: %.6f\n", quality.RMSE)
	fmt.Printf("PSNR: %.2f dB\n", quality.PSNR)
	fmt.Printf("Correlation: %.4f\n", quality.Correlation)
	fmt.Printf("Compression ratio: %.2fx\n", quality.CompressionRatio)

	// The exported buffer is headerless; the shapes printed above are what
	// a consumer needs to import it again.
	buf := dec.Export(make([]float64, 0, dec.SerializedLen()))
	if err := volume.SaveBuffer(*outputName, buf); err != nil {
		log.Fatalf("Failed to write decomposition: %v", err)
	}
	fmt.Printf("\nDecomposition (%d scalars) saved to: %s\n", dec.SerializedLen(), *outputName)

	if *saveSlices || cfg.Output.SaveSlices {
		dir := cfg.Output.SlicesDir
		if *slicesDir != "" {
			dir = *slicesDir
		}

		fmt.Println("\nExtracting reconstructed slices along all axes...")
		recon, err := dec.Reconstruct()
		if err != nil {
			log.Fatalf("Reconstruction failed: %v", err)
		}

		viewer := visualization.NewViewer(recon)
		for _, axis := range []string{"x", "y", "z"} {
			axisDir := filepath.Join(dir, axis)
			fmt.Printf("Saving %s-axis slices to: %s\n", axis, axisDir)

			if err := viewer.SaveSliceSequence(axis, axisDir); err != nil {
				log.Printf("Warning: Failed to save %s-axis slices: %v", axis, err)
			}
		}
		fmt.Println("Slice extraction completed!")
	}
}
