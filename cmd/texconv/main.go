// texconv - texture converter for J3D material authoring
//
// Converts the source formats a material preset may name (TGA, BMP, JPEG) to PNG
// and reports how texture names resolve against a directory.
//
// Usage:
//
//	texconv decode input.tga output.png    # any supported format → PNG
//	texconv info input.tga                 # show texture info
//	texconv resolve dir name [name...]     # show which file each name loads from
//	texconv batch dir/ out/                # convert a directory to PNG
package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/goopsie/bmdFileTools/pkg/texture"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "decode":
		if len(os.Args) != 4 {
			fmt.Fprintf(os.Stderr, "Usage: texconv decode input.tga output.png\n")
			os.Exit(1)
		}
		if err := decodeToPNG(os.Args[2], os.Args[3]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Decoded %s → %s\n", os.Args[2], os.Args[3])

	case "info":
		if len(os.Args) != 3 {
			fmt.Fprintf(os.Stderr, "Usage: texconv info input.tga\n")
			os.Exit(1)
		}
		if err := showInfo(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "resolve":
		if len(os.Args) < 4 {
			fmt.Fprintf(os.Stderr, "Usage: texconv resolve dir name [name...]\n")
			os.Exit(1)
		}
		if err := resolve(os.Args[2], os.Args[3:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "batch":
		if len(os.Args) != 4 {
			fmt.Fprintf(os.Stderr, "Usage: texconv batch input_dir output_dir\n")
			os.Exit(1)
		}
		if err := batchConvert(os.Args[2], os.Args[3]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `texconv - texture converter for J3D material authoring

Usage:
  texconv decode input output.png    Convert %s to PNG
  texconv info input                 Show texture info
  texconv resolve dir name...        Show which file each texture name loads from
  texconv batch input_dir output_dir Convert every supported file to PNG
`, strings.Join(texture.SearchExtensions, ", "))
}

func decodeToPNG(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	img, _, err := texture.Decode(data, filepath.Ext(inputPath))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func showInfo(inputPath string) error {
	info, err := texture.Probe(inputPath)
	if err != nil {
		return err
	}

	fmt.Printf("File: %s\n", inputPath)
	fmt.Printf("Dimensions: %dx%d\n", info.Width, info.Height)
	fmt.Printf("Format: %s\n", info.Format)
	return nil
}

// resolve loads names into a catalog the way preset textures are loaded.
func resolve(dir string, names []string) error {
	cat := texture.NewCatalog()
	missing := 0
	for _, name := range names {
		path, err := texture.Find(dir, name)
		if err != nil {
			fmt.Printf("%-24s not found\n", name)
			missing++
			continue
		}
		idx, err := cat.Add(path)
		if err != nil {
			fmt.Printf("%-24s %v\n", name, err)
			missing++
			continue
		}
		info, _ := cat.Info(idx)
		fmt.Printf("%-24s #%d %s\n", name, idx, info)
	}
	if missing > 0 {
		return fmt.Errorf("%d of %d textures unresolved", missing, len(names))
	}
	return nil
}

func isSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".png" {
		return false
	}
	if ext == ".jpeg" {
		return true
	}
	for _, e := range texture.SearchExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func batchConvert(inputDir, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	count := 0
	errors := 0

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isSource(path) {
			return nil
		}

		relPath, _ := filepath.Rel(inputDir, path)
		outPath := strings.TrimSuffix(filepath.Join(outputDir, relPath), filepath.Ext(path)) + ".png"

		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "mkdir %s: %v\n", filepath.Dir(outPath), err)
			errors++
			return nil
		}

		if err := decodeToPNG(path, outPath); err != nil {
			fmt.Fprintf(os.Stderr, "convert %s: %v\n", path, err)
			errors++
		} else {
			count++
			if count%100 == 0 {
				fmt.Printf("Processed %d files...\n", count)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nCompleted: %d files converted, %d errors\n", count, errors)
	return nil
}
