// Package main provides a command-line tool for working with J3D material chunks.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goopsie/bmdFileTools/pkg/archive"
	"github.com/goopsie/bmdFileTools/pkg/j3d"
	"github.com/goopsie/bmdFileTools/pkg/logging"
	"github.com/goopsie/bmdFileTools/pkg/mat3"
	"github.com/goopsie/bmdFileTools/pkg/preset"
	"github.com/goopsie/bmdFileTools/pkg/scene"
	"github.com/goopsie/bmdFileTools/pkg/texture"
)

var (
	mode       string
	inputPath  string
	outputPath string
	presetPath string
	scenePath  string
	sceneOut   string
	textureDir string
	legacy     bool
	strict     bool
	split      bool
	verbose    bool
	level      int
	format     string
)

func init() {
	flag.StringVar(&mode, "mode", "", "Operation mode: dump, repack, build, pack, unpack, scan")
	flag.StringVar(&inputPath, "input", "", "Input model, chunk, bundle or directory")
	flag.StringVar(&outputPath, "output", "", "Output file or directory")
	flag.StringVar(&presetPath, "presets", "", "Preset document (.json, .yaml) for build mode")
	flag.StringVar(&scenePath, "scene", "", "Scene description (.json, .yaml) for build mode")
	flag.StringVar(&sceneOut, "scene-out", "", "Write the scene with rewritten material indices (strict build)")
	flag.StringVar(&textureDir, "textures", "", "Directory to load preset textures from")
	flag.BoolVar(&legacy, "legacy", false, "Write the MAT2 variant")
	flag.BoolVar(&strict, "strict", false, "Require exactly one preset per material and keep preset order")
	flag.BoolVar(&split, "split", false, "Dump one preset document per material into -output")
	flag.StringVar(&format, "format", "json", "Document format for -split dumps: json or yaml")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.IntVar(&level, "level", archive.DefaultCompressionLevel, "zstd level for bundles")
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := validateFlags(); err != nil {
		flag.Usage()
		return err
	}
	log := logging.NewDefaultLogger("mat3tool", verbose)

	switch mode {
	case "dump":
		return runDump(log)
	case "repack":
		return runRepack(log)
	case "build":
		return runBuild(log)
	case "pack":
		return runPack()
	case "unpack":
		return runUnpack()
	case "scan":
		return runScan(log)
	default:
		return fmt.Errorf("unknown mode: %s", mode)
	}
}

func validateFlags() error {
	if mode == "" {
		return fmt.Errorf("mode is required")
	}
	if split && format != "json" && format != "yaml" {
		return fmt.Errorf("format must be json or yaml")
	}

	switch mode {
	case "dump", "repack", "pack", "unpack":
		if inputPath == "" || outputPath == "" {
			return fmt.Errorf("%s mode requires -input and -output", mode)
		}
	case "build":
		if scenePath == "" || outputPath == "" {
			return fmt.Errorf("build mode requires -scene and -output")
		}
		if strict && presetPath == "" {
			return fmt.Errorf("-strict requires -presets")
		}
	case "scan":
		if inputPath == "" {
			return fmt.Errorf("scan mode requires -input")
		}
	default:
		return fmt.Errorf("mode must be one of dump, repack, build, pack, unpack, scan")
	}

	return nil
}

func bundleOpts() []archive.WriterOption {
	return []archive.WriterOption{archive.WithCompressionLevel(level)}
}

// loadInput reads a model or a bare material chunk, either of which may be bundled.
// The model is nil for a bare chunk.
func loadInput(path string, log logging.Logger) (*j3d.File, *mat3.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read input: %w", err)
	}
	if archive.IsBundle(data) {
		if _, data, err = archive.Unpack(data); err != nil {
			return nil, nil, fmt.Errorf("unpack input: %w", err)
		}
	}

	if bytes.HasPrefix(data, []byte(j3d.TagMaterials)) || bytes.HasPrefix(data, []byte(j3d.TagLegacyMaterials)) {
		t, err := mat3.Decode(data,
			mat3.WithLegacy(bytes.HasPrefix(data, []byte(j3d.TagLegacyMaterials))),
			mat3.WithLogger(log))
		if err != nil {
			return nil, nil, fmt.Errorf("decode materials: %w", err)
		}
		return nil, t, nil
	}

	f, err := j3d.Parse(data)
	if err != nil {
		return nil, nil, err
	}
	t, err := f.Materials(mat3.WithLogger(log))
	if err != nil {
		return nil, nil, fmt.Errorf("decode materials: %w", err)
	}
	return f, t, nil
}

func runDump(log logging.Logger) error {
	f, t, err := loadInput(inputPath, log)
	if err != nil {
		return err
	}
	fmt.Printf("Materials loaded: %d names over %d records\n", len(t.Materials), t.PhysicalCount())

	if f != nil {
		if names, err := f.TextureNames(); err != nil {
			log.Warnf("texture names unavailable: %v", err)
		} else {
			for _, d := range t.SetTextureNames(texture.NewCatalog(names...)) {
				log.Warnf("%s", d)
			}
		}
	}

	if split {
		paths, err := preset.SaveDir(outputPath, t.Materials, "."+format)
		if err != nil {
			return fmt.Errorf("dump: %w", err)
		}
		fmt.Printf("Dump complete. %d documents written to %s\n", len(paths), outputPath)
		return nil
	}
	if err := preset.SaveFile(outputPath, t.Materials); err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	fmt.Printf("Dump complete. Output written to %s\n", outputPath)
	return nil
}

func runRepack(log logging.Logger) error {
	f, t, err := loadInput(inputPath, log)
	if err != nil {
		return err
	}
	t.Legacy = legacy
	return writeMaterials(f, t, log)
}

// writeMaterials stores t into f, or as a bare chunk when f is nil.
func writeMaterials(f *j3d.File, t *mat3.Table, log logging.Logger) error {
	if f != nil {
		if err := f.SetMaterials(t, mat3.WithLogger(log)); err != nil {
			return fmt.Errorf("encode materials: %w", err)
		}
		if err := j3d.WriteFile(outputPath, f, bundleOpts()...); err != nil {
			return err
		}
		fmt.Printf("Model written to %s (%d materials)\n", outputPath, len(t.Materials))
		return nil
	}

	data, err := mat3.Encode(t, mat3.WithLegacy(t.Legacy), mat3.WithLogger(log))
	if err != nil {
		return fmt.Errorf("encode materials: %w", err)
	}
	if strings.EqualFold(filepath.Ext(outputPath), j3d.BundleExt) {
		if data, err = archive.Pack(string(data[:4]), data, bundleOpts()...); err != nil {
			return fmt.Errorf("pack materials: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write materials: %w", err)
	}
	fmt.Printf("Chunk written to %s (%d materials)\n", outputPath, len(t.Materials))
	return nil
}

func runBuild(log logging.Logger) error {
	sc, err := scene.LoadFile(scenePath)
	if err != nil {
		return err
	}
	fmt.Printf("Scene loaded: %d meshes\n", sc.MeshCount())

	mg := &preset.Merger{Strict: strict, TextureDir: textureDir, Logger: log}
	if presetPath != "" {
		if mg.Presets, err = preset.LoadFile(presetPath); err != nil {
			return err
		}
	}

	// Textures already in the target model keep their indices.
	var model *j3d.File
	catalog := texture.NewCatalog()
	if inputPath != "" {
		if model, err = j3d.ReadFile(inputPath); err != nil {
			return err
		}
		if names, err := model.TextureNames(); err == nil {
			catalog = texture.NewCatalog(names...)
		}
	}
	mg.Textures = catalog

	t, err := mg.Build(sc)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	t.Legacy = legacy
	if catalog.Len() > 0 {
		fmt.Printf("Textures referenced: %s\n", strings.Join(catalog.Names(), ", "))
	}

	if sceneOut != "" {
		if err := scene.SaveFile(sceneOut, sc); err != nil {
			return err
		}
	}
	return writeMaterials(model, t, log)
}

func runPack() error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if len(data) < 4 {
		return fmt.Errorf("input too short to carry a kind tag")
	}
	bundle, err := archive.Pack(string(data[:4]), data, bundleOpts()...)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, bundle, 0o644); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}
	fmt.Printf("Packed %d bytes into %d\n", len(data), len(bundle))
	return nil
}

func runUnpack() error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open bundle: %w", err)
	}
	defer in.Close()

	kind, data, err := archive.ReadAll(in)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	fmt.Printf("Unpacked %s payload of %d bytes\n", kind, len(data))
	return nil
}

func runScan(log logging.Logger) error {
	files, err := j3d.Scan(inputPath)
	if err != nil {
		return fmt.Errorf("scan files: %w", err)
	}
	fmt.Printf("Found %d models\n", len(files))

	failed := 0
	for s := range j3d.Survey(files) {
		switch {
		case s.Err != nil:
			log.Errorf("%s: %v", s.Path, s.Err)
			failed++
		case s.Materials < 0:
			fmt.Printf("%s\t%s\t%d chunks\tno materials\n", s.Path, s.Type, s.Chunks)
		default:
			variant := j3d.TagMaterials
			if s.Legacy {
				variant = j3d.TagLegacyMaterials
			}
			fmt.Printf("%s\t%s\t%d chunks\t%s %d materials (%d records)\n",
				s.Path, s.Type, s.Chunks, variant, s.Materials, s.Records)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d models could not be read", failed, len(files))
	}
	return nil
}
