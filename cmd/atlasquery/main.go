package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"

	"ccfatlas/internal/models"
	"ccfatlas/pkg/annotation"
	"ccfatlas/pkg/config"
	"ccfatlas/pkg/coords"
	"ccfatlas/pkg/loader"
	"ccfatlas/pkg/spatialindex"
	"ccfatlas/pkg/visualization"
)

// parsePoint parses "x,y,z" into a point
func parsePoint(s string) (models.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return models.Point{}, fmt.Errorf("expected x,y,z but got %q", s)
	}

	var p models.Point
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return models.Point{}, fmt.Errorf("invalid coordinate %q: %w", part, err)
		}
		p[i] = float32(v)
	}
	return p, nil
}

// newSpace builds the coordinate space described by the configuration
func newSpace(cfg *config.Config) coords.Space {
	size := cfg.Dataset.Size
	origin := mgl32.Vec3{float32(size.AP) / 2, float32(size.DV) / 2, float32(size.LR) / 2}
	if len(cfg.Space.Origin) == 3 {
		origin = mgl32.Vec3{cfg.Space.Origin[0], cfg.Space.Origin[1], cfg.Space.Origin[2]}
	}
	r := cfg.Space.Resolution
	return coords.NewAffineSpace(size, mgl32.Vec3{r, r, r}, origin)
}

func formatPoint(p models.Point) string {
	if models.IsUndefined(p) {
		return "undefined"
	}
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", p[0], p[1], p[2])
}

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "atlas.yaml", "Path to the YAML configuration file")
	startFlag := flag.String("start", "", "Ray start as x,y,z (voxel space unless -world)")
	dirFlag := flag.String("dir", "0,-1,0", "Ray direction as x,y,z")
	distance := flag.Float64("distance", 0, "Search distance (default from config)")
	world := flag.Bool("world", false, "Interpret -start and -dir in world coordinates")
	region := flag.Int("region", 0, "Print the location summary of this region id")
	nearest := flag.String("nearest", "", "Find the border voxel nearest to x,y,z (voxel space)")
	render := flag.String("render", "", "Render outline slices along this axis (ap, dv or lr)")
	slicesDir := flag.String("slices-dir", "", "Directory for rendered slices (default from config)")
	logLevel := flag.String("log-level", "", "Log level (default from config)")
	writeConfig := flag.Bool("write-config", false, "Write a default configuration file and exit")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *logLevel != "" {
		cfg.Output.LogLevel = *logLevel
	}
	if *slicesDir != "" {
		cfg.Output.SlicesDir = *slicesDir
	}
	if *distance > 0 {
		cfg.Query.SearchDistance = float32(*distance)
	}

	level, err := log.ParseLevel(cfg.Output.LogLevel)
	if err != nil {
		log.Fatalf("Invalid log level %q: %v", cfg.Output.LogLevel, err)
	}
	log.SetLevel(level)

	// Load the annotation volume and compute its outlines once
	startTime := time.Now()
	field, err := loader.LoadAnnotation(cfg.Dataset)
	if err != nil {
		log.Fatalf("Failed to load annotation dataset: %v", err)
	}
	dataset := annotation.NewDataset(cfg.Dataset.Name, field, newSpace(cfg), nil)
	dataset.ComputeBorders()
	log.WithField("elapsed", time.Since(startTime)).Info("Annotation dataset ready")

	if *startFlag != "" {
		start, err := parsePoint(*startFlag)
		if err != nil {
			log.Fatalf("Invalid -start: %v", err)
		}
		dir, err := parsePoint(*dirFlag)
		if err != nil {
			log.Fatalf("Invalid -dir: %v", err)
		}

		var surface models.Point
		if *world {
			surface = dataset.FindWorldSurfaceCoordinate(start, dir, cfg.Query.SearchDistance)
			start = dataset.Space().World2Space(start)
			dir = dataset.Space().World2SpaceDirection(dir)
		} else {
			surface = dataset.FindSurfaceCoordinate(start, dir, cfg.Query.SearchDistance)
		}

		fmt.Printf("Start region: %d\n", dataset.ValueAt(start))
		fmt.Printf("Surface coordinate: %s\n", formatPoint(surface))

		fmt.Println("\nRegions along the ray:")
		for _, seg := range dataset.RegionsAlong(start, dir, cfg.Query.SearchDistance) {
			fmt.Printf("- region %6d  depth %8.2f  length %8.2f  entry %s\n",
				seg.RegionID, seg.Depth, seg.Length, formatPoint(seg.Entry))
		}
	}

	if *region > 0 {
		summary, ok := dataset.Region(*region)
		if !ok {
			fmt.Printf("Region %d not found in %s\n", *region, dataset.Name())
		} else {
			fmt.Printf("\nRegion %d: %d voxels\n", summary.ID, summary.Voxels)
			fmt.Printf("Centroid: %s\n", formatPoint(summary.Centroid))
			fmt.Printf("Spread: %s\n", formatPoint(summary.Spread))
		}
	}

	if *nearest != "" {
		p, err := parsePoint(*nearest)
		if err != nil {
			log.Fatalf("Invalid -nearest: %v", err)
		}
		index := spatialindex.NewBorderIndex(dataset)
		if match, ok := index.Nearest(p); ok {
			fmt.Printf("\nNearest border voxel: %s at distance %.3f\n", formatPoint(match.Voxel), match.Distance)
			around := index.Within(p, cfg.Query.NearestRadius)
			fmt.Printf("Border voxels within %.1f: %d\n", cfg.Query.NearestRadius, len(around))
		} else {
			fmt.Println("\nNo border voxels in dataset")
		}
	}

	if *render != "" {
		viewer := visualization.NewViewer(dataset, cfg.Output.SliceScale)
		axisDir := filepath.Join(cfg.Output.SlicesDir, *render)
		fmt.Printf("\nSaving %s-axis outline slices to: %s\n", *render, axisDir)
		if err := viewer.SaveSliceSequence(*render, axisDir); err != nil {
			log.Errorf("Failed to save %s-axis slices: %v", *render, err)
			os.Exit(1)
		}
	}
}
