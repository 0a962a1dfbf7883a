package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/tmpim/fbgrab"
	"github.com/tmpim/fbgrab/fbdev"
)

type config struct {
	inputPath     string
	outputPath    string
	resolution    int
	removePartial bool
	quiet         bool
}

var errStrayArgs = errors.New("unexpected arguments")

// parseArgs parses the command line, excluding the program name. Usage is
// written to logger on any failure.
func parseArgs(name string, args []string, logger *log.Logger) (config, error) {
	var cfg config

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(logger.Writer())
	fs.StringVar(&cfg.inputPath, "input", fbdev.DefaultPath, "set the framebuffer device to read")
	fs.StringVar(&cfg.inputPath, "i", fbdev.DefaultPath, "shorthand for -input")
	fs.StringVar(&cfg.outputPath, "output", "frame.bmp", "set location of output bitmap")
	fs.StringVar(&cfg.outputPath, "o", "frame.bmp", "shorthand for -output")
	fs.IntVar(&cfg.resolution, "resolution", 1, "divide the width and height of the output by this factor")
	fs.IntVar(&cfg.resolution, "r", 1, "shorthand for -resolution")
	fs.BoolVar(&cfg.removePartial, "remove-partial", false, "delete the output file if writing it fails")
	fs.BoolVar(&cfg.quiet, "q", false, "only log errors")

	fs.Usage = func() {
		logger.Println("Grabs the current frame in the framebuffer and saves it as a .bmp file,")
		logger.Println("with optional lossy compression for thumbnailing.")
		logger.Println("")
		logger.Println("Usage: " + name + " --input/-i <input_file> --output/-o <output_file> --resolution/-r <resolution>")
		logger.Println("")
		logger.Println("Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.resolution < 1 {
		logger.Printf("Invalid resolution division: %d\n", cfg.resolution)
		fs.Usage()
		return cfg, fmt.Errorf("%w: %d", fbgrab.ErrInvalidFactor, cfg.resolution)
	}

	if fs.NArg() != 0 {
		fs.Usage()
		return cfg, fmt.Errorf("%w: %q", errStrayArgs, fs.Args())
	}

	return cfg, nil
}

// run captures one frame as configured and returns the exit status.
func run(cfg config, open fbgrab.Opener, logger *log.Logger) int {
	start := time.Now()

	res, err := fbgrab.Capture(fbgrab.Options{
		Device:        cfg.inputPath,
		Output:        cfg.outputPath,
		Factor:        cfg.resolution,
		RemovePartial: cfg.removePartial,
		Open:          open,
	})
	if err != nil {
		logger.Println("Failed to capture frame:", err)
		if fbgrab.StepOf(err) == fbgrab.WriteFailed && !cfg.removePartial {
			logger.Printf("Warning: %q may be incomplete.\n", cfg.outputPath)
		}
		return 1
	}

	if !cfg.quiet {
		logger.Printf("Captured %s from %q.\n", res.Geometry, cfg.inputPath)
		logger.Printf("Wrote %dx%d bitmap (%d bytes) to %q in %s.\n",
			res.Header.Width, -res.Header.Height, res.Written, cfg.outputPath,
			time.Since(start))
	}

	return 0
}

func main() {
	log.SetFlags(0)
	logger := log.Default()

	cfg, err := parseArgs(os.Args[0], os.Args[1:], logger)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	} else if err != nil {
		os.Exit(2)
	}

	os.Exit(run(cfg, fbdev.OpenSource, logger))
}
