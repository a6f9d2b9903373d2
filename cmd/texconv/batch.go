package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/EchoTools/texdecode/pkg/export"
)

type batchJob struct {
	in  string
	out string
}

type batchResult struct {
	converted int
	failed    int
}

func runBatch(args []string) error {
	flags := newFlagSet("batch", "[flags] input_dir output_dir")
	var opts decodeOptions
	opts.register(flags)
	workers := flags.Int("workers", runtime.NumCPU(), "number of concurrent decoders")
	to := flags.String("to", "png", "output type: png, bmp, tiff, raw")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 2 {
		flags.Usage()
		return errors.New("batch needs an input and an output directory")
	}
	logger := newLogger(opts.verbose)

	kind, err := export.KindFromPath("out." + *to)
	if err != nil {
		return err
	}
	jobs, err := collectJobs(flags.Arg(0), flags.Arg(1), kind)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d textures\n", len(jobs))

	res := convertAll(jobs, *workers, &opts, logger)
	fmt.Printf("\nCompleted: %d files converted, %d errors\n", res.converted, res.failed)
	return nil
}

// collectJobs maps every .dds file under inDir to an output path under
// outDir with the same relative layout.
func collectJobs(inDir, outDir string, kind export.Kind) ([]batchJob, error) {
	var jobs []batchJob
	err := filepath.WalkDir(inDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".dds") {
			return nil
		}
		rel, err := filepath.Rel(inDir, path)
		if err != nil {
			return err
		}
		out := filepath.Join(outDir, strings.TrimSuffix(rel, filepath.Ext(rel))+kind.Ext())
		jobs = append(jobs, batchJob{in: path, out: out})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", inDir, err)
	}
	return jobs, nil
}

// convertAll decodes jobs on a pool of workers. A failed file is logged
// and counted; it never stops the batch.
func convertAll(jobs []batchJob, workers int, opts *decodeOptions, logger *slog.Logger) batchResult {
	workers = max(workers, 1)
	queue := make(chan batchJob, workers*2)
	var wg sync.WaitGroup
	var converted, failed atomic.Int64

	worker := func() {
		defer wg.Done()
		for job := range queue {
			if err := decodeDDSFile(job.in, job.out, opts); err != nil {
				logger.Error("convert failed", "path", job.in, "err", err)
				failed.Add(1)
				continue
			}
			logger.Debug("converted", "path", job.in, "out", job.out)
			converted.Add(1)
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for i, job := range jobs {
		select {
		case <-ticker.C:
			fmt.Printf("\033[2K\rDecoding %d/%d", i, len(jobs))
		default:
		}
		queue <- job
	}
	close(queue)
	wg.Wait()

	return batchResult{converted: int(converted.Load()), failed: int(failed.Load())}
}
