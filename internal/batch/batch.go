// Package batch converts whole directories of models with a worker pool.
package batch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/aliasconv/internal/convert"
	"github.com/Faultbox/aliasconv/pkg/formats"
)

// Config holds the settings of one batch run.
type Config struct {
	InputDir      string
	OutputDir     string
	OutputExt     string
	Workers       int
	Previews      bool
	PreviewFormat string
	Logger        *zap.Logger

	// ProgressInterval controls how often progress is logged. Zero uses two
	// seconds.
	ProgressInterval time.Duration
}

// Result holds the outcome of converting one file.
type Result struct {
	Input    string   `yaml:"input"`
	Output   string   `yaml:"output,omitempty"`
	Success  bool     `yaml:"success"`
	Error    string   `yaml:"error,omitempty"`
	Files    []string `yaml:"files,omitempty"`
	Previews []string `yaml:"previews,omitempty"`
	Warnings []string `yaml:"warnings,omitempty"`
}

// Manifest summarizes a batch run.
type Manifest struct {
	RunID    string        `yaml:"run_id"`
	Started  time.Time     `yaml:"started"`
	Duration time.Duration `yaml:"duration"`
	Total    int           `yaml:"total"`
	Failed   int           `yaml:"failed"`
	Results  []Result      `yaml:"results"`
}

// Find lists every model file under dir that has a registered decoder, as
// paths relative to dir in lexical order.
func Find(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, err := formats.DecoderFor(path); err != nil {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scanning %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

// Run converts every input, given relative to cfg.InputDir, into the same
// relative location under cfg.OutputDir with cfg.OutputExt. Failures are
// recorded per file and do not stop the run. Cancelling ctx stops handing
// out new files; files not started are reported as failed.
func Run(ctx context.Context, conv *convert.Converter, cfg Config, inputs []string) *Manifest {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	interval := cfg.ProgressInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	m := &Manifest{
		RunID:   uuid.NewString(),
		Started: time.Now(),
		Total:   len(inputs),
		Results: make([]Result, len(inputs)),
	}
	log = log.With(zap.String("run", m.RunID))
	log.Info("batch started", zap.Int("files", len(inputs)), zap.Int("workers", workers))

	var processed atomic.Int64
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					rate := float64(p) / time.Since(m.Started).Seconds()
					log.Info("progress", zap.Int64("done", p), zap.Int("total", len(inputs)), zap.Float64("files_per_sec", rate))
				}
			}
		}
	}()

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				m.Results[idx] = process(conv, cfg, inputs[idx])
				processed.Add(1)
			}
		}()
	}

	sent := 0
feed:
	for ; sent < len(inputs); sent++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break feed
		case jobs <- sent:
		}
	}
	close(jobs)
	wg.Wait()
	close(done)

	for i := sent; i < len(inputs); i++ {
		m.Results[i] = Result{Input: inputs[i], Error: ctx.Err().Error()}
	}
	for _, r := range m.Results {
		if !r.Success {
			m.Failed++
		}
	}
	m.Duration = time.Since(m.Started)

	log.Info("batch finished", zap.Int("total", m.Total), zap.Int("failed", m.Failed), zap.Duration("duration", m.Duration))
	return m
}

func process(conv *convert.Converter, cfg Config, rel string) Result {
	input := filepath.Join(cfg.InputDir, rel)
	output := filepath.Join(cfg.OutputDir, strings.TrimSuffix(rel, filepath.Ext(rel))+cfg.OutputExt)

	res, err := conv.Convert(input, output)
	if err != nil {
		return Result{Input: rel, Error: err.Error()}
	}

	r := Result{
		Input:    rel,
		Output:   output,
		Success:  true,
		Files:    res.Files,
		Warnings: res.Warnings,
	}
	if cfg.Previews {
		dir := filepath.Join(filepath.Dir(output), "previews")
		base := strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))
		previews, err := WritePreviews(res.Model, dir, base, cfg.PreviewFormat)
		if err != nil {
			r.Success = false
			r.Error = err.Error()
		}
		r.Previews = previews
	}
	return r
}

// ensureDir creates dir and its parents.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	return nil
}
