package resolver

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/beetlebugorg/kml/internal/archive"
	"github.com/beetlebugorg/kml/internal/metrics"
	"github.com/beetlebugorg/kml/internal/parser"
	"go.uber.org/zap"
)

// iconTask fetches one URL and writes the image to every feature using it.
// Targets are written only by the task that owns them.
type iconTask struct {
	url     string
	targets []*parser.Resolved
}

// runTasks fetches icons on a bounded pool of workers and waits for all of them.
func (r *resolver) runTasks(ctx context.Context, tasks []*iconTask) {
	if len(tasks) == 0 {
		return
	}

	workers := r.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	// Don't create more workers than tasks
	if workers > len(tasks) {
		workers = len(tasks)
	}

	jobs := make(chan *iconTask, len(tasks))
	var done atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range jobs {
				r.fetch(ctx, task)
				n := done.Add(1)
				if r.opts.Progress != nil {
					r.opts.Progress(int(n), len(tasks))
				}
			}
		}()
	}

	for _, task := range tasks {
		jobs <- task
	}
	close(jobs)
	wg.Wait()
}

// fetch loads and decodes one icon. On any failure the targets keep
// the fallback set during the walk.
func (r *resolver) fetch(ctx context.Context, task *iconTask) {
	if err := ctx.Err(); err != nil {
		metrics.IconFetchTotal.WithLabelValues(metrics.FetchError).Inc()
		return
	}

	start := time.Now()
	data, err := r.opts.Fetcher.Fetch(ctx, task.url)
	metrics.IconFetchDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		r.log.Warn("Icon fetch failed, using default marker",
			zap.String("url", task.url), zap.Error(err))
		metrics.IconFetchTotal.WithLabelValues(metrics.FetchError).Inc()
		return
	}

	img, err := archive.DecodeImage(data)
	if err != nil {
		r.log.Warn("Fetched icon is not an image, using default marker",
			zap.String("url", task.url), zap.Error(err))
		metrics.IconFetchTotal.WithLabelValues(metrics.FetchDecode).Inc()
		return
	}

	metrics.IconFetchTotal.WithLabelValues(metrics.FetchOK).Inc()
	for _, res := range task.targets {
		res.Icon = parser.Icon{Source: parser.IconFetched, URL: task.url, Image: img, Hue: res.Hue}
	}
}
