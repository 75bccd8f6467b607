package report

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hindsight-io/hindsight/internal/store"
)

// Runner fans the per-product work out to a bounded worker pool. Products
// write disjoint files and read disjoint entity sets, so they parallelize
// freely; the registry inside the Reporter is read-only and shared.
//
// A product failure is logged and dropped: one bad product never blocks
// the others, and the next scheduled run retries naturally.
type Runner struct {
	Reporter *Reporter
	Workers  int
}

// Run processes every known product plus the all-entities pseudo-product
// in the selected mode. The returned error is reserved for failures that
// prevent any product work at all (listing products).
func (r *Runner) Run(ctx context.Context, regenerate bool) error {
	products, err := r.Reporter.Reads.Products(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	products = append(products, store.AllProducts)

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	mode := "incremental"
	if regenerate {
		mode = "regenerate"
	}
	slog.Info("collecting product time series", "mode", mode, "products", len(products), "workers", workers)

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for product := range jobs {
				r.runProduct(ctx, product, regenerate)
			}
		}()
	}

	for _, product := range products {
		jobs <- product
	}
	close(jobs)
	wg.Wait()

	return nil
}

func (r *Runner) runProduct(ctx context.Context, product string, regenerate bool) {
	var err error
	if regenerate {
		err = r.Reporter.Regenerate(ctx, product)
	} else {
		err = r.Reporter.CollectToday(ctx, product)
	}
	if err != nil {
		slog.Error("product collection failed, continuing", "product", product, "error", err)
	}
}
