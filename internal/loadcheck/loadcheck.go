// Package loadcheck fires concurrent increments at a running counter
// endpoint and verifies that none of them were lost.
package loadcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	vh "github.com/tckz/vegetahelper"
	vegeta "github.com/tsenart/vegeta/v12/lib"

	"github.com/okian/sitefn/internal/domain/model"
)

// Config describes one load check run.
type Config struct {
	// URL of the counter endpoint, e.g. http://localhost:9080/count.
	URL      string
	Rate     vegeta.Rate
	Duration time.Duration
	Workers  uint64
	Client   *http.Client
}

// Report is the outcome of a run.
type Report struct {
	Baseline  int64
	Final     int64
	Successes int64
	Failures  int64
	Metrics   vegeta.Metrics
}

// Expected is the final value a loss-free counter must reach: the
// baseline, one per successful request, and one for the final read.
func (r Report) Expected() int64 {
	return r.Baseline + r.Successes + 1
}

// Run reads the counter, attacks it, reads it again and compares.
func Run(ctx context.Context, cfg Config) (Report, error) {
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = vegeta.DefaultWorkers
	}

	var rep Report
	baseline, err := fetch(ctx, client, cfg.URL)
	if err != nil {
		return rep, fmt.Errorf("baseline read: %w", err)
	}
	rep.Baseline = baseline

	atk := vh.NewAttacker(func(ctx context.Context) (*vh.HitResult, error) {
		_, err := fetch(ctx, client, cfg.URL)
		return nil, err
	}, vh.WithWorkers(workers))

	for r := range atk.Attack(ctx, cfg.Rate, cfg.Duration, "count") {
		rep.Metrics.Add(r)
		if r.Error == "" {
			rep.Successes++
		} else {
			rep.Failures++
		}
	}
	rep.Metrics.Close()

	final, err := fetch(ctx, client, cfg.URL)
	if err != nil {
		return rep, fmt.Errorf("final read: %w", err)
	}
	rep.Final = final

	switch want := rep.Expected(); {
	case final < want:
		return rep, fmt.Errorf("%w: want %d, got %d", ErrLostUpdates, want, final)
	case final > want:
		return rep, fmt.Errorf("%w: want %d, got %d", ErrExtraUpdates, want, final)
	}
	return rep, nil
}

// fetch performs one GET and returns the count in the response.
func fetch(ctx context.Context, client *http.Client, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}
	var vc model.VisitorCount
	if err := json.NewDecoder(resp.Body).Decode(&vc); err != nil {
		return 0, fmt.Errorf("decode count: %w", err)
	}
	return vc.Count, nil
}
