package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/paulgmiller/trialetl/internal/model"
	"github.com/paulgmiller/trialetl/internal/registry"
)

// Querier is the part of registry.Client the downloader needs.
type Querier interface {
	Query(ctx context.Context, from, to time.Time) (*registry.AllTrials, error)
}

// Downloader pulls each window from the registry and writes one JSON file
// per study.
type Downloader struct {
	Registry Querier
	DataDir  string
	Workers  int
	Options  Options
}

// Summary counts what a download run did.
type Summary struct {
	Windows int
	Studies int
	Failed  int
	Flags   map[int]int // iec_flag -> studies
}

func (d *Downloader) Run(ctx context.Context, windows []Window) (Summary, error) {
	sum := Summary{Flags: map[int]int{}}
	if err := os.MkdirAll(d.DataDir, 0o755); err != nil {
		return sum, err
	}
	for _, w := range windows {
		res, err := d.Registry.Query(ctx, w.From, w.To)
		if err != nil {
			return sum, fmt.Errorf("window %s: %w", w, err)
		}
		sum.Windows++
		log.Printf("window %s: %d trials", w, len(res.FullTrials))
		d.process(ctx, res.FullTrials, &sum)
		if err := ctx.Err(); err != nil {
			return sum, err
		}
	}
	log.Printf("downloaded %d studies (%d failed), iec flags %v", sum.Studies, sum.Failed, sum.Flags)
	return sum, nil
}

func (d *Downloader) process(ctx context.Context, trials []registry.FullTrial, sum *Summary) {
	type result struct {
		id   string
		flag int
		err  error
	}
	jobs := make(chan registry.FullTrial)
	results := make(chan result)

	var wg sync.WaitGroup
	for range max(d.Workers, 1) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ft := range jobs {
				st := Transform(ft, d.Options)
				err := WriteStudy(d.DataDir, st)
				results <- result{id: st.SdSid, flag: st.IECFlag, err: err}
			}
		}()
	}

	go func() {
	feed:
		for _, ft := range trials {
			select {
			case jobs <- ft:
			case <-ctx.Done():
				break feed
			}
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	for r := range results {
		if r.err != nil {
			log.Printf("%s: %v", r.id, r.err)
			sum.Failed++
			continue
		}
		sum.Studies++
		sum.Flags[r.flag]++
	}
}

// WriteStudy stores st as {dir}/{sd_sid}.json.
func WriteStudy(dir string, st model.Study) error {
	if st.SdSid == "" {
		return errors.New("study has no id")
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, st.SdSid+".json"), data, 0o644)
}

// ReadStudy reads a file written by WriteStudy.
func ReadStudy(path string) (model.Study, error) {
	var st model.Study
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("%s: %w", path, err)
	}
	return st, nil
}
