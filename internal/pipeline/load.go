package pipeline

import (
	"context"
	"log"
	"path/filepath"
	"sort"

	"github.com/samber/lo"

	"github.com/paulgmiller/trialetl/internal/model"
)

const defaultBatchSize = 250

// Saver is implemented by store.SQLiteStore.
type Saver interface {
	SaveStudies(ctx context.Context, studies []model.Study) error
}

// Loader moves the JSON files in DataDir into the database in batches.
type Loader struct {
	Store     Saver
	DataDir   string
	BatchSize int
}

// Run returns the number of studies saved.
func (l *Loader) Run(ctx context.Context) (int, error) {
	files, err := filepath.Glob(filepath.Join(l.DataDir, "*.json"))
	if err != nil {
		return 0, err
	}
	sort.Strings(files)

	size := l.BatchSize
	if size <= 0 {
		size = defaultBatchSize
	}
	saved := 0
	for _, batch := range lo.Chunk(files, size) {
		studies := make([]model.Study, 0, len(batch))
		for _, f := range batch {
			st, err := ReadStudy(f)
			if err != nil {
				return saved, err
			}
			studies = append(studies, st)
		}
		if err := l.Store.SaveStudies(ctx, studies); err != nil {
			return saved, err
		}
		saved += len(studies)
		log.Printf("loaded %d/%d studies", saved, len(files))
	}
	return saved, nil
}
