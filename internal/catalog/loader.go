// Package catalog loads the phone catalog and tracks which model is shown
// in detail.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"maji/local-app/internal/event"
	"maji/local-app/internal/log"
	"maji/local-app/internal/model"
)

// MessageLoadFailed is shown when the catalog itself cannot be loaded.
const MessageLoadFailed = "Error al cargar el catálogo. Intenta nuevamente."

// Source is where catalog data comes from
type Source interface {
	Catalog(ctx context.Context) ([]model.Brand, error)
	ImagesForModel(ctx context.Context, modelID int) ([]model.Image, error)
}

// Loader holds the loaded catalog, the per-model image map and the
// expansion target.
type Loader struct {
	source      Source
	maxInFlight int
	events      *event.EventManager
	logger      *log.Logger

	mu       sync.Mutex
	brands   []model.Brand
	images   map[int][]model.Image
	expanded int
	open     bool
	detail   []model.Image

	// expansion counts Toggle calls so a slow fetch for a model that is no
	// longer expanded is dropped.
	expansion uint64
}

// NewLoader creates an empty Loader. maxInFlight bounds concurrent image
// requests; values below 1 mean no bound.
func NewLoader(source Source, maxInFlight int, events *event.EventManager, logger *log.Logger) *Loader {
	return &Loader{
		source:      source,
		maxInFlight: maxInFlight,
		events:      events,
		logger:      logger,
		images:      map[int][]model.Image{},
	}
}

// Load fetches the catalog and then the images of every model. A model whose
// images cannot be fetched gets an empty list; only a failure to fetch the
// catalog itself is returned.
func (l *Loader) Load(ctx context.Context) error {
	brands, err := l.source.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	var ids []int
	for _, b := range brands {
		for _, m := range b.Models {
			ids = append(ids, m.ID)
		}
	}

	images := make(map[int][]model.Image, len(ids))
	var imagesMu sync.Mutex

	g := new(errgroup.Group)
	if l.maxInFlight > 0 {
		g.SetLimit(l.maxInFlight)
	}
	for _, id := range ids {
		id := id
		g.Go(func() error {
			imgs, err := l.source.ImagesForModel(ctx, id)
			if err != nil {
				l.logger.Warn(ctx, "Failed to load model images", log.Fields{"modelID": id, "error": err})
				imgs = []model.Image{}
			}
			if imgs == nil {
				imgs = []model.Image{}
			}

			imagesMu.Lock()
			images[id] = imgs
			imagesMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	l.brands = brands
	l.images = images
	l.mu.Unlock()

	l.logger.Info(ctx, "Catalog loaded", log.Fields{"brands": len(brands), "models": len(ids)})
	if l.events != nil {
		l.events.Publish(event.Event{Type: event.CatalogLoaded, Data: len(ids)})
	}
	return nil
}

// Brands returns the loaded brands
func (l *Loader) Brands() []model.Brand {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Brand(nil), l.brands...)
}

// Images returns the images loaded for modelID and whether they were fetched
func (l *Loader) Images(modelID int) ([]model.Image, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	imgs, ok := l.images[modelID]
	return append([]model.Image(nil), imgs...), ok
}

// Find returns a loaded model together with its brand
func (l *Loader) Find(modelID int) (model.PhoneModel, model.Brand, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, b := range l.brands {
		for _, m := range b.Models {
			if m.ID == modelID {
				return m, b, true
			}
		}
	}
	return model.PhoneModel{}, model.Brand{}, false
}

// Expanded returns the model shown in detail, if any
func (l *Loader) Expanded() (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.expanded, l.open
}

// Detail returns the images of the expanded model
func (l *Loader) Detail() []model.Image {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Image(nil), l.detail...)
}

// Toggle selects modelID. Selecting the expanded model collapses it; any
// other model becomes the expansion target and its images are fetched again
// into the detail list. It reports whether a model is expanded afterwards.
func (l *Loader) Toggle(ctx context.Context, modelID int) (bool, error) {
	l.mu.Lock()
	if l.open && l.expanded == modelID {
		l.collapseLocked()
		l.mu.Unlock()
		return false, nil
	}
	l.expanded = modelID
	l.open = true
	l.detail = nil
	l.expansion++
	expansion := l.expansion
	l.mu.Unlock()

	imgs, err := l.source.ImagesForModel(ctx, modelID)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.expansion != expansion {
		return l.open, nil
	}
	if err != nil {
		l.detail = []model.Image{}
		return true, fmt.Errorf("failed to load images for model %d: %w", modelID, err)
	}
	l.detail = imgs
	return true, nil
}

// Collapse clears the expansion target and the detail list
func (l *Loader) Collapse() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.collapseLocked()
}

func (l *Loader) collapseLocked() {
	l.expanded = 0
	l.open = false
	l.detail = nil
	l.expansion++
}
