package usecase

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"go.ngs.io/emwave-api/internal/adapter/store"
	"go.ngs.io/emwave-api/internal/domain"
)

// MaterialCatalog merges the built-in media with an optional external
// catalogue. The external catalogue is loaded once, on first use; built-in
// names cannot be redefined.
type MaterialCatalog struct {
	loader store.MaterialLoader
	logger *zap.Logger

	once  sync.Once
	media map[string]domain.Medium // Keyed by lower-case name.
	err   error
}

// NewMaterialCatalog creates a catalogue. loader may be nil.
func NewMaterialCatalog(loader store.MaterialLoader, logger *zap.Logger) *MaterialCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaterialCatalog{loader: loader, logger: logger}
}

func (c *MaterialCatalog) load() {
	c.once.Do(func() {
		builtin := domain.GetAllMedia()
		c.media = make(map[string]domain.Medium, len(builtin))
		for _, m := range builtin {
			c.media[strings.ToLower(m.Name)] = m
		}
		if c.loader == nil {
			return
		}

		extra, err := c.loader.LoadMaterials()
		if err != nil {
			c.err = err
			c.logger.Warn("material catalogue not loaded, using built-in media", zap.Error(err))
			return
		}
		added := 0
		for _, m := range extra {
			key := strings.ToLower(m.Name)
			if _, builtin := domain.GetMedium(m.Name); builtin {
				c.logger.Warn("ignoring catalogue entry that shadows a built-in medium", zap.String("name", m.Name))
				continue
			}
			c.media[key] = m
			added++
		}
		c.logger.Info("material catalogue loaded", zap.Int("added", added), zap.Int("total", len(c.media)))
	})
}

// Lookup finds a medium by name, ignoring case.
func (c *MaterialCatalog) Lookup(name string) (domain.Medium, bool) {
	c.load()
	m, ok := c.media[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// All returns every medium sorted by refractive index, then name.
func (c *MaterialCatalog) All() []domain.Medium {
	c.load()
	out := make([]domain.Medium, 0, len(c.media))
	for _, m := range c.media {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := out[i].RefractiveIndex(), out[j].RefractiveIndex()
		if ni != nj {
			return ni < nj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// LoadError returns the external catalogue error, if any.
func (c *MaterialCatalog) LoadError() error {
	c.load()
	return c.err
}
