package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultPaths are tried, in order, after the configured catalog path.
var DefaultPaths = []string{
	filepath.Join("data", "dogs.json"),
	"dogs.json",
}

// Catalog is the ordered, read-only collection of dogs. The zero value is an empty catalog.
type Catalog struct {
	dir  string
	dogs []*Dog
}

// New builds a catalog from dogs already in memory. dir is used to resolve image paths.
func New(dir string, dogs ...*Dog) *Catalog {
	return &Catalog{dir: dir, dogs: dogs}
}

// Load reads the first usable catalog among paths. A missing or broken source is logged and skipped;
// when nothing can be read the catalog is empty.
func Load(logger *zap.Logger, paths ...string) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}

		records, err := readRecords(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				logger.Debug("catalog source not found", zap.String("path", path))
			} else {
				logger.Warn("skipping unreadable catalog source", zap.String("path", path), zap.Error(err))
			}
			continue
		}

		dogs := make([]*Dog, 0, len(records))
		for i := range records {
			if err := validate.Struct(&records[i]); err != nil {
				logger.Warn("skipping invalid catalog record",
					zap.String("path", path),
					zap.Int("index", i),
					zap.String("name", records[i].BasicInfo.Name),
					zap.Error(err),
				)
				continue
			}
			dogs = append(dogs, records[i].toDog())
		}

		logger.Info("catalog loaded", zap.String("path", path), zap.Int("dogs", len(dogs)))
		return &Catalog{dir: filepath.Dir(path), dogs: dogs}
	}

	logger.Warn("no catalog source could be read, continuing with an empty catalog", zap.Strings("paths", paths))
	return &Catalog{}
}

func readRecords(path string) ([]record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	default:
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return records, nil
}

// Dogs returns the dogs in catalog order.
func (c *Catalog) Dogs() []*Dog {
	if c == nil {
		return nil
	}
	dogs := make([]*Dog, len(c.dogs))
	copy(dogs, c.dogs)
	return dogs
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.dogs)
}

// Vocabulary returns the sorted union of personality tags across the catalog.
func (c *Catalog) Vocabulary() []string {
	if c == nil {
		return nil
	}

	seen := make(map[string]struct{})
	for _, dog := range c.dogs {
		for _, tag := range dog.PersonalityTags {
			seen[tag] = struct{}{}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	return tags
}

// ResolveImage finds the dog's picture on disk: image_path relative to the catalog directory,
// then images/<basename>. The second value is false when neither exists.
func (c *Catalog) ResolveImage(dog *Dog) (string, bool) {
	if dog == nil || strings.TrimSpace(dog.ImagePath) == "" {
		return "", false
	}

	dir := ""
	if c != nil {
		dir = c.dir
	}

	candidates := []string{
		joinUnlessAbs(dir, dog.ImagePath),
		filepath.Join(dir, "images", filepath.Base(dog.ImagePath)),
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}

	return "", false
}

func joinUnlessAbs(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
