// Package delivery holds the static wilaya table and its delivery fees.
package delivery

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/zedlink-test/My-Shop/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed wilayas.yaml
var wilayasYAML []byte

var (
	ErrDuplicateRegion = errors.New("duplicate region id")
	ErrNegativeFee     = errors.New("delivery fee must not be negative")
	ErrEmptyTable      = errors.New("region table is empty")
)

type regionFile struct {
	Wilayas []struct {
		ID          int     `yaml:"id"`
		Name        string  `yaml:"name"`
		DeliveryFee float64 `yaml:"delivery_fee"`
	} `yaml:"wilayas"`
}

// Table is the immutable region reference data. It is safe for concurrent
// reads.
type Table struct {
	regions []domain.Region
	byID    map[int]domain.Region
}

// New builds a table from regions, sorted by id.
func New(regions []domain.Region) (*Table, error) {
	if len(regions) == 0 {
		return nil, ErrEmptyTable
	}
	t := &Table{
		regions: make([]domain.Region, 0, len(regions)),
		byID:    make(map[int]domain.Region, len(regions)),
	}
	for _, r := range regions {
		if _, ok := t.byID[r.ID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateRegion, r.ID)
		}
		if r.DeliveryFee.IsNegative() {
			return nil, fmt.Errorf("region %d: %w", r.ID, ErrNegativeFee)
		}
		t.byID[r.ID] = r
		t.regions = append(t.regions, r)
	}
	sort.Slice(t.regions, func(i, j int) bool { return t.regions[i].ID < t.regions[j].ID })
	return t, nil
}

// Load parses a YAML region table.
func Load(r io.Reader) (*Table, error) {
	var f regionFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode region table: %w", err)
	}
	regions := make([]domain.Region, 0, len(f.Wilayas))
	for _, w := range f.Wilayas {
		regions = append(regions, domain.Region{
			ID:          w.ID,
			Name:        w.Name,
			DeliveryFee: decimal.NewFromFloat(w.DeliveryFee),
		})
	}
	return New(regions)
}

// Default returns the bundled wilaya table.
func Default() *Table {
	t, err := Load(bytes.NewReader(wilayasYAML))
	if err != nil {
		panic(fmt.Sprintf("bundled wilaya table: %v", err))
	}
	return t
}

// FeeFor returns the delivery fee of a region. Unknown or unselected regions
// cost nothing so they never block checkout.
func (t *Table) FeeFor(regionID int) decimal.Decimal {
	if r, ok := t.byID[regionID]; ok {
		return r.DeliveryFee
	}
	return decimal.Zero
}

func (t *Table) Lookup(regionID int) (domain.Region, bool) {
	r, ok := t.byID[regionID]
	return r, ok
}

// All returns the regions ordered by id.
func (t *Table) All() []domain.Region {
	out := make([]domain.Region, len(t.regions))
	copy(out, t.regions)
	return out
}
