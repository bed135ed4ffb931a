package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/shopspring/decimal"
)

//go:embed schema.cue
var schemaCUE []byte

//go:embed catalog.cue
var defaultCUE []byte

// document mirrors the CUE layout. Field names follow the json tags.
type document struct {
	Exterior []struct {
		Name   string `json:"name"`
		Prefix string `json:"prefix"`
		Months []int  `json:"months"`
		Rates  []struct {
			Months int       `json:"months"`
			Tiers  []float64 `json:"tiers"`
		} `json:"rates"`
	} `json:"exterior"`
	Interior []struct {
		Size  string    `json:"size"`
		Rates []float64 `json:"rates"`
	} `json:"interior"`
}

// Default loads the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Load("catalog.cue", defaultCUE)
}

// MustDefault is Default for callers that cannot recover from a broken
// embedded catalog (tests, static initialisation).
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFile loads a catalog override from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Load(filepath.Base(path), data)
}

// Load compiles a CUE catalog document, unifies it with the schema and
// converts it into a Catalog.
func Load(name string, data []byte) (*Catalog, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("%w: compile %s: %v", ErrInvalidCatalog, name, err)
	}

	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, name, err)
	}

	var doc document
	if err := unified.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidCatalog, name, err)
	}

	return fromDocument(doc)
}

func fromDocument(doc document) (*Catalog, error) {
	c := &Catalog{}
	seen := make(map[string]bool)

	for _, p := range doc.Exterior {
		if seen[p.Name] {
			return nil, fmt.Errorf("%w: duplicate exterior product %q", ErrInvalidCatalog, p.Name)
		}
		seen[p.Name] = true

		product := ExteriorProduct{
			Name:   p.Name,
			Prefix: p.Prefix,
			Months: append([]int(nil), p.Months...),
			Rates:  make(map[int][]decimal.Decimal, len(p.Rates)),
		}
		for _, r := range p.Rates {
			tiers := make([]decimal.Decimal, len(r.Tiers))
			for i, f := range r.Tiers {
				tiers[i] = decimal.NewFromFloat(f)
			}
			product.Rates[r.Months] = tiers
		}
		// Every offered term must be priceable.
		for _, m := range product.Months {
			if _, ok := product.Rates[m]; !ok {
				return nil, fmt.Errorf("%w: %s offers %d months without a rate row", ErrInvalidCatalog, p.Name, m)
			}
		}
		c.exterior = append(c.exterior, product)
	}

	seen = make(map[string]bool)
	for _, s := range doc.Interior {
		if seen[s.Size] {
			return nil, fmt.Errorf("%w: duplicate interior size %q", ErrInvalidCatalog, s.Size)
		}
		seen[s.Size] = true

		size := InteriorSize{Size: s.Size}
		for _, f := range s.Rates {
			size.Rates = append(size.Rates, decimal.NewFromFloat(f))
		}
		c.interior = append(c.interior, size)
	}

	if len(c.exterior) == 0 && len(c.interior) == 0 {
		return nil, fmt.Errorf("%w: no products", ErrInvalidCatalog)
	}
	return c, nil
}
