package pricing

import (
	"encoding/json"
	"fmt"
	"os"
)

// Package is one purchasable credit bundle.
type Package struct {
	Credits    int `json:"credits"`
	PriceCents int `json:"price_cents"`
}

// Pricing holds the model cost table and the purchase catalog. It is built
// once at startup and injected so handlers and the billing service agree on
// one authoritative source.
type Pricing struct {
	ModelCosts      map[string]int     `json:"model_costs"`
	DefaultTextCost int                `json:"default_text_cost"`
	ImageCost       int                `json:"image_cost"`
	Packages        map[string]Package `json:"packages"`
}

// Default returns the built-in pricing used when no pricing file is configured.
func Default() *Pricing {
	return &Pricing{
		ModelCosts: map[string]int{
			"llama2":      1,
			"codellama":   2,
			"mistral":     1,
			"neural-chat": 1,
		},
		DefaultTextCost: 1,
		ImageCost:       5,
		Packages: map[string]Package{
			"starter":      {Credits: 100, PriceCents: 500},
			"professional": {Credits: 500, PriceCents: 2000},
			"enterprise":   {Credits: 2000, PriceCents: 7500},
		},
	}
}

// Load reads pricing from the JSON file at path, falling back to Default()
// when path is empty. Missing fields in the file keep their default values.
func Load(path string) (*Pricing, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pricing file: %w", err)
	}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse pricing file %s: %w", path, err)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("pricing file %s: %w", path, err)
	}
	return p, nil
}

func (p *Pricing) validate() error {
	if p.DefaultTextCost <= 0 {
		return fmt.Errorf("default_text_cost must be > 0")
	}
	if p.ImageCost <= 0 {
		return fmt.Errorf("image_cost must be > 0")
	}
	for model, cost := range p.ModelCosts {
		if cost <= 0 {
			return fmt.Errorf("model %q cost must be > 0", model)
		}
	}
	for id, pkg := range p.Packages {
		if pkg.Credits <= 0 || pkg.PriceCents <= 0 {
			return fmt.Errorf("package %q must have positive credits and price", id)
		}
	}
	return nil
}

// TextCost returns the credit cost for a model. Unknown models fall back to
// the default cost rather than failing.
func (p *Pricing) TextCost(model string) int {
	if cost, ok := p.ModelCosts[model]; ok {
		return cost
	}
	return p.DefaultTextCost
}

// PackageByID returns the package for id, or false if the id is unknown.
func (p *Pricing) PackageByID(id string) (Package, bool) {
	pkg, ok := p.Packages[id]
	return pkg, ok
}
