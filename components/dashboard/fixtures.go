package dashboard

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/default.yaml
var defaultFixtures []byte

// Fixtures holds the data the backend does not serve yet.
type Fixtures struct {
	Sales    []SalesPoint    `yaml:"sales"`
	Accounts []ClientAccount `yaml:"accounts"`
}

// FixtureRepository serves accounts and the sales series from YAML.
type FixtureRepository struct {
	fixtures Fixtures
}

var (
	_ AccountRepository = (*FixtureRepository)(nil)
	_ SalesRepository   = (*FixtureRepository)(nil)
)

// NewFixtureRepository wraps already decoded fixtures.
func NewFixtureRepository(f Fixtures) *FixtureRepository {
	return &FixtureRepository{fixtures: f}
}

// LoadFixtures decodes the fixture file at path, or the bundled fixtures when
// path is empty.
func LoadFixtures(path string) (*FixtureRepository, error) {
	data := defaultFixtures
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("dashboard: read fixtures: %w", err)
		}
		data = raw
	}
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("dashboard: decode fixtures: %w", err)
	}
	return NewFixtureRepository(f), nil
}

// ListAccounts returns a copy of the fixture accounts.
func (r *FixtureRepository) ListAccounts(context.Context) ([]ClientAccount, error) {
	out := make([]ClientAccount, len(r.fixtures.Accounts))
	for i, a := range r.fixtures.Accounts {
		a.Transactions = slices.Clone(a.Transactions)
		out[i] = a
	}
	return out, nil
}

// SalesSeries returns a copy of the fixture sales series.
func (r *FixtureRepository) SalesSeries(context.Context) ([]SalesPoint, error) {
	return slices.Clone(r.fixtures.Sales), nil
}
