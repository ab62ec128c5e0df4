/*
Package game
File: data.go
Description:
    Loads the static universe data file (data/universe.yaml) once at
    server boot. The decoded catalog is shared read-only across every
    Game instance; nothing here is per-character state.
*/
package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/everforgeworks/sector-commander/internal/model"
)

type smugglingItemTemplate struct {
	Item               string `yaml:"item"`
	Tier               int    `yaml:"tier"`
	RequiredBribeLevel int    `yaml:"required_bribe_level"`
}

type universeData struct {
	Commodities     []model.Commodity          `yaml:"commodities"`
	Ships           []model.ShipTemplate        `yaml:"ships"`
	Planets         []model.PlanetTemplate      `yaml:"planets"`
	SmugglingItems  []smugglingItemTemplate     `yaml:"smuggling_items"`
}

// Catalog is the immutable, shared-across-sessions static data: commodity
// prices, ship templates, planet templates, and the contraband tier
// table. It is loaded once and never mutated.
type Catalog struct {
	Commodities     map[string]model.Commodity
	CommodityOrder  []string
	Ships           []model.ShipTemplate
	PlanetTemplates map[string]model.PlanetTemplate
	PlanetOrder     []string
	SmugglingItems  map[string]smugglingItemTemplate
}

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("game: read universe data: %w", err)
	}
	var ud universeData
	if err := yaml.Unmarshal(data, &ud); err != nil {
		return nil, fmt.Errorf("game: parse universe data: %w", err)
	}

	cat := &Catalog{
		Commodities:     map[string]model.Commodity{},
		Ships:           ud.Ships,
		PlanetTemplates: map[string]model.PlanetTemplate{},
		SmugglingItems:  map[string]smugglingItemTemplate{},
	}
	for _, c := range ud.Commodities {
		cat.Commodities[c.Name] = c
		cat.CommodityOrder = append(cat.CommodityOrder, c.Name)
	}
	for _, p := range ud.Planets {
		cat.PlanetTemplates[p.Name] = p
		cat.PlanetOrder = append(cat.PlanetOrder, p.Name)
	}
	for _, s := range ud.SmugglingItems {
		cat.SmugglingItems[s.Item] = s
	}
	return cat, nil
}

func (c *Catalog) ShipTemplateByModel(modelName string) *model.ShipTemplate {
	for i := range c.Ships {
		if c.Ships[i].Model == modelName {
			return &c.Ships[i]
		}
	}
	return nil
}
