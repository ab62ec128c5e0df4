/*
Package model
File: planet.go
Description:
    Planet: the shared, multi-account entity. Static fields (name,
    coordinates, vendor/bank/crew-services flags, docking fee, security
    level) come from the universe data file and never change at runtime;
    runtime fields (owner, defenders, shields, treasury, regen
    timestamps) mirror the shared universe store and are overlaid onto
    the static template on every touch-point.

    Coordinates are derived deterministically from the planet's name so
    the universe data file doesn't need to hand-author an (x,y) grid.
*/
package model

import "hash/fnv"

type SmugglingItem struct {
	Item               string `json:"item"`
	Modifier           int    `json:"modifier"` // percent, drifts 50-150
	Quantity           int    `json:"quantity"`
	Tier               int    `json:"tier"` // 1..4
	BasePrice          int    `json:"base_price"`
	RequiredBribeLevel int    `json:"required_bribe_level"`
}

type PlanetEvent struct {
	Type         string  `json:"type"` // FESTIVAL, EMBARGO, SHORTAGE, STRIKE
	BuyMult      float64 `json:"buy_mult"`
	DockingMult  float64 `json:"docking_mult"`
	ContractMult float64 `json:"contract_mult"`
	ExpiresAt    float64 `json:"expires_at"`
}

type PortSpotlight struct {
	Item       string  `json:"item"`
	DiscountPct int    `json:"discount_pct"`
	Quantity   int     `json:"quantity"`
	ExpiresAt  float64 `json:"expires_at"`
}

// Planet is the full runtime view: static template + shared-store overlay.
type Planet struct {
	Name        string `json:"name"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Population  int64  `json:"population"`
	Description string `json:"description"`
	Vendor      bool   `json:"vendor"`
	Bank        bool   `json:"bank"`
	CrewServices bool  `json:"crew_services"`
	IsSmugglerHub bool `json:"is_smuggler_hub"`
	NPCName     string `json:"npc_name"`
	NPCPersonality string `json:"npc_personality"`
	DockingFee  int    `json:"docking_fee"`
	BribeCost   int    `json:"bribe_cost"`
	SecurityLevel int  `json:"security_level"` // 0,1,2

	// Shared-store overlay (mirrors internal/universe).
	Owner                  string  `json:"owner,omitempty"`
	Defenders              int     `json:"defenders"`
	Shields                int     `json:"shields"`
	MaxDefenders           int     `json:"max_defenders"`
	MaxShields             int     `json:"max_shields"`
	BaseDefenders          int     `json:"base_defenders"`
	BaseShields            int     `json:"base_shields"`
	CreditBalance          int     `json:"credit_balance"`
	CreditsInitialized     bool    `json:"credits_initialized"`
	LastCreditInterestTime float64 `json:"last_credit_interest_time"`
	LastDefenseRegenTime   float64 `json:"last_defense_regen_time"`
	RepairMultiplier       float64 `json:"repair_multiplier,omitempty"`

	// Per-item static percentage modifiers, drift each jump; populated at
	// Game init from the price-drift walk.
	ItemModifiers map[string]int `json:"item_modifiers"`
	SmugglingInventory map[string]*SmugglingItem `json:"smuggling_inventory"`

	// Time-limited overlays, not persisted to the shared store; they are
	// re-rolled independently by each session.
	Event     *PlanetEvent   `json:"event,omitempty"`
	Spotlight *PortSpotlight `json:"spotlight,omitempty"`
}

// PlanetTemplate is the static, YAML-authored shape of a planet: no
// runtime ownership/garrison/treasury fields. Planet is built from this
// plus the shared universe store's overlay.
type PlanetTemplate struct {
	Name           string   `yaml:"name"`
	Population     int64    `yaml:"population"`
	Description    string   `yaml:"description"`
	Vendor         bool     `yaml:"vendor"`
	Bank           bool     `yaml:"bank"`
	CrewServices   bool     `yaml:"crew_services"`
	IsSmugglerHub  bool     `yaml:"is_smuggler_hub"`
	NPCName        string   `yaml:"npc_name"`
	NPCPersonality string   `yaml:"npc_personality"`
	DockingFee     int      `yaml:"docking_fee"`
	BribeCost      int      `yaml:"bribe_cost"`
	SecurityLevel  int      `yaml:"security_level"`
	Production     []string `yaml:"production"`
	Demand         []string `yaml:"demand"`
	BaseDefenders  int      `yaml:"base_defenders"`
	BaseShields    int      `yaml:"base_shields"`
	MaxDefenders   int      `yaml:"max_defenders"`
	MaxShields     int      `yaml:"max_shields"`
}

// NewPlanetFromTemplate builds a runtime Planet with fresh (neutral)
// overlay state: no owner, garrison at base values, item modifiers
// rolled to 100 (neutral).
func NewPlanetFromTemplate(t PlanetTemplate) *Planet {
	x, y := DeriveCoordinates(t.Name)
	return &Planet{
		Name:           t.Name,
		X:              x,
		Y:              y,
		Population:     t.Population,
		Description:    t.Description,
		Vendor:         t.Vendor,
		Bank:           t.Bank,
		CrewServices:   t.CrewServices,
		IsSmugglerHub:  t.IsSmugglerHub,
		NPCName:        t.NPCName,
		NPCPersonality: t.NPCPersonality,
		DockingFee:     t.DockingFee,
		BribeCost:      t.BribeCost,
		SecurityLevel:  t.SecurityLevel,
		Defenders:      t.BaseDefenders,
		Shields:        t.BaseShields,
		MaxDefenders:   t.MaxDefenders,
		MaxShields:     t.MaxShields,
		BaseDefenders:  t.BaseDefenders,
		BaseShields:    t.BaseShields,
		ItemModifiers:  map[string]int{},
		SmugglingInventory: map[string]*SmugglingItem{},
	}
}

// DeriveCoordinates computes a deterministic (x,y) in [-500,500] from the
// planet's name using an FNV hash, so the static data file only needs a
// name, not hand-placed coordinates.
func DeriveCoordinates(name string) (int, int) {
	h := fnv.New32a()
	h.Write([]byte(name))
	hx := h.Sum32()
	h2 := fnv.New32a()
	h2.Write([]byte(name + "#y"))
	hy := h2.Sum32()
	return int(hx%1001) - 500, int(hy%1001) - 500
}

// BasePrice returns round(base * modifier/100) for an item at this planet.
func (p *Planet) BasePrice(baseValue int, item string) int {
	mod := p.ItemModifiers[item]
	if mod == 0 {
		mod = 100
	}
	return roundInt(float64(baseValue) * float64(mod) / 100.0)
}

func roundInt(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
