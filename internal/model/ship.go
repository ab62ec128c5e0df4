/*
Package model
File: ship.go
Description:
    Spaceship and the pure derived-stat functions that combine role tags
    and installed modules with fixed coefficients.
*/
package model

import (
	"math"
	"sort"
	"strings"
)

// ShipTemplate is the static, YAML-authored shape of a ship class.
type ShipTemplate struct {
	Model             string   `yaml:"model"`
	Cost              int      `yaml:"cost"`
	StartingCargoPods int      `yaml:"starting_cargo_pods"`
	StartingShields   int      `yaml:"starting_shields"`
	StartingDefenders int      `yaml:"starting_defenders"`
	MaxCargoPods      int      `yaml:"max_cargo_pods"`
	MaxShields        int      `yaml:"max_shields"`
	MaxDefenders      int      `yaml:"max_defenders"`
	SpecialWeapon     string   `yaml:"special_weapon"`
	Integrity         int      `yaml:"integrity"`
	RoleTags          []string `yaml:"role_tags"`
	ModuleSlots       int      `yaml:"module_slots"`
	InstalledModules  []string `yaml:"installed_modules"`
}

func (t ShipTemplate) Build() *Spaceship {
	integrity := t.Integrity
	if integrity <= 0 {
		integrity = 100
	}
	return NewSpaceship(t.Model, t.Cost, t.StartingCargoPods, t.StartingShields, t.StartingDefenders,
		t.MaxCargoPods, t.MaxShields, t.MaxDefenders, t.SpecialWeapon, integrity, t.RoleTags, t.ModuleSlots, t.InstalledModules)
}

var RoleTags = []string{"Hauler", "Interceptor", "Siege", "Runner"}

var allowedModules = map[string]bool{
	"scanner":         true,
	"jammer":          true,
	"cargo_optimizer": true,
}

// Spaceship is the player's vessel: static template fields plus mutable
// runtime state.
type Spaceship struct {
	Model               string   `json:"model"`
	Cost                int      `json:"cost"`
	StartingCargoPods   int      `json:"starting_cargo_pods"`
	StartingShields     int      `json:"starting_shields"`
	StartingDefenders   int      `json:"starting_defenders"`
	MaxCargoPods        int      `json:"max_cargo_pods"`
	MaxShields          int      `json:"max_shields"`
	MaxDefenders        int      `json:"max_defenders"`
	CurrentCargoPods    int      `json:"current_cargo_pods"`
	CurrentShields      int      `json:"current_shields"`
	CurrentDefenders    int      `json:"current_defenders"`
	SpecialWeapon       string   `json:"special_weapon,omitempty"`
	Integrity           int      `json:"integrity"`
	MaxIntegrity        int      `json:"max_integrity"`
	MaxFuel             int64    `json:"max_fuel"`
	Fuel                int64    `json:"fuel"`
	FuelBurnRate        float64  `json:"fuel_burn_rate"`
	RoleTags            []string `json:"role_tags"`
	ModuleSlots         int      `json:"module_slots"`
	InstalledModules    []string `json:"installed_modules"`
	CrewSlots           map[string]int `json:"crew_slots"`
	LastRefuelTime      float64  `json:"last_refuel_time"`
}

// NewSpaceship builds a fresh hull from a template, mirroring the
// teacher's per-model-cost scaling (max_cargo_pods*2 fuel tank, a burn
// rate that falls as the hull grows) and the original source's role
// inference / module defaulting.
func NewSpaceship(model string, cost, startingCargo, startingShields, startingDefenders, maxCargo, maxShields, maxDefenders int, specialWeapon string, integrity int, roleTags []string, moduleSlots int, installedModules []string) *Spaceship {
	s := &Spaceship{
		Model:             model,
		Cost:              cost,
		StartingCargoPods: startingCargo,
		StartingShields:   startingShields,
		StartingDefenders: startingDefenders,
		MaxCargoPods:      maxCargo,
		MaxShields:        maxShields,
		MaxDefenders:      maxDefenders,
		CurrentCargoPods:  startingCargo,
		CurrentShields:    startingShields,
		CurrentDefenders:  startingDefenders,
		SpecialWeapon:     specialWeapon,
		Integrity:         integrity,
		MaxIntegrity:      integrity,
	}
	s.MaxFuel = int64(maxCargo * 2)
	s.Fuel = s.MaxFuel
	s.FuelBurnRate = 0.5 + float64(maxCargo)/400.0

	s.RoleTags = normalizeRoleTags(roleTags)
	if len(s.RoleTags) == 0 {
		s.RoleTags = s.inferRoleTags()
	}

	s.CrewSlots = map[string]int{"weapons": 0, "engineer": 0}
	if cost >= 50000 {
		s.CrewSlots = map[string]int{"weapons": 1, "engineer": 1}
	}

	if moduleSlots <= 0 {
		s.ModuleSlots = s.defaultModuleSlots()
	} else {
		s.ModuleSlots = moduleSlots
	}

	s.InstalledModules = normalizeModules(installedModules)
	if len(s.InstalledModules) == 0 {
		s.InstalledModules = s.defaultModulesForRoles()
	}
	if len(s.InstalledModules) > s.ModuleSlots {
		s.InstalledModules = s.InstalledModules[:s.ModuleSlots]
	}
	return s
}

func normalizeRoleTags(tags []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range tags {
		t = strings.Title(strings.ToLower(strings.TrimSpace(t)))
		if contains(RoleTags, t) && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func normalizeModules(modules []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range modules {
		m = strings.ToLower(strings.TrimSpace(m))
		if allowedModules[m] && !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func (s *Spaceship) inferRoleTags() []string {
	burn := s.FuelBurnRate
	if burn < 0.65 {
		burn = 0.65
	}
	score := map[string]float64{
		"Hauler":      float64(s.MaxCargoPods)*1.0 + float64(s.MaxIntegrity)*0.06,
		"Interceptor": float64(s.MaxDefenders)*0.60 + float64(s.MaxShields)*0.30 + 130.0/burn,
		"Siege":       float64(s.MaxDefenders)*0.55 + float64(s.MaxShields)*0.35 + float64(s.MaxIntegrity)*0.26,
		"Runner":      180.0/burn + float64(s.MaxShields)*0.20 + float64(s.MaxCargoPods)*0.15,
	}
	type kv struct {
		k string
		v float64
	}
	var ordered []kv
	for _, k := range RoleTags {
		ordered = append(ordered, kv{k, score[k]})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].v > ordered[j].v })
	tags := []string{ordered[0].k}
	if ordered[1].v >= ordered[0].v*0.88 {
		tags = append(tags, ordered[1].k)
	}
	return tags
}

func (s *Spaceship) defaultModuleSlots() int {
	switch {
	case s.Cost < 12000:
		return 1
	case s.Cost < 200000:
		return 2
	case s.Cost < 1200000:
		return 3
	default:
		return 4
	}
}

func (s *Spaceship) defaultModulesForRoles() []string {
	var picks []string
	has := func(m string) bool { return contains(picks, m) }
	for _, role := range s.RoleTags {
		switch role {
		case "Hauler":
			if !has("cargo_optimizer") {
				picks = append(picks, "cargo_optimizer")
			}
		case "Interceptor":
			if !has("scanner") {
				picks = append(picks, "scanner")
			}
		case "Siege":
			if !has("jammer") {
				picks = append(picks, "jammer")
			}
		case "Runner":
			if !has("jammer") {
				picks = append(picks, "jammer")
			} else if !has("scanner") {
				picks = append(picks, "scanner")
			}
		}
	}
	if len(picks) == 0 {
		picks = []string{"scanner"}
	}
	if len(picks) > s.ModuleSlots {
		picks = picks[:s.ModuleSlots]
	}
	return picks
}

func (s *Spaceship) HasModule(name string) bool {
	return contains(s.InstalledModules, strings.ToLower(strings.TrimSpace(name)))
}

func (s *Spaceship) HasRole(name string) bool {
	return contains(s.RoleTags, strings.Title(strings.ToLower(strings.TrimSpace(name))))
}

// RoleBonus returns the fixed multiplier bonus for a role tag the ship
// carries, 0 otherwise.
func (s *Spaceship) RoleBonus(role string) float64 {
	if !s.HasRole(role) {
		return 0
	}
	switch role {
	case "Hauler":
		return 0.10
	case "Interceptor":
		return 0.08
	case "Siege":
		return 0.10
	case "Runner":
		return 0.08
	}
	return 0
}

// ModuleBonus returns the fixed multiplier bonus for an installed module,
// 0 otherwise.
func (s *Spaceship) ModuleBonus(module string) float64 {
	if !s.HasModule(module) {
		return 0
	}
	switch module {
	case "cargo_optimizer":
		return 0.12
	case "jammer":
		return 0.12
	case "scanner":
		return 0.10
	}
	return 0
}

func (s *Spaceship) EffectiveMaxCargo() int {
	mult := 1.0 + s.RoleBonus("Hauler") + s.ModuleBonus("cargo_optimizer")
	eff := int(math.Round(float64(s.CurrentCargoPods) * mult))
	if eff < s.CurrentCargoPods {
		return s.CurrentCargoPods
	}
	return eff
}

func (s *Spaceship) EffectiveFuelBurnRate() float64 {
	burn := s.FuelBurnRate
	burn *= 1.0 - s.RoleBonus("Runner")
	burn *= 1.0 - s.ModuleBonus("cargo_optimizer")*0.35
	if burn < 0.25 {
		return 0.25
	}
	return burn
}

func (s *Spaceship) EffectiveCombatPowerMultiplier() float64 {
	mult := 1.0
	mult += s.RoleBonus("Interceptor")
	mult += s.RoleBonus("Siege")
	mult += s.ModuleBonus("scanner") * 0.20
	if mult < 0.80 {
		return 0.80
	}
	return mult
}

func (s *Spaceship) EffectiveScanEvasionMultiplier() float64 {
	mult := 1.0
	mult *= 1.0 - s.RoleBonus("Runner")
	mult *= 1.0 - s.ModuleBonus("jammer")
	if mult < 0.60 {
		return 0.60
	}
	return mult
}

const (
	upgradePriceCargo    = 75
	upgradePriceShield   = 200
	upgradePriceDefender = 75
)

// CalculateValue is the total purchase cost of the hull plus installed
// upgrades (cargo/shield/defender deltas from the starting template).
func (s *Spaceship) CalculateValue() int {
	cargoUpgrades := s.CurrentCargoPods - s.StartingCargoPods
	shieldUpgrades := (s.CurrentShields - s.StartingShields) / 10
	defenderUpgrades := s.CurrentDefenders - s.StartingDefenders
	return s.Cost + cargoUpgrades*upgradePriceCargo + shieldUpgrades*upgradePriceShield + defenderUpgrades*upgradePriceDefender
}

// TradeInValue returns the credit offered when trading this hull in for a
// new one: half of total value, scaled further by the integrity ratio.
func (s *Spaceship) TradeInValue() int {
	cargoUpgrades := maxInt(0, s.CurrentCargoPods-s.StartingCargoPods)
	shieldUpgrades := maxInt(0, (s.CurrentShields-s.StartingShields)/10)
	defenderUpgrades := maxInt(0, s.CurrentDefenders-s.StartingDefenders)
	upgradesCost := cargoUpgrades*upgradePriceCargo + shieldUpgrades*upgradePriceShield + defenderUpgrades*upgradePriceDefender
	totalValue := s.Cost + upgradesCost

	integrityFactor := 1.0
	if s.MaxIntegrity > 0 {
		integrityFactor = float64(s.Integrity) / float64(s.MaxIntegrity)
	}
	tradeInFactor := 0.5 * integrityFactor
	return int(float64(totalValue) * tradeInFactor)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// TakeDamage applies damage to shields first, then integrity, rounding
// and clamping at zero.
func (s *Spaceship) TakeDamage(damage float64) {
	d := math.Round(damage)
	if s.CurrentShields > 0 {
		if int(d) <= s.CurrentShields {
			s.CurrentShields -= int(d)
			d = 0
		} else {
			d -= float64(s.CurrentShields)
			s.CurrentShields = 0
		}
	}
	if d > 0 {
		s.Integrity -= int(d)
		if s.Integrity < 0 {
			s.Integrity = 0
		}
	}
}

func (s *Spaceship) Repair() {
	s.Integrity = s.MaxIntegrity
}

// Clone returns a fresh instance of this hull at template stats (used by
// the static ship catalog when instantiating a new player ship or an NPC).
func (s *Spaceship) Clone() *Spaceship {
	return NewSpaceship(s.Model, s.Cost, s.StartingCargoPods, s.StartingShields, s.StartingDefenders,
		s.MaxCargoPods, s.MaxShields, s.MaxDefenders, s.SpecialWeapon, s.MaxIntegrity,
		append([]string{}, s.RoleTags...), s.ModuleSlots, append([]string{}, s.InstalledModules...))
}

func (s *Spaceship) UpgradeCargoPods(amount int) (bool, string) {
	if s.CurrentCargoPods+amount <= s.MaxCargoPods {
		s.CurrentCargoPods += amount
		return true, "Installed cargo pods."
	}
	return false, "Maximum cargo pod capacity reached."
}

func (s *Spaceship) UpgradeShields(amount int) (bool, string) {
	if s.CurrentShields+amount <= s.MaxShields {
		s.CurrentShields += amount
		return true, "Shields enhanced."
	}
	return false, "Maximum shield strength reached."
}

func (s *Spaceship) UpgradeDefenders(amount int) (bool, string) {
	if s.CurrentDefenders+amount <= s.MaxDefenders {
		s.CurrentDefenders += amount
		return true, "Added fighter(s)."
	}
	return false, "Maximum fighter capacity reached."
}
