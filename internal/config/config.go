/*
Package config
File: config.go
Description:
    Loads the server's tunable settings from server/game_config.json.
    Every field has a default so the server still boots with a missing
    or partial config file; only the JSON keys actually present override
    the defaults.
*/
package config

import (
	"encoding/json"
	"os"
)

// Settings holds every tunable referenced by the game engine, economy,
// combat, navigation, mail, campaign and analytics subsystems.
type Settings struct {
	ServerPort int `json:"server_port"`

	// Accounts
	AllowMultipleGames bool `json:"allow_multiple_games"`
	BcryptCost         int  `json:"bcrypt_cost"`

	// New game
	NewGameStartingCredits int `json:"new_game_starting_credits"`

	// Economy
	TierStep                    float64 `json:"tier_step"`
	BribeSellBonus              float64 `json:"bribe_sell_bonus"`
	SalvageMultiplier           float64 `json:"salvage_multiplier"`
	PlanetPricePenaltyMultiplier float64 `json:"planet_price_penalty_multiplier"`
	HostileMarketWindowSeconds  float64 `json:"hostile_market_window_seconds"`
	MomentumStep                float64 `json:"momentum_step"`
	MomentumDecayPerHour        float64 `json:"momentum_decay_per_hour"`
	MomentumClamp               float64 `json:"momentum_clamp"`
	VolumeFloorCap              float64 `json:"volume_floor_cap"`
	LawHeatDecayPerHour         int     `json:"law_heat_decay_per_hour"`
	LawHeatGainDetected         int     `json:"law_heat_gain_detected"`
	DetectionShipLevelStep      float64 `json:"detection_ship_level_step"`
	SpotlightMinPct             int     `json:"spotlight_min_pct"`
	SpotlightMaxPct             int     `json:"spotlight_max_pct"`
	SpotlightDurationHours      float64 `json:"spotlight_duration_hours"`
	PlanetEventChance           float64 `json:"planet_event_chance"`
	PlanetEventMinHours         float64 `json:"planet_event_min_hours"`
	PlanetEventMaxHours         float64 `json:"planet_event_max_hours"`
	ContractRewardMult          float64 `json:"contract_reward_mult"`
	ContractMinReward           int     `json:"contract_min_reward"`
	ContractArcMinSteps         int     `json:"contract_arc_min_steps"`
	ContractArcMaxSteps         int     `json:"contract_arc_max_steps"`
	ContractLegalAuthorityGain  float64 `json:"contract_legal_authority_gain"`
	ContractLegalFrontierGain   float64 `json:"contract_legal_frontier_gain"`
	ContractSmugglingFrontierGain float64 `json:"contract_smuggling_frontier_gain"`
	ContractSmugglingAuthorityLoss float64 `json:"contract_smuggling_authority_loss"`
	ContractArcMilestoneBonusPct float64 `json:"contract_arc_milestone_bonus_pct"`

	// Ship upgrades / crew
	CrewPayIntervalHours   float64 `json:"crew_pay_interval_hours"`
	CrewUnpaidDepartCycles int     `json:"crew_unpaid_depart_cycles"`
	NanobotRepairAmount    int     `json:"nanobot_repair_amount"`
	ShieldUpgradeUnits     int     `json:"shield_upgrade_units"`
	DefenderUpgradeUnits   int     `json:"defender_upgrade_units"`
	CargoPodUpgradeUnits   int     `json:"cargo_pod_upgrade_units"`

	// Refuel
	RefuelEnabled          bool    `json:"refuel_timer_enabled"`
	MaxRefuelsPerWindow    int     `json:"max_refuels_per_window"`
	RefuelWindowHours      float64 `json:"refuel_window_hours"`
	RefuelCostMultiplierPct int    `json:"refuel_cost_multiplier_pct"`

	// Combat
	CombatHitChanceBase    float64 `json:"combat_hit_chance_base"`
	CombatHitChanceMin     float64 `json:"combat_hit_chance_min"`
	CombatHitChanceMax     float64 `json:"combat_hit_chance_max"`
	CombatCritChance       float64 `json:"combat_crit_chance"`
	CombatCritMultiplier   float64 `json:"combat_crit_multiplier"`
	CombatStreakCap        float64 `json:"combat_streak_cap"`
	CombatStreakBonusPerWin float64 `json:"combat_streak_bonus_per_win"`
	CombatRareDropChance   float64 `json:"combat_rare_drop_chance"`
	CombatBarHours         float64 `json:"combat_bar_hours"`
	EnableSpecialWeapons   bool    `json:"enable_special_weapons"`
	SpecialWeaponCooldownSeconds float64 `json:"special_weapon_cooldown_seconds"`
	SpecialWeaponDamageMultiplier float64 `json:"special_weapon_damage_multiplier"`
	SpecialWeaponPopMin    float64 `json:"special_weapon_pop_min"`
	SpecialWeaponPopMax    float64 `json:"special_weapon_pop_max"`
	AuthorityBountyBonusStep float64 `json:"authority_bounty_bonus_step"`
	ReputationHostileNPCBonus float64 `json:"reputation_hostile_npc_bonus"`

	// Navigation
	FuelUsageMultiplier float64 `json:"fuel_usage_multiplier"`
	DockingFeeDiscountVisit int  `json:"docking_fee_discount_visit"`
	DockingFeeDiscountPct   float64 `json:"docking_fee_discount_pct"`

	// Mail / news
	MailInboxCap   int     `json:"mail_inbox_cap"`
	MailArchiveCap int     `json:"mail_archive_cap"`
	NewsRetentionDays float64 `json:"news_retention_days"`

	// Campaign
	VictoryPlanetOwnershipPct float64 `json:"victory_planet_ownership_pct"`
	VictoryAuthorityMin       float64 `json:"victory_authority_min"`
	VictoryAuthorityMax       float64 `json:"victory_authority_max"`
	VictoryFrontierMin        float64 `json:"victory_frontier_min"`
	VictoryFrontierMax        float64 `json:"victory_frontier_max"`
	VictoryResetDays          int     `json:"victory_reset_days"`
	WinnerHistoryCap          int     `json:"winner_history_cap"`

	// Analytics
	AnalyticsMaxEvents      int     `json:"analytics_max_events"`
	AnalyticsRetentionDays  float64 `json:"analytics_retention_days"`
	AnalyticsFlushIntervalSeconds float64 `json:"analytics_flush_interval_seconds"`

	// Storage
	SaveRoot string `json:"save_root"`
}

// Defaults returns the baseline settings applied before the on-disk
// config is merged in. Every tunable referenced anywhere in internal/
// must have an entry here.
func Defaults() Settings {
	return Settings{
		ServerPort: 8765,

		AllowMultipleGames: true,
		BcryptCost:         12,

		NewGameStartingCredits: 5000,

		TierStep:                     0.55,
		BribeSellBonus:               0.05,
		SalvageMultiplier:            0.35,
		PlanetPricePenaltyMultiplier: 1.35,
		HostileMarketWindowSeconds:   3600,
		MomentumStep:                 0.03,
		MomentumDecayPerHour:         0.15,
		MomentumClamp:                0.45,
		VolumeFloorCap:               0.30,
		LawHeatDecayPerHour:          2,
		LawHeatGainDetected:          15,
		DetectionShipLevelStep:       0.03,
		SpotlightMinPct:              15,
		SpotlightMaxPct:              40,
		SpotlightDurationHours:       6,
		PlanetEventChance:            0.12,
		PlanetEventMinHours:          2,
		PlanetEventMaxHours:          6,
		ContractRewardMult:           1.5,
		ContractMinReward:            200,
		ContractArcMinSteps:          2,
		ContractArcMaxSteps:          4,
		ContractLegalAuthorityGain:   2.0,
		ContractLegalFrontierGain:    0.5,
		ContractSmugglingFrontierGain: 2.0,
		ContractSmugglingAuthorityLoss: 1.5,
		ContractArcMilestoneBonusPct: 0.20,

		CrewPayIntervalHours:   24,
		CrewUnpaidDepartCycles: 7,
		NanobotRepairAmount:    50,
		ShieldUpgradeUnits:     10,
		DefenderUpgradeUnits:   1,
		CargoPodUpgradeUnits:   1,

		RefuelEnabled:           true,
		MaxRefuelsPerWindow:     4,
		RefuelWindowHours:       6,
		RefuelCostMultiplierPct: 100,

		CombatHitChanceBase:     0.55,
		CombatHitChanceMin:      0.20,
		CombatHitChanceMax:      0.90,
		CombatCritChance:        0.12,
		CombatCritMultiplier:    1.5,
		CombatStreakCap:         0.50,
		CombatStreakBonusPerWin: 0.05,
		CombatRareDropChance:    0.12,
		CombatBarHours:          24,
		EnableSpecialWeapons:    true,
		SpecialWeaponCooldownSeconds:   1800,
		SpecialWeaponDamageMultiplier:  2.5,
		SpecialWeaponPopMin:            0.02,
		SpecialWeaponPopMax:            0.08,
		AuthorityBountyBonusStep:       0.01,
		ReputationHostileNPCBonus:      2.0,

		FuelUsageMultiplier:     1.0,
		DockingFeeDiscountVisit: 5,
		DockingFeeDiscountPct:   0.10,

		MailInboxCap:      20,
		MailArchiveCap:    20,
		NewsRetentionDays: 30,

		VictoryPlanetOwnershipPct: 0.40,
		VictoryAuthorityMin:       -100,
		VictoryAuthorityMax:       100,
		VictoryFrontierMin:        -100,
		VictoryFrontierMax:        100,
		VictoryResetDays:          3,
		WinnerHistoryCap:          50,

		AnalyticsMaxEvents:            5000,
		AnalyticsRetentionDays:        14,
		AnalyticsFlushIntervalSeconds: 30,

		SaveRoot: "saves",
	}
}

// Load reads path (if present) and overlays it on top of Defaults().
// A missing file is not an error: the server still boots on defaults.
func Load(path string) (Settings, error) {
	settings := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, err
	}

	var wrapper struct {
		Settings map[string]json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return settings, err
	}
	if wrapper.Settings == nil {
		return settings, nil
	}

	// Marshal the defaults, patch them with whatever keys are present in
	// the file's "settings" object, then unmarshal back. This lets the
	// file supply a strict subset of keys without zeroing the rest.
	base, err := json.Marshal(settings)
	if err != nil {
		return settings, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return settings, err
	}
	for k, v := range wrapper.Settings {
		merged[k] = v
	}
	patched, err := json.Marshal(merged)
	if err != nil {
		return settings, err
	}
	if err := json.Unmarshal(patched, &settings); err != nil {
		return settings, err
	}
	return settings, nil
}
