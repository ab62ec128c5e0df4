/*
Package model
File: crew.go
Description:
    CrewMember: hired specialists that reduce incoming damage (engineer)
    or boost combat rolls (weapons), with leveling, perks, morale/fatigue,
    and flavor remarks.
*/
package model

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

type CrewMember struct {
	Name          string   `json:"name"`
	Specialty     string   `json:"specialty"` // "weapons" or "engineer"
	Level         int      `json:"level"`
	Morale        int      `json:"morale"`
	Fatigue       int      `json:"fatigue"`
	XP            int      `json:"xp"`
	Perks         []string `json:"perks"`
	UnpaidCycles  int      `json:"unpaid_cycles"`
	DailyPay      int      `json:"daily_pay"`
	HireCost      int      `json:"hire_cost"`
}

var perkCatalog = map[string]map[int][]string{
	"weapons": {
		3: {"precision_focus", "rapid_lock"},
		5: {"breach_tactics", "suppressive_fire"},
		7: {"ace_gunnery", "siege_pattern"},
	},
	"engineer": {
		3: {"fuel_saver", "stability_tuning"},
		5: {"hull_mesh", "shield_harmonics"},
		7: {"quantum_efficiency", "combat_reroute"},
	},
}

var perkBonuses = map[string]float64{
	"precision_focus":    0.010,
	"rapid_lock":         0.008,
	"breach_tactics":     0.012,
	"suppressive_fire":   0.010,
	"ace_gunnery":        0.015,
	"siege_pattern":      0.013,
	"fuel_saver":         0.010,
	"stability_tuning":   0.009,
	"hull_mesh":          0.012,
	"shield_harmonics":   0.011,
	"quantum_efficiency": 0.015,
	"combat_reroute":     0.013,
}

func NewCrewMember(name, specialty string, level int) *CrewMember {
	c := &CrewMember{
		Name:      name,
		Specialty: specialty,
		Level:     level,
		Morale:    100,
		Fatigue:   0,
	}
	c.HireCost = c.Level * 5000
	c.DailyPay = c.Level * 200
	c.ensureMilestonePerks()
	return c
}

func (c *CrewMember) clampMoraleFatigue() {
	if c.Morale < 0 {
		c.Morale = 0
	}
	if c.Morale > 100 {
		c.Morale = 100
	}
	if c.Fatigue < 0 {
		c.Fatigue = 0
	}
	if c.Fatigue > 100 {
		c.Fatigue = 100
	}
}

func (c *CrewMember) choosePerkForLevel(level int) string {
	options := perkCatalog[c.Specialty][level]
	if len(options) == 0 {
		return ""
	}
	seed := 0
	for _, ch := range fmt.Sprintf("%s:%s:%d", c.Name, c.Specialty, level) {
		seed += int(ch)
	}
	return options[seed%len(options)]
}

func (c *CrewMember) ensureMilestonePerks() {
	milestones := perkCatalog[c.Specialty]
	levels := make([]int, 0, len(milestones))
	for lvl := range milestones {
		levels = append(levels, lvl)
	}
	sort.Ints(levels)
	for _, lvl := range levels {
		if c.Level < lvl {
			continue
		}
		prefix := fmt.Sprintf("L%d:", lvl)
		has := false
		for _, p := range c.Perks {
			if strings.HasPrefix(p, prefix) {
				has = true
				break
			}
		}
		if has {
			continue
		}
		if choice := c.choosePerkForLevel(lvl); choice != "" {
			c.Perks = append(c.Perks, prefix+choice)
		}
	}
}

func (c *CrewMember) perkBonus() float64 {
	total := 0.0
	for _, p := range c.Perks {
		parts := strings.SplitN(p, ":", 2)
		if len(parts) != 2 {
			continue
		}
		total += perkBonuses[parts[1]]
	}
	return total
}

// GainXP adds XP and applies any level-ups the gain crosses, returning
// the number of levels gained. Threshold for level L is 70 + 35*L.
func (c *CrewMember) GainXP(amount int) int {
	if amount <= 0 {
		return 0
	}
	c.XP += amount
	gained := 0
	for c.Level < 8 {
		threshold := 70 + c.Level*35
		if c.XP < threshold {
			break
		}
		c.XP -= threshold
		c.Level++
		gained++
		c.HireCost = c.Level * 5000
		c.DailyPay = c.Level * 200
		c.Morale = minInt(100, c.Morale+6)
		c.ensureMilestonePerks()
	}
	return gained
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ApplyActivity nudges morale/fatigue and grants xp for the named
// activity: travel, combat, victory, rest.
func (c *CrewMember) ApplyActivity(activity string) {
	switch strings.ToLower(activity) {
	case "travel":
		c.Fatigue += 4
		c.Morale = maxInt0(c.Morale - 1)
		c.GainXP(6)
	case "combat":
		c.Fatigue += 8
		c.Morale = maxInt0(c.Morale - 2)
		c.GainXP(10)
	case "victory":
		c.Morale += 6
		c.GainXP(14)
	case "rest":
		c.Fatigue -= 8
		c.Morale += 2
	}
	c.clampMoraleFatigue()
}

func maxInt0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// EffectiveRating combines morale and fatigue into a single performance
// multiplier, floored at 0.55.
func (c *CrewMember) EffectiveRating() float64 {
	c.clampMoraleFatigue()
	moraleMult := 0.75 + float64(c.Morale)/400.0
	fatigueMult := 1.0 - (float64(c.Fatigue)/100.0)*0.45
	r := moraleMult * fatigueMult
	if r < 0.55 {
		return 0.55
	}
	return r
}

// Bonus returns the damage-reduction (engineer) or attack (weapons)
// multiplicative bonus this crew member contributes right now.
func (c *CrewMember) Bonus() float64 {
	var base float64
	switch c.Specialty {
	case "weapons":
		base = 0.03 + float64(c.Level-1)*(0.12/7)
	case "engineer":
		base = 0.05 + float64(c.Level-1)*(0.10/7)
	default:
		return 0
	}
	bonus := (base + c.perkBonus()) * c.EffectiveRating()
	if bonus < 0 {
		return 0
	}
	return bonus
}

var remarkBank = map[string]map[string][]string{
	"weapons": {
		"combat_win":   {"Target neutralized. Efficient work, Captain.", "Another hunk of scrap for the void.", "Precision hit! Training pays off."},
		"combat_loss":  {"Shields are failing! We need more power!", "We're taking heavy fire! Redirecting systems...", "That's enough! Get us out of here!"},
		"combat_start": {"Locking on target.", "Weapons hot. Just say the word.", "Let's see what this bird can really do."},
		"idle":         {"Boresighting the blasters again.", "Always ready for a scrap.", "Scanning for potential threats."},
	},
	"engineer": {
		"travel":       {"Optimizing fuel flow. Warp looks stable.", "We're siphoning every drop of efficiency today.", "The engines are singing, Captain."},
		"combat_start": {"Diverting auxiliary power to the plating.", "Hope the hull holds, I just patched it!", "Engineer's log: Ship is stressed, but sturdy."},
		"idle":         {"Just re-aligning the flux manifold.", "Pass me that hydro-spanner.", "She's a beauty, isn't she? Stable as a rock."},
	},
}

// Remark returns a short flavor line for the given context, or "..." if
// this specialty has nothing to say there. Cosmetic only, never gates a
// rule.
func (c *CrewMember) Remark(context string, rng *rand.Rand) string {
	lines := remarkBank[c.Specialty][context]
	if len(lines) == 0 {
		return "..."
	}
	return lines[rng.Intn(len(lines))]
}

func (c *CrewMember) PerkSummary() string {
	if len(c.Perks) == 0 {
		return "NONE"
	}
	labels := make([]string, 0, len(c.Perks))
	for _, p := range c.Perks {
		parts := strings.SplitN(p, ":", 2)
		if len(parts) == 2 {
			labels = append(labels, strings.ToUpper(strings.ReplaceAll(parts[1], "_", " ")))
		}
	}
	return strings.Join(labels, ", ")
}
