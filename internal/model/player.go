/*
Package model
File: player.go
Description:
    Player: the per-character mutable aggregate, persisted independently
    for each character a player account controls.
*/
package model

type Player struct {
	Name        string             `json:"name"`
	Credits     int                `json:"credits"`
	BankBalance int                `json:"bank_balance"`
	Inventory   map[string]int     `json:"inventory"`

	OwnedPlanets    map[string]float64 `json:"owned_planets"`    // last payout time
	BarredPlanets   map[string]float64 `json:"barred_planets"`   // expiry time
	AttackedPlanets map[string]float64 `json:"attacked_planets"` // last attack time

	Crew     map[string]*CrewMember `json:"crew"`
	Messages []*Message             `json:"messages"`

	AuthorityStanding   float64 `json:"authority_standing"`
	FrontierStanding    float64 `json:"frontier_standing"`
	CombatWinStreak     int     `json:"combat_win_streak"`
	CombatLifetimeWins  int     `json:"combat_lifetime_wins"`
	ContractChainStreak int     `json:"contract_chain_streak"`

	LastSpecialWeaponTime    float64 `json:"last_special_weapon_time"`
	LastCommanderStipendTime float64 `json:"last_commander_stipend_time"`
	LastSeenNewsTimestamp    float64 `json:"last_seen_news_timestamp"`
	LastCrewPayTime          float64 `json:"last_crew_pay_time"`

	RefuelUsesInWindow   int     `json:"refuel_uses_in_window"`
	RefuelWindowStartedAt float64 `json:"refuel_window_started_at"`
	PortVisits           int     `json:"port_visits"`

	CurrentPlanet string     `json:"current_planet"`
	Spaceship     *Spaceship `json:"spaceship"`
}

func NewPlayer(name string, ship *Spaceship, credits int, now float64) *Player {
	return &Player{
		Name:            name,
		Credits:         credits,
		Inventory:       map[string]int{},
		OwnedPlanets:    map[string]float64{},
		BarredPlanets:   map[string]float64{},
		AttackedPlanets: map[string]float64{},
		Crew:            map[string]*CrewMember{},
		Messages:        []*Message{},
		LastCrewPayTime: now,
		Spaceship:       ship,
	}
}

// AddMessage enforces the 20-slot non-saved inbox cap, evicting the
// oldest non-saved message when full. Saved messages are never evicted.
func (p *Player) AddMessage(msg *Message, cap int) {
	inboxCount := 0
	for _, m := range p.Messages {
		if !m.IsSaved {
			inboxCount++
		}
	}
	if inboxCount >= cap {
		for i, m := range p.Messages {
			if !m.IsSaved {
				p.Messages = append(p.Messages[:i], p.Messages[i+1:]...)
				break
			}
		}
	}
	p.Messages = append(p.Messages, msg)
}

func (p *Player) DeleteMessage(id string) bool {
	for i, m := range p.Messages {
		if m.ID == id {
			p.Messages = append(p.Messages[:i], p.Messages[i+1:]...)
			return true
		}
	}
	return false
}

// SaveMessage pins a message into the archive, refusing if the archive
// cap is already full.
func (p *Player) SaveMessage(id string, archiveCap int) (bool, string) {
	savedCount := 0
	for _, m := range p.Messages {
		if m.IsSaved {
			savedCount++
		}
	}
	for _, m := range p.Messages {
		if m.ID == id {
			if m.IsSaved {
				return true, "Message already saved."
			}
			if savedCount >= archiveCap {
				return false, "Archive limit reached."
			}
			m.IsSaved = true
			return true, "Message saved."
		}
	}
	return false, "Message not found."
}

// NormalizeInventory drops zero/negative quantity keys; called after
// every mutation so stored inventories only ever hold positive counts.
func (p *Player) NormalizeInventory() {
	for k, v := range p.Inventory {
		if v <= 0 {
			delete(p.Inventory, k)
		}
	}
}

func (p *Player) CargoUsed() int {
	total := 0
	for _, q := range p.Inventory {
		total += q
	}
	return total
}

func ClampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
