/*
Package game
File: combat.go
Description:
    The round-based combat state machine: start_combat_session,
    resolve_combat_round, flee_combat_session, fire_special_weapon.
    Shields absorb damage before defenders, defenders before integrity;
    every round strictly shrinks model.CombatSession's lexicographic
    progress tuple, so every session terminates (spec.md §8 property 6).
*/
package game

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/everforgeworks/sector-commander/internal/jsonstore"
	"github.com/everforgeworks/sector-commander/internal/model"
)

// StartCombat opens a session against an NPC, another player's ship
// (already resolved by the caller into a snapshot), or a planet's
// garrison.
func (g *Game) StartCombat(targetType, targetName, planetName string, target model.CombatantSnapshot, enemyScale float64) (*model.CombatSession, error) {
	if g.CombatSession != nil && g.CombatSession.Status == model.CombatActive {
		return nil, fmt.Errorf("COMBAT_ALREADY_ACTIVE")
	}
	ship := g.Player.Spaceship
	if ship == nil {
		return nil, fmt.Errorf("NO_SHIP")
	}
	if enemyScale <= 0 {
		enemyScale = 1.0
	}
	cs := &model.CombatSession{
		ID:         strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		TargetType: targetType,
		TargetName: targetName,
		PlanetName: planetName,
		Status:     model.CombatActive,
		Round:      0,
		PlayerStart: model.CombatantSnapshot{
			Name: g.Player.Name, Credits: g.Player.Credits,
			Shields: ship.CurrentShields, Defenders: ship.CurrentDefenders, Integrity: ship.Integrity,
		},
		TargetStart:     target,
		PlayerShields:   ship.CurrentShields,
		PlayerDefenders: ship.CurrentDefenders,
		PlayerIntegrity: ship.Integrity,
		TargetShields:   target.Shields,
		TargetDefenders: target.Defenders,
		TargetIntegrity: target.Integrity,
		EnemyScale:      enemyScale,
		PreFightStreak:  g.Player.CombatWinStreak,
	}
	cs.AppendLog(fmt.Sprintf("Combat begins against %s.", targetName))
	g.CombatSession = cs
	for _, c := range g.Player.Crew {
		c.ApplyActivity("combat")
		if line := c.Remark("combat_start", g.rng); line != "..." {
			cs.AppendLog(line)
		}
	}
	return cs, nil
}

// playerDamageMultiplier folds the ship's role/module combat-power
// multiplier, any weapons-specialty crew bonus, and the win-streak bonus
// (capped) into one factor applied to the player's rolled damage.
func (g *Game) playerDamageMultiplier() float64 {
	ship := g.Player.Spaceship
	mult := ship.EffectiveCombatPowerMultiplier()
	for _, c := range g.Player.Crew {
		if c.Specialty == "weapons" {
			mult *= 1.0 + c.Bonus()
		}
	}
	streak := float64(g.Player.CombatWinStreak) * g.deps.Settings.CombatStreakBonusPerWin
	if streak > g.deps.Settings.CombatStreakCap {
		streak = g.deps.Settings.CombatStreakCap
	}
	mult *= 1.0 + streak
	return mult
}

func (g *Game) rollHit(base float64) bool {
	chance := base
	if chance < g.deps.Settings.CombatHitChanceMin {
		chance = g.deps.Settings.CombatHitChanceMin
	}
	if chance > g.deps.Settings.CombatHitChanceMax {
		chance = g.deps.Settings.CombatHitChanceMax
	}
	return g.rng.Float64() < chance
}

// uniform returns a value in [lo, hi]; hi<lo is treated as hi==lo.
func (g *Game) uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Float64()*(hi-lo)
}

// attackRoll resolves one side's committed-fighters attack: a hit deals
// U[committed*8, committed*14] scaled by mult, with a 12% chance to crit
// at x1.5; a miss deals grazing damage U[0, committed*2]. committed==0
// means the side has no fighters to commit and its attack is a no-op.
func (g *Game) attackRoll(committed int, mult float64) (damage float64, hit, crit bool) {
	if committed <= 0 {
		return 0, false, false
	}
	c := float64(committed)
	if g.rollHit(g.deps.Settings.CombatHitChanceBase) {
		dmg := g.uniform(c*8, c*14) * mult
		if g.rng.Float64() < g.deps.Settings.CombatCritChance {
			dmg *= g.deps.Settings.CombatCritMultiplier
			return dmg, true, true
		}
		return dmg, true, false
	}
	return g.uniform(0, c*2) * mult, false, false
}

// ResolveCombatRound applies one simultaneous exchange per spec.md §4.5:
// the caller supplies how many of its own defenders to commit this round
// (clamped to current defenders, forced to at least 1 while any remain);
// the target's commit is rolled in [1, defenders] scaled by enemy_scale.
// Both attacks are rolled before either is applied, then both land
// together against shields -> defenders -> integrity, so the session
// never short-circuits mid-round; a double knockout favors the player.
func (g *Game) ResolveCombatRound(playerCommitted int) (*model.CombatSession, error) {
	cs := g.CombatSession
	if cs == nil || cs.Status != model.CombatActive {
		return nil, fmt.Errorf("NO_ACTIVE_COMBAT")
	}
	ship := g.Player.Spaceship
	cs.Round++

	playerCommitted = clampCommitted(playerCommitted, cs.PlayerDefenders)
	enemyCommitted := 0
	if cs.TargetDefenders > 0 {
		enemyCommitted = clampCommitted(int(g.uniform(1, float64(cs.TargetDefenders))*cs.EnemyScale), cs.TargetDefenders)
	}

	playerDmg, playerHit, playerCrit := g.attackRoll(playerCommitted, g.playerDamageMultiplier())
	enemyDmg, enemyHit, enemyCrit := g.attackRoll(enemyCommitted, 1.0)

	if playerHit {
		verb := "strike"
		if playerCrit {
			verb = "critically strike"
		}
		cs.AppendLog(fmt.Sprintf("You %s %s for %.0f damage.", verb, cs.TargetName, playerDmg))
	} else if playerCommitted > 0 {
		cs.AppendLog(fmt.Sprintf("Your attack grazes %s for %.0f damage.", cs.TargetName, playerDmg))
	} else {
		cs.AppendLog("You have no fighters left to commit.")
	}
	if enemyHit {
		verb := "strikes"
		if enemyCrit {
			verb = "critically strikes"
		}
		cs.AppendLog(fmt.Sprintf("%s %s back for %.0f damage.", cs.TargetName, verb, enemyDmg))
	} else if enemyCommitted > 0 {
		cs.AppendLog(fmt.Sprintf("%s's attack grazes you for %.0f damage.", cs.TargetName, enemyDmg))
	}

	g.applyCombatDamage(&cs.TargetShields, &cs.TargetDefenders, &cs.TargetIntegrity, playerDmg)
	g.applyCombatDamage(&cs.PlayerShields, &cs.PlayerDefenders, &cs.PlayerIntegrity, enemyDmg)
	ship.CurrentShields = cs.PlayerShields
	ship.CurrentDefenders = cs.PlayerDefenders
	ship.Integrity = cs.PlayerIntegrity

	targetDown := cs.TargetShields <= 0 && cs.TargetDefenders <= 0
	playerDown := cs.PlayerShields <= 0 && cs.PlayerDefenders <= 0
	switch {
	case targetDown:
		return g.concludeCombatLocked(model.CombatWon)
	case playerDown:
		return g.concludeCombatLocked(model.CombatLost)
	}
	return cs, nil
}

// clampCommitted forces committed into [0, available], with a floor of 1
// whenever fighters remain available to commit at all.
func clampCommitted(committed, available int) int {
	if available <= 0 {
		return 0
	}
	if committed < 1 {
		committed = 1
	}
	if committed > available {
		committed = available
	}
	return committed
}

// applyCombatDamage spends damage against shields, then defenders, then
// hull integrity. Fighter losses against defenders are
// max(1, damage/10 + U[0,2]) capped at current defenders; the portion of
// damage not absorbed by those losses bleeds through to integrity at
// half rate.
func (g *Game) applyCombatDamage(shields, defenders, integrity *int, damage float64) {
	d := damage
	if *shields > 0 {
		if float64(*shields) <= d {
			d -= float64(*shields)
			*shields = 0
		} else {
			*shields -= int(d)
			d = 0
		}
	}
	if d > 0 && *defenders > 0 {
		lost := int(d/10 + g.uniform(0, 2))
		if lost < 1 {
			lost = 1
		}
		if lost > *defenders {
			lost = *defenders
		}
		*defenders -= lost
		residual := d - float64(lost)*10
		if residual < 0 {
			residual = 0
		}
		d = residual * 0.5
	}
	if d > 0 {
		*integrity -= int(d)
		if *integrity < 0 {
			*integrity = 0
		}
	}
}

// concludeCombatLocked settles payout/loot/standing and, on a planet
// conquest or a defeated PLAYER target, writes the consequence through
// to whichever save owns it. Ported from original_source's
// _finish_combat_session (game_manager_modules/combat.py:281-400).
func (g *Game) concludeCombatLocked(status string) (*model.CombatSession, error) {
	cs := g.CombatSession
	cs.Status = status
	ship := g.Player.Spaceship

	switch status {
	case model.CombatWon:
		g.handleCombatVictoryLocked(cs)
	case model.CombatLost:
		g.handleCombatDefeatLocked(cs)
	}
	ship.CurrentShields = cs.PlayerShields
	ship.CurrentDefenders = cs.PlayerDefenders
	ship.Integrity = cs.PlayerIntegrity
	return cs, nil
}

// handleCombatVictoryLocked awards base loot scaled by a random factor,
// a streak bonus, a challenge bonus for a scaled-up enemy, an
// authority-scaled bounty against hostile NPCs, proportional inventory
// looting (cargo-capped), a rare-drop chance, and then settles the
// target-type-specific consequence (planet conquest or a defeated
// player's write-back).
func (g *Game) handleCombatVictoryLocked(cs *model.CombatSession) {
	lootFactor := g.uniform(0.25, 0.60)
	baseLoot := float64(cs.TargetStart.Credits) * lootFactor
	looted := int(baseLoot)

	streakBefore := g.Player.CombatWinStreak
	streakBonusFactor := math.Min(g.deps.Settings.CombatStreakCap, float64(streakBefore)*g.deps.Settings.CombatStreakBonusPerWin)
	challengeBonusFactor := math.Max(0, (cs.EnemyScale-1.0)*0.75)
	if payoutBonus := int(baseLoot * (streakBonusFactor + challengeBonusFactor)); payoutBonus > 0 {
		looted += payoutBonus
	}

	g.Player.CombatWinStreak = streakBefore + 1
	g.Player.CombatLifetimeWins++

	if cs.TargetType == model.TargetNPC && cs.TargetStart.Personality == model.PersonalityHostile {
		baseBounty := int(math.Max(200, float64(cs.TargetStart.Credits)*0.15))
		authorityRep := math.Max(0, g.Player.AuthorityStanding)
		bountyMult := 1.0 + math.Min(0.60, authorityRep*g.deps.Settings.AuthorityBountyBonusStep)
		bountyBonus := int(math.Round(float64(baseBounty) * bountyMult))
		looted += bountyBonus
		g.AdjustAuthorityStanding(g.deps.Settings.ReputationHostileNPCBonus)
		for _, c := range g.Player.Crew {
			if c.Specialty == "weapons" {
				c.ApplyActivity("victory")
			}
		}
	}

	g.Player.Credits += looted
	cs.AppendLog(fmt.Sprintf("Victory! You claim %d credits in salvage.", looted))

	cargoLimit := 0
	if g.Player.Spaceship != nil {
		cargoLimit = g.Player.Spaceship.EffectiveMaxCargo()
	}
	var lootedItems []string
	targetInventoryAfter := map[string]int{}
	for item, qty := range cs.TargetStart.Inventory {
		targetInventoryAfter[item] = qty
		if qty <= 0 {
			continue
		}
		amount := int(float64(qty) * g.uniform(0.10, 0.45))
		if amount <= 0 {
			continue
		}
		if g.Player.CargoUsed()+amount > cargoLimit {
			continue
		}
		g.Player.Inventory[item] += amount
		targetInventoryAfter[item] = qty - amount
		lootedItems = append(lootedItems, fmt.Sprintf("%dx %s", amount, item))
	}
	if len(lootedItems) > 0 {
		cs.AppendLog("Salvaged cargo: " + strings.Join(lootedItems, ", "))
	}

	if g.rng.Float64() < g.deps.Settings.CombatRareDropChance {
		rareItems := []string{"Quantum Data Chips", "Hyperdrive Stabilizers", "Neural Interface Upgrades"}
		item := rareItems[g.rng.Intn(len(rareItems))]
		if g.Player.CargoUsed()+1 <= cargoLimit {
			g.Player.Inventory[item]++
			cs.AppendLog(fmt.Sprintf("Salvaged a unit of %s from the wreckage.", item))
		}
	}

	for _, c := range g.Player.Crew {
		c.ApplyActivity("victory")
		if line := c.Remark("combat_win", g.rng); line != "..." {
			cs.AppendLog(line)
		}
	}

	switch cs.TargetType {
	case model.TargetPlanet:
		if cs.PlanetName != "" {
			g.transferPlanetOwnershipLocked(cs.PlanetName)
		}
	case model.TargetPlayer:
		targetCreditsAfter := cs.TargetStart.Credits - looted
		if targetCreditsAfter < 0 {
			targetCreditsAfter = 0
		}
		g.writeBackDefeatedPlayerLocked(cs, targetCreditsAfter, targetInventoryAfter)
	}
}

// handleCombatDefeatLocked applies the credit penalty and up-to-3-items
// cargo theft of spec.md §4.5 "Defeat" and resets the win streak.
func (g *Game) handleCombatDefeatLocked(cs *model.CombatSession) {
	g.Player.CombatWinStreak = 0
	if cs.TargetType == model.TargetPlanet && cs.PlanetName != "" {
		g.Player.AttackedPlanets[cs.PlanetName] = nowUnix()
	}

	lossFactor := g.uniform(0.15, 0.40)
	loss := int(float64(g.Player.Credits) * lossFactor)
	g.Player.Credits -= loss
	if g.Player.Credits < 0 {
		g.Player.Credits = 0
	}
	cs.AppendLog(fmt.Sprintf("Defeat. You lose %d credits fleeing the wreckage.", loss))

	var stolenItems []string
	for item, qty := range g.Player.Inventory {
		if qty <= 0 || len(stolenItems) >= 3 {
			continue
		}
		if g.rng.Float64() >= 0.40 {
			continue
		}
		taken := int(float64(qty) * g.uniform(0.05, 0.30))
		if taken < 1 {
			taken = 1
		}
		if taken > qty {
			taken = qty
		}
		g.Player.Inventory[item] -= taken
		if g.Player.Inventory[item] <= 0 {
			delete(g.Player.Inventory, item)
		}
		stolenItems = append(stolenItems, fmt.Sprintf("%dx %s", taken, item))
		if len(stolenItems) >= 3 {
			break
		}
	}
	if len(stolenItems) > 0 {
		cs.AppendLog("Boarders made off with: " + strings.Join(stolenItems, ", "))
	}

	for _, c := range g.Player.Crew {
		if line := c.Remark("combat_loss", g.rng); line != "..." {
			cs.AppendLog(line)
		}
	}
}

// writeBackDefeatedPlayerLocked persists a defeated PLAYER target's
// reduced credits, inventory, and ship stats: in-memory when the victim
// is online (the single-writer path their own session's save already
// serializes through), otherwise a direct patch of their character save.
func (g *Game) writeBackDefeatedPlayerLocked(cs *model.CombatSession, creditsAfter int, inventoryAfter map[string]int) {
	if g.deps.Online != nil {
		if victim := g.deps.Online(cs.TargetName); victim != nil {
			victim.Lock()
			victim.Player.Credits = creditsAfter
			if inventoryAfter != nil {
				victim.Player.Inventory = inventoryAfter
			}
			if victim.Player.Spaceship != nil {
				victim.Player.Spaceship.CurrentShields = cs.TargetShields
				victim.Player.Spaceship.CurrentDefenders = cs.TargetDefenders
				victim.Player.Spaceship.Integrity = cs.TargetIntegrity
			}
			victim.Unlock()
			g.notifyVesselBoarded(cs)
			return
		}
	}

	path, _, ok := g.deps.Accounts.FindCharacterSaveByPlayerName(cs.TargetName)
	if !ok {
		return
	}
	store := jsonstore.New(path)
	shape := map[string]any{}
	err := store.Mutate(&shape, func() error {
		playerRaw, ok := shape["player"].(map[string]any)
		if !ok {
			return fmt.Errorf("CORRUPT_SAVE")
		}
		playerRaw["credits"] = creditsAfter
		if inventoryAfter != nil {
			inv := make(map[string]any, len(inventoryAfter))
			for item, qty := range inventoryAfter {
				inv[item] = qty
			}
			playerRaw["inventory"] = inv
		}
		if shipRaw, ok := playerRaw["spaceship"].(map[string]any); ok {
			shipRaw["current_shields"] = cs.TargetShields
			shipRaw["current_defenders"] = cs.TargetDefenders
			shipRaw["integrity"] = cs.TargetIntegrity
		}
		return nil
	})
	if err == nil {
		g.notifyVesselBoarded(cs)
	}
}

func (g *Game) notifyVesselBoarded(cs *model.CombatSession) {
	if g.deps.Mail == nil {
		return
	}
	planet := g.Player.CurrentPlanet
	_ = g.deps.Mail(g.Player.Name, cs.TargetName, "Vessel Boarded",
		fmt.Sprintf("Alert: Your ship at %s was overpowered by %s.", planet, g.Player.Name))
}

// FleeCombat ends the session as a retreat: a credit penalty per
// spec.md §4.5 "Flee", and if the target was a hostile-owned planet, a
// 24-hour bar plus an attacked-state stamp on top of the streak reset.
func (g *Game) FleeCombat() (*model.CombatSession, error) {
	cs := g.CombatSession
	if cs == nil || cs.Status != model.CombatActive {
		return nil, fmt.Errorf("NO_ACTIVE_COMBAT")
	}
	cs.Status = model.CombatFled
	cs.AppendLog("You disengage and flee.")

	penalty := int(float64(cs.PlayerStart.Credits) * (0.05 + g.rng.Float64()*0.10))
	if penalty > g.Player.Credits {
		penalty = g.Player.Credits
	}
	g.Player.Credits -= penalty

	if cs.TargetType == model.TargetPlanet {
		if p := g.planets[cs.PlanetName]; p != nil && p.Owner != "" && p.Owner != g.Player.Name {
			g.Player.BarredPlanets[cs.PlanetName] = nowUnix() + g.deps.Settings.CombatBarHours*3600
			g.Player.AttackedPlanets[cs.PlanetName] = nowUnix()
		}
	}

	g.Player.CombatWinStreak = 0
	return cs, nil
}

// FireSpecialWeapon fires the ship's planet-cracking special weapon,
// usable only against a planet target and gated by a cooldown.
func (g *Game) FireSpecialWeapon() (message string, err error) {
	if !g.deps.Settings.EnableSpecialWeapons {
		return "", fmt.Errorf("SPECIAL_WEAPONS_DISABLED")
	}
	cs := g.CombatSession
	if cs == nil || cs.Status != model.CombatActive || cs.TargetType != model.TargetPlanet {
		return "", fmt.Errorf("NO_VALID_TARGET")
	}
	ship := g.Player.Spaceship
	if ship == nil || ship.SpecialWeapon == "" {
		return "", fmt.Errorf("NO_SPECIAL_WEAPON")
	}
	if nowUnix()-g.Player.LastSpecialWeaponTime < g.deps.Settings.SpecialWeaponCooldownSeconds {
		return "", fmt.Errorf("WEAPON_ON_COOLDOWN")
	}
	g.Player.LastSpecialWeaponTime = nowUnix()

	committed := cs.PlayerDefenders / 3
	if committed < 1 {
		committed = 1
	}
	dmg := g.uniform(float64(committed)*8, float64(committed)*14) * g.playerDamageMultiplier() * g.deps.Settings.SpecialWeaponDamageMultiplier
	g.applyCombatDamage(&cs.TargetShields, &cs.TargetDefenders, &cs.TargetIntegrity, dmg)
	cs.AppendLog(fmt.Sprintf("%s unleashed for %.0f devastating damage!", ship.SpecialWeapon, dmg))

	popFrac := g.uniform(g.deps.Settings.SpecialWeaponPopMin, g.deps.Settings.SpecialWeaponPopMax)
	if p := g.planets[cs.PlanetName]; p != nil {
		popLoss := int64(float64(p.Population) * popFrac)
		treasuryLoss := int(float64(p.CreditBalance) * popFrac)
		g.mutatePlanetStore(cs.PlanetName, func(pl *model.Planet) {
			pl.Population -= popLoss
			if pl.Population < 0 {
				pl.Population = 0
			}
			pl.CreditBalance -= treasuryLoss
			if pl.CreditBalance < 0 {
				pl.CreditBalance = 0
			}
		})
	}

	if cs.TargetShields <= 0 && cs.TargetDefenders <= 0 {
		g.concludeCombatLocked(model.CombatWon)
	}
	return fmt.Sprintf("%s fires, dealing %.0f damage and devastating the colony below.", ship.SpecialWeapon, dmg), nil
}

// transferPlanetOwnershipLocked hands a conquered planet to the player,
// resets its garrison and defense-regen clock the way a freshly claimed
// holding starts out (original sets last_defense_regen_time = time.time()
// at game_manager_modules/combat.py:396), broadcasts the conquest as
// news, and mails the previous owner (if any and not the conqueror).
func (g *Game) transferPlanetOwnershipLocked(planetName string) {
	prevOwner := ""
	if p := g.planets[planetName]; p != nil {
		prevOwner = p.Owner
	}
	g.mutatePlanetStore(planetName, func(p *model.Planet) {
		p.Owner = g.Player.Name
		p.Defenders = p.BaseDefenders
		p.Shields = p.BaseShields
		p.LastDefenseRegenTime = nowUnix()
	})
	g.Player.OwnedPlanets[planetName] = nowUnix()
	delete(g.Player.AttackedPlanets, planetName)

	g.deps.News.Append(&model.NewsEntry{
		Timestamp: nowUnix(),
		EventType: "PLANET_CONQUERED",
		Title:     fmt.Sprintf("%s has fallen", planetName),
		Body:      fmt.Sprintf("%s seized control of %s.", g.Player.Name, planetName),
		Planet:    planetName,
		Audience:  model.AudienceGlobal,
	}, nowUnix(), g.deps.Settings.NewsRetentionDays)

	if prevOwner == "" || prevOwner == g.Player.Name {
		return
	}

	if online := g.deps.Online; online != nil {
		if victim := online(prevOwner); victim != nil {
			victim.Lock()
			delete(victim.Player.OwnedPlanets, planetName)
			victim.Unlock()
		}
	}

	if g.deps.Mail != nil {
		_ = g.deps.Mail(g.Player.Name, prevOwner, "Planet Lost",
			fmt.Sprintf("%s has fallen to %s's fleet. Your garrison was overrun.", planetName, g.Player.Name))
	}
}
