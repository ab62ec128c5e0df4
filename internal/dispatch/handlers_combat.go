/*
Package dispatch
File: handlers_combat.go
Description:
    Orbit targets and the round-based combat session actions (spec.md
    §4.5 "Combat").
*/
package dispatch

import "github.com/everforgeworks/sector-commander/internal/model"

func init() {
	register("get_orbit_targets", handleGetOrbitTargets)
	register("should_initialize_planet_auto_combat", handleShouldInitializePlanetAutoCombat)
	register("start_combat_session", handleStartCombatSession)
	register("resolve_combat_round", handleResolveCombatRound)
	register("flee_combat_session", handleFleeCombatSession)
	register("fire_special_weapon", handleFireSpecialWeapon)
	register("get_special_weapon_status", handleGetSpecialWeaponStatus)
}

func handleGetOrbitTargets(srv *Server, sess *Session, params map[string]any) Response {
	npcs, err := sess.Game.OrbitTargets()
	if err != nil {
		return fail(err.Error(), "could not list orbit targets")
	}
	return ok(map[string]any{"targets": toAny(npcs)})
}

// handleShouldInitializePlanetAutoCombat reports whether a hostile NPC or
// hostile-owned planet garrison should auto-engage the player on arrival.
// One of npc (an orbit target payload) or planet (a planet name) is
// expected, never both.
func handleShouldInitializePlanetAutoCombat(srv *Server, sess *Session, params map[string]any) Response {
	if planetName := paramString(params, "planet"); planetName != "" {
		p := sess.Game.Planet(planetName)
		return ok(map[string]any{"engage": sess.Game.ShouldAutoEngagePlanet(p)})
	}
	npc := &model.NPCShip{
		Name:        paramString(params, "name"),
		Personality: paramString(params, "personality"),
	}
	return ok(map[string]any{"engage": sess.Game.ShouldAutoEngage(npc)})
}

// targetSnapshotFromParams builds the CombatantSnapshot StartCombat needs
// from whatever the client already resolved client-side (an NPC roll, a
// planet's garrison, or another player's public stats) — dispatch never
// re-derives NPC/PLAYER stats itself, since those live only in the orbit
// roll or the other session's live Game.
func targetSnapshotFromParams(params map[string]any) model.CombatantSnapshot {
	return model.CombatantSnapshot{
		Name:        paramString(params, "target_name"),
		Credits:     paramInt(params, "target_credits"),
		Shields:     paramInt(params, "target_shields"),
		Defenders:   paramInt(params, "target_defenders"),
		Integrity:   paramInt(params, "target_integrity"),
		Inventory:   paramIntMap(params, "target_inventory"),
		Personality: paramString(params, "target_personality"),
	}
}

func handleStartCombatSession(srv *Server, sess *Session, params map[string]any) Response {
	targetType := paramString(params, "target_type")
	targetName := paramString(params, "target_name")
	planetName := paramString(params, "planet_name")
	enemyScale := paramFloat(params, "enemy_scale")

	target := targetSnapshotFromParams(params)
	if targetType == model.TargetPlanet {
		p := sess.Game.Planet(planetName)
		if p == nil {
			return fail("UNKNOWN_PLANET", "no such planet")
		}
		target.Shields = p.Shields
		target.Defenders = p.Defenders
		target.Integrity = p.MaxShields + p.MaxDefenders
		target.Name = planetName
	}

	cs, err := sess.Game.StartCombat(targetType, targetName, planetName, target, enemyScale)
	if err != nil {
		return fail(err.Error(), "could not start combat")
	}
	return ok(map[string]any{"session": toAny(cs)})
}

func handleResolveCombatRound(srv *Server, sess *Session, params map[string]any) Response {
	cs, err := sess.Game.ResolveCombatRound(paramInt(params, "player_committed"))
	if err != nil {
		return fail(err.Error(), "no active combat")
	}
	return ok(map[string]any{"session": toAny(cs)})
}

func handleFleeCombatSession(srv *Server, sess *Session, params map[string]any) Response {
	cs, err := sess.Game.FleeCombat()
	if err != nil {
		return fail(err.Error(), "no active combat")
	}
	return ok(map[string]any{"session": toAny(cs)})
}

func handleFireSpecialWeapon(srv *Server, sess *Session, params map[string]any) Response {
	message, err := sess.Game.FireSpecialWeapon()
	if err != nil {
		return fail(err.Error(), "could not fire special weapon")
	}
	return ok(map[string]any{"message": message, "session": toAny(sess.Game.CombatSession)})
}

func handleGetSpecialWeaponStatus(srv *Server, sess *Session, params map[string]any) Response {
	ship := sess.Game.Player.Spaceship
	if ship == nil || ship.SpecialWeapon == "" {
		return ok(map[string]any{"available": false})
	}
	cooldown := sess.Game.Deps().Settings.SpecialWeaponCooldownSeconds
	remaining := cooldown - (nowFloat() - sess.Game.Player.LastSpecialWeaponTime)
	if remaining < 0 {
		remaining = 0
	}
	return ok(map[string]any{
		"available":          remaining <= 0,
		"weapon":              ship.SpecialWeapon,
		"cooldown_remaining": remaining,
	})
}
