/*
Package dispatch
File: handlers_misc.go
Description:
    Catalog entries that don't fit cleanly under one domain file: the
    generic buy/sell alias, direct standing read/adjust, the port
    spotlight deal lookup, a combat-target stat echo, and the shared
    universe planet-state refresh (spec.md §6 action catalog).
*/
package dispatch

func init() {
	register("trade_item", handleTradeItem)
	register("get_current_port_spotlight_deal", handleGetCurrentPortSpotlightDeal)
	register("_get_authority_standing", handleGetAuthorityStanding)
	register("_get_frontier_standing", handleGetFrontierStanding)
	register("_adjust_authority_standing", handleAdjustAuthorityStanding)
	register("_adjust_frontier_standing", handleAdjustFrontierStanding)
	register("_get_target_stats", handleGetTargetStats)
	register("_load_shared_planet_states", handleLoadSharedPlanetStates)
}

// handleTradeItem is the single generic entry point buy_item/sell_item
// specialize: direction picks the side, everything else matches those
// two handlers' params.
func handleTradeItem(srv *Server, sess *Session, params map[string]any) Response {
	direction := paramString(params, "direction")
	switch direction {
	case "sell":
		return handleSellItem(srv, sess, params)
	default:
		return handleBuyItem(srv, sess, params)
	}
}

func handleGetCurrentPortSpotlightDeal(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	spotlight := sess.Game.CurrentPortSpotlight(planet)
	if spotlight == nil {
		return ok(map[string]any{"spotlight": nil})
	}
	return ok(map[string]any{"spotlight": toAny(spotlight)})
}

func handleGetAuthorityStanding(srv *Server, sess *Session, params map[string]any) Response {
	return ok(map[string]any{"standing": sess.Game.Player.AuthorityStanding})
}

func handleGetFrontierStanding(srv *Server, sess *Session, params map[string]any) Response {
	return ok(map[string]any{"standing": sess.Game.Player.FrontierStanding})
}

func handleAdjustAuthorityStanding(srv *Server, sess *Session, params map[string]any) Response {
	delta := paramFloat(params, "delta")
	sess.Game.AdjustAuthorityStanding(delta)
	return ok(map[string]any{"standing": sess.Game.Player.AuthorityStanding})
}

func handleAdjustFrontierStanding(srv *Server, sess *Session, params map[string]any) Response {
	delta := paramFloat(params, "delta")
	sess.Game.AdjustFrontierStanding(delta)
	return ok(map[string]any{"standing": sess.Game.Player.FrontierStanding})
}

// handleGetTargetStats echoes back whatever combatant snapshot is
// currently active in the player's combat session, letting a
// reconnecting client re-render the fight without replaying the orbit
// roll that started it.
func handleGetTargetStats(srv *Server, sess *Session, params map[string]any) Response {
	if sess.Game.CombatSession == nil {
		return ok(map[string]any{"target": nil})
	}
	cs := sess.Game.CombatSession
	return ok(map[string]any{
		"target": map[string]any{
			"name":      cs.TargetStart.Name,
			"shields":   cs.TargetShields,
			"defenders": cs.TargetDefenders,
			"integrity": cs.TargetIntegrity,
		},
	})
}

func handleLoadSharedPlanetStates(srv *Server, sess *Session, params map[string]any) Response {
	if err := sess.Game.RefreshPlanets(); err != nil {
		return fail("CORRUPT_SAVE", "could not refresh planet states")
	}
	return ok(map[string]any{"planets": toAny(sess.Game.AllPlanets())})
}
