/*
Package dispatch
File: handlers_faction.go
Description:
    Authority/Frontier standing labels, port-bar enforcement, planet
    events, conquered-planet defense regen, and galactic news actions
    (spec.md §4.9 "Factions and standing", §4.10 "News").
*/
package dispatch

func init() {
	register("get_authority_standing_label", handleGetAuthorityStandingLabel)
	register("get_frontier_standing_label", handleGetFrontierStandingLabel)
	register("check_barred", handleCheckBarred)
	register("bar_player", handleBarPlayer)
	register("get_planet_event", handleGetPlanetEvent)
	register("process_conquered_planet_defense_regen", handleProcessConqueredPlanetDefenseRegen)
	register("has_unseen_galactic_news", handleHasUnseenGalacticNews)
	register("get_unseen_galactic_news", handleGetUnseenGalacticNews)
	register("mark_galactic_news_seen", handleMarkGalacticNewsSeen)
}

func handleGetAuthorityStandingLabel(srv *Server, sess *Session, params map[string]any) Response {
	return ok(map[string]any{"label": sess.Game.AuthorityStandingLabel()})
}

func handleGetFrontierStandingLabel(srv *Server, sess *Session, params map[string]any) Response {
	return ok(map[string]any{"label": sess.Game.FrontierStandingLabel()})
}

func handleCheckBarred(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	return ok(map[string]any{"barred": sess.Game.CheckBarred(planet)})
}

func handleBarPlayer(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	hours := paramFloat(params, "hours")
	sess.Game.BarPlayer(planet, hours)
	return ok(nil)
}

func handleGetPlanetEvent(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	event := sess.Game.PlanetEvent(planet)
	if event == nil {
		return ok(map[string]any{"event": nil})
	}
	return ok(map[string]any{"event": toAny(event)})
}

func handleProcessConqueredPlanetDefenseRegen(srv *Server, sess *Session, params map[string]any) Response {
	restored := sess.Game.ProcessConqueredPlanetDefenseRegen()
	return ok(map[string]any{"restored": restored})
}

func handleHasUnseenGalacticNews(srv *Server, sess *Session, params map[string]any) Response {
	lookbackDays := paramFloat(params, "lookback_days")
	unseen, err := sess.Game.HasUnseenNews(lookbackDays)
	if err != nil {
		return fail("CORRUPT_SAVE", "could not check news")
	}
	return ok(map[string]any{"unseen": unseen})
}

func handleGetUnseenGalacticNews(srv *Server, sess *Session, params map[string]any) Response {
	lookbackDays := paramFloat(params, "lookback_days")
	entries, err := sess.Game.UnseenNews(lookbackDays)
	if err != nil {
		return fail("CORRUPT_SAVE", "could not load news")
	}
	return ok(map[string]any{"news": toAny(entries)})
}

func handleMarkGalacticNewsSeen(srv *Server, sess *Session, params map[string]any) Response {
	sess.Game.MarkNewsSeen()
	return ok(nil)
}
