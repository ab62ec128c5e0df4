/*
Package dispatch
File: handlers_player.go
Description:
    Read-only player/world introspection actions: commander sheet,
    current planet, server config echo, winner board, and the roster of
    other online commanders (spec.md §4.1, §4.8 "Campaign").
*/
package dispatch

func init() {
	register("get_player_info", handleGetPlayerInfo)
	register("get_current_planet_info", handleGetCurrentPlanetInfo)
	register("get_config", handleGetConfig)
	register("get_winner_board", handleGetWinnerBoard)
	register("get_all_commander_statuses", handleGetAllCommanderStatuses)
}

func handleGetPlayerInfo(srv *Server, sess *Session, params map[string]any) Response {
	return ok(map[string]any{"player": toAny(sess.Game.Player)})
}

func handleGetCurrentPlanetInfo(srv *Server, sess *Session, params map[string]any) Response {
	p := sess.Game.CurrentPlanet()
	if p == nil {
		return fail("UNKNOWN_PLANET", "current planet not found")
	}
	return ok(map[string]any{"planet": toAny(p)})
}

func handleGetConfig(srv *Server, sess *Session, params map[string]any) Response {
	return ok(map[string]any{"config": toAny(srv.Deps.Settings)})
}

func handleGetWinnerBoard(srv *Server, sess *Session, params map[string]any) Response {
	board, err := srv.Deps.Campaign.Load()
	if err != nil {
		return fail("CORRUPT_SAVE", "could not load winner board")
	}
	return ok(map[string]any{"winner_board": toAny(board)})
}

func handleGetAllCommanderStatuses(srv *Server, sess *Session, params map[string]any) Response {
	names := paramStringSlice(params, "names")
	if len(names) == 0 {
		accountNames, err := srv.Deps.Accounts.AllAccountSafeNames()
		if err == nil {
			names = accountNames
		}
	}
	statuses := sess.Game.CommanderStatus(names)
	return ok(map[string]any{"statuses": toAny(statuses)})
}
