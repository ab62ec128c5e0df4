/*
Package dispatch
File: handlers_nav.go
Description:
    Travel and the two-phase travel-event protocol (spec.md §4.6
    "Navigation", "Travel events").
*/
package dispatch

import "github.com/everforgeworks/sector-commander/internal/game"

func init() {
	register("travel_to_planet", handleTravelToPlanet)
	register("get_planets", handleGetPlanets)
	register("get_known_planets", handleGetPlanets)
	register("get_travel_quote", handleGetTravelQuote)
	register("roll_travel_event_payload", handleRollTravelEventPayload)
	register("resolve_travel_event_payload", handleResolveTravelEventPayload)
	register("get_docking_fee", handleGetDockingFee)
}

func handleTravelToPlanet(srv *Server, sess *Session, params map[string]any) Response {
	destination := paramString(params, "destination")
	result, err := sess.Game.Travel(destination)
	if err != nil {
		return fail(err.Error(), "could not travel")
	}
	data := map[string]any{
		"fuel_used":     result.FuelUsed,
		"docking_fee":   result.DockingFee,
		"integrity_hit": result.IntegrityHit,
		"arrived":       result.Arrived,
		"remarks":       result.Remarks,
	}
	if result.Event != nil {
		data["event"] = toAny(result.Event)
	}
	return ok(data)
}

func handleGetPlanets(srv *Server, sess *Session, params map[string]any) Response {
	return ok(map[string]any{"planets": toAny(sess.Game.AllPlanets())})
}

func handleGetTravelQuote(srv *Server, sess *Session, params map[string]any) Response {
	destination := paramString(params, "destination")
	fuel, fee, reachable := sess.Game.TravelQuote(destination)
	return ok(map[string]any{"fuel": fuel, "fee": fee, "reachable": reachable})
}

func handleGetDockingFee(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	return ok(map[string]any{"fee": sess.Game.DockingFee(planet)})
}

func handleRollTravelEventPayload(srv *Server, sess *Session, params map[string]any) Response {
	payload := sess.Game.RollTravelEvent()
	if payload == nil {
		return ok(map[string]any{"event": nil})
	}
	return ok(map[string]any{"event": toAny(payload)})
}

// handleResolveTravelEventPayload applies the player's chosen resolution
// for an in-flight travel event. A PIRATES/FIGHT choice signals the
// client to open a combat session against a freshly rolled hostile NPC
// instead of resolving inline, since ResolveTravelEvent has no orbit
// target to fight.
func handleResolveTravelEventPayload(srv *Server, sess *Session, params map[string]any) Response {
	payload := &game.TravelEventPayload{
		Type:        paramString(params, "type"),
		Choices:     paramStringSlice(params, "choices"),
		CacheReward: paramInt(params, "cache_reward"),
		PayLoss:     paramInt(params, "pay_loss"),
		DriftItem:   paramString(params, "drift_item"),
		LeakLoss:    paramFloat(params, "leak_loss"),
	}
	choice := paramString(params, "choice")
	message, err := sess.Game.ResolveTravelEvent(payload, choice)
	if err != nil {
		if err.Error() == "START_COMBAT" {
			return ok(map[string]any{"start_combat": true, "message": message})
		}
		return fail(err.Error(), "could not resolve event")
	}
	return ok(map[string]any{"message": message})
}
