/*
Package dispatch
File: handlers_ship.go
Description:
    Ship maintenance, purchase, and refuel actions (spec.md §4.3/§4.6
    "Ship upgrades", "Refuel window").
*/
package dispatch

func init() {
	register("get_spaceships", handleGetSpaceships)
	register("buy_ship", handleBuyShip)
	register("repair_hull", handleRepairHull)
	register("install_ship_upgrade", handleInstallShipUpgrade)
	register("buy_fuel", handleBuyFuel)
	register("get_refuel_quote", handleGetRefuelQuote)
	register("check_auto_refuel", handleCheckAutoRefuel)
	register("transfer_fighters", handleTransferFighters)
	register("transfer_shields", handleTransferShields)
	register("claim_abandoned_ship", handleClaimAbandonedShip)
	register("get_ship_level", handleGetShipLevel)
}

func handleGetSpaceships(srv *Server, sess *Session, params map[string]any) Response {
	listings := sess.Game.AvailableShips()
	return ok(map[string]any{"ships": toAny(listings)})
}

func handleBuyShip(srv *Server, sess *Session, params map[string]any) Response {
	model := paramString(params, "ship_model")
	if err := sess.Game.BuyShip(model); err != nil {
		return fail(err.Error(), "could not buy ship")
	}
	return ok(map[string]any{"spaceship": toAny(sess.Game.Player.Spaceship)})
}

func handleRepairHull(srv *Server, sess *Session, params map[string]any) Response {
	repaired, cost, err := sess.Game.RepairHull()
	if err != nil {
		return fail(err.Error(), "could not repair hull")
	}
	return ok(map[string]any{"repaired": repaired, "cost": cost})
}

func handleInstallShipUpgrade(srv *Server, sess *Session, params map[string]any) Response {
	item := paramString(params, "item")
	quantity := paramInt(params, "quantity")
	applied, message, err := sess.Game.InstallShipUpgrade(item, quantity)
	if err != nil {
		return fail(err.Error(), "could not install upgrade")
	}
	return ok(map[string]any{"applied": applied, "message": message})
}

func handleBuyFuel(srv *Server, sess *Session, params map[string]any) Response {
	units, cost, err := sess.Game.BuyFuel()
	if err != nil {
		return fail(err.Error(), "could not buy fuel")
	}
	return ok(map[string]any{"units_bought": units, "cost": cost})
}

func handleGetRefuelQuote(srv *Server, sess *Session, params map[string]any) Response {
	units, cost := sess.Game.RefuelQuote()
	return ok(map[string]any{"units_needed": units, "cost": cost})
}

func handleCheckAutoRefuel(srv *Server, sess *Session, params map[string]any) Response {
	idleHours := paramFloat(params, "idle_hours_for_free_refuel")
	if idleHours <= 0 {
		idleHours = 4
	}
	refueled := sess.Game.CheckAutoRefuel(idleHours)
	return ok(map[string]any{"refueled": refueled})
}

func handleTransferFighters(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	amount := paramInt(params, "amount")
	toPlanet := paramBool(params, "to_planet")
	moved, err := sess.Game.TransferFighters(planet, amount, toPlanet)
	if err != nil {
		return fail(err.Error(), "could not transfer fighters")
	}
	return ok(map[string]any{"moved": moved})
}

func handleTransferShields(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	amount := paramInt(params, "amount")
	toPlanet := paramBool(params, "to_planet")
	moved, err := sess.Game.TransferShields(planet, amount, toPlanet)
	if err != nil {
		return fail(err.Error(), "could not transfer shields")
	}
	return ok(map[string]any{"moved": moved})
}

func handleClaimAbandonedShip(srv *Server, sess *Session, params map[string]any) Response {
	model := paramString(params, "ship_model")
	if err := sess.Game.ClaimAbandonedShip(model); err != nil {
		return fail(err.Error(), "could not claim ship")
	}
	return ok(map[string]any{"spaceship": toAny(sess.Game.Player.Spaceship)})
}

func handleGetShipLevel(srv *Server, sess *Session, params map[string]any) Response {
	return ok(map[string]any{"level": sess.Game.ShipLevel()})
}
