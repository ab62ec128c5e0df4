/*
Package dispatch
File: handlers_economy.go
Description:
    Trade, market introspection, bribery, and contract actions (spec.md
    §4.4 "Economy", §4.5 "Contracts").
*/
package dispatch

func init() {
	register("buy_item", handleBuyItem)
	register("sell_item", handleSellItem)
	register("sell_non_market_cargo", handleSellNonMarketCargo)
	register("jettison_cargo", handleJettisonCargo)
	register("get_market_sell_price", handleGetMarketSellPrice)
	register("get_effective_buy_price", handleGetEffectiveBuyPrice)
	register("get_item_market_snapshot", handleGetItemMarketSnapshot)
	register("get_bribe_market_snapshot", handleGetBribeMarketSnapshot)
	register("get_contraband_market_context", handleGetContrabandMarketContext)
	register("get_smuggling_item_names", handleGetSmugglingItemNames)
	register("check_contraband_detection", handleCheckContrabandDetection)
	register("bribe_npc", handleBribeNPC)
	register("get_active_trade_contract", handleGetActiveTradeContract)
	register("reroll_trade_contract", handleRerollTradeContract)
	register("deliver_contract", handleDeliverContract)
	register("drop_contract", handleDropContract)
	register("is_planet_hostile_market", handleIsPlanetHostileMarket)
	register("get_planet_price_penalty_seconds_remaining", handleGetPlanetPricePenaltySecondsRemaining)
	register("get_best_trade_opportunities", handleGetBestTradeOpportunities)
}

// tradeOpportunity is one row of a buy-here/sell-there scan across the
// known universe for a single cargo item.
type tradeOpportunity struct {
	Item       string `json:"item"`
	BuyPlanet  string `json:"buy_planet"`
	BuyPrice   int    `json:"buy_price"`
	SellPlanet string `json:"sell_planet"`
	SellPrice  int    `json:"sell_price"`
	Margin     int    `json:"margin"`
}

func handleGetBestTradeOpportunities(srv *Server, sess *Session, params map[string]any) Response {
	limit := paramInt(params, "limit")
	if limit <= 0 {
		limit = 5
	}
	planets := sess.Game.AllPlanets()
	seen := map[string]bool{}
	var opportunities []tradeOpportunity
	for _, p := range planets {
		for item := range p.ItemModifiers {
			if seen[item] {
				continue
			}
			seen[item] = true

			var bestBuyPlanet, bestSellPlanet string
			bestBuy, bestSell := -1, -1
			for name := range planets {
				buy := sess.Game.BuyPrice(name, item)
				sell := sess.Game.SellPrice(name, item)
				if bestBuy == -1 || buy < bestBuy {
					bestBuy, bestBuyPlanet = buy, name
				}
				if sell > bestSell {
					bestSell, bestSellPlanet = sell, name
				}
			}
			if bestBuy < 0 || bestSell < 0 {
				continue
			}
			opportunities = append(opportunities, tradeOpportunity{
				Item:       item,
				BuyPlanet:  bestBuyPlanet,
				BuyPrice:   bestBuy,
				SellPlanet: bestSellPlanet,
				SellPrice:  bestSell,
				Margin:     bestSell - bestBuy,
			})
		}
	}
	sortTradeOpportunities(opportunities)
	if len(opportunities) > limit {
		opportunities = opportunities[:limit]
	}
	return ok(map[string]any{"opportunities": toAny(opportunities)})
}

func sortTradeOpportunities(opps []tradeOpportunity) {
	for i := 1; i < len(opps); i++ {
		for j := i; j > 0 && opps[j].Margin > opps[j-1].Margin; j-- {
			opps[j], opps[j-1] = opps[j-1], opps[j]
		}
	}
}

func handleBuyItem(srv *Server, sess *Session, params map[string]any) Response {
	item := paramString(params, "item")
	quantity := paramInt(params, "quantity")
	result, err := sess.Game.BuyItem(item, quantity)
	if err != nil {
		return fail(err.Error(), "could not buy item")
	}
	return ok(toMap(result))
}

func handleSellItem(srv *Server, sess *Session, params map[string]any) Response {
	item := paramString(params, "item")
	quantity := paramInt(params, "quantity")
	result, err := sess.Game.SellItem(item, quantity)
	if err != nil {
		return fail(err.Error(), "could not sell item")
	}
	return ok(toMap(result))
}

func handleSellNonMarketCargo(srv *Server, sess *Session, params map[string]any) Response {
	item := paramString(params, "item")
	result, err := sess.Game.SellNonMarketCargo(item)
	if err != nil {
		return fail(err.Error(), "could not sell cargo")
	}
	return ok(toMap(result))
}

func handleJettisonCargo(srv *Server, sess *Session, params map[string]any) Response {
	item := paramString(params, "item")
	quantity := paramInt(params, "quantity")
	jettisoned, err := sess.Game.JettisonCargo(item, quantity)
	if err != nil {
		return fail(err.Error(), "could not jettison cargo")
	}
	return ok(map[string]any{"jettisoned": jettisoned})
}

func handleGetMarketSellPrice(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	item := paramString(params, "item")
	return ok(map[string]any{"price": sess.Game.SellPrice(planet, item)})
}

func handleGetEffectiveBuyPrice(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	item := paramString(params, "item")
	return ok(map[string]any{"price": sess.Game.BuyPrice(planet, item)})
}

func handleGetItemMarketSnapshot(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	item := paramString(params, "item")
	return ok(map[string]any{
		"buy_price":  sess.Game.BuyPrice(planet, item),
		"sell_price": sess.Game.SellPrice(planet, item),
	})
}

func handleGetBribeMarketSnapshot(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	return ok(map[string]any{"bribe_level": sess.Game.BribeLevel(planet)})
}

func handleGetContrabandMarketContext(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	p := sess.Game.Planet(planet)
	if p == nil {
		return fail("UNKNOWN_PLANET", "no such planet")
	}
	return ok(map[string]any{
		"smuggling_inventory": toAny(p.SmugglingInventory),
		"bribe_level":         sess.Game.BribeLevel(planet),
		"is_smuggler_hub":     p.IsSmugglerHub,
	})
}

func handleGetSmugglingItemNames(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	p := sess.Game.Planet(planet)
	if p == nil {
		return fail("UNKNOWN_PLANET", "no such planet")
	}
	names := make([]string, 0, len(p.SmugglingInventory))
	for name := range p.SmugglingInventory {
		names = append(names, name)
	}
	return ok(map[string]any{"items": names})
}

func handleCheckContrabandDetection(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	item := paramString(params, "item")
	quantity := paramInt(params, "quantity")
	return ok(map[string]any{"probability": sess.Game.DetectionProbability(planet, item, quantity)})
}

func handleBribeNPC(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	success, cost, message := sess.Game.BribeNPC(planet)
	return ok(map[string]any{"success": success, "cost": cost, "message": message})
}

func handleGetActiveTradeContract(srv *Server, sess *Session, params map[string]any) Response {
	if sess.Game.Contract == nil {
		return ok(map[string]any{"contract": nil})
	}
	return ok(map[string]any{"contract": toAny(sess.Game.Contract)})
}

func handleRerollTradeContract(srv *Server, sess *Session, params map[string]any) Response {
	_ = sess.Game.DropContract()
	contract, err := sess.Game.GenerateContract("", 0, 0)
	if err != nil {
		return fail(err.Error(), "could not generate contract")
	}
	return ok(map[string]any{"contract": toAny(contract)})
}

func handleDeliverContract(srv *Server, sess *Session, params map[string]any) Response {
	quantity := paramInt(params, "quantity")
	reward, arcComplete, err := sess.Game.DeliverContract(quantity)
	if err != nil {
		return fail(err.Error(), "could not deliver contract")
	}
	return ok(map[string]any{"reward": reward, "arc_complete": arcComplete})
}

func handleDropContract(srv *Server, sess *Session, params map[string]any) Response {
	if err := sess.Game.DropContract(); err != nil {
		return fail(err.Error(), "no active contract")
	}
	return ok(nil)
}

func handleIsPlanetHostileMarket(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	p := sess.Game.Planet(planet)
	if p == nil {
		return fail("UNKNOWN_PLANET", "no such planet")
	}
	return ok(map[string]any{"hostile": sess.Game.IsHostileMarket(p)})
}

func handleGetPlanetPricePenaltySecondsRemaining(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	return ok(map[string]any{"seconds_remaining": sess.Game.HostilePenaltySecondsRemaining(planet)})
}
