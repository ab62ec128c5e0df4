/*
Package dispatch
File: handlers_bank.go
Description:
    Personal and planet banking, crew pay, and crew hiring actions
    (spec.md §4.3 "Crew", §4.7 "Banking").
*/
package dispatch

import "github.com/everforgeworks/sector-commander/internal/game"

func init() {
	register("bank_deposit", handleBankDeposit)
	register("bank_withdraw", handleBankWithdraw)
	register("payout_interest", handlePayoutInterest)
	register("process_commander_stipend", handlePayoutInterest)
	register("planet_deposit", handlePlanetDeposit)
	register("planet_withdraw", handlePlanetWithdraw)
	register("get_planet_financials", handleGetPlanetFinancials)
	register("get_planet_crew_offers", handleGetPlanetCrewOffers)
	register("hire_crew", handleHireCrew)
	register("dismiss_crew", handleDismissCrew)
	register("process_crew_pay", handleProcessCrewPay)
}

func handleBankDeposit(srv *Server, sess *Session, params map[string]any) Response {
	amount := paramInt(params, "amount")
	if err := sess.Game.BankDeposit(amount); err != nil {
		return fail(err.Error(), "could not deposit")
	}
	return ok(map[string]any{"bank_balance": sess.Game.Player.BankBalance, "credits": sess.Game.Player.Credits})
}

func handleBankWithdraw(srv *Server, sess *Session, params map[string]any) Response {
	amount := paramInt(params, "amount")
	if err := sess.Game.BankWithdraw(amount); err != nil {
		return fail(err.Error(), "could not withdraw")
	}
	return ok(map[string]any{"bank_balance": sess.Game.Player.BankBalance, "credits": sess.Game.Player.Credits})
}

// handlePayoutInterest backs both payout_interest (Banking) and
// process_commander_stipend (Factions/events): both names gate on
// Player.LastCommanderStipendTime, so they share one implementation
// rather than tracking two separate timers for the same payout.
func handlePayoutInterest(srv *Server, sess *Session, params map[string]any) Response {
	interest := sess.Game.PayoutInterest()
	return ok(map[string]any{"interest": interest, "bank_balance": sess.Game.Player.BankBalance})
}

func handlePlanetDeposit(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	amount := paramInt(params, "amount")
	if err := sess.Game.PlanetDeposit(planet, amount); err != nil {
		return fail(err.Error(), "could not deposit")
	}
	return ok(map[string]any{"credits": sess.Game.Player.Credits})
}

func handlePlanetWithdraw(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	amount := paramInt(params, "amount")
	if err := sess.Game.PlanetWithdraw(planet, amount); err != nil {
		return fail(err.Error(), "could not withdraw")
	}
	return ok(map[string]any{"credits": sess.Game.Player.Credits})
}

func handleGetPlanetFinancials(srv *Server, sess *Session, params map[string]any) Response {
	planet := paramString(params, "planet")
	p := sess.Game.Planet(planet)
	if p == nil {
		return fail("UNKNOWN_PLANET", "no such planet")
	}
	return ok(map[string]any{
		"credit_balance": p.CreditBalance,
		"defenders":      p.Defenders,
		"max_defenders":  p.MaxDefenders,
		"shields":        p.Shields,
		"max_shields":    p.MaxShields,
		"owner":          p.Owner,
	})
}

func handleGetPlanetCrewOffers(srv *Server, sess *Session, params map[string]any) Response {
	offers, err := sess.Game.CrewOffers()
	if err != nil {
		return fail(err.Error(), "no crew offers here")
	}
	return ok(map[string]any{"offers": toAny(offers)})
}

func handleHireCrew(srv *Server, sess *Session, params map[string]any) Response {
	offer := game.CrewOffer{
		Name:      paramString(params, "name"),
		Specialty: paramString(params, "specialty"),
		Level:     paramInt(params, "level"),
		HireCost:  paramInt(params, "hire_cost"),
	}
	member, err := sess.Game.HireCrew(offer)
	if err != nil {
		return fail(err.Error(), "could not hire crew")
	}
	return ok(map[string]any{"crew": toAny(member)})
}

func handleDismissCrew(srv *Server, sess *Session, params map[string]any) Response {
	name := paramString(params, "name")
	if err := sess.Game.DismissCrew(name); err != nil {
		return fail(err.Error(), "could not dismiss crew")
	}
	return ok(nil)
}

func handleProcessCrewPay(srv *Server, sess *Session, params map[string]any) Response {
	paid, departed := sess.Game.ProcessCrewPay()
	return ok(map[string]any{"paid": paid, "departed": departed})
}
