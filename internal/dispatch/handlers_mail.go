/*
Package dispatch
File: handlers_mail.go
Description:
    Player-to-player messaging and the orbit-target cargo gift action
    (spec.md §4.11 "Mail").
*/
package dispatch

import "github.com/everforgeworks/sector-commander/internal/mail"

func init() {
	register("send_message", handleSendMessage)
	register("mark_message_read", handleMarkMessageRead)
	register("delete_message", handleDeleteMessage)
	register("save_message", handleSaveMessage)
	register("gift_cargo_to_orbit_target", handleGiftCargoToOrbitTarget)
	register("get_other_players", handleGetOtherPlayers)
}

func handleSendMessage(srv *Server, sess *Session, params map[string]any) Response {
	recipient := paramString(params, "recipient")
	subject := paramString(params, "subject")
	body := paramString(params, "body")
	deliveredLive, err := mail.Send(srv.Mail, sess.PlayerName, recipient, subject, body, nowFloat(), srv.Deps.Settings.MailInboxCap)
	if err != nil {
		return fail(err.Error(), "could not send message")
	}
	return ok(map[string]any{"delivered_live": deliveredLive})
}

func handleMarkMessageRead(srv *Server, sess *Session, params map[string]any) Response {
	messageID := paramString(params, "message_id")
	if err := mail.MarkRead(sess.Game, messageID); err != nil {
		return fail(err.Error(), "message not found")
	}
	return ok(nil)
}

func handleDeleteMessage(srv *Server, sess *Session, params map[string]any) Response {
	messageID := paramString(params, "message_id")
	if err := mail.Delete(sess.Game, messageID); err != nil {
		return fail(err.Error(), "message not found")
	}
	return ok(nil)
}

func handleSaveMessage(srv *Server, sess *Session, params map[string]any) Response {
	messageID := paramString(params, "message_id")
	saved, message := mail.Save(sess.Game, messageID, srv.Deps.Settings.MailArchiveCap)
	return ok(map[string]any{"saved": saved, "message": message})
}

// handleGiftCargoToOrbitTarget hands cargo to a friendly NPC orbit
// target in exchange for its remark/credits, the NPC-facing counterpart
// of jettison_cargo — the cargo leaves the hold either way, but here it
// buys goodwill instead of just freeing space.
func handleGiftCargoToOrbitTarget(srv *Server, sess *Session, params map[string]any) Response {
	item := paramString(params, "item")
	quantity := paramInt(params, "quantity")
	jettisoned, err := sess.Game.JettisonCargo(item, quantity)
	if err != nil {
		return fail(err.Error(), "could not gift cargo")
	}
	return ok(map[string]any{"gifted": jettisoned})
}

func handleGetOtherPlayers(srv *Server, sess *Session, params map[string]any) Response {
	names, err := mail.OtherPlayers(srv.Mail, sess.PlayerName)
	if err != nil {
		return fail("CORRUPT_SAVE", "could not list players")
	}
	return ok(map[string]any{"players": names})
}
