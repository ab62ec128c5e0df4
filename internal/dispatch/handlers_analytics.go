/*
Package dispatch
File: handlers_analytics.go
Description:
    Client-facing analytics introspection and manual event recording
    (spec.md §4.12 "Analytics"). Every other action's outcome is already
    recorded automatically by dispatch.Handle via recordAnalytics; these
    actions expose the rollups and let the client log its own
    client-side events (e.g. UI funnel steps) into the same stream.
*/
package dispatch

import (
	"github.com/everforgeworks/sector-commander/internal/analytics"
	"github.com/everforgeworks/sector-commander/internal/model"
)

func init() {
	register("get_analytics_summary", handleGetAnalyticsSummary)
	register("get_analytics_events", handleGetAnalyticsEvents)
	register("get_analytics_recommendations", handleGetAnalyticsRecommendations)
	register("reset_analytics", handleResetAnalytics)
	register("record_analytics_event", handleRecordAnalyticsEvent)
}

func handleGetAnalyticsSummary(srv *Server, sess *Session, params map[string]any) Response {
	windowHours := paramFloat(params, "window_hours")
	if windowHours <= 0 {
		windowHours = 24
	}
	summary := srv.Deps.Analytics.Summary(nowFloat(), windowHours)
	return ok(toMap(summary))
}

func handleGetAnalyticsEvents(srv *Server, sess *Session, params map[string]any) Response {
	return ok(map[string]any{"events": toAny(srv.Deps.Analytics.Events())})
}

func handleGetAnalyticsRecommendations(srv *Server, sess *Session, params map[string]any) Response {
	windowHours := paramFloat(params, "window_hours")
	if windowHours <= 0 {
		windowHours = 24
	}
	summary := srv.Deps.Analytics.Summary(nowFloat(), windowHours)
	return ok(map[string]any{"recommendations": analytics.Recommendations(summary)})
}

func handleResetAnalytics(srv *Server, sess *Session, params map[string]any) Response {
	srv.Deps.Analytics.Reset()
	return ok(nil)
}

func handleRecordAnalyticsEvent(srv *Server, sess *Session, params map[string]any) Response {
	ev := model.AnalyticsEvent{
		Timestamp: nowFloat(),
		Category:  paramString(params, "category"),
		Name:      paramString(params, "name"),
		Success:   paramBool(params, "success"),
		Value:     paramFloat(params, "value"),
		Player:    sess.PlayerName,
		Planet:    paramString(params, "planet"),
	}
	srv.Deps.Analytics.Record(ev)
	return ok(nil)
}
