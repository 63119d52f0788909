package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"journey.transitgo.org/internal/dispatch"
	"journey.transitgo.org/internal/models"
	"journey.transitgo.org/internal/utils"
)

// planJourneyHandler resolves both endpoint queries against the stop index,
// fans the request out per mode, and maps the results onto the HTTP status
// contract: 200 for any success (including null slots), 404 when both
// endpoints resolve but no mode can route, 400 for unparseable input.
func (app *application) planJourneyHandler(w http.ResponseWriter, r *http.Request) {
	var req models.JourneyPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.badRequestResponse(w, "invalid request body")
		return
	}

	originID, suggestions, err := app.resolveStop(req.Origin)
	if err != nil {
		app.notFoundResponse(w, "Origin not found", suggestions)
		return
	}
	destID, suggestions, err := app.resolveStop(req.Destination)
	if err != nil {
		app.notFoundResponse(w, "Destination not found", suggestions)
		return
	}

	now := time.Now()
	depSecs, err := utils.ParseDepartureTime(req.DepartureTime, now)
	if err != nil {
		app.badRequestResponse(w, err.Error())
		return
	}
	date, err := utils.ParseDate(req.Date, now)
	if err != nil {
		app.badRequestResponse(w, err.Error())
		return
	}

	results := app.Dispatcher.Plan(r.Context(), dispatch.Request{
		OriginID:      originID,
		DestinationID: destID,
		DepartureSecs: depSecs,
		Date:          date,
		Realtime:      req.Realtime,
		Modes:         req.Modes,
	})

	resp := models.PlanResponse{Results: make(map[string]models.ModeSlot, len(results))}
	found := false
	sawNoService := false
	for mode, res := range results {
		slot := models.ModeSlot{Note: res.Note}
		if res.Journey != nil {
			slot.Journey = models.NewJourneyResponse(res.Journey, app.Catalogue)
			found = true
		}
		if res.Note == dispatch.NoteNoService {
			sawNoService = true
		}
		resp.Results[mode] = slot
	}

	if !found {
		if sawNoService {
			app.notFoundResponse(w, fmt.Sprintf("No service within %d days", app.Config.MaxNextDaySearch), nil)
			return
		}
		app.notFoundResponse(w, "No route available", nil)
		return
	}

	app.writeJSON(w, http.StatusOK, resp)
}

// resolveStop accepts a stop id (global or raw) or a free-text name. Name
// lookups try an exact match first and fall back to the fuzzy index; a miss
// returns the top fuzzy candidates as suggestions.
func (app *application) resolveStop(query string) (string, []string, error) {
	query = utils.SanitizeInput(query)
	if err := utils.ValidateQuery(query); err != nil {
		return "", nil, err
	}

	if id, ok := app.Catalogue.ResolveStopID(query); ok {
		return id, nil, nil
	}

	if ids := app.StopIndex.LookupExact(query); len(ids) > 0 {
		return ids[0], nil, nil
	}

	if m, ok := app.StopIndex.Best(query, app.Config.FuzzyMinScore); ok {
		return m.StopID, nil, nil
	}

	var suggestions []string
	for _, m := range app.StopIndex.LookupFuzzy(query, 5, 40) {
		suggestions = append(suggestions, m.Name)
	}
	return "", suggestions, fmt.Errorf("stop not found: %s", query)
}
