package main

import (
	"net/http"
	"strconv"

	"journey.transitgo.org/internal/models"
	"journey.transitgo.org/internal/utils"
)

func (app *application) searchStopsHandler(w http.ResponseWriter, r *http.Request) {
	query := utils.SanitizeInput(r.URL.Query().Get("q"))
	if err := utils.ValidateQuery(query); err != nil {
		app.badRequestResponse(w, err.Error())
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			app.badRequestResponse(w, "limit must be an integer between 1 and 50")
			return
		}
		limit = n
	}

	matches := app.StopIndex.LookupFuzzy(query, limit, app.Config.FuzzyMinScore)
	out := make([]models.StopMatchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, models.StopMatchResponse{ID: m.StopID, Name: m.Name, Score: m.Score})
	}

	app.writeJSON(w, http.StatusOK, out)
}
