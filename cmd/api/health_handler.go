package main

import "net/http"

func (app *application) healthHandler(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"modes":  app.Catalogue.Modes(),
		"stops":  len(app.Catalogue.StopIDs()),
	})
}
