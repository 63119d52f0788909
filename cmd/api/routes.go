package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()
	router.HandlerFunc(http.MethodPost, "/api/journey/plan", app.planJourneyHandler)
	router.HandlerFunc(http.MethodGet, "/api/stops/search", app.searchStopsHandler)
	router.HandlerFunc(http.MethodGet, "/api/health", app.healthHandler)
	return app.logRequests(router)
}
