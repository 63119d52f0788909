package main

import (
	"net/http"

	"journey.transitgo.org/internal/models"
)

func (app *application) badRequestResponse(w http.ResponseWriter, message string) {
	app.writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: message})
}

func (app *application) notFoundResponse(w http.ResponseWriter, message string, suggestions []string) {
	app.writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: message, Suggestions: suggestions})
}

func (app *application) serverErrorResponse(w http.ResponseWriter, err error) {
	app.Logger.Error("internal server error", "error", err)
	app.writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
}
