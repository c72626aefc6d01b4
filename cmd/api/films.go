package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/nhan10132020/filmlist/internal/data"
	"github.com/nhan10132020/filmlist/internal/validator"
)

// resolvePhotoURLs fills in the photo URL of every film that has a photo.
func (app *application) resolvePhotoURLs(ctx context.Context, entries ...*data.ListEntry) error {
	for _, e := range entries {
		if e.Film == nil || e.Film.Photo == "" {
			continue
		}

		url, err := app.store.URL(ctx, e.Film.Photo)
		if err != nil {
			return err
		}
		e.Film.PhotoURL = url
	}

	return nil
}

func (app *application) listFilmsHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		data.Filters
	}

	v := validator.New()

	qs := r.URL.Query()

	input.Filters.Page = app.readInt(qs, "page", 1, v)
	input.Filters.PageSize = app.readInt(qs, "page_size", app.config.pageSize, v)

	if data.ValidateFilters(v, input.Filters); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user := app.contextGetUser(r)

	films, metadata, err := app.models.Lists.GetAllForUser(user.ID, input.Filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if err := app.resolvePhotoURLs(r.Context(), films...); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJson(w, http.StatusOK, envelope{"films": films, "metadata": metadata}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// addFilmHandler puts a film on the caller's list. A film already on the list
// is still reported as added, with 200 instead of 201.
func (app *application) addFilmHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	name := strings.TrimSpace(input.Name)

	v := validator.New()

	if data.ValidateFilmName(v, name); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user := app.contextGetUser(r)

	films, created, err := app.models.Lists.Append(user.ID, name)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if err := app.resolvePhotoURLs(r.Context(), films...); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	env := envelope{
		"films":   films,
		"message": fmt.Sprintf("Added %s to the list", name),
	}

	err = app.writeJson(w, status, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteFilmHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	user := app.contextGetUser(r)

	films, err := app.models.Lists.Delete(user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if err := app.resolvePhotoURLs(r.Context(), films...); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJson(w, http.StatusOK, envelope{"films": films}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// reorderFilmsHandler applies the entry order submitted by a drag-and-drop
// client. The client sends the ids of every entry it has loaded, so the
// response holds the pages those ids cover.
func (app *application) reorderFilmsHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		FilmOrder []int64 `json:"film_order"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()

	v.Check(input.FilmOrder != nil, "film_order", "must be provided")
	v.Check(len(input.FilmOrder) <= 10_000, "film_order", "must not contain more than 10000 entries")

	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user := app.contextGetUser(r)

	films, err := app.models.Lists.Reorder(user.ID, input.FilmOrder)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	pageSize := app.config.pageSize
	page := (len(input.FilmOrder) + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}

	metadata := data.CalculateMetadata(len(films), page, pageSize)

	if limit := page * pageSize; len(films) > limit {
		films = films[:limit]
	}

	if err := app.resolvePhotoURLs(r.Context(), films...); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJson(w, http.StatusOK, envelope{"films": films, "metadata": metadata}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) showFilmHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	user := app.contextGetUser(r)

	film, err := app.models.Lists.Get(user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if err := app.resolvePhotoURLs(r.Context(), film); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJson(w, http.StatusOK, envelope{"film": film}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// searchCatalogHandler looks up catalog films by name, leaving out the ones
// already on the caller's list.
func (app *application) searchCatalogHandler(w http.ResponseWriter, r *http.Request) {
	search := app.readString(r.URL.Query(), "search", "")

	v := validator.New()
	v.Check(len(search) <= 500, "search", "must not be more than 500 bytes long")

	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user := app.contextGetUser(r)

	results, err := app.models.Films.Search(user.ID, search)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJson(w, http.StatusOK, envelope{"results": results}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
