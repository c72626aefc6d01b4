package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/nhan10132020/filmlist/internal/data"
	"github.com/nhan10132020/filmlist/internal/storage"
	"github.com/nhan10132020/filmlist/internal/validator"
)

const maxPhotoBytes = 10 << 20

// uploadPhotoHandler stores the "photo" form file and attaches it to the film
// of one of the caller's list entries.
func (app *application) uploadPhotoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	user := app.contextGetUser(r)

	entry, err := app.models.Lists.Get(user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// leave room for the multipart framing around the file
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes+1<<20)

	err = r.ParseMultipartForm(maxPhotoBytes)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	v := validator.New()

	file, header, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			v.AddError("photo", "must be provided")
			app.failedValidationResponse(w, r, v.Errors)
			return
		}
		app.badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	// sniff the content type from the first 512 bytes rather than trusting the client
	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		app.serverErrorResponse(w, r, err)
		return
	}
	contentType := http.DetectContentType(sniff[:n])

	v.Check(n > 0, "photo", "must not be empty")
	v.Check(header.Size <= maxPhotoBytes, "photo", "must not be larger than 10MB")
	_, isImage := storage.ImageExtension(contentType)
	v.Check(isImage, "photo", "must be a PNG, JPEG, GIF, WebP, BMP or ICO image")

	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	key, err := storage.NewKey(entry.FilmID, contentType)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.store.Put(r.Context(), key, contentType, file, header.Size)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.models.Films.SetPhoto(entry.FilmID, key)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	// drop the replaced photo; a failed delete only leaves an orphan blob
	if previous := entry.Film.Photo; previous != "" && previous != key {
		if err := app.store.Delete(r.Context(), previous); err != nil {
			app.logError(r, err)
		}
	}

	entry.Film.Photo = key

	if err := app.resolvePhotoURLs(r.Context(), entry); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJson(w, http.StatusOK, envelope{"film": entry}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
