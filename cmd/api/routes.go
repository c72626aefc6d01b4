package main

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/nhan10132020/filmlist/internal/data"
	"github.com/nhan10132020/filmlist/internal/storage"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthcheckHandler)

	router.HandlerFunc(http.MethodGet, "/v1/films", app.requirePermission(data.PermissionFilmsRead, app.listFilmsHandler))
	router.HandlerFunc(http.MethodPost, "/v1/films", app.requirePermission(data.PermissionFilmsWrite, app.addFilmHandler))
	router.HandlerFunc(http.MethodPut, "/v1/films/order", app.requirePermission(data.PermissionFilmsWrite, app.reorderFilmsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/films/:id", app.requirePermission(data.PermissionFilmsRead, app.showFilmHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/films/:id", app.requirePermission(data.PermissionFilmsWrite, app.deleteFilmHandler))
	router.HandlerFunc(http.MethodPost, "/v1/films/:id/photo", app.requirePermission(data.PermissionFilmsWrite, app.uploadPhotoHandler))

	router.HandlerFunc(http.MethodGet, "/v1/catalog", app.requirePermission(data.PermissionFilmsRead, app.searchCatalogHandler))

	router.HandlerFunc(http.MethodPost, "/v1/users", app.registerUserHandler)
	router.HandlerFunc(http.MethodPut, "/v1/users/activated", app.activateUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/check-email", app.checkEmailHandler)

	router.HandlerFunc(http.MethodPost, "/v1/tokens/authentication", app.createAuthenticationTokenHandler)

	if disk, ok := app.store.(*storage.DiskStore); ok {
		router.ServeFiles(storage.URLPrefix+"*filepath", http.Dir(disk.Root()))
	}

	router.Handler(http.MethodGet, "/debug/vars", expvar.Handler())

	return app.metrics(app.recoverPanic(app.enableCORS(app.rateLimit(app.authenticate(router)))))
}
