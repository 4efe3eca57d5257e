package router

import (
	"net/http"

	"github.com/gorilla/mux"
)

type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router, authMiddleware func(http.Handler) http.Handler)
}

func New(
	authController RouteRegistrar,
	bankingController RouteRegistrar,
	transactionController RouteRegistrar,
	authMiddleware func(http.Handler) http.Handler,
) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = jsonStatus(http.StatusNotFound, "route not found")
	router.MethodNotAllowedHandler = jsonStatus(http.StatusMethodNotAllowed, "method not allowed")
	registerSwaggerRoutes(router)

	for _, registrar := range []RouteRegistrar{authController, bankingController, transactionController} {
		if registrar != nil {
			registrar.RegisterRoutes(router, authMiddleware)
		}
	}

	return router
}

func jsonStatus(status int, message string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
	})
}
