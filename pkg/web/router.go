package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"liquorstock/pkg/auth"
	"liquorstock/pkg/liquor"
	"liquorstock/pkg/view"
)

// Deps are the wired handlers the router dispatches to.
type Deps struct {
	Liquor   *liquor.Handler
	Auth     *auth.Handler
	Sessions *auth.SessionManager
	Views    *view.Renderer
}

// GetRouter initialises a new http router and applies all routes
func GetRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(methodOverride)
	return applyRoutes(r, d)
}

func applyRoutes(r chi.Router, d Deps) chi.Router {
	r.Get("/", home(d))

	r.Route("/liquor", func(r chi.Router) {
		r.Get("/", d.Liquor.Index)
		r.Get("/create", d.Liquor.CreateForm)
		r.Post("/", d.Liquor.Store)
		r.Get("/{id}/edit", d.Liquor.Edit)
		r.Put("/{id}", d.Liquor.Update)
		r.Delete("/{id}", d.Liquor.Destroy)
	})

	r.Get("/auth/google/redirect", d.Auth.Redirect)
	r.Get("/auth/google/callback", d.Auth.Callback)
	r.Post("/logout", d.Auth.Logout)

	return r
}

// home redirects signed-in users straight to the inventory and shows
// the landing page to everyone else.
func home(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := d.Sessions.CurrentUserID(r); ok {
			http.Redirect(w, r, "/liquor", http.StatusSeeOther)
			return
		}
		d.Views.Render(w, "welcome", map[string]interface{}{
			"Title":   "Welcome",
			"Flashes": d.Sessions.Flashes(w, r),
		})
	}
}

// methodOverride lets HTML forms issue PUT and DELETE through a hidden
// _method field on a POST.
func methodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			switch r.PostFormValue("_method") {
			case http.MethodPut:
				r.Method = http.MethodPut
			case http.MethodDelete:
				r.Method = http.MethodDelete
			}
		}
		next.ServeHTTP(w, r)
	})
}
