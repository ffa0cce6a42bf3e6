package http

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/gorilla/mux"

	"github.com/example/schedule-dashboard/internal/application"
)

// RouterConfig wires handlers into the router. Nil handlers leave their
// routes unregistered.
type RouterConfig struct {
	Dashboard *DashboardHandler
	Auth      *AuthHandler
	Classes   *ClassHandler
	Events    *EventHandler
	Transfer  *TransferHandler
	Health    *HealthHandler
	// Sessions guards every admin route; without it no admin route is
	// registered.
	Sessions SessionValidator
	// Live serves the websocket feed at /api/ws.
	Live http.Handler
	// Metrics serves /metrics.
	Metrics http.Handler
	// StaticDir, when set, is served at / for the front end.
	StaticDir  string
	Middleware []func(http.Handler) http.Handler
	Logger     *slog.Logger
}

// NewRouter builds the HTTP surface. Middleware is applied in order, the
// first entry being the outermost.
//
// Every API path is registered once and dispatched by method, so a known
// path with an unsupported method answers 405 instead of falling through
// to the not found handler.
func NewRouter(cfg RouterConfig) http.Handler {
	notAllowed := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		newResponder(cfg.Logger).writeError(req.Context(), w, http.StatusMethodNotAllowed, nil)
	})

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = notAllowed

	for i := range cfg.Middleware {
		if cfg.Middleware[i] != nil {
			r.Use(cfg.Middleware[i])
		}
	}

	if cfg.Metrics != nil {
		r.Handle("/metrics", methodRoutes{http.MethodGet: cfg.Metrics.ServeHTTP}.handler(notAllowed))
	}

	api := r.PathPrefix("/api").Subrouter()
	public := map[string]methodRoutes{}

	if cfg.Health != nil {
		public["/health"] = methodRoutes{http.MethodGet: cfg.Health.Get}
	}
	if cfg.Dashboard != nil {
		public["/dashboard"] = methodRoutes{http.MethodGet: cfg.Dashboard.Get}
		public["/dashboard/next"] = methodRoutes{http.MethodGet: cfg.Dashboard.Next}
	}
	if cfg.Live != nil {
		public["/ws"] = methodRoutes{http.MethodGet: cfg.Live.ServeHTTP}
	}
	if cfg.Auth != nil {
		public["/login"] = methodRoutes{http.MethodPost: cfg.Auth.Login}
		public["/logout"] = methodRoutes{http.MethodPost: cfg.Auth.Logout}
	}
	register(api, public, notAllowed)

	if cfg.Sessions != nil {
		admin := api.NewRoute().Subrouter()
		admin.Use(RequireSession(cfg.Sessions, cfg.Logger))
		register(admin, adminRoutes(cfg), notAllowed)
	}

	if dir := strings.TrimSpace(cfg.StaticDir); dir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(dir))).Methods(http.MethodGet, http.MethodHead)
	}

	return r
}

func adminRoutes(cfg RouterConfig) map[string]methodRoutes {
	routes := map[string]methodRoutes{}
	collection := func(path string) methodRoutes {
		if routes[path] == nil {
			routes[path] = methodRoutes{}
		}
		return routes[path]
	}

	if cfg.Classes != nil {
		collection("/classes")[http.MethodGet] = cfg.Classes.List
		collection("/classes")[http.MethodPost] = cfg.Classes.Create
		item := collection("/classes/{id:[0-9]+}")
		item[http.MethodGet] = cfg.Classes.Get
		item[http.MethodPut] = cfg.Classes.Update
		item[http.MethodDelete] = cfg.Classes.Delete
	}
	if cfg.Events != nil {
		collection("/events")[http.MethodGet] = cfg.Events.List
		collection("/events")[http.MethodPost] = cfg.Events.Create
		item := collection("/events/{id:[0-9]+}")
		item[http.MethodGet] = cfg.Events.Get
		item[http.MethodPut] = cfg.Events.Update
		item[http.MethodDelete] = cfg.Events.Delete
	}
	if cfg.Transfer != nil {
		collection("/{collection:classes|events}/export")[http.MethodGet] = cfg.Transfer.Export
		collection("/{collection:classes|events}/import")[http.MethodPost] = cfg.Transfer.Import
		collection("/classes")[http.MethodDelete] = cfg.Transfer.Reset(application.CollectionClasses)
		collection("/events")[http.MethodDelete] = cfg.Transfer.Reset(application.CollectionEvents)
	}
	return routes
}

// register adds one route per path in a stable order.
func register(router *mux.Router, routes map[string]methodRoutes, notAllowed http.Handler) {
	paths := make([]string, 0, len(routes))
	for path := range routes {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	for _, path := range paths {
		router.Handle(path, routes[path].handler(notAllowed))
	}
}

// methodRoutes maps HTTP methods to the handlers of a single path.
type methodRoutes map[string]http.HandlerFunc

func (m methodRoutes) handler(notAllowed http.Handler) http.Handler {
	allowed := make([]string, 0, len(m))
	for method := range m {
		allowed = append(allowed, method)
	}
	slices.Sort(allowed)
	allow := strings.Join(allowed, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := m[r.Method]; ok {
			h(w, r)
			return
		}
		w.Header().Set("Allow", allow)
		notAllowed.ServeHTTP(w, r)
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	newResponder(LoggerFromContext(r.Context())).writeError(r.Context(), w, http.StatusNotFound, errRouteNotFound)
}
