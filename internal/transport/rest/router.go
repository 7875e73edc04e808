package rest

import (
	"net/http"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/internal/transport/middleware"
)

// Handlers groups every REST handler mounted by NewRouter.
type Handlers struct {
	Health      *HealthHandler
	Integration *IntegrationHandler
	Slack       *SlackHandler
	Memory      *MemoryHandler
	Query       *QueryHandler
	Meeting     *MeetingHandler
	Session     *SessionHandler
	Admin       *AdminHandler
	// Stream serves the team notification websocket. Optional.
	Stream http.Handler
}

// Limits holds optional throttles for the routes that need them.
type Limits struct {
	// Webhook guards the unauthenticated Slack endpoint.
	Webhook middleware.Middleware
	// Query guards the LLM-backed question endpoint.
	Query middleware.Middleware
}

func limited(m middleware.Middleware, h http.Handler) http.Handler {
	if m == nil {
		return h
	}
	return m(h)
}

// NewRouter mounts the API routes. Identity must already be resolved by
// middleware.Auth; per-route guards only check it.
func NewRouter(h Handlers, limits Limits) *http.ServeMux {
	mux := http.NewServeMux()

	user := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireUser(fn)
	}
	manager := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireRole(domain.RoleOwner, domain.RoleAdmin)(fn)
	}
	owner := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireRole(domain.RoleOwner)(fn)
	}

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.Handle("POST /integrations/slack/webhook", limited(limits.Webhook, http.HandlerFunc(h.Slack.Webhook)))

	mux.Handle("GET /integrations", user(h.Integration.List))
	mux.Handle("GET /integrations/audit", manager(h.Integration.Audit))
	mux.Handle("GET /integrations/{provider}/auth", manager(h.Integration.AuthURL))
	mux.Handle("POST /integrations/{provider}/callback", manager(h.Integration.Callback))
	mux.Handle("PATCH /integrations/{provider}", manager(h.Integration.Update))
	mux.Handle("DELETE /integrations/{provider}", manager(h.Integration.Delete))
	mux.Handle("POST /integrations/{provider}/sync", user(h.Integration.Sync))

	mux.Handle("GET /memories", user(h.Memory.Search))
	mux.Handle("POST /memories", user(h.Memory.Capture))
	mux.Handle("GET /memories/stats", user(h.Memory.Stats))
	mux.Handle("GET /memories/{id}", user(h.Memory.Get))
	mux.Handle("PATCH /memories/{id}", user(h.Memory.Patch))
	mux.Handle("DELETE /memories/{id}", user(h.Memory.Delete))

	mux.Handle("POST /query", middleware.RequireUser(limited(limits.Query, http.HandlerFunc(h.Query.Ask))))

	mux.Handle("POST /meetings/{id}/captions", user(h.Meeting.Captions))
	mux.Handle("POST /meetings/{id}/end", user(h.Meeting.End))

	mux.Handle("POST /extension/session", user(h.Session.Create))
	mux.Handle("DELETE /extension/session", user(h.Session.Revoke))

	if h.Stream != nil {
		mux.Handle("GET /ws", middleware.RequireUser(h.Stream))
	}

	mux.Handle("GET /admin/jobs/stats", owner(h.Admin.JobStats))
	mux.Handle("POST /admin/jobs/retry-failed", owner(h.Admin.RetryFailed))

	return mux
}
