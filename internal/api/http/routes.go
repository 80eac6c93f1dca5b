package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/verifytoken/internal/registry"
)

// Registry is what the token routes need from the used-token store.
type Registry interface {
	registry.ReplayProtector
	Sizer
}

// Deps carries what MountTokens wires into the handlers. Metrics and Log
// may be nil.
type Deps struct {
	Tokens       Registry
	Metrics      Observer
	Log          *slog.Logger
	PageToken    string
	MaxBodyBytes int64
}

// MountTokens registers POST /verify_token and GET / on r.
func MountTokens(r chi.Router, d Deps) {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	obs := d.Metrics
	if obs == nil {
		obs = nopObserver{}
	}
	r.Post("/verify_token", VerifyTokenHandler(d.Tokens, obs, log, d.MaxBodyBytes))
	r.Get("/", IndexHandler(d.PageToken, d.Tokens, log))
}

type nopObserver struct{}

func (nopObserver) Observe(string) {}
