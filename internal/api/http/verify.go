package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/mind-engage/verifytoken/internal/metrics"
	"github.com/mind-engage/verifytoken/internal/registry"
)

// Observer counts verification outcomes.
type Observer interface {
	Observe(outcome string)
}

var errNullToken = errors.New("token is null")

// tokenField is a JSON string that remembers whether it was an explicit null.
type tokenField struct {
	value string
	null  bool
}

func (f *tokenField) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		f.null = true
		return nil
	}
	return json.Unmarshal(b, &f.value)
}

type verifyRequest struct {
	Token tokenField `json:"token"`
	ID    string     `json:"id"`
}

type statusResp struct {
	Status string `json:"status"`
}

// decodeVerifyRequest reads exactly one JSON object from body. Trailing
// data, a top-level null and a null token are all errors.
func decodeVerifyRequest(body io.Reader) (*verifyRequest, error) {
	dec := json.NewDecoder(body)
	var req *verifyRequest
	if err := dec.Decode(&req); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errors.New("body is null")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			err = errors.New("trailing data after object")
		}
		return nil, err
	}
	if req.Token.null {
		return nil, errNullToken
	}
	return req, nil
}

// POST /verify_token  { "token": "...", "id": "..." }
//
// Both fields default to "". A token is accepted the first time it is seen
// and rejected with 401 afterwards.
func VerifyTokenHandler(tokens registry.ReplayProtector, obs Observer, log *slog.Logger, maxBody int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if maxBody > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		}
		req, err := decodeVerifyRequest(r.Body)
		if err != nil {
			obs.Observe(metrics.OutcomeInvalid)
			log.Debug("verify.bad_request", "err", err, "request_id", middleware.GetReqID(r.Context()))
			writeErr(w, http.StatusBadRequest, "bad json")
			return
		}

		log.Debug("verify.request", "id", req.ID, "request_id", middleware.GetReqID(r.Context()))

		ok, err := tokens.Use(registry.KindToken, req.Token.value)
		if err != nil {
			log.Error("verify.replay_check.fail", "err", err)
			writeErr(w, http.StatusInternalServerError, "replay check")
			return
		}
		if !ok {
			obs.Observe(metrics.OutcomeReplayed)
			log.Info("verify.replay", "id", req.ID)
			writeErr(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		obs.Observe(metrics.OutcomeAccepted)
		writeJSON(w, http.StatusOK, statusResp{Status: "OK"})
	}
}
