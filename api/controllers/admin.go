package controllers

import (
	"net/http"

	"github.com/foundlyhq/foundly-backend/api/responses"
	"github.com/foundlyhq/foundly-backend/internal/admin"
	pkgerrors "github.com/foundlyhq/foundly-backend/pkg/errors"
	"github.com/foundlyhq/foundly-backend/pkg/logger"
)

// AdminStats serves the registry-wide overview. Role gating happens in the
// route middleware, not here.
func AdminStats(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		overview, err := svc.Overview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"overview": overview})
	}
}
