package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/foundlyhq/foundly-backend/api/middleware"
	"github.com/foundlyhq/foundly-backend/api/responses"
	"github.com/foundlyhq/foundly-backend/api/validators"
	"github.com/foundlyhq/foundly-backend/internal/auth"
	"github.com/foundlyhq/foundly-backend/internal/claims"
	"github.com/foundlyhq/foundly-backend/internal/items"
	"github.com/foundlyhq/foundly-backend/internal/media"
	"github.com/foundlyhq/foundly-backend/pkg/enums"
	pkgerrors "github.com/foundlyhq/foundly-backend/pkg/errors"
	"github.com/foundlyhq/foundly-backend/pkg/logger"
	"github.com/foundlyhq/foundly-backend/pkg/pagination"
)

const (
	maxMultipartMemory = 32 << 20
	maxItemNameLen     = 200
	maxLocationLen     = 200
	maxDescriptionLen  = 2000
)

// ItemSubmit accepts a multipart report with an optional image attachment.
func ItemSubmit(itemsSvc items.Service, authSvc auth.Service, mediaSvc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if itemsSvc == nil || authSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		req := items.SubmitItemRequest{
			Type:       enums.ItemType(strings.TrimSpace(r.FormValue("type"))),
			Name:       validators.SanitizeString(r.FormValue("name"), maxItemNameLen),
			Location:   validators.SanitizeString(r.FormValue("location"), maxLocationLen),
			ReportedOn: strings.TrimSpace(r.FormValue("reported_on")),
		}
		if description := validators.SanitizeString(r.FormValue("description"), maxDescriptionLen); description != "" {
			req.Description = &description
		}

		if files := r.MultipartForm.File["image"]; len(files) > 0 && mediaSvc != nil {
			image, err := mediaSvc.ReadImage(files[0])
			if err != nil {
				// A bad attachment does not sink the report.
				if logg != nil {
					ctx := logg.WithField(r.Context(), "image_error", err.Error())
					logg.Warn(ctx, "item.image.rejected")
				}
			} else {
				req.ImageData = image.Data
				req.ImageMime = image.MimeType
			}
		}

		reporter, err := authSvc.CurrentUser(r.Context(), actor.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := itemsSvc.SubmitItem(r.Context(), actor, reporter.Name, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]*items.ItemDTO{"item": item})
	}
}

// ItemsList serves the public registry with status/search filters.
func ItemsList(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req := items.QueryRequest{
			Status: strings.TrimSpace(r.URL.Query().Get("status")),
			Search: strings.TrimSpace(r.URL.Query().Get("q")),
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		resp, err := svc.Query(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// ItemsMine lists the authenticated user's own reports, claimed ones included.
func ItemsMine(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.ItemsByOwner(r.Context(), actor.UserID, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// ItemImage streams the stored image payload for an item.
func ItemImage(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		itemID, err := parseItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		image, err := svc.GetImage(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", image.Mime)
		w.Header().Set("Cache-Control", "private, max-age=3600")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(image.Data)
	}
}

// ItemMarkClaimed flips an active item to claimed.
func ItemMarkClaimed(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		itemID, err := parseItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.MarkClaimed(r.Context(), actor, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": string(enums.ItemStatusClaimed)})
	}
}

// ItemCreateClaim records a claim attempt and notifies the item's reporter.
func ItemCreateClaim(svc claims.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "claims service unavailable"))
			return
		}

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		itemID, err := parseItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		notification, err := svc.CreateClaim(r.Context(), actor, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"notification": notification})
	}
}

func parseItemID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "itemId")
	itemID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
	}
	return itemID, nil
}
