package redirect

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sundayezeilo/qrdirect/internal/errx"
	"github.com/sundayezeilo/qrdirect/internal/httpx"
)

// Handler provides HTTP handlers for the redirect and admin endpoints.
type Handler struct {
	resolver *Resolver
	admin    *Admin
	logger   *slog.Logger
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Resolver *Resolver
	Admin    *Admin
	Logger   *slog.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		resolver: cfg.Resolver,
		admin:    cfg.Admin,
		logger:   logger,
	}
}

// Resolve handles GET /redirect/{code}. Successful and fallback resolutions
// use 307 so clients and intermediaries re-check the mapping on every scan.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := r.PathValue("code")

	logger := h.logger.With(
		"request_id", httpx.GetRequestID(ctx),
		"code", code,
	)

	decision := h.resolver.Resolve(ctx, code)

	switch decision.Kind {
	case DecisionRedirect:
		logger.InfoContext(ctx, "code resolved",
			"destination", decision.Location,
		)
		http.Redirect(w, r, decision.Location, http.StatusTemporaryRedirect)

	case DecisionFallback:
		logger.InfoContext(ctx, "serving fallback destination",
			"destination", decision.Location,
		)
		http.Redirect(w, r, decision.Location, http.StatusTemporaryRedirect)

	case DecisionNotFound:
		logger.WarnContext(ctx, "code not resolvable")
		httpx.WriteError(w, http.StatusNotFound, "not_found",
			"unknown QR code", nil)

	case DecisionUnavailable:
		logger.ErrorContext(ctx, "store unavailable during resolution")
		httpx.WriteError(w, http.StatusInternalServerError, "store_unavailable",
			"unable to resolve this code right now", nil)

	default:
		logger.ErrorContext(ctx, "unexpected decision kind",
			"kind", decision.Kind.String(),
		)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error",
			"unable to resolve this code right now", nil)
	}
}

// GetMapping handles GET /config/redirects. An absent record returns
// explicit empty defaults rather than an error.
func (h *Handler) GetMapping(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mapping, err := h.admin.GetMapping(ctx)
	if err != nil {
		h.handleAdminError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, mapping)
}

// UpdateMapping handles POST /config/redirects with a flat JSON object of
// code→URL pairs, merged into the stored record.
func (h *Handler) UpdateMapping(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	logger := h.logger.With(
		"request_id", httpx.GetRequestID(ctx),
	)

	partial, err := httpx.DecodeJSON[Mapping](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode mapping update",
			"error", err.Error(),
		)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	if err := h.admin.SetMapping(ctx, partial); err != nil {
		h.handleAdminError(ctx, w, err)
		return
	}

	keys := make([]string, 0, len(partial))
	for k := range partial {
		keys = append(keys, k)
	}
	logger.InfoContext(ctx, "mapping updated", "keys", keys)

	httpx.WriteNoContent(w)
}

// handleAdminError maps admin service errors onto operator-visible responses.
func (h *Handler) handleAdminError(ctx context.Context, w http.ResponseWriter, err error) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"request_id", httpx.GetRequestID(ctx),
		"error", err.Error(),
		"error_kind", kind.String(),
		"operation", errx.OpOf(err),
	}

	switch kind {
	case errx.Invalid:
		h.logger.WarnContext(ctx, "invalid mapping request", logAttrs...)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)

	case errx.Unavailable:
		h.logger.ErrorContext(ctx, "store unavailable", logAttrs...)
		httpx.WriteError(w, http.StatusInternalServerError, "store_unavailable",
			"the configuration store is unreachable, please retry", nil)

	default:
		h.logger.ErrorContext(ctx, "unexpected admin error", logAttrs...)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error",
			"unable to process the request right now", nil)
	}
}
