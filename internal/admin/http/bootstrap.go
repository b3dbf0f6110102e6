package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/lunch/internal/admin/service"
	"github.com/aussiebroadwan/lunch/pkg/adminsdk"
	"github.com/aussiebroadwan/lunch/pkg/httpx"
	"github.com/aussiebroadwan/lunch/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles the bootstrap endpoint for initial system setup.
//
//	@Summary		Bootstrap the admin service
//	@Description	Creates the first admin account and user document. Only available when a bootstrap token is configured and while no user documents exist.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string						true	"Bootstrap token for authorization"
//	@Param			request				body		adminsdk.BootstrapRequest	true	"First admin"
//	@Success		201					{object}	adminsdk.BootstrapResponse
//	@Failure		400					{object}	adminsdk.ErrorEnvelope	"Invalid request body"
//	@Failure		401					{object}	adminsdk.ErrorEnvelope	"Missing or invalid bootstrap token, or already bootstrapped"
//	@Failure		404					{object}	adminsdk.ErrorEnvelope	"Bootstrap not enabled"
//	@Failure		500					{object}	adminsdk.ErrorEnvelope	"Failed to create admin user"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	if h.BootstrapService == nil || h.BootstrapService.Token == "" {
		adminsdk.NewError(adminsdk.CodeNotFound, "Bootstrap endpoint is not enabled").WriteError(w)
		return
	}

	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		adminsdk.NewError(adminsdk.CodeUnauthenticated, "Bootstrap token is required in X-Bootstrap-Token header").WriteError(w)
		return
	}

	var req adminsdk.BootstrapRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	res, err := h.BootstrapService.Bootstrap(r.Context(), token, service.BootstrapRequest{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapAlready):
			adminsdk.NewError(adminsdk.CodeUnauthenticated, "System has already been bootstrapped").WriteError(w)
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			adminsdk.NewError(adminsdk.CodeUnauthenticated, "Invalid bootstrap token").WriteError(w)
		case errors.Is(err, service.ErrBootstrapInvalidRequest):
			adminsdk.NewError(adminsdk.CodeInvalidArgument, "Missing required fields").WriteError(w)
		case errors.Is(err, service.ErrBootstrapFailedToCreateAdmin):
			adminsdk.NewError(adminsdk.CodeInternal, "Failed to create admin user").WriteError(w)
		default:
			l.Error("bootstrap failed", "error", err)
			adminsdk.NewError(adminsdk.CodeInternal, "An internal error occurred").WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, adminsdk.BootstrapResponse{UID: res.UID})
}
