package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/lunch/internal/admin/identity/drivers/local"
	"github.com/aussiebroadwan/lunch/pkg/adminsdk"
	"github.com/aussiebroadwan/lunch/pkg/httpx"
	"github.com/aussiebroadwan/lunch/pkg/slogx"
)

type SignInHandler struct {
	Provider PasswordSignIn
}

// ServeHTTP exchanges email and password for an ID token.
//
//	@Summary		Sign in (local identity backend)
//	@Description	Issues an EdDSA-signed ID token usable as the bearer token of callable requests.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.SignInRequest	true	"Credentials"
//	@Success		200		{object}	adminsdk.SignInResponse
//	@Failure		400		{object}	adminsdk.ErrorEnvelope	"Invalid request body"
//	@Failure		401		{object}	adminsdk.ErrorEnvelope	"Invalid email or password"
//	@Failure		403		{object}	adminsdk.ErrorEnvelope	"Account disabled"
//	@Failure		429		{object}	adminsdk.ErrorEnvelope	"Too many attempts"
//	@Router			/v1/auth/signin [post].
func (h *SignInHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req adminsdk.SignInRequest
	if !decodeStrict(w, r, &req) {
		return
	}

	res, err := h.Provider.SignIn(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, local.ErrInvalidCredentials):
		log.Warn("sign-in rejected", "email", req.Email)
		adminsdk.NewError(adminsdk.CodeUnauthenticated, "Invalid email or password").WriteError(w)
		return
	case errors.Is(err, local.ErrAccountDisabled):
		log.Warn("sign-in rejected: account disabled", "email", req.Email)
		adminsdk.NewError(adminsdk.CodePermissionDenied, "Account is disabled").WriteError(w)
		return
	case err != nil:
		log.Error("sign-in failed", "error", err)
		adminsdk.NewError(adminsdk.CodeInternal, "Sign-in failed").WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, adminsdk.SignInResponse{
		UID:       res.UID,
		Email:     res.Email,
		IDToken:   res.IDToken,
		ExpiresIn: res.ExpiresIn,
	})
}

// JWKSHandler exposes the JSON Web Key Set for public key discovery.
//
//	@Summary		Get JWKS
//	@Description	Returns the public keys ID tokens issued by the local identity backend are signed with.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	adminsdk.JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(p PasswordSignIn) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, p.JWKS())
	}
}
