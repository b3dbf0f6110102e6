package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/lunch/internal/admin/domain"
	"github.com/aussiebroadwan/lunch/internal/admin/service"
	"github.com/aussiebroadwan/lunch/pkg/adminsdk"
	"github.com/aussiebroadwan/lunch/pkg/httpx"
	"github.com/aussiebroadwan/lunch/pkg/slogx"
)

// Callable exposes fn with the callable wire format: the body is
// {"data": Req}, success is 200 {"result": Res} and failure is an
// adminsdk.ErrorEnvelope. A missing or empty body is a zero Req, which the
// operation rejects in its own order (authentication first).
//
//	@Summary		Invoke an admin callable
//	@Description	createUser, deleteUser, listApprovals, reviewApproval and reconcile share this envelope.
//	@Tags			Callable
//	@Accept			json
//	@Produce		json
//	@Param			name	path		string					true	"Callable name"
//	@Param			body	body		object					true	"{\"data\": {...}}"
//	@Success		200		{object}	object					"{\"result\": {...}}"
//	@Failure		400		{object}	adminsdk.ErrorEnvelope	"invalid-argument"
//	@Failure		401		{object}	adminsdk.ErrorEnvelope	"unauthenticated"
//	@Failure		403		{object}	adminsdk.ErrorEnvelope	"permission-denied"
//	@Failure		429		{object}	adminsdk.ErrorEnvelope	"resource-exhausted"
//	@Failure		500		{object}	adminsdk.ErrorEnvelope	"internal"
//	@Security		BearerAuth
//	@Router			/v1/callable/{name} [post].
func Callable[Req, Res any](fn func(ctx context.Context, caller *domain.Caller, req Req) (Res, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body adminsdk.CallRequest[Req]
		if err := httpx.DecodeJSON(w, r, &body); err != nil {
			slogx.FromContext(ctx).Warn("callable body rejected", "error", err)
			adminsdk.NewError(adminsdk.CodeInvalidArgument, "Request body must be valid JSON").WriteError(w)
			return
		}

		res, err := fn(ctx, callerFrom(ctx), body.Data)
		if err != nil {
			callError(err).WriteError(w)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, adminsdk.CallResponse[Res]{Result: res})
	}
}

// callError converts a service error into its wire form. Only the message
// of a *service.CallError reaches the caller.
func callError(err error) *adminsdk.Error {
	var ce *service.CallError
	if errors.As(err, &ce) {
		return adminsdk.NewError(string(ce.Kind), ce.Message)
	}
	return adminsdk.NewError(adminsdk.CodeInternal, "Internal error")
}

// decodeStrict is used by the non-callable endpoints, which take the
// payload at the top level.
func decodeStrict(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, httpx.MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		adminsdk.NewError(adminsdk.CodeInvalidArgument, "Request body must be valid JSON").WriteError(w)
		return false
	}
	return true
}
