package handler

import (
	"net/http"

	"foresttime-admin/internal/domain"
	"foresttime-admin/internal/observability"
	"foresttime-admin/internal/service"
)

// ActionHandler serves one relayed action
type ActionHandler struct {
	spec  domain.ActionSpec
	proxy *service.ProxyService
}

func NewActionHandler(spec domain.ActionSpec, proxy *service.ProxyService) *ActionHandler {
	return &ActionHandler{
		spec:  spec,
		proxy: proxy,
	}
}

// ServeHTTP reads the session cookie, relays the request body and writes the remote
// authority's success body as-is
func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := observability.WithAction(r.Context(), h.spec.Name)
	r = r.WithContext(ctx)

	token, _ := domain.SessionToken(r)

	body, err := h.proxy.Relay(ctx, h.spec, token, r.Body)
	if err != nil {
		writeFailure(w, r, StatusFor(err), err)
		return
	}

	writeRaw(w, body)
}
