package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/BaSui01/uigen/api"
	"github.com/BaSui01/uigen/normalize"
	"github.com/BaSui01/uigen/schema"
	"github.com/BaSui01/uigen/types"
)

// NormalizeHandler serves POST /v1/ui/normalize: validate a raw node forest
// and mint identities for nodes that lack them.
type NormalizeHandler struct {
	logger *zap.Logger
}

// NewNormalizeHandler creates the normalization endpoint handler.
func NewNormalizeHandler(logger *zap.Logger) *NormalizeHandler {
	return &NormalizeHandler{logger: logger.With(zap.String("handler", "normalize"))}
}

// ServeHTTP handles the normalization request.
func (h *NormalizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteErrorMessage(w, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}

	var req api.NormalizeRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}
	if len(req.UI) == 0 {
		WriteErrorMessage(w, types.ErrInvalidRequest, "ui is required", h.logger)
		return
	}

	nodes, err := schema.DecodeNodes(req.UI)
	if err != nil {
		WriteError(w, types.NewError(types.ErrSchemaInvalid, "invalid node forest").WithCause(err), h.logger)
		return
	}

	WriteSuccess(w, api.NormalizeResponse{UI: normalize.Nodes(nodes)})
}
