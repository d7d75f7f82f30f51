package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/uigen/schema"
	"github.com/BaSui01/uigen/types"
)

func postNormalize(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewNormalizeHandler(zap.NewNop())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/ui/normalize", strings.NewReader(body))
	h.ServeHTTP(rec, req)
	return rec
}

// normalizeResult re-decodes the forest from the wire, since node props
// only deserialize through the schema decoder.
func normalizeResult(t *testing.T, rec *httptest.ResponseRecorder) []types.Node {
	t.Helper()
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			UI json.RawMessage `json:"ui"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)

	nodes, err := schema.DecodeNodes(resp.Data.UI)
	require.NoError(t, err)
	return nodes
}

func TestNormalizeHandlerMintsIDs(t *testing.T) {
	rec := postNormalize(t, `{"ui":[
		{"kind":"text","props":{"text":"a"}},
		{"kind":"button","id":"keep-me","props":{"label":"Go"}}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	nodes := normalizeResult(t, rec)
	require.Len(t, nodes, 2)
	assert.NotEmpty(t, nodes[0].ID)
	assert.Equal(t, "keep-me", nodes[1].ID)
}

func TestNormalizeHandlerAppliesDefaults(t *testing.T) {
	rec := postNormalize(t, `{"ui":[{"kind":"container","props":{"children":[]}}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	nodes := normalizeResult(t, rec)
	props := nodes[0].Props.(types.ContainerProps)
	assert.Equal(t, types.DirectionColumn, props.Direction)
	assert.Equal(t, 12, props.Gap)
}

func TestNormalizeHandlerRejectsInvalidForest(t *testing.T) {
	rec := postNormalize(t, `{"ui":[{"kind":"carousel","props":{}}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(types.ErrSchemaInvalid), resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "carousel")
}

func TestNormalizeHandlerRequiresUI(t *testing.T) {
	rec := postNormalize(t, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNormalizeHandlerMethodNotAllowed(t *testing.T) {
	h := NewNormalizeHandler(zap.NewNop())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ui/normalize", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
