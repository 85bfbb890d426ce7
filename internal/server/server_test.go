package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/piwi3910/envelope/internal/export"
	"github.com/piwi3910/envelope/internal/model"
	"github.com/piwi3910/envelope/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *session.Session) {
	t.Helper()
	sess := session.New(model.DefaultParameters())
	return New(sess, log.New(io.Discard)), sess
}

func do(t *testing.T, s *Server, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestDefaultsAndRanges(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/defaults", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.DefaultParameters(), decode[model.Parameters](t, rec))

	rec = do(t, s, http.MethodGet, "/api/ranges", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.DefaultRanges(), decode[model.Ranges](t, rec))
}

func TestEvaluateCurrent(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/evaluate", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[EvaluationResponse](t, rec)
	assert.Equal(t, 494.0, resp.Yield.FootprintArea)
	assert.Equal(t, 5928.0, resp.Yield.Volume)
	assert.Equal(t, 23, resp.Yield.EstimatedUnits)
	assert.Equal(t, model.Vec3{X: 0, Y: 6, Z: 1}, resp.Envelope.Center)
	assert.InDelta(t, 49.4, resp.Coverage, 1e-9)
	assert.Empty(t, resp.Advisories)
}

func TestEvaluateOverridesAreStateless(t *testing.T) {
	s, sess := newTestServer(t)
	before := sess.Revision()

	rec := do(t, s, http.MethodGet, "/api/evaluate?width=10&depth=10&front=10&rear=10&left=10&right=10&height=5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[EvaluationResponse](t, rec)
	assert.Equal(t, 0.1, resp.Envelope.Width)
	assert.Equal(t, 0.0, resp.Yield.FootprintArea)
	assert.Len(t, resp.Advisories, 2)

	assert.Equal(t, model.DefaultParameters(), sess.Parameters())
	assert.Equal(t, before, sess.Revision())
}

func TestEvaluateRejectsNonFinite(t *testing.T) {
	s, _ := newTestServer(t)

	for _, q := range []string{"height=NaN", "width=Inf", "front=abc", "max_height=-Inf"} {
		rec := do(t, s, http.MethodGet, "/api/evaluate?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.NotEmpty(t, decode[errorResponse](t, rec).Error, q)
	}
}

func TestEvaluateUnencodableResultIsServerError(t *testing.T) {
	s, sess := newTestServer(t)

	// Finite inputs whose footprint overflows to +Inf.
	rec := do(t, s, http.MethodGet, "/api/evaluate?width=1e200&depth=1e200", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Error, "failed to encode response")
	assert.Equal(t, model.DefaultParameters(), sess.Parameters())
}

func TestPutParametersPartialUpdate(t *testing.T) {
	s, sess := newTestServer(t)

	rec := do(t, s, http.MethodPut, "/api/parameters", `{"max_height": 15}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[EvaluationResponse](t, rec)
	assert.Equal(t, 15.0, resp.Envelope.Height)
	// 494 * 15 = 7410
	assert.Equal(t, 29, resp.Yield.EstimatedUnits)
	assert.Equal(t, uint64(1), resp.Revision)

	p := sess.Parameters()
	assert.Equal(t, model.HeightLimit(15), p.MaxHeight)
	assert.Equal(t, 25.0, p.Lot.Width, "untouched fields are kept")

	rec = do(t, s, http.MethodGet, "/api/parameters", "")
	assert.Equal(t, p, decode[model.Parameters](t, rec))
}

func TestPutParametersRejectsBadBody(t *testing.T) {
	s, sess := newTestServer(t)

	for _, body := range []string{`{"max_height": "tall"}`, `{"unknown": 1}`, `{"lot_width": 1e400}`, `not json`} {
		rec := do(t, s, http.MethodPut, "/api/parameters", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Equal(t, model.DefaultParameters(), sess.Parameters())
}

func TestResetRestoresDefaults(t *testing.T) {
	s, sess := newTestServer(t)
	do(t, s, http.MethodPut, "/api/parameters", `{"lot_width": 60, "left": 0}`)
	require.NotEqual(t, model.DefaultParameters(), sess.Parameters())

	rec := do(t, s, http.MethodPost, "/api/parameters/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.DefaultParameters(), sess.Parameters())
	assert.Equal(t, 23, decode[EvaluationResponse](t, rec).Yield.EstimatedUnits)
}

func TestScene(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/scene?height=20", "")
	require.Equal(t, http.StatusOK, rec.Code)

	scene := decode[export.Scene](t, rec)
	assert.Equal(t, export.SceneVersion, scene.Version)
	assert.Equal(t, 20.0, scene.Envelope.Size.Y)
	assert.Len(t, scene.Envelope.Edges, 12)
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	s := New(session.New(model.DefaultParameters()), logger)

	do(t, s, http.MethodGet, "/healthz", "")
	assert.Contains(t, buf.String(), "/healthz")
}
