package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dscheirer.com/segclock/effects"
	"gotest.tools/assert"
)

type testStatusService struct {
	handler *apiHandler
	addr    string
	stopped bool
}

func (t *testStatusService) launch(handler *apiHandler, addr string) {
	t.handler = handler
	t.addr = addr
}

func (t *testStatusService) stop() {
	t.stopped = true
}

func doRequest(h *apiHandler, method string, path string, auth ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if len(auth) == 2 {
		req.SetBasicAuth(auth[0], auth[1])
	}
	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, req)
	return rec
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) statusResponse {
	var sr statusResponse
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &sr))
	return sr
}

func TestStatusServiceLifecycle(t *testing.T) {
	rt, _, _ := testRuntime()
	svc := &testStatusService{}

	wg.Add(1)
	go runStatusService(rt, svc, ":9999")
	rt.comms.stop()
	wg.Wait()

	assert.Equal(t, svc.addr, ":9999")
	assert.Equal(t, svc.handler.user, "tester")
	assert.Assert(t, svc.stopped)
}

func TestAPIStatusBeforeFirstFrame(t *testing.T) {
	rt, _, _ := testRuntime()

	rec := doRequest(newHandler(rt), "GET", "/api/status")
	assert.Equal(t, rec.Code, http.StatusOK)

	sr := decodeStatus(t, rec)
	assert.Equal(t, sr.Response, "OK")
	assert.Equal(t, sr.Frames, 0)
	assert.Equal(t, sr.Mode, "")
	assert.Equal(t, sr.Segments, "")
}

func TestAPIStatus(t *testing.T) {
	rt, clock, _ := testRuntime()

	wg.Add(1)
	go runDisplay(rt)
	clock.BlockUntil(1)

	rec := doRequest(newHandler(rt), "GET", "/api/status")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, rec.Header().Get("Content-Type"), "application/json")

	sr := decodeStatus(t, rec)
	assert.Equal(t, sr.Response, "OK")
	assert.Equal(t, sr.Mode, "digital")
	assert.Equal(t, sr.Position, 1)
	assert.Equal(t, sr.Digits, 8)
	assert.Equal(t, sr.Frames, 1)
	assert.Equal(t, sr.Updated, "2024-03-01T07:05:09Z")
	// " 070509 "
	assert.Equal(t, sr.Segments, "007e707e5b7e7b00")

	testQuit(rt, clock)
}

func TestAPIMode(t *testing.T) {
	rt, _, comms := testRuntime()
	h := newHandler(rt)

	rec := doRequest(h, "POST", "/api/mode/border_cumulative")
	assert.Equal(t, rec.Code, http.StatusAccepted)
	assert.Equal(t, decodeStatus(t, rec).Mode, "border_cumulative")

	// only one can wait
	rec = doRequest(h, "POST", "/api/mode/none")
	assert.Equal(t, rec.Code, http.StatusServiceUnavailable)
	assert.Equal(t, decodeStatus(t, rec).Response, "BAD")

	assert.Equal(t, <-comms.clockMode, effects.SecondsBorderCumulative)

	rec = doRequest(h, "POST", "/api/mode/sundial")
	assert.Equal(t, rec.Code, http.StatusBadRequest)
	assert.Equal(t, decodeStatus(t, rec).Error, "Bad seconds mode: sundial")

	// GET isn't routed
	rec = doRequest(h, "GET", "/api/mode/none")
	assert.Equal(t, rec.Code, http.StatusMethodNotAllowed)
}

func TestAPIModeReachesDisplay(t *testing.T) {
	rt, clock, _ := testRuntime()
	h := newHandler(rt)

	wg.Add(1)
	go runDisplay(rt)
	clock.BlockUntil(1)

	rec := doRequest(h, "POST", "/api/mode/none")
	assert.Equal(t, rec.Code, http.StatusAccepted)
	testBlockDuration(clock, dFrame, dFrame)

	sr := decodeStatus(t, doRequest(h, "GET", "/api/status"))
	assert.Equal(t, sr.Mode, "none")
	assert.Equal(t, sr.Frames, 2)

	testQuit(rt, clock)
}

func TestRootDump(t *testing.T) {
	rt, clock, _ := testRuntime()

	wg.Add(1)
	go runDisplay(rt)
	clock.BlockUntil(1)

	rec := doRequest(newHandler(rt), "GET", "/")
	assert.Equal(t, rec.Code, http.StatusOK)

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	assert.Equal(t, len(lines), 5)
	// 8 digits, 4 columns each
	assert.Equal(t, len(lines[0]), 32)
	// the middle bar of the 5 in digit 4
	assert.Equal(t, lines[2][4*4+1], byte('-'))

	testQuit(rt, clock)
}

func TestBasicAuth(t *testing.T) {
	rt, _, _ := testRuntimeWith(map[string]interface{}{sAPISecret: "s3cret"})
	h := newHandler(rt)

	rec := doRequest(h, "GET", "/api/status")
	assert.Equal(t, rec.Code, http.StatusUnauthorized)
	assert.Equal(t, rec.Header().Get("WWW-Authenticate"), `Basic realm="segclock"`)

	rec = doRequest(h, "GET", "/api/status", "tester", "wrong")
	assert.Equal(t, rec.Code, http.StatusUnauthorized)

	rec = doRequest(h, "GET", "/api/status", "tester", "s3cret")
	assert.Equal(t, rec.Code, http.StatusOK)
}
