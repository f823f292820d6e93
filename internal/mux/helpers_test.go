package mux

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"holdem-server/pkg/room"
)

type testRand struct{}

func (testRand) Intn(n int) int { return 0 }

func (testRand) Int63() int64 { return 1 }

func testServer(t *testing.T) (*httptest.Server, *room.Registry) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	registry := room.NewRegistry(logger, quartz.NewMock(t), testRand{})
	t.Cleanup(registry.Broadcaster().EndShift)

	ts := httptest.NewServer(NewMux("v0.0.0-test", registry))
	t.Cleanup(ts.Close)

	return ts, registry
}

func assertDo(t *testing.T, req *http.Request, respObj interface{}, statusCode int) {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Error(err)
		return
	}
	defer resp.Body.Close()

	if statusCode != resp.StatusCode {
		b, _ := io.ReadAll(resp.Body)
		t.Log(string(b))
		assert.Equal(t, statusCode, resp.StatusCode)
		return
	}

	if respObj != nil {
		// callers reuse response structs across requests; zero the target so
		// fields absent from this response (e.g. hands hidden via omitempty)
		// don't keep stale values from an earlier decode
		if v := reflect.ValueOf(respObj); v.Kind() == reflect.Ptr && !v.IsNil() {
			v.Elem().Set(reflect.Zero(v.Elem().Type()))
		}

		if err := json.NewDecoder(resp.Body).Decode(respObj); err != nil {
			t.Error(err)
		}
	}
}

func assertGet(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Error(err)
		return
	}

	assertDo(t, req, respObj, statusCode)
}

func assertPost(t *testing.T, ts *httptest.Server, path string, payload interface{}, respObj interface{}, statusCode int) {
	t.Helper()

	var body io.Reader
	switch val := payload.(type) {
	case string:
		body = strings.NewReader(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			t.Error(err)
			return
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(http.MethodPost, ts.URL+path, body)
	if err != nil {
		t.Error(err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	assertDo(t, req, respObj, statusCode)
}

func assertDelete(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int) {
	t.Helper()

	req, err := http.NewRequest(http.MethodDelete, ts.URL+path, nil)
	if err != nil {
		t.Error(err)
		return
	}

	assertDo(t, req, respObj, statusCode)
}
