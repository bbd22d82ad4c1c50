package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/sitefn/internal/adapters/http/api"
	"github.com/okian/sitefn/internal/adapters/repository"
	service "github.com/okian/sitefn/internal/app"
	"github.com/okian/sitefn/internal/domain/failure"
	"github.com/okian/sitefn/internal/domain/model"
	"github.com/okian/sitefn/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const origin = "https://site.example"

type stubRelay struct {
	calls int
	body  string
	err   error
}

func (s *stubRelay) Relay(_ context.Context, body string) error {
	s.calls++
	s.body = body
	return s.err
}

func newMux(relay api.Relayer, counter api.Incrementer) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(relay, counter, origin, nil).Register(context.Background(), mux)
	return mux
}

func TestServer_Contact(t *testing.T) {
	Convey("Given a server with a stub relay", t, func() {
		relay := &stubRelay{}
		mux := newMux(relay, service.NewVisitorCounter(repository.NewMemoryStore()))

		Convey("POST relays the raw body", func() {
			req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(`{"name":"Ann"}`))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(relay.body, ShouldEqual, `{"name":"Ann"}`)
			So(rec.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			So(rec.Body.String(), ShouldContainSubstring, service.MsgSent)
		})

		Convey("a dependency failure hides the cause", func() {
			relay.err = failure.WrapKind("test", failure.KindDependency, errors.New("throttled"))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(`{}`)))

			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
			So(rec.Body.String(), ShouldContainSubstring, service.MsgSendFailed)
			So(rec.Body.String(), ShouldNotContainSubstring, "throttled")
		})

		Convey("OPTIONS answers the preflight without relaying", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/contact", nil))

			So(rec.Code, ShouldEqual, http.StatusNoContent)
			So(relay.calls, ShouldEqual, 0)
			So(rec.Header().Get("Access-Control-Allow-Methods"), ShouldEqual, "POST,OPTIONS")
		})

		Convey("GET is rejected", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))

			So(rec.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(relay.calls, ShouldEqual, 0)
		})
	})
}

func TestServer_Count(t *testing.T) {
	Convey("Given a server over a seeded memory store", t, func() {
		store := repository.NewMemoryStore()
		store.Seed(model.VisitorCountKey, 41)
		mux := newMux(&stubRelay{}, service.NewVisitorCounter(store))

		Convey("GET increments and returns the new count", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/count", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, origin)

			var got model.VisitorCount
			So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
			So(got.Count, ShouldEqual, 42)
		})

		Convey("OPTIONS leaves the count unchanged", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/count", nil))

			So(rec.Code, ShouldEqual, http.StatusNoContent)
			v, err := store.Get(context.Background(), model.VisitorCountKey)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 41)
		})

		Convey("POST is rejected without incrementing", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/count", nil))

			So(rec.Code, ShouldEqual, http.StatusMethodNotAllowed)
			v, _ := store.Get(context.Background(), model.VisitorCountKey)
			So(v, ShouldEqual, 41)
		})
	})
}

func TestServer_Ambient(t *testing.T) {
	Convey("Given a server", t, func() {
		mux := newMux(&stubRelay{}, service.NewVisitorCounter(repository.NewMemoryStore()))

		Convey("healthz reports ok", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("every request gets an id", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			So(rec.Header().Get(api.HeaderRequestID), ShouldNotBeEmpty)
		})

		Convey("a caller supplied id is echoed", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set(api.HeaderRequestID, "abc-123")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Header().Get(api.HeaderRequestID), ShouldEqual, "abc-123")
		})

		Convey("metrics are exposed after traffic", func() {
			mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/count", nil))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "sitefn_handlers_http_requests_total")
		})
	})
}

type throttledSender struct{}

func (throttledSender) Send(context.Context, model.Message) error {
	return errors.New("Throttling")
}

func TestServer_Logging(t *testing.T) {
	Convey("Given a server logging to a buffer", t, func() {
		var buf bytes.Buffer
		So(logger.Init(logger.WithWriter(&buf)), ShouldBeNil)
		log := logger.Named("http")

		relay := service.NewContactRelay(throttledSender{}, "noreply@site.dev", "owner@site.dev", service.WithLogger(log))
		mux := http.NewServeMux()
		api.NewServer(relay, service.NewVisitorCounter(repository.NewMemoryStore()), origin, log).Register(context.Background(), mux)

		Convey("the relay's failure line carries the request id", func() {
			req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(`{}`))
			req.Header.Set(api.HeaderRequestID, "req-42")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
			var failed string
			for _, line := range strings.Split(buf.String(), "\n") {
				if strings.Contains(line, "email send failed") {
					failed = line
				}
			}
			So(failed, ShouldContainSubstring, "request_id=req-42")
		})

		Convey("an oversized body is rejected and its cause logged", func() {
			big := `{"message":"` + strings.Repeat("x", 65<<10) + `"}`
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(big)))

			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
			So(rec.Body.String(), ShouldContainSubstring, "Could not parse JSON body")
			So(buf.String(), ShouldContainSubstring, "unreadable contact body")
			So(buf.String(), ShouldContainSubstring, "request body too large")
		})
	})
}
