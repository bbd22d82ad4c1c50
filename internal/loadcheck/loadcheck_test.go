package loadcheck

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	vegeta "github.com/tsenart/vegeta/v12/lib"

	"github.com/okian/sitefn/internal/adapters/http/api"
	"github.com/okian/sitefn/internal/adapters/repository"
	service "github.com/okian/sitefn/internal/app"
	"github.com/okian/sitefn/internal/domain/model"
)

func shortRun(url string) Config {
	return Config{
		URL:      url,
		Rate:     vegeta.Rate{Freq: 200, Per: time.Second},
		Duration: 250 * time.Millisecond,
		Workers:  8,
	}
}

func TestRun(t *testing.T) {
	Convey("Given a dev server over the memory store", t, func() {
		store := repository.NewMemoryStore()
		store.Seed(model.VisitorCountKey, 100)
		mux := http.NewServeMux()
		api.NewServer(nil, service.NewVisitorCounter(store), "https://site.example", nil).Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("no update is lost", func() {
			rep, err := Run(context.Background(), shortRun(srv.URL+"/count"))
			So(err, ShouldBeNil)
			So(rep.Baseline, ShouldEqual, 101)
			So(rep.Successes, ShouldBeGreaterThan, 0)
			So(rep.Failures, ShouldEqual, 0)
			So(rep.Final, ShouldEqual, rep.Expected())
		})
	})

	Convey("Given a counter that drops every other write", t, func() {
		var hits, value atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			n := value.Load()
			if hits.Add(1)%2 == 1 {
				n = value.Add(1)
			}
			_ = json.NewEncoder(w).Encode(model.VisitorCount{Count: n})
		}))
		defer srv.Close()

		Convey("the run reports lost updates", func() {
			_, err := Run(context.Background(), shortRun(srv.URL))
			So(errors.Is(err, ErrLostUpdates), ShouldBeTrue)
		})
	})

	Convey("Given an endpoint that always fails", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		Convey("the baseline read fails", func() {
			_, err := Run(context.Background(), shortRun(srv.URL))
			So(errors.Is(err, ErrBadStatus), ShouldBeTrue)
		})
	})
}
