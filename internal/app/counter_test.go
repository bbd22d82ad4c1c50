package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/sitefn/internal/adapters/repository"
	service "github.com/okian/sitefn/internal/app"
	"github.com/okian/sitefn/internal/domain/failure"
	"github.com/okian/sitefn/internal/domain/model"
	"github.com/okian/sitefn/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/sync/errgroup"
)

// brokenStore fails every add without touching the wrapped store.
type brokenStore struct {
	repository.Counter
	err error
}

func (b brokenStore) Add(context.Context, string, int64) (int64, error) { return 0, b.err }

func TestVisitorCounter_Increment(t *testing.T) {
	Convey("Given a visitor counter over a memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		counter := service.NewVisitorCounter(store, service.WithLogger(logger.Nop()))

		Convey("When the persisted value is 5", func() {
			store.Seed(model.VisitorCountKey, 5)
			n, err := counter.Increment(ctx)

			Convey("Then one invocation returns and persists 6", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 6)
				v, _ := store.Get(ctx, model.VisitorCountKey)
				So(v, ShouldEqual, 6)
			})
		})

		Convey("When N invocations run concurrently from V", func() {
			const v, n = 1000, 100
			store.Seed(model.VisitorCountKey, v)

			var g errgroup.Group
			for i := 0; i < n; i++ {
				g.Go(func() error {
					_, err := counter.Increment(ctx)
					return err
				})
			}

			Convey("Then each succeeds and the value is exactly V+N", func() {
				So(g.Wait(), ShouldBeNil)
				got, _ := store.Get(ctx, model.VisitorCountKey)
				So(got, ShouldEqual, v+n)
			})
		})

		Convey("When a custom key is configured", func() {
			keyed := service.NewVisitorCounter(store, service.WithCounterKey("home"))
			_, err := keyed.Increment(ctx)
			So(err, ShouldBeNil)
			got, _ := store.Get(ctx, "home")
			So(got, ShouldEqual, 1)
		})

		Convey("When the store fails", func() {
			store.Seed(model.VisitorCountKey, 5)
			boom := errors.New("ProvisionedThroughputExceededException")
			failing := service.NewVisitorCounter(brokenStore{Counter: store, err: boom})

			_, err := failing.Increment(ctx)

			Convey("Then a dependency error is returned and the value is unchanged", func() {
				So(failure.KindOf(err), ShouldEqual, failure.KindDependency)
				So(errors.Is(err, boom), ShouldBeTrue)
				got, _ := store.Get(ctx, model.VisitorCountKey)
				So(got, ShouldEqual, 5)
			})
		})
	})
}
