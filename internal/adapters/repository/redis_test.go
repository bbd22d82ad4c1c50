package repository_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/okian/sitefn/internal/adapters/repository"
	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/sync/errgroup"
)

func TestRedisStore(t *testing.T) {
	Convey("Given a Redis store backed by miniredis", t, func() {
		ctx := context.Background()
		srv := miniredis.RunT(t)
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{srv.Addr()}})
		defer client.Close()
		store := repository.NewRedisStore(client)

		Convey("When the counter starts at 5", func() {
			srv.HSet("visitor-count", "count", "5")
			n, err := store.Add(ctx, "visitor-count", 1)

			Convey("Then 6 is returned and persisted", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 6)
				So(srv.HGet("visitor-count", "count"), ShouldEqual, "6")
			})
		})

		Convey("When the counter does not exist", func() {
			n, err := store.Add(ctx, "visitor-count", 1)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)
		})

		Convey("When many goroutines add concurrently", func() {
			const workers = 40
			var g errgroup.Group
			for i := 0; i < workers; i++ {
				g.Go(func() error {
					_, err := store.Add(ctx, "visitor-count", 1)
					return err
				})
			}
			So(g.Wait(), ShouldBeNil)

			Convey("Then the hash holds the exact total", func() {
				So(srv.HGet("visitor-count", "count"), ShouldEqual, "40")
			})
		})

		Convey("When the server is down", func() {
			srv.Close()
			_, err := store.Add(ctx, "visitor-count", 1)
			So(err, ShouldNotBeNil)
		})
	})
}
