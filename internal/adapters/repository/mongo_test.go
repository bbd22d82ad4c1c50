package repository_test

import (
	"context"
	"testing"

	"github.com/okian/sitefn/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("returns the document after $inc", func(mt *mtest.T) {
		Convey("Given a mock deployment returning the updated document", mt.T, func() {
			mt.AddMockResponses(mtest.CreateSuccessResponse(
				bson.E{Key: "value", Value: bson.D{
					{Key: "_id", Value: "visitor-count"},
					{Key: "count", Value: int64(6)},
				}},
			))
			store := repository.NewMongoStore(mt.Coll)

			n, err := store.Add(context.Background(), "visitor-count", 1)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 6)
		})
	})

	mt.Run("creates the record on first use with one atomic upsert", func(mt *mtest.T) {
		Convey("Given an empty collection", mt.T, func() {
			mt.AddMockResponses(mtest.CreateSuccessResponse(
				bson.E{Key: "value", Value: bson.D{
					{Key: "_id", Value: "visitor-count"},
					{Key: "count", Value: int64(1)},
				}},
			))
			store := repository.NewMongoStore(mt.Coll)

			n, err := store.Add(context.Background(), "visitor-count", 1)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)

			Convey("Then a single findAndModify $inc upsert returning the new document is sent", func() {
				started := mt.GetStartedEvent()
				So(started, ShouldNotBeNil)
				So(started.CommandName, ShouldEqual, "findAndModify")

				cmd := started.Command
				So(cmd.Lookup("findAndModify").StringValue(), ShouldEqual, mt.Coll.Name())
				So(cmd.Lookup("query", "_id").StringValue(), ShouldEqual, "visitor-count")
				So(cmd.Lookup("update", "$inc", "count").Int64(), ShouldEqual, 1)
				So(cmd.Lookup("upsert").Boolean(), ShouldBeTrue)
				So(cmd.Lookup("new").Boolean(), ShouldBeTrue)

				_, errSet := cmd.Lookup("update").Document().LookupErr("$set")
				So(errSet, ShouldNotBeNil)
				So(mt.GetStartedEvent(), ShouldBeNil)
			})
		})
	})

	mt.Run("accepts int32 counts", func(mt *mtest.T) {
		Convey("Given a document stored with a 32-bit count", mt.T, func() {
			mt.AddMockResponses(mtest.CreateSuccessResponse(
				bson.E{Key: "value", Value: bson.D{
					{Key: "_id", Value: "visitor-count"},
					{Key: "count", Value: int32(12)},
				}},
			))
			store := repository.NewMongoStore(mt.Coll)

			n, err := store.Add(context.Background(), "visitor-count", 1)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 12)
		})
	})

	mt.Run("reports server errors", func(mt *mtest.T) {
		Convey("Given a server that rejects the command", mt.T, func() {
			mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    13,
				Name:    "Unauthorized",
				Message: "not authorized",
			}))
			store := repository.NewMongoStore(mt.Coll)

			_, err := store.Add(context.Background(), "visitor-count", 1)
			So(err, ShouldNotBeNil)
		})
	})
}
