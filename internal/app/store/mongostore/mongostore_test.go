package mongostore_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/pesantrenhub/internal/app/store/mongostore"
	"github.com/dalemusser/pesantrenhub/internal/app/system/apperr"
	"github.com/dalemusser/pesantrenhub/internal/app/system/paging"
	"github.com/dalemusser/pesantrenhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type widget struct {
	ID    primitive.ObjectID `bson:"_id"`
	Slug  string             `bson:"slug"`
	Count int                `bson:"count"`
}

func TestKeyFilter(t *testing.T) {
	f := mongostore.KeyFilter("hello-world", bson.M{"status": "published"})
	if f["slug"] != "hello-world" || f["status"] != "published" {
		t.Errorf("slug filter: got %v", f)
	}

	id := primitive.NewObjectID()
	f = mongostore.KeyFilter(id.Hex(), nil)
	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("hex key should match id or slug, got %v", f)
	}
	if or[0].(bson.M)["_id"] != id {
		t.Errorf("first branch: got %v", or[0])
	}
}

func TestLiteral(t *testing.T) {
	got := mongostore.Literal(bson.M{"title": "$100 goal"})
	want := bson.M{"$literal": "$100 goal"}
	if v, ok := got["title"].(bson.M); !ok || v["$literal"] != want["$literal"] {
		t.Errorf("Literal: got %v", got)
	}
}

func TestParseID(t *testing.T) {
	if _, err := mongostore.ParseID("nope"); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("ParseID(nope): got %v, want ErrInvalid", err)
	}
	id := primitive.NewObjectID()
	got, err := mongostore.ParseID(id.Hex())
	if err != nil || got != id {
		t.Errorf("ParseID: got %v, %v", got, err)
	}
}

func TestCollection_CRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := mongostore.New[widget](db, "widgets", "Widget")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	w := widget{ID: primitive.NewObjectID(), Slug: "w-one"}
	if err := c.Insert(ctx, w); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := c.GetByKey(ctx, "w-one", nil)
	if err != nil || got.ID != w.ID {
		t.Fatalf("GetByKey(slug): got %v, %v", got, err)
	}
	got, err = c.GetByKey(ctx, w.ID.Hex(), nil)
	if err != nil || got.Slug != "w-one" {
		t.Fatalf("GetByKey(id): got %v, %v", got, err)
	}

	_, err = c.GetByKey(ctx, "missing", nil)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing: got %v, want ErrNotFound", err)
	}
	if apperr.Message(err, "") != "Widget not found." {
		t.Errorf("message: got %q", apperr.Message(err, ""))
	}

	inc, err := c.Inc(ctx, bson.M{"_id": w.ID}, "count")
	if err != nil || inc.Count != 1 {
		t.Fatalf("Inc: got %v, %v", inc, err)
	}

	rows, total, err := c.List(ctx, bson.M{}, paging.Params{Page: 1, Limit: 10, Sort: bson.D{{Key: "_id", Value: 1}}})
	if err != nil || total != 1 || len(rows) != 1 {
		t.Fatalf("List: rows=%d total=%d err=%v", len(rows), total, err)
	}

	del, err := c.Delete(ctx, w.ID)
	if err != nil || del.Slug != "w-one" {
		t.Fatalf("Delete: got %v, %v", del, err)
	}
	if _, err := c.Delete(ctx, w.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second Delete: got %v, want ErrNotFound", err)
	}
}

func TestCollection_UpdateByID_Guard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := mongostore.New[widget](db, "widgets", "Widget")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	w := widget{ID: primitive.NewObjectID(), Slug: "guarded", Count: 5}
	if err := c.Insert(ctx, w); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	_, err := c.UpdateByID(ctx, w.ID, bson.M{"$set": bson.M{"slug": "moved"}}, bson.M{"count": 4}, "count changed")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("failed guard: got %v, want ErrConflict", err)
	}

	got, err := c.UpdateByID(ctx, w.ID, bson.M{"$set": bson.M{"slug": "moved"}}, bson.M{"count": 5}, "count changed")
	if err != nil || got.Slug != "moved" {
		t.Fatalf("held guard: got %v, %v", got, err)
	}

	_, err = c.UpdateByID(ctx, primitive.NewObjectID(), bson.M{"$set": bson.M{"slug": "x"}}, bson.M{"count": 5}, "count changed")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing doc: got %v, want ErrNotFound", err)
	}
}

func TestCollection_FindOneAndUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := mongostore.New[widget](db, "widgets", "Widget")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	w := widget{ID: primitive.NewObjectID(), Slug: "counter", Count: 2}
	if err := c.Insert(ctx, w); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := c.FindOneAndUpdate(ctx, bson.M{"slug": "counter"}, bson.M{"$inc": bson.M{"count": 3}})
	if err != nil {
		t.Fatalf("FindOneAndUpdate: %v", err)
	}
	if got.ID != w.ID || got.Count != 5 {
		t.Errorf("should return the updated document, got %+v", got)
	}

	got, err = c.Inc(ctx, bson.M{"_id": w.ID}, "count")
	if err != nil || got.Count != 6 {
		t.Errorf("Inc: got %+v, %v", got, err)
	}

	_, err = c.FindOneAndUpdate(ctx, bson.M{"slug": "missing"}, bson.M{"$inc": bson.M{"count": 1}})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing: got %v, want ErrNotFound", err)
	}
}
