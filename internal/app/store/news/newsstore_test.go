package newsstore_test

import (
	"errors"
	"testing"
	"time"

	newsstore "github.com/dalemusser/pesantrenhub/internal/app/store/news"
	"github.com/dalemusser/pesantrenhub/internal/app/system/apperr"
	"github.com/dalemusser/pesantrenhub/internal/app/system/indexes"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/dalemusser/pesantrenhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.News{
		Title:   "Wisuda Santri",
		Slug:    "wisuda-santri",
		Content: "<p>Alhamdulillah</p>",
		Status:  models.StatusPublished,
		Views:   99,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.TitleCI != "wisuda santri" {
		t.Errorf("TitleCI: got %q", created.TitleCI)
	}
	if created.Views != 0 {
		t.Errorf("Views: got %d, want 0", created.Views)
	}
	if created.PublishedAt == nil {
		t.Error("expected PublishedAt for a published item")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_DefaultsToDraft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.News{Title: "Draft", Slug: "draft", Content: "x"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Status != models.StatusDraft {
		t.Errorf("Status: got %q, want draft", created.Status)
	}
	if created.PublishedAt != nil {
		t.Error("draft should have no PublishedAt")
	}
}

func TestStore_Create_DuplicateSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := newsstore.New(db)

	n := models.News{Title: "Same", Slug: "same", Content: "x"}
	if _, err := store.Create(ctx, n); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := store.Create(ctx, n)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("second Create: got %v, want ErrConflict", err)
	}
}

func TestStore_Update_KeepsViewsAndStampsPublish(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.News{Title: "Kajian", Slug: "kajian", Content: "x"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := store.Inc(ctx, bson.M{"_id": created.ID}, "views"); err != nil {
		t.Fatalf("Inc: %v", err)
	}

	edit := created
	edit.Title = "Kajian Rutin"
	edit.Status = models.StatusPublished
	updated, err := store.Update(ctx, edit)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Views != 1 {
		t.Errorf("Views: got %d, want 1", updated.Views)
	}
	if updated.TitleCI != "kajian rutin" {
		t.Errorf("TitleCI: got %q", updated.TitleCI)
	}
	if updated.PublishedAt == nil {
		t.Error("expected PublishedAt on first publish")
	}
}

func TestStore_ReadPublished(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pub, _ := store.Create(ctx, models.News{Title: "Pub", Slug: "pub", Content: "x", Status: models.StatusPublished})
	if _, err := store.Create(ctx, models.News{Title: "Hidden", Slug: "hidden", Content: "x"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.ReadPublished(ctx, "pub")
	if err != nil {
		t.Fatalf("ReadPublished(slug): %v", err)
	}
	if got.Views != 1 {
		t.Errorf("Views after one read: got %d, want 1", got.Views)
	}

	got, err = store.ReadPublished(ctx, pub.ID.Hex())
	if err != nil || got.Views != 2 {
		t.Fatalf("ReadPublished(id): views=%d err=%v", got.Views, err)
	}

	if _, err := store.ReadPublished(ctx, "hidden"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("draft read: got %v, want ErrNotFound", err)
	}
}

func TestStore_Recent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, s := range []string{"a", "b", "c"} {
		if _, err := store.Create(ctx, models.News{Title: s, Slug: s, Content: "x"}); err != nil {
			t.Fatalf("Create %s: %v", s, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0].Slug != "c" || got[1].Slug != "b" {
		t.Errorf("Recent: got %v", slugs(got))
	}
}

func slugs(ns []models.News) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Slug
	}
	return out
}
