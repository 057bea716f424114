// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Reconciliation is idempotent: an index with
the same key pattern and uniqueness is reused (renamed if needed), one whose
uniqueness differs is dropped and recreated. Problems are aggregated so a
single run reports every failing collection.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	sets := Specs()
	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	sort.Strings(names)

	var problems []string
	for _, name := range names {
		if err := ensureIndexSet(ctx, db.Collection(name), sets[name]); err != nil {
			problems = append(problems, name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func idx(name string, unique bool, keys ...bson.E) mongo.IndexModel {
	opts := options.Index().SetName(name)
	if unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{Keys: bson.D(keys), Options: opts}
}

func asc(field string) bson.E  { return bson.E{Key: field, Value: 1} }
func desc(field string) bson.E { return bson.E{Key: field, Value: -1} }

// Specs returns the desired index set per collection.
func Specs() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		models.CollNews: {
			idx("uniq_news_slug", true, asc("slug")),
			// public list: published, newest first
			idx("idx_news_status_publishedat", false, asc("status"), desc("published_at")),
			idx("idx_news_createdat", false, desc("created_at")),
			idx("idx_news_featured_priority", false, asc("featured"), desc("priority")),
			idx("idx_news_category", false, asc("category")),
			idx("idx_news_titleci", false, asc("title_ci"), asc("_id")),
		},
		models.CollBlogs: {
			idx("uniq_blogs_slug", true, asc("slug")),
			idx("idx_blogs_status_publishedat", false, asc("status"), desc("published_at")),
			idx("idx_blogs_createdat", false, desc("created_at")),
			idx("idx_blogs_category", false, asc("category")),
			idx("idx_blogs_tags", false, asc("tags")),
		},
		models.CollEvents: {
			idx("uniq_events_slug", true, asc("slug")),
			// upcoming events: published and date >= now
			idx("idx_events_status_date", false, asc("status"), asc("date")),
			idx("idx_events_createdat", false, desc("created_at")),
			idx("idx_events_category", false, asc("category")),
		},
		models.CollGallery: {
			idx("uniq_gallery_slug", true, asc("slug")),
			idx("idx_gallery_status_featured_createdat", false, asc("status"), desc("featured"), desc("created_at")),
			idx("idx_gallery_type", false, asc("type")),
			idx("idx_gallery_category", false, asc("category")),
		},
		models.CollTestimonials: {
			idx("idx_testimonials_status_featured_createdat", false, asc("status"), desc("featured"), desc("created_at")),
			idx("idx_testimonials_category", false, asc("category")),
		},
		models.CollDonations: {
			idx("uniq_donations_receipt", true, asc("receipt_number")),
			idx("idx_donations_campaign_status", false, asc("campaign"), asc("payment_status")),
			idx("idx_donations_status_createdat", false, asc("payment_status"), desc("created_at")),
			idx("idx_donations_donornameci", false, asc("donor_name_ci")),
			// sparse in practice: only orphaned rows carry the field
			idx("idx_donations_reconciliation", false, asc("reconciliation")),
		},
		models.CollCampaigns: {
			idx("uniq_campaigns_slug", true, asc("slug")),
			idx("idx_campaigns_status_createdat", false, asc("status"), desc("created_at")),
		},
		models.CollContacts: {
			idx("idx_contacts_status_createdat", false, asc("status"), desc("created_at")),
			idx("idx_contacts_priority", false, asc("priority")),
		},
		models.CollAdminUsers: {
			idx("uniq_admin_users_email", true, asc("email")),
		},
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile one collection                                                   */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var ix existingIndex
		if err := cur.Decode(&ix); err != nil {
			zap.L().Warn("failed to decode existing index", zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		out[keySig(ix.Key)] = ix
	}
	return out, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, want []mongo.IndexModel) error {
	existing, err := listIndexes(ctx, coll)
	if err != nil {
		// NamespaceNotFound on a collection that does not exist yet.
		zap.L().Debug("list indexes failed", zap.String("collection", coll.Name()), zap.Error(err))
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range want {
		name := *m.Options.Name
		unique := isUnique(m.Options.Unique)
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique))

		if ex, ok := existing[sig]; ok {
			if isUnique(ex.Unique) == unique && ex.Name == name {
				log.Debug("reusing existing index")
				continue
			}
			// Name or uniqueness differs: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				log.Warn("drop existing index failed", zap.String("existing", ex.Name), zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s: drop %s failed: %v", name, ex.Name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if unique && isDuplicateKeyErr(err) {
				errs = append(errs, fmt.Sprintf("%s: cannot create unique index (duplicates present on %s)", name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
			log.Warn("index ensure failed", zap.Error(err))
			continue
		}
		log.Info("index ensured", zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
