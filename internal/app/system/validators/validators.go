// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/pesantrenhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the collections (if missing) and attaches JSON-Schema
// validators. Deployments without collMod validator support are logged and
// skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	for _, coll := range models.AllCollections {
		ensure(coll, Schema(coll))
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers ---------------------- */

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ensureCollection idempotently makes sure name exists. created is true only
// when this call created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	if exists, listErr := collectionExists(ctx, db, name); listErr == nil && exists {
		return false, nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func commandCode(err error) (int32, string, bool) {
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return ce.Code, strings.ToLower(ce.Message), true
	}
	return 0, "", false
}

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	if code, _, ok := commandCode(err); ok && code == 48 {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	if code, _, ok := commandCode(err); ok && code == 59 {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	if code, _, ok := commandCode(err); ok && code == 115 {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var (
	nonEmpty = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	slugType = bson.M{"bsonType": "string", "minLength": 1, "pattern": "^[a-z0-9]+(?:-[a-z0-9]+)*$"}
	str      = bson.M{"bsonType": "string"}
	boolean  = bson.M{"bsonType": "bool"}
	date     = bson.M{"bsonType": "date"}
	optDate  = bson.M{"bsonType": bson.A{"date", "null"}}
	number   = bson.M{"bsonType": "number", "minimum": 0}
	strArray = bson.M{"bsonType": bson.A{"array", "null"}, "items": bson.M{"bsonType": "string"}}
)

func enum(vals []string) bson.M {
	a := make(bson.A, 0, len(vals))
	for _, v := range vals {
		a = append(a, v)
	}
	return bson.M{"enum": a}
}

func object(required []string, props bson.M) bson.M {
	req := make(bson.A, 0, len(required))
	for _, r := range required {
		req = append(req, r)
	}
	props["created_at"] = date
	props["updated_at"] = date
	return bson.M{"$jsonSchema": bson.M{
		"bsonType":   "object",
		"required":   req,
		"properties": props,
	}}
}

// Schema returns the validator for a collection. It panics on an unknown
// collection name.
func Schema(coll string) bson.M {
	switch coll {
	case models.CollNews:
		return object([]string{"title", "slug", "content", "status"}, bson.M{
			"title":        nonEmpty,
			"slug":         slugType,
			"content":      nonEmpty,
			"status":       enum(models.NewsStatuses),
			"published_at": optDate,
			"views":        number,
			"priority":     bson.M{"bsonType": "number"},
			"featured":     boolean,
			"tags":         strArray,
		})
	case models.CollBlogs:
		return object([]string{"title", "slug", "content", "status", "author"}, bson.M{
			"title":   nonEmpty,
			"slug":    slugType,
			"content": nonEmpty,
			"status":  enum(models.BlogStatuses),
			"author": bson.M{
				"bsonType":   "object",
				"required":   bson.A{"name"},
				"properties": bson.M{"name": nonEmpty, "avatar": str},
			},
			"read_time":    bson.M{"bsonType": "number", "minimum": 1},
			"views":        number,
			"published_at": optDate,
			"tags":         strArray,
		})
	case models.CollEvents:
		return object([]string{"title", "slug", "date", "location", "status"}, bson.M{
			"title":             nonEmpty,
			"slug":              slugType,
			"date":              date,
			"end_date":          optDate,
			"location":          nonEmpty,
			"capacity":          number,
			"registered":        number,
			"registration_open": boolean,
			"price":             number,
			"status":            enum(models.EventStatuses),
			"featured":          boolean,
		})
	case models.CollGallery:
		return object([]string{"title", "slug", "type", "status"}, bson.M{
			"title":  nonEmpty,
			"slug":   slugType,
			"type":   enum(models.GalleryTypes),
			"status": enum(models.GalleryStatuses),
			"items": bson.M{
				"bsonType": bson.A{"array", "null"},
				"items": bson.M{
					"bsonType": "object",
					"required": bson.A{"url", "type"},
					"properties": bson.M{
						"url":   nonEmpty,
						"type":  enum([]string{models.GalleryImage, models.GalleryVideo}),
						"order": bson.M{"bsonType": "number"},
					},
				},
			},
			"featured":   boolean,
			"view_count": number,
			"tags":       strArray,
		})
	case models.CollTestimonials:
		return object([]string{"name", "content", "rating", "status", "source"}, bson.M{
			"name":        nonEmpty,
			"content":     nonEmpty,
			"rating":      bson.M{"bsonType": "number", "minimum": 1, "maximum": 5},
			"status":      enum(models.TestimonialStatuses),
			"source":      enum(models.TestimonialSources),
			"featured":    boolean,
			"approved_at": optDate,
		})
	case models.CollDonations:
		return object([]string{"donor_name", "amount", "payment_status", "receipt_number"}, bson.M{
			"donor_name":     nonEmpty,
			"amount":         bson.M{"bsonType": "number", "minimum": 0, "exclusiveMinimum": true},
			"currency":       str,
			"campaign":       str,
			"payment_status": enum(models.PaymentStatuses),
			"payment_date":   optDate,
			"receipt_number": nonEmpty,
			"is_anonymous":   boolean,
			"reconciliation": enum([]string{models.ReconciliationOrphaned}),
		})
	case models.CollCampaigns:
		return object([]string{"title", "slug", "goal", "collected", "status"}, bson.M{
			"title":       nonEmpty,
			"slug":        slugType,
			"goal":        number,
			"collected":   number,
			"progress":    bson.M{"bsonType": "number", "minimum": 0, "maximum": 100},
			"donor_count": number,
			"status":      enum(models.CampaignStatuses),
			"start_date":  optDate,
			"end_date":    optDate,
		})
	case models.CollContacts:
		return object([]string{"name", "email", "subject", "message", "status", "priority"}, bson.M{
			"name":         nonEmpty,
			"email":        nonEmpty,
			"subject":      nonEmpty,
			"message":      nonEmpty,
			"status":       enum(models.MessageStatuses),
			"priority":     enum(models.MessagePriorities),
			"responded_at": optDate,
		})
	case models.CollAdminUsers:
		return object([]string{"email", "password_hash", "name", "role"}, bson.M{
			"email":         nonEmpty,
			"password_hash": nonEmpty,
			"name":          nonEmpty,
			"role":          enum(models.AdminRoles),
			"last_login_at": optDate,
		})
	}
	panic("validators: no schema for collection " + coll)
}
