// Package mongostore holds the CRUD plumbing shared by the entity stores:
// typed finds, id-or-slug lookup, guarded replace, and error mapping onto
// apperr.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/pesantrenhub/internal/app/system/apperr"
	"github.com/dalemusser/pesantrenhub/internal/app/system/paging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is a typed view of one Mongo collection.
type Collection[T any] struct {
	C *mongo.Collection

	notFound string
	conflict string
}

// New returns a typed collection. entity names the document in client
// messages ("News item", "Campaign").
func New[T any](db *mongo.Database, name, entity string) *Collection[T] {
	return &Collection[T]{
		C:        db.Collection(name),
		notFound: entity + " not found.",
		conflict: "A " + lowerFirst(entity) + " with this slug already exists.",
	}
}

// WithConflictMessage overrides the duplicate-key message.
func (c *Collection[T]) WithConflictMessage(msg string) *Collection[T] {
	c.conflict = msg
	return c
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}

// Err maps a driver error for this collection onto apperr.
func (c *Collection[T]) Err(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound(c.notFound)
	}
	return apperr.FromMongo(err, c.conflict)
}

// NotFound returns this collection's not-found error.
func (c *Collection[T]) NotFound() error { return apperr.NotFound(c.notFound) }

// Insert stores doc as is; callers assign the id.
func (c *Collection[T]) Insert(ctx context.Context, doc T) error {
	if _, err := c.C.InsertOne(ctx, doc); err != nil {
		return c.Err(err)
	}
	return nil
}

// FindOne returns the first document matching filter.
func (c *Collection[T]) FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) (T, error) {
	var out T
	if err := c.C.FindOne(ctx, filter, opts...).Decode(&out); err != nil {
		var zero T
		return zero, c.Err(err)
	}
	return out, nil
}

// GetByID returns the document with id.
func (c *Collection[T]) GetByID(ctx context.Context, id primitive.ObjectID) (T, error) {
	return c.FindOne(ctx, bson.M{"_id": id})
}

// KeyFilter matches key as an ObjectID hex or as a slug. extra conditions
// are merged in.
func KeyFilter(key string, extra bson.M) bson.M {
	f := bson.M{"slug": key}
	if oid, err := primitive.ObjectIDFromHex(key); err == nil {
		f = bson.M{"$or": bson.A{bson.M{"_id": oid}, bson.M{"slug": key}}}
	}
	for k, v := range extra {
		f[k] = v
	}
	return f
}

// GetByKey looks a document up by id or slug.
func (c *Collection[T]) GetByKey(ctx context.Context, key string, extra bson.M) (T, error) {
	return c.FindOne(ctx, KeyFilter(key, extra))
}

// Find returns every document matching filter.
func (c *Collection[T]) Find(ctx context.Context, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := c.C.Find(ctx, filter, opts...)
	if err != nil {
		return nil, c.Err(err)
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, c.Err(err)
	}
	return out, nil
}

// Count returns the number of documents matching filter.
func (c *Collection[T]) Count(ctx context.Context, filter any) (int64, error) {
	n, err := c.C.CountDocuments(ctx, filter)
	if err != nil {
		return 0, c.Err(err)
	}
	return n, nil
}

// List returns one page of documents matching filter plus the total count.
func (c *Collection[T]) List(ctx context.Context, filter bson.M, p paging.Params) ([]T, int64, error) {
	total, err := c.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []T{}, 0, nil
	}
	rows, err := c.Find(ctx, filter, p.FindOptions())
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// FindOneAndUpdate applies update to the first document matching filter and
// returns the document as it is after the update.
func (c *Collection[T]) FindOneAndUpdate(ctx context.Context, filter, update any) (T, error) {
	var out T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := c.C.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out); err != nil {
		var zero T
		return zero, c.Err(err)
	}
	return out, nil
}

// UpdateByID applies update to the document with id and returns the result.
// guard adds conditions that must still hold, for fields other writers
// change concurrently. When the document exists but the guard fails,
// UpdateByID returns ErrConflict with guardMsg.
func (c *Collection[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, update any, guard bson.M, guardMsg string) (T, error) {
	filter := bson.M{"_id": id}
	for k, v := range guard {
		filter[k] = v
	}
	out, err := c.FindOneAndUpdate(ctx, filter, update)
	if err == nil || len(guard) == 0 || !errors.Is(err, apperr.ErrNotFound) {
		return out, err
	}
	n, cerr := c.C.CountDocuments(ctx, bson.M{"_id": id})
	if cerr != nil {
		return out, c.Err(cerr)
	}
	if n == 0 {
		return out, err
	}
	return out, apperr.Conflict(guardMsg)
}

// Inc atomically adds one to field on the first document matching filter
// and returns the updated document.
func (c *Collection[T]) Inc(ctx context.Context, filter bson.M, field string) (T, error) {
	return c.FindOneAndUpdate(ctx, filter, bson.M{"$inc": bson.M{field: 1}})
}

// Literal wraps each value of set in $literal so it can be used in an
// aggregation-pipeline update without "$" strings being read as paths.
func Literal(set bson.M) bson.M {
	out := make(bson.M, len(set))
	for k, v := range set {
		out[k] = bson.M{"$literal": v}
	}
	return out
}

// Delete removes the document with id and returns it.
func (c *Collection[T]) Delete(ctx context.Context, id primitive.ObjectID) (T, error) {
	var out T
	if err := c.C.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&out); err != nil {
		var zero T
		return zero, c.Err(err)
	}
	return out, nil
}

// ParseID parses a hex ObjectID, reporting a client error when malformed.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperr.Invalid("id", fmt.Sprintf("%q is not a valid id.", hex))
	}
	return id, nil
}
