package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dalemusser/pesantrenhub/internal/app/system/inputval"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"not found", NotFound("campaign not found"), ErrNotFound},
		{"conflict", Conflict("slug exists"), ErrConflict},
		{"invalid", Invalid("amount", "Amount is required."), ErrInvalid},
		{"wrapped", fmt.Errorf("create donation: %w", NotFound("campaign not found")), ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.kind)
			}
		})
	}
}

func TestFromResult(t *testing.T) {
	if FromResult(&inputval.Result{}) != nil {
		t.Error("expected nil for empty result")
	}
	res := &inputval.Result{}
	res.Add("title", "Title is required.")
	err := FromResult(res)
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if len(ae.Fields) != 1 || ae.Fields[0].Field != "title" {
		t.Errorf("Fields = %v", ae.Fields)
	}
	if ae.Message != "Title is required." {
		t.Errorf("Message = %q", ae.Message)
	}
}

func TestFromMongo(t *testing.T) {
	if FromMongo(nil, "") != nil {
		t.Error("nil should stay nil")
	}
	if !errors.Is(FromMongo(mongo.ErrNoDocuments, ""), ErrNotFound) {
		t.Error("ErrNoDocuments should map to ErrNotFound")
	}

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}
	if got := FromMongo(dup, "slug already exists"); !errors.Is(got, ErrConflict) || got.Error() != "slug already exists" {
		t.Errorf("duplicate key: got %v", got)
	}

	details, _ := bson.Marshal(bson.M{
		"schemaRulesNotSatisfied": bson.A{
			bson.M{"operatorName": "required", "missingProperties": bson.A{"slug"}},
			bson.M{"operatorName": "properties", "propertiesNotSatisfied": bson.A{bson.M{"propertyName": "status"}}},
		},
	})
	invalid := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 121, Message: "Document failed validation", Details: details}}}
	got := FromMongo(invalid, "")
	var ae *Error
	if !errors.As(got, &ae) || !errors.Is(got, ErrInvalid) {
		t.Fatalf("validation failure: got %v", got)
	}
	if len(ae.Fields) != 2 || ae.Fields[0].Field != "slug" || ae.Fields[1].Field != "status" {
		t.Errorf("Fields = %+v", ae.Fields)
	}

	other := errors.New("connection reset")
	if FromMongo(other, "") != other {
		t.Error("unknown errors should pass through unchanged")
	}
}
