// Package apperr defines the error taxonomy shared by stores and handlers:
// client input, store validation, not found, conflict, and everything else.
package apperr

import (
	"errors"
	"strings"

	"github.com/dalemusser/pesantrenhub/internal/app/system/inputval"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalid      = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

// codeDocumentValidationFailure is returned by MongoDB when a write violates a
// collection's $jsonSchema validator.
const codeDocumentValidationFailure = 121

// Error carries a client-facing message and optional per-field details.
// Kind is one of the sentinels above and is what errors.Is matches.
type Error struct {
	Kind    error
	Message string
	Fields  []inputval.FieldError
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

// NotFound returns an ErrNotFound with msg.
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

// Conflict returns an ErrConflict with msg.
func Conflict(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

// Invalid returns an ErrInvalid for a single field. An empty field makes it
// a request-level error with no field detail.
func Invalid(field, msg string) error {
	e := &Error{Kind: ErrInvalid, Message: msg}
	if field != "" {
		e.Fields = []inputval.FieldError{{Field: field, Message: msg}}
	}
	return e
}

// FromResult converts a failed validation result into an ErrInvalid error.
// It returns nil when res has no errors.
func FromResult(res *inputval.Result) error {
	if !res.HasErrors() {
		return nil
	}
	return &Error{Kind: ErrInvalid, Message: res.First(), Fields: res.Errors}
}

// FromMongo maps driver errors onto the taxonomy. conflictMsg is used for
// duplicate-key failures. Unrecognized errors are returned unchanged.
func FromMongo(err error, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return &Error{Kind: ErrNotFound, Message: "not found"}
	case wafflemongo.IsDup(err):
		return Conflict(conflictMsg)
	}

	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == codeDocumentValidationFailure {
				fields := schemaFields(e.Details)
				return &Error{Kind: ErrInvalid, Message: "Document failed validation.", Fields: fields}
			}
		}
	}
	return err
}

// schemaFields pulls property names out of a $jsonSchema failure report.
func schemaFields(details bson.Raw) []inputval.FieldError {
	if len(details) == 0 {
		return nil
	}
	var doc struct {
		SchemaRulesNotSatisfied []struct {
			OperatorName           string   `bson:"operatorName"`
			MissingProperties      []string `bson:"missingProperties"`
			PropertiesNotSatisfied []struct {
				PropertyName string `bson:"propertyName"`
			} `bson:"propertiesNotSatisfied"`
		} `bson:"schemaRulesNotSatisfied"`
	}
	if err := bson.Unmarshal(details, &doc); err != nil {
		return nil
	}
	var out []inputval.FieldError
	for _, rule := range doc.SchemaRulesNotSatisfied {
		for _, p := range rule.MissingProperties {
			out = append(out, inputval.FieldError{Field: p, Message: p + " is required."})
		}
		for _, p := range rule.PropertiesNotSatisfied {
			out = append(out, inputval.FieldError{Field: p.PropertyName, Message: p.PropertyName + " is invalid."})
		}
	}
	return out
}

// Message returns the client-facing message of err, or fallback.
func Message(err error, fallback string) string {
	var ae *Error
	if errors.As(err, &ae) && strings.TrimSpace(ae.Message) != "" {
		return ae.Message
	}
	return fallback
}
