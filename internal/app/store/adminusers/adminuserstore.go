// internal/app/store/adminusers/adminuserstore.go
package adminuserstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dalemusser/pesantrenhub/internal/app/store/mongostore"
	"github.com/dalemusser/pesantrenhub/internal/app/system/apperr"
	"github.com/dalemusser/pesantrenhub/internal/app/system/authutil"
	"github.com/dalemusser/pesantrenhub/internal/app/system/normalize"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrBadCredentials is returned by Authenticate for an unknown email or a
// wrong password alike.
var ErrBadCredentials = &apperr.Error{Kind: apperr.ErrUnauthorized, Message: "Invalid email or password."}

// dummyHash keeps Authenticate's timing similar for unknown emails.
var dummyHash = sync.OnceValue(func() string {
	h, _ := authutil.HashPassword("pesantrenhub-unknown-account")
	return h
})

type Store struct {
	*mongostore.Collection[models.AdminUser]
}

func New(db *mongo.Database) *Store {
	c := mongostore.New[models.AdminUser](db, models.CollAdminUsers, "Admin user").
		WithConflictMessage("An admin with this email already exists.")
	return &Store{Collection: c}
}

// Create hashes password and inserts the account. Role defaults to admin.
func (s *Store) Create(ctx context.Context, u models.AdminUser, password string) (models.AdminUser, error) {
	if err := authutil.ValidatePassword(password); err != nil {
		return models.AdminUser{}, apperr.Invalid("password", err.Error())
	}
	hash, err := authutil.HashPassword(password)
	if err != nil {
		return models.AdminUser{}, err
	}
	now := time.Now().UTC()

	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.Name = normalize.Name(u.Name)
	if u.Role == "" {
		u.Role = models.RoleAdmin
	}
	u.PasswordHash = hash
	u.CreatedAt = now
	u.UpdatedAt = now

	if err := s.Insert(ctx, u); err != nil {
		return models.AdminUser{}, err
	}
	return u, nil
}

// GetByEmail looks an account up by normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.AdminUser, error) {
	return s.FindOne(ctx, bson.M{"email": normalize.Email(email)})
}

// Authenticate checks the credentials and records the login time.
func (s *Store) Authenticate(ctx context.Context, email, password string) (models.AdminUser, error) {
	u, err := s.GetByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		authutil.CheckPassword(password, dummyHash())
		return models.AdminUser{}, ErrBadCredentials
	}
	if err != nil {
		return models.AdminUser{}, err
	}
	if !authutil.CheckPassword(password, u.PasswordHash) {
		return models.AdminUser{}, ErrBadCredentials
	}

	now := time.Now().UTC()
	if _, err := s.C.UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{"$set": bson.M{"last_login_at": now}}); err != nil {
		return models.AdminUser{}, s.Err(err)
	}
	u.LastLoginAt = &now
	return u, nil
}

// EnsureSeed creates the configured admin when no account has that email.
// It reports whether an account was created.
func (s *Store) EnsureSeed(ctx context.Context, email, password, name string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return false, err
	}
	if name == "" {
		name = "Administrator"
	}
	_, err = s.Create(ctx, models.AdminUser{Email: email, Name: name, Role: models.RoleAdmin}, password)
	if errors.Is(err, apperr.ErrConflict) {
		// Another instance seeded it first.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
