// Package txn runs multi-document writes inside a MongoDB transaction and
// recognizes deployments (standalone servers) that cannot run one.
package txn

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// Server error codes meaning "transactions are not available here".
const (
	codeIllegalOperation          = 20
	codeNoReplicationEnabled      = 51
	codeOperationNotSupportedInTx = 263
)

// Run executes fn inside a transaction on client. The callback may be
// retried by the driver on transient errors, so it must be idempotent
// with respect to anything outside the database.
func Run(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	sess, err := client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	return err
}

// IsNotSupported reports whether err says the server cannot run
// transactions. Callers fall back to sequential writes on true. Only the
// server's error codes are trusted; transient transaction errors carry
// other codes and are returned to the caller.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var se mongo.ServerError
	if !errors.As(err, &se) {
		return false
	}
	return se.HasErrorCode(codeIllegalOperation) ||
		se.HasErrorCode(codeNoReplicationEnabled) ||
		se.HasErrorCode(codeOperationNotSupportedInTx)
}
