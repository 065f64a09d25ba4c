// internal/app/system/txn/txn.go
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a multi-document transaction. The session context
// passed to fn must be used for every read and write that belongs to the
// transaction; the driver retries transient commit conflicts internally.
//
// On deployments without transaction support (standalone servers, common in
// local dev), Run degrades to calling fn once without a session and logs a
// warning. The operations lose atomicity but keep working, matching how the
// rest of the app treats optional server capabilities.
func Run(ctx context.Context, client *mongo.Client, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			log.Warn("mongo sessions unsupported; running without transaction", zap.Error(err))
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		log.Warn("mongo transactions unsupported; running without transaction", zap.Error(err))
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions (standalone deployment, or a DocumentDB-style
// server that rejects sessions). Command errors are classified by code;
// anything else falls back to message sniffing because drivers and proxies
// wrap these errors inconsistently.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// 20 IllegalOperation, 51 transaction numbers require a replica set,
		// 263 OperationNotSupportedInTransaction.
		switch cmdErr.Code {
		case 20, 51, 263:
			return true
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") &&
		(strings.Contains(msg, "replica set") ||
			strings.Contains(msg, "session") ||
			strings.Contains(msg, "illegal operation")) {
		return true
	}
	if strings.Contains(msg, "session") && strings.Contains(msg, "not supported") {
		return true
	}
	return false
}
