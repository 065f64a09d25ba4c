// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/kitandahub/kitanda/internal/app/system/media"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Media is nil when no object store is configured; image uploads are then
// disabled but everything else runs.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Media         *media.Store
}
