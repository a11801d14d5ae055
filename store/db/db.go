package db

import (
	"github.com/pkg/errors"

	"github.com/neurosphere-lab/lumi/internal/profile"
	"github.com/neurosphere-lab/lumi/store"
	"github.com/neurosphere-lab/lumi/store/db/postgres"
	"github.com/neurosphere-lab/lumi/store/db/sqlite"
)

// NewDBDriver creates a new DB driver based on the profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unsupported database driver: %s", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
