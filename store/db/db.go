// Package db provides the catalog driver factory.
package db

import (
	"github.com/pkg/errors"

	"github.com/yyvop9/modify-final-project/internal/profile"
	"github.com/yyvop9/modify-final-project/store"
	"github.com/yyvop9/modify-final-project/store/db/postgres"
)

// NewDBDriver creates a new DB driver based on profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	switch profile.Driver {
	case "", "postgres":
		return postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver: %s", profile.Driver)
	}
}
