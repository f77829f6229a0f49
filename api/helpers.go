package api

import (
	"errors"

	"github.com/xraph/forge"

	"github.com/xraph/rowguard"
	"github.com/xraph/rowguard/record"
)

// mapError maps domain errors to Forge HTTP errors. Access denials on the
// data path surface as 403; rows hidden by authorization already arrive
// here as record.ErrNotFound and map to 404 like genuinely absent rows.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, record.ErrNotFound) {
		return forge.NotFound(err.Error())
	}
	if errors.Is(err, rowguard.ErrAccessDenied) {
		return forge.Forbidden(err.Error())
	}
	return err
}

func defaultLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}
