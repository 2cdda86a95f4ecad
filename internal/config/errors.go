package config

import "github.com/kepler-fts/facetrackd/internal/ftserrors"

func fieldErr(field string) error {
	return ftserrors.InvalidField(field)
}
