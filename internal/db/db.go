package db

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal database error")
)

type DB interface {
	Profiles
	Follows
}
