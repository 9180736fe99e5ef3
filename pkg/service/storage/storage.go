// Package storage provides blob storage backends for evidence files.
package storage

import "github.com/m-mizutani/goerr/v2"

// ErrObjectNotFound is returned when an object does not exist in the storage
var ErrObjectNotFound = goerr.New("object not found")
