package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrConfiguration signals invalid engine configuration.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrIndexNotReady signals that no semantic index has been built yet.
	ErrIndexNotReady = errors.New("semantic index not ready")
	// ErrIndexBuildInProgress signals a concurrent index rebuild.
	ErrIndexBuildInProgress = errors.New("index build already in progress")
	// ErrStorageUnavailable signals a catalogue or index storage failure.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrEmptyCatalog signals that the catalogue has no indexable items.
	ErrEmptyCatalog = errors.New("catalog is empty")
)
