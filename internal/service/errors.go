package service

import "errors"

var (
	// ErrPermissionDenied indicates the signed-in role may not perform the action.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrReadOnly indicates an edit was attempted on a historical memo version.
	ErrReadOnly = errors.New("historical versions are read-only")

	// ErrNotEditing indicates a draft change outside edit mode.
	ErrNotEditing = errors.New("memo is not being edited")

	// ErrEmptyComment indicates a blank comment was submitted.
	ErrEmptyComment = errors.New("comment must not be empty")

	// ErrNoSession indicates no user is signed in.
	ErrNoSession = errors.New("not signed in")

	// ErrDealNotLoaded indicates an action on a deal that has not been loaded.
	ErrDealNotLoaded = errors.New("deal not loaded")

	// ErrUnknownVersion indicates a memo version outside the loaded history.
	ErrUnknownVersion = errors.New("unknown memo version")
)
