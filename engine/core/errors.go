package core

import (
	"errors"
)

var (
	ErrNoIdentifiersLeft    = errors.New("no identifiers left")
	ErrDuplicateIdentifier  = errors.New("identifier already in use")
	ErrIdentifierOutOfRange = errors.New("identifier out of range")
	ErrInvalidHandle        = errors.New("invalid handle")
	ErrForeignHandle        = errors.New("handle was issued by another factory")
	ErrIdentityConflict     = errors.New("parameters already registered under another identifier")
	ErrMalformedAsset       = errors.New("malformed asset data")
	ErrAssetNotFound        = errors.New("asset not found")
	ErrShaderUnavailable    = errors.New("no shader available")
	ErrUnknown              = errors.New("unknown")
)
