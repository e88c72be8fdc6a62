package catalog

import "errors"

// Catalog domain errors
var (
	ErrColorwayNotFound      = errors.New("catalog: colorway not found")
	ErrColorwayNameRequired  = errors.New("catalog: colorway name is required")
	ErrColorwayInvalidPerPan = errors.New("catalog: colorway per_pan must be at least 1")
	ErrColorwayInvalidStatus = errors.New("catalog: invalid colorway status")

	ErrBaseNotFound           = errors.New("catalog: base not found")
	ErrBaseDescriptorRequired = errors.New("catalog: base descriptor is required")
	ErrBaseInvalidPrice       = errors.New("catalog: base retail price cannot be negative")

	ErrInventoryNotFound         = errors.New("catalog: inventory not found")
	ErrInventoryInvalidColorway  = errors.New("catalog: inventory requires a colorway ID")
	ErrInventoryInvalidBase      = errors.New("catalog: inventory requires a base ID")
	ErrInventoryNegativeQuantity = errors.New("catalog: inventory quantity cannot be negative")

	ErrCollectionNotFound     = errors.New("catalog: collection not found")
	ErrCollectionNameRequired = errors.New("catalog: collection name is required")
)
