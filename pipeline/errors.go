package pipeline

import "errors"

// Factory and flat-description errors.
var (
	// ErrNilDevice is returned when creating a factory without a device.
	ErrNilDevice = errors.New("pipeline: device is nil")

	// ErrNoCharacteristics is returned by Generate on a factory with no
	// registered characteristics.
	ErrNoCharacteristics = errors.New("pipeline: factory has no characteristics")

	// ErrEmptyRange is returned by Add for a characteristic whose range
	// contains no values.
	ErrEmptyRange = errors.New("pipeline: characteristic range is empty")

	// ErrAlreadyGenerated is returned by Add and Generate once Generate
	// has been called.
	ErrAlreadyGenerated = errors.New("pipeline: factory already generated")

	// ErrEmptyContribution is returned when a registered contribution
	// slice is still empty at merge time.
	ErrEmptyContribution = errors.New("pipeline: registered contribution is empty")

	// ErrNoVertexStage is returned by Descriptor when no characteristic
	// contributed a vertex stage.
	ErrNoVertexStage = errors.New("pipeline: no vertex stage contributed")

	// ErrDuplicateStage is returned by Descriptor when two contributions
	// carry the same shader stage.
	ErrDuplicateStage = errors.New("pipeline: duplicate shader stage contributed")

	// ErrNilShader is returned when a stage contribution has no module.
	ErrNilShader = errors.New("pipeline: shader module is nil")
)

// Cache blob errors.
var (
	// ErrCacheCorrupt is returned by Cache.Load for a malformed blob.
	ErrCacheCorrupt = errors.New("pipeline: cache blob corrupt")

	// ErrCacheVersion is returned by Cache.Load for a blob written by an
	// incompatible version.
	ErrCacheVersion = errors.New("pipeline: cache blob version mismatch")

	// ErrBlobNotFound is returned by a Store when no blob exists under
	// the requested name.
	ErrBlobNotFound = errors.New("pipeline: cache blob not found")
)

// Odometer errors.
var (
	// ErrBadState is returned by Odometer.Restore for a state that does
	// not fit the odometer's ranges.
	ErrBadState = errors.New("pipeline: odometer state out of range")
)
