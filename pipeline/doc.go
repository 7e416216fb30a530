// Package pipeline generates render-pipeline variants combinatorially.
//
// A pipeline variant is identified by one value per characteristic: an
// independently varying axis such as the shader permutation, the blend
// mode, or the vertex layout. The factory enumerates the Cartesian
// product of all registered characteristics, creating one pipeline per
// combination, and reports each completed pipeline through a watcher so
// rendering can start before enumeration finishes.
//
// Enumeration runs as a cooperative task on a [task.Runner]: the factory
// produces exactly one pipeline per scheduling turn, then yields. Its
// position in the product is held in an explicit [Odometer], so a
// factory never blocks a worker between cells.
//
// Created pipelines are cached by descriptor hash. A [Broker] hands the
// factory its cache before enumeration and persists it afterwards, keyed
// by device and factory identity.
package pipeline
