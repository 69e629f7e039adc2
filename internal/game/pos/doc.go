// Package pos implements the block and chunk coordinates a world stores, and
// the fixed bit layouts that pack them into a single int64 column.
//
// # Block positions
//
// A BlockPos packs into 64 bits as X (26 bits) | Z (26 bits) | Y (12 bits),
// most significant first, each component two's complement. X and Z range over
// [-33554432, 33554431]; Y over [-2048, 2047]. Components outside those
// ranges are truncated by AsLong, so they do not round-trip.
//
// # Chunk positions
//
// A ChunkPos packs X into the low 32 bits and Z into the high 32 bits.
package pos
