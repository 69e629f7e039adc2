package pos

import "fmt"

// ChunkPos is the coordinate of one 16x16 column of blocks.
type ChunkPos struct {
	X, Z int32
}

// NewChunkPos returns the chunk at x, z.
func NewChunkPos(x, z int32) ChunkPos {
	return ChunkPos{X: x, Z: z}
}

// ToLong packs the position into a single int64.
func (c ChunkPos) ToLong() int64 {
	return int64(uint64(uint32(c.X)) | uint64(uint32(c.Z))<<32)
}

// ChunkPosFromLong unpacks a value produced by ToLong.
func ChunkPosFromLong(packed int64) ChunkPos {
	return ChunkPos{
		X: int32(packed),
		Z: int32(packed >> 32),
	}
}

// StartBlock returns the lowest-coordinate block of the chunk at height y.
func (c ChunkPos) StartBlock(y int32) BlockPos {
	return BlockPos{X: c.X << 4, Y: y, Z: c.Z << 4}
}

// Contains reports whether the block lies in this chunk.
func (c ChunkPos) Contains(p BlockPos) bool {
	return p.Chunk() == c
}

func (c ChunkPos) String() string {
	return fmt.Sprintf("[%d, %d]", c.X, c.Z)
}
