package pos

import "fmt"

const (
	sizeBitsX = 26
	sizeBitsZ = sizeBitsX
	sizeBitsY = 64 - sizeBitsX - sizeBitsZ

	bitMaskX = 1<<sizeBitsX - 1
	bitMaskY = 1<<sizeBitsY - 1
	bitMaskZ = 1<<sizeBitsZ - 1

	bitShiftZ = sizeBitsY
	bitShiftX = sizeBitsY + sizeBitsZ
)

// Packing bounds for BlockPos components.
const (
	MinHorizontal = -(1 << (sizeBitsX - 1))
	MaxHorizontal = 1<<(sizeBitsX-1) - 1
	MinY          = -(1 << (sizeBitsY - 1))
	MaxY          = 1<<(sizeBitsY-1) - 1
)

// BlockPos is the integer coordinate of one block.
type BlockPos struct {
	X, Y, Z int32
}

// NewBlockPos returns the block at x, y, z.
func NewBlockPos(x, y, z int32) BlockPos {
	return BlockPos{X: x, Y: y, Z: z}
}

// AsLong packs the position into a single int64.
func (p BlockPos) AsLong() int64 {
	var packed uint64
	packed |= (uint64(int64(p.X)) & bitMaskX) << bitShiftX
	packed |= (uint64(int64(p.Y)) & bitMaskY)
	packed |= (uint64(int64(p.Z)) & bitMaskZ) << bitShiftZ
	return int64(packed)
}

// BlockPosFromLong unpacks a value produced by AsLong.
func BlockPosFromLong(packed int64) BlockPos {
	return BlockPos{
		X: int32(packed >> bitShiftX),
		Y: int32(packed << (64 - sizeBitsY) >> (64 - sizeBitsY)),
		Z: int32(packed << (64 - bitShiftX) >> (64 - sizeBitsZ)),
	}
}

// InPackingRange reports whether AsLong preserves every component.
func (p BlockPos) InPackingRange() bool {
	return p.X >= MinHorizontal && p.X <= MaxHorizontal &&
		p.Z >= MinHorizontal && p.Z <= MaxHorizontal &&
		p.Y >= MinY && p.Y <= MaxY
}

// Offset returns the position moved by dx, dy, dz.
func (p BlockPos) Offset(dx, dy, dz int32) BlockPos {
	return BlockPos{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}

// Chunk returns the chunk containing the block.
func (p BlockPos) Chunk() ChunkPos {
	return ChunkPos{X: p.X >> 4, Z: p.Z >> 4}
}

func (p BlockPos) String() string {
	return fmt.Sprintf("BlockPos{x=%d, y=%d, z=%d}", p.X, p.Y, p.Z)
}
