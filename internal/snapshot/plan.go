package snapshot

import (
	"context"
	"fmt"

	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/vicsnap/internal/chargen"
	"github.com/retroenv/vicsnap/internal/vic"
)

// Reader reads a block of device memory as seen by the CPU.
type Reader interface {
	ReadBytes(ctx context.Context, address uint16, length int) ([]byte, error)
}

// RegionKind identifies a memory region used by the renderer.
type RegionKind int

// Memory regions in the order they are read.
const (
	ColorMap RegionKind = iota
	ScreenMap
	CharData
	Bitmap
)

func (k RegionKind) String() string {
	switch k {
	case ColorMap:
		return "color map"
	case ScreenMap:
		return "screen map"
	case CharData:
		return "character data"
	case Bitmap:
		return "bitmap"
	default:
		return fmt.Sprintf("region %d", int(k))
	}
}

// Region is a single memory read of a plan.
type Region struct {
	Kind    RegionKind
	Address uint16
	Length  int
}

// Plan lists the memory reads needed to render one or more modes of a
// decoded register state.
type Plan struct {
	regions    []Region
	charSource CharSource
	charset    chargen.Charset
}

// NewPlan returns the plan for rendering the mode of the state.
func NewPlan(st vic.State) Plan {
	return NewPlanForModes(st, st.Mode())
}

// NewPlanForModes returns the union of the plans for rendering the state in
// each of the given modes. Character data is never read when the character
// ROM is visible to the chip, the built-in ROM copy is used instead.
func NewPlanForModes(st vic.State, modes ...vic.Mode) Plan {
	p := Plan{}
	kinds := set.New[RegionKind]()
	kinds.Add(ColorMap)
	kinds.Add(ScreenMap)
	needChars := false
	for _, m := range modes {
		if _, bmm, _ := m.Flags(); bmm {
			kinds.Add(Bitmap)
		} else {
			needChars = true
		}
	}

	if needChars {
		if charset, ok := UsesROM(st); ok {
			p.charSource = CharSourceROM
			p.charset = charset
		} else {
			p.charSource = CharSourceRAM
			kinds.Add(CharData)
		}
	}

	for _, kind := range []RegionKind{ColorMap, ScreenMap, CharData, Bitmap} {
		if !kinds.Contains(kind) {
			continue
		}
		p.regions = append(p.regions, regionFor(st, kind))
	}
	return p
}

// UsesROM returns whether the chip sees the character ROM at the character
// data offset of the state, and which ROM set it sees. The ROM is mapped at
// offsets $1000 and $1800 of VIC banks 0 and 2.
func UsesROM(st vic.State) (chargen.Charset, bool) {
	if st.Bank != 0x0000 && st.Bank != 0x8000 {
		return 0, false
	}
	return chargen.ForOffset(st.CharOffset)
}

// Regions returns the memory reads of the plan in issue order.
func (p Plan) Regions() []Region {
	regions := make([]Region, len(p.regions))
	copy(regions, p.regions)
	return regions
}

// CharSource returns where the character data of the plan comes from.
func (p Plan) CharSource() CharSource {
	return p.charSource
}

// Fetch executes the plan against the reader and returns the snapshot.
// Reader errors are returned unchanged apart from added context.
func Fetch(ctx context.Context, r Reader, p Plan) (*Snapshot, error) {
	regions := make(map[RegionKind][]byte, len(p.regions))
	for _, region := range p.regions {
		data, err := r.ReadBytes(ctx, region.Address, region.Length)
		if err != nil {
			return nil, fmt.Errorf("reading %s at $%04X: %w", region.Kind, region.Address, err)
		}
		regions[region.Kind] = data
	}

	chars := regions[CharData]
	if p.charSource == CharSourceROM {
		rom := chargen.ROM(p.charset)
		chars = rom[:]
	}

	return New(regions[ScreenMap], regions[ColorMap], regions[Bitmap], chars, p.charSource)
}

func regionFor(st vic.State, kind RegionKind) Region {
	switch kind {
	case ColorMap:
		return Region{Kind: kind, Address: vic.ColorMapBase, Length: vic.ColorMapSize}
	case ScreenMap:
		return Region{Kind: kind, Address: st.ScreenAddress, Length: vic.ScreenMapSize}
	case CharData:
		return Region{Kind: kind, Address: st.CharAddress, Length: vic.CharDataSize}
	default:
		return Region{Kind: kind, Address: st.BitmapAddress, Length: vic.BitmapDataSize}
	}
}
