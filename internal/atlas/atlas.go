// Package atlas loads the tile sheets icons are drawn from.
//
// The layout of every sheet is fixed: renderers address tiles by (column,
// row) and the store only knows which file backs which biome.
package atlas

import (
	"bytes"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path"

	"golang.org/x/image/draw"

	"github.com/lawnchairsociety/spelunkicons/internal/biome"
)

// Easter-egg character sprites.
const (
	CharPrecious = "precious"
	CharBeg      = "beg"
)

// ClassicDir is the subdirectory holding the classic texture set.
const ClassicDir = "classic"

var (
	ErrMissingAtlas  = errors.New("missing atlas")
	ErrAtlasTooSmall = errors.New("atlas smaller than its layout")
)

// Sheet is a decoded atlas cut into fixed-size tiles.
type Sheet struct {
	img   *image.NRGBA
	TileW int
	TileH int
}

// NewSheet wraps img, converting it to NRGBA when needed.
func NewSheet(img image.Image, tileW, tileH int) *Sheet {
	n, ok := img.(*image.NRGBA)
	if !ok || n.Rect.Min != (image.Point{}) {
		b := img.Bounds()
		n = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(n, n.Rect, img, b.Min, draw.Src)
	}
	return &Sheet{img: n, TileW: tileW, TileH: tileH}
}

// Image returns the whole sheet.
func (s *Sheet) Image() *image.NRGBA {
	return s.img
}

// Tile returns a view of the tile at column ix, row iy. The view shares
// pixels with the sheet and keeps the sheet's coordinate space.
func (s *Sheet) Tile(ix, iy int) *image.NRGBA {
	r := image.Rect(ix*s.TileW, iy*s.TileH, (ix+1)*s.TileW, (iy+1)*s.TileH)
	return s.img.SubImage(r).(*image.NRGBA)
}

// Columns and Rows report how many whole tiles the sheet holds.
func (s *Sheet) Columns() int { return s.img.Rect.Dx() / s.TileW }
func (s *Sheet) Rows() int    { return s.img.Rect.Dy() / s.TileH }

// Store resolves the sheets for a biome. classic selects the classic
// texture set.
type Store interface {
	Floor(b biome.Biome, classic bool) (*Sheet, bool)
	FloorStyled(b biome.Biome, classic bool) (*Sheet, bool)
	FloorMisc(classic bool) (*Sheet, bool)
	Items(classic bool) (*Sheet, bool)
	Character(name string, classic bool) (*Sheet, bool)
	TileSize() (w, h int)
}

type family int

const (
	floorFamily family = iota
	styledFamily
	miscFamily
	itemsFamily
	charFamily
)

// layout is the minimum tile extent the renderers address in each family.
var layout = map[family]image.Point{
	floorFamily:  {12, 12},
	styledFamily: {10, 8},
	miscFamily:   {8, 8},
	itemsFamily:  {16, 16},
	charFamily:   {1, 1},
}

var floorAtlas = map[biome.Biome]string{
	biome.Cave:     "cave",
	biome.Jungle:   "jungle",
	biome.Beehive:  "jungle",
	biome.Babylon:  "babylon",
	biome.Eggplant: "eggplant",
	biome.Ice:      "ice",
	biome.Sunken:   "sunken",
	biome.Surface:  "surface",
	biome.Temple:   "temple",
	biome.TidePool: "tidepool",
	biome.Volcana:  "volcano",
}

var styledAtlas = map[biome.Biome]string{
	biome.Cave:             "wood",
	biome.Jungle:           "stone",
	biome.Babylon:          "babylon",
	biome.Sunken:           "sunken",
	biome.Temple:           "temple",
	biome.TidePool:         "pagoda",
	biome.Beehive:          "beehive",
	biome.Vlad:             "vlad",
	biome.CityOfGold:       "gold",
	biome.Duat:             "duat",
	biome.Mothership:       "mothership",
	biome.PalaceOfPleasure: "palace",
	biome.Guts:             "guts",
	biome.Olmec:            "stone",
}

type entry struct {
	family family
	name   string
}

func (e entry) file() string {
	switch e.family {
	case floorFamily:
		return "floor_" + e.name + ".png"
	case styledFamily:
		return "floorstyled_" + e.name + ".png"
	case charFamily:
		return "char_" + e.name + ".png"
	}
	return e.name + ".png"
}

// entries lists every file a texture set must provide.
func entries() []entry {
	seen := map[entry]bool{}
	var out []entry
	add := func(e entry) {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	for _, b := range biome.All() {
		if name, ok := floorAtlas[b]; ok {
			add(entry{floorFamily, name})
		}
	}
	for _, b := range biome.All() {
		if name, ok := styledAtlas[b]; ok {
			add(entry{styledFamily, name})
		}
	}
	add(entry{miscFamily, "floormisc"})
	add(entry{itemsFamily, "items"})
	add(entry{charFamily, CharPrecious})
	add(entry{charFamily, CharBeg})
	return out
}

// Files returns the file names a texture directory must contain, relative
// to the directory. The classic set mirrors them under ClassicDir.
func Files() []string {
	var out []string
	for _, e := range entries() {
		out = append(out, e.file())
	}
	return out
}

type key struct {
	entry
	classic bool
}

// Atlases is the in-memory Store.
type Atlases struct {
	sheets       map[key]*Sheet
	tileW, tileH int
	id           string
}

// LoadDir loads both texture sets from dir.
func LoadDir(dir string, tileW, tileH int) (*Atlases, error) {
	a, err := LoadFS(os.DirFS(dir), tileW, tileH)
	if err != nil {
		return nil, fmt.Errorf("load atlases from %s: %w", dir, err)
	}
	return a, nil
}

// LoadFS loads both texture sets from fsys. Every file is required.
func LoadFS(fsys fs.FS, tileW, tileH int) (*Atlases, error) {
	if tileW <= 0 || tileH <= 0 {
		return nil, fmt.Errorf("invalid tile size %dx%d", tileW, tileH)
	}
	a := &Atlases{sheets: map[key]*Sheet{}, tileW: tileW, tileH: tileH}
	sum := crc32.NewIEEE()

	for _, classic := range []bool{false, true} {
		for _, e := range entries() {
			name := e.file()
			if classic {
				name = path.Join(ClassicDir, name)
			}
			data, err := fs.ReadFile(fsys, name)
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%s: %w", name, ErrMissingAtlas)
			}
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", name, err)
			}
			sheet, err := loadSheet(data, name, e.family, tileW, tileH)
			if err != nil {
				return nil, err
			}
			a.sheets[key{e, classic}] = sheet
			sum.Write([]byte(name))
			sum.Write(data)
		}
	}
	a.id = fmt.Sprintf("%dx%d-%08x", tileW, tileH, sum.Sum32())
	return a, nil
}

func loadSheet(data []byte, name string, f family, tileW, tileH int) (*Sheet, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	b := img.Bounds()
	if f == charFamily {
		return NewSheet(img, b.Dx(), b.Dy()), nil
	}
	need := layout[f]
	if b.Dx() < need.X*tileW || b.Dy() < need.Y*tileH {
		return nil, fmt.Errorf("%s is %dx%d, need %dx%d: %w",
			name, b.Dx(), b.Dy(), need.X*tileW, need.Y*tileH, ErrAtlasTooSmall)
	}
	return NewSheet(img, tileW, tileH), nil
}

func (a *Atlases) lookup(f family, name string, classic bool) (*Sheet, bool) {
	s, ok := a.sheets[key{entry{f, name}, classic}]
	return s, ok
}

func (a *Atlases) Floor(b biome.Biome, classic bool) (*Sheet, bool) {
	name, ok := floorAtlas[b]
	if !ok {
		return nil, false
	}
	return a.lookup(floorFamily, name, classic)
}

func (a *Atlases) FloorStyled(b biome.Biome, classic bool) (*Sheet, bool) {
	name, ok := styledAtlas[b]
	if !ok {
		return nil, false
	}
	return a.lookup(styledFamily, name, classic)
}

func (a *Atlases) FloorMisc(classic bool) (*Sheet, bool) {
	return a.lookup(miscFamily, "floormisc", classic)
}

func (a *Atlases) Items(classic bool) (*Sheet, bool) {
	return a.lookup(itemsFamily, "items", classic)
}

func (a *Atlases) Character(name string, classic bool) (*Sheet, bool) {
	return a.lookup(charFamily, name, classic)
}

func (a *Atlases) TileSize() (int, int) {
	return a.tileW, a.tileH
}

// ID fingerprints the loaded texture sets and tile size. Renders from
// atlases with different IDs are not interchangeable.
func (a *Atlases) ID() string {
	return a.id
}

// Len reports how many sheets are loaded across both texture sets.
func (a *Atlases) Len() int {
	return len(a.sheets)
}
