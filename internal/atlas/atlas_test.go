package atlas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path"
	"testing"
	"testing/fstest"

	"github.com/lawnchairsociety/spelunkicons/internal/biome"
)

func encode(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

// textureFS renders the placeholder set into PNG files laid out like a
// texture directory.
func textureFS(t *testing.T, tile int) fstest.MapFS {
	t.Helper()
	src := NewPlaceholder(tile, tile)
	fsys := fstest.MapFS{}
	for k, sheet := range src.sheets {
		name := k.file()
		if k.classic {
			name = path.Join(ClassicDir, name)
		}
		fsys[name] = &fstest.MapFile{Data: encode(t, sheet.Image())}
	}
	return fsys
}

func TestFiles(t *testing.T) {
	files := Files()
	if len(files) != 27 {
		t.Errorf("len(Files()) = %d, want 27", len(files))
	}
	want := map[string]bool{
		"floor_volcano.png":      false,
		"floorstyled_wood.png":   false,
		"floorstyled_pagoda.png": false,
		"floormisc.png":          false,
		"items.png":              false,
		"char_precious.png":      false,
		"char_beg.png":           false,
	}
	seen := map[string]bool{}
	for _, f := range files {
		if seen[f] {
			t.Errorf("duplicate file %s", f)
		}
		seen[f] = true
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for f, found := range want {
		if !found {
			t.Errorf("Files() missing %s", f)
		}
	}
}

func TestPlaceholderResolvesBiomes(t *testing.T) {
	a := NewPlaceholder(16, 16)

	floors := []biome.Biome{biome.Cave, biome.Jungle, biome.Beehive, biome.Babylon, biome.Eggplant,
		biome.Ice, biome.Sunken, biome.Surface, biome.Temple, biome.TidePool, biome.Volcana}
	for _, b := range floors {
		for _, classic := range []bool{false, true} {
			if _, ok := a.Floor(b, classic); !ok {
				t.Errorf("Floor(%v, %v) missing", b, classic)
			}
		}
	}
	if _, ok := a.Floor(biome.Vlad, false); ok {
		t.Error("Vlad has no floor atlas")
	}

	for _, b := range biome.All() {
		_, ok := a.FloorStyled(b, false)
		_, mapped := styledAtlas[b]
		if ok != mapped {
			t.Errorf("FloorStyled(%v) = %v, want %v", b, ok, mapped)
		}
	}

	jungle, _ := a.Floor(biome.Jungle, false)
	beehive, _ := a.Floor(biome.Beehive, false)
	if jungle != beehive {
		t.Error("jungle and beehive share a floor atlas")
	}
	stone, _ := a.FloorStyled(biome.Jungle, false)
	olmec, _ := a.FloorStyled(biome.Olmec, false)
	if stone != olmec {
		t.Error("jungle and olmec share a styled atlas")
	}

	for _, name := range []string{CharPrecious, CharBeg} {
		if _, ok := a.Character(name, true); !ok {
			t.Errorf("Character(%s) missing", name)
		}
	}
	if _, ok := a.FloorMisc(false); !ok {
		t.Error("floormisc missing")
	}
	if _, ok := a.Items(true); !ok {
		t.Error("items missing")
	}
	if w, h := a.TileSize(); w != 16 || h != 16 {
		t.Errorf("TileSize = %dx%d", w, h)
	}
}

func TestPlaceholderClassicDiffers(t *testing.T) {
	a := NewPlaceholder(8, 8)
	modern, _ := a.Floor(biome.Cave, false)
	classic, _ := a.Floor(biome.Cave, true)
	if bytes.Equal(modern.Image().Pix, classic.Image().Pix) {
		t.Error("classic set should not match the modern set")
	}
}

func TestSheetTile(t *testing.T) {
	a := NewPlaceholder(8, 8)
	s, _ := a.Floor(biome.Cave, false)

	if s.Columns() != 12 || s.Rows() != 12 {
		t.Errorf("floor sheet is %dx%d tiles, want 12x12", s.Columns(), s.Rows())
	}
	tile := s.Tile(3, 2)
	if want := image.Rect(24, 16, 32, 24); tile.Bounds() != want {
		t.Errorf("Tile(3,2).Bounds() = %v, want %v", tile.Bounds(), want)
	}
	if tile.NRGBAAt(24, 16) != s.Image().NRGBAAt(24, 16) {
		t.Error("tile view does not share pixels with the sheet")
	}
}

func TestNewSheetConvertsImages(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(5, 5, 21, 21))
	s := NewSheet(rgba, 8, 8)
	if s.Image().Rect != image.Rect(0, 0, 16, 16) {
		t.Errorf("converted rect = %v", s.Image().Rect)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := textureFS(t, 8)
	a, err := LoadFS(fsys, 8, 8)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if a.Len() != 2*len(Files()) {
		t.Errorf("Len = %d, want %d", a.Len(), 2*len(Files()))
	}

	char, _ := a.Character(CharBeg, false)
	if char.TileW != 8 || char.TileH != 8 {
		t.Errorf("character sheet tile = %dx%d, want its whole image", char.TileW, char.TileH)
	}
}

func TestAtlasID(t *testing.T) {
	fsys := textureFS(t, 8)
	first, err := LoadFS(fsys, 8, 8)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	again, err := LoadFS(fsys, 8, 8)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if first.ID() == "" || first.ID() != again.ID() {
		t.Errorf("ID not stable: %q vs %q", first.ID(), again.ID())
	}

	src, err := png.Decode(bytes.NewReader(fsys["items.png"].Data))
	if err != nil {
		t.Fatal(err)
	}
	b := src.Bounds()
	edited := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			edited.Set(x, y, src.At(x, y))
		}
	}
	edited.Set(b.Min.X, b.Min.Y, color.NRGBA{1, 2, 3, 255})
	fsys["items.png"] = &fstest.MapFile{Data: encode(t, edited)}

	changed, err := LoadFS(fsys, 8, 8)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if changed.ID() == first.ID() {
		t.Errorf("ID %q unchanged after editing items.png", changed.ID())
	}

	tests := []struct {
		a, b *Atlases
	}{
		{NewPlaceholder(8, 8), NewPlaceholder(16, 16)},
		{NewPlaceholder(8, 8), first},
	}
	for _, tt := range tests {
		if tt.a.ID() == tt.b.ID() {
			t.Errorf("IDs collide: %q", tt.a.ID())
		}
	}
}

func TestLoadFSMissingAtlas(t *testing.T) {
	fsys := textureFS(t, 8)
	delete(fsys, path.Join(ClassicDir, "floor_ice.png"))

	_, err := LoadFS(fsys, 8, 8)
	if !errors.Is(err, ErrMissingAtlas) {
		t.Errorf("err = %v, want ErrMissingAtlas", err)
	}
}

func TestLoadFSTooSmall(t *testing.T) {
	fsys := textureFS(t, 8)
	fsys["items.png"] = &fstest.MapFile{Data: encode(t, image.NewNRGBA(image.Rect(0, 0, 64, 64)))}

	_, err := LoadFS(fsys, 8, 8)
	if !errors.Is(err, ErrAtlasTooSmall) {
		t.Errorf("err = %v, want ErrAtlasTooSmall", err)
	}
}

func TestLoadFSRejectsBadTileSize(t *testing.T) {
	if _, err := LoadFS(fstest.MapFS{}, 0, 8); err == nil {
		t.Error("expected error for zero tile width")
	}
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir(t.TempDir(), 8, 8)
	if !errors.Is(err, ErrMissingAtlas) {
		t.Errorf("err = %v, want ErrMissingAtlas", err)
	}
}
