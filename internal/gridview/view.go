// Package gridview shows the occupancy grid and placed tiles of an icon in a
// terminal, locally or over SSH.
package gridview

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lawnchairsociety/spelunkicons/internal/placement"
	"github.com/lawnchairsociety/spelunkicons/internal/rng"
	"github.com/lawnchairsociety/spelunkicons/internal/sheet"
	"github.com/lawnchairsociety/spelunkicons/internal/spelunkicon"
)

// MaxInputLength matches the icon service's input limit.
const MaxInputLength = 63

var eggs = []string{"", spelunkicon.EggPride, spelunkicon.EggClassic}

var (
	styleLabel = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleValue = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleSolid = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleEmpty = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	styleTile  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Options are the viewer's starting parameters.
type Options struct {
	Input string
	Size  int
	Misc  int
	Egg   string
}

// Viewer draws one icon's grids and edits its parameters from key events.
type Viewer struct {
	screen tcell.Screen
	input  string
	size   int
	misc   int
	egg    int
}

// New returns a viewer on screen. Out-of-range options are clamped.
func New(screen tcell.Screen, opts Options) *Viewer {
	v := &Viewer{
		screen: screen,
		input:  opts.Input,
		size:   clamp(opts.Size, spelunkicon.MinSize, spelunkicon.MaxSize),
		misc:   clamp(opts.Misc, 0, 255),
	}
	for i, e := range eggs {
		if e == opts.Egg {
			v.egg = i
		}
	}
	return v
}

func clamp(n, lo, hi int) int {
	return max(lo, min(n, hi))
}

// Options returns the current parameters.
func (v *Viewer) Options() Options {
	return Options{Input: v.input, Size: v.size, Misc: v.misc, Egg: eggs[v.egg]}
}

// Run draws and handles events until the user quits or the screen closes.
func (v *Viewer) Run() {
	for {
		v.Draw()
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if v.HandleKey(ev) {
				return
			}
		}
	}
}

// HandleKey applies one key press and reports whether the viewer should quit.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		v.size = min(v.size+1, spelunkicon.MaxSize)
	case tcell.KeyDown:
		v.size = max(v.size-1, spelunkicon.MinSize)
	case tcell.KeyTab:
		v.egg = (v.egg + 1) % len(eggs)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if _, n := utf8.DecodeLastRuneInString(v.input); n > 0 {
			v.input = v.input[:len(v.input)-n]
		}
	case tcell.KeyRune:
		switch r := ev.Rune(); r {
		case '+':
			v.misc = min(v.misc+1, 255)
		case '-':
			v.misc = max(v.misc-1, 0)
		default:
			if len(v.input)+utf8.RuneLen(r) <= MaxInputLength {
				v.input += string(r)
			}
		}
	}
	return false
}

// Draw renders the current icon's grids.
func (v *Viewer) Draw() {
	s := v.screen
	s.Clear()

	icon, err := spelunkicon.FromInput(v.input, eggs[v.egg], v.size, uint8(v.misc))
	if err != nil {
		putText(s, 0, 0, err.Error(), styleValue)
		s.Show()
		return
	}
	stream := rng.New(icon.Hash)
	choice := sheet.Choose(icon, stream)
	grid := sheet.Place(choice, icon, stream)

	y := 0
	y = putField(s, y, "input", v.input+"_")
	y = putField(s, y, "hash", fmt.Sprintf("0x%08x", icon.Hash))
	y = putField(s, y, "kind", fmt.Sprintf("%s (#%d)", choice.Kind, choice.Index))
	y = putField(s, y, "params", fmt.Sprintf("size=%d misc=%d egg=%q classic=%t",
		v.size, v.misc, eggs[v.egg], choice.Classic))
	y++

	gridX := cellWidth*icon.Width + 4
	putText(s, 0, y, "occupancy", styleLabel)
	putText(s, gridX, y, "tiles", styleLabel)
	y++
	for row := 0; row < icon.Height; row++ {
		for col := 0; col < icon.Width; col++ {
			glyph, style := Glyph(placement.Floor), styleSolid
			if icon.Grid[row][col] {
				glyph, style = Glyph(placement.None), styleEmpty
			}
			putText(s, col*cellWidth, y+row, glyph, style)
			putText(s, gridX+col*cellWidth, y+row, Glyph(grid.At(col, row)), styleTile)
		}
	}
	y += icon.Height + 1

	for _, t := range legend(grid) {
		putText(s, 0, y, Glyph(t), styleTile)
		putText(s, cellWidth+1, y, t.String(), styleLabel)
		y++
	}

	_, h := s.Size()
	putText(s, 0, h-1, "type to edit  ↑/↓ size  +/- misc  tab egg  esc quit", styleLabel)
	s.Show()
}

// legend lists the distinct tiles in g in declaration order.
func legend(g *placement.Grid) []placement.PlacedTile {
	seen := map[placement.PlacedTile]bool{}
	var out []placement.PlacedTile
	for _, row := range g.Rows() {
		for _, t := range row {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func putField(s tcell.Screen, y int, label, value string) int {
	putText(s, 0, y, label+":", styleLabel)
	putText(s, 8, y, value, styleValue)
	return y + 1
}

// putText writes str at (x, y), advancing by each rune's display width and
// stopping at the right edge.
func putText(s tcell.Screen, x, y int, str string, style tcell.Style) {
	sw, _ := s.Size()
	for _, r := range str {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > sw {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x += w
	}
}
