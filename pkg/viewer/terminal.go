package viewer

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"sync"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"github.com/taigrr/spine/pkg/interact"
	"github.com/taigrr/spine/pkg/render"
)

const (
	tooltipWidth = 40
	panelWidth   = 46
)

var (
	panelBg   = color.RGBA{0x1e, 0x29, 0x3b, 0xff}
	textColor = color.RGBA{0xe2, 0xe8, 0xf0, 0xff}
	dimColor  = color.RGBA{0x94, 0xa3, 0xb8, 0xff}
)

// Terminal is a Container that draws the view with half-block cells and
// turns terminal mouse and key events into controller input.
type Terminal struct {
	term *uv.Terminal
	log  *zap.Logger

	mu        sync.Mutex
	width     int // Cells
	height    int
	showHUD   bool
	selection *interact.Selection
	cursor    interact.Cursor
	detached  bool

	// Drag tracking for click detection.
	pressed bool
	moved   bool
}

// OpenTerminal takes over the controlling terminal: alternate screen,
// hidden cursor and any-event mouse tracking.
func OpenTerminal(log *zap.Logger, showHUD bool) (*Terminal, error) {
	if log == nil {
		log = zap.NewNop()
	}
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return nil, fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return nil, fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(width, height); err != nil {
		return nil, fmt.Errorf("resize terminal: %w", err)
	}
	if _, err := term.WriteString(ansi.SetModeMouseAnyEvent + ansi.SetModeMouseExtSgr + ansi.SetWindowTitle("spine")); err != nil {
		return nil, fmt.Errorf("enable mouse: %w", err)
	}

	log.Info("terminal opened", zap.Int("cols", width), zap.Int("rows", height))
	return &Terminal{
		term:    term,
		log:     log,
		width:   width,
		height:  height,
		showHUD: showHUD,
		cursor:  -1,
	}, nil
}

// Size returns the framebuffer size: one pixel per column, two per row.
func (t *Terminal) Size() (width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.detached {
		return 0, 0
	}
	return t.width, t.height * 2
}

// Dispatch records a selection and opens the detail panel.
func (t *Terminal) Dispatch(s interact.Selection) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selection = &s
	t.log.Info("selection", zap.String("region", string(s.Key)), zap.String("count", s.Count))
}

// Selection returns the selection shown in the detail panel.
func (t *Terminal) Selection() (interact.Selection, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.selection == nil {
		return interact.Selection{}, false
	}
	return *t.selection, true
}

// SetShowHUD turns the status lines on or off.
func (t *Terminal) SetShowHUD(show bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.showHUD = show
}

// Detach restores the terminal. It is idempotent.
func (t *Terminal) Detach() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.detached {
		return
	}
	t.detached = true

	t.term.WriteString(ansi.ResetModeMouseAnyEvent + ansi.ResetModeMouseExtSgr + ansi.SetPointerShape("default"))
	t.term.ExitAltScreen()
	t.term.ShowCursor()
	if err := t.term.Shutdown(context.Background()); err != nil {
		t.log.Warn("terminal shutdown", zap.Error(err))
	}
	t.log.Info("terminal restored")
}

// Serve feeds terminal input to v and runs it until ctx is done, the user
// quits, or drawing fails. v is destroyed on return.
func (t *Terminal) Serve(ctx context.Context, v *Viewer) error {
	if v == nil {
		return nil
	}
	defer v.Destroy()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go t.handleEvents(ctx, v, cancel)
	return v.Run(ctx)
}

// pixel maps a cell to the center of its framebuffer pixels.
func pixel(x, y int) (float64, float64) {
	return float64(x) + 0.5, float64(y)*2 + 1
}

func (t *Terminal) handleEvents(ctx context.Context, v *Viewer, quit context.CancelFunc) {
	ctrl := v.Controller()
	for {
		var ev uv.Event
		select {
		case <-ctx.Done():
			return
		case e, ok := <-t.term.Events():
			if !ok {
				quit()
				return
			}
			ev = e
		}

		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			t.mu.Lock()
			t.width, t.height = ev.Width, ev.Height
			t.term.Erase()
			if err := t.term.Resize(ev.Width, ev.Height); err != nil {
				t.log.Warn("resize", zap.Error(err))
			}
			t.mu.Unlock()

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("ctrl+c", "q"):
				quit()
				return
			case ev.MatchString("escape"):
				if !t.closePanel() {
					quit()
					return
				}
			case ev.MatchString("r"):
				v.ResetView()
			case ev.MatchString("?", "shift+/"):
				t.mu.Lock()
				t.showHUD = !t.showHUD
				t.mu.Unlock()
			case ev.MatchString("v"):
				t.log.Debug("volumes", zap.Bool("shown", v.ToggleVolumes()))
			case ev.MatchString("+", "="):
				v.Zoom(-1)
			case ev.MatchString("-", "_"):
				v.Zoom(1)
			}

		case uv.MouseClickEvent:
			if ev.Button != uv.MouseLeft {
				continue
			}
			t.mu.Lock()
			t.pressed, t.moved = true, false
			t.mu.Unlock()
			ctrl.PointerDown(pixel(ev.X, ev.Y))

		case uv.MouseMotionEvent:
			t.mu.Lock()
			if t.pressed {
				t.moved = true
			}
			t.mu.Unlock()
			ctrl.PointerMove(pixel(ev.X, ev.Y))

		case uv.MouseReleaseEvent:
			t.mu.Lock()
			click := t.pressed && !t.moved
			t.pressed = false
			t.mu.Unlock()
			ctrl.PointerUp()
			if click {
				ctrl.Click(pixel(ev.X, ev.Y))
			}

		case uv.MouseWheelEvent:
			switch ev.Button {
			case uv.MouseWheelUp:
				v.Zoom(-1)
			case uv.MouseWheelDown:
				v.Zoom(1)
			}
		}
	}
}

func (t *Terminal) closePanel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.selection == nil {
		return false
	}
	t.selection = nil
	return true
}

// Present draws fb and the overlays, then flushes the screen.
func (t *Terminal) Present(fb *render.Framebuffer, o Overlay) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.detached {
		return nil
	}

	fb.Draw(t.term, uv.Rect(0, 0, t.width, t.height))
	if o.Tooltip.Visible {
		t.drawTooltip(o.Tooltip)
	}
	if t.selection != nil {
		t.drawPanel(*t.selection)
	}
	if t.showHUD {
		t.drawHUD(o)
	}

	if o.Cursor != t.cursor {
		t.term.WriteString(ansi.SetPointerShape(o.Cursor.String()))
		t.cursor = o.Cursor
	}
	if err := t.term.Display(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// text writes s starting at (x, y), clipped to the screen and to maxWidth
// cells. It returns the column after the last cell written.
func (t *Terminal) text(x, y int, s string, maxWidth int, style uv.Style) int {
	if y < 0 || y >= t.height {
		return x
	}
	s = ansi.Truncate(s, maxWidth, "…")
	for _, r := range s {
		if x >= t.width {
			break
		}
		if x >= 0 {
			t.term.SetCell(x, y, &uv.Cell{Content: string(r), Width: 1, Style: style})
		}
		x++
	}
	return x
}

// box fills a rectangle of blank cells with bg.
func (t *Terminal) box(x, y, w, h int, bg color.Color) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			if col < 0 || row < 0 || col >= t.width || row >= t.height {
				continue
			}
			t.term.SetCell(col, row, &uv.Cell{Content: " ", Width: 1, Style: uv.Style{Bg: bg}})
		}
	}
}

func wrap(s string, width int) []string {
	return strings.Split(ansi.Wordwrap(s, width, ""), "\n")
}

type line struct {
	s     string
	style uv.Style
}

func (t *Terminal) card(x, y, w int, lines []line, accent color.Color) {
	t.box(x, y, w, len(lines)+2, panelBg)
	for row := y; row < y+len(lines)+2; row++ {
		t.text(x, row, "▌", 1, uv.Style{Fg: accent, Bg: panelBg})
	}
	for i, l := range lines {
		t.text(x+2, y+1+i, l.s, w-3, l.style)
	}
}

func (t *Terminal) drawTooltip(tip interact.Tooltip) {
	inner := tooltipWidth - 3
	title := uv.Style{Fg: tip.Color, Bg: panelBg, Attrs: uv.AttrBold}
	body := uv.Style{Fg: textColor, Bg: panelBg}
	dim := uv.Style{Fg: dimColor, Bg: panelBg}

	lines := []line{{tip.Title, title}, {tip.Subtitle, dim}}
	for _, s := range wrap(tip.Description, inner) {
		lines = append(lines, line{s, body})
	}
	for _, s := range wrap(tip.Conditions, inner) {
		lines = append(lines, line{s, dim})
	}

	// Offset from the pointer, flipped when it would leave the screen.
	col, row := int(tip.X)+2, int(tip.Y/2)+1
	if col+tooltipWidth > t.width {
		col = int(tip.X) - tooltipWidth - 1
	}
	if row+len(lines)+2 > t.height {
		row = t.height - len(lines) - 2
	}
	t.card(max(col, 0), max(row, 0), tooltipWidth, lines, tip.Color)
}

func (t *Terminal) drawPanel(s interact.Selection) {
	inner := panelWidth - 3
	title := uv.Style{Fg: s.Color, Bg: panelBg, Attrs: uv.AttrBold}
	head := uv.Style{Fg: textColor, Bg: panelBg, Attrs: uv.AttrBold}
	body := uv.Style{Fg: textColor, Bg: panelBg}
	dim := uv.Style{Fg: dimColor, Bg: panelBg}

	lines := []line{
		{s.Name, title},
		{s.Count + " · " + s.Vertebrae, dim},
		{"", body},
	}
	section := func(name, text string) {
		lines = append(lines, line{name, head})
		for _, l := range wrap(text, inner) {
			lines = append(lines, line{l, body})
		}
		lines = append(lines, line{"", body})
	}
	section("About", s.Description)
	section("Function", s.Function)
	section("Nerves", s.Nerves)
	section("Common conditions", s.Conditions)
	lines = append(lines, line{"esc to close", dim})

	t.card(max(t.width-panelWidth-1, 0), 1, panelWidth, lines, s.Color)
}

func (t *Terminal) drawHUD(o Overlay) {
	style := uv.Style{Fg: textColor, Bg: render.ColorBlack}
	fps := uv.Style{Fg: color.RGBA{0x4a, 0xde, 0x80, 0xff}, Bg: render.ColorBlack}

	t.text(0, 0, fmt.Sprintf(" %.0f FPS ", o.Stats.FPS), t.width, fps)
	title := " Spine Explorer "
	t.text(max((t.width-ansi.StringWidth(title))/2, 0), 0, title, t.width, uv.Style{Fg: textColor, Bg: render.ColorBlack, Attrs: uv.AttrBold})
	tris := fmt.Sprintf(" %d tris ", o.Stats.Triangles)
	t.text(max(t.width-ansi.StringWidth(tris), 0), 0, tris, t.width, style)

	mode := "auto-rotate"
	if !o.AutoRotate {
		mode = "manual"
	}
	hover := "none"
	if o.Hovered != "" {
		hover = string(o.Hovered)
	}
	status := fmt.Sprintf(" %s · hover: %s · zoom %.1f ", mode, hover, o.Stats.Distance)
	t.text(0, t.height-1, status, t.width, style)

	hint := " drag rotate · click select · wheel zoom · r reset · ? hud · q quit "
	t.text(max(t.width-ansi.StringWidth(hint), 0), t.height-1, hint, t.width, uv.Style{Fg: dimColor, Bg: render.ColorBlack, Attrs: uv.AttrFaint})
}
