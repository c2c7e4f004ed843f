package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Directional keys the game listens for.
const (
	KeyUp    = "ArrowUp"
	KeyDown  = "ArrowDown"
	KeyLeft  = "ArrowLeft"
	KeyRight = "ArrowRight"
)

// Point is a viewport coordinate in CSS pixels.
type Point struct {
	X, Y float64
}

// Drag describes a pressed-pointer gesture.
type Drag struct {
	From, To  Point
	Steps     int
	StepDelay time.Duration
}

// Path returns the intermediate pointer positions after From, ending at To.
// Steps below 1 are treated as a single jump.
func (d Drag) Path() []Point {
	steps := d.Steps
	if steps < 1 {
		steps = 1
	}
	points := make([]Point, steps)
	for i := range points {
		f := float64(i+1) / float64(steps)
		points[i] = Point{
			X: d.From.X + (d.To.X-d.From.X)*f,
			Y: d.From.Y + (d.To.Y-d.From.Y)*f,
		}
	}
	points[steps-1] = d.To
	return points
}

// VerticalSwipe is a top-to-bottom drag through the horizontal center of box,
// inset from both edges.
func VerticalSwipe(box Rect, inset float64, steps int, delay time.Duration) Drag {
	centerX := box.X + box.Width/2
	return Drag{
		From:      Point{X: centerX, Y: box.Y + inset},
		To:        Point{X: centerX, Y: box.Y + box.Height - inset},
		Steps:     steps,
		StepDelay: delay,
	}
}

// Rect is an element's bounding box.
type Rect struct {
	X, Y, Width, Height float64
}

// BoundingBox returns the box of the first element matching selector.
func BoundingBox(page playwright.Page, selector string) (Rect, error) {
	box, err := page.Locator(selector).First().BoundingBox()
	if err != nil {
		return Rect{}, fmt.Errorf("bounding box of %s: %w", selector, err)
	}
	if box == nil {
		return Rect{}, fmt.Errorf("bounding box of %s: element is not rendered", selector)
	}
	return Rect{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}, nil
}

// PressKey dispatches a key press to the focused page.
func PressKey(page playwright.Page, key string) error {
	if err := page.Keyboard().Press(key); err != nil {
		return fmt.Errorf("press %s: %w", key, err)
	}
	return nil
}

// pointer is the part of playwright.Mouse a drag needs.
type pointer interface {
	Move(x, y float64, options ...playwright.MouseMoveOptions) error
	Down(options ...playwright.MouseDownOptions) error
	Up(options ...playwright.MouseUpOptions) error
}

// PerformDrag presses at From, moves through Path with StepDelay between
// moves, and releases at To.
func PerformDrag(page playwright.Page, d Drag) error {
	return drag(page.Mouse(), d)
}

// drag releases the button on every exit once it has been pressed.
func drag(mouse pointer, d Drag) error {
	if err := mouse.Move(d.From.X, d.From.Y); err != nil {
		return fmt.Errorf("drag: move to start: %w", err)
	}
	if err := mouse.Down(); err != nil {
		return fmt.Errorf("drag: press: %w", err)
	}
	for _, p := range d.Path() {
		if err := mouse.Move(p.X, p.Y); err != nil {
			_ = mouse.Up()
			return fmt.Errorf("drag: move to (%.0f,%.0f): %w", p.X, p.Y, err)
		}
		time.Sleep(d.StepDelay)
	}
	if err := mouse.Up(); err != nil {
		return fmt.Errorf("drag: release: %w", err)
	}
	return nil
}
