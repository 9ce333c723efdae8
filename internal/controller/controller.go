// Package controller binds input gestures to view commands.
package controller

import (
	"iter"

	"github.com/oxydraw/oxydraw/internal/engine"
)

type (
	MouseCommand func(c *Controller, e MouseEvent)
	WheelCommand func(c *Controller, e WheelEvent)
	KeyCommand   func(c *Controller, e KeyEvent)
	TouchCommand func(c *Controller, e TouchEvent)
)

type mouseGesture struct {
	button    Button
	modifiers Modifiers
	clicks    int
}

type keyGesture struct {
	key       Key
	modifiers Modifiers
}

// Controller dispatches input events to the commands bound to them and drives the
// manipulator of the gesture in progress.
//
// rc measures text when a command needs the drawing bounds. A Controller is not
// safe for concurrent use.
type Controller struct {
	vm *engine.ViewModel
	rc engine.RenderContext

	mouse map[mouseGesture]MouseCommand
	keys  map[keyGesture]KeyCommand
	wheel map[Modifiers]WheelCommand
	touch TouchCommand

	manipulator MouseManipulator
	touching    *TouchManipulator
}

// New creates a controller with the default bindings.
func New(vm *engine.ViewModel, rc engine.RenderContext) *Controller {
	c := NewEmpty(vm, rc)
	c.bindDefaults()
	return c
}

// NewEmpty creates a controller without bindings.
func NewEmpty(vm *engine.ViewModel, rc engine.RenderContext) *Controller {
	return &Controller{
		vm:    vm,
		rc:    rc,
		mouse: make(map[mouseGesture]MouseCommand),
		keys:  make(map[keyGesture]KeyCommand),
		wheel: make(map[Modifiers]WheelCommand),
	}
}

func (c *Controller) ViewModel() *engine.ViewModel { return c.vm }

func (c *Controller) bindDefaults() {
	c.BindMouseDown(ButtonMiddle, ModNone, 1, ZoomRectangle)
	c.BindMouseDown(ButtonRight, ModControl, 1, ZoomRectangle)
	c.BindMouseDown(ButtonLeft, ModControl|ModAlt, 1, ZoomRectangle)
	c.BindMouseDown(ButtonMiddle, ModNone, 2, ResetAt)
	c.BindMouseDown(ButtonRight, ModControl, 2, ResetAt)
	c.BindMouseDown(ButtonLeft, ModControl|ModAlt, 2, ResetAt)
	c.BindKeyDown(KeyA, ModNone, Reset)
	c.BindKeyDown(KeyHome, ModNone, Reset)

	c.BindMouseDown(ButtonRight, ModNone, 1, PanAt)
	c.BindMouseDown(ButtonLeft, ModAlt, 1, PanAt)
	c.BindKeyDown(KeyLeft, ModNone, PanLeft)
	c.BindKeyDown(KeyRight, ModNone, PanRight)
	c.BindKeyDown(KeyUp, ModNone, PanUp)
	c.BindKeyDown(KeyDown, ModNone, PanDown)
	c.BindKeyDown(KeyLeft, ModControl, PanLeftFine)
	c.BindKeyDown(KeyRight, ModControl, PanRightFine)
	c.BindKeyDown(KeyUp, ModControl, PanUpFine)
	c.BindKeyDown(KeyDown, ModControl, PanDownFine)
	c.BindTouchDown(PanZoomByTouch)

	c.BindMouseDown(ButtonXButton1, ModNone, 1, ZoomInAt)
	c.BindMouseDown(ButtonXButton2, ModNone, 1, ZoomOutAt)
	c.BindMouseWheel(ModNone, ZoomWheel)
	c.BindMouseWheel(ModControl, ZoomWheelFine)
	c.BindKeyDown(KeyAdd, ModNone, ZoomIn)
	c.BindKeyDown(KeySubtract, ModNone, ZoomOut)
	c.BindKeyDown(KeyPageUp, ModNone, ZoomIn)
	c.BindKeyDown(KeyPageDown, ModNone, ZoomOut)
	c.BindKeyDown(KeyAdd, ModControl, ZoomInFine)
	c.BindKeyDown(KeySubtract, ModControl, ZoomOutFine)
	c.BindKeyDown(KeyPageUp, ModControl, ZoomInFine)
	c.BindKeyDown(KeyPageDown, ModControl, ZoomOutFine)
}

// BindMouseDown binds a button press with the given modifiers and click count.
// A nil command removes the binding.
func (c *Controller) BindMouseDown(b Button, m Modifiers, clicks int, cmd MouseCommand) {
	g := mouseGesture{button: b, modifiers: m, clicks: clicks}
	if cmd == nil {
		delete(c.mouse, g)
		return
	}
	c.mouse[g] = cmd
}

func (c *Controller) BindKeyDown(k Key, m Modifiers, cmd KeyCommand) {
	g := keyGesture{key: k, modifiers: m}
	if cmd == nil {
		delete(c.keys, g)
		return
	}
	c.keys[g] = cmd
}

func (c *Controller) BindMouseWheel(m Modifiers, cmd WheelCommand) {
	if cmd == nil {
		delete(c.wheel, m)
		return
	}
	c.wheel[m] = cmd
}

func (c *Controller) BindTouchDown(cmd TouchCommand) {
	c.touch = cmd
}

// UnbindAll removes every binding.
func (c *Controller) UnbindAll() {
	clear(c.mouse)
	clear(c.keys)
	clear(c.wheel)
	c.touch = nil
}

// AddMouseManipulator starts m; it receives the following moves until the button
// is released.
func (c *Controller) AddMouseManipulator(m MouseManipulator, e MouseEvent) {
	c.manipulator = m
	m.Started(e)
}

func (c *Controller) AddTouchManipulator(m *TouchManipulator, e TouchEvent) {
	c.touching = m
	m.Started(e)
}

// HandleMouseDown runs the command bound to the press. It reports whether one was bound.
func (c *Controller) HandleMouseDown(e MouseEvent) bool {
	clicks := max(e.ClickCount, 1)
	cmd, ok := c.mouse[mouseGesture{button: e.Button, modifiers: e.Modifiers, clicks: clicks}]
	if !ok {
		return false
	}
	cmd(c, e)
	return true
}

func (c *Controller) HandleMouseMove(e MouseEvent) bool {
	if c.manipulator == nil {
		return false
	}
	c.manipulator.Delta(e)
	return true
}

func (c *Controller) HandleMouseUp(e MouseEvent) bool {
	m := c.manipulator
	if m == nil {
		return false
	}
	c.manipulator = nil
	m.Completed(e)
	return true
}

func (c *Controller) HandleMouseWheel(e WheelEvent) bool {
	cmd, ok := c.wheel[e.Modifiers]
	if !ok {
		return false
	}
	cmd(c, e)
	return true
}

func (c *Controller) HandleKeyDown(e KeyEvent) bool {
	cmd, ok := c.keys[keyGesture{key: e.Key, modifiers: e.Modifiers}]
	if !ok {
		return false
	}
	cmd(c, e)
	return true
}

func (c *Controller) HandleTouchStarted(e TouchEvent) bool {
	if c.touch == nil {
		return false
	}
	c.touch(c, e)
	return true
}

func (c *Controller) HandleTouchDelta(e TouchEvent) bool {
	if c.touching == nil {
		return false
	}
	c.touching.Delta(e)
	return true
}

func (c *Controller) HandleTouchCompleted(e TouchEvent) bool {
	m := c.touching
	if m == nil {
		return false
	}
	c.touching = nil
	m.Completed(e)
	return true
}

// HitTest returns the elements at args.Point, topmost first.
func (c *Controller) HitTest(args engine.HitTestArguments) iter.Seq[*engine.HitTestResult] {
	return c.vm.HitTest(args)
}
