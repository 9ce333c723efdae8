package controller

import "github.com/oxydraw/oxydraw/internal/geom"

// Step sizes of the keyboard and wheel commands.
const (
	panStep     = 0.1
	panStepFine = 0.01
	zoomKeyStep = 0.12
	wheelStep   = 0.001
	wheelFine   = 0.1
	zoomStepAt  = 0.05
	zoomKeyFine = 0.1
)

var (
	Reset   KeyCommand   = func(c *Controller, _ KeyEvent) { c.vm.Reset(c.rc) }
	ResetAt MouseCommand = func(c *Controller, _ MouseEvent) { c.vm.Reset(c.rc) }

	PanAt MouseCommand = func(c *Controller, e MouseEvent) {
		c.AddMouseManipulator(NewPanManipulator(c.vm), e)
	}
	ZoomRectangle MouseCommand = func(c *Controller, e MouseEvent) {
		c.AddMouseManipulator(NewZoomRectangleManipulator(c.vm), e)
	}
	PanZoomByTouch TouchCommand = func(c *Controller, e TouchEvent) {
		c.AddTouchManipulator(NewTouchManipulator(c.vm), e)
	}

	ZoomWheel     WheelCommand = func(c *Controller, e WheelEvent) { zoomByWheel(c, e, 1) }
	ZoomWheelFine WheelCommand = func(c *Controller, e WheelEvent) { zoomByWheel(c, e, wheelFine) }
	ZoomInAt      MouseCommand = func(c *Controller, e MouseEvent) { zoomAt(c, e, zoomStepAt) }
	ZoomOutAt     MouseCommand = func(c *Controller, e MouseEvent) { zoomAt(c, e, -zoomStepAt) }

	PanLeft      KeyCommand = func(c *Controller, _ KeyEvent) { pan(c, -panStep, 0) }
	PanRight     KeyCommand = func(c *Controller, _ KeyEvent) { pan(c, panStep, 0) }
	PanUp        KeyCommand = func(c *Controller, _ KeyEvent) { pan(c, 0, -panStep) }
	PanDown      KeyCommand = func(c *Controller, _ KeyEvent) { pan(c, 0, panStep) }
	PanLeftFine  KeyCommand = func(c *Controller, _ KeyEvent) { pan(c, -panStepFine, 0) }
	PanRightFine KeyCommand = func(c *Controller, _ KeyEvent) { pan(c, panStepFine, 0) }
	PanUpFine    KeyCommand = func(c *Controller, _ KeyEvent) { pan(c, 0, -panStepFine) }
	PanDownFine  KeyCommand = func(c *Controller, _ KeyEvent) { pan(c, 0, panStepFine) }

	ZoomIn      KeyCommand = func(c *Controller, _ KeyEvent) { zoomCenter(c, 1) }
	ZoomOut     KeyCommand = func(c *Controller, _ KeyEvent) { zoomCenter(c, -1) }
	ZoomInFine  KeyCommand = func(c *Controller, _ KeyEvent) { zoomCenter(c, zoomKeyFine) }
	ZoomOutFine KeyCommand = func(c *Controller, _ KeyEvent) { zoomCenter(c, -zoomKeyFine) }
)

func zoomAt(c *Controller, e MouseEvent, step float64) {
	m := NewZoomStepManipulator(c.vm, step, e.Modifiers.Control())
	m.Started(e)
}

func zoomByWheel(c *Controller, e WheelEvent, factor float64) {
	m := NewZoomStepManipulator(c.vm, e.Delta*wheelStep*factor, e.Modifiers.Control())
	m.Started(MouseEvent{Position: e.Position, Modifiers: e.Modifiers})
}

func zoomCenter(c *Controller, delta float64) {
	c.vm.ZoomBy(1 + delta*zoomKeyStep)
}

// pan moves the view by fractions of the client area.
func pan(c *Controller, dx, dy float64) {
	area := c.vm.ClientArea()
	c.vm.Pan(geom.SV(dx*area.Width, dy*area.Height))
}
