package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxydraw/oxydraw/internal/geom"
)

func TestRedrawSignalCoalesces(t *testing.T) {
	sig := NewRedrawSignal()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sig.Invalidate()
		}()
	}
	wg.Wait()

	assert.Len(t, sig.C(), 1)
	<-sig.C()
	assert.True(t, sig.Begin())
	assert.False(t, sig.Begin())
	assert.Len(t, sig.C(), 0)
}

func TestRedrawSignalAfterBeginRequestsAnotherFrame(t *testing.T) {
	sig := NewRedrawSignal()
	sig.Invalidate()
	<-sig.C()
	assert.True(t, sig.Begin())

	sig.Invalidate()
	assert.True(t, sig.Pending())
	assert.Len(t, sig.C(), 1)
}

func TestStaticViewZoomRectangle(t *testing.T) {
	v := NewStaticView(10, 10, 1)
	v.ShowZoomRectangle(geom.NewRect(1, 2, 3, 4))
	if assert.NotNil(t, v.ZoomRectangle) {
		assert.Equal(t, 3.0, v.ZoomRectangle.Width)
	}
	v.HideZoomRectangle()
	assert.Nil(t, v.ZoomRectangle)

	v.SetCursorType(CursorPan)
	assert.Equal(t, "pan", v.Cursor.String())
}
