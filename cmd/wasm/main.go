//go:build js && wasm

package main

import (
	"syscall/js"
)

var v = newViewer()

func main() {
	api := js.Global().Get("Object").New()

	// --- Commands (frontend → viewer) ---
	api.Set("loadExample", js.FuncOf(loadExample))
	api.Set("loadDocument", js.FuncOf(loadDocument))
	api.Set("resize", js.FuncOf(resize))
	api.Set("pan", js.FuncOf(pan))
	api.Set("zoomBy", js.FuncOf(zoomBy))
	api.Set("zoomExtents", js.FuncOf(zoomExtents))
	api.Set("input", js.FuncOf(input))
	api.Set("tick", js.FuncOf(tick))

	// --- Queries (frontend ← viewer) ---
	api.Set("examples", js.FuncOf(listExamples))
	api.Set("needsRender", js.FuncOf(needsRender))
	api.Set("render", js.FuncOf(render))
	api.Set("hitTest", js.FuncOf(hitTest))

	js.Global().Set("oxydraw", api)

	// Signal that WASM is ready
	js.Global().Set("oxydrawWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func result(err error) any {
	if err != nil {
		return js.ValueOf(map[string]any{"error": err.Error()})
	}
	return js.ValueOf(map[string]any{"ok": true})
}

func text(s string, err error) any {
	if err != nil {
		return js.ValueOf(map[string]any{"error": err.Error()})
	}
	return js.ValueOf(s)
}

func arg(args []js.Value, i int, fallback float64) float64 {
	if i >= len(args) || args[i].Type() != js.TypeNumber {
		return fallback
	}
	return args[i].Float()
}

func loadExample(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing example name"})
	}
	return result(v.LoadExample(args[0].String(), arg(args, 1, 800), arg(args, 2, 600)))
}

func loadDocument(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing document"})
	}
	yaml := len(args) > 1 && args[1].Truthy()
	return result(v.LoadDocument(args[0].String(), yaml, arg(args, 2, 800), arg(args, 3, 600)))
}

func resize(this js.Value, args []js.Value) any {
	return result(v.Resize(arg(args, 0, 0), arg(args, 1, 0)))
}

func pan(this js.Value, args []js.Value) any {
	v.Pan(arg(args, 0, 0), arg(args, 1, 0))
	return nil
}

func zoomBy(this js.Value, args []js.Value) any {
	v.ZoomBy(arg(args, 0, 1))
	return nil
}

func zoomExtents(this js.Value, args []js.Value) any {
	v.ZoomExtents()
	return nil
}

func input(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf(map[string]any{"error": "missing event"})
	}
	handled, err := v.Input(args[0].String(), args[1].String())
	if err != nil {
		return js.ValueOf(map[string]any{"error": err.Error()})
	}
	return js.ValueOf(handled)
}

func tick(this js.Value, args []js.Value) any {
	v.Tick(arg(args, 0, 0))
	return js.ValueOf(v.NeedsRender())
}

func listExamples(this js.Value, args []js.Value) any {
	return text(v.Examples())
}

func needsRender(this js.Value, args []js.Value) any {
	return js.ValueOf(v.NeedsRender())
}

func render(this js.Value, args []js.Value) any {
	return text(v.Render())
}

func hitTest(this js.Value, args []js.Value) any {
	return text(v.HitTest(arg(args, 0, 0), arg(args, 1, 0), arg(args, 2, 4)))
}
