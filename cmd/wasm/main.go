//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"
	"time"

	"github.com/relgraph/relgraph/internal/engine"
	"github.com/relgraph/relgraph/internal/geom"
	"github.com/relgraph/relgraph/internal/snapshot"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(engine.Options{})

	api := js.Global().Get("Object").New()

	// Commands
	api.Set("applySnapshot", js.FuncOf(applySnapshot))
	api.Set("loadSample", js.FuncOf(loadSample))
	api.Set("tick", js.FuncOf(tick))
	api.Set("setCamera", js.FuncOf(setCamera))
	api.Set("setCanvasBounds", js.FuncOf(setCanvasBounds))
	api.Set("setSelection", js.FuncOf(setSelection))
	api.Set("pointerMove", js.FuncOf(pointerMove))

	// Queries
	api.Set("render", js.FuncOf(render))
	api.Set("hitTest", js.FuncOf(hitTest))
	api.Set("project", js.FuncOf(project))
	api.Set("getSelection", js.FuncOf(getSelection))
	api.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	api.Set("getViewState", js.FuncOf(getViewState))
	api.Set("isAnimating", js.FuncOf(isAnimating))

	js.Global().Set("relgraphEngine", api)
	js.Global().Set("relgraphWasmReady", js.ValueOf(true))

	select {}
}

func errorValue(err error) js.Value {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func applySnapshot(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing snapshot JSON"})
	}

	u, err := eng.ApplySnapshot([]byte(args[0].String()))
	if err != nil {
		return errorValue(err)
	}

	return js.ValueOf(map[string]interface{}{
		"ok":             true,
		"revision":       u.Root.ChangeRevision,
		"animated":       u.Animation != nil,
		"interpolations": len(u.Interpolations),
		"fades":          len(u.Fades),
	})
}

func loadSample(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(snapshot.NewSample())
	if err != nil {
		return errorValue(err)
	}
	if _, err := eng.ApplySnapshot(data); err != nil {
		return errorValue(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// tick takes a high-resolution timestamp in milliseconds, as passed to
// requestAnimationFrame callbacks.
func tick(this js.Value, args []js.Value) interface{} {
	now := time.Now()
	if len(args) > 0 && args[0].Type() == js.TypeNumber {
		now = time.UnixMilli(0).Add(time.Duration(args[0].Float() * float64(time.Millisecond)))
	}
	return js.ValueOf(eng.Tick(now))
}

func setCamera(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return nil
	}
	eng.SetCamera(geom.Pt(args[0].Float(), args[1].Float()), args[2].Float())
	return nil
}

func setCanvasBounds(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.SetCanvasBounds(args[0].Float(), args[1].Float())
	return nil
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		if err := eng.SetSelection(nil); err != nil {
			return errorValue(err)
		}
		return nil
	}

	arr := args[0]
	length := arr.Length()
	ids := make([]string, length)
	for i := 0; i < length; i++ {
		ids[i] = arr.Index(i).String()
	}
	if err := eng.SetSelection(ids); err != nil {
		return errorValue(err)
	}
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	buttons := 0
	if len(args) > 2 {
		buttons = args[2].Int()
	}

	action, changed := eng.PointerMove(args[0].Float(), args[1].Float(), buttons)
	if !changed {
		return nil
	}
	data, err := json.Marshal(action)
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(string(data))
}

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.RenderJSON())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(args[0].Float(), args[1].Float()))
}

func project(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf(map[string]interface{}{"error": "missing relation id or point"})
	}
	orthogonal := len(args) > 3 && args[3].Truthy()

	hit, err := eng.Project(args[0].String(), geom.Pt(args[1].Float(), args[2].Float()), orthogonal)
	if err != nil {
		return errorValue(err)
	}
	data, err := json.Marshal(hit)
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(string(data))
}

func getSelection(this js.Value, args []js.Value) interface{} {
	data, _ := json.Marshal(eng.GetSelection())
	return js.ValueOf(string(data))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSelectionBounds())
}

func getViewState(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetViewState())
}

func isAnimating(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Animating())
}
