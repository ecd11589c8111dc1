package script

import (
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/pagewright/internal/history"
	"github.com/dshills/pagewright/internal/markup"
	"github.com/dshills/pagewright/internal/region"
)

// register installs the doc table.
func (r *Runner) register() {
	L := r.L
	mod := L.NewTable()

	fns := map[string]lua.LGFunction{
		"edit":        r.edit,
		"backspace":   r.backspace,
		"header":      r.header,
		"footer":      r.footer,
		"focus":       r.focus,
		"select":      r.selectRange,
		"selection":   r.selection,
		"save":        r.save,
		"save_later":  r.saveLater,
		"undo":        r.undo,
		"redo":        r.redo,
		"can_undo":    r.canUndo,
		"can_redo":    r.canRedo,
		"group":       r.group,
		"zoom":        r.zoom,
		"margins":     r.margins,
		"find":        r.find,
		"replace_all": r.replaceAll,
		"pages":       r.pages,
		"content":     r.content,
		"label":       r.label,
		"settle":      r.settle,
		"advance":     r.advance,
	}
	for name, fn := range fns {
		L.SetField(mod, name, L.NewFunction(fn))
	}
	L.SetGlobal("doc", mod)
}

// edit(order, markup) -> split, pages
func (r *Runner) edit(L *lua.LState) int {
	order := L.CheckInt(1)
	m := L.CheckString(2)

	res := r.doc.OnContentEdited(order, markup.Markup(m))
	if !res.Applied {
		L.RaiseError("edit: no page %d", order)
		return 0
	}
	L.Push(lua.LBool(res.Split))
	L.Push(lua.LNumber(r.doc.PageCount()))
	return 2
}

// backspace(order) -> merged
func (r *Runner) backspace(L *lua.LState) int {
	L.Push(lua.LBool(r.doc.OnBackspaceAtPageStart(L.CheckInt(1))))
	return 1
}

// header(order, text)
func (r *Runner) header(L *lua.LState) int {
	if err := r.doc.OnHeaderEdited(L.CheckInt(1), L.CheckString(2)); err != nil {
		L.RaiseError("header: %v", err)
	}
	return 0
}

// footer(order, text)
func (r *Runner) footer(L *lua.LState) int {
	if err := r.doc.OnFooterEdited(L.CheckInt(1), L.CheckString(2)); err != nil {
		L.RaiseError("footer: %v", err)
	}
	return 0
}

// focus(order, kind)
func (r *Runner) focus(L *lua.LState) int {
	if err := r.doc.Focus(L.CheckInt(1), region.Kind(L.CheckString(2))); err != nil {
		L.RaiseError("focus: %v", err)
	}
	return 0
}

// select(start, end) -> ok
func (r *Runner) selectRange(L *lua.LState) int {
	start := L.CheckInt(1)
	end := L.OptInt(2, start)
	L.Push(lua.LBool(r.doc.Select(start, end)))
	return 1
}

// selection() -> start, end | nil
func (r *Runner) selection(L *lua.LState) int {
	start, end, ok := r.doc.Selection()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(start))
	L.Push(lua.LNumber(end))
	return 2
}

func (r *Runner) checkSave(L *lua.LState) (history.ActionType, region.Kind) {
	action, err := history.ParseAction(L.CheckString(1))
	if err != nil {
		L.RaiseError("save: %v", err)
	}
	var area region.Kind
	if s := L.OptString(2, ""); s != "" {
		k, err := region.ParseKind(s)
		if err != nil {
			L.RaiseError("save: %v", err)
		}
		area = k
	}
	return action, area
}

// save(action [, area]) -> batched
func (r *Runner) save(L *lua.LState) int {
	action, area := r.checkSave(L)
	L.Push(lua.LBool(r.doc.SaveHistory(action, area)))
	return 1
}

// save_later(action [, area])
func (r *Runner) saveLater(L *lua.LState) int {
	action, area := r.checkSave(L)
	r.doc.SaveHistoryDeferred(action, area)
	return 0
}

// undo() -> changed
func (r *Runner) undo(L *lua.LState) int {
	L.Push(lua.LBool(r.doc.Undo()))
	return 1
}

// redo() -> changed
func (r *Runner) redo(L *lua.LState) int {
	L.Push(lua.LBool(r.doc.Redo()))
	return 1
}

func (r *Runner) canUndo(L *lua.LState) int {
	L.Push(lua.LBool(r.doc.CanUndo()))
	return 1
}

func (r *Runner) canRedo(L *lua.LState) int {
	L.Push(lua.LBool(r.doc.CanRedo()))
	return 1
}

// group(name, fn)
func (r *Runner) group(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)

	var callErr error
	r.doc.Group(name, func() {
		callErr = L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	})
	if callErr != nil {
		L.RaiseError("group %s: %v", name, callErr)
	}
	return 0
}

// zoom(percent)
func (r *Runner) zoom(L *lua.LState) int {
	if err := r.doc.SetZoom(float64(L.CheckNumber(1))); err != nil {
		L.RaiseError("zoom: %v", err)
	}
	return 0
}

// margins(name)
func (r *Runner) margins(L *lua.LState) int {
	if err := r.doc.SetMargins(L.CheckString(1)); err != nil {
		L.RaiseError("margins: %v", err)
	}
	return 0
}

// find(query) -> {{page=, index=, length=}, ...}
func (r *Runner) find(L *lua.LState) int {
	matches, err := r.doc.Find(L.CheckString(1))
	if err != nil {
		L.RaiseError("find: %v", err)
		return 0
	}
	t := L.CreateTable(len(matches), 0)
	for _, m := range matches {
		row := L.CreateTable(0, 3)
		row.RawSetString("page", lua.LNumber(m.Page))
		row.RawSetString("index", lua.LNumber(m.Index))
		row.RawSetString("length", lua.LNumber(m.Length))
		t.Append(row)
	}
	L.Push(t)
	return 1
}

// replace_all(query, replacement) -> count
func (r *Runner) replaceAll(L *lua.LState) int {
	n, err := r.doc.ReplaceAll(L.CheckString(1), L.CheckString(2))
	if err != nil {
		L.RaiseError("replace_all: %v", err)
		return 0
	}
	L.Push(lua.LNumber(n))
	return 1
}

// pages() -> count
func (r *Runner) pages(L *lua.LState) int {
	L.Push(lua.LNumber(r.doc.PageCount()))
	return 1
}

// content(order [, kind]) -> markup
func (r *Runner) content(L *lua.LState) int {
	p, ok := r.doc.Page(L.CheckInt(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	switch region.Kind(L.OptString(2, string(region.Content))) {
	case region.Header:
		L.Push(lua.LString(p.Header))
	case region.Footer:
		L.Push(lua.LString(p.Footer))
	default:
		L.Push(lua.LString(p.Content))
	}
	return 1
}

// label(order) -> "Page N of M"
func (r *Runner) label(L *lua.LState) int {
	L.Push(lua.LString(r.doc.Label(L.CheckInt(1))))
	return 1
}

// settle() -> continuations run
func (r *Runner) settle(L *lua.LState) int {
	L.Push(lua.LNumber(r.doc.Settle()))
	return 1
}

// advance(ms)
func (r *Runner) advance(L *lua.LState) int {
	if r.clock == nil {
		L.RaiseError("advance: no manual clock")
		return 0
	}
	r.clock.Advance(time.Duration(L.CheckNumber(1)) * time.Millisecond)
	return 0
}
