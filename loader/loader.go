package loader

import (
	"bytes"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/logger"
)

// rawDef holds one curried definition before compilation.
type rawDef struct {
	kind  string
	id    string
	table *lua.LTable
	order int
}

// collector accumulates Lua definitions during file execution.
type collector struct {
	game   *lua.LTable
	player *lua.LTable
	town   []*lua.LTable
	defs   []rawDef
	order  int
}

func (c *collector) nextSourceOrder() int {
	c.order++
	return c.order
}

// Load reads all .lua files from dir. See LoadFS.
func Load(dir string) (*state.Catalog, []string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, nil, errors.Wrapf(err, "reading content directory %s", dir)
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS executes every .lua file at the root of fsys, compiles the
// definitions into a catalog and validates references. It returns the
// validation warnings alongside the catalog. The Lua VM is discarded
// after loading.
func LoadFS(fsys fs.FS) (*state.Catalog, []string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading content")
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, nil, errors.NotFound("no .lua files found")
	}
	luaFiles = sortedLuaFiles(luaFiles)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		data, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "reading %s", f)
		}
		fn, err := L.Load(bytes.NewReader(data), path.Base(f))
		if err != nil {
			return nil, nil, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "parsing %s", f)
		}
		L.Push(fn)
		if err := L.PCall(0, lua.MultRet, nil); err != nil {
			return nil, nil, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "executing %s", f)
		}
	}

	cat, err := compile(coll)
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "compiling game data")
	}

	warnings, err := validate(cat)
	for _, w := range warnings {
		logger.Warning("content warning", "detail", w)
	}
	if err != nil {
		return nil, warnings, errors.WrapWithCode(err, errors.CodeInvalidArgument, "validating game data")
	}
	return cat, warnings, nil
}

// sortedLuaFiles puts game.lua first and the rest in alphabetical order.
func sortedLuaFiles(files []string) []string {
	sort.Slice(files, func(i, j int) bool {
		if files[i] == "game.lua" {
			return files[j] != "game.lua"
		}
		if files[j] == "game.lua" {
			return false
		}
		return files[i] < files[j]
	})
	return files
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Catalog content must not depend on randomness.
	if mathTbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		mathTbl.RawSetString("random", lua.LNil)
		mathTbl.RawSetString("randomseed", lua.LNil)
	}
}
