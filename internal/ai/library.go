package ai

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed configs/*.json
var configFiles embed.FS

const schemaPath = "configs/archetype.schema.json"

// Archetype is the compiled, immutable form of one authoring config. All
// agents of the archetype share it; per-agent state lives on the Agent.
type Archetype struct {
	name     string
	keys     *KeyTable
	refs     keyRefs
	steering steeringConfig
	initial  []initialValue
	usesPath bool

	sensors                 []compiledSensor
	targetSensorParams      []targetSensorParams
	healthSensorParams      []healthSensorParams
	collectibleSensorParams []collectibleSensorParams
	threatSensorParams      []threatSensorParams
	tacticSensorParams      []tacticSensorParams

	nodes []hfsmNode
	root  nodeIndex

	waitParams    []waitParams
	wanderParams  []wanderParams
	engageParams  []engageParams
	strafeParams  []strafeParams
	fleeParams    []fleeParams
	collectParams []collectParams

	healthDecisionParams []healthDecisionParams
	timerDecisionParams  []timerDecisionParams
	threatDecisionParams []threatDecisionParams
	tacticDecisionParams []tacticDecisionParams
	randomDecisionParams []randomDecisionParams
}

// Name returns the archetype identifier.
func (a *Archetype) Name() string {
	if a == nil {
		return ""
	}
	return a.name
}

// RequiresPaths reports whether any state of this archetype patrols, which
// means agents can only attach when a path provider is configured.
func (a *Archetype) RequiresPaths() bool {
	if a == nil {
		return false
	}
	return a.usesPath
}

// Keys exposes the compiled key table for snapshots and debugging.
func (a *Archetype) Keys() *KeyTable {
	if a == nil {
		return nil
	}
	return a.keys
}

// Library holds every compiled archetype, keyed by name.
type Library struct {
	archetypes map[string]*Archetype
}

// LoadLibrary validates and compiles the embedded archetype configs.
func LoadLibrary() (*Library, error) {
	return loadLibraryFS(configFiles)
}

// MustLoadLibrary is LoadLibrary for initialization paths where a broken
// embedded config is unrecoverable.
func MustLoadLibrary() *Library {
	lib, err := LoadLibrary()
	if err != nil {
		panic(err)
	}
	return lib
}

func loadLibraryFS(files fs.FS) (*Library, error) {
	schema, err := loadSchema(files)
	if err != nil {
		return nil, err
	}

	entries, err := fs.Glob(files, "configs/*.json")
	if err != nil {
		return nil, fmt.Errorf("list archetype configs: %w", err)
	}
	sort.Strings(entries)

	lib := &Library{archetypes: make(map[string]*Archetype)}
	for _, name := range entries {
		if name == schemaPath {
			continue
		}
		raw, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		arch, err := compileConfig(schema, name, raw)
		if err != nil {
			return nil, err
		}
		if _, dup := lib.archetypes[arch.name]; dup {
			return nil, fmt.Errorf("%s: duplicate archetype name %q", name, arch.name)
		}
		lib.archetypes[arch.name] = arch
	}
	if len(lib.archetypes) == 0 {
		return nil, fmt.Errorf("no archetype configs found")
	}
	return lib, nil
}

func loadSchema(files fs.FS) (*jsonschema.Schema, error) {
	raw, err := fs.ReadFile(files, schemaPath)
	if err != nil {
		return nil, fmt.Errorf("read archetype schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(path.Base(schemaPath), bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("register archetype schema: %w", err)
	}
	schema, err := compiler.Compile(path.Base(schemaPath))
	if err != nil {
		return nil, fmt.Errorf("compile archetype schema: %w", err)
	}
	return schema, nil
}

func compileConfig(schema *jsonschema.Schema, source string, raw []byte) (*Archetype, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%s: parse: %w", source, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%s: schema: %w", source, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	var cfg archetypeConfig
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", source, err)
	}

	arch, err := compileArchetype(&cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return arch, nil
}

// Archetype resolves a compiled archetype by name.
func (l *Library) Archetype(name string) (*Archetype, bool) {
	if l == nil {
		return nil, false
	}
	arch, ok := l.archetypes[name]
	return arch, ok
}

// Names returns the sorted archetype names.
func (l *Library) Names() []string {
	if l == nil {
		return nil
	}
	names := make([]string, 0, len(l.archetypes))
	for name := range l.archetypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
