package dpipes

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Definition is a composable, YAML-defined pipeline definition.
type Definition struct {
	// Name is the pipeline identifier.
	Name string `yaml:"name" mapstructure:"name" validate:"required"`
	// Includes lists sub-pipeline names composed as leading stages (recursive).
	Includes []string `yaml:"includes,omitempty" mapstructure:"includes"`
	// Stages defines the pipeline's stage specifications, in execution order.
	Stages []StageDef `yaml:"stages" mapstructure:"stages" validate:"required_without=Includes,dive"`
}

// StageDef defines one stage within a pipeline definition.
type StageDef struct {
	// Func is the registry lookup key for this stage's pipe function.
	Func string `yaml:"func" mapstructure:"func" validate:"required"`
	// Args holds the stage's keyword arguments.
	Args map[string]any `yaml:"args,omitempty" mapstructure:"args"`
	// Cols is the stage's column selection: a column name or a list of names.
	Cols any `yaml:"cols,omitempty" mapstructure:"cols"`
}

var (
	defValidator     *validator.Validate
	defValidatorOnce sync.Once
)

// validateDefinition checks a Definition against its struct tags.
func validateDefinition(def *Definition) error {
	defValidatorOnce.Do(func() {
		defValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return defValidator.Struct(def)
}

// Loader loads pipeline definitions by name.
type Loader interface {
	Load(name string) (*Definition, error)
}

// FileLoader loads definitions from YAML files on disk.
type FileLoader struct {
	dirs []string
}

// NewFileLoader creates a loader that searches the given directories for
// definition YAML files.
func NewFileLoader(dirs ...string) *FileLoader {
	return &FileLoader{dirs: dirs}
}

// Load searches for a definition YAML file by name across configured
// directories. It searches for {name}.yaml and {name}.yml in each directory,
// then in subdirectories.
func (l *FileLoader) Load(name string) (*Definition, error) {
	for _, dir := range l.dirs {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, name+ext)
			if def, err := loadDefinitionFile(path); err == nil {
				return def, nil
			}

			matches, _ := filepath.Glob(filepath.Join(dir, "**", name+ext))
			for _, match := range matches {
				if def, err := loadDefinitionFile(match); err == nil {
					return def, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("dpipes: definition %q not found in %v", name, l.dirs)
}

// LoadDefinition loads a definition from explicit file paths.
// It tries each path until one succeeds.
func LoadDefinition(name string, paths ...string) (*Definition, error) {
	for _, path := range paths {
		def, err := loadDefinitionFile(path)
		if err == nil {
			return def, nil
		}
	}
	return nil, fmt.Errorf("dpipes: definition %q not found in provided paths", name)
}

func loadDefinitionFile(path string) (*Definition, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("dpipes: parsing %s: %w", path, err)
	}

	var def Definition
	if err := v.Unmarshal(&def); err != nil {
		return nil, fmt.Errorf("dpipes: decoding %s: %w", path, err)
	}
	if err := validateDefinition(&def); err != nil {
		return nil, fmt.Errorf("dpipes: invalid definition %s: %w", path, err)
	}
	return &def, nil
}

// Build converts a Definition into a composed Pipeline. Includes resolve
// recursively through the loader and become leading stages, in include
// order, followed by the definition's own stages. Pipe functions are looked
// up in the registry by name.
func Build[T any](def *Definition, registry *Registry[T], loader Loader) (*Pipeline[T], error) {
	stack := make(map[string]bool) // current recursion path (cycle detection)
	return build(def, registry, loader, stack)
}

func build[T any](def *Definition, registry *Registry[T], loader Loader, stack map[string]bool) (*Pipeline[T], error) {
	if stack[def.Name] {
		return nil, fmt.Errorf("dpipes: circular include detected for definition %q", def.Name)
	}
	stack[def.Name] = true
	defer delete(stack, def.Name)

	var funcs []Func[T]
	var stageArgs []Args

	for _, includeName := range def.Includes {
		if loader == nil {
			return nil, fmt.Errorf("dpipes: definition %q has includes but no loader was given", def.Name)
		}
		sub, err := loader.Load(includeName)
		if err != nil {
			return nil, fmt.Errorf("dpipes: loading include %q: %w", includeName, err)
		}
		subPipeline, err := build(sub, registry, loader, stack)
		if err != nil {
			return nil, err
		}
		funcs = append(funcs, subPipeline.Stage)
		stageArgs = append(stageArgs, nil)
	}

	for _, sd := range def.Stages {
		fn, ok := registry.Get(sd.Func)
		if !ok {
			return nil, fmt.Errorf("dpipes: func %q not found in registry", sd.Func)
		}

		args := Args(sd.Args).Clone()
		if sd.Cols != nil {
			selection, err := normalizeColsValue(sd.Cols)
			if err != nil {
				return nil, fmt.Errorf("dpipes: definition %q, stage %q: %w", def.Name, sd.Func, err)
			}
			args[ColsKey] = selection
		}

		funcs = append(funcs, fn)
		stageArgs = append(stageArgs, args)
	}

	return New(funcs, WithName(def.Name), WithStageArgs(stageArgs...))
}

// normalizeColsValue maps a decoded YAML cols value onto the selection forms
// pipe functions accept: a string or a []string.
func normalizeColsValue(raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []string:
		return v, nil
	case []any:
		names := make([]string, len(v))
		for i, item := range v {
			name, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("cols[%d]: expected string, got %T", i, item)
			}
			names[i] = name
		}
		return names, nil
	default:
		return nil, fmt.Errorf("cols: expected string or list of strings, got %T", raw)
	}
}
