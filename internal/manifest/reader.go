package manifest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

const (
	// DefaultDependenciesFieldConstant names the manifest field holding SVN dependencies.
	DefaultDependenciesFieldConstant = "svnDependencies"
	// LegacyDependenciesFieldConstant is the misspelled field name read for backward compatibility.
	LegacyDependenciesFieldConstant = "svnDependecies"

	readFailureTemplateConstant       = "%w: %s: %v"
	parseFailureTemplateConstant      = "%w: %s is not valid JSON: %v"
	documentNotObjectTemplateConstant = "%w: %s must contain a JSON object"
	fieldFailureTemplateConstant      = "%w: %s field %q must map names to repository URLs: %v"
)

// ReaderFileSystem exposes the filesystem operations used by Reader.
type ReaderFileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// Manifest is the parsed view of package.json relevant to svn-modules.
type Manifest struct {
	Path         string
	Dependencies map[string]string
}

// ProjectRoot returns the directory containing the manifest.
func (manifest Manifest) ProjectRoot() string {
	return filepath.Dir(manifest.Path)
}

// ReaderOptions configures which manifest fields hold SVN dependencies.
type ReaderOptions struct {
	DependenciesField       string
	LegacyDependenciesField []string
}

// Reader loads the SVN dependency mapping from a manifest.
type Reader struct {
	fileSystem ReaderFileSystem
	options    ReaderOptions
}

// NewReader constructs a Reader. Empty options select the svnDependencies field with the svnDependecies fallback.
func NewReader(fileSystem ReaderFileSystem, options ReaderOptions) *Reader {
	if len(strings.TrimSpace(options.DependenciesField)) == 0 {
		options.DependenciesField = DefaultDependenciesFieldConstant
	}
	if options.LegacyDependenciesField == nil {
		options.LegacyDependenciesField = []string{LegacyDependenciesFieldConstant}
	}
	return &Reader{fileSystem: fileSystem, options: options}
}

// Read parses the manifest at manifestPath. A missing or null dependencies field yields an empty mapping.
// Legacy fields contribute entries only for names the canonical field does not declare.
func (reader *Reader) Read(manifestPath string) (Manifest, error) {
	contents, readError := reader.fileSystem.ReadFile(manifestPath)
	if readError != nil {
		return Manifest{}, fmt.Errorf(readFailureTemplateConstant, ErrManifestUnreadable, manifestPath, readError)
	}

	var document any
	if decodeError := json.Unmarshal(contents, &document); decodeError != nil {
		return Manifest{}, fmt.Errorf(parseFailureTemplateConstant, ErrManifestUnreadable, manifestPath, decodeError)
	}

	documentObject, isObject := document.(map[string]any)
	if !isObject {
		return Manifest{}, fmt.Errorf(documentNotObjectTemplateConstant, ErrManifestUnreadable, manifestPath)
	}

	dependencies, fieldError := reader.decodeField(manifestPath, documentObject, reader.options.DependenciesField)
	if fieldError != nil {
		return Manifest{}, fieldError
	}

	for _, legacyField := range reader.options.LegacyDependenciesField {
		trimmedLegacyField := strings.TrimSpace(legacyField)
		if len(trimmedLegacyField) == 0 || trimmedLegacyField == reader.options.DependenciesField {
			continue
		}
		legacyDependencies, legacyError := reader.decodeField(manifestPath, documentObject, trimmedLegacyField)
		if legacyError != nil {
			return Manifest{}, legacyError
		}
		for dependencyName, specifier := range legacyDependencies {
			if _, declared := dependencies[dependencyName]; !declared {
				dependencies[dependencyName] = specifier
			}
		}
	}

	return Manifest{Path: manifestPath, Dependencies: dependencies}, nil
}

func (reader *Reader) decodeField(manifestPath string, documentObject map[string]any, fieldName string) (map[string]string, error) {
	dependencies := map[string]string{}
	rawField, present := documentObject[fieldName]
	if !present || rawField == nil {
		return dependencies, nil
	}

	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &dependencies})
	if decoderError != nil {
		return nil, fmt.Errorf(fieldFailureTemplateConstant, ErrManifestUnreadable, manifestPath, fieldName, decoderError)
	}
	if decodeError := decoder.Decode(rawField); decodeError != nil {
		return nil, fmt.Errorf(fieldFailureTemplateConstant, ErrManifestUnreadable, manifestPath, fieldName, decodeError)
	}
	return dependencies, nil
}
