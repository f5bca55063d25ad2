package catalog

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.json
var defaultCatalog []byte

// Default returns the built-in catalog describing the operations of the
// local engine.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads a catalog from a CyberChef OperationConfig.json file or an
// equivalent YAML document.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Load reads a catalog from r.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog document. The document must be a single mapping
// from operation name to descriptor. JSON is accepted as a YAML subset;
// decoding walks the node tree so key order is preserved.
func Parse(data []byte) (*Catalog, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return New(nil)
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: top level must be a mapping", ErrInvalidCatalog, doc.Line)
	}

	entries := make([]Entry, 0, len(doc.Content)/2)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, value := doc.Content[i], doc.Content[i+1]
		desc := &Descriptor{}
		if err := value.Decode(desc); err != nil {
			return nil, fmt.Errorf("%w: operation %q: %v", ErrInvalidCatalog, key.Value, err)
		}
		entries = append(entries, Entry{Name: key.Value, Descriptor: desc})
	}
	return New(entries)
}
