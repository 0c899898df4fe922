// Package catalog maps file extensions to type tags for subjectsort.
package catalog

import (
	"strings"

	"subjectsort/internal/normalizer"
)

// Default type tag names.
const (
	PDF           = "pdf"
	WordDocuments = "word-documents"
	Presentations = "presentations"
	Images        = "images"
	Diagrams      = "diagrams"
	Archives      = "archives"
	SourceCode    = "source-code"
)

// TypeTag is a named file-type bucket with its associated extensions.
// Extensions carry the leading dot.
type TypeTag struct {
	Name       string
	Extensions []string
}

// Catalog is an ordered, immutable list of type tags.
// Lookups walk the tags in declaration order and the first tag that lists the
// extension wins; overlapping extension sets are allowed.
type Catalog struct {
	tags []TypeTag
}

// New builds a catalog from tags, keeping their order.
// Extensions are folded and given a leading dot if they lack one.
func New(tags []TypeTag) *Catalog {
	c := &Catalog{tags: make([]TypeTag, 0, len(tags))}
	for _, tag := range tags {
		exts := make([]string, 0, len(tag.Extensions))
		for _, ext := range tag.Extensions {
			if ext = NormalizeExtension(ext); ext != "" {
				exts = append(exts, ext)
			}
		}
		c.tags = append(c.tags, TypeTag{Name: tag.Name, Extensions: exts})
	}
	return c
}

// DefaultTags returns the built-in type tags in their declaration order.
func DefaultTags() []TypeTag {
	return []TypeTag{
		{Name: PDF, Extensions: []string{".pdf"}},
		{Name: WordDocuments, Extensions: []string{".doc", ".docx"}},
		{Name: Presentations, Extensions: []string{".ppt", ".pptx"}},
		{Name: Images, Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff"}},
		{Name: Diagrams, Extensions: []string{".vsd", ".vsdx", ".drawio", ".lnk", ".xml"}},
		{Name: Archives, Extensions: []string{".zip", ".rar", ".7z", ".tar", ".gz"}},
		{Name: SourceCode, Extensions: []string{".py", ".java", ".c", ".cpp", ".js", ".html", ".css"}},
	}
}

// Default returns a catalog with the built-in type tags.
func Default() *Catalog {
	return New(DefaultTags())
}

// Classify returns the first type tag whose extension set contains ext.
// The comparison is case-insensitive. An empty extension never matches.
func (c *Catalog) Classify(ext string) (TypeTag, bool) {
	ext = NormalizeExtension(ext)
	if ext == "" {
		return TypeTag{}, false
	}
	for _, tag := range c.tags {
		for _, candidate := range tag.Extensions {
			if candidate == ext {
				return tag, true
			}
		}
	}
	return TypeTag{}, false
}

// Has reports whether the catalog declares a tag with the given name.
func (c *Catalog) Has(name string) bool {
	for _, tag := range c.tags {
		if tag.Name == name {
			return true
		}
	}
	return false
}

// Tags returns a copy of the catalog's tags in declaration order.
func (c *Catalog) Tags() []TypeTag {
	out := make([]TypeTag, len(c.tags))
	for i, tag := range c.tags {
		out[i] = TypeTag{Name: tag.Name, Extensions: append([]string(nil), tag.Extensions...)}
	}
	return out
}

// Names returns the tag names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.tags))
	for i, tag := range c.tags {
		names[i] = tag.Name
	}
	return names
}

// NormalizeExtension folds ext and ensures it starts with a dot.
// Whitespace-only input yields "".
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return normalizer.Fold(ext)
}
