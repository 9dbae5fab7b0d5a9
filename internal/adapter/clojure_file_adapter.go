package adapter

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"gooze.dev/pkg/clooze/internal/domain/syntax"
)

// ErrNoNamespace is returned when a file does not declare a namespace.
var ErrNoNamespace = errors.New("no ns form found")

const testNamespaceSuffix = "-test"

// ClojureFileAdapter encapsulates Clojure-specific parsing and naming rules so
// the domain layer can focus on mutation rules.
type ClojureFileAdapter interface {
	// Parse builds a lossless syntax tree for the provided source bytes.
	Parse(ctx context.Context, src []byte) (*syntax.Node, error)

	// Namespace returns the name declared by the first (ns ...) form.
	Namespace(ctx context.Context, src []byte) (string, error)

	// NamespaceToPath converts a namespace to its relative file path with
	// the given extension, e.g. foo.bar-baz -> foo/bar_baz.clj.
	NamespaceToPath(namespace, ext string) string

	// TestNamespaceFor returns the conventional test namespace of namespace.
	TestNamespaceFor(namespace string) string

	// PathToNamespace is the inverse of NamespaceToPath for a path relative
	// to its source root, e.g. foo/bar_baz.clj -> foo.bar-baz.
	PathToNamespace(rel string) string
}

// LocalClojureFileAdapter is the ClojureFileAdapter backed by the syntax package.
type LocalClojureFileAdapter struct{}

// NewLocalClojureFileAdapter constructs a LocalClojureFileAdapter.
func NewLocalClojureFileAdapter() *LocalClojureFileAdapter {
	return &LocalClojureFileAdapter{}
}

// Parse builds a syntax tree for src.
func (a *LocalClojureFileAdapter) Parse(ctx context.Context, src []byte) (*syntax.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return syntax.Parse(string(src))
}

// Namespace extracts the namespace name from the first ns form.
func (a *LocalClojureFileAdapter) Namespace(ctx context.Context, src []byte) (string, error) {
	root, err := a.Parse(ctx, src)
	if err != nil {
		return "", err
	}

	for _, form := range root.Forms() {
		head, ok := form.CallHead()
		if !ok || (head != "ns" && head != "clojure.core/ns") {
			continue
		}

		forms := form.Forms()
		if len(forms) < 2 {
			return "", fmt.Errorf("%w: ns form without a name", ErrNoNamespace)
		}

		if name, ok := namespaceName(forms[1]); ok {
			return name, nil
		}

		return "", fmt.Errorf("%w: unreadable ns name %q", ErrNoNamespace, forms[1].String())
	}

	return "", ErrNoNamespace
}

// namespaceName reads a symbol, looking through metadata: (ns ^:no-doc foo).
func namespaceName(n *syntax.Node) (string, bool) {
	for n.Tag == syntax.TagMeta {
		forms := n.Forms()
		if len(forms) == 0 {
			return "", false
		}

		n = forms[len(forms)-1]
	}

	return n.SymbolName()
}

// NamespaceToPath munges a namespace into a relative slash-separated path.
func (a *LocalClojureFileAdapter) NamespaceToPath(namespace, ext string) string {
	munged := strings.ReplaceAll(namespace, "-", "_")
	return path.Join(strings.Split(munged, ".")...) + ext
}

// PathToNamespace demunges a relative source path into a namespace name.
func (a *LocalClojureFileAdapter) PathToNamespace(rel string) string {
	rel = strings.TrimSuffix(filepath.ToSlash(rel), path.Ext(rel))
	rel = strings.Trim(rel, "/")

	return strings.ReplaceAll(strings.ReplaceAll(rel, "/", "."), "_", "-")
}

// TestNamespaceFor appends the conventional -test suffix.
func (a *LocalClojureFileAdapter) TestNamespaceFor(namespace string) string {
	return namespace + testNamespaceSuffix
}
