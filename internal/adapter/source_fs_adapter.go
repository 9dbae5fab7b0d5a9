// Package adapter contains infrastructure adapters for the clooze CLI:
// filesystem access, Clojure naming rules, test sandboxes and report storage.
package adapter

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"gooze.dev/pkg/clooze/internal/domain/syntax"
	m "gooze.dev/pkg/clooze/internal/model"
)

// ErrProjectRootNotFound is returned when no project marker file is found.
var ErrProjectRootNotFound = errors.New("project root not found")

// ProjectMarkers are the files that identify a Clojure project root.
var ProjectMarkers = []string{"deps.edn", "project.clj", "bb.edn", "shadow-cljs.edn"}

// SourceExtensions are the file extensions treated as mutable Clojure sources.
var SourceExtensions = []string{".clj", ".cljc"}

const tempFilePrefix = ".clooze-"

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when scanning and mutating user projects. It hides direct `os`
// access so the workflow logic can be tested without touching the disk.
type SourceFSAdapter interface {
	// Get discovers the compilation units under roots and pairs each with its
	// test namespaces found under testRoots. Paths matching any exclude regex
	// are ignored. Units without tests are skipped.
	Get(ctx context.Context, roots []m.Path, testRoots []m.Path, exclude ...string) ([]m.Unit, error)

	// ReadFile loads a file and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// WriteFile atomically replaces the file contents, keeping its permissions.
	WriteFile(ctx context.Context, path m.Path, content []byte) error

	// HashFile returns the SHA-256 fingerprint of the file at path.
	HashFile(ctx context.Context, path m.Path) (string, error)

	// FindProjectRoot walks up from startPath looking for a project marker.
	FindProjectRoot(ctx context.Context, startPath m.Path) (m.Path, error)
}

// BillySourceFSAdapter implements SourceFSAdapter on top of a billy.Filesystem.
type BillySourceFSAdapter struct {
	fs      billy.Filesystem
	clojure ClojureFileAdapter
}

// NewSourceFSAdapter constructs a SourceFSAdapter over filesystem. Paths handed
// to it are made absolute, so filesystem must be rooted at "/".
func NewSourceFSAdapter(filesystem billy.Filesystem, clojure ClojureFileAdapter) *BillySourceFSAdapter {
	return &BillySourceFSAdapter{fs: filesystem, clojure: clojure}
}

// NewLocalSourceFSAdapter constructs a SourceFSAdapter backed by the OS filesystem.
func NewLocalSourceFSAdapter() *BillySourceFSAdapter {
	return NewSourceFSAdapter(osfs.New(string(filepath.Separator)), NewLocalClojureFileAdapter())
}

// Get walks the source roots and builds units for every namespace that has a
// matching test namespace. A source that does not parse keeps the namespace
// implied by its path, so scanning reports its syntax error.
func (a *BillySourceFSAdapter) Get(ctx context.Context, roots []m.Path, testRoots []m.Path, exclude ...string) ([]m.Unit, error) {
	patterns, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	files, err := a.collectSources(ctx, roots, patterns)
	if err != nil {
		return nil, err
	}

	units := make([]m.Unit, 0, len(files))

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		unit, ok, err := a.buildUnit(ctx, file.path, file.root, testRoots)
		if err != nil {
			return nil, err
		}

		if ok {
			units = append(units, unit)
		}
	}

	return units, nil
}

func compileExcludes(exclude []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(exclude))

	for _, expr := range exclude {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", expr, err)
		}

		patterns = append(patterns, re)
	}

	return patterns, nil
}

func isExcluded(path string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(path) || re.MatchString(filepath.Base(path)) {
			return true
		}
	}

	return false
}

func isSourceFile(path string) bool {
	ext := filepath.Ext(path)
	for _, candidate := range SourceExtensions {
		if ext == candidate {
			return true
		}
	}

	return false
}

// sourceFile is a discovered source and the root it was found under.
type sourceFile struct {
	path string
	root string
}

// collectSources returns the sorted, de-duplicated absolute source paths.
// A file reachable from several roots keeps the first.
func (a *BillySourceFSAdapter) collectSources(ctx context.Context, roots []m.Path, patterns []*regexp.Regexp) ([]sourceFile, error) {
	seen := make(map[string]string)

	for _, root := range roots {
		abs, err := filepath.Abs(string(root))
		if err != nil {
			return nil, fmt.Errorf("resolve source root %s: %w", root, err)
		}

		if _, err := a.fs.Stat(abs); err != nil {
			return nil, fmt.Errorf("source root %s: %w", root, err)
		}

		err = util.Walk(a.fs, abs, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			if info.IsDir() || !isSourceFile(path) || isExcluded(path, patterns) {
				return nil
			}

			if _, ok := seen[path]; !ok {
				seen[path] = abs
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	files := make([]sourceFile, 0, len(seen))
	for path, root := range seen {
		files = append(files, sourceFile{path: path, root: root})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].path < files[j].path })

	return files, nil
}

func (a *BillySourceFSAdapter) buildUnit(ctx context.Context, path, sourceRoot string, testRoots []m.Path) (m.Unit, bool, error) {
	content, err := a.ReadFile(ctx, m.Path(path))
	if err != nil {
		return m.Unit{}, false, err
	}

	namespace, err := a.namespaceOf(ctx, content, path, sourceRoot)
	if err != nil {
		slog.Warn("Skipping source without a readable namespace", "path", path, "error", err)
		return m.Unit{}, false, nil
	}

	root, err := a.FindProjectRoot(ctx, m.Path(path))
	if err != nil {
		slog.Warn("Skipping source outside a project", "path", path, "error", err)
		return m.Unit{}, false, nil
	}

	test, ok := a.findTest(ctx, namespace, testRootsFor(root, testRoots))
	if !ok {
		slog.Debug("Skipping namespace without tests", "namespace", namespace, "path", path)
		return m.Unit{}, false, nil
	}

	source, err := a.describeFile(ctx, string(root), path)
	if err != nil {
		return m.Unit{}, false, err
	}

	return m.Unit{
		Namespace: namespace,
		Source:    source,
		Tests:     []m.TestUnit{test},
		Root:      root,
	}, true, nil
}

// namespaceOf reads the declared namespace, falling back to the one implied
// by the file's path when the source does not parse.
func (a *BillySourceFSAdapter) namespaceOf(ctx context.Context, content []byte, path, sourceRoot string) (string, error) {
	namespace, err := a.clojure.Namespace(ctx, content)

	var syntaxErr *syntax.SyntaxError
	if err == nil || !errors.As(err, &syntaxErr) {
		return namespace, err
	}

	rel, relErr := filepath.Rel(sourceRoot, path)
	if relErr != nil || rel == "." {
		return "", err
	}

	slog.Debug("Source does not parse; using its path as namespace", "path", path, "error", err)

	return a.clojure.PathToNamespace(rel), nil
}

// testRootsFor resolves relative test roots against both the project root
// and the working directory.
func testRootsFor(projectRoot m.Path, testRoots []m.Path) []string {
	var roots []string

	add := func(root string) {
		for _, existing := range roots {
			if existing == root {
				return
			}
		}

		roots = append(roots, root)
	}

	for _, root := range testRoots {
		if filepath.IsAbs(string(root)) {
			add(filepath.Clean(string(root)))
			continue
		}

		add(filepath.Join(string(projectRoot), string(root)))

		if abs, err := filepath.Abs(string(root)); err == nil {
			add(abs)
		}
	}

	return roots
}

func (a *BillySourceFSAdapter) findTest(ctx context.Context, namespace string, testRoots []string) (m.TestUnit, bool) {
	testNamespace := a.clojure.TestNamespaceFor(namespace)

	for _, root := range testRoots {
		for _, ext := range SourceExtensions {
			candidate := filepath.Join(root, filepath.FromSlash(a.clojure.NamespaceToPath(testNamespace, ext)))

			if _, err := a.fs.Stat(candidate); err != nil {
				continue
			}

			projectRoot, err := a.FindProjectRoot(ctx, m.Path(candidate))
			if err != nil {
				projectRoot = m.Path(root)
			}

			file, err := a.describeFile(ctx, string(projectRoot), candidate)
			if err != nil {
				slog.Warn("Skipping unreadable test file", "path", candidate, "error", err)
				continue
			}

			return m.TestUnit{Namespace: testNamespace, File: file}, true
		}
	}

	return m.TestUnit{}, false
}

func (a *BillySourceFSAdapter) describeFile(ctx context.Context, root, path string) (*m.File, error) {
	hash, err := a.HashFile(ctx, m.Path(path))
	if err != nil {
		return nil, err
	}

	short, err := filepath.Rel(root, path)
	if err != nil {
		short = path
	}

	return &m.File{
		ShortPath: m.Path(short),
		FullPath:  m.Path(path),
		Hash:      hash,
	}, nil
}

// ReadFile loads file contents.
func (a *BillySourceFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := util.ReadFile(a.fs, a.abs(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return content, nil
}

// WriteFile writes content to a temporary sibling and renames it over path.
func (a *BillySourceFSAdapter) WriteFile(ctx context.Context, path m.Path, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := a.abs(path)

	tmp, err := util.TempFile(a.fs, filepath.Dir(target), tempFilePrefix)
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = a.fs.Remove(tmpName)

		return fmt.Errorf("write temp file for %s: %w", path, err)
	}

	if err := tmp.Close(); err != nil {
		_ = a.fs.Remove(tmpName)
		return fmt.Errorf("close temp file for %s: %w", path, err)
	}

	a.syncMode(target, tmpName)

	if err := a.fs.Rename(tmpName, target); err != nil {
		_ = a.fs.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}

	return nil
}

// syncMode copies the permissions of target onto tmp when supported.
func (a *BillySourceFSAdapter) syncMode(target, tmp string) {
	changer, ok := a.fs.(billy.Change)
	if !ok {
		return
	}

	info, err := a.fs.Stat(target)
	if err != nil {
		return
	}

	if err := changer.Chmod(tmp, info.Mode()); err != nil {
		slog.Debug("Failed to sync file mode", "path", target, "error", err)
	}
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *BillySourceFSAdapter) HashFile(ctx context.Context, path m.Path) (string, error) {
	content, err := a.ReadFile(ctx, path)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", sha256.Sum256(content)), nil
}

// FindProjectRoot searches for a project marker walking up the directory tree.
func (a *BillySourceFSAdapter) FindProjectRoot(ctx context.Context, startPath m.Path) (m.Path, error) {
	dir := a.abs(startPath)

	if info, err := a.fs.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		for _, marker := range ProjectMarkers {
			if _, err := a.fs.Stat(filepath.Join(dir, marker)); err == nil {
				return m.Path(dir), nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("stat %s: %w", marker, err)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %v above %s", ErrProjectRootNotFound, ProjectMarkers, startPath)
		}

		dir = parent
	}
}

func (a *BillySourceFSAdapter) abs(path m.Path) string {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return string(path)
	}

	return abs
}
