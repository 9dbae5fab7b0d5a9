// Package model defines the data structures for mutation testing.
package model

// Path represents a file system path.
type Path string

// File represents a source code file.
type File struct {
	ShortPath Path
	FullPath  Path
	Hash      string
}

// TestUnit is a test namespace that exercises a compilation unit.
type TestUnit struct {
	Namespace string
	File      *File
}

// Unit represents a compilation unit (one Clojure namespace) together with
// the test namespaces associated with it.
type Unit struct {
	Namespace string
	Source    *File
	Tests     []TestUnit
	// Root is the project directory the unit's tests are run from.
	Root Path
}

// TestNamespaces returns the namespaces of the unit's tests in order.
func (u Unit) TestNamespaces() []string {
	namespaces := make([]string, 0, len(u.Tests))
	for _, test := range u.Tests {
		namespaces = append(namespaces, test.Namespace)
	}

	return namespaces
}

// TestPaths returns the file paths of the unit's tests in order.
func (u Unit) TestPaths() []Path {
	paths := make([]Path, 0, len(u.Tests))

	for _, test := range u.Tests {
		if test.File == nil {
			continue
		}

		paths = append(paths, test.File.FullPath)
	}

	return paths
}

// SourcePath returns the full path of the unit source, or "" when unset.
func (u Unit) SourcePath() Path {
	if u.Source == nil {
		return ""
	}

	return u.Source.FullPath
}
