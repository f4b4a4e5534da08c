// Package documents finds GraphQL documents on disk, follows their import comments and parses them.
//
// A document may import other documents with a comment:
//
//	#import "../fragments/*.graphql"
//
// Import paths are relative to the importing file and may contain glob patterns.
package documents

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

var (
	importStatementRegex = regexp.MustCompile(`(#import "[^";]+")`)
	importCommentRegex   = regexp.MustCompile(`#import "[^";]+"[^\r\n]*`)
	pathStatementRegex   = regexp.MustCompile(`"(.*?)"`)
)

// ImportCycleError is returned when a file imports itself directly or through other files.
type ImportCycleError struct {
	Path string
}

func (e *ImportCycleError) Error() string {
	return "file forms import cycle: " + e.Path
}

// File is a document on disk together with the files it imports.
type File struct {
	RelativePath string
	Imports      []File
}

// Scanner resolves glob patterns and import comments into a tree of Files.
// Every file is returned once even if it is matched or imported several times.
type Scanner struct {
	basePath  string
	importing map[string]struct{}
	scanned   map[string]struct{}
}

// NewScanner returns a Scanner resolving relative paths against basePath,
// the working directory if basePath is empty.
func NewScanner(basePath string) (*Scanner, error) {
	if basePath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		basePath = wd
	}
	absoluteBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}
	return &Scanner{
		basePath: absoluteBasePath,
	}, nil
}

// Scan returns the files matched by patterns in pattern order. Matches of one pattern are in lexical order.
// A "**" path segment matches any number of directories, including none.
func (s *Scanner) Scan(patterns ...string) ([]File, error) {
	s.importing = map[string]struct{}{}
	s.scanned = map[string]struct{}{}

	var out []File
	for _, pattern := range patterns {
		expanded, err := homedir.Expand(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "expanding pattern %s", pattern)
		}
		files, err := s.filesForPattern(expanded)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

func (s *Scanner) filesForPattern(pattern string) ([]File, error) {
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(s.basePath, pattern)
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, errors.Wrapf(err, "expanding pattern %s", pattern)
	}
	sort.Strings(matches)

	out := make([]File, 0, len(matches))
	for _, match := range matches {
		file, err := s.scanFile(match)
		if err != nil {
			return nil, err
		}
		if file == nil {
			continue
		}
		out = append(out, *file)
	}
	return out, nil
}

func (s *Scanner) scanFile(absoluteFilePath string) (*File, error) {
	relativeFilePath, err := filepath.Rel(s.basePath, absoluteFilePath)
	if err != nil {
		relativeFilePath = absoluteFilePath
	}
	relativeFilePath = filepath.ToSlash(relativeFilePath)

	if _, exists := s.importing[relativeFilePath]; exists {
		return nil, &ImportCycleError{Path: relativeFilePath}
	}
	if _, exists := s.scanned[relativeFilePath]; exists {
		return nil, nil
	}

	s.importing[relativeFilePath] = struct{}{}
	defer delete(s.importing, relativeFilePath)
	s.scanned[relativeFilePath] = struct{}{}

	content, err := os.ReadFile(absoluteFilePath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", relativeFilePath)
	}

	file := &File{
		RelativePath: relativeFilePath,
	}

	fileDir := filepath.Dir(absoluteFilePath)
	for _, statement := range importStatementRegex.FindAll(content, -1) {
		importFilePath := importPath(string(statement))
		if importFilePath == "" {
			continue
		}
		imports, err := s.filesForPattern(filepath.Join(fileDir, filepath.FromSlash(importFilePath)))
		if err != nil {
			return nil, err
		}
		file.Imports = append(file.Imports, imports...)
	}

	return file, nil
}

func importPath(importStatement string) string {
	out := pathStatementRegex.FindString(importStatement)
	return strings.Trim(out, "\"")
}

// stripImports replaces every import comment with spaces up to the end of its line.
// Code in front of the comment and all line and column numbers stay unchanged.
func stripImports(content []byte) []byte {
	return importCommentRegex.ReplaceAllFunc(content, func(comment []byte) []byte {
		return bytes.Repeat([]byte(" "), len(comment))
	})
}
