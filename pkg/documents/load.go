package documents

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/astparser"

	"github.com/wundergraph/persisted-query-ids/pkg/queryid"
)

// Load scans patterns relative to the working directory and parses every file found.
func Load(patterns ...string) ([]queryid.Source, error) {
	scanner, err := NewScanner("")
	if err != nil {
		return nil, err
	}
	return scanner.Load(patterns...)
}

// Load scans patterns and parses every file found. A file comes before the files it imports.
func (s *Scanner) Load(patterns ...string) ([]queryid.Source, error) {
	files, err := s.Scan(patterns...)
	if err != nil {
		return nil, err
	}

	var sources []queryid.Source
	for i := range files {
		if sources, err = s.appendSources(sources, files[i]); err != nil {
			return nil, err
		}
	}
	return sources, nil
}

func (s *Scanner) appendSources(sources []queryid.Source, file File) ([]queryid.Source, error) {
	source, err := s.parse(file.RelativePath)
	if err != nil {
		return nil, err
	}
	sources = append(sources, source)

	for i := range file.Imports {
		if sources, err = s.appendSources(sources, file.Imports[i]); err != nil {
			return nil, err
		}
	}
	return sources, nil
}

func (s *Scanner) parse(relativePath string) (queryid.Source, error) {
	filePath := filepath.FromSlash(relativePath)
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(s.basePath, filePath)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return queryid.Source{}, errors.Wrapf(err, "reading %s", relativePath)
	}

	document, report := astparser.ParseGraphqlDocumentBytes(stripImports(content))
	if report.HasErrors() {
		return queryid.Source{}, errors.Wrapf(&report, "parsing %s", relativePath)
	}

	return queryid.Source{
		Name:     relativePath,
		Document: &document,
	}, nil
}
