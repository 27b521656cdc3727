package storage

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtnitsch/wordfreq/internal/common"
	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/fetcher"
	"github.com/dtnitsch/wordfreq/pkg/parser"
)

// ErrInputNotFound is returned when the input path does not exist.
var ErrInputNotFound = errors.New("input not found")

// Storage reads the corpus from local files or remote URLs.
type Storage struct {
	Fetcher *fetcher.Fetcher
	Parser  *parser.Parser
}

// New returns a Storage with the default fetcher and parser.
func New() *Storage {
	return &Storage{Fetcher: fetcher.NewFetcher(), Parser: &parser.Parser{}}
}

// Source describes where the loaded lines came from.
type Source struct {
	Path      string
	Format    models.InputFormat // resolved, never auto
	SizeBytes int64
	Checksum  string
}

// LoadLines reads the input and returns one LineRecord per line.
// Plain text is split on "\n" with a trailing "\r" removed; HTML is reduced to
// one line per content block.
func (s *Storage) LoadLines(ctx context.Context, path string, format models.InputFormat) ([]models.LineRecord, *Source, error) {
	var (
		data      []byte
		mediaHTML bool
		err       error
	)

	if common.IsRemote(path) {
		if s.Fetcher == nil {
			s.Fetcher = fetcher.NewFetcher()
		}
		resp, ferr := s.Fetcher.Get(ctx, path)
		if ferr != nil {
			return nil, nil, fmt.Errorf("error fetching input: %w", ferr)
		}
		data = resp.Body
		mediaHTML = resp.IsHTML()
	} else {
		data, err = s.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
	}

	src := &Source{
		Path:      path,
		Format:    resolveFormat(path, format, mediaHTML),
		SizeBytes: int64(len(data)),
		Checksum:  common.ContentHash(data),
	}

	var texts []string
	switch src.Format {
	case models.InputFormatHTML:
		if s.Parser == nil {
			s.Parser = &parser.Parser{}
		}
		texts, err = s.Parser.ExtractLines(pageURL(path), string(data))
		if err != nil {
			return nil, nil, fmt.Errorf("error extracting text from HTML: %w", err)
		}
	default:
		texts, err = ReadLines(bytes.NewReader(data))
		if err != nil {
			return nil, nil, fmt.Errorf("error reading lines: %w", err)
		}
	}

	return models.Lines(texts...), src, nil
}

// ReadLines splits r into lines without any length limit.
// "\n", "\r\n" and a lone "\r" all end a line.
func ReadLines(r io.Reader) ([]string, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	var lines []string
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			lines = append(lines, strings.Split(line, "\r")...)
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func resolveFormat(path string, format models.InputFormat, mediaHTML bool) models.InputFormat {
	if format == models.InputFormatText || format == models.InputFormatHTML {
		return format
	}
	if mediaHTML {
		return models.InputFormatHTML
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return models.InputFormatHTML
	}
	return models.InputFormatText
}

func pageURL(path string) string {
	if common.IsRemote(path) {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + filepath.ToSlash(abs)
}

// ReadFile reads a local input file; a missing file yields ErrInputNotFound.
func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}
