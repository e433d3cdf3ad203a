// Package scan builds the source model from source files using tree-sitter
// grammars. Languages are detected with enry; Java and Go are supported.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/src-d/enry/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/codebridge/pkg/model"
)

// Sentinel errors.
var (
	ErrUnsupportedLanguage  = errors.New("unsupported language")
	ErrLanguageNotAvailable = errors.New("tree-sitter language not available")
	ErrNoRootNode           = errors.New("no root node")
	errPoolType             = errors.New("unexpected parser pool type")
)

// grammar is a loaded tree-sitter language with its parser pool.
type grammar struct {
	pool    sync.Pool
	extract extractFunc
}

// Scanner parses files into source-model classes. It is safe for concurrent use.
type Scanner struct {
	logger   *slog.Logger
	mu       sync.Mutex
	grammars map[string]*grammar
}

// Option configures a [Scanner].
type Option func(*Scanner)

// WithLogger sets the scanner's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScanner creates a Scanner. Grammars are loaded on first use.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		logger:   slog.Default(),
		grammars: make(map[string]*grammar),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Detect returns the language of filename as reported by enry, or "" when
// it is not one of the supported languages.
func (s *Scanner) Detect(filename string, content []byte) string {
	lang := enry.GetLanguage(filepath.Base(filename), content)
	if _, ok := extractors[lang]; !ok {
		return ""
	}

	return lang
}

// IsSupported reports whether filename's extension maps to a supported language.
func (s *Scanner) IsSupported(filename string) bool {
	lang, _ := enry.GetLanguageByExtension(filename)
	_, ok := extractors[lang]

	return ok
}

// Scan parses content and returns the classes it declares, in source order.
func (s *Scanner) Scan(ctx context.Context, filename string, content []byte) ([]*model.Class, error) {
	lang := s.Detect(filename, content)
	if lang == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, filename)
	}

	return s.ScanLanguage(ctx, lang, content)
}

// ScanLanguage parses content as lang, skipping detection.
func (s *Scanner) ScanLanguage(ctx context.Context, lang string, content []byte) ([]*model.Class, error) {
	gram, err := s.loadGrammar(lang)
	if err != nil {
		return nil, err
	}

	tsParser, ok := gram.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer gram.pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("scan: failed to parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, ErrNoRootNode
	}

	classes := gram.extract(root, content)
	stampLanguage(classes, lang)

	return classes, nil
}

// ScanFiles reads and scans paths with up to workers goroutines (default
// runtime.NumCPU). Classes are returned grouped by file in input order.
// Unsupported files are skipped with a debug log.
func (s *Scanner) ScanFiles(ctx context.Context, paths []string, workers int) ([]*model.Class, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	perFile := make([][]*model.Class, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			classes, err := s.Scan(gctx, path, content)
			if errors.Is(err, ErrUnsupportedLanguage) {
				s.logger.DebugContext(gctx, "skipping unsupported file", "path", path)

				return nil
			}

			if err != nil {
				return fmt.Errorf("scan %s: %w", path, err)
			}

			perFile[i] = classes

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	var out []*model.Class
	for _, classes := range perFile {
		out = append(out, classes...)
	}

	return out, nil
}

// Collect walks dir and returns every file with a supported extension,
// skipping hidden directories.
func (s *Scanner) Collect(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != dir && len(d.Name()) > 1 && d.Name()[0] == '.' {
				return filepath.SkipDir
			}

			return nil
		}

		if s.IsSupported(path) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", dir, err)
	}

	return files, nil
}

func (s *Scanner) loadGrammar(lang string) (*grammar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gram, ok := s.grammars[lang]; ok {
		return gram, nil
	}

	extract, ok := extractors[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}

	tsLang := getLanguage(lang)
	if tsLang == nil {
		return nil, fmt.Errorf("%w: %s", ErrLanguageNotAvailable, lang)
	}

	gram := &grammar{extract: extract}
	gram.pool.New = func() any {
		tsParser := sitter.NewParser()
		tsParser.SetLanguage(tsLang)

		return tsParser
	}

	s.grammars[lang] = gram

	return gram, nil
}
