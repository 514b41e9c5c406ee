// Package phpparse extracts the declared API of PHP source files into the
// symbols model using tree-sitter.
package phpparse

import (
	"context"
	"errors"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"

	"github.com/emenda-labs/bccheck/core/symbols"
)

// DefaultMaxFileSize bounds the size of a single source file.
const DefaultMaxFileSize = 10 * 1024 * 1024

// ErrFileTooLarge is returned for files above the configured size limit.
var ErrFileTooLarge = errors.New("file too large")

// Result holds the symbols declared in one file.
type Result struct {
	Path      string
	Classes   []*symbols.Class
	Functions []*symbols.Function
	// HasErrors is set when tree-sitter recovered from syntax errors. The
	// symbols found are still returned.
	HasErrors bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxFileSize sets the largest file the parser accepts.
func WithMaxFileSize(bytes int64) Option {
	return func(p *Parser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// Parser extracts symbols from PHP code. It is safe for concurrent use:
// every call creates its own tree-sitter parser.
type Parser struct {
	maxFileSize int64
}

func New(opts ...Option) *Parser {
	p := &Parser{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFile reads and parses path. name is recorded as the declaring file.
func (p *Parser) ParseFile(ctx context.Context, path, name string) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, content, name)
}

// Parse extracts every named class, interface, trait, enum and function
// declared in content. Declarations nested in conditionals are included;
// anonymous classes and declarations inside function bodies are not.
func (p *Parser) Parse(ctx context.Context, content []byte, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if int64(len(content)) > p.maxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, path, len(content), p.maxFileSize)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(php.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	f := &file{
		content: content,
		imports: map[string]string{},
		result:  &Result{Path: path},
	}
	if root == nil {
		return f.result, nil
	}
	f.result.HasErrors = root.HasError()
	f.statements(root)
	return f.result, nil
}
