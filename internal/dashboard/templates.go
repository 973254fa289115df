package dashboard

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"path"
	"sync"
)

//go:embed templates/*.html static/*
var embeddedFS embed.FS

// layoutTemplate wraps every page; pages define the "content" block.
const layoutTemplate = "layout.html"

// TemplateProvider abstracts template loading and execution.
// Production uses EmbeddedTemplateProvider; tests may use MockTemplateProvider.
type TemplateProvider interface {
	// ExecuteTemplate renders the named page with data.
	ExecuteTemplate(w io.Writer, name string, data interface{}) error
}

// EmbeddedTemplateProvider parses each page together with the shared
// layout and caches the result.
type EmbeddedTemplateProvider struct {
	fs      fs.FS
	baseDir string

	mu    sync.Mutex
	cache map[string]*template.Template
}

// NewEmbeddedTemplateProvider creates a provider over fsys.
func NewEmbeddedTemplateProvider(fsys fs.FS, baseDir string) *EmbeddedTemplateProvider {
	return &EmbeddedTemplateProvider{
		fs:      fsys,
		baseDir: baseDir,
		cache:   make(map[string]*template.Template),
	}
}

// GetTemplate parses and caches the page name with the layout.
func (p *EmbeddedTemplateProvider) GetTemplate(name string) (*template.Template, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t, ok := p.cache[name]; ok {
		return t, nil
	}
	t, err := template.ParseFS(p.fs, path.Join(p.baseDir, layoutTemplate), path.Join(p.baseDir, name))
	if err != nil {
		return nil, err
	}
	p.cache[name] = t
	return t, nil
}

// ExecuteTemplate renders the layout with the page's content block.
func (p *EmbeddedTemplateProvider) ExecuteTemplate(w io.Writer, name string, data interface{}) error {
	t, err := p.GetTemplate(name)
	if err != nil {
		return err
	}
	return t.ExecuteTemplate(w, layoutTemplate, data)
}

// MockTemplateProvider renders standalone templates for testing.
type MockTemplateProvider struct {
	Templates    map[string]string
	ExecuteError error
	ExecuteCalls []executeCall
}

type executeCall struct {
	Name string
	Data interface{}
}

// NewMockTemplateProvider creates a mock provider with predefined templates.
func NewMockTemplateProvider(templates map[string]string) *MockTemplateProvider {
	return &MockTemplateProvider{Templates: templates}
}

// ExecuteTemplate records the call and executes the template.
func (m *MockTemplateProvider) ExecuteTemplate(w io.Writer, name string, data interface{}) error {
	m.ExecuteCalls = append(m.ExecuteCalls, executeCall{Name: name, Data: data})
	if m.ExecuteError != nil {
		return m.ExecuteError
	}
	content, ok := m.Templates[name]
	if !ok {
		return fs.ErrNotExist
	}
	t, err := template.New(name).Parse(content)
	if err != nil {
		return err
	}
	return t.Execute(w, data)
}

// AssetProvider abstracts static asset serving for testability.
type AssetProvider interface {
	ReadFile(name string) ([]byte, error)
}

// EmbeddedAssetProvider serves assets from an embedded filesystem.
type EmbeddedAssetProvider struct {
	fs      fs.FS
	baseDir string
}

// NewEmbeddedAssetProvider creates a provider with the given FS.
func NewEmbeddedAssetProvider(fsys fs.FS, baseDir string) *EmbeddedAssetProvider {
	return &EmbeddedAssetProvider{fs: fsys, baseDir: baseDir}
}

// ReadFile reads an entire file from the embedded FS.
func (p *EmbeddedAssetProvider) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(p.fs, path.Join(p.baseDir, name))
}
