// Package mapper converts Bruno collections into Postman v2.1.0 collections.
//
// Nothing is cached between calls and the source document is never modified.
// A Converter may be shared by concurrent callers.
package mapper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GabrielNunesIT/bru2postman/internal/domain"
)

const (
	// DefaultCollectionName is used when the source names no collection.
	DefaultCollectionName = "Converted Collection"

	// DefaultMethod is used for requests with no method.
	DefaultMethod = "GET"
)

var (
	// ErrNilCollection is returned when Convert is called without a document.
	ErrNilCollection = errors.New("no collection to convert")

	// ErrUnknownItem is returned for an item that is neither a folder nor a request.
	ErrUnknownItem = errors.New("item is neither a folder nor a request")

	// ErrMaxDepth is returned when folders nest deeper than the configured limit.
	ErrMaxDepth = errors.New("collection exceeds maximum folder depth")
)

// Logger receives conversion diagnostics. logger.ILogger satisfies it.
type Logger interface {
	Infof(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any) {}

// Converter converts Bruno collections to Postman collections.
type Converter struct {
	log      Logger
	maxDepth int
	newID    func() string
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger routes diagnostics to log.
func WithLogger(log Logger) Option {
	return func(c *Converter) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMaxDepth rejects collections whose items nest deeper than depth.
// Top-level items are at depth 1. Zero disables the limit.
func WithMaxDepth(depth int) Option {
	return func(c *Converter) {
		c.maxDepth = depth
	}
}

// WithIDGenerator replaces GenerateID for new collection ids.
func WithIDGenerator(fn func() string) Option {
	return func(c *Converter) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// New creates a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{
		log:   nopLogger{},
		newID: GenerateID,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Convert translates src into a Postman v2.1.0 collection.
func (c *Converter) Convert(src *domain.BrunoCollection) (*domain.PostmanCollection, error) {
	if src == nil {
		return nil, ErrNilCollection
	}

	root := rootDefaults(src.Root)

	c.log.Infof("Converting Bruno collection %q (%d top-level items)", collectionName(src), len(src.Items))

	collection := &domain.PostmanCollection{
		Info:     c.buildInfo(src, root),
		Event:    []domain.PostmanEvent{},
		Variable: []domain.PostmanVariable{},
		Auth:     &domain.PostmanAuth{Type: domain.AuthTypeNoAuth},
	}

	if root != nil {
		if vars := MapVariables(root.Vars); vars != nil {
			collection.Variable = vars
		}

		if scheme, ok := ParseAuth(root.Auth); ok {
			collection.Auth = MapAuth(scheme)
		}

		if events := BuildEvents(root.Script, root.Tests); len(events) > 0 {
			collection.Event = events
		}
	}

	items, err := c.convertItems(src.Items, nil)
	if err != nil {
		return nil, err
	}

	collection.Item = items

	if collection.Auth.IsEmpty() {
		collection.Auth = nil
	}

	c.log.Infof("Conversion completed: %d items, %d variables", len(collection.Item), len(collection.Variable))

	return collection, nil
}

func (c *Converter) buildInfo(src *domain.BrunoCollection, root *domain.BrunoDefaults) domain.PostmanInfo {
	info := domain.PostmanInfo{
		Name:        collectionName(src),
		Schema:      domain.SchemaV210,
		Description: firstNonEmpty(defaultsDescription(root), src.Description),
	}

	if src.Info != nil {
		info.PostmanID = src.Info.PostmanID
		info.ExporterID = src.Info.ExporterID
		info.CollectionLink = src.Info.CollectionLink
	}

	if info.PostmanID == "" {
		info.PostmanID = c.newID()
	}

	return info
}

func collectionName(src *domain.BrunoCollection) string {
	var configName string
	if src.BrunoConfig != nil {
		configName = src.BrunoConfig.Name
	}

	return firstNonEmpty(src.Name, configName, DefaultCollectionName)
}

// convertItems converts a level of the tree. parents holds the names of the
// enclosing folders and is used for depth checks and error messages.
func (c *Converter) convertItems(items []domain.BrunoItem, parents []string) ([]domain.PostmanItem, error) {
	converted := make([]domain.PostmanItem, 0, len(items))

	for i := range items {
		item, err := c.convertItem(&items[i], parents)
		if err != nil {
			return nil, err
		}

		converted = append(converted, item)
	}

	return converted, nil
}

func (c *Converter) convertItem(node *domain.BrunoItem, parents []string) (domain.PostmanItem, error) {
	path := append(parents[:len(parents):len(parents)], node.Name)

	if c.maxDepth > 0 && len(path) > c.maxDepth {
		return nil, fmt.Errorf("%w (%d) at %q", ErrMaxDepth, c.maxDepth, strings.Join(path, " / "))
	}

	switch {
	case node.IsFolder():
		return c.convertFolder(node, path)
	case node.IsRequest():
		return c.convertRequest(node, path), nil
	default:
		return nil, fmt.Errorf("%w: %q (type %q)", ErrUnknownItem, strings.Join(path, " / "), node.Type)
	}
}

func (c *Converter) convertFolder(node *domain.BrunoItem, path []string) (*domain.PostmanFolder, error) {
	items, err := c.convertItems(node.Items, path)
	if err != nil {
		return nil, err
	}

	folder := &domain.PostmanFolder{
		Name: node.Name,
		Item: items,
	}

	defaults := rootDefaults(node.Root)

	folder.Description = defaultsDescription(defaults)
	if folder.Description == "" && node.Root != nil {
		folder.Description = node.Root.Docs
	}

	if defaults != nil {
		folder.Event = BuildEvents(defaults.Script, defaults.Tests)

		if scheme, ok := ParseAuth(defaults.Auth); ok {
			folder.Auth = MapAuth(scheme)
		}

		folder.Variable = MapVariables(defaults.Vars)
	}

	return folder, nil
}

func (c *Converter) convertRequest(node *domain.BrunoItem, path []string) *domain.PostmanRequestItem {
	req := node.Request

	return &domain.PostmanRequestItem{
		Name:     node.Name,
		Request:  c.mapRequest(req, path),
		Response: []any{},
		Event:    BuildEvents(req.Script, req.Tests),
		Variable: MapVariables(req.Vars),
	}
}

func (c *Converter) mapRequest(req *domain.BrunoRequest, path []string) *domain.PostmanRequest {
	target, parsed := mapURL(req.URL, req.Params)
	if !parsed {
		c.log.Infof("Request %q: URL %q is not absolute, parsed manually", strings.Join(path, " / "), req.URL)
	}

	request := &domain.PostmanRequest{
		Method:      firstNonEmpty(req.Method, DefaultMethod),
		Header:      MapHeaders(req.Headers),
		URL:         target,
		Description: describe(req.Docs, req.Description),
	}

	if content, ok := ParseBody(req.Body); ok {
		request.Body = MapBody(content)
	}

	if domain.Value(req.ProtocolProfileBehavior).Truthy() {
		request.ProtocolProfileBehavior = req.ProtocolProfileBehavior
	}

	if scheme, ok := ParseAuth(req.Auth); ok {
		request.Auth = MapAuth(scheme)
	}

	return request
}
