// Package dom builds and reads XHTML pages carrying scope stylesheets and
// their transfer payloads.
package dom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"stylo/scope"
)

const (
	idPrefix    = "stylo-"
	stateSuffix = "-state"
	scopeAttr   = "data-scope"
	payloadType = "application/json"
)

// ErrMalformed is returned for pages missing required structure.
var ErrMalformed = errors.New("malformed document")

// Document is an XHTML page.
type Document struct {
	doc  *etree.Document
	head *etree.Element
	body *etree.Element
	log  *zap.Logger
}

// NewDocument creates XHTML page skeleton.
func NewDocument(title string, log *zap.Logger) *Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	html := doc.CreateElement("html")
	html.CreateAttr("xmlns", "http://www.w3.org/1999/xhtml")

	head := html.CreateElement("head")

	meta := head.CreateElement("meta")
	meta.CreateAttr("http-equiv", "Content-Type")
	meta.CreateAttr("content", "text/html; charset=utf-8")

	titleElem := head.CreateElement("title")
	titleElem.SetText(title)

	body := html.CreateElement("body")

	return newDocument(doc, head, body, log)
}

// Parse reads existing page.
func Parse(data []byte, log *zap.Logger) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("unable to parse document: %w", err)
	}
	html := doc.Root()
	if html == nil || html.Tag != "html" {
		return nil, fmt.Errorf("no html root: %w", ErrMalformed)
	}
	head := html.SelectElement("head")
	if head == nil {
		return nil, fmt.Errorf("no head element: %w", ErrMalformed)
	}
	body := html.SelectElement("body")
	if body == nil {
		body = html.CreateElement("body")
	}
	return newDocument(doc, head, body, log), nil
}

func newDocument(doc *etree.Document, head, body *etree.Element, log *zap.Logger) *Document {
	if log == nil {
		log = zap.NewNop()
	}
	return &Document{doc: doc, head: head, body: body, log: log.Named("dom")}
}

// Body returns page body.
func (d *Document) Body() *etree.Element {
	return d.body
}

// StyleID returns id of the style element holding stylesheet of scope.
func StyleID(name string) string {
	return idPrefix + scope.Key(name)
}

// PayloadID returns id of the script element holding payload of scope.
func PayloadID(name string) string {
	return StyleID(name) + stateSuffix
}

// Style is a style element, it serves as stylesheet target of a scope.
type Style struct {
	el *etree.Element
}

// SetContent replaces stylesheet text.
func (s *Style) SetContent(text string) {
	s.el.SetText(text)
}

// AppendContent adds text to the end of stylesheet.
func (s *Style) AppendContent(text string) {
	s.el.SetText(s.el.Text() + text)
}

// Content returns stylesheet text.
func (s *Style) Content() string {
	return s.el.Text()
}

// FindStyleElement looks up style element of scope.
func (d *Document) FindStyleElement(name string) (*Style, bool) {
	el := d.findByID("style", StyleID(name))
	if el == nil {
		return nil, false
	}
	return &Style{el: el}, true
}

// StyleElement returns style element of scope, creating it in head if
// necessary.
func (d *Document) StyleElement(name string) *Style {
	if s, ok := d.FindStyleElement(name); ok {
		return s
	}
	if name == "" {
		name = scope.DefaultName
	}
	el := d.head.CreateElement("style")
	el.CreateAttr("type", "text/css")
	el.CreateAttr("id", StyleID(name))
	el.CreateAttr(scopeAttr, name)
	d.log.Debug("Style element created", zap.String("scope", name))
	return &Style{el: el}
}

// EmbedPayload stores scope payload as JSON in a script element of head.
func (d *Document) EmbedPayload(name string, p scope.Payload) error {
	if name == "" {
		name = scope.DefaultName
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("unable to encode payload of scope %q: %w", name, err)
	}
	el := d.findByID("script", PayloadID(name))
	if el == nil {
		el = d.head.CreateElement("script")
		el.CreateAttr("type", payloadType)
		el.CreateAttr("id", PayloadID(name))
		el.CreateAttr(scopeAttr, name)
	}
	el.SetText(string(data))
	return nil
}

// Payload reads embedded payload of scope.
func (d *Document) Payload(name string) (scope.Payload, bool, error) {
	el := d.findByID("script", PayloadID(name))
	if el == nil {
		return scope.Payload{}, false, nil
	}
	p, err := decodePayload(el)
	if err != nil {
		return scope.Payload{}, true, fmt.Errorf("scope %q: %w", name, err)
	}
	return p, true, nil
}

func decodePayload(el *etree.Element) (scope.Payload, error) {
	var p scope.Payload
	if err := json.Unmarshal([]byte(el.Text()), &p); err != nil {
		return p, fmt.Errorf("unable to decode payload: %w", err)
	}
	return p, nil
}

// Publish attaches style element to every scope of registry and embeds
// scope payloads.
func (d *Document) Publish(reg *scope.Registry) error {
	var errs error
	for _, s := range reg.Scopes() {
		s.Attach(d.StyleElement(s.Name()))
		errs = multierr.Append(errs, d.EmbedPayload(s.Name(), s.Serialize()))
		d.log.Debug("Scope published", zap.String("scope", s.Name()))
	}
	return errs
}

// Restore rehydrates scopes of registry from every payload embedded in the
// page which has its style element. Returns names of restored scopes.
func (d *Document) Restore(reg *scope.Registry) ([]string, error) {
	var (
		names []string
		errs  error
	)
	for _, el := range d.head.SelectElements("script") {
		if el.SelectAttrValue("type", "") != payloadType {
			continue
		}
		id := el.SelectAttrValue("id", "")
		if !strings.HasPrefix(id, idPrefix) || !strings.HasSuffix(id, stateSuffix) {
			continue
		}
		name := el.SelectAttrValue(scopeAttr, "")
		if name == "" {
			name = strings.TrimSuffix(strings.TrimPrefix(id, idPrefix), stateSuffix)
		}
		style, ok := d.FindStyleElement(name)
		if !ok {
			d.log.Debug("Payload without style element, skipping", zap.String("scope", name))
			continue
		}
		p, err := decodePayload(el)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("scope %q: %w", name, err))
			continue
		}
		if _, err := reg.Adopt(name, style, p); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		names = append(names, name)
		d.log.Debug("Scope restored", zap.String("scope", name), zap.Int("components", len(p.Elems)))
	}
	return names, errs
}

// AppendWidget adds element to body. Negative z means no stacking style.
func (d *Document) AppendWidget(tag string, classes []string, z int, text string) *etree.Element {
	el := d.body.CreateElement(tag)
	if len(classes) > 0 {
		el.CreateAttr("class", strings.Join(classes, " "))
	}
	if z >= 0 {
		el.CreateAttr("style", "z-index: "+strconv.Itoa(z))
	}
	if text != "" {
		el.SetText(text)
	}
	return el
}

// WriteTo writes page to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	d.doc.Indent(2)
	return d.doc.WriteTo(w)
}

// Bytes returns page text.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) findByID(tag, id string) *etree.Element {
	for _, el := range d.head.SelectElements(tag) {
		if el.SelectAttrValue("id", "") == id {
			return el
		}
	}
	return nil
}
