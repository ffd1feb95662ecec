package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/decor/internal/errors"
	"github.com/toyz/decor/internal/models"
)

// Input is one declaration source
type Input struct {
	Filename string
	Source   []byte
}

// File is the result of parsing one declaration source
type File struct {
	Filename string
	Package  string
	// Types lists every declared type, enclosed types after their
	// enclosing type
	Types []*models.Type
}

// Generatable returns the declared types a backend can decorate
func (f *File) Generatable() []*models.Type {
	var result []*models.Type
	for _, t := range f.Types {
		if !t.IsAnnotation() {
			result = append(result, t)
		}
	}
	return result
}

// Parser turns .decor declarations into type descriptors registered in a
// universe
type Parser struct {
	universe *models.Universe
	parser   *participle.Parser[fileNode]
	reporter *ErrorReporter
}

var _ DeclarationParser = (*Parser)(nil)

// NewParser creates a parser defining types into universe
func NewParser(universe *models.Universe) *Parser {
	if universe == nil {
		universe = models.NewUniverse()
	}
	p := &Parser{universe: universe, parser: buildParser()}
	p.reporter = NewErrorReporter(universe)
	return p
}

// Universe returns the universe declarations are defined into
func (p *Parser) Universe() *models.Universe {
	return p.universe
}

// ParseFile reads and parses one file
func (p *Parser) ParseFile(path string) (*File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	files, err := p.Parse(Input{Filename: path, Source: source})
	if err != nil {
		return nil, err
	}
	return files[0], nil
}

// ParseString parses declarations held in memory
func (p *Parser) ParseString(filename, source string) (*File, error) {
	files, err := p.Parse(Input{Filename: filename, Source: []byte(source)})
	if err != nil {
		return nil, err
	}
	return files[0], nil
}

// Parse parses every input, declares all types and only then resolves
// references, so inputs may refer to each other in any order
func (p *Parser) Parse(inputs ...Input) ([]*File, error) {
	units := make([]*unit, 0, len(inputs))
	for _, in := range inputs {
		ast, err := p.parser.ParseBytes(in.Filename, in.Source)
		if err != nil {
			return nil, syntaxError(in.Filename, err)
		}
		units = append(units, &unit{file: &File{Filename: in.Filename, Package: ast.Package}, ast: ast})
	}

	for _, u := range units {
		for _, decl := range u.ast.Decls {
			if err := p.declare(u, decl, nil, nil); err != nil {
				return nil, err
			}
		}
	}
	for _, u := range units {
		for _, d := range u.decls {
			if err := p.resolve(u, d); err != nil {
				return nil, err
			}
		}
	}

	files := make([]*File, len(units))
	for i, u := range units {
		files[i] = u.file
	}
	return files, nil
}

// unit is a parsed file awaiting resolution
type unit struct {
	file  *File
	ast   *fileNode
	decls []*declared
	local map[string]*models.Type
}

type declared struct {
	node    *declNode
	t       *models.Type
	leading []*annotationNode
}

func (p *Parser) declare(u *unit, node *declNode, outer *models.Type, member *memberNode) error {
	t := &models.Type{
		Name:       node.Name,
		Package:    u.file.Package,
		Enclosing:  outer,
		TypeParams: node.TypeParams,
	}
	switch node.Kind {
	case "interface":
		t.Kind = models.KindInterface
	case "annotation":
		t.Kind = models.KindAnnotation
	default:
		t.Kind = models.KindClass
	}

	modifiers := node.Modifiers
	leading := node.Annotations
	if member != nil {
		modifiers = append(append([]string(nil), member.Modifiers...), modifiers...)
		leading = append(append([]*annotationNode(nil), member.Annotations...), leading...)
	}
	mods, err := modifiersOf(u.file.Filename, node.Pos, modifiers)
	if err != nil {
		return err
	}
	t.Modifiers = mods

	if u.local == nil {
		u.local = make(map[string]*models.Type)
	}
	name := t.DisplayName()
	if _, exists := u.local[name]; exists {
		return errors.NewSyntaxError(fmt.Sprintf("type %s is declared twice", name)).WithLocation(location(u.file.Filename, node.Pos))
	}
	if err := p.universe.Define(t); err != nil {
		return errors.NewSyntaxError(err.Error()).WithLocation(location(u.file.Filename, node.Pos))
	}
	u.local[name] = t
	u.file.Types = append(u.file.Types, t)
	u.decls = append(u.decls, &declared{node: node, t: t, leading: leading})

	for _, m := range node.Members {
		if m.Type != nil {
			if err := p.declare(u, m.Type, t, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Parser) resolve(u *unit, d *declared) error {
	t, node := d.t, d.node
	file := u.file.Filename

	annotations, err := p.annotations(u, t, append(append([]*annotationNode(nil), d.leading...), node.Trailing...))
	if err != nil {
		return err
	}
	t.Annotations = annotations

	switch {
	case t.IsInterface():
		for _, ext := range node.Extends {
			ref, err := p.typeRef(u, t, ext)
			if err != nil {
				return err
			}
			t.Interfaces = append(t.Interfaces, ref)
		}
		if len(node.Implements) > 0 {
			return errors.NewSyntaxError(fmt.Sprintf("interface %s cannot implement other types; use extends", t.DisplayName())).
				WithLocation(location(file, node.Implements[0].Pos))
		}
	case t.IsAnnotation():
		if len(node.Extends)+len(node.Implements) > 0 {
			return errors.NewSyntaxError(fmt.Sprintf("annotation %s cannot have supertypes", t.DisplayName())).
				WithLocation(location(file, node.Pos))
		}
	default:
		if len(node.Extends) > 1 {
			return errors.NewSyntaxError(fmt.Sprintf("class %s can extend only one class", t.DisplayName())).
				WithLocation(location(file, node.Extends[1].Pos))
		}
		if len(node.Extends) == 1 {
			ref, err := p.typeRef(u, t, node.Extends[0])
			if err != nil {
				return err
			}
			t.Super = &ref
		}
		for _, impl := range node.Implements {
			ref, err := p.typeRef(u, t, impl)
			if err != nil {
				return err
			}
			t.Interfaces = append(t.Interfaces, ref)
		}
	}

	for _, m := range node.Members {
		if err := p.member(u, t, m); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) member(u *unit, t *models.Type, m *memberNode) error {
	file := u.file.Filename
	switch {
	case m.Type != nil:
		return nil
	case m.Field != nil:
		mods, err := modifiersOf(file, m.Pos, append(append([]string(nil), m.Modifiers...), m.Field.Modifiers...))
		if err != nil {
			return err
		}
		fieldType, err := p.typeRef(u, t, m.Field.Type)
		if err != nil {
			return err
		}
		annotations, err := p.annotations(u, t, m.Annotations)
		if err != nil {
			return err
		}
		t.AddField(&models.Field{Name: m.Field.Name, Type: fieldType, Modifiers: mods, Annotations: annotations})
	case m.Constructor != nil:
		if t.IsInterface() || t.IsAnnotation() {
			return errors.NewSyntaxError(fmt.Sprintf("%s %s cannot declare constructors", t.Kind, t.DisplayName())).WithLocation(location(file, m.Pos))
		}
		mods, err := modifiersOf(file, m.Pos, m.Modifiers)
		if err != nil {
			return err
		}
		params, err := p.typeRefs(u, t, m.Constructor.Params)
		if err != nil {
			return err
		}
		annotations, err := p.annotations(u, t, m.Annotations)
		if err != nil {
			return err
		}
		t.AddConstructor(&models.Constructor{Params: params, Modifiers: mods, Annotations: annotations})
	case m.Method != nil:
		mods, err := modifiersOf(file, m.Pos, m.Modifiers)
		if err != nil {
			return err
		}
		params, err := p.typeRefs(u, t, m.Method.Params)
		if err != nil {
			return err
		}
		method := &models.Method{Name: m.Method.Name, Params: params, Modifiers: mods}
		if m.Method.Return != nil {
			ret, err := p.typeRef(u, t, m.Method.Return)
			if err != nil {
				return err
			}
			if ret.Raw() != models.Void {
				method.Return = ret
			}
		}
		annotations, err := p.annotations(u, t, m.Annotations)
		if err != nil {
			return err
		}
		method.Annotations = annotations
		t.AddMethod(method)
	}
	return nil
}

func (p *Parser) annotations(u *unit, scope *models.Type, nodes []*annotationNode) ([]models.Annotation, error) {
	var result []models.Annotation
	for _, node := range nodes {
		annotationType, err := p.lookup(u, scope, node.Name, node.Pos)
		if err != nil {
			return nil, err
		}
		if !annotationType.IsAnnotation() {
			return nil, errors.NewSyntaxError(fmt.Sprintf("%s is not an annotation type", annotationType.DisplayName())).
				WithLocation(location(u.file.Filename, node.Pos))
		}
		annotation := models.NewAnnotation(annotationType)
		for _, arg := range node.Args {
			if arg.Text != nil {
				if annotation.Args == nil {
					annotation.Args = make(map[string]models.AnnotationArg)
				}
				annotation.Args[arg.Name] = models.AnnotationArg{Text: *arg.Text}
				continue
			}
			types, err := p.typeRefs(u, scope, arg.Types)
			if err != nil {
				return nil, err
			}
			annotation = annotation.WithTypes(arg.Name, types...)
		}
		result = append(result, annotation)
	}
	return result, nil
}

func (p *Parser) typeRefs(u *unit, scope *models.Type, nodes []*typeNode) ([]models.TypeRef, error) {
	refs := make([]models.TypeRef, 0, len(nodes))
	for _, node := range nodes {
		ref, err := p.typeRef(u, scope, node)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (p *Parser) typeRef(u *unit, scope *models.Type, node *typeNode) (models.TypeRef, error) {
	if !strings.Contains(node.Name, ".") && isTypeVariable(scope, node.Name) {
		if len(node.Args) > 0 {
			return models.TypeRef{}, errors.NewSyntaxError(fmt.Sprintf("type variable %s cannot take arguments", node.Name)).
				WithLocation(location(u.file.Filename, node.Pos))
		}
		return models.VarRef(node.Name), nil
	}
	t, err := p.lookup(u, scope, node.Name, node.Pos)
	if err != nil {
		return models.TypeRef{}, err
	}
	args, err := p.typeRefs(u, scope, node.Args)
	if err != nil {
		return models.TypeRef{}, err
	}
	if len(args) > 0 && len(args) != len(t.TypeParams) {
		return models.TypeRef{}, errors.NewSyntaxError(fmt.Sprintf("%s takes %d type argument(s), got %d", t.DisplayName(), len(t.TypeParams), len(args))).
			WithLocation(location(u.file.Filename, node.Pos))
	}
	return models.Ref(t, args...), nil
}

// lookup resolves a name against the enclosing types, the file's
// declarations and then the universe
func (p *Parser) lookup(u *unit, scope *models.Type, name string, pos lexer.Position) (*models.Type, error) {
	for s := scope; s != nil; s = s.Enclosing {
		if t, ok := u.local[s.DisplayName()+"."+name]; ok {
			return t, nil
		}
	}
	if t, ok := u.local[name]; ok {
		return t, nil
	}
	if t, ok := p.universe.Lookup(name); ok {
		return t, nil
	}
	return nil, p.reporter.UnknownType(name, location(u.file.Filename, pos))
}

func isTypeVariable(scope *models.Type, name string) bool {
	for s := scope; s != nil; s = s.Enclosing {
		for _, param := range s.TypeParams {
			if param == name {
				return true
			}
		}
		if s.IsStatic() {
			return false
		}
	}
	return false
}

// modifiersOf maps keywords to modifiers. Visibility defaults to public;
// "package" means no visibility bit.
func modifiersOf(file string, pos lexer.Position, keywords []string) (models.Modifiers, error) {
	var mods models.Modifiers
	visibility := ""
	for _, keyword := range keywords {
		switch keyword {
		case "public", "protected", "private", "package":
			if visibility != "" && visibility != keyword {
				return 0, errors.NewSyntaxError(fmt.Sprintf("conflicting visibility %s and %s", visibility, keyword)).
					WithLocation(location(file, pos))
			}
			visibility = keyword
			if keyword == "package" {
				continue
			}
		}
		mod, ok := models.ParseModifier(keyword)
		if !ok {
			return 0, errors.NewSyntaxError("unknown modifier " + keyword).WithLocation(location(file, pos))
		}
		mods |= mod
	}
	if visibility == "" {
		mods |= models.ModPublic
	}
	return mods, nil
}

func location(file string, pos lexer.Position) errors.SourceLocation {
	return errors.SourceLocation{File: file, Line: pos.Line, Column: pos.Column}
}

func syntaxError(file string, err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return errors.NewSyntaxError(perr.Message()).WithLocation(location(file, perr.Position()))
	}
	return errors.WrapParseError(file, err)
}
