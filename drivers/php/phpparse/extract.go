package phpparse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/emenda-labs/bccheck/core/symbols"
)

// file is the extraction state of one source file: the namespace and use
// imports in effect at the current position.
type file struct {
	content   []byte
	namespace string
	imports   map[string]string
	result    *Result
}

func (f *file) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(f.content)
}

func children(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := 0; i < int(n.ChildCount()); i++ {
		out = append(out, n.Child(i))
	}
	return out
}

func childOfType(n *sitter.Node, types ...string) *sitter.Node {
	for _, c := range children(n) {
		for _, t := range types {
			if c.Type() == t {
				return c
			}
		}
	}
	return nil
}

// field returns the child stored under name, falling back to the first
// child of one of types for grammar versions without that field.
func field(n *sitter.Node, name string, types ...string) *sitter.Node {
	if c := n.ChildByFieldName(name); c != nil {
		return c
	}
	return childOfType(n, types...)
}

// after returns the first named child following the anonymous token tok.
func after(n *sitter.Node, tok string) *sitter.Node {
	seen := false
	for _, c := range children(n) {
		if seen && c.IsNamed() && c.Type() != "comment" {
			return c
		}
		if !c.IsNamed() && c.Type() == tok {
			seen = true
		}
	}
	return nil
}

var typeNodes = []string{
	"named_type", "primitive_type", "optional_type", "union_type",
	"intersection_type", "disjunctive_normal_form_type", "bottom_type",
}

func (f *file) docComment(n *sitter.Node) string {
	prev := n.PrevSibling()
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	if text := f.text(prev); strings.HasPrefix(text, "/**") {
		return text
	}
	return ""
}

func (f *file) qualify(name string) string {
	if f.namespace == "" {
		return name
	}
	return f.namespace + `\` + name
}

// resolveClass applies the namespace and use imports to a class name as
// written in source.
func (f *file) resolveClass(name string) string {
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, `\`) {
		return name[1:]
	}
	lower := strings.ToLower(name)
	switch lower {
	case "self", "static", "parent":
		return lower
	}
	if strings.HasPrefix(lower, `namespace\`) {
		return f.qualify(name[len(`namespace\`):])
	}
	first, rest, nested := strings.Cut(name, `\`)
	if fq, ok := f.imports[strings.ToLower(first)]; ok {
		if nested {
			return fq + `\` + rest
		}
		return fq
	}
	return f.qualify(name)
}

func (f *file) typeOf(n *sitter.Node) symbols.Type {
	if n == nil {
		return ""
	}
	raw := strings.TrimPrefix(strings.TrimSpace(f.text(n)), ":")
	return symbols.NormalizeType(raw, f.resolveClass)
}

// classNames resolves the class names listed directly under n, as in
// extends, implements and trait use clauses.
func (f *file) classNames(n *sitter.Node) []string {
	var names []string
	for _, c := range children(n) {
		switch c.Type() {
		case "name", "qualified_name":
			names = append(names, f.resolveClass(f.text(c)))
		}
	}
	return names
}

// statements walks a statement list in order so that namespace
// declarations without a body apply to the statements following them.
func (f *file) statements(n *sitter.Node) {
	for _, c := range children(n) {
		switch c.Type() {
		case "namespace_definition":
			f.namespaceDefinition(c)
		case "namespace_use_declaration":
			f.useDeclaration(c)
		case "class_declaration", "interface_declaration", "trait_declaration", "enum_declaration":
			f.classDeclaration(c)
		case "function_definition":
			f.functionDefinition(c)
		case "compound_statement", "if_statement", "else_clause", "else_if_clause", "colon_block", "declare_statement":
			f.statements(c)
		}
	}
}

func (f *file) namespaceDefinition(n *sitter.Node) {
	name := strings.TrimPrefix(f.text(field(n, "name", "namespace_name")), `\`)
	body := field(n, "body", "compound_statement")
	if body == nil {
		f.namespace, f.imports = name, map[string]string{}
		return
	}
	outerNamespace, outerImports := f.namespace, f.imports
	f.namespace, f.imports = name, map[string]string{}
	f.statements(body)
	f.namespace, f.imports = outerNamespace, outerImports
}

func (f *file) useDeclaration(n *sitter.Node) {
	prefix := ""
	for _, c := range children(n) {
		switch c.Type() {
		case "function", "const":
			// Function and constant imports do not affect class names.
			return
		case "namespace_name":
			prefix = strings.TrimPrefix(f.text(c), `\`)
		case "namespace_use_clause":
			f.useClause(c, "")
		case "namespace_use_group":
			for _, g := range children(c) {
				switch g.Type() {
				case "namespace_use_clause", "namespace_use_group_clause":
					f.useClause(g, prefix)
				}
			}
		}
	}
}

func (f *file) useClause(n *sitter.Node, prefix string) {
	var target, alias string
	afterAs := false
	for _, c := range children(n) {
		switch c.Type() {
		case "function", "const":
			return
		case "as":
			afterAs = true
		case "name", "qualified_name", "namespace_name":
			if afterAs {
				alias = f.text(c)
			} else if target == "" {
				target = f.text(c)
			}
		case "namespace_aliasing_clause":
			alias = f.text(childOfType(c, "name"))
		}
	}
	if target == "" {
		return
	}
	full := strings.TrimPrefix(target, `\`)
	if prefix != "" {
		full = prefix + `\` + full
	}
	if alias == "" {
		alias = full[strings.LastIndex(full, `\`)+1:]
	}
	f.imports[strings.ToLower(alias)] = full
}

func (f *file) classDeclaration(n *sitter.Node) {
	nameNode := field(n, "name", "name")
	if nameNode == nil {
		return
	}
	c := &symbols.Class{
		Name:       f.qualify(f.text(nameNode)),
		Kind:       symbols.KindClass,
		DocComment: f.docComment(n),
	}
	switch n.Type() {
	case "interface_declaration":
		c.Kind = symbols.KindInterface
	case "trait_declaration":
		c.Kind = symbols.KindTrait
	case "enum_declaration":
		// Enums cannot be extended or instantiated.
		c.Final = true
	}
	c.File = f.result.Path

	readonly := false
	var body *sitter.Node
	for _, child := range children(n) {
		switch child.Type() {
		case "abstract_modifier":
			c.Abstract = true
		case "final_modifier":
			c.Final = true
		case "readonly_modifier":
			readonly = true
		case "base_clause":
			names := f.classNames(child)
			if c.IsInterface() {
				c.Interfaces = append(c.Interfaces, names...)
			} else if len(names) > 0 {
				c.Parent = names[0]
			}
		case "class_interface_clause":
			c.Interfaces = append(c.Interfaces, f.classNames(child)...)
		case "declaration_list", "enum_declaration_list":
			body = child
		}
	}
	if body != nil {
		f.members(c, body, readonly)
	}
	f.result.Classes = append(f.result.Classes, c)
}

func (f *file) members(c *symbols.Class, body *sitter.Node, readonly bool) {
	for _, n := range children(body) {
		switch n.Type() {
		case "const_declaration":
			c.Constants = append(c.Constants, f.constants(c, n)...)
		case "enum_case":
			c.Constants = append(c.Constants, f.enumCase(c, n))
		case "property_declaration":
			c.Properties = append(c.Properties, f.properties(c, n, readonly)...)
		case "method_declaration":
			m, promoted := f.method(c, n, readonly)
			c.Methods = append(c.Methods, m)
			c.Properties = append(c.Properties, promoted...)
		case "use_declaration":
			c.Traits = append(c.Traits, f.classNames(n)...)
		}
	}
}

func visibilityOf(text string) symbols.Visibility {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "protected":
		return symbols.Protected
	case "private":
		return symbols.Private
	default:
		return symbols.Public
	}
}

func (f *file) constants(c *symbols.Class, n *sitter.Node) []*symbols.Constant {
	visibility, final := symbols.Public, false
	doc := f.docComment(n)
	var out []*symbols.Constant
	for _, child := range children(n) {
		switch child.Type() {
		case "visibility_modifier":
			visibility = visibilityOf(f.text(child))
		case "final_modifier":
			final = true
		case "const_element":
			out = append(out, &symbols.Constant{
				Name:       f.text(childOfType(child, "name", "identifier")),
				Owner:      c.Name,
				Visibility: visibility,
				Final:      final,
				Value:      f.text(after(child, "=")),
				DocComment: doc,
			})
		}
	}
	return out
}

func (f *file) enumCase(c *symbols.Class, n *sitter.Node) *symbols.Constant {
	value := n.ChildByFieldName("value")
	if value == nil {
		value = after(n, "=")
	}
	return &symbols.Constant{
		Name:       f.text(field(n, "name", "name")),
		Owner:      c.Name,
		Visibility: symbols.Public,
		Final:      true,
		Value:      f.text(value),
		DocComment: f.docComment(n),
	}
}

func (f *file) properties(c *symbols.Class, n *sitter.Node, readonly bool) []*symbols.Property {
	template := symbols.Property{
		Owner:      c.Name,
		Visibility: symbols.Public,
		Readonly:   readonly,
		DocComment: f.docComment(n),
	}
	if t := field(n, "type", typeNodes...); t != nil {
		template.Type = f.typeOf(t)
	}

	var out []*symbols.Property
	for _, child := range children(n) {
		switch child.Type() {
		case "visibility_modifier":
			template.Visibility = visibilityOf(f.text(child))
		case "static_modifier":
			template.Static = true
		case "readonly_modifier":
			template.Readonly = true
		case "property_element":
			p := template
			p.Name = strings.TrimPrefix(f.text(childOfType(child, "variable_name")), "$")
			def := child.ChildByFieldName("default_value")
			if def == nil {
				if init := childOfType(child, "property_initializer"); init != nil {
					def = after(init, "=")
				} else {
					def = after(child, "=")
				}
			}
			if def != nil {
				p.HasDefault, p.Default = true, f.text(def)
			}
			out = append(out, &p)
		}
	}
	return out
}

// method extracts a method and, for constructors, the properties its
// promoted parameters declare.
func (f *file) method(c *symbols.Class, n *sitter.Node, readonly bool) (*symbols.Method, []*symbols.Property) {
	m := &symbols.Method{Visibility: symbols.Public}
	var promoted []*symbols.Property
	m.Function, promoted = f.signature(n, c.Name, readonly)

	for _, child := range children(n) {
		switch child.Type() {
		case "visibility_modifier":
			m.Visibility = visibilityOf(f.text(child))
		case "static_modifier":
			m.Static = true
		case "abstract_modifier":
			m.Abstract = true
		case "final_modifier":
			m.Final = true
		}
	}
	if c.IsInterface() {
		m.Abstract = true
	}
	if !strings.EqualFold(m.Name, "__construct") {
		promoted = nil
	}
	return m, promoted
}

func (f *file) functionDefinition(n *sitter.Node) {
	fn, _ := f.signature(n, "", false)
	fn.Name = f.qualify(fn.Name)
	f.result.Functions = append(f.result.Functions, &fn)
}

// signature extracts the parts shared by functions and methods.
func (f *file) signature(n *sitter.Node, owner string, readonly bool) (symbols.Function, []*symbols.Property) {
	fn := symbols.Function{
		Name:       f.text(field(n, "name", "name")),
		Owner:      owner,
		DocComment: f.docComment(n),
	}
	for _, child := range children(n) {
		if child.Type() == "reference_modifier" || child.Type() == "&" {
			fn.ReturnsReference = true
		}
		if child.Type() == "formal_parameters" {
			break
		}
	}

	returnType := n.ChildByFieldName("return_type")
	if returnType == nil {
		returnType = after(n, ":")
	}
	if returnType != nil && returnType.Type() != "compound_statement" {
		fn.ReturnType = f.typeOf(returnType)
	}

	var promoted []*symbols.Property
	params := field(n, "parameters", "formal_parameters")
	for _, p := range children(params) {
		switch p.Type() {
		case "simple_parameter", "variadic_parameter", "property_promotion_parameter":
		default:
			continue
		}
		param, prop := f.parameter(p, len(fn.Parameters), owner, readonly)
		fn.Parameters = append(fn.Parameters, param)
		if prop != nil {
			promoted = append(promoted, prop)
		}
	}
	return fn, promoted
}

func (f *file) parameter(n *sitter.Node, position int, owner string, readonly bool) (*symbols.Parameter, *symbols.Property) {
	p := &symbols.Parameter{
		Position: position,
		Variadic: n.Type() == "variadic_parameter",
	}

	nameNode := field(n, "name", "variable_name", "by_ref")
	if nameNode != nil && nameNode.Type() == "by_ref" {
		p.ByReference = true
		nameNode = childOfType(nameNode, "variable_name")
	}
	p.Name = strings.TrimPrefix(f.text(nameNode), "$")

	for _, child := range children(n) {
		if child.Type() == "reference_modifier" || child.Type() == "&" {
			p.ByReference = true
		}
	}

	if t := field(n, "type", typeNodes...); t != nil {
		p.Type = f.typeOf(t)
	}
	def := n.ChildByFieldName("default_value")
	if def == nil {
		def = after(n, "=")
	}
	if def != nil {
		p.HasDefault, p.Default = true, f.text(def)
		// A null default makes the declared type implicitly nullable.
		if strings.EqualFold(strings.TrimSpace(p.Default), "null") && p.Type.Declared() && !p.Type.AllowsNull() {
			p.Type = implicitlyNullable(p.Type)
		}
	}

	visibility := childOfType(n, "visibility_modifier")
	if n.Type() != "property_promotion_parameter" && visibility == nil {
		return p, nil
	}
	prop := &symbols.Property{
		Name:       p.Name,
		Owner:      owner,
		Visibility: symbols.Public,
		Readonly:   readonly || childOfType(n, "readonly_modifier") != nil,
		Type:       p.Type,
	}
	if visibility != nil {
		prop.Visibility = visibilityOf(f.text(visibility))
	}
	return p, prop
}

func implicitlyNullable(t symbols.Type) symbols.Type {
	if len(t.Members()) > 1 {
		return t + "|null"
	}
	if strings.Contains(string(t), "&") {
		return "(" + t + ")|null"
	}
	return "?" + t
}
