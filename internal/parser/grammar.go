package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// fileNode is the root of a .decor file
type fileNode struct {
	Pos     lexer.Position
	Package string      `parser:"EOL* 'package' @Ident ( @'.' @Ident )* EOL*"`
	Decls   []*declNode `parser:"( @@ EOL* )*"`
}

// declNode declares a class, interface or annotation type
type declNode struct {
	Pos         lexer.Position
	Annotations []*annotationNode `parser:"( @@ EOL* )*"`
	Modifiers   []string          `parser:"@Modifier*"`
	Kind        string            `parser:"@( 'class' | 'interface' | 'annotation' )"`
	Name        string            `parser:"@Ident"`
	TypeParams  []string          `parser:"( '<' @Ident ( ',' @Ident )* '>' )?"`
	Extends     []*typeNode       `parser:"( 'extends' @@ ( ',' @@ )* )?"`
	Implements  []*typeNode       `parser:"( 'implements' @@ ( ',' @@ )* )?"`
	Trailing    []*annotationNode `parser:"@@*"`
	HasBody     bool              `parser:"( @'{' EOL*"`
	Members     []*memberNode     `parser:"  ( @@ EOL+ )* '}' )?"`
}

type memberNode struct {
	Pos         lexer.Position
	Annotations []*annotationNode `parser:"( @@ EOL* )*"`
	Modifiers   []string          `parser:"@Modifier*"`
	Field       *fieldNode        `parser:"( @@"`
	Constructor *constructorNode  `parser:"| @@"`
	Type        *declNode         `parser:"| @@"`
	Method      *methodNode       `parser:"| @@ )"`
}

type fieldNode struct {
	Pos       lexer.Position
	Name      string    `parser:"'field' @Ident"`
	Type      *typeNode `parser:"@@"`
	Modifiers []string  `parser:"@Modifier*"`
}

type constructorNode struct {
	Pos    lexer.Position
	Params []*typeNode `parser:"'constructor' '(' ( @@ ( ',' @@ )* )? ')'"`
}

type methodNode struct {
	Pos    lexer.Position
	Name   string      `parser:"@Ident"`
	Params []*typeNode `parser:"'(' ( @@ ( ',' @@ )* )? ')'"`
	Return *typeNode   `parser:"@@?"`
}

type typeNode struct {
	Pos  lexer.Position
	Name string      `parser:"@Ident ( @'.' @Ident )*"`
	Args []*typeNode `parser:"( '<' @@ ( ',' @@ )* '>' )?"`
}

type annotationNode struct {
	Pos  lexer.Position
	Name string     `parser:"'@' @Ident ( @'.' @Ident )*"`
	Args []*argNode `parser:"( '(' ( @@ ( ',' @@ )* )? ')' )?"`
}

type argNode struct {
	Pos   lexer.Position
	Name  string      `parser:"@Ident '='"`
	Text  *string     `parser:"( @String"`
	List  bool        `parser:"| @'['"`
	Types []*typeNode `parser:"  ( @@ ( ',' @@ )* )? ']' )"`
}

var declarationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "EOL", Pattern: `[\r\n;]+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
	{Name: "Modifier", Pattern: `\b(public|protected|private|package|abstract|final|static|synthetic|default|bridge)\b`},
	{Name: "Ident", Pattern: `[a-zA-Z_$][a-zA-Z0-9_$]*`},
	{Name: "Punct", Pattern: `[.,()<>{}\[\]=@]`},
})

func buildParser() *participle.Parser[fileNode] {
	return participle.MustBuild[fileNode](
		participle.Lexer(declarationLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.Unquote("String"),
		participle.UseLookahead(4),
	)
}
