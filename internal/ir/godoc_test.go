package ir

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"
)

func TestConstructorsDocumented(t *testing.T) {
	fset := token.NewFileSet()
	for _, file := range []string{"expr.go", "stmt.go"} {
		f, err := parser.ParseFile(fset, file, nil, parser.ParseComments)
		if err != nil {
			t.Fatal(err)
		}
		for _, decl := range f.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv != nil || !strings.HasPrefix(fn.Name.Name, "New") {
				continue
			}
			if fn.Doc == nil || !strings.HasPrefix(fn.Doc.Text(), fn.Name.Name+" ") {
				t.Errorf("%s: %s lacks a doc comment naming it", fset.Position(fn.Pos()), fn.Name.Name)
			}
		}
	}
}
