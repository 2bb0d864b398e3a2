package internalcheck

import (
	"fmt"
	"go/ast"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// The solver library must stay silent: CSV output and diagnostics belong to
// cmd/cvode-go, never to pkg/cvode or internal/bindings.
func TestLibraryNeverWritesToStdout(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedFiles | packages.NeedName,
	}

	pkgs, err := packages.Load(cfg,
		"github.com/odelab/cvode-go/pkg/cvode",
		"github.com/odelab/cvode-go/internal/bindings",
	)
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	var findings []string

	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			fset := pkg.Fset
			ast.Inspect(file, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}

				selector, ok := call.Fun.(*ast.SelectorExpr)
				if !ok {
					return true
				}

				obj := pkg.TypesInfo.Uses[selector.Sel]
				if obj == nil || obj.Pkg() == nil {
					return true
				}

				if obj.Pkg().Path() == "fmt" && printsToStdout(obj.Name()) {
					pos := fset.Position(call.Pos())
					findings = append(findings, fmt.Sprintf("%s: fmt.%s writes to stdout from library code", pos, obj.Name()))
				}

				return true
			})
		}
	}

	if len(findings) > 0 {
		t.Fatalf("stdout policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

func printsToStdout(name string) bool {
	switch name {
	case "Print", "Println", "Printf":
		return true
	}
	return false
}
