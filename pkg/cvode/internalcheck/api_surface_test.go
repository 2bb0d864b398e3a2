package internalcheck

import (
	"fmt"
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// All cgo complexity stays in internal/bindings: nothing exported from
// pkg/cvode may mention unsafe.Pointer or an internal/bindings type.
func TestExportedAPIHidesNativeTypes(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedTypes | packages.NeedTypesInfo | packages.NeedName,
	}

	pkgs, err := packages.Load(cfg, "github.com/odelab/cvode-go/pkg/cvode")
	if err != nil {
		t.Fatalf("load package: %v", err)
	}

	var findings []string

	for _, pkg := range pkgs {
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			obj := scope.Lookup(name)
			if !obj.Exported() {
				continue
			}

			switch o := obj.(type) {
			case *types.Func:
				if leaks(o.Type().String()) {
					findings = append(findings, fmt.Sprintf("func %s: %s", name, o.Type()))
				}
			case *types.TypeName:
				mset := types.NewMethodSet(types.NewPointer(o.Type()))
				for i := 0; i < mset.Len(); i++ {
					m := mset.At(i).Obj()
					if !m.Exported() {
						continue
					}
					if leaks(m.Type().String()) {
						findings = append(findings, fmt.Sprintf("method %s.%s: %s", name, m.Name(), m.Type()))
					}
				}
			}
		}
	}

	if len(findings) > 0 {
		t.Fatalf("native types leak into the exported API:\n%s", strings.Join(findings, "\n"))
	}
}

func leaks(signature string) bool {
	return strings.Contains(signature, "unsafe.Pointer") ||
		strings.Contains(signature, "internal/bindings")
}
