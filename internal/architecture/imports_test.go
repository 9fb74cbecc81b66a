package architecture_test

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/mod/modfile"
)

// layerRules lists, per layer prefix under internal/, the sibling layers it
// must not import. The engine under modules/ stays free of storage and
// transport so it can be tested on plain structs.
var layerRules = []struct {
	prefix     string
	disallowed []string
}{
	{"platform/", []string{"domain", "modules", "data", "services", "realtime", "observability", "http", "app"}},
	{"domain/", []string{"modules", "data", "services", "realtime", "observability", "http", "app"}},
	{"modules/", []string{"data", "services", "realtime", "observability", "http", "app"}},
	{"realtime/", []string{"data", "services", "http", "app"}},
	{"observability/", []string{"data", "services", "realtime", "http", "app"}},
	{"data/", []string{"services", "http", "app"}},
	{"services/", []string{"http", "app"}},
	{"http/", []string{"app"}},
}

type importRef struct {
	file   string
	imp    string
	isTest bool
}

func TestImportBoundaries(t *testing.T) {
	root, modulePath := moduleRoot(t)
	var violations []string
	for _, ref := range internalImports(t, root) {
		rel := strings.TrimPrefix(ref.file, "internal/")
		for _, rule := range layerRules {
			if !strings.HasPrefix(rel, rule.prefix) {
				continue
			}
			for _, layer := range rule.disallowed {
				bad := modulePath + "/internal/" + layer
				if ref.imp == bad || strings.HasPrefix(ref.imp, bad+"/") {
					violations = append(violations, fmt.Sprintf("- %s imports %q", ref.file, ref.imp))
				}
			}
			break
		}
	}
	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n%s", strings.Join(violations, "\n"))
	}
}

// TestStoreDriversStayInData keeps gorm dialects behind internal/data so the
// rest of the tree only sees *gorm.DB.
func TestStoreDriversStayInData(t *testing.T) {
	root, _ := moduleRoot(t)
	var violations []string
	for _, ref := range internalImports(t, root) {
		if ref.isTest || strings.HasPrefix(ref.file, "internal/data/") {
			continue
		}
		if strings.HasPrefix(ref.imp, "gorm.io/driver/") {
			violations = append(violations, fmt.Sprintf("- %s imports %q", ref.file, ref.imp))
		}
	}
	if len(violations) > 0 {
		t.Fatalf("gorm drivers imported outside internal/data:\n%s", strings.Join(violations, "\n"))
	}
}

func TestHTTPStaysOutOfEngine(t *testing.T) {
	root, _ := moduleRoot(t)
	for _, ref := range internalImports(t, root) {
		if !strings.HasPrefix(ref.file, "internal/modules/") {
			continue
		}
		if strings.HasPrefix(ref.imp, "github.com/gin-gonic/") || strings.HasPrefix(ref.imp, "gorm.io/") {
			t.Fatalf("%s imports %q", ref.file, ref.imp)
		}
	}
}

func moduleRoot(t *testing.T) (string, string) {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		raw, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			mp := modfile.ModulePath(raw)
			if mp == "" {
				t.Fatalf("module path not found in %s/go.mod", dir)
			}
			return dir, mp
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("go.mod not found above working directory")
		}
		dir = parent
	}
}

func internalImports(t *testing.T, root string) []importRef {
	t.Helper()
	fset := token.NewFileSet()
	var refs []importRef
	err := filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			refs = append(refs, importRef{
				file:   filepath.ToSlash(rel),
				imp:    imp,
				isTest: strings.HasSuffix(path, "_test.go"),
			})
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk internal/: %v", err)
	}
	return refs
}
