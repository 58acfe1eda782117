package http

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

var routerAnnotation = regexp.MustCompile(`@Router\s+(\S+)\s+\[(\w+)\]$`)

// TestSwaggerDocMatchesAnnotations keeps api/taskboard in step with the
// handler annotations it is maintained from.
func TestSwaggerDocMatchesAnnotations(t *testing.T) {
	t.Parallel()

	files, err := filepath.Glob("*.go")
	require.NoError(t, err)

	annotated := map[string]bool{}
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}

		f, err := os.Open(name)
		require.NoError(t, err)

		sc := bufio.NewScanner(f)
		for sc.Scan() {
			line := sc.Text()
			if !strings.Contains(line, "@Router") {
				continue
			}
			m := routerAnnotation.FindStringSubmatch(line)
			require.NotNil(t, m, "%s: malformed annotation %q", name, line)
			annotated[m[2]+" "+m[1]] = true
		}
		require.NoError(t, sc.Err())
		require.NoError(t, f.Close())
	}
	require.NotEmpty(t, annotated)

	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	documented := map[string]bool{}
	for path, ops := range doc.Paths {
		for method := range ops {
			documented[method+" "+path] = true
		}
	}
	require.Equal(t, annotated, documented)
}
