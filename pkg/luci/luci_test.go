package luci_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightwing1978/luci-go/internal/interp"
	"github.com/nightwing1978/luci-go/pkg/luci"
)

func TestRunStringPrintsToConfiguredOutput(t *testing.T) {
	var out strings.Builder
	engine, err := luci.New(luci.WithOutput(&out))
	require.NoError(t, err)

	_, err = engine.RunString(`print("hello", "world");`)
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out.String())
}

func TestRunStringReturnsFinalValue(t *testing.T) {
	engine, err := luci.New()
	require.NoError(t, err)

	result, err := engine.RunString(`let x = 21; x * 2;`)
	require.NoError(t, err)

	iv, ok := result.Value.(*interp.IntegerValue)
	require.True(t, ok, "expected *interp.IntegerValue, got %T", result.Value)
	assert.Equal(t, int64(42), iv.Value)
}

func TestCompileExposesSymbolsAndAST(t *testing.T) {
	engine, err := luci.New()
	require.NoError(t, err)

	program, err := engine.Compile(`
		let a = 1;
		let b = 2;
	`)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, program.Symbols())
	assert.NotNil(t, program.AST())
}

func TestCompileWithTypeCheckSurfacesSemanticDiagnostics(t *testing.T) {
	engine, err := luci.New(luci.WithTypeCheck(true))
	require.NoError(t, err)

	_, err = engine.Compile(`let x: int = "oops";`)
	assert.Error(t, err)
}

func TestParseSurfacesSyntaxErrors(t *testing.T) {
	engine, err := luci.New()
	require.NoError(t, err)

	_, err = engine.Parse(`let x = ;`)
	assert.Error(t, err)
}

func TestRunStringPropagatesRuntimeError(t *testing.T) {
	engine, err := luci.New()
	require.NoError(t, err)

	var out strings.Builder
	engine.SetOutput(&out)
	_, err = engine.RunString(`let x = [1, 2][10];`)
	assert.Error(t, err)
}
