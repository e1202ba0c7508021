package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"xmlbind/internal/config"
)

var shopSchema = filepath.Join("..", "mapping", "testdata", "shop.yaml")

const orderDoc = `<order xmlns="urn:example:shop" id=" o-1 " priority="2">
  <customer>  Jane   Doe </customer>
  <item sku="A1"><quantity>3</quantity><tags>red big</tags></item>
  <item sku="B2"/>
</order>`

const canonicalDoc = `<order xmlns="urn:example:shop" id="o-1"><customer>Jane Doe</customer></order>`

func TestMain(m *testing.M) {
	color.NoColor = true

	os.Exit(m.Run())
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err = cmd.ExecuteContext(context.Background())

	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestDecode_YAML(t *testing.T) {
	doc := writeFile(t, "order.xml", orderDoc)

	stdout, stderr, err := execute(t, "decode", "-s", shopSchema, doc)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &got))

	assert.Equal(t, "{urn:example:shop}orderType", got["@type"])
	assert.Equal(t, "o-1", got["id"])
	assert.Equal(t, 2, got["priority"])
	assert.Equal(t, "Jane Doe", got["customer"])

	items, ok := got["item"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, []any{"red", "big"}, items[0].(map[string]any)["tags"])
}

func TestDecode_AnomaliesAndDump(t *testing.T) {
	doc := writeFile(t, "order.xml", `<order xmlns="urn:example:shop" prority="1"><customer>x</customer></order>`)

	stdout, stderr, err := execute(t, "decode", "-s", shopSchema, "--dump", doc)
	require.NoError(t, err)
	assert.Contains(t, stdout, "(*record.Record)")
	assert.Contains(t, stderr, "unexpected-attribute prority")
	assert.Contains(t, stderr, "did you mean priority?")
}

func TestDecode_FailFast(t *testing.T) {
	doc := writeFile(t, "order.xml", `<order xmlns="urn:example:shop" bogus="1"/>`)

	_, _, err := execute(t, "decode", "-s", shopSchema, "--mode", "fail-fast", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected-attribute")
}

func TestDecode_AsType(t *testing.T) {
	doc := writeFile(t, "item.xml", `<thing xmlns="urn:example:shop" sku="Z9"><quantity>4</quantity></thing>`)

	stdout, _, err := execute(t, "decode", "-s", shopSchema, "--type", "itemType", doc)
	require.NoError(t, err)
	assert.Contains(t, stdout, "sku: Z9")
	assert.Contains(t, stdout, "quantity: 4")

	_, _, err = execute(t, "decode", "-s", shopSchema, "--type", "nope", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}

func TestDecode_NoSchema(t *testing.T) {
	_, _, err := execute(t, "decode", "x.xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no schema file")
}

func TestRoundtrip(t *testing.T) {
	doc := writeFile(t, "order.xml", canonicalDoc)

	stdout, stderr, err := execute(t, "roundtrip", "-s", shopSchema, doc)
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t, canonicalDoc+"\n", stdout)

	stdout, stderr, err = execute(t, "roundtrip", "-s", shopSchema, "--diff", doc)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "documents are identical")
}

func TestRoundtrip_Diff(t *testing.T) {
	cfgPath := writeFile(t, config.DefaultFilename, "version: 1\nindent: \"  \"\nprefixes:\n  urn:example:shop: s\n")
	doc := writeFile(t, "order.xml", canonicalDoc+"\n")

	stdout, _, err := execute(t, "roundtrip", "--config", cfgPath, "-s", shopSchema, "--diff", doc)
	require.NoError(t, err)
	assert.Contains(t, stdout, "- "+canonicalDoc)
	assert.Contains(t, stdout, `+ <s:order xmlns:s="urn:example:shop" id="o-1">`)
	assert.Contains(t, stdout, "+   <s:customer>Jane Doe</s:customer>")
}

func TestCheck(t *testing.T) {
	good := writeFile(t, "good.xml", orderDoc)
	bad := writeFile(t, "bad.xml", `<order xmlns="urn:example:shop" priority="high"><customer>x</customer></order>`)
	missing := filepath.Join(t.TempDir(), "missing.xml")

	stdout, _, err := execute(t, "check", "-s", shopSchema, "-j", "2", good, bad, missing)
	require.Error(t, err)
	assert.EqualError(t, err, "2 of 3 documents failed")

	assert.Contains(t, stdout, "ok   "+good)
	assert.Contains(t, stdout, "FAIL "+bad+": 1 anomalies")
	assert.Contains(t, stdout, "adapter-decode")
	assert.Contains(t, stdout, "FAIL "+missing)

	_, _, err = execute(t, "check", "-s", shopSchema, good)
	assert.NoError(t, err)
}

func TestSchemaValidate(t *testing.T) {
	stdout, _, err := execute(t, "schema", "validate", shopSchema)
	require.NoError(t, err)
	assert.Contains(t, stdout, "ok "+shopSchema+": 4 types")

	bad := writeFile(t, "bad.yaml", `
types:
  - name: order
    element: order
    fields:
      - element: item
        type: itemTpye
  - name: itemType
    fields: []
`)

	stdout, _, err = execute(t, "schema", "validate", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has 1 errors")
	assert.Contains(t, stdout, "error: [order] item: [unknown_type]")
	assert.Contains(t, stdout, "did you mean itemType?")
}

func TestTypes(t *testing.T) {
	stdout, _, err := execute(t, "types", "-s", shopSchema)
	require.NoError(t, err)

	assert.Contains(t, stdout, "TYPE")
	assert.Regexp(t, `\{urn:example:shop\}orderType\s+\{urn:example:shop\}order\s+7\s+-`, stdout)
	assert.Regexp(t, `\{urn:example:shop\}addressType\s+-\s+2\s+\{urn:example:shop\}poBoxType`, stdout)
}

func TestGen(t *testing.T) {
	out := filepath.Join(t.TempDir(), "shop")

	stdout, _, err := execute(t, "gen", "-s", shopSchema, "--package", "shop", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote "+filepath.Join(out, "bindings_gen.go"))

	src, err := os.ReadFile(filepath.Join(out, "bindings_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package shop")
	assert.Contains(t, string(src), "func NewTypes(adapters *adapter.Registry) (*Types, error)")
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultFilename)

	_, _, err := execute(t, "init", "--config", path, "-s", "shop.yaml", "--mode", "fail-fast")
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "shop.yaml", cfg.Schema)
	assert.Equal(t, "fail-fast", cfg.Mode)

	_, _, err = execute(t, "init", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, "init", "--config", path, "--force")
	require.NoError(t, err)
}

func TestInvalidConfiguration(t *testing.T) {
	_, _, err := execute(t, "types", "-s", shopSchema, "--mode", "strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	_, _, err = execute(t, "types", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun(t *testing.T) {
	require.NoError(t, Run(context.Background(), []string{"schema", "validate", shopSchema}))
	require.Error(t, Run(context.Background(), []string{"bogus"}))
}
