package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userSchema = `{"type": "record", "name": "User", "fields": [
  {"name": "id", "type": "long"},
  {"name": "name", "type": ["null", "string"], "default": null},
  {"name": "day", "type": {"type": "int", "logicalType": "date"}}]}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRoundTripLines(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "user.avsc", userSchema)
	in := `{"id": 1, "name": "a", "day": "2021-01-01"} {"id": 2, "day": 18629}`

	code, out, stderr := runCLI(t, in, "-s", schema, "-m", "json2avro2json")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t,
		"{\"day\":\"2021-01-01\",\"id\":1,\"name\":\"a\"}\n{\"day\":\"2021-01-02\",\"id\":2,\"name\":null}\n",
		out)
}

func TestContainerFileAndBack(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "user.avsc", userSchema)
	input := writeFile(t, dir, "in.json", `[{"id": 7, "day": 0}, {"id": 8, "day": 1}]`)
	avroFile := filepath.Join(dir, "out.avro")

	code, _, stderr := runCLI(t, "", "-s", schema, "-i", input, "-o", avroFile, "-codec", "snappy")
	require.Equal(t, 0, code, stderr)

	code, out, stderr := runCLI(t, "", "-s", schema, "-i", avroFile, "-m", "avro2json", "-debug")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t,
		"{\"day\":\"1970-01-01\",\"id\":7,\"name\":null}\n{\"day\":\"1970-01-02\",\"id\":8,\"name\":null}\n",
		out)
	assert.Contains(t, stderr, "record read")
}

func TestUnknownFieldPolicy(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "user.avsc", userSchema)
	in := `{"id": 1, "day": 0, "extra": true}`

	code, _, stderr := runCLI(t, in, "-s", schema, "-m", "json2avro2json")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "code=unknown_field")
	assert.Contains(t, stderr, "path=extra")

	cfg := writeFile(t, dir, "cfg.yaml", "unknownFields: warn\n")
	code, out, stderr := runCLI(t, in, "-s", schema, "-m", "json2avro2json", "-config", cfg)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, `"id":1`)
	assert.Contains(t, stderr, "level=WARN")
}

func TestConfigNameTransform(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "user.avsc", userSchema)
	cfg := writeFile(t, dir, "cfg.yaml", "nameTransform: lower\nduplicateKeys: error\n")

	code, out, stderr := runCLI(t, `{"ID": 4, "Day": 2}`, "-s", schema, "-m", "json2avro2json", "-config", cfg)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "{\"day\":\"1970-01-03\",\"id\":4,\"name\":null}\n", out)

	code, _, stderr = runCLI(t, `{"id": 4, "id": 5, "day": 2}`, "-s", schema, "-m", "json2avro2json", "-config", cfg)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "duplicate")
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "user.avsc", userSchema)
	cfg := writeFile(t, dir, "cfg.yaml", "unknownFields: shout\n")
	code, _, stderr := runCLI(t, `{}`, "-s", schema, "-config", cfg)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknownFields")

	cfg = writeFile(t, dir, "typo.yaml", "nameTransfrom: lower\n")
	code, _, _ = runCLI(t, `{}`, "-s", schema, "-config", cfg)
	assert.Equal(t, 1, code)
}

func TestYAMLSchemaAndSelect(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "user.yaml", "type: record\nname: Event\nfields:\n  - name: id\n    type: long\n")
	code, out, stderr := runCLI(t, `{"payload": {"after": {"id": 5}}}`,
		"-s", schema, "-m", "json2avro2json", "-select", "payload.after")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "{\"id\":5}\n", out)
}

func TestUsage(t *testing.T) {
	code, _, stderr := runCLI(t, "")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Usage:")

	dir := t.TempDir()
	schema := writeFile(t, dir, "user.avsc", userSchema)
	code, _, stderr = runCLI(t, `{"id": 1, "day": 0}`, "-s", schema, "-m", "bogus")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown mode")
}
