package e2e

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/mark3labs/oapigen/internal/cli"
)

// Swagger 2.0 document exercising models, enums, a body parameter and a
// tagged and an untagged operation.
const petstoreV2 = `swagger: "2.0"
info:
  title: E2E Petstore
  version: "1.0.0"
host: pets.example.com
basePath: /v1
schemes: [https]
paths:
  /pets:
    get:
      operationId: listPets
      tags: [pets]
      parameters:
        - {name: limit, in: query, type: integer, format: int32}
      responses:
        "200":
          description: ok
          schema:
            type: array
            items: {$ref: '#/definitions/Pet'}
    post:
      operationId: createPet
      tags: [pets]
      parameters:
        - {name: pet, in: body, required: true, schema: {$ref: '#/definitions/Pet'}}
      responses:
        "201": {description: created}
  /health:
    get:
      responses:
        "204": {description: ok}
definitions:
  Pet:
    type: object
    required: [name]
    properties:
      name: {type: string}
      status: {$ref: '#/definitions/Status'}
  Status:
    type: string
    enum: [available, sold]
`

const renameOverlay = `overlay: 1.0.0
info:
  title: rename models
  version: 0.0.1
actions:
  - target: $.definitions.Pet
    update:
      x-go-name: Animal
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func runCLI(t *testing.T, args ...string) {
	t.Helper()
	root := cli.NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("cli execute %v: %v", args, err)
	}
}

func digestDir(t *testing.T, dir string) (files []string, sum string) {
	t.Helper()
	var list []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, rerr := filepath.Rel(dir, path)
		if rerr != nil {
			return rerr
		}
		list = append(list, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", dir, err)
	}
	sort.Strings(list)
	h := sha256.New()
	for _, rel := range list {
		// hash path + contents to be robust
		_, _ = h.Write([]byte(rel))
		b, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("read %s: %v", rel, err)
		}
		_, _ = h.Write(b)
	}
	return list, hex.EncodeToString(h.Sum(nil))
}

type snapshot struct {
	PackageName string `json:"packageName"`
	Document    struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Servers []struct {
			URL string `json:"url"`
		} `json:"servers"`
		Schemas map[string]int `json:"schemas"`
		Arena   []struct {
			Name       string `json:"name"`
			NativeType struct {
				NativeType string `json:"nativeType"`
			} `json:"nativeType"`
		} `json:"arena"`
		Groups []struct {
			Name       string `json:"name"`
			Operations []struct {
				Name        string          `json:"name"`
				RequestBody json.RawMessage `json:"requestBody"`
			} `json:"operations"`
		} `json:"groups"`
	} `json:"document"`
}

func readSnapshot(t *testing.T, dir string) snapshot {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(dir, "document.json"))
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

func TestE2E_Generate_Go_Deterministic(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	spec := writeFile(t, dir, "spec.yaml", petstoreV2)
	dir1 := t.TempDir()
	dir2 := t.TempDir()

	args := []string{"generate", "--input", spec, "--generator-option", "packageName=petstore",
		"--generator-option", "grouping=tag-or-path"}
	runCLI(t, append(args, "--output", dir1, "--force")...)
	runCLI(t, append(args, "--output", dir2, "--force")...)

	files1, sum1 := digestDir(t, dir1)
	files2, sum2 := digestDir(t, dir2)
	if !slicesEqual(files1, files2) || sum1 != sum2 {
		t.Fatalf("generated outputs differ between runs\nfiles1=%v\nfiles2=%v\nsum1=%s\nsum2=%s", files1, files2, sum1, sum2)
	}
	if want := []string{"document.json", "groups/health.json", "groups/pets.json"}; !slicesEqual(files1, want) {
		t.Fatalf("unexpected files: %v", files1)
	}

	snap := readSnapshot(t, dir1)
	if snap.PackageName != "petstore" || snap.Document.Info.Title != "E2E Petstore" {
		t.Fatalf("unexpected snapshot header: %+v", snap)
	}
	if len(snap.Document.Servers) != 1 || snap.Document.Servers[0].URL != "https://pets.example.com/v1" {
		t.Fatalf("unexpected servers: %+v", snap.Document.Servers)
	}
	for _, model := range []string{"Pet", "Status"} {
		if _, ok := snap.Document.Schemas[model]; !ok {
			t.Fatalf("missing model %s in %v", model, snap.Document.Schemas)
		}
	}

	var create bool
	for _, g := range snap.Document.Groups {
		for _, op := range g.Operations {
			if op.Name == "createPet" {
				create = len(op.RequestBody) > 0 && string(op.RequestBody) != "null"
			}
		}
	}
	if !create {
		t.Fatalf("expected createPet with a request body from the body parameter")
	}
}

func TestE2E_OverlayRenamesModel(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	spec := writeFile(t, dir, "spec.yaml", petstoreV2)
	overlay := writeFile(t, dir, "overlay.yaml", renameOverlay)
	out := filepath.Join(dir, "out")

	runCLI(t, "generate", "--input", spec, "--overlay", overlay, "--output", out,
		"--generator-option", "packageName=petstore")

	snap := readSnapshot(t, out)
	id, ok := snap.Document.Schemas["Pet"]
	if !ok {
		t.Fatalf("the schema keeps its name; only the Go type changes")
	}
	if got := snap.Document.Arena[id-1].NativeType.NativeType; got != "Animal" {
		t.Fatalf("expected x-go-name from the overlay to rename Pet, got %q", got)
	}
}

func TestE2E_ConfigFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	spec := writeFile(t, dir, "spec.yaml", petstoreV2)
	out := filepath.Join(dir, "out")
	config := writeFile(t, dir, "oapigen.yaml", strings.Join([]string{
		"input: " + spec,
		"output: " + out,
		"excludeTags: [pets]",
		"generatorOptions:",
		"  packageName: petstore",
		"  outputFile: model.json",
		"",
	}, "\n"))

	runCLI(t, "-c", config, "generate")

	mustExist(t, filepath.Join(out, "model.json"))
	mustExist(t, filepath.Join(out, "groups", "health.json"))
	if _, err := os.Stat(filepath.Join(out, "groups", "pets.json")); err == nil {
		t.Fatalf("excluded tag produced a group")
	}
}

func mustExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist: %s: %v", path, err)
	}
}

func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
