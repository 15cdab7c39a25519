package input

import (
	"errors"
	"testing"
)

const chainSpec = `openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /a/{id}:
    get:
      responses:
        "200": {description: ok}
components:
  schemas:
    Pet:
      type: object
    Alias:
      $ref: '#/components/schemas/Pet'
    AliasOfAlias:
      $ref: '#/components/schemas/Alias'
    Loop1:
      $ref: '#/components/schemas/Loop2'
    Loop2:
      $ref: '#/components/schemas/Loop1'
    List:
      type: array
      items: [{type: string}, {type: integer}]
`

func TestParse_DetectsVersion(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		src  string
		want Version
		v31  bool
	}{
		{"v2", "swagger: '2.0'\n", V2, false},
		{"v30", "openapi: 3.0.3\n", V3, false},
		{"v31", "openapi: 3.1.0\n", V3, true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			doc, err := Parse([]byte(tc.src), "mem")
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if doc.Version != tc.want {
				t.Fatalf("version: want %v got %v", tc.want, doc.Version)
			}
			if doc.IsV31() != tc.v31 {
				t.Fatalf("IsV31: want %v", tc.v31)
			}
		})
	}
}

func TestParse_RejectsNonMapping(t *testing.T) {
	t.Parallel()
	_, err := Parse([]byte("- a\n- b\n"), "mem")
	var le *LoadError
	if !errors.As(err, &le) || le.Code != ParseError {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestGet_FollowsChains(t *testing.T) {
	t.Parallel()
	doc, err := Parse([]byte(chainSpec), "mem")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	pet, err := doc.Get("#/components/schemas/Pet")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	viaAlias, err := doc.Get("#/components/schemas/AliasOfAlias")
	if err != nil {
		t.Fatalf("get alias: %v", err)
	}
	if pet != viaAlias {
		t.Fatalf("expected chain to resolve to the same node")
	}
}

func TestGet_EscapedAndIndexedTokens(t *testing.T) {
	t.Parallel()
	doc, err := Parse([]byte(chainSpec), "mem")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	op, err := doc.Get("#/paths/~1a~1{id}/get")
	if err != nil {
		t.Fatalf("get path: %v", err)
	}
	if !Has(op, "responses") {
		t.Fatalf("expected operation node")
	}
	item, err := doc.Get("#/components/schemas/List/items/1")
	if err != nil {
		t.Fatalf("get index: %v", err)
	}
	if Str(item, "type") != "integer" {
		t.Fatalf("expected second item, got %q", Str(item, "type"))
	}
}

func TestGet_Errors(t *testing.T) {
	t.Parallel()
	doc, err := Parse([]byte(chainSpec), "mem")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, ptr := range []string{
		"#/components/schemas/Missing",
		"#/components/schemas/Loop1",
		"other.yaml#/components/schemas/Pet",
		"#components",
		"#/components/schemas/List/items/9",
	} {
		_, err := doc.Get(ptr)
		var le *LoadError
		if !errors.As(err, &le) || le.Code != ReferenceError {
			t.Fatalf("%s: expected ReferenceError, got %v", ptr, err)
		}
	}
}

func TestExtensions_KeepOrder(t *testing.T) {
	t.Parallel()
	doc, err := Parse([]byte("openapi: 3.0.0\nx-b: 1\ninfo: {}\nx-a: {k: v}\n"), "mem")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ext := Extensions(doc.Root)
	if ext == nil || ext.Len() != 2 {
		t.Fatalf("expected two extensions, got %v", ext)
	}
	if keys := ext.Keys(); keys[0] != "x-b" || keys[1] != "x-a" {
		t.Fatalf("unexpected order: %v", keys)
	}
	if Extensions(Field(doc.Root, "info")) != nil {
		t.Fatalf("expected nil when there are no extensions")
	}
}
