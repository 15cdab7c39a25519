package input

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse([]byte(src), "mem")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func render(t *testing.T, doc *Document) string {
	t.Helper()
	out, err := yaml.Marshal(doc.Root)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(out)
}

func TestV2Compat_MultipleBodyMerged(t *testing.T) {
	t.Parallel()
	// An operation with two body params (invalid v2) should be merged into a single body schema.
	doc := mustParse(t, `swagger: "2.0"
info: { title: t, version: "1.0.0" }
paths:
  /x:
    post:
      parameters:
      - in: query
        name: q
        type: string
      - in: body
        name: a
        required: true
        schema: { type: string }
      - in: body
        name: b
        schema: { type: integer }
      responses: { '200': { description: ok } }
`)
	if !normalizeV2(doc) {
		t.Fatalf("expected changes")
	}
	params := Items(Field(Field(Field(Field(doc.Root, "paths"), "/x"), "post"), "parameters"))
	if len(params) != 2 {
		t.Fatalf("expected merged body + query, got %d params", len(params))
	}
	body := params[0]
	if Str(body, "in") != "body" || Str(body, "name") != "body" {
		t.Fatalf("expected merged body first, got:\n%s", render(t, doc))
	}
	props := Field(Field(body, "schema"), "properties")
	var names []string
	for k := range Pairs(props) {
		names = append(names, k)
	}
	if strings.Join(names, ",") != "a,b" {
		t.Fatalf("expected properties a,b in order, got %v", names)
	}
	if req := Strings(Field(body, "schema"), "required"); len(req) != 1 || req[0] != "a" {
		t.Fatalf("expected required [a], got %v", req)
	}
}

func TestV2Compat_BodyAndFormData_ToFormData(t *testing.T) {
	t.Parallel()
	// Mixing body + formData (file) should convert body to formData and add consumes multipart.
	doc := mustParse(t, `swagger: "2.0"
info: { title: t, version: "1.0.0" }
paths:
  /upload:
    post:
      parameters:
      - in: body
        name: desc
        schema: { type: string }
      - in: formData
        name: file
        type: file
        required: true
      responses: { '200': { description: ok } }
`)
	if !normalizeV2(doc) {
		t.Fatalf("expected changes")
	}
	op := Field(Field(Field(doc.Root, "paths"), "/upload"), "post")
	for _, p := range Items(Field(op, "parameters")) {
		if Str(p, "in") == "body" {
			t.Fatalf("expected no body params after conversion to formData, got:\n%s", render(t, doc))
		}
	}
	if !containsString(Strings(op, "consumes"), "multipart/form-data") {
		t.Fatalf("expected consumes multipart/form-data, got:\n%s", render(t, doc))
	}
}

func TestV2Compat_SingleBodyUntouched(t *testing.T) {
	t.Parallel()
	doc := mustParse(t, `swagger: "2.0"
paths:
  /x:
    put:
      parameters:
      - in: body
        name: pet
        schema: { type: object }
`)
	if normalizeV2(doc) {
		t.Fatalf("expected no changes")
	}
}

func TestV2Compat_IgnoresV3(t *testing.T) {
	t.Parallel()
	doc := mustParse(t, "openapi: 3.0.0\npaths: {}\n")
	if normalizeV2(doc) {
		t.Fatalf("expected v3 documents to be left alone")
	}
}
