package codegen_test

import (
	"testing"

	"github.com/mark3labs/oapigen/internal/codegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParametersMergeAndBuckets(t *testing.T) {
	t.Parallel()
	doc := build(t, `
openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /items/{id}:
    parameters:
      - {name: a, in: query, schema: {type: string}}
      - {name: b, in: query, description: from path, schema: {type: string}}
      - {name: id, in: path, required: false, schema: {type: integer}}
    get:
      operationId: listItems
      parameters:
        - {name: b, in: query, description: from operation, schema: {type: integer}}
        - {name: c, in: query, schema: {type: string}}
        - {name: X-Trace, in: header, example: abc, schema: {type: string}}
        - {name: session, in: cookie}
        - {name: mystery, in: body, schema: {type: string}}
      responses:
        "204": {description: ok}
`)
	op := firstOperation(t, doc)

	assert.Equal(t, []string{"a", "b", "id", "c", "X-Trace", "session", "mystery"}, op.Parameters.Keys())
	assert.Equal(t, []string{"a", "b", "c"}, op.QueryParams.Keys())

	b := param(t, op.QueryParams, "b")
	assert.Equal(t, "from operation", b.Description)
	assert.Equal(t, codegen.SchemaInteger, b.SchemaType)

	id := param(t, op.PathParams, "id")
	assert.True(t, id.Required, "path parameters are always required")
	assert.True(t, id.IsPathParam)

	trace := param(t, op.HeaderParams, "X-Trace")
	require.Equal(t, 1, trace.Examples.Len())
	ex, _ := trace.Examples.Get("default")
	assert.Equal(t, "abc", ex.Value)
	assert.Equal(t, "literal abc", ex.ValueLiteral)
	assert.True(t, op.HasHeaderParamExamples)
	assert.True(t, op.HasParamExamples)
	assert.False(t, op.HasQueryParamExamples)

	session := param(t, op.CookieParams, "session")
	assert.Equal(t, codegen.SchemaString, session.SchemaType, "missing schema falls back to string")

	mystery := param(t, op.Parameters, "mystery")
	assert.False(t, mystery.IsQueryParam || mystery.IsPathParam || mystery.IsHeaderParam || mystery.IsCookieParam || mystery.IsFormParam)
	assert.Nil(t, op.FormParams)
	assert.Nil(t, op.RequestBody, "in: body is a plain parameter in OpenAPI 3")
}

func TestParameterContentSchema(t *testing.T) {
	t.Parallel()
	doc := build(t, `
openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /search:
    get:
      parameters:
        - name: filter
          in: query
          content:
            application/json:
              schema:
                type: object
                properties:
                  q: {type: string}
      responses:
        "204": {description: ok}
`)
	filter := param(t, firstOperation(t, doc).QueryParams, "filter")
	assert.Equal(t, codegen.SchemaObject, filter.SchemaType)
	assert.Equal(t, "GET /search operation_filter_model", doc.Schema(filter.Schema).Name)
}

func TestReferencedParameterIsNamedAfterComponent(t *testing.T) {
	t.Parallel()
	doc := build(t, `
openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /things:
    get:
      parameters:
        - $ref: '#/components/parameters/Sort'
      responses:
        "204": {description: ok}
components:
  parameters:
    Sort:
      name: sort
      in: query
      schema:
        type: string
        enum: [asc, desc]
`)
	sort := param(t, firstOperation(t, doc).QueryParams, "sort")
	assert.Equal(t, "Sort_enum", doc.Schema(sort.Schema).Name)
}

func TestSwaggerBodyAndFormParameters(t *testing.T) {
	t.Parallel()
	doc := build(t, `
swagger: "2.0"
info: {title: t, version: "1"}
consumes: [application/x-www-form-urlencoded]
produces: [application/xml]
paths:
  /pets:
    post:
      operationId: addPet
      consumes: [application/json, "text/plain; charset=utf-8"]
      parameters:
        - name: pet
          in: body
          required: true
          schema:
            $ref: '#/definitions/Pet'
          x-examples:
            application/json: {name: rex}
      responses:
        201:
          description: created
          schema:
            $ref: '#/definitions/Pet'
  /uploads:
    post:
      operationId: upload
      parameters:
        - {name: file, in: formData, type: file}
        - {name: note, in: formData, type: string, x-example: hello}
      responses:
        204: {description: ok}
definitions:
  Pet:
    type: object
    properties:
      name: {type: string}
`)
	require.Len(t, doc.Groups, 2)
	add := doc.Groups[0].Operations[0]
	require.NotNil(t, add.RequestBody)

	rb := add.RequestBody
	assert.Equal(t, "pet", rb.Name)
	assert.True(t, rb.Required)
	require.Len(t, rb.Contents, 2)
	assert.Equal(t, doc.Lookup("Pet").ID, rb.DefaultContent.Schema)
	assert.Equal(t, "text/plain", rb.Contents[1].MediaType.MimeType)
	assert.Equal(t, "utf-8", rb.Contents[1].MediaType.Encoding)
	assert.Equal(t, 1, rb.Contents[0].Examples.Len())
	assert.True(t, add.HasRequestBodyExamples)

	require.Len(t, add.Consumes, 2)
	assert.Equal(t, "application/json", add.Consumes[0].MediaType)
	require.Len(t, add.Produces, 1)
	assert.Equal(t, "application/xml", add.Produces[0].MediaType)
	assert.Equal(t, "Pet", add.ReturnType)

	upload := doc.Groups[1].Operations[0]
	assert.Nil(t, upload.RequestBody)
	assert.Equal(t, []string{"file", "note"}, upload.FormParams.Keys())
	assert.Equal(t, codegen.SchemaFile, param(t, upload.FormParams, "file").SchemaType)
	assert.True(t, upload.HasFormParamExamples)
	require.Len(t, upload.Consumes, 1)
	assert.Equal(t, "application/x-www-form-urlencoded", upload.Consumes[0].MimeType)
}

func TestRequestBodyName(t *testing.T) {
	t.Parallel()
	doc := build(t, `
openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /a:
    put:
      operationId: putA
      x-codegen-request-body-name: payload
      requestBody:
        required: true
        content:
          application/json:
            schema: {type: string}
            example: hi
          application/octet-stream: {}
      responses:
        "204": {description: ok}
`)
	op := firstOperation(t, doc)
	require.NotNil(t, op.RequestBody)
	assert.Equal(t, "payload", op.RequestBody.Name)
	assert.True(t, op.RequestBody.DefaultContent.Required)
	assert.Len(t, op.RequestBody.Contents, 1, "media types without a schema have no content")
	assert.Len(t, op.Consumes, 2)
	assert.True(t, op.HasRequestBodyExamples)
}
