// Package schemas holds the JSON Schema documents describing the data the widget exchanges.
package schemas

import _ "embed"

// SubmissionResult is the schema for the POST /api/resumes response body.
//
//go:embed submission_result.schema.json
var SubmissionResult []byte
