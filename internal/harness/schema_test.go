package harness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateScenario_Valid(t *testing.T) {
	require.NoError(t, ValidateScenario("minimal.yaml", []byte(minimalScenario)))
}

func TestValidateScenario_SchemaError(t *testing.T) {
	err := ValidateScenario("bad.yaml", []byte(`
name: bad
description: "Count must be positive"
steps:
  - msg: add
    args:
      url: https://go.dev
assertions:
  - type: snapshot_count
    count: 0
`))
	require.Error(t, err)

	var se *SchemaError
	require.True(t, errors.As(err, &se), "expected *SchemaError, got %T", err)
	assert.NotEmpty(t, se.Error())
}

func TestValidateScenario_RejectsBadName(t *testing.T) {
	err := ValidateScenario("bad.yaml", []byte(`
name: "Has Spaces"
description: "Names are file names"
steps:
  - msg: add
    args:
      url: https://go.dev
assertions:
  - type: snapshot_count
    count: 1
`))
	require.Error(t, err)
}

func TestValidateScenario_TraceOrderNeedsTwoMessages(t *testing.T) {
	err := ValidateScenario("bad.yaml", []byte(`
name: bad
description: "Order of one"
steps:
  - msg: add
    args:
      url: https://go.dev
assertions:
  - type: trace_order
    messages: [add]
`))
	require.Error(t, err)
}

func TestSchemaError_Format(t *testing.T) {
	assert.Equal(t, "steps.0: bad", (&SchemaError{Path: "steps.0", Message: "bad"}).Error())
	assert.Equal(t, "bad", (&SchemaError{Message: "bad"}).Error())
}
