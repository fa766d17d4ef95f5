package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/yursur/FEDOT/operations/linear"
	_ "github.com/yursur/FEDOT/operations/preprocessing"
	"github.com/yursur/FEDOT/pkg/log"
)

func TestLoadTemplateAndBuild(t *testing.T) {
	src := `
nodes:
  - name: scaling
  - name: model
    operation: logit
    params:
      max_iter: 50
    parents: [scaling]
`
	tpl, err := LoadTemplate(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, tpl.Nodes, 2)

	p, err := tpl.Build(log.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, p.Length())

	root, err := p.Root()
	require.NoError(t, err)
	assert.Equal(t, "logit", root.Operation().Name())
	assert.Equal(t, "scaling", p.Nodes()[0].Operation().Name())
}

func TestLoadTemplateRejectsEmpty(t *testing.T) {
	_, err := LoadTemplate(strings.NewReader("nodes: []"))
	require.Error(t, err)
}

func TestLoadTemplateRejectsUnknownField(t *testing.T) {
	src := `
nodes:
  - name: scaling
    flavor: extra
`
	_, err := LoadTemplate(strings.NewReader(src))
	require.Error(t, err)
}

func TestBuildRejectsUnknownOperation(t *testing.T) {
	tpl := &Template{Nodes: []TemplateNode{{Name: "mystery"}}}
	_, err := tpl.Build(log.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation")
}

func TestBuildRejectsForwardParentReference(t *testing.T) {
	tpl := &Template{Nodes: []TemplateNode{
		{Name: "model", Operation: "logit", Parents: []string{"scaling"}},
		{Name: "scaling"},
	}}
	_, err := tpl.Build(log.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parent")
}

func TestBuildRejectsDuplicateNames(t *testing.T) {
	tpl := &Template{Nodes: []TemplateNode{
		{Name: "scaling"},
		{Name: "scaling"},
	}}
	_, err := tpl.Build(log.Nop())
	require.Error(t, err)
}

func TestBuildRejectsAmbiguousOutput(t *testing.T) {
	tpl := &Template{Nodes: []TemplateNode{
		{Name: "first", Operation: "scaling"},
		{Name: "second", Operation: "scaling"},
	}}
	_, err := tpl.Build(log.Nop())
	require.Error(t, err)
}
