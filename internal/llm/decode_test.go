package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLenientJSON_Strict(t *testing.T) {
	obj, err := LenientJSON(`{"project_type": "web-app", "weeks": 8}`)
	require.NoError(t, err)
	assert.Equal(t, "web-app", obj["project_type"])
	assert.Equal(t, float64(8), obj["weeks"])
}

func TestLenientJSON_MarkdownCodeBlock(t *testing.T) {
	response := "Here is the classification:\n```json\n{\"project_type\": \"data-analysis\"}\n```\nLet me know if you need more."
	obj, err := LenientJSON(response)
	require.NoError(t, err)
	assert.Equal(t, "data-analysis", obj["project_type"])
}

func TestLenientJSON_UntaggedCodeBlock(t *testing.T) {
	response := "```\n{\"complexity\": \"medium\"}\n```"
	obj, err := LenientJSON(response)
	require.NoError(t, err)
	assert.Equal(t, "medium", obj["complexity"])
}

func TestLenientJSON_SkipsNonJSONCodeBlocks(t *testing.T) {
	response := "```python\nprint('hi')\n```\n{\"ok\": true}"
	obj, err := LenientJSON(response)
	require.NoError(t, err)
	assert.Equal(t, true, obj["ok"])
}

func TestLenientJSON_SurroundedByProse(t *testing.T) {
	response := `Sure! The schedule is {"week1": {"tasks": ["Setup"], "hours": 8}} as requested.`
	obj, err := LenientJSON(response)
	require.NoError(t, err)

	week1, ok := obj["week1"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(8), week1["hours"])
}

func TestLenientJSON_TruncatedObject(t *testing.T) {
	// Truncated mid-array, as produced by a cut-off model response.
	obj, err := LenientJSON(`{"week1": {"tasks": ["A"]`)
	require.NoError(t, err)

	week1, ok := obj["week1"].(map[string]any)
	require.True(t, ok)
	tasks, ok := week1["tasks"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"A"}, tasks)
}

func TestLenientJSON_TruncatedMidString(t *testing.T) {
	obj, err := LenientJSON(`{"week1": {"tasks": ["Set up the repo`)
	require.NoError(t, err)
	_, ok := obj["week1"]
	assert.True(t, ok)
}

func TestLenientJSON_TruncatedDanglingKey(t *testing.T) {
	obj, err := LenientJSON(`{"week1": {"tasks": ["A"], "hours":`)
	require.NoError(t, err)
	_, ok := obj["week1"]
	assert.True(t, ok)
}

func TestLenientJSON_NoJSON(t *testing.T) {
	_, err := LenientJSON("I could not produce a schedule, sorry.")
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

func TestRepairJSON_BalancedUntouched(t *testing.T) {
	in := `{"a": [1, 2], "b": {"c": true}}`
	assert.JSONEq(t, in, RepairJSON(in))
}

func TestSplitList_Newlines(t *testing.T) {
	items := SplitList("Learn Go basics\nBuild a prototype\nWrite tests")
	assert.Equal(t, []string{"Learn Go basics", "Build a prototype", "Write tests"}, items)
}

func TestSplitList_Semicolons(t *testing.T) {
	items := SplitList("HTML; CSS; JavaScript")
	assert.Equal(t, []string{"HTML", "CSS", "JavaScript"}, items)
}

func TestSplitList_NumberedMarkers(t *testing.T) {
	items := SplitList("1. Learn the basics\n2) Build something\n- Ship it\n• Reflect")
	assert.Equal(t, []string{"Learn the basics", "Build something", "Ship it", "Reflect"}, items)
}

func TestSplitList_DropsEmptyAndNumericLines(t *testing.T) {
	items := SplitList("Learn Go\n\n42\n   \n3.\nShip it")
	assert.Equal(t, []string{"Learn Go", "Ship it"}, items)
}

func TestSplitList_Empty(t *testing.T) {
	assert.Empty(t, SplitList(""))
	assert.Empty(t, SplitList("   \n  "))
}

func TestDecodeAs_WeaklyTyped(t *testing.T) {
	type estimate struct {
		EstimatedHours int    `json:"estimated_hours"`
		TimelineWeeks  int    `json:"timeline_weeks"`
		Commitment     string `json:"weekly_commitment"`
	}

	out, err := DecodeAs[estimate](map[string]any{
		"estimated_hours":   "80",
		"timeline_weeks":    float64(8),
		"weekly_commitment": "8-10 hours",
	})
	require.NoError(t, err)
	assert.Equal(t, 80, out.EstimatedHours)
	assert.Equal(t, 8, out.TimelineWeeks)
	assert.Equal(t, "8-10 hours", out.Commitment)
}

func TestOutputs_Accessors(t *testing.T) {
	out := Outputs{
		"project_type":    " web-app ",
		"timeline_weeks":  "8",
		"has_background":  "True",
		"resources":       "Go tour; Effective Go",
		"milestones":      []any{map[string]any{"title": "Setup"}, "not-a-map"},
		"weekly_schedule": map[string]any{"week1": map[string]any{}},
	}

	assert.Equal(t, "web-app", out.String("project_type", "unknown"))
	assert.Equal(t, "unknown", out.String("missing", "unknown"))
	assert.Equal(t, 8, out.Int("timeline_weeks", 0))
	assert.Equal(t, 4, out.Int("missing", 4))
	assert.True(t, out.Bool("has_background", false))
	assert.Equal(t, []string{"Go tour", "Effective Go"}, out.StringList("resources"))
	assert.Len(t, out.MapList("milestones"), 1)
	assert.Len(t, out.Map("weekly_schedule"), 1)
	assert.Empty(t, out.Map("missing"))
}
