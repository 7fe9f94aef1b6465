package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("WORKLOG_STORE_URL", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestManpowerCommand(t *testing.T) {
	input := writeFile(t, "A866.csv", "zone division,MAC hour,tiêu đề các task\n100,4,Inspect skin panels\n100,4,Replace frame doubler\n100,,Close access\n")

	output, err := execute(t, "manpower", "--input", input, "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, output, `Work package "A866.csv" includes the following major items:`)
	assert.Contains(t, output, "1. Replace frame doubler")
	assert.Contains(t, output, "; [ME128=2, MEC=2]")
	assert.Contains(t, output, "Tasks: 3 ; estimated duration: 1 day(s)")
}

func TestManpowerCommand_Errors(t *testing.T) {
	tests := map[string]struct {
		args     []string
		contains string
	}{
		"BadFormat":    {args: []string{"manpower", "--input", "x.csv", "--format", "xml"}, contains: "format must be one of"},
		"MissingFile":  {args: []string{"manpower", "--input", filepath.Join(t.TempDir(), "none.csv"), "--format", "text"}, contains: "error opening file"},
		"NegativeHour": {args: []string{"manpower", "--input", writeFile(t, "neg.csv", "zone,hours\n100,-2\n"), "--format", "text"}, contains: "negative hours"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestDashboardCommand(t *testing.T) {
	input := writeFile(t, "logs.csv", "Date,AircraftType,Airport,Flights,ManHours\n2024-01-05,A320,SGN,2,10\n2024-01-06,A320,HAN,1,5\n2024-02-01,B787,SGN,5,20\n")

	output, err := execute(t, "dashboard", "--input", input, "--group", "aircraft", "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "Label,Flights,Man Hours,Records\nA320,3,15,2\nB787,5,20,1\n", output)
}

func TestWorkPackCommands(t *testing.T) {
	file := filepath.Join(t.TempDir(), "packs.yaml")

	output, err := execute(t, "workpack", "add", "--file", file, "--title", "Wheel change", "--aircraft", "A321", "--task", "Jack aircraft", "--task", "Replace wheel")
	require.NoError(t, err)
	assert.Regexp(t, `Added WP-\d{4}-001 with 2 task\(s\)`, output)

	output, err = execute(t, "workpack", "list", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, output, "Wheel change ; A321 ; Pending Review ; tasks=0/2")

	_, err = execute(t, "workpack", "evaluate", "--file", file)
	assert.ErrorContains(t, err, "give work pack ids or --all")
}
