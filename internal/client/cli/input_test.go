package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("a\nb\n\n\n"))
	var out bytes.Buffer
	got, err := GetMultiline(in, "Enter text", &out)
	if err != nil {
		t.Fatal(err)
	}
	want := "a\nb"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetPassword(&out)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "simple", input: "a,b", expected: []string{"a", "b"}},
		{name: "spaces and blanks", input: " kind , ,funny,, ", expected: []string{"kind", "funny"}},
		{name: "empty gives empty slice", input: "", expected: []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, SplitList(tc.input))
		})
	}
}

func TestParseOptional(t *testing.T) {
	i, err := ParseOptionalInt(" ")
	require.NoError(t, err)
	assert.Nil(t, i)

	i, err = ParseOptionalInt("31")
	require.NoError(t, err)
	assert.Equal(t, 31, *i)

	_, err = ParseOptionalInt("x")
	require.Error(t, err)

	f, err := ParseOptionalFloat("12.5")
	require.NoError(t, err)
	assert.InDelta(t, 12.5, *f, 1e-9)

	f, err = ParseOptionalFloat("")
	require.NoError(t, err)
	assert.Nil(t, f)

	_, err = ParseOptionalFloat("ten")
	require.Error(t, err)
}
