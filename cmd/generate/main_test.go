package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/DenisKhanov/CandleArticles/internal/articles/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, args ...string) (options, string, error) {
	t.Helper()
	var got options
	cmd := newRootCmd(func(_ context.Context, opts options, out io.Writer) error {
		got = opts
		_, err := io.WriteString(out, "done")
		return err
	})

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return got, buf.String(), err
}

func TestRootCmd_ParsesFlags(t *testing.T) {
	got, out, err := executeRoot(t, "--topic", "Свеча для медитации", "--candle", "calm", "--lang", "en", "--save")
	require.NoError(t, err)

	assert.Equal(t, options{
		topic:      "Свеча для медитации",
		candleType: "calm",
		language:   "en",
		save:       true,
	}, got)
	assert.Equal(t, "done", out)
}

func TestRootCmd_Defaults(t *testing.T) {
	got, _, err := executeRoot(t, "--prompt", "Напиши статью")
	require.NoError(t, err)

	assert.Equal(t, "ru", got.language)
	assert.Equal(t, "Напиши статью", got.customPrompt)
	assert.False(t, got.save)
}

func TestRootCmd_Rejections(t *testing.T) {
	tests := map[string][]string{
		"positional argument":  {"extra"},
		"unknown flag":         {"--title", "x"},
		"prompt with template": {"--prompt", "p", "--template", "gift-guide"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := executeRoot(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestRootCmd_ReturnsRunnerError(t *testing.T) {
	want := errors.New("generation failed")
	cmd := newRootCmd(func(context.Context, options, io.Writer) error { return want })
	cmd.SetArgs([]string{"--topic", "x"})

	assert.ErrorIs(t, cmd.ExecuteContext(context.Background()), want)
}

func TestRootCmd_Help(t *testing.T) {
	_, out, err := executeRoot(t, "--help")
	require.NoError(t, err)

	for _, flag := range []string{"--topic", "--candle", "--lang", "--prompt", "--template", "--save"} {
		assert.Contains(t, out, flag)
	}
}

func TestWriteJSON(t *testing.T) {
	buf := new(bytes.Buffer)
	err := writeJSON(buf, output{
		GeneratedArticle: models.GeneratedArticle{Title: "Свеча & покой"},
		ID:               "42",
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"Свеча & покой"`)
	assert.Contains(t, buf.String(), `"id": "42"`)
}
