package templates

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DenisKhanov/CandleArticles/internal/articles/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `templates:
  - name: faq
    description: Ответы на частые вопросы
    prompt: "Напиши FAQ про {{topic}} в формате Markdown."
  - name: announcement
    description: Новость сервиса
    prompt: "Напиши короткую новость о запуске виртуальных свечей."
`

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
}

func TestStore_Resolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	writeFile(t, path, sample)
	store, err := Load(path)
	require.NoError(t, err)

	got, err := store.Resolve("faq", "  свечи памяти ")
	require.NoError(t, err)
	assert.Equal(t, "Напиши FAQ про свечи памяти в формате Markdown.", got)

	got, err = store.Resolve("announcement", "")
	require.NoError(t, err)
	assert.Equal(t, "Напиши короткую новость о запуске виртуальных свечей.", got)

	_, err = store.Resolve("faq", "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = store.Resolve("missing", "topic")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestStore_List(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	writeFile(t, path, sample)
	store, err := Load(path)
	require.NoError(t, err)

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "announcement", list[0].Name)
	assert.Equal(t, "faq", list[1].Name)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"no name":      "templates:\n  - prompt: text\n",
		"empty prompt": "templates:\n  - name: a\n    prompt: \"  \"\n",
		"duplicate":    "templates:\n  - name: a\n    prompt: x\n  - name: a\n    prompt: y\n",
		"broken yaml":  "templates: [",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prompts.yaml")
			writeFile(t, path, data)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestStore_ReloadKeepsPreviousOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	writeFile(t, path, sample)
	store, err := Load(path)
	require.NoError(t, err)

	writeFile(t, path, "templates: [")
	assert.Error(t, store.Reload())
	assert.Len(t, store.List(), 2)
}

func TestStore_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	writeFile(t, path, sample)
	store, err := Load(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, store.Watch(ctx))

	writeFile(t, path, "templates:\n  - name: guide\n    prompt: \"Гайд про {{topic}}\"\n")

	assert.Eventually(t, func() bool {
		got, err := store.Resolve("guide", "свечи")
		return err == nil && got == "Гайд про свечи"
	}, 5*time.Second, 50*time.Millisecond)
}
