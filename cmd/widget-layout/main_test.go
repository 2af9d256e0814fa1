package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcatz/widget-layout/internal/config"
	"github.com/wcatz/widget-layout/internal/layout"
	"github.com/wcatz/widget-layout/internal/session"
)

func alertsTemplate(h int) layout.Template {
	t := layout.NewTemplate()
	t[layout.XL] = []layout.Item{{ID: "alerts#1", W: 2, H: h, Title: "Alerts"}}
	return layout.Normalize(t)
}

func TestReloadTemplateSkipsOwnSave(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "template.yaml")
	store := config.NewTemplateStore(path)

	sess := session.New(session.Options{
		Catalog: layout.NewCatalog(layout.Entry{Type: "alerts", Defaults: layout.Defaults{W: 2, H: 3}}),
		Logger:  logger,
	})
	t.Cleanup(sess.Close)
	require.NoError(t, sess.Mount(1600))

	a := alertsTemplate(3)
	require.NoError(t, sess.SetTemplate(a))
	require.NoError(t, store.Save(a))

	// a newer commit whose save has not reached the file yet
	b := alertsTemplate(5)
	require.NoError(t, sess.SetTemplate(b))

	reload := reloadTemplate(store, sess, logger)
	reload()
	got, err := sess.Template()
	require.NoError(t, err)
	assert.True(t, got.Equal(b), "reloading our own save must not revert the session")

	edited := []byte("xl:\n  - { i: \"alerts#1\", x: 0, y: 0, w: 2, h: 7, title: Alerts }\n")
	require.NoError(t, os.WriteFile(path, edited, 0o644))
	reload()
	got, err = sess.Template()
	require.NoError(t, err)
	require.Len(t, got[layout.XL], 1)
	assert.Equal(t, 7, got[layout.XL][0].H)
}

func TestReloadTemplateReportsBadFile(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "template.yaml")
	store := config.NewTemplateStore(path)
	sess := session.New(session.Options{Logger: logger})
	t.Cleanup(sess.Close)

	a := alertsTemplate(3)
	require.NoError(t, sess.SetTemplate(a))
	require.NoError(t, os.WriteFile(path, []byte("xxl: []\n"), 0o644))

	reloadTemplate(store, sess, logger)()
	got, err := sess.Template()
	require.NoError(t, err)
	assert.True(t, got.Equal(a))
}
