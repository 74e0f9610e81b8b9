package version_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/displaydoc/stringtest"
	"go.jacobcolvin.com/displaydoc/version"
)

func TestInfoPrint(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		info version.Info
		want string
	}{
		"full": {
			info: version.Info{
				Version:   "v1.2.3",
				Revision:  "abc",
				Branch:    "main",
				BuildUser: "ci",
				BuildDate: "2026-01-02",
				GoVersion: "go1.25.0",
				Platform:  "linux/amd64",
			},
			want: stringtest.Source(
				"version:    v1.2.3",
				"revision:   abc",
				"branch:     main",
				"build user: ci",
				"build date: 2026-01-02",
				"go version: go1.25.0",
				"platform:   linux/amd64",
			),
		},
		"omits empty": {
			info: version.Info{Version: "devel", Revision: "unknown", GoVersion: "go1.25.0", Platform: "linux/arm64"},
			want: stringtest.Source(
				"version:    devel",
				"revision:   unknown",
				"go version: go1.25.0",
				"platform:   linux/arm64",
			),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			require.NoError(t, tc.info.Print(&buf))
			assert.Equal(t, tc.want, buf.String())
		})
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	info := version.Get()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.Revision)
	assert.Equal(t, version.GoOS+"/"+version.GoArch, info.Platform)
}
