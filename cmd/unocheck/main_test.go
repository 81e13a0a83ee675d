package main

import (
	"bytes"
	"context"
	"image"
	imgcolor "image/color"
	"strings"
	"testing"

	"github.com/WIZARDISHUNGRY/uno-await/internal/colorclass"
	"github.com/WIZARDISHUNGRY/uno-await/internal/config"
	"github.com/WIZARDISHUNGRY/uno-await/internal/sequence"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestEnvFileArg(t *testing.T) {
	for _, tc := range []struct {
		args []string
		want string
	}{
		{nil, config.DefaultEnvFile},
		{[]string{"-dir", "x"}, config.DefaultEnvFile},
		{[]string{"-env", "a.env"}, "a.env"},
		{[]string{"-dir", "x", "--env=b.env", "-show"}, "b.env"},
	} {
		require.Equal(t, tc.want, envFileArg(tc.args), "%v", tc.args)
	}
}

func TestExitCode(t *testing.T) {
	require.Equal(t, exitOK, exitCode(nil, true))
	require.Equal(t, exitIllegal, exitCode(nil, false))
	require.Equal(t, exitFailure, exitCode(errors.New("recognizer gone"), false))
	require.Equal(t, exitInterrupted, exitCode(errors.Wrap(context.Canceled, "Card_3.jpg"), false))
}

func TestVerdictFrame(t *testing.T) {
	for ok, want := range map[bool]imgcolor.RGBA{true: fitColor, false: illegalColor} {
		img := verdictFrame(ok)
		require.Equal(t, image.Rect(0, 0, 64, 96), img.Bounds())
		require.Equal(t, want, imgcolor.RGBAModel.Convert(img.At(10, 20)))
	}
}

type runes struct{ r *strings.Reader }

func (r runes) ReadRune() (rune, error) {
	c, _, err := r.r.ReadRune()
	return c, err
}

func TestScanKeys(t *testing.T) {
	var out bytes.Buffer
	stopped := 0
	v := sequence.New(colorclass.New(), nil)
	keys := keyMap(&out, v, func() { stopped++ })

	scanKeys(context.Background(), runes{strings.NewReader("?xs\x03q")}, keys)
	require.Equal(t, 2, stopped)
	require.Contains(t, out.String(), "'s': Show run status")
	require.Contains(t, out.String(), "'q': Stop checking")
	require.Contains(t, out.String(), "0 cards read")
}
