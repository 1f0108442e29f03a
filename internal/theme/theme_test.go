package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xmtp/xmtp-dot-org/internal/config"
)

func TestNewMapsPrismThemes(t *testing.T) {
	th, warnings := New(config.Theme{
		ColorMode: config.ColorMode{DefaultMode: "light"},
		Prism:     config.Prism{Theme: "github", DarkTheme: "dracula", AdditionalLanguages: []string{"dart", "swift", "kotlin"}},
	})
	require.Empty(t, warnings)
	require.Equal(t, "github", th.LightStyle)
	require.Equal(t, "dracula", th.DarkStyle)
}

func TestNewWarnsOnUnknownNames(t *testing.T) {
	th, warnings := New(config.Theme{Prism: config.Prism{Theme: "nope", AdditionalLanguages: []string{"klingon"}}})
	require.Len(t, warnings, 3)
	require.Equal(t, th.LightStyle, th.DarkStyle)
	require.Equal(t, "light", th.DefaultMode)
}

func TestCSSScopesDarkPalette(t *testing.T) {
	th, _ := New(config.Theme{Prism: config.Prism{Theme: "github", DarkTheme: "dracula"}})
	css, err := th.CSS()
	require.NoError(t, err)
	out := string(css)
	require.Contains(t, out, ".chroma")
	require.Contains(t, out, "[data-theme='dark'] .chroma")
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "[data-theme='dark']") {
			require.NotContains(t, line, "[data-theme='dark'] [data-theme='dark']")
		}
	}
}

func TestScope(t *testing.T) {
	in := "/* Keyword */ .chroma .k { color: #ff79c6 }\n.bg { color: #fff }\n"
	require.Equal(t,
		"/* Keyword */ [data-theme='dark'] .chroma .k { color: #ff79c6 }\n[data-theme='dark'] .bg { color: #fff }\n",
		scope(in, "[data-theme='dark']"))
}

func TestBootstrapScript(t *testing.T) {
	locked := Theme{DefaultMode: "dark", DisableSwitch: true}.BootstrapScript()
	require.Contains(t, string(locked), `"dark"`)
	require.NotContains(t, string(locked), "localStorage")

	switchable := Theme{DefaultMode: "light"}.BootstrapScript()
	require.Contains(t, string(switchable), "localStorage")
}
