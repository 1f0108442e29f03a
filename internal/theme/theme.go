package theme

import (
	"bufio"
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/xmtp/xmtp-dot-org/internal/config"
)

// StylesheetRoute is where the generated highlighting stylesheet is written.
const StylesheetRoute = "assets/css/highlight.css"

// prismStyles maps prism-react-renderer theme names onto chroma styles.
var prismStyles = map[string]string{
	"github":        "github",
	"dracula":       "dracula",
	"vsDark":        "vs",
	"vsLight":       "vs",
	"okaidia":       "monokai",
	"nightOwl":      "native",
	"nightOwlLight": "friendly",
	"oceanicNext":   "paraiso-dark",
	"palenight":     "onedark",
	"duotoneDark":   "rrt",
	"duotoneLight":  "xcode",
	"synthwave84":   "fruity",
	"ultramin":      "bw",
}

// Theme is the resolved color mode and code highlighting setup.
type Theme struct {
	DefaultMode   string
	DisableSwitch bool
	LightStyle    string
	DarkStyle     string
	light, dark   *chroma.Style
}

// New resolves the configured palettes. Unknown names fall back to chroma's
// default style and are reported as warnings.
func New(cfg config.Theme) (Theme, []string) {
	var warnings []string
	t := Theme{
		DefaultMode:   cfg.ColorMode.DefaultMode,
		DisableSwitch: cfg.ColorMode.DisableSwitch,
	}
	if t.DefaultMode == "" {
		t.DefaultMode = "light"
	}

	lightName := cfg.Prism.Theme
	if lightName == "" {
		lightName = "github"
	}
	darkName := cfg.Prism.DarkTheme
	if darkName == "" {
		darkName = lightName
	}

	var w string
	t.LightStyle, t.light, w = lookup(lightName)
	if w != "" {
		warnings = append(warnings, w)
	}
	t.DarkStyle, t.dark, w = lookup(darkName)
	if w != "" {
		warnings = append(warnings, w)
	}
	for _, lang := range cfg.Prism.AdditionalLanguages {
		if lexers.Get(lang) == nil {
			warnings = append(warnings, fmt.Sprintf("no highlighter for language %q", lang))
		}
	}
	return t, warnings
}

func lookup(name string) (string, *chroma.Style, string) {
	chromaName := name
	if mapped, ok := prismStyles[name]; ok {
		chromaName = mapped
	}
	if s, ok := styles.Registry[chromaName]; ok {
		return chromaName, s, ""
	}
	return styles.Fallback.Name, styles.Fallback, fmt.Sprintf("unknown code theme %q, using %q", name, styles.Fallback.Name)
}

// CSS renders the highlighting stylesheet: the light palette applies by
// default and the dark palette under [data-theme='dark'].
func (t Theme) CSS() ([]byte, error) {
	f := html.New(html.WithClasses(true))
	var light, dark bytes.Buffer
	if err := f.WriteCSS(&light, t.light); err != nil {
		return nil, fmt.Errorf("write light palette: %w", err)
	}
	if err := f.WriteCSS(&dark, t.dark); err != nil {
		return nil, fmt.Errorf("write dark palette: %w", err)
	}
	var out bytes.Buffer
	out.Write(light.Bytes())
	out.WriteString(scope(dark.String(), "[data-theme='dark']"))
	return out.Bytes(), nil
}

// scope prefixes every rule selector of chroma's CSS output.
func scope(css, prefix string) string {
	var b strings.Builder
	sc := bufio.NewScanner(strings.NewReader(css))
	for sc.Scan() {
		line := sc.Text()
		sel := line
		comment := ""
		if i := strings.Index(line, "*/ "); i >= 0 {
			comment, sel = line[:i+3], line[i+3:]
		}
		if strings.HasPrefix(strings.TrimSpace(sel), ".") {
			sel = prefix + " " + strings.TrimSpace(sel)
		}
		b.WriteString(comment + sel + "\n")
	}
	return b.String()
}

// BootstrapScript sets data-theme before first paint. With the switch
// enabled a stored preference wins over the default mode.
func (t Theme) BootstrapScript() template.HTML {
	if t.DisableSwitch {
		return template.HTML(fmt.Sprintf(
			`<script>document.documentElement.setAttribute("data-theme",%q);</script>`, t.DefaultMode))
	}
	return template.HTML(fmt.Sprintf(`<script>(function(){var t=%q;try{var s=localStorage.getItem("theme");if(s==="light"||s==="dark"){t=s}}catch(e){}document.documentElement.setAttribute("data-theme",t)})();</script>`, t.DefaultMode))
}
