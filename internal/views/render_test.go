package views

import (
	"strings"
	"testing"
)

func TestRenderAppIncludesPanesAndChrome(t *testing.T) {
	out := RenderApp(AppData{
		Header:     "inkquest | view: Quests | streak: 3",
		LeftPane:   "left-pane-content",
		RightPane:  "right-pane-content",
		StatusLine: "status: completed: Morning stretch",
		Footer:     "keys: 1 dash",
	})
	for _, want := range []string{
		"inkquest | view: Quests | streak: 3",
		"left-pane-content",
		"right-pane-content",
		"status: completed: Morning stretch",
		"keys: 1 dash",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderAppOmitsEmptyChrome(t *testing.T) {
	bare := RenderApp(AppData{Header: "h", LeftPane: "body"})
	withFooter := RenderApp(AppData{Header: "h", LeftPane: "body", Footer: "keys"})

	bareLines := len(strings.Split(bare, "\n"))
	footerLines := len(strings.Split(withFooter, "\n"))
	if footerLines != bareLines+1 {
		t.Fatalf("footer should add exactly one line: bare=%d footer=%d", bareLines, footerLines)
	}
}

func TestRenderAppSinglePaneUsesFullWidth(t *testing.T) {
	split := RenderApp(AppData{LeftPane: "left", RightPane: "right"})
	full := RenderApp(AppData{LeftPane: "left"})

	if width(split) != width(full) {
		t.Fatalf("single-pane frame width %d, split frame width %d", width(full), width(split))
	}
	if strings.Contains(full, "right") {
		t.Fatal("single-pane frame should not render a right pane")
	}
}

func width(frame string) int {
	max := 0
	for _, line := range strings.Split(frame, "\n") {
		if n := len([]rune(line)); n > max {
			max = n
		}
	}
	return max
}

func TestRenderAppErrorStatusStillCarriesText(t *testing.T) {
	out := RenderApp(AppData{
		LeftPane:      "body",
		StatusLine:    "status: invalid target",
		StatusIsError: true,
	})
	if !strings.Contains(out, "status: invalid target") {
		t.Fatalf("error status text missing:\n%s", out)
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	if out := RenderMarkdown("   \n"); out != "" {
		t.Fatalf("expected empty render, got %q", out)
	}
}
