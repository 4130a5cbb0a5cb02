package cli

import (
	"bytes"
	"testing"

	"github.com/Makepad-fr/todogui/internal/ui"
)

func TestHoldConsole(t *testing.T) {
	tests := []struct {
		name      string
		hold      bool
		beforeOut string
		beforeErr string
	}{
		{"held until release", true, "", ""},
		{"pass through", false, "ok line\n", "error: line\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui.SetTheme("mono")
			var out, errOut bytes.Buffer
			view, release := holdConsole(ui.Console{Out: &out, Err: &errOut}, tt.hold)
			view.OK("line")
			view.Fail("line")
			if out.String() != tt.beforeOut || errOut.String() != tt.beforeErr {
				t.Errorf("before release: stdout=%q stderr=%q", out.String(), errOut.String())
			}

			release()
			release()
			view.OK("after")
			if got := out.String(); got != "ok line\nok after\n" {
				t.Errorf("stdout = %q", got)
			}
			if got := errOut.String(); got != "error: line\n" {
				t.Errorf("stderr = %q", got)
			}
		})
	}
}
