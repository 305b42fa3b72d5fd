package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/josephgoksu/QuestWing/internal/config"
	"github.com/josephgoksu/QuestWing/internal/ui"
	"github.com/josephgoksu/QuestWing/internal/util"
)

// PrintError reports a command failure on stderr. Verbose mode prints the
// wrapped error chain instead of the short message.
func PrintError(userMsg string, technicalErr error) {
	printError(os.Stderr, userMsg, technicalErr)
}

func printError(w io.Writer, userMsg string, technicalErr error) {
	if viper.GetBool("verbose") && technicalErr != nil {
		fmt.Fprintf(w, "%s %+v\n", ui.StyleError.Render("Error:"), technicalErr)
	} else {
		fmt.Fprintln(w, ui.StyleError.Render(userMsg))
	}
	if hint := errorHint(technicalErr); hint != "" {
		fmt.Fprintln(w, ui.StyleSubtle.Render("  "+hint))
	}
}

// errorHint suggests a next step for errors users can fix themselves.
func errorHint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, util.ErrAmbiguousID):
		return "Use more of the quest id, or the full quest name."
	case errors.Is(err, config.ErrConfigExists):
		return "Pass --force to overwrite it."
	case configErr != nil && errors.Is(err, configErr):
		return "Check the config file, or run 'questwing doctor'."
	}
	return ""
}
