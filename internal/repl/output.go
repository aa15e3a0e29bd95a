package repl

import (
	"fmt"

	"github.com/notexe/nevermiss/internal/reminder"
)

func (r *REPL) displayError(err error) {
	fmt.Fprintln(r.out, r.formatter.FormatError(err))
	fmt.Fprintln(r.out)
}

func (r *REPL) displayWelcome() {
	fmt.Fprint(r.out, r.formatter.FormatWelcome(r.config.GetProviderConfig().Model.Name, r.state.Store().Path()))
	if !r.state.APIEnabled() {
		r.displayNotice()
	}
}

// displayNotice repeats the credential notice; it is not a transient error.
func (r *REPL) displayNotice() {
	fmt.Fprintln(r.out, r.formatter.FormatNotice(r.state.Notice()))
	fmt.Fprintln(r.out)
}

func (r *REPL) displayDraft(d *reminder.Draft) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.formatter.FormatDraft(d))
	fmt.Fprintln(r.out)
}

func (r *REPL) displayHelp() {
	fmt.Fprint(r.out, r.formatter.FormatHelp())
}

func (r *REPL) displayInfo(msg string) {
	fmt.Fprintln(r.out, r.formatter.FormatInfo(msg))
	fmt.Fprintln(r.out)
}

func (r *REPL) displaySuccess(msg string) {
	fmt.Fprintln(r.out, r.formatter.FormatSuccess(msg))
	fmt.Fprintln(r.out)
}
