package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/studynotes/internal/client/session"
)

func (a *App) getStatus() string {
	st := a.session.CurrentState()
	switch st.Phase {
	case session.PhaseValidating:
		return "(validating)"
	case session.PhaseAuthenticated:
		if st.User != nil {
			return fmt.Sprintf("(%s)", st.User.Email)
		}
		return "(authenticated)"
	default:
		return ""
	}
}

// Root runs the command loop until the user exits or input ends.
func (a *App) Root(ctx context.Context) {

	fmt.Fprintln(a.out, "Welcome to StudyNotes CLI (type 'help' for commands)")

	for {
		fmt.Fprintf(a.out, "sn %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			break
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(a.out, "Available commands: notes, show, profile, password, logout, exit")
			} else {
				fmt.Fprintln(a.out, "Available commands: register, login, exit")
			}

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "notes":
			a.ShowNotes(ctx)
		case "show":
			a.ShowNote(ctx)
		case "profile":
			a.UpdateProfile(ctx)
		case "password":
			a.ChangePassword(ctx)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}

}
