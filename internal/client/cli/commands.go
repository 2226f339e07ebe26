package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

// Test seams for user-facing input and output.
var (
	printlnFn     = fmt.Println
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// report prints a command failure in a form fit for the user.
func (a *App) report(err error) {
	var apiErr *client.APIError
	switch {
	case err == nil:
	case errors.Is(err, client.ErrNotLoggedIn):
		a.println("You are not logged in.")
	case errors.Is(err, client.ErrUnavailable):
		a.println("Server unavailable, try again later.")
	case errors.As(err, &apiErr):
		for _, m := range apiErr.Messages {
			a.println("Error:", m)
		}
		if len(apiErr.Messages) == 0 {
			a.println("Error:", apiErr.Error())
		}
	default:
		a.println("Error:", err)
	}
}

func (a *App) readCredentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

func (a *App) Register(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer wipe(password)

	u, err := a.api.Register(ctx, email, string(password))
	if err != nil {
		return err
	}
	a.println("Registered", u.Email, "- you can log in now.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer wipe(password)

	if err := a.api.Login(ctx, email, string(password)); err != nil {
		return err
	}
	a.email = email
	a.println("Login successful")
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.api.Refresh(ctx); err != nil {
		return err
	}
	a.println("Tokens refreshed")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	err := a.api.Logout(ctx)
	a.email = ""
	if err != nil {
		return err
	}
	a.println("Logged out")
	return nil
}

func (a *App) List(ctx context.Context) error {
	notes, err := a.api.ListNotes(ctx)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		a.println("No notes yet.")
		return nil
	}
	for _, n := range notes {
		a.println(n.Summary())
	}
	return nil
}

func (a *App) AddNote(ctx context.Context) error {
	note, err := a.readNote()
	if err != nil {
		return err
	}
	saved, err := a.api.SaveNote(ctx, note)
	if err != nil {
		return err
	}
	a.println("Saved note", saved.ID)
	return nil
}

// EditNote replaces title, content and color of an existing note.
func (a *App) EditNote(ctx context.Context, id string) error {
	note, err := a.readNote()
	if err != nil {
		return err
	}
	note.ID = id
	saved, err := a.api.SaveNote(ctx, note)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			a.println("No such note:", id)
			return nil
		}
		return err
	}
	a.println("Updated note", saved.ID)
	return nil
}

func (a *App) DeleteNote(ctx context.Context, id string) error {
	if err := a.api.DeleteNote(ctx, id); err != nil {
		if errors.Is(err, client.ErrNotFound) {
			a.println("No such note:", id)
			return nil
		}
		return err
	}
	a.println("Deleted note", id)
	return nil
}

func (a *App) readNote() (*models.Note, error) {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return nil, err
	}
	content, err := getMultiline(a.reader, "Content", a.out)
	if err != nil {
		return nil, err
	}
	colorText, err := getSimpleText(a.reader, "Color (number, empty for 0)", a.out)
	if err != nil {
		return nil, err
	}

	var color int64
	if colorText != "" {
		color, err = strconv.ParseInt(colorText, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid color %q", colorText)
		}
	}
	return &models.Note{Title: title, Content: content, Color: color}, nil
}
