package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/protodesk/internal/client/client"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	readFile      = os.ReadFile
)

var (
	errNotPermitted = errors.New("not permitted")
	errNoSuchPage   = errors.New("no such page")
)

func usage(s string) error {
	return fmt.Errorf("usage: %s", s)
}

func parseID(args []string, use string) (int64, error) {
	if len(args) != 1 {
		return 0, usage(use)
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

// ask prompts for a value showing the current one; an empty answer keeps it.
func (a *App) ask(label, current string) (string, error) {
	p := label
	if current != "" {
		p = fmt.Sprintf("%s [%s]", label, current)
	}
	s, err := getSimpleText(a.reader, p, a.out)
	if err != nil {
		return "", err
	}
	if s == "" {
		return current, nil
	}
	return s, nil
}

func (a *App) askBool(label string, current bool) (bool, error) {
	def := "n"
	if current {
		def = "y"
	}
	for {
		s, err := a.ask(label+" (y/n)", def)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(s) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(a.out, "Please answer y or n.")
	}
}

// askID reads an optional numeric id; "-" clears it.
func (a *App) askID(label string, current int64) (int64, error) {
	cur := ""
	if current != 0 {
		cur = strconv.FormatInt(current, 10)
	}
	for {
		s, err := a.ask(label, cur)
		if err != nil {
			return 0, err
		}
		if s == "" || s == "-" {
			return 0, nil
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err == nil && id > 0 {
			return id, nil
		}
		fmt.Fprintf(a.out, "%q is not a valid id.\n", s)
	}
}

// askFile reads an optional attachment path and loads the file.
func (a *App) askFile(label string) (*client.File, error) {
	for {
		path, err := getSimpleText(a.reader, label+" (path, empty to skip)", a.out)
		if err != nil {
			return nil, err
		}
		if path == "" {
			return nil, nil
		}
		data, err := readFile(path)
		if err == nil {
			return &client.File{Name: filepath.Base(path), Data: data}, nil
		}
		fmt.Fprintf(a.out, "Cannot read %s: %v\n", path, err)
	}
}

func (a *App) confirm(question string) (bool, error) {
	return a.askBool(question, false)
}
