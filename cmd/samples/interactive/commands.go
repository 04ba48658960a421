package main

import (
	"errors"
	"fmt"
	"strings"
)

// command is an entry of the session menu.
type command int

const (
	cmdInvalid command = iota
	cmdSearch
	cmdClick
	cmdScroll
	cmdGoto
	cmdScreenshot
	cmdCustom
	cmdQuit
)

type menuEntry struct {
	cmd   command
	name  string
	label string
	ask   string
}

var menu = []menuEntry{
	{cmdSearch, "search", "search <product> - Search for a product", "🔍 Product to search for: "},
	{cmdClick, "click", "click <element> - Click an element", "🖱️ Element to click: "},
	{cmdScroll, "scroll", "scroll <direction> - Scroll the page", "📜 Direction (up/down): "},
	{cmdGoto, "goto", "goto <url> - Open a URL", "🌐 URL: "},
	{cmdScreenshot, "screenshot", "screenshot - Save a screenshot", ""},
	{cmdCustom, "custom", "custom - Type any instruction", "⌨️ Instruction: "},
	{cmdQuit, "quit", "quit - Leave interactive mode", ""},
}

// parseCommand accepts a menu number or a command name, optionally
// followed by its argument, as in "search coffee maker".
func parseCommand(input string) (command, string) {
	head, arg, _ := strings.Cut(strings.TrimSpace(input), " ")
	head = strings.ToLower(head)
	arg = strings.TrimSpace(arg)
	if head == "exit" {
		return cmdQuit, ""
	}
	for i, e := range menu {
		if head == e.name || head == fmt.Sprint(i+1) {
			return e.cmd, arg
		}
	}
	return cmdInvalid, ""
}

func entryFor(cmd command) menuEntry {
	for _, e := range menu {
		if e.cmd == cmd {
			return e
		}
	}
	return menuEntry{}
}

var errEmptyArgument = errors.New("nothing entered")

// actPrompt turns a model-driven command and its argument into an
// instruction.
func actPrompt(cmd command, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", errEmptyArgument
	}
	switch cmd {
	case cmdSearch:
		return "search for " + arg, nil
	case cmdClick:
		return "click on " + arg, nil
	case cmdScroll:
		dir := strings.ToLower(arg)
		if dir != "up" && dir != "down" {
			return "", fmt.Errorf("scroll direction must be up or down, got %q", arg)
		}
		return "scroll " + dir, nil
	case cmdCustom:
		return arg, nil
	default:
		return "", fmt.Errorf("command %d has no instruction", cmd)
	}
}

// defaultYes reads a (Y/n) answer. Only an explicit no declines.
func defaultYes(answer string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	return a != "n" && a != "no"
}
