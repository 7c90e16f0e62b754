package ui

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
)

var errProgramNotSet = errors.New("program not set")

// Pager shows long content in ov while the tea program has released the terminal
type Pager interface {
	Show(content string) error
}

// OvPager is the ov backed Pager
type OvPager struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewOvPager creates a pager; SetProgram must be called before Show
func NewOvPager() *OvPager {
	return &OvPager{}
}

// SetProgram sets the program whose terminal is released while paging
func (p *OvPager) SetProgram(program *tea.Program) {
	p.program = program
}

// Show runs ov over content until the user quits it
func (p *OvPager) Show(content string) error {
	if p.program == nil {
		return errProgramNotSet
	}

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// let ov leave the alternate screen before tea takes it back
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	return root.Run()
}
