package tui

import (
	"sort"

	tea "github.com/charmbracelet/bubbletea"
)

type KeyHandler func(m Model, key string) (Model, tea.Cmd, bool)

type KeyBinding struct {
	Key         string
	Handler     KeyHandler
	Description string
	Priority    int
}

type HandlerRegistry struct {
	bindings []KeyBinding
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{}
}

func (r *HandlerRegistry) Register(b KeyBinding) {
	r.bindings = append(r.bindings, b)
	sort.SliceStable(r.bindings, func(i, j int) bool {
		return r.bindings[i].Priority > r.bindings[j].Priority
	})
}

func (r *HandlerRegistry) Handle(m Model, key string) (Model, tea.Cmd, bool) {
	for _, b := range r.bindings {
		if b.Key == key {
			next, cmd, handled := b.Handler(m, key)
			if handled {
				return next, cmd, true
			}
		}
	}
	return m, nil, false
}

// Help lists bindings that carry a description, highest priority first.
func (r *HandlerRegistry) Help() []KeyBinding {
	var out []KeyBinding
	for _, b := range r.bindings {
		if b.Description != "" {
			out = append(out, b)
		}
	}
	return out
}

func defaultRegistry() *HandlerRegistry {
	r := NewHandlerRegistry()
	r.Register(KeyBinding{Key: "ctrl+c", Handler: handleQuit, Priority: 100})
	r.Register(KeyBinding{Key: "q", Handler: handleQuit, Description: "quit", Priority: 10})
	r.Register(KeyBinding{Key: "n", Handler: handleStartAdd, Description: "new task", Priority: 50})
	r.Register(KeyBinding{Key: " ", Handler: handleToggle, Description: "start/pause", Priority: 40})
	r.Register(KeyBinding{Key: "space", Handler: handleToggle, Priority: 40})
	r.Register(KeyBinding{Key: "d", Handler: handleRemove, Description: "delete", Priority: 30})
	r.Register(KeyBinding{Key: "j", Handler: handleDown, Priority: 20})
	r.Register(KeyBinding{Key: "down", Handler: handleDown, Priority: 20})
	r.Register(KeyBinding{Key: "k", Handler: handleUp, Priority: 20})
	r.Register(KeyBinding{Key: "up", Handler: handleUp, Priority: 20})
	return r
}
