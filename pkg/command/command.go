// Package command dispatches bot commands typed into chat channels.
package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gimlet-io/hookcast/pkg/message"
	"github.com/pkg/errors"
)

// Context is the chat side of a command invocation. Replies go back to the
// channel the command was typed in.
type Context interface {
	UserName() string
	// UserReference is a mention of the invoking user in the format of the
	// originating chat network.
	UserReference() string
	SendMessage(msg *message.Message) error
}

type Command interface {
	// Names are the case-sensitive aliases the command is invoked with.
	Names() []string
	Execute(ctx Context, name string, args []string) error
}

type NoSuchCommandError struct {
	Name string
}

func (e *NoSuchCommandError) Error() string {
	return fmt.Sprintf("no such command: %s", e.Name)
}

// ParameterError means the command was invoked with invalid arguments. Usage
// is shown to the user.
type ParameterError struct {
	Usage string
	Err   error
}

func (e *ParameterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid parameters: %s, usage: %s", e.Err, e.Usage)
	}
	return "invalid parameters, usage: " + e.Usage
}

func (e *ParameterError) Unwrap() error {
	return e.Err
}

type ExecutionError struct {
	Command string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("command %s failed: %s", e.Command, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Dispatcher maps aliases to commands. It is immutable after construction.
type Dispatcher struct {
	commands map[string]Command
}

// NewDispatcher fails when two commands claim the same alias.
func NewDispatcher(commands ...Command) (*Dispatcher, error) {
	d := &Dispatcher{commands: map[string]Command{}}
	for _, c := range commands {
		for _, name := range c.Names() {
			if name == "" || strings.ContainsAny(name, " \t") {
				return nil, fmt.Errorf("invalid command alias %q", name)
			}
			if _, exists := d.commands[name]; exists {
				return nil, fmt.Errorf("duplicate command alias %q", name)
			}
			d.commands[name] = c
		}
	}
	return d, nil
}

// NewDefaultDispatcher registers the built-in commands next to commands.
func NewDefaultDispatcher(version string, commands ...Command) (*Dispatcher, error) {
	var d *Dispatcher
	builtins := []Command{
		Ping(),
		Version(version),
		Help(func() *Dispatcher { return d }),
	}

	d, err := NewDispatcher(append(builtins, commands...)...)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Dispatch runs the command registered for name. Errors other than
// *ParameterError are returned as *ExecutionError.
func (d *Dispatcher) Dispatch(ctx Context, name string, args []string) error {
	c, ok := d.commands[name]
	if !ok {
		return &NoSuchCommandError{Name: name}
	}

	err := c.Execute(ctx, name, args)
	if err == nil {
		return nil
	}

	var paramErr *ParameterError
	var execErr *ExecutionError
	if errors.As(err, &paramErr) || errors.As(err, &execErr) {
		return err
	}
	return &ExecutionError{Command: name, Err: err}
}

// Lookup returns the command registered for name.
func (d *Dispatcher) Lookup(name string) (Command, bool) {
	c, ok := d.commands[name]
	return c, ok
}

// Names lists every registered alias in lexical order.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.commands))
	for name := range d.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse splits a chat line into a command name and its arguments. ok is false
// when line does not start with prefix or names no command.
func Parse(prefix string, line string) (name string, args []string, ok bool) {
	if prefix == "" || !strings.HasPrefix(line, prefix) {
		return "", nil, false
	}

	fields := strings.Fields(strings.TrimPrefix(line, prefix))
	if len(fields) == 0 || strings.HasPrefix(line[len(prefix):], " ") {
		return "", nil, false
	}
	return fields[0], fields[1:], true
}
